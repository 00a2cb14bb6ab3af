package person_test

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-api/internal/domains/person"
	"bookshelf-api/internal/exposure"
)

type stubStorage struct{}

func (stubStorage) List(context.Context, exposure.ListParams) ([]exposure.Record, int, error) {
	return nil, 0, nil
}
func (stubStorage) Get(context.Context, string) (exposure.Record, error) {
	return nil, exposure.NewNotFound("Person")
}
func (stubStorage) Create(context.Context, map[string]any) (exposure.Record, error) {
	return nil, exposure.NewNotFound("Person")
}
func (stubStorage) Update(context.Context, string, map[string]any) (exposure.Record, error) {
	return nil, exposure.NewNotFound("Person")
}
func (stubStorage) Delete(context.Context, string) error { return nil }

type stubRecord map[string]any

func (r stubRecord) ResourceID() string         { return "p1" }
func (r stubRecord) Attributes() map[string]any { return r }

func operation(t *testing.T, r *exposure.Resource, name string) *exposure.Operation {
	t.Helper()
	for i := range r.Operations {
		if r.Operations[i].Name == name {
			return &r.Operations[i]
		}
	}
	t.Fatalf("operation %s not declared", name)
	return nil
}

func TestDescriptorHidesPassword(t *testing.T) {
	r := person.NewResource(stubStorage{}, "")

	f, ok := r.Field("password")
	require.True(t, ok)
	assert.False(t, f.Exposed)

	for _, f := range r.ExposedFields() {
		assert.NotEqual(t, "password", f.Name)
	}
}

func TestSendMailAppendsToSpool(t *testing.T) {
	spool := filepath.Join(t.TempDir(), "mail.txt")
	r := person.NewResource(stubStorage{}, spool)
	op := operation(t, r, "send_mail")
	require.Equal(t, []string{http.MethodPost}, op.Methods)

	oc := exposure.OpContext{
		Target: stubRecord{"name": "Anna"},
		Args:   map[string]any{"email": "hello there"},
	}
	result, err := op.Handler(context.Background(), oc)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"result": "sent Mail to Anna : hello there\n"}, result)

	raw, err := os.ReadFile(spool)
	require.NoError(t, err)
	assert.Equal(t, "Mail to Anna : hello there\n", string(raw))

	// A second call appends rather than truncates.
	_, err = op.Handler(context.Background(), oc)
	require.NoError(t, err)
	raw, err = os.ReadFile(spool)
	require.NoError(t, err)
	assert.Equal(t, "Mail to Anna : hello there\nMail to Anna : hello there\n", string(raw))
}

func TestSendMailRequiresEmailArg(t *testing.T) {
	r := person.NewResource(stubStorage{}, filepath.Join(t.TempDir(), "mail.txt"))
	op := operation(t, r, "send_mail")

	_, err := op.Handler(context.Background(), exposure.OpContext{
		Target: stubRecord{"name": "Anna"},
		Args:   map[string]any{},
	})
	require.Error(t, err)

	status, _, _ := exposure.MapErrorToHTTP(err)
	assert.Equal(t, http.StatusBadRequest, status)
}
