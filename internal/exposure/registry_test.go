package exposure_test

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-api/internal/exposure"
)

func TestRegisterRejectsBadDescriptors(t *testing.T) {
	tests := []struct {
		name     string
		resource *exposure.Resource
	}{
		{"missing name", &exposure.Resource{Collection: "Things", Storage: &memStorage{}}},
		{"missing collection", &exposure.Resource{Name: "Thing", Storage: &memStorage{}}},
		{"missing storage", &exposure.Resource{Name: "Thing", Collection: "Things"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := exposure.NewRegistry("/api")
			assert.Error(t, registry.Register(tt.resource))
		})
	}
}

func TestRegisterRejectsDuplicate(t *testing.T) {
	registry := exposure.NewRegistry("/api")
	r := &exposure.Resource{Name: "Thing", Collection: "Things", Storage: &memStorage{}}

	require.NoError(t, registry.Register(r))
	assert.Error(t, registry.Register(r))
}

func TestMountDerivesRouteTable(t *testing.T) {
	env, err := newTestEnv()
	require.NoError(t, err)

	got := map[string]bool{}
	for _, route := range env.registry.Routes() {
		got[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /Authors",
		"POST /Authors",
		"GET /Authors/:id",
		"PATCH /Authors/:id",
		"DELETE /Authors/:id",
		"GET /Authors/:id/novels",
		"POST /Authors/:id/shout",
		"GET /Authors/stats",
		"GET /Novels",
		"POST /Novels",
		"GET /Novels/:id",
		"GET /Novels/:id/author",
	}
	for _, want := range expected {
		assert.True(t, got[want], "missing route %s", want)
	}

	// The restricted resource must not derive update or delete.
	assert.False(t, got["PATCH /Novels/:id"])
	assert.False(t, got["DELETE /Novels/:id"])
}

func TestMountRejectsUnknownRelationshipTarget(t *testing.T) {
	registry := exposure.NewRegistry("/api")
	require.NoError(t, registry.Register(&exposure.Resource{
		Name:       "Thing",
		Collection: "Things",
		Relations:  []exposure.Relationship{{Name: "owner", Target: "Nobody"}},
		Storage:    &memStorage{},
	}))

	router := gin.New()
	err := registry.Mount(router.Group("/api"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Nobody")
}

func TestDisallowedVerbGets405(t *testing.T) {
	env, err := newTestEnv()
	require.NoError(t, err)
	env.seedNovel("n1", "First", "")

	w := env.request(http.MethodDelete, "/api/Novels/n1", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
