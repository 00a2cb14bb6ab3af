package exposure_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/jsonapi"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memRecord and memStorage back the registry with an in-memory store so
// the derived handlers can be exercised over httptest.

type memRecord struct {
	id    string
	attrs map[string]any
}

func (r *memRecord) ResourceID() string { return r.id }

func (r *memRecord) Attributes() map[string]any {
	out := make(map[string]any, len(r.attrs))
	for k, v := range r.attrs {
		out[k] = v
	}
	return out
}

type memStorage struct {
	records []*memRecord
	nextID  int
}

func (s *memStorage) List(_ context.Context, p exposure.ListParams) ([]exposure.Record, int, error) {
	matched := []*memRecord{}
	for _, rec := range s.records {
		ok := true
		for field, want := range p.Filters {
			if fmt.Sprint(rec.attrs[field]) != want {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].id < matched[j].id })

	total := len(matched)
	if p.Offset >= total {
		return []exposure.Record{}, total, nil
	}
	matched = matched[p.Offset:]
	if p.Limit < len(matched) {
		matched = matched[:p.Limit]
	}

	out := make([]exposure.Record, len(matched))
	for i, rec := range matched {
		out[i] = rec
	}
	return out, total, nil
}

func (s *memStorage) Get(_ context.Context, id string) (exposure.Record, error) {
	for _, rec := range s.records {
		if rec.id == id {
			return rec, nil
		}
	}
	return nil, exposure.NewNotFound("record")
}

func (s *memStorage) Create(_ context.Context, attrs map[string]any) (exposure.Record, error) {
	id, _ := attrs["id"].(string)
	if id == "" {
		s.nextID++
		id = fmt.Sprintf("gen-%d", s.nextID)
	}
	delete(attrs, "id")
	rec := &memRecord{id: id, attrs: attrs}
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *memStorage) Update(_ context.Context, id string, attrs map[string]any) (exposure.Record, error) {
	for _, rec := range s.records {
		if rec.id == id {
			for k, v := range attrs {
				rec.attrs[k] = v
			}
			return rec, nil
		}
	}
	return nil, exposure.NewNotFound("record")
}

func (s *memStorage) Delete(_ context.Context, id string) error {
	for i, rec := range s.records {
		if rec.id == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return exposure.NewNotFound("record")
}

// testEnv bundles a mounted registry with its backing stores.
type testEnv struct {
	registry *exposure.Registry
	router   *gin.Engine
	authors  *memStorage
	novels   *memStorage
}

func newTestEnv() (*testEnv, error) {
	authors := &memStorage{}
	novels := &memStorage{}

	authorResource := &exposure.Resource{
		Name:        "Author",
		Collection:  "Authors",
		Description: "Writers and their catalog",
		Fields: []exposure.Field{
			{Name: "id", Type: "string", Exposed: true},
			{Name: "name", Type: "string", Exposed: true, Filterable: true, Sortable: true, Required: true},
			{Name: "secret", Type: "string", Exposed: false},
		},
		Relations: []exposure.Relationship{
			{Name: "novels", Target: "Novel", ToMany: true, RemoteField: "author_id"},
		},
		Operations: []exposure.Operation{
			{
				Name:    "shout",
				Methods: []string{http.MethodPost},
				Handler: func(_ context.Context, oc exposure.OpContext) (any, error) {
					msg, _ := oc.Args["message"].(string)
					return "heard " + msg + " from " + oc.Target.ResourceID(), nil
				},
			},
			{
				Name:       "stats",
				Methods:    []string{http.MethodGet},
				Collection: true,
				Handler: func(_ context.Context, oc exposure.OpContext) (any, error) {
					_, total, err := oc.Resource.Storage.List(context.Background(), oc.Params)
					if err != nil {
						return nil, err
					}
					return map[string]any{"total": total}, nil
				},
			},
		},
		Storage: authors,
	}

	novelResource := &exposure.Resource{
		Name:       "Novel",
		Collection: "Novels",
		Methods:    []string{http.MethodGet, http.MethodPost},
		Fields: []exposure.Field{
			{Name: "id", Type: "string", Exposed: true},
			{Name: "title", Type: "string", Exposed: true, Filterable: true, Sortable: true},
			{Name: "author_id", Type: "string", Exposed: true, Filterable: true},
		},
		Relations: []exposure.Relationship{
			{Name: "author", Target: "Author", LocalField: "author_id"},
		},
		FilterHook: func(arg string) map[string]string {
			return map[string]string{"title": arg}
		},
		Storage: novels,
	}

	registry := exposure.NewRegistry("/api")
	for _, r := range []*exposure.Resource{authorResource, novelResource} {
		if err := registry.Register(r); err != nil {
			return nil, err
		}
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	if err := registry.Mount(router.Group("/api")); err != nil {
		return nil, err
	}

	return &testEnv{registry: registry, router: router, authors: authors, novels: novels}, nil
}

func (e *testEnv) request(method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) seedAuthor(id, name string) {
	e.authors.records = append(e.authors.records, &memRecord{
		id:    id,
		attrs: map[string]any{"name": name, "secret": "s3cr3t"},
	})
}

func (e *testEnv) seedNovel(id, title, authorID string) {
	e.novels.records = append(e.novels.records, &memRecord{
		id:    id,
		attrs: map[string]any{"title": title, "author_id": authorID},
	})
}

// decoded mirrors the response envelope loosely for assertions.
type decoded struct {
	Data   any               `json:"data"`
	Meta   map[string]any    `json:"meta"`
	Links  map[string]string `json:"links"`
	Errors []jsonapi.Error   `json:"errors"`
}
