package exposure

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteKind classifies a derived route for the documentation layer.
type RouteKind int

const (
	RouteList RouteKind = iota
	RouteCreate
	RouteGet
	RouteUpdate
	RouteDelete
	RouteRelated
	RouteOperation
)

// Route is one entry of the derived route table: the HTTP surface plus
// enough descriptor context to document it.
type Route struct {
	Method       string
	Path         string // gin pattern, e.g. /People/:id
	Resource     *Resource
	Kind         RouteKind
	Relationship *Relationship
	Operation    *Operation
}

// Registry holds the resource descriptors and derives the route table
// from them. Derivation happens once, at Mount time.
type Registry struct {
	prefix    string
	resources []*Resource
	byName    map[string]*Resource
	routes    []Route
}

func NewRegistry(prefix string) *Registry {
	return &Registry{
		prefix: prefix,
		byName: map[string]*Resource{},
	}
}

// Register adds a resource descriptor. Relationship targets are checked
// at Mount, once every resource is known.
func (g *Registry) Register(r *Resource) error {
	if r.Name == "" || r.Collection == "" {
		return fmt.Errorf("resource needs a name and a collection segment")
	}
	if r.Storage == nil {
		return fmt.Errorf("resource %s has no storage", r.Name)
	}
	if _, dup := g.byName[r.Name]; dup {
		return fmt.Errorf("resource %s registered twice", r.Name)
	}
	g.byName[r.Name] = r
	g.resources = append(g.resources, r)
	return nil
}

// Resource looks a descriptor up by name.
func (g *Registry) Resource(name string) *Resource {
	return g.byName[name]
}

// Resources returns the descriptors in registration order.
func (g *Registry) Resources() []*Resource {
	return g.resources
}

// Routes returns the derived route table. Empty before Mount.
func (g *Registry) Routes() []Route {
	return g.routes
}

// Prefix returns the API path prefix the registry was created with.
func (g *Registry) Prefix() string {
	return g.prefix
}

// Mount derives and registers the REST surface for every resource:
// collection and item CRUD (minus verbs the descriptor disallows),
// one GET sub-endpoint per relationship, and the declared custom
// operations. The route table is populated as a side effect.
func (g *Registry) Mount(rg *gin.RouterGroup) error {
	for _, r := range g.resources {
		for _, rel := range r.Relations {
			if g.byName[rel.Target] == nil {
				return fmt.Errorf("resource %s: relationship %s targets unknown resource %s",
					r.Name, rel.Name, rel.Target)
			}
		}
	}

	add := func(method, path string, route Route, h gin.HandlerFunc) {
		route.Method = method
		route.Path = path
		g.routes = append(g.routes, route)
		rg.Handle(method, path, h)
	}

	for _, r := range g.resources {
		r := r
		base := "/" + r.Collection
		item := base + "/:id"

		if r.MethodAllowed(http.MethodGet) {
			add(http.MethodGet, base, Route{Resource: r, Kind: RouteList}, g.handleList(r))
			add(http.MethodGet, item, Route{Resource: r, Kind: RouteGet}, g.handleGet(r))
		}
		if r.MethodAllowed(http.MethodPost) {
			add(http.MethodPost, base, Route{Resource: r, Kind: RouteCreate}, g.handleCreate(r))
		}
		if r.MethodAllowed(http.MethodPatch) {
			add(http.MethodPatch, item, Route{Resource: r, Kind: RouteUpdate}, g.handleUpdate(r))
		}
		if r.MethodAllowed(http.MethodDelete) {
			add(http.MethodDelete, item, Route{Resource: r, Kind: RouteDelete}, g.handleDelete(r))
		}

		for i := range r.Relations {
			rel := &r.Relations[i]
			add(http.MethodGet, item+"/"+rel.Name,
				Route{Resource: r, Kind: RouteRelated, Relationship: rel},
				g.handleRelated(r, rel))
		}

		for i := range r.Operations {
			op := &r.Operations[i]
			path := base + "/" + op.Name
			if !op.Collection {
				path = item + "/" + op.Name
			}
			for _, method := range op.Methods {
				add(method, path,
					Route{Resource: r, Kind: RouteOperation, Operation: op},
					g.handleOperation(r, op))
			}
		}
	}

	return nil
}
