// Package exposure derives the REST surface from entity descriptors:
// one JSON:API resource per registered entity, relationship
// sub-endpoints per declared association, and opt-in custom operations.
// The derivation runs once at mount time and also feeds the swagger
// builder through the route table.
package exposure

import (
	"context"
)

// Record is what storage hands back for a single row. Attributes must
// never include hidden columns; the serializer filters against the
// descriptor as well.
type Record interface {
	ResourceID() string
	Attributes() map[string]any
}

// Field describes one column of an entity.
type Field struct {
	Name        string
	Type        string // swagger type: string, integer, boolean
	Format      string // swagger format: date, date-time, uuid, ...
	Description string // surfaces in the generated documentation
	Exposed     bool   // hidden fields never serialize and never document
	Filterable  bool
	Sortable    bool
	Required    bool // required on create
}

// Relationship describes one edge of an entity.
//
// A to-one edge reads the foreign key from LocalField on the owning
// record; a to-many edge lists the target filtered by RemoteField.
type Relationship struct {
	Name        string
	Target      string // registry name of the target resource
	ToMany      bool
	LocalField  string
	RemoteField string
}

// OpContext is handed to a custom operation when it is invoked.
type OpContext struct {
	// Target is the owning instance, nil for collection-level operations.
	Target   Record
	Args     map[string]any
	Resource *Resource
	Params   ListParams
	BasePath string

	// Serialize renders a record of the owning resource as a jsonapi
	// resource object, for operations that build full documents.
	Serialize func(Record) any
}

// Operation is an entity-bound callable exposed as an extra endpoint
// under the resource's path.
type Operation struct {
	Name        string
	Methods     []string
	Collection  bool // bound to the type rather than an instance
	Description string
	Args        map[string]string // arg name -> documentation
	Handler     func(ctx context.Context, oc OpContext) (any, error)
}

// Resource is the descriptor the registry derives routes from.
type Resource struct {
	Name        string // jsonapi type, e.g. "Person"
	Collection  string // path segment, e.g. "People"
	Description string
	Fields      []Field
	Relations   []Relationship
	// Methods restricts the derived CRUD verbs. Empty means all of
	// GET, POST, PATCH, DELETE.
	Methods    []string
	Operations []Operation

	// AttributeHook lets a resource decorate its serialized attributes,
	// e.g. Publisher's derived custom_field.
	AttributeHook func(Record, map[string]any) map[string]any

	// FilterHook interprets the bare ?filter= argument for resources
	// that define custom filtering semantics.
	FilterHook func(arg string) map[string]string

	// ItemGetDescription overrides the documented description of the
	// derived single-item GET.
	ItemGetDescription string

	Storage Storage
}

// MethodAllowed reports whether a derived CRUD verb is enabled.
func (r *Resource) MethodAllowed(method string) bool {
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Field returns the named field descriptor.
func (r *Resource) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Relationship returns the named relationship descriptor.
func (r *Resource) Relationship(name string) (Relationship, bool) {
	for _, rel := range r.Relations {
		if rel.Name == name {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ExposedFields returns the fields that may appear in payloads and
// documentation.
func (r *Resource) ExposedFields() []Field {
	out := make([]Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f.Exposed {
			out = append(out, f)
		}
	}
	return out
}
