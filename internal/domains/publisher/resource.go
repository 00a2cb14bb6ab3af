package publisher

import (
	"bookshelf-api/internal/exposure"
)

// NewResource builds the Publisher descriptor. It demonstrates the two
// customization hooks: a serialization hook that adds a derived
// attribute, and a custom interpretation of the bare ?filter= argument.
func NewResource(storage exposure.Storage) *exposure.Resource {
	return &exposure.Resource{
		Name:        "Publisher",
		Collection:  "Publishers",
		Description: "My publisher description",
		Fields: []exposure.Field{
			{Name: "id", Type: "integer", Exposed: true, Filterable: true},
			{Name: "name", Type: "string", Exposed: true, Filterable: true, Sortable: true},
		},
		Relations: []exposure.Relationship{
			{Name: "books", Target: "Book", ToMany: true, RemoteField: "publisher_id"},
		},
		AttributeHook: func(_ exposure.Record, attrs map[string]any) map[string]any {
			attrs["custom_field"] = "some customization"
			return attrs
		},
		FilterHook: func(arg string) map[string]string {
			return map[string]string{"name": arg}
		},
		Storage: storage,
	}
}
