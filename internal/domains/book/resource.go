package book

import (
	"bookshelf-api/internal/exposure"
)

// NewResource builds the Book descriptor.
func NewResource(storage exposure.Storage) *exposure.Resource {
	return &exposure.Resource{
		Name:        "Book",
		Collection:  "Books",
		Description: "My book description",
		Fields: []exposure.Field{
			{Name: "id", Type: "string", Format: "uuid", Exposed: true, Filterable: true},
			{Name: "title", Type: "string", Exposed: true, Filterable: true, Sortable: true},
			{Name: "reader_id", Type: "string", Format: "uuid", Exposed: true, Filterable: true},
			{Name: "author_id", Type: "string", Format: "uuid", Exposed: true, Filterable: true},
			{Name: "publisher_id", Type: "integer", Exposed: true, Filterable: true},
		},
		Relations: []exposure.Relationship{
			{Name: "reader", Target: "Person", LocalField: "reader_id"},
			{Name: "author", Target: "Person", LocalField: "author_id"},
			{Name: "publisher", Target: "Publisher", LocalField: "publisher_id"},
			{Name: "reviews", Target: "Review", ToMany: true, RemoteField: "book_id"},
		},
		Storage: storage,
	}
}
