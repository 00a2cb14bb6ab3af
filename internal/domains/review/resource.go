package review

import (
	"net/http"

	"bookshelf-api/internal/exposure"
)

// NewResource builds the Review descriptor. Reviews only answer GET and
// POST; the registry derives no update or delete route for them.
func NewResource(storage exposure.Storage) *exposure.Resource {
	return &exposure.Resource{
		Name:        "Review",
		Collection:  "Reviews",
		Description: "Review description",
		Methods:     []string{http.MethodGet, http.MethodPost},
		Fields: []exposure.Field{
			{Name: "id", Type: "string", Exposed: true},
			{Name: "reader_id", Type: "string", Format: "uuid", Exposed: true, Filterable: true, Required: true},
			{Name: "book_id", Type: "string", Format: "uuid", Exposed: true, Filterable: true, Required: true},
			{Name: "review", Type: "string", Exposed: true, Filterable: true},
			{Name: "created", Type: "string", Format: "date-time", Exposed: true, Sortable: true},
		},
		Relations: []exposure.Relationship{
			{Name: "reader", Target: "Person", LocalField: "reader_id"},
			{Name: "book", Target: "Book", LocalField: "book_id"},
		},
		ItemGetDescription: "My Custom Review HTTP GET Swagger Description",
		Storage:            storage,
	}
}
