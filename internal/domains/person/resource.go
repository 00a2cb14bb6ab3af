package person

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"bookshelf-api/internal/exposure"
	"bookshelf-api/internal/jsonapi"
)

// NewResource builds the Person descriptor: the schema fields, the
// book and review edges, and the two demo rpc operations. mailSpool is
// where send_mail appends its output.
func NewResource(storage exposure.Storage, mailSpool string) *exposure.Resource {
	return &exposure.Resource{
		Name:        "Person",
		Collection:  "People",
		Description: "My person description",
		Fields: []exposure.Field{
			{Name: "id", Type: "string", Format: "uuid", Exposed: true, Filterable: true},
			{Name: "name", Type: "string", Exposed: true, Filterable: true, Sortable: true},
			{Name: "email", Type: "string", Exposed: true, Filterable: true, Sortable: true},
			{Name: "comment", Type: "string", Exposed: true, Filterable: true,
				Description: "My custom column description"},
			{Name: "dob", Type: "string", Format: "date", Exposed: true, Sortable: true},
			{Name: "password", Type: "string", Exposed: false},
			{Name: "created_at", Type: "string", Format: "date-time", Exposed: true, Sortable: true},
		},
		Relations: []exposure.Relationship{
			{Name: "books_read", Target: "Book", ToMany: true, RemoteField: "reader_id"},
			{Name: "books_written", Target: "Book", ToMany: true, RemoteField: "author_id"},
			{Name: "reviews", Target: "Review", ToMany: true, RemoteField: "reader_id"},
		},
		Operations: []exposure.Operation{
			{
				Name:        "send_mail",
				Methods:     []string{http.MethodPost},
				Description: "Send an email",
				Args:        map[string]string{"email": "test email"},
				Handler:     sendMail(mailSpool),
			},
			{
				Name:        "my_rpc",
				Methods:     []string{http.MethodGet, http.MethodPost},
				Collection:  true,
				Description: "Generate and return a jsonapi-formatted response",
				Args:        map[string]string{"email": "test email"},
				Handler:     myRPC,
			},
		},
		Storage: storage,
	}
}

// sendMail appends a mail line for the owning person to the spool file.
func sendMail(spool string) func(context.Context, exposure.OpContext) (any, error) {
	return func(_ context.Context, oc exposure.OpContext) (any, error) {
		email, _ := oc.Args["email"].(string)
		if email == "" {
			return nil, exposure.NewValidation("argument \"email\" is required")
		}

		name, _ := oc.Target.Attributes()["name"].(string)
		content := fmt.Sprintf("Mail to %s : %s\n", name, email)

		f, err := os.OpenFile(spool, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, exposure.NewInternal(err)
		}
		defer f.Close()
		if _, err := f.WriteString(content); err != nil {
			return nil, exposure.NewInternal(err)
		}

		return map[string]any{"result": "sent " + content}, nil
	}
}

// myRPC pages through the collection and hands back a full
// jsonapi-formatted document, the way the original demo rpc does.
func myRPC(ctx context.Context, oc exposure.OpContext) (any, error) {
	recs, total, err := oc.Resource.Storage.List(ctx, oc.Params)
	if err != nil {
		return nil, err
	}

	data := make([]any, len(recs))
	for i, rec := range recs {
		data[i] = oc.Serialize(rec)
	}

	return &jsonapi.Document{
		Data:  data,
		Meta:  map[string]any{"count": total, "limit": len(recs)},
		Links: jsonapi.PageLinks(oc.BasePath, url.Values{}, oc.Params.Offset, oc.Params.Limit, total),
	}, nil
}
