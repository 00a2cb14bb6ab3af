// Package jsonapi holds the wire types for jsonapi.org-style documents:
// resource objects, the top-level document envelope, pagination links
// and error objects.
package jsonapi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Resource is a single resource object.
type Resource struct {
	Type          string                  `json:"type"`
	ID            string                  `json:"id"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
	Links         map[string]string       `json:"links,omitempty"`
}

// Relationship carries the related-resource link for a resource object.
type Relationship struct {
	Links map[string]string `json:"links,omitempty"`
	Data  any               `json:"data,omitempty"` // Identifier or []Identifier
}

// Identifier is a resource linkage pair.
type Identifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Error is a jsonapi error object.
type Error struct {
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// Document is the top-level envelope. Data holds a single *Resource, a
// []*Resource, or the null sentinel; error documents leave it unset.
type Document struct {
	Data   any               `json:"data,omitempty"`
	Meta   map[string]any    `json:"meta,omitempty"`
	Links  map[string]string `json:"links,omitempty"`
	Errors []Error           `json:"errors,omitempty"`
}

// nullData marshals as an explicit null. A plain nil would be dropped
// by omitempty, and error documents must not carry a data member at
// all, so the empty to-one case needs its own sentinel.
type nullData struct{}

func (nullData) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Single wraps one resource object.
func Single(r *Resource) *Document {
	return &Document{Data: r}
}

// NullDocument is the response for an empty to-one relationship: the
// data member is present and null.
func NullDocument() *Document {
	return &Document{Data: nullData{}}
}

// Collection wraps a list of resource objects with the filtered total
// and pagination links.
func Collection(resources []*Resource, total int, links map[string]string) *Document {
	if resources == nil {
		resources = []*Resource{}
	}
	return &Document{
		Data:  resources,
		Meta:  map[string]any{"count": total, "limit": len(resources)},
		Links: links,
	}
}

// ErrorDocument builds an error envelope for a single error.
func ErrorDocument(status int, code, detail string) *Document {
	return &Document{
		Errors: []Error{{
			Status: strconv.Itoa(status),
			Code:   code,
			Title:  fmt.Sprintf("%d", status),
			Detail: detail,
		}},
	}
}

// PageLinks derives self/first/prev/next/last links for an
// offset-paginated collection at basePath.
func PageLinks(basePath string, query url.Values, offset, limit, total int) map[string]string {
	link := func(off int) string {
		q := url.Values{}
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		q.Set("page[offset]", strconv.Itoa(off))
		q.Set("page[limit]", strconv.Itoa(limit))
		return basePath + "?" + q.Encode()
	}

	links := map[string]string{
		"self":  link(offset),
		"first": link(0),
	}

	if offset > 0 {
		prev := offset - limit
		if prev < 0 {
			prev = 0
		}
		links["prev"] = link(prev)
	}
	if limit > 0 && offset+limit < total {
		links["next"] = link(offset + limit)
	}
	if limit > 0 && total > 0 {
		last := ((total - 1) / limit) * limit
		links["last"] = link(last)
	}

	return links
}
