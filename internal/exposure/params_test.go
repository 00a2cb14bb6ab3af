package exposure_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookshelf-api/internal/exposure"
)

func paramsResource() *exposure.Resource {
	return &exposure.Resource{
		Name:       "Author",
		Collection: "Authors",
		Fields: []exposure.Field{
			{Name: "id", Type: "string", Exposed: true},
			{Name: "name", Type: "string", Exposed: true, Filterable: true, Sortable: true},
			{Name: "email", Type: "string", Exposed: true},
			{Name: "secret", Type: "string", Filterable: true, Sortable: true},
		},
		Storage: &memStorage{},
	}
}

func TestParseListParamsDefaults(t *testing.T) {
	p, err := exposure.ParseListParams(url.Values{}, paramsResource())
	require.NoError(t, err)

	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, exposure.DefaultPageLimit, p.Limit)
	assert.Equal(t, []exposure.SortField{{Name: "id"}}, p.Sort)
	assert.Empty(t, p.Filters)
}

func TestParseListParamsRejectsBadValues(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
	}{
		{"non-numeric limit", url.Values{"page[limit]": {"ten"}}},
		{"zero limit", url.Values{"page[limit]": {"0"}}},
		{"limit above cap", url.Values{"page[limit]": {"9000"}}},
		{"negative offset", url.Values{"page[offset]": {"-1"}}},
		{"non-numeric offset", url.Values{"page[offset]": {"x"}}},
		{"unexposed filter field", url.Values{"filter[secret]": {"x"}}},
		{"unfilterable field", url.Values{"filter[email]": {"x"}}},
		{"unknown filter field", url.Values{"filter[nope]": {"x"}}},
		{"unexposed sort field", url.Values{"sort": {"secret"}}},
		{"unsortable field", url.Values{"sort": {"email"}}},
		{"bare filter without hook", url.Values{"filter": {"x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := exposure.ParseListParams(tt.query, paramsResource())
			require.Error(t, err)

			status, _, _ := exposure.MapErrorToHTTP(err)
			assert.Equal(t, 400, status)
		})
	}
}

func TestParseListParamsSort(t *testing.T) {
	p, err := exposure.ParseListParams(url.Values{"sort": {"-name"}}, paramsResource())
	require.NoError(t, err)

	// The id column is appended so pages stay stable under equal keys.
	assert.Equal(t, []exposure.SortField{
		{Name: "name", Desc: true},
		{Name: "id"},
	}, p.Sort)

	p, err = exposure.ParseListParams(url.Values{"sort": {"-id"}}, paramsResource())
	require.NoError(t, err)
	assert.Equal(t, []exposure.SortField{{Name: "id", Desc: true}}, p.Sort)
}

func TestParseListParamsFilters(t *testing.T) {
	p, err := exposure.ParseListParams(url.Values{
		"filter[name]": {"Anna"},
		"page[limit]":  {"25"},
		"page[offset]": {"50"},
	}, paramsResource())
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"name": "Anna"}, p.Filters)
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, 50, p.Offset)
}
