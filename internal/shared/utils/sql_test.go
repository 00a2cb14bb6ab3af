package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"bookshelf-api/internal/exposure"
)

var testCols = map[string]string{
	"id":    "id",
	"name":  "name",
	"email": "email",
}

func TestWhereClause(t *testing.T) {
	tests := []struct {
		name     string
		filters  map[string]string
		want     string
		wantArgs []any
	}{
		{"no filters", nil, "", nil},
		{"single filter", map[string]string{"name": "Anna"},
			" WHERE name = $1", []any{"Anna"}},
		{"filters are ordered", map[string]string{"name": "Anna", "email": "a@b.c"},
			" WHERE email = $1 AND name = $2", []any{"a@b.c", "Anna"}},
		{"unknown keys skipped", map[string]string{"nope": "x"}, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := WhereClause(testCols, tt.filters)
			assert.Equal(t, tt.want, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOrderClause(t *testing.T) {
	tests := []struct {
		name string
		sort []exposure.SortField
		want string
	}{
		{"empty", nil, ""},
		{"single", []exposure.SortField{{Name: "name"}}, " ORDER BY name"},
		{"descending with tiebreak",
			[]exposure.SortField{{Name: "name", Desc: true}, {Name: "id"}},
			" ORDER BY name DESC, id"},
		{"unknown column skipped",
			[]exposure.SortField{{Name: "nope"}, {Name: "id"}},
			" ORDER BY id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderClause(testCols, tt.sort))
		})
	}
}
