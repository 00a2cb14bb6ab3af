package utils

import (
	"fmt"
	"sort"
	"strings"

	"bookshelf-api/internal/exposure"
)

// WhereClause builds an AND-joined equality predicate from the parsed
// filters. cols maps field names to column expressions; keys without a
// column mapping are skipped. Keys are ordered so the statement text is
// deterministic.
func WhereClause(cols map[string]string, filters map[string]string) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if _, ok := cols[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "", nil
	}

	clauses := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		clauses[i] = fmt.Sprintf("%s = $%d", cols[k], i+1)
		args[i] = filters[k]
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// OrderClause builds the ORDER BY list from the parsed sort fields.
func OrderClause(cols map[string]string, sortFields []exposure.SortField) string {
	parts := make([]string, 0, len(sortFields))
	for _, sf := range sortFields {
		col, ok := cols[sf.Name]
		if !ok {
			continue
		}
		if sf.Desc {
			col += " DESC"
		}
		parts = append(parts, col)
	}
	if len(parts) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(parts, ", ")
}
