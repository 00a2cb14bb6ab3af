package exposure

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	// DefaultPageLimit is the documented page size when the client
	// sends none.
	DefaultPageLimit = 10
	// MaxPageLimit caps page[limit] regardless of what the client asks.
	MaxPageLimit = 250
)

// ParseListParams validates and resolves the collection query
// parameters for a resource: page[offset], page[limit], sort and
// filter[<field>]. Unknown or malformed values yield a validation
// error with a descriptive message.
func ParseListParams(query url.Values, r *Resource) (ListParams, error) {
	p := ListParams{
		Limit:   DefaultPageLimit,
		Filters: map[string]string{},
	}

	var err error
	if p.Offset, err = pageParam(query, "page[offset]", 0); err != nil {
		return p, err
	}
	if p.Limit, err = pageParam(query, "page[limit]", DefaultPageLimit); err != nil {
		return p, err
	}
	if err := validation.Validate(p.Limit, validation.Min(1), validation.Max(MaxPageLimit)); err != nil {
		return p, NewValidation(fmt.Sprintf("page[limit] must be between 1 and %d", MaxPageLimit))
	}
	if err := validation.Validate(p.Offset, validation.Min(0)); err != nil {
		return p, NewValidation("page[offset] must not be negative")
	}

	if p.Sort, err = parseSort(query.Get("sort"), r); err != nil {
		return p, err
	}

	for key, values := range query {
		name, ok := filterField(key)
		if !ok {
			continue
		}
		f, found := r.Field(name)
		if !found || !f.Exposed || !f.Filterable {
			return p, NewValidation(fmt.Sprintf("cannot filter %s by %q", r.Name, name))
		}
		p.Filters[name] = values[0]
	}

	// Bare ?filter= is the resource's custom filter hook.
	if arg := query.Get("filter"); arg != "" {
		if r.FilterHook == nil {
			return p, NewValidation(fmt.Sprintf("%s does not support the filter argument", r.Name))
		}
		for k, v := range r.FilterHook(arg) {
			p.Filters[k] = v
		}
	}

	return p, nil
}

func pageParam(query url.Values, key string, def int) (int, error) {
	raw := query.Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, NewValidation(fmt.Sprintf("%s must be an integer, got %q", key, raw))
	}
	return v, nil
}

// parseSort resolves a comma-separated jsonapi sort expression against
// the resource's sortable fields. The id column is always appended so
// pagination stays stable.
func parseSort(raw string, r *Resource) ([]SortField, error) {
	sort := []SortField{}
	if raw != "" {
		for _, part := range strings.Split(raw, ",") {
			sf := SortField{Name: part}
			if strings.HasPrefix(part, "-") {
				sf = SortField{Name: part[1:], Desc: true}
			}
			if sf.Name != "id" {
				f, found := r.Field(sf.Name)
				if !found || !f.Exposed || !f.Sortable {
					return nil, NewValidation(fmt.Sprintf("cannot sort %s by %q", r.Name, sf.Name))
				}
			}
			sort = append(sort, sf)
		}
	}

	for _, sf := range sort {
		if sf.Name == "id" {
			return sort, nil
		}
	}
	return append(sort, SortField{Name: "id"}), nil
}

// filterField extracts the field name from a filter[<field>] query key.
func filterField(key string) (string, bool) {
	if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
		return "", false
	}
	name := key[len("filter[") : len(key)-1]
	if name == "" {
		return "", false
	}
	return name, true
}
