package exposure

import "context"

// SortField is one element of a stable sort order.
type SortField struct {
	Name string
	Desc bool
}

// ListParams carries the parsed collection query: offset pagination,
// sort order and equality filters keyed by field name. Filter keys are
// whitelisted against the descriptor before they reach storage.
type ListParams struct {
	Offset  int
	Limit   int
	Sort    []SortField
	Filters map[string]string
}

// Storage is the per-entity persistence contract the exposure layer
// drives. Implementations map database errors to *Error values.
type Storage interface {
	// List returns one page plus the filtered total.
	List(ctx context.Context, p ListParams) ([]Record, int, error)
	Get(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, attrs map[string]any) (Record, error)
	Update(ctx context.Context, id string, attrs map[string]any) (Record, error)
	Delete(ctx context.Context, id string) error
}
