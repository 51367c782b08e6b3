package catalog

import "context"

// Sort directions accepted by List. Sorting is supported on price only.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// ListQuery selects and orders a page of products.
type ListQuery struct {
	Query string // case-insensitive substring match on title
	Sort  string // SortAsc, SortDesc or empty for insertion order
	Page  int
	Limit int
}

// Repository is the product record store. Create enforces code uniqueness
// atomically; Update never touches id or code.
type Repository interface {
	List(ctx context.Context, q ListQuery) ([]Product, int, error)
	Get(ctx context.Context, id string) (Product, error)
	Create(ctx context.Context, product Product) (Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (Product, error)
	Delete(ctx context.Context, id string) (Product, error)
}
