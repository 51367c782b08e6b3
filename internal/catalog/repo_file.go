package catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mitienda/mitienda/internal/platform/jsonfile"
	"github.com/mitienda/mitienda/internal/shared"
)

// ProductsFile is the collection file name in the data directory.
const ProductsFile = "productos.json"

type fileRepository struct {
	collection *jsonfile.Collection[Product]
}

// NewFileRepository returns a Repository backed by a JSON array file under
// dataDir. Ids are sequential integers.
func NewFileRepository(dataDir string) Repository {
	return &fileRepository{
		collection: jsonfile.New[Product](filepath.Join(dataDir, ProductsFile)),
	}
}

func (r *fileRepository) List(ctx context.Context, q ListQuery) ([]Product, int, error) {
	products, err := r.collection.Load()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", shared.ErrStore, err)
	}

	if q.Query != "" {
		needle := strings.ToLower(q.Query)
		filtered := products[:0:0]
		for _, p := range products {
			if strings.Contains(strings.ToLower(p.Title), needle) {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	switch q.Sort {
	case SortAsc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case SortDesc:
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	}

	total := len(products)
	pagination := shared.NewPagination(q.Page, q.Limit, total)
	offset := pagination.Offset()
	if offset >= total {
		return []Product{}, total, nil
	}
	end := offset + pagination.PerPage
	if end > total {
		end = total
	}
	return products[offset:end], total, nil
}

func (r *fileRepository) Get(ctx context.Context, id string) (Product, error) {
	products, err := r.collection.Load()
	if err != nil {
		return Product{}, fmt.Errorf("%w: %v", shared.ErrStore, err)
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, shared.ErrNotFound
}

func (r *fileRepository) Create(ctx context.Context, product Product) (Product, error) {
	var created Product
	err := r.collection.Mutate(func(products []Product) ([]Product, error) {
		for _, p := range products {
			if p.Code == product.Code {
				return nil, fmt.Errorf("%w: %q", shared.ErrDuplicateCode, product.Code)
			}
		}
		now := time.Now().UTC()
		product.ID = jsonfile.NextSeq(products, func(p Product) string { return p.ID })
		product.CreatedAt = now
		product.UpdatedAt = now
		created = product
		return append(products, product), nil
	})
	if err != nil {
		return Product{}, wrapStore(err)
	}
	return created, nil
}

func (r *fileRepository) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	var updated Product
	err := r.collection.Mutate(func(products []Product) ([]Product, error) {
		for i := range products {
			if products[i].ID != id {
				continue
			}
			products[i].Apply(patch)
			products[i].UpdatedAt = time.Now().UTC()
			updated = products[i]
			return products, nil
		}
		return nil, shared.ErrNotFound
	})
	if err != nil {
		return Product{}, wrapStore(err)
	}
	return updated, nil
}

func (r *fileRepository) Delete(ctx context.Context, id string) (Product, error) {
	var deleted Product
	err := r.collection.Mutate(func(products []Product) ([]Product, error) {
		for i := range products {
			if products[i].ID != id {
				continue
			}
			deleted = products[i]
			return append(products[:i], products[i+1:]...), nil
		}
		return nil, shared.ErrNotFound
	})
	if err != nil {
		return Product{}, wrapStore(err)
	}
	return deleted, nil
}

// wrapStore tags unexpected errors as store failures while domain errors
// pass through for errors.Is matching.
func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrDuplicateCode) || errors.Is(err, shared.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrStore, err)
}
