package cart

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/mitienda/mitienda/internal/platform/jsonfile"
	"github.com/mitienda/mitienda/internal/shared"
)

// CartsFile is the collection file name in the data directory.
const CartsFile = "carrito.json"

type fileRepository struct {
	collection *jsonfile.Collection[Cart]
}

// NewFileRepository returns a Repository backed by a JSON array file under
// dataDir. Ids are sequential integers.
func NewFileRepository(dataDir string) Repository {
	return &fileRepository{
		collection: jsonfile.New[Cart](filepath.Join(dataDir, CartsFile)),
	}
}

func (r *fileRepository) Create(ctx context.Context) (Cart, error) {
	var created Cart
	err := r.collection.Mutate(func(carts []Cart) ([]Cart, error) {
		now := time.Now().UTC()
		created = Cart{
			ID:        jsonfile.NextSeq(carts, func(c Cart) string { return c.ID }),
			Items:     []LineItem{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return append(carts, created), nil
	})
	if err != nil {
		return Cart{}, wrapStore(err)
	}
	return created, nil
}

func (r *fileRepository) Get(ctx context.Context, id string) (Cart, error) {
	carts, err := r.collection.Load()
	if err != nil {
		return Cart{}, fmt.Errorf("%w: %v", shared.ErrStore, err)
	}
	for _, c := range carts {
		if c.ID == id {
			return c, nil
		}
	}
	return Cart{}, shared.ErrNotFound
}

func (r *fileRepository) AddItem(ctx context.Context, cartID, productID string, quantity int) (Cart, error) {
	return r.mutateCart(cartID, func(c *Cart) error {
		if i := findItem(c.Items, productID); i >= 0 {
			c.Items[i].Quantity += quantity
		} else {
			c.Items = append(c.Items, LineItem{ProductID: productID, Quantity: quantity})
		}
		return nil
	})
}

func (r *fileRepository) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) (Cart, error) {
	return r.mutateCart(cartID, func(c *Cart) error {
		i := findItem(c.Items, productID)
		if i < 0 {
			return shared.ErrNotFound
		}
		c.Items[i].Quantity = quantity
		return nil
	})
}

func (r *fileRepository) RemoveItem(ctx context.Context, cartID, productID string) (Cart, error) {
	return r.mutateCart(cartID, func(c *Cart) error {
		i := findItem(c.Items, productID)
		if i < 0 {
			return shared.ErrNotFound
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	})
}

func (r *fileRepository) ReplaceItems(ctx context.Context, cartID string, items []LineItem) (Cart, error) {
	return r.mutateCart(cartID, func(c *Cart) error {
		c.Items = append([]LineItem{}, items...)
		return nil
	})
}

func (r *fileRepository) Clear(ctx context.Context, cartID string) (Cart, error) {
	return r.mutateCart(cartID, func(c *Cart) error {
		c.Items = []LineItem{}
		return nil
	})
}

func (r *fileRepository) RemoveProductFromAll(ctx context.Context, productID string) ([]string, error) {
	var affected []string
	err := r.collection.Mutate(func(carts []Cart) ([]Cart, error) {
		now := time.Now().UTC()
		for i := range carts {
			j := findItem(carts[i].Items, productID)
			if j < 0 {
				continue
			}
			carts[i].Items = append(carts[i].Items[:j], carts[i].Items[j+1:]...)
			carts[i].UpdatedAt = now
			affected = append(affected, carts[i].ID)
		}
		return carts, nil
	})
	if err != nil {
		return nil, wrapStore(err)
	}
	return affected, nil
}

func (r *fileRepository) mutateCart(cartID string, fn func(*Cart) error) (Cart, error) {
	var updated Cart
	err := r.collection.Mutate(func(carts []Cart) ([]Cart, error) {
		for i := range carts {
			if carts[i].ID != cartID {
				continue
			}
			if err := fn(&carts[i]); err != nil {
				return nil, err
			}
			carts[i].UpdatedAt = time.Now().UTC()
			updated = carts[i]
			return carts, nil
		}
		return nil, shared.ErrNotFound
	})
	if err != nil {
		return Cart{}, wrapStore(err)
	}
	return updated, nil
}

func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrNotFound) || errors.Is(err, shared.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %v", shared.ErrStore, err)
}
