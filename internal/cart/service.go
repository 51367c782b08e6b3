package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/notify"
	"github.com/mitienda/mitienda/internal/shared"
)

// ProductFinder resolves product references. Satisfied by the catalog
// service.
type ProductFinder interface {
	Get(ctx context.Context, id string) (catalog.Product, error)
}

// Service implements cart operations. Line items cross-validate against the
// product catalog; events publish only after the store write commits.
type Service struct {
	repo     Repository
	products ProductFinder
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewService constructs the cart service.
func NewService(repo Repository, products ProductFinder, notifier notify.Notifier, logger *slog.Logger) *Service {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Service{repo: repo, products: products, notifier: notifier, logger: logger}
}

// Create stores a new empty cart.
func (s *Service) Create(ctx context.Context) (Cart, error) {
	cart, err := s.repo.Create(ctx)
	if err != nil {
		return Cart{}, err
	}
	s.publishCartUpdated(ctx, cart)
	return cart, nil
}

// Get returns the cart with line items resolved to embedded product
// snapshots. A line whose product was deleted resolves with a nil product.
func (s *Service) Get(ctx context.Context, id string) (ResolvedCart, error) {
	cart, err := s.repo.Get(ctx, id)
	if err != nil {
		return ResolvedCart{}, err
	}
	return s.resolve(ctx, cart)
}

// AddItem adds quantity of a product to the cart, merging into an existing
// line item for the same product.
func (s *Service) AddItem(ctx context.Context, cartID, productID string, quantity int) (Cart, error) {
	if quantity < 1 {
		return Cart{}, fmt.Errorf("%w: quantity must be at least 1", shared.ErrValidation)
	}
	if _, err := s.products.Get(ctx, productID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Cart{}, fmt.Errorf("%w: product %s", shared.ErrNotFound, productID)
		}
		return Cart{}, err
	}

	cart, err := s.repo.AddItem(ctx, cartID, productID, quantity)
	if err != nil {
		return Cart{}, err
	}
	s.publishCartUpdated(ctx, cart)
	return cart, nil
}

// SetItemQuantity overwrites the quantity of an existing line item.
func (s *Service) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) (LineItem, error) {
	if quantity < 1 {
		return LineItem{}, fmt.Errorf("%w: quantity must be at least 1", shared.ErrValidation)
	}

	cart, err := s.repo.SetItemQuantity(ctx, cartID, productID, quantity)
	if err != nil {
		return LineItem{}, err
	}
	s.notifier.Publish(ctx, notify.Event{Name: notify.EventProductQuantityUpdated, Payload: map[string]any{
		"cart":     cart.ID,
		"product":  productID,
		"quantity": quantity,
	}})
	return LineItem{ProductID: productID, Quantity: quantity}, nil
}

// RemoveItem deletes one line item, preserving the order of the rest.
func (s *Service) RemoveItem(ctx context.Context, cartID, productID string) (Cart, error) {
	cart, err := s.repo.RemoveItem(ctx, cartID, productID)
	if err != nil {
		return Cart{}, err
	}
	s.notifier.Publish(ctx, notify.Event{Name: notify.EventProductRemovedFromCart, Payload: map[string]any{
		"cart":    cart.ID,
		"product": productID,
	}})
	return cart, nil
}

// ReplaceItems swaps the whole line-item sequence. The call is all or
// nothing: every submitted item must reference an existing product with
// quantity >= 1 or no write happens at all.
func (s *Service) ReplaceItems(ctx context.Context, cartID string, items []LineItem) (Cart, error) {
	merged := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.ProductID == "" {
			return Cart{}, fmt.Errorf("%w: line item missing product reference", shared.ErrValidation)
		}
		if item.Quantity < 1 {
			return Cart{}, fmt.Errorf("%w: quantity for product %s must be at least 1", shared.ErrValidation, item.ProductID)
		}
		if _, err := s.products.Get(ctx, item.ProductID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return Cart{}, fmt.Errorf("%w: unknown product %s", shared.ErrValidation, item.ProductID)
			}
			return Cart{}, err
		}
		if i := findItem(merged, item.ProductID); i >= 0 {
			merged[i].Quantity += item.Quantity
		} else {
			merged = append(merged, item)
		}
	}

	cart, err := s.repo.ReplaceItems(ctx, cartID, merged)
	if err != nil {
		return Cart{}, err
	}
	s.publishCartUpdated(ctx, cart)
	return cart, nil
}

// Clear empties the cart without deleting it.
func (s *Service) Clear(ctx context.Context, cartID string) (Cart, error) {
	cart, err := s.repo.Clear(ctx, cartID)
	if err != nil {
		return Cart{}, err
	}
	s.notifier.Publish(ctx, notify.Event{Name: notify.EventCartEmptied, Payload: map[string]any{
		"cart": cart.ID,
	}})
	return cart, nil
}

// SweepProduct removes every line item referencing a deleted product.
// Invoked by the background worker after a catalog delete.
func (s *Service) SweepProduct(ctx context.Context, productID string) ([]string, error) {
	affected, err := s.repo.RemoveProductFromAll(ctx, productID)
	if err != nil {
		return nil, err
	}
	for _, cartID := range affected {
		s.notifier.Publish(ctx, notify.Event{Name: notify.EventCartUpdated, Payload: map[string]any{
			"cart":           cartID,
			"removedProduct": productID,
		}})
	}
	return affected, nil
}

func (s *Service) resolve(ctx context.Context, c Cart) (ResolvedCart, error) {
	resolved := ResolvedCart{ID: c.ID, Items: make([]ResolvedLine, 0, len(c.Items))}
	for _, item := range c.Items {
		line := ResolvedLine{Quantity: item.Quantity}
		product, err := s.products.Get(ctx, item.ProductID)
		switch {
		case err == nil:
			line.Product = &product
		case errors.Is(err, shared.ErrNotFound):
			// Dangling reference, tolerated until the sweep catches up.
			s.logger.Warn("cart references missing product",
				slog.String("cart", c.ID), slog.String("product", item.ProductID))
		default:
			return ResolvedCart{}, err
		}
		resolved.Items = append(resolved.Items, line)
	}
	return resolved, nil
}

func (s *Service) publishCartUpdated(ctx context.Context, cart Cart) {
	s.notifier.Publish(ctx, notify.Event{Name: notify.EventCartUpdated, Payload: cart})
}
