package cart

import "context"

// Repository is the cart record store. Each mutation is atomic per backend:
// the file store holds the collection lock across the read-modify-write
// cycle, the Postgres store locks the cart row inside a transaction.
type Repository interface {
	Create(ctx context.Context) (Cart, error)
	Get(ctx context.Context, id string) (Cart, error)
	// AddItem increments the quantity of an existing line item or appends a
	// new one at the end of the sequence.
	AddItem(ctx context.Context, cartID, productID string, quantity int) (Cart, error)
	// SetItemQuantity overwrites the quantity of an existing line item.
	SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) (Cart, error)
	// RemoveItem deletes one line item, preserving the order of the rest.
	RemoveItem(ctx context.Context, cartID, productID string) (Cart, error)
	// ReplaceItems swaps the whole line-item sequence.
	ReplaceItems(ctx context.Context, cartID string, items []LineItem) (Cart, error)
	// Clear empties the sequence but keeps the cart.
	Clear(ctx context.Context, cartID string) (Cart, error)
	// RemoveProductFromAll strips every line item referencing productID and
	// returns the ids of the carts that changed.
	RemoveProductFromAll(ctx context.Context, productID string) ([]string, error)
}
