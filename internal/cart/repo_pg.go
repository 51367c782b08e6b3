package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitienda/mitienda/internal/platform/db"
	"github.com/mitienda/mitienda/internal/shared"
)

type pgRepository struct {
	pool *pgxpool.Pool
}

// NewPGRepository returns a Repository over the carts table. Line items live
// in a jsonb document column; every mutation locks the cart row so the
// read-modify-write cycle is atomic under concurrent writers.
func NewPGRepository(pool *pgxpool.Pool) Repository {
	return &pgRepository{pool: pool}
}

func (r *pgRepository) Create(ctx context.Context) (Cart, error) {
	now := time.Now().UTC()
	cart := Cart{
		ID:        uuid.NewString(),
		Items:     []LineItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO carts (id, items, created_at, updated_at) VALUES ($1, $2, $3, $4)`,
		cart.ID, cart.Items, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return Cart{}, fmt.Errorf("%w: insert cart: %v", shared.ErrStore, err)
	}
	return cart, nil
}

func (r *pgRepository) Get(ctx context.Context, id string) (Cart, error) {
	var cart Cart
	err := r.pool.QueryRow(ctx,
		`SELECT id, items, created_at, updated_at FROM carts WHERE id = $1`, id,
	).Scan(&cart.ID, &cart.Items, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Cart{}, shared.ErrNotFound
		}
		return Cart{}, fmt.Errorf("%w: get cart: %v", shared.ErrStore, err)
	}
	return cart, nil
}

func (r *pgRepository) AddItem(ctx context.Context, cartID, productID string, quantity int) (Cart, error) {
	return r.mutateCart(ctx, cartID, func(c *Cart) error {
		if i := findItem(c.Items, productID); i >= 0 {
			c.Items[i].Quantity += quantity
		} else {
			c.Items = append(c.Items, LineItem{ProductID: productID, Quantity: quantity})
		}
		return nil
	})
}

func (r *pgRepository) SetItemQuantity(ctx context.Context, cartID, productID string, quantity int) (Cart, error) {
	return r.mutateCart(ctx, cartID, func(c *Cart) error {
		i := findItem(c.Items, productID)
		if i < 0 {
			return shared.ErrNotFound
		}
		c.Items[i].Quantity = quantity
		return nil
	})
}

func (r *pgRepository) RemoveItem(ctx context.Context, cartID, productID string) (Cart, error) {
	return r.mutateCart(ctx, cartID, func(c *Cart) error {
		i := findItem(c.Items, productID)
		if i < 0 {
			return shared.ErrNotFound
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return nil
	})
}

func (r *pgRepository) ReplaceItems(ctx context.Context, cartID string, items []LineItem) (Cart, error) {
	return r.mutateCart(ctx, cartID, func(c *Cart) error {
		c.Items = append([]LineItem{}, items...)
		return nil
	})
}

func (r *pgRepository) Clear(ctx context.Context, cartID string) (Cart, error) {
	return r.mutateCart(ctx, cartID, func(c *Cart) error {
		c.Items = []LineItem{}
		return nil
	})
}

func (r *pgRepository) RemoveProductFromAll(ctx context.Context, productID string) ([]string, error) {
	var affected []string
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			SELECT id, items FROM carts
			WHERE items @> jsonb_build_array(jsonb_build_object('product', $1::text))
			FOR UPDATE`, productID)
		if err != nil {
			return err
		}
		type lockedCart struct {
			id    string
			items []LineItem
		}
		var carts []lockedCart
		for rows.Next() {
			var c lockedCart
			if err := rows.Scan(&c.id, &c.items); err != nil {
				rows.Close()
				return err
			}
			carts = append(carts, c)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, c := range carts {
			i := findItem(c.items, productID)
			if i < 0 {
				continue
			}
			items := append(c.items[:i], c.items[i+1:]...)
			if _, err := tx.Exec(ctx,
				`UPDATE carts SET items = $2, updated_at = $3 WHERE id = $1`,
				c.id, items, now); err != nil {
				return err
			}
			affected = append(affected, c.id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: sweep carts: %v", shared.ErrStore, err)
	}
	return affected, nil
}

// mutateCart runs fn on the cart under a row lock and writes the result
// back in the same transaction.
func (r *pgRepository) mutateCart(ctx context.Context, cartID string, fn func(*Cart) error) (Cart, error) {
	var cart Cart
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT id, items, created_at, updated_at FROM carts WHERE id = $1 FOR UPDATE`, cartID,
		).Scan(&cart.ID, &cart.Items, &cart.CreatedAt, &cart.UpdatedAt)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return shared.ErrNotFound
			}
			return err
		}
		if err := fn(&cart); err != nil {
			return err
		}
		cart.UpdatedAt = time.Now().UTC()
		_, err = tx.Exec(ctx,
			`UPDATE carts SET items = $2, updated_at = $3 WHERE id = $1`,
			cart.ID, cart.Items, cart.UpdatedAt)
		return err
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Cart{}, shared.ErrNotFound
		}
		return Cart{}, fmt.Errorf("%w: update cart: %v", shared.ErrStore, err)
	}
	return cart, nil
}
