package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mitienda/mitienda/internal/shared"
)

const productColumns = `id, title, description, code, price, status, stock, category, thumbnails, created_at, updated_at`

type pgRepository struct {
	db *pgxpool.Pool
}

// NewPGRepository returns a Repository over the products table. Ids are
// client-generated UUIDs; code uniqueness is enforced by a unique index.
func NewPGRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) List(ctx context.Context, q ListQuery) ([]Product, int, error) {
	where := ``
	args := []any{}
	if q.Query != "" {
		args = append(args, "%"+q.Query+"%")
		where = ` WHERE title ILIKE $1`
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%w: count products: %v", shared.ErrStore, err)
	}

	order := ` ORDER BY created_at, id`
	switch q.Sort {
	case SortAsc:
		order = ` ORDER BY price ASC, id`
	case SortDesc:
		order = ` ORDER BY price DESC, id`
	}

	pagination := shared.NewPagination(q.Page, q.Limit, total)
	args = append(args, pagination.PerPage)
	limitArg := strconv.Itoa(len(args))
	args = append(args, pagination.Offset())
	offsetArg := strconv.Itoa(len(args))

	query := `SELECT ` + productColumns + ` FROM products` + where + order +
		` LIMIT $` + limitArg + ` OFFSET $` + offsetArg

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: list products: %v", shared.ErrStore, err)
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scan product: %v", shared.ErrStore, err)
		}
		products = append(products, p)
	}
	return products, total, rows.Err()
}

func (r *pgRepository) Get(ctx context.Context, id string) (Product, error) {
	row := r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, fmt.Errorf("%w: get product: %v", shared.ErrStore, err)
	}
	return p, nil
}

func (r *pgRepository) Create(ctx context.Context, product Product) (Product, error) {
	now := time.Now().UTC()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Thumbnails == nil {
		product.Thumbnails = []string{}
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, title, description, code, price, status, stock, category, thumbnails, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		product.ID, product.Title, product.Description, product.Code, product.Price,
		product.Status, product.Stock, product.Category, product.Thumbnails,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Product{}, fmt.Errorf("%w: %q", shared.ErrDuplicateCode, product.Code)
		}
		return Product{}, fmt.Errorf("%w: insert product: %v", shared.ErrStore, err)
	}
	return product, nil
}

func (r *pgRepository) Update(ctx context.Context, id string, patch ProductPatch) (Product, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE products SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			price       = COALESCE($4, price),
			status      = COALESCE($5, status),
			stock       = COALESCE($6, stock),
			category    = COALESCE($7, category),
			thumbnails  = COALESCE($8, thumbnails),
			updated_at  = $9
		WHERE id = $1
		RETURNING `+productColumns,
		id, patch.Title, patch.Description, patch.Price, patch.Status,
		patch.Stock, patch.Category, patch.Thumbnails, time.Now().UTC(),
	)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, fmt.Errorf("%w: update product: %v", shared.ErrStore, err)
	}
	return p, nil
}

func (r *pgRepository) Delete(ctx context.Context, id string) (Product, error) {
	row := r.db.QueryRow(ctx, `DELETE FROM products WHERE id = $1 RETURNING `+productColumns, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, fmt.Errorf("%w: delete product: %v", shared.ErrStore, err)
	}
	return p, nil
}

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Code, &p.Price, &p.Status,
		&p.Stock, &p.Category, &p.Thumbnails, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
