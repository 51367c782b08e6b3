package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
	"github.com/mitienda/mitienda/internal/shared"
)

func TestComposeProductListLinks(t *testing.T) {
	result := catalog.ListResult{
		Items:      []catalog.Product{{ID: "1"}},
		Pagination: shared.NewPagination(2, 5, 25),
	}
	q := catalog.ListQuery{Query: "mouse", Sort: "asc", Page: 2, Limit: 5}

	page := ComposeProductList(result, q, "/products")

	assert.Equal(t, 5, page.Pagination.TotalPages)
	assert.Equal(t, 2, page.Pagination.CurrentPage)
	assert.True(t, page.Pagination.HasPrev)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, "/products?limit=5&page=1&query=mouse&sort=asc", page.Pagination.PrevLink)
	assert.Equal(t, "/products?limit=5&page=3&query=mouse&sort=asc", page.Pagination.NextLink)
	assert.Equal(t, "mouse", page.Query)
}

func TestComposeProductListNoOptionalParams(t *testing.T) {
	result := catalog.ListResult{Pagination: shared.NewPagination(1, 10, 30)}
	q := catalog.ListQuery{Page: 1, Limit: 10}

	page := ComposeProductList(result, q, "/products")

	assert.False(t, page.Pagination.HasPrev)
	assert.Empty(t, page.Pagination.PrevLink)
	assert.Equal(t, "/products?limit=10&page=2", page.Pagination.NextLink)
}

func TestComposeProductListQueryEscaped(t *testing.T) {
	result := catalog.ListResult{Pagination: shared.NewPagination(1, 10, 20)}
	q := catalog.ListQuery{Query: "caf latte", Page: 1, Limit: 10}

	page := ComposeProductList(result, q, "/products")
	assert.Contains(t, page.Pagination.NextLink, "query=caf+latte")
}

func TestComposeCartTotals(t *testing.T) {
	resolved := cart.ResolvedCart{
		ID: "1",
		Items: []cart.ResolvedLine{
			{Product: &catalog.Product{ID: "p1", Title: "Mouse", Price: 34.5}, Quantity: 2},
			{Product: &catalog.Product{ID: "p2", Title: "Keyboard", Price: 89.99}, Quantity: 1},
		},
	}

	page := ComposeCart(resolved)

	require.Len(t, page.Lines, 2)
	assert.Equal(t, "69.00", page.Lines[0].Total)
	assert.Equal(t, "89.99", page.Lines[1].Total)
	assert.Equal(t, "158.99", page.GrandTotal)
	assert.False(t, page.Empty)
}

func TestComposeCartOmitsDanglingLines(t *testing.T) {
	resolved := cart.ResolvedCart{
		ID: "1",
		Items: []cart.ResolvedLine{
			{Product: nil, Quantity: 3},
			{Product: &catalog.Product{ID: "p1", Price: 10}, Quantity: 1},
		},
	}

	page := ComposeCart(resolved)

	require.Len(t, page.Lines, 1)
	assert.Equal(t, "p1", page.Lines[0].ProductID)
	assert.Equal(t, "10.00", page.GrandTotal)
}

func TestComposeCartEmpty(t *testing.T) {
	page := ComposeCart(cart.ResolvedCart{ID: "9"})

	assert.True(t, page.Empty)
	assert.Empty(t, page.Lines)
	assert.Equal(t, "0.00", page.GrandTotal)
	assert.Equal(t, "9", page.CartID)
}
