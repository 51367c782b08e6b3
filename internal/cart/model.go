package cart

import (
	"time"

	"github.com/mitienda/mitienda/internal/catalog"
)

// LineItem pairs a product reference with a quantity. A cart holds at most
// one line item per product; quantity is always at least 1.
type LineItem struct {
	ProductID string `json:"product"`
	Quantity  int    `json:"quantity"`
}

// Cart is the stored shape: ordered line items with weak product references.
type Cart struct {
	ID        string     `json:"id"`
	Items     []LineItem `json:"products"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ResolvedLine embeds the product snapshot for a line item. Product is nil
// when the referenced product has been deleted and the sweep has not run yet.
type ResolvedLine struct {
	Product  *catalog.Product `json:"product"`
	Quantity int              `json:"quantity"`
}

// ResolvedCart is a cart with line items joined to product data on read.
type ResolvedCart struct {
	ID    string         `json:"id"`
	Items []ResolvedLine `json:"products"`
}

// findItem returns the index of the line item for productID, or -1.
func findItem(items []LineItem, productID string) int {
	for i, item := range items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}
