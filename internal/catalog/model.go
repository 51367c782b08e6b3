package catalog

import "time"

// Product represents a catalog entry. Code is the unique business key and is
// immutable after creation, same as the id.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Code        string    `json:"code"`
	Price       float64   `json:"price"`
	Status      bool      `json:"status"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	Thumbnails  []string  `json:"thumbnails"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductPatch carries a partial update; nil fields retain their prior
// value. Id and code are deliberately absent.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Status      *bool
	Stock       *int
	Category    *string
	Thumbnails  *[]string
}

// Apply overlays the patch onto the product.
func (p *Product) Apply(patch ProductPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Thumbnails != nil {
		p.Thumbnails = *patch.Thumbnails
	}
}
