package catalog

// CreateProductForm is the POST /api/products body. Price and stock are
// pointers so an explicit zero passes the required check while an absent
// field fails it.
type CreateProductForm struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Code        string   `json:"code" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Status      *bool    `json:"status"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	Thumbnails  []string `json:"thumbnails"`
}

// UpdateProductForm is the PUT /api/products/{pid} body. Only supplied
// fields change; code and id submitted here are ignored.
type UpdateProductForm struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Status      *bool     `json:"status"`
	Stock       *int      `json:"stock" validate:"omitempty,gte=0"`
	Category    *string   `json:"category"`
	Thumbnails  *[]string `json:"thumbnails"`
}

// Patch converts the form into a repository patch.
func (f UpdateProductForm) Patch() ProductPatch {
	return ProductPatch{
		Title:       f.Title,
		Description: f.Description,
		Price:       f.Price,
		Status:      f.Status,
		Stock:       f.Stock,
		Category:    f.Category,
		Thumbnails:  f.Thumbnails,
	}
}
