package view

import (
	"net/url"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mitienda/mitienda/internal/cart"
	"github.com/mitienda/mitienda/internal/catalog"
)

var pricePrinter = message.NewPrinter(language.English)

// PageLinks is the render-ready pagination block: prev/next links preserve
// limit, sort and query parameters.
type PageLinks struct {
	TotalPages  int
	CurrentPage int
	HasPrev     bool
	HasNext     bool
	PrevPage    int
	NextPage    int
	PrevLink    string
	NextLink    string
}

// ProductListPage feeds the paginated storefront template.
type ProductListPage struct {
	Products   []catalog.Product
	Query      string
	Sort       string
	Pagination PageLinks
}

// ComposeProductList maps a catalog listing into a render-ready page.
func ComposeProductList(result catalog.ListResult, q catalog.ListQuery, basePath string) ProductListPage {
	p := result.Pagination
	links := PageLinks{
		TotalPages:  p.TotalPages,
		CurrentPage: p.Page,
		HasPrev:     p.HasPrev(),
		HasNext:     p.HasNext(),
		PrevPage:    p.Prev(),
		NextPage:    p.Next(),
	}
	if links.HasPrev {
		links.PrevLink = pageLink(basePath, q, links.PrevPage)
	}
	if links.HasNext {
		links.NextLink = pageLink(basePath, q, links.NextPage)
	}
	return ProductListPage{
		Products:   result.Items,
		Query:      q.Query,
		Sort:       q.Sort,
		Pagination: links,
	}
}

func pageLink(basePath string, q catalog.ListQuery, page int) string {
	values := url.Values{}
	values.Set("limit", strconv.Itoa(q.Limit))
	values.Set("page", strconv.Itoa(page))
	if q.Sort != "" {
		values.Set("sort", q.Sort)
	}
	if q.Query != "" {
		values.Set("query", q.Query)
	}
	return basePath + "?" + values.Encode()
}

// CartLine is one resolved line item with its computed total.
type CartLine struct {
	ProductID   string
	Title       string
	Description string
	Category    string
	Thumbnails  []string
	Price       float64
	Quantity    int
	Total       string
}

// CartPage feeds the cart template. Lines whose product no longer exists
// are omitted from the rendered view.
type CartPage struct {
	CartID     string
	Lines      []CartLine
	GrandTotal string
	Empty      bool
}

// ComposeCart maps a resolved cart into a render-ready page, computing
// per-line totals (price x quantity, 2 decimal places).
func ComposeCart(c cart.ResolvedCart) CartPage {
	page := CartPage{CartID: c.ID, Lines: []CartLine{}}
	var grand float64
	for _, line := range c.Items {
		if line.Product == nil {
			continue
		}
		total := line.Product.Price * float64(line.Quantity)
		grand += total
		page.Lines = append(page.Lines, CartLine{
			ProductID:   line.Product.ID,
			Title:       line.Product.Title,
			Description: line.Product.Description,
			Category:    line.Product.Category,
			Thumbnails:  line.Product.Thumbnails,
			Price:       line.Product.Price,
			Quantity:    line.Quantity,
			Total:       pricePrinter.Sprintf("%.2f", total),
		})
	}
	page.GrandTotal = pricePrinter.Sprintf("%.2f", grand)
	page.Empty = len(page.Lines) == 0
	return page
}
