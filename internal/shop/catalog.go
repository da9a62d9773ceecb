package shop

import (
	"context"

	"github.com/you/storefront/internal/store"
)

const maxSuggestions = 5

type CatalogStore interface {
	ListProducts(ctx context.Context, f store.ProductFilter) ([]store.Product, error)
	GetProduct(ctx context.Context, id int64) (store.Product, error)
	CreateProduct(ctx context.Context, in store.ProductInput) (store.Product, error)
	UpdateProduct(ctx context.Context, id int64, in store.ProductInput) (store.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]string, error)
	Suggestions(ctx context.Context, productID int64, limit int) ([]store.Suggestion, error)
}

// Catalog serves product reads and writes.
type Catalog struct {
	store CatalogStore
}

func NewCatalog(s CatalogStore) *Catalog {
	return &Catalog{store: s}
}

// Products filters by exact category and by every whitespace separated word
// of query. Empty arguments disable their filter.
func (c *Catalog) Products(ctx context.Context, category, query string) ([]store.Product, error) {
	products, err := c.store.ListProducts(ctx, store.ProductFilter{
		Category: category,
		Terms:    store.SplitTerms(query),
	})
	if err != nil {
		return nil, err
	}
	return nonNil(products), nil
}

func (c *Catalog) Product(ctx context.Context, id int64) (store.Product, error) {
	p, err := c.store.GetProduct(ctx, id)
	return p, classify(err, "product")
}

func (c *Catalog) CreateProduct(ctx context.Context, in store.ProductInput) (store.Product, error) {
	if in.Name == nil || *in.Name == "" || in.Category == nil || *in.Category == "" || in.Price == nil || *in.Price == 0 {
		return store.Product{}, invalid("name, category and price are required")
	}
	p, err := c.store.CreateProduct(ctx, in)
	return p, classify(err, "product")
}

// UpdateProduct replaces the whole product; fields left out of in are cleared.
func (c *Catalog) UpdateProduct(ctx context.Context, id int64, in store.ProductInput) (store.Product, error) {
	p, err := c.store.UpdateProduct(ctx, id, in)
	return p, classify(err, "product")
}

func (c *Catalog) DeleteProduct(ctx context.Context, id int64) error {
	return classify(c.store.DeleteProduct(ctx, id), "product")
}

func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	categories, err := c.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return nonNil(categories), nil
}

// Suggestions lists up to five products most often bought together with
// productID. Computed on every call.
func (c *Catalog) Suggestions(ctx context.Context, productID int64) ([]store.Suggestion, error) {
	s, err := c.store.Suggestions(ctx, productID, maxSuggestions)
	if err != nil {
		return nil, err
	}
	return nonNil(s), nil
}
