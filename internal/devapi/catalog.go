package devapi

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/target/catalog-admin/internal/domain/model"
)

var (
	errProductNotFound = errors.New("product not found")
	errDuplicateCode   = errors.New("duplicate product code")
)

// Catalog is the in-memory product table of the development API.
type Catalog struct {
	mu       sync.RWMutex
	products map[int64]model.Product
	nextID   int64
	now      func() time.Time
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{products: map[int64]model.Product{}, nextID: 1, now: time.Now}
}

// List returns every product ordered by id.
func (c *Catalog) List() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns the product with id.
func (c *Catalog) Get(id int64) (model.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[id]
	if !ok {
		return model.Product{}, errProductNotFound
	}
	return p, nil
}

// Create adds an active product owned by createdBy.
func (c *Catalog) Create(req model.CreateProductRequest, createdBy string) (model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.codeTaken(req.Code, 0) {
		return model.Product{}, errDuplicateCode
	}
	p := model.Product{
		ID:          c.nextID,
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Active:      true,
		CreatedAt:   model.NewTimestamp(c.now().UTC()),
	}
	if createdBy != "" {
		p.CreatedBy = &createdBy
	}
	c.nextID++
	c.products[p.ID] = p
	return p, nil
}

// Update replaces the editable fields of product id.
func (c *Catalog) Update(id int64, req model.UpdateProductRequest) (model.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[id]
	if !ok {
		return model.Product{}, errProductNotFound
	}
	if c.codeTaken(req.Code, id) {
		return model.Product{}, errDuplicateCode
	}
	p.Code = strings.TrimSpace(req.Code)
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.Stock = req.Stock
	p.Active = req.Active
	ts := model.NewTimestamp(c.now().UTC())
	p.UpdatedAt = &ts
	c.products[id] = p
	return p, nil
}

// Delete removes product id.
func (c *Catalog) Delete(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.products[id]; !ok {
		return errProductNotFound
	}
	delete(c.products, id)
	return nil
}

// codeTaken reports whether another product already uses code. Caller holds mu.
func (c *Catalog) codeTaken(code string, except int64) bool {
	code = strings.TrimSpace(code)
	for id, p := range c.products {
		if id != except && strings.EqualFold(p.Code, code) {
			return true
		}
	}
	return false
}

// Seed loads a few sample products.
func (c *Catalog) Seed() {
	desc := func(s string) *string { return &s }
	samples := []model.CreateProductRequest{
		{Code: "PRD-001", Name: "Teclado mecánico", Description: desc("Switches rojos, retroiluminado"), Price: 49.99, Stock: 25},
		{Code: "PRD-002", Name: "Ratón inalámbrico", Price: 19.5, Stock: 40},
		{Code: "PRD-003", Name: "Monitor 27 pulgadas", Description: desc("IPS 1440p"), Price: 289, Stock: 6},
		{Code: "PRD-004", Name: "Cable USB-C", Price: 7.25, Stock: 0},
	}
	for _, s := range samples {
		_, _ = c.Create(s, "seed")
	}
}
