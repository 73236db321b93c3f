// Package testutil provides testing utilities and helpers for the catalog console.
package testutil

import (
	"time"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/domain/model"
)

// TestTime returns a fixed timestamp for deterministic tests.
func TestTime() time.Time {
	return time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
}

// ProductBuilder provides a fluent interface for building Product values for testing.
type ProductBuilder struct {
	p model.Product
}

// NewProduct creates a ProductBuilder with sensible defaults.
func NewProduct() *ProductBuilder {
	return &ProductBuilder{p: model.Product{
		ID:        1,
		Code:      "PRD-001",
		Name:      "Teclado mecánico",
		Price:     49.99,
		Stock:     10,
		Active:    true,
		CreatedAt: model.NewTimestamp(TestTime()),
	}}
}

// WithID sets the product id.
func (b *ProductBuilder) WithID(id int64) *ProductBuilder {
	b.p.ID = id
	return b
}

// WithCode sets the product code.
func (b *ProductBuilder) WithCode(code string) *ProductBuilder {
	b.p.Code = code
	return b
}

// WithName sets the product name.
func (b *ProductBuilder) WithName(name string) *ProductBuilder {
	b.p.Name = name
	return b
}

// WithDescription sets the product description.
func (b *ProductBuilder) WithDescription(desc string) *ProductBuilder {
	b.p.Description = &desc
	return b
}

// WithPrice sets the product price.
func (b *ProductBuilder) WithPrice(price float64) *ProductBuilder {
	b.p.Price = price
	return b
}

// WithStock sets the product stock.
func (b *ProductBuilder) WithStock(stock int) *ProductBuilder {
	b.p.Stock = stock
	return b
}

// Inactive marks the product inactive.
func (b *ProductBuilder) Inactive() *ProductBuilder {
	b.p.Active = false
	return b
}

// Build returns the product.
func (b *ProductBuilder) Build() model.Product {
	return b.p
}

// BuildPtr returns a pointer to a copy of the product.
func (b *ProductBuilder) BuildPtr() *model.Product {
	p := b.p
	return &p
}

// NewUser returns a user with the given id and username.
func NewUser(id int64, username string) *domainauth.User {
	return &domainauth.User{ID: id, Username: username, Email: username + "@example.com"}
}
