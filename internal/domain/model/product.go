//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Product field limits shared by the form and the development API.
const (
	MaxProductCodeLen        = 50
	MinProductNameLen        = 3
	MaxProductNameLen        = 200
	MaxProductDescriptionLen = 500
	MinProductPrice          = 0.01
	MaxProductPrice          = 999999.99
)

// ProductCodePattern restricts product codes to letters, digits, '-' and '_'.
var ProductCodePattern = regexp.MustCompile(`^[a-zA-Z0-9\-_]+$`)

// Product is a catalog entry as returned by the API.
type Product struct {
	ID          int64      `json:"id"`
	Code        string     `json:"codigo"`
	Name        string     `json:"nombre"`
	Description *string    `json:"descripcion,omitempty"`
	Price       float64    `json:"precio"`
	Stock       int        `json:"stock"`
	Active      bool       `json:"activo"`
	CreatedAt   Timestamp  `json:"fechaCreacion"`
	UpdatedAt   *Timestamp `json:"fechaModificacion,omitempty"`
	CreatedBy   *string    `json:"usuarioCreacion,omitempty"`
}

// CreateProductRequest represents parameters to create a Product.
type CreateProductRequest struct {
	Code        string  `json:"codigo"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
}

// UpdateProductRequest represents parameters to update a Product. All fields are replaced.
type UpdateProductRequest struct {
	Code        string  `json:"codigo"`
	Name        string  `json:"nombre"`
	Description *string `json:"descripcion,omitempty"`
	Price       float64 `json:"precio"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"activo"`
}

// Validate returns one message per invalid field, empty when the request is acceptable.
func (r *CreateProductRequest) Validate() []string {
	return validateProductFields(r.Code, r.Name, r.Description, r.Price, r.Stock)
}

// Validate returns one message per invalid field, empty when the request is acceptable.
func (r *UpdateProductRequest) Validate() []string {
	return validateProductFields(r.Code, r.Name, r.Description, r.Price, r.Stock)
}

func validateProductFields(code, name string, desc *string, price float64, stock int) []string {
	var errs []string
	code = strings.TrimSpace(code)
	switch {
	case code == "":
		errs = append(errs, "codigo is required")
	case utf8.RuneCountInString(code) > MaxProductCodeLen:
		errs = append(errs, fmt.Sprintf("codigo cannot exceed %d characters", MaxProductCodeLen))
	case !ProductCodePattern.MatchString(code):
		errs = append(errs, "codigo may only contain letters, digits, '-' and '_'")
	}

	n := utf8.RuneCountInString(strings.TrimSpace(name))
	switch {
	case n == 0:
		errs = append(errs, "nombre is required")
	case n < MinProductNameLen || n > MaxProductNameLen:
		errs = append(errs, fmt.Sprintf("nombre must be between %d and %d characters", MinProductNameLen, MaxProductNameLen))
	}

	if desc != nil && utf8.RuneCountInString(*desc) > MaxProductDescriptionLen {
		errs = append(errs, fmt.Sprintf("descripcion cannot exceed %d characters", MaxProductDescriptionLen))
	}
	if price < MinProductPrice || price > MaxProductPrice {
		errs = append(errs, fmt.Sprintf("precio must be between %.2f and %.2f", MinProductPrice, MaxProductPrice))
	}
	if stock < 0 {
		errs = append(errs, "stock cannot be negative")
	}
	return errs
}

// APIResponse is the envelope every product endpoint wraps its payload in.
type APIResponse[T any] struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    *T       `json:"data,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}
