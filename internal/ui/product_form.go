package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/target/catalog-admin/internal/domain/model"
	apperrors "github.com/target/catalog-admin/internal/errors"
	"github.com/target/catalog-admin/internal/ports"
	"github.com/target/catalog-admin/internal/router"
	"github.com/target/catalog-admin/internal/ui/validation"
)

// Product form fields, named as the API names them.
const (
	FieldCode        = "codigo"
	FieldName        = "nombre"
	FieldDescription = "descripcion"
	FieldPrice       = "precio"
	FieldStock       = "stock"
	FieldActive      = "activo"
)

var formFields = []string{FieldCode, FieldName, FieldDescription, FieldPrice, FieldStock, FieldActive}

const (
	msgLoadProductDefault   = "failed to load product"
	msgSaveProductDefault   = "failed to save product"
	msgInvalidProductID     = "invalid product id"
	msgProductFormHasErrors = "please fix the highlighted fields"
)

// ProductFormOptions groups dependencies for ProductFormView.
type ProductFormOptions struct {
	Products  ports.ProductGateway // Required
	Navigator ports.Navigator      // Required
}

// ProductFormView creates a product, or edits one when the route carries an id.
type ProductFormView struct {
	state
	products ports.ProductGateway
	nav      ports.Navigator

	id           int64
	badID        bool
	values       map[string]string
	active       bool
	loading      bool
	saving       bool
	errorMessage string
	fieldErrors  map[string]string
}

// NewProductFormView builds the form for the route params of the navigation.
// An "id" param selects edit mode.
func NewProductFormView(opts ProductFormOptions, params map[string]string) *ProductFormView {
	v := &ProductFormView{
		products:    opts.Products,
		nav:         opts.Navigator,
		values:      map[string]string{},
		active:      true,
		fieldErrors: map[string]string{},
	}
	if raw, ok := params["id"]; ok {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			v.badID = true
		} else {
			v.id = id
		}
	}
	return v
}

// Name implements View.
func (v *ProductFormView) Name() string {
	if v.IsEdit() {
		return router.RouteProductEdit
	}
	return router.RouteProductNew
}

// IsEdit reports whether the form edits an existing product.
func (v *ProductFormView) IsEdit() bool { return v.id != 0 || v.badID }

// Mount loads the product in edit mode.
func (v *ProductFormView) Mount(ctx context.Context) {
	if v.badID {
		v.update(func() { v.errorMessage = msgInvalidProductID })
		return
	}
	if v.id != 0 {
		v.load(ctx)
	}
}

func (v *ProductFormView) load(ctx context.Context) {
	if !v.update(func() {
		v.loading = true
		v.errorMessage = ""
	}) {
		return
	}

	p, err := v.products.Get(ctx, v.id)

	v.update(func() {
		v.loading = false
		if err != nil {
			v.errorMessage = apperrors.Message(err, msgLoadProductDefault)
			return
		}
		v.fill(p)
	})
}

func (v *ProductFormView) fill(p *model.Product) {
	v.values[FieldCode] = p.Code
	v.values[FieldName] = p.Name
	v.values[FieldDescription] = ""
	if p.Description != nil {
		v.values[FieldDescription] = *p.Description
	}
	v.values[FieldPrice] = strconv.FormatFloat(p.Price, 'f', 2, 64)
	v.values[FieldStock] = strconv.Itoa(p.Stock)
	v.active = p.Active
}

// Set assigns a field from operator input. The activo field takes a boolean
// ("true", "false", "yes", "no", "si", "1", "0").
func (v *ProductFormView) Set(field, value string) error {
	field = strings.ToLower(strings.TrimSpace(field))
	switch field {
	case FieldActive:
		b, ok := parseBool(value)
		if !ok {
			return apperrors.ValidationField(FieldActive, "activo must be true or false")
		}
		v.update(func() { v.active = b })
		return nil
	case FieldCode, FieldName, FieldDescription, FieldPrice, FieldStock:
		v.update(func() {
			v.values[field] = value
			delete(v.fieldErrors, field)
		})
		return nil
	}
	return apperrors.Validationf("unknown field %q", field)
}

// Value returns the current input of field.
func (v *ProductFormView) Value(field string) string {
	var out string
	v.read(func() {
		if field == FieldActive {
			out = strconv.FormatBool(v.active)
			return
		}
		out = v.values[field]
	})
	return out
}

// Submit validates the form and saves it. On success the console goes back to
// the list with a success flag.
func (v *ProductFormView) Submit(ctx context.Context) {
	var (
		fv     *validation.FieldValidator
		create *model.CreateProductRequest
		update *model.UpdateProductRequest
	)
	proceed := v.update(func() {
		if v.saving || v.loading {
			fv = nil
			return
		}
		fv = v.validate()
		v.fieldErrors = fv.Errors()
		if !fv.Valid() {
			v.errorMessage = msgProductFormHasErrors
			return
		}
		v.errorMessage = ""
		v.saving = true
		create, update = v.requests()
	})
	if !proceed || fv == nil || !fv.Valid() {
		return
	}

	var err error
	success := "created"
	if v.IsEdit() {
		success = "updated"
		_, err = v.products.Update(ctx, v.id, update)
	} else {
		_, err = v.products.Create(ctx, create)
	}

	ok := v.update(func() {
		v.saving = false
		if err != nil {
			v.errorMessage = apperrors.Message(err, msgSaveProductDefault)
			if field := apperrors.GetField(err); field != "" {
				v.fieldErrors[field] = v.errorMessage
			}
		}
	})
	if ok && err == nil {
		v.nav.Navigate(router.PathProducts, url.Values{router.ParamSuccess: {success}})
	}
}

// Cancel returns to the list without saving.
func (v *ProductFormView) Cancel() {
	v.nav.Navigate(router.PathProducts, nil)
}

// ClearError dismisses the form error.
func (v *ProductFormView) ClearError() {
	v.update(func() { v.errorMessage = "" })
}

// ErrorMessage returns the current error, if any.
func (v *ProductFormView) ErrorMessage() string {
	var msg string
	v.read(func() { msg = v.errorMessage })
	return msg
}

// FieldErrors returns the field messages of the last submit.
func (v *ProductFormView) FieldErrors() map[string]string {
	out := map[string]string{}
	v.read(func() {
		for k, val := range v.fieldErrors {
			out[k] = val
		}
	})
	return out
}

// Saving reports whether a save is in flight.
func (v *ProductFormView) Saving() bool {
	var saving bool
	v.read(func() { saving = v.saving })
	return saving
}

func (v *ProductFormView) validate() *validation.FieldValidator {
	return validation.New().
		Validate(FieldCode, v.values[FieldCode],
			validation.Required("Code"),
			validation.MaxLen("Code", model.MaxProductCodeLen),
			validation.Pattern(model.ProductCodePattern, "Code may only contain letters, digits, '-' and '_'")).
		Validate(FieldName, v.values[FieldName],
			validation.Required("Name"),
			validation.MinLen("Name", model.MinProductNameLen),
			validation.MaxLen("Name", model.MaxProductNameLen)).
		Validate(FieldDescription, v.values[FieldDescription],
			validation.MaxLen("Description", model.MaxProductDescriptionLen)).
		Validate(FieldPrice, v.values[FieldPrice],
			validation.Required("Price"),
			validation.FloatRange("Price", model.MinProductPrice, model.MaxProductPrice)).
		Validate(FieldStock, v.values[FieldStock],
			validation.Required("Stock"),
			validation.NonNegativeInt("Stock"))
}

// requests builds both payloads from validated input.
func (v *ProductFormView) requests() (*model.CreateProductRequest, *model.UpdateProductRequest) {
	price, _ := validation.ParseFloat(v.values[FieldPrice])
	stock, _ := strconv.Atoi(strings.TrimSpace(v.values[FieldStock]))
	var desc *string
	if d := strings.TrimSpace(v.values[FieldDescription]); d != "" {
		desc = &d
	}
	code := strings.TrimSpace(v.values[FieldCode])
	name := strings.TrimSpace(v.values[FieldName])
	return &model.CreateProductRequest{Code: code, Name: name, Description: desc, Price: price, Stock: stock},
		&model.UpdateProductRequest{Code: code, Name: name, Description: desc, Price: price, Stock: stock, Active: v.active}
}

// Render implements View.
func (v *ProductFormView) Render(w io.Writer) {
	v.read(func() {
		if v.IsEdit() {
			_, _ = fmt.Fprintf(w, "== Edit product %d ==\n", v.id)
		} else {
			_, _ = fmt.Fprintln(w, "== New product ==")
		}
		if v.loading {
			_, _ = fmt.Fprintln(w, "Loading product...")
		}
		if v.errorMessage != "" {
			_, _ = fmt.Fprintf(w, "Error: %s\n", v.errorMessage)
		}
		for _, f := range formFields {
			val := v.values[f]
			if f == FieldActive {
				if !v.IsEdit() {
					continue
				}
				val = strconv.FormatBool(v.active)
			}
			_, _ = fmt.Fprintf(w, "  %-12s %s\n", f+":", val)
			if msg := v.fieldErrors[f]; msg != "" {
				_, _ = fmt.Fprintf(w, "  %-12s ! %s\n", "", msg)
			}
		}
		if v.saving {
			_, _ = fmt.Fprintln(w, "Saving...")
		}
		_, _ = fmt.Fprintln(w, "Commands: set <field> <value> | save | cancel | clear | quit")
	})
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "si", "sí", "1", "y":
		return true, true
	case "false", "no", "0", "n":
		return false, true
	}
	return false, false
}
