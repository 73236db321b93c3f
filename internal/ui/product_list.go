package ui

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"text/tabwriter"
	"time"

	domainauth "github.com/target/catalog-admin/internal/domain/auth"
	"github.com/target/catalog-admin/internal/domain/model"
	apperrors "github.com/target/catalog-admin/internal/errors"
	"github.com/target/catalog-admin/internal/ports"
	"github.com/target/catalog-admin/internal/router"
)

// Flash messages shown by the product list.
const (
	MsgProductCreated = "Product created successfully"
	MsgProductUpdated = "Product updated successfully"
	MsgProductDeleted = "Product deleted successfully"

	msgLoadProductsDefault  = "failed to load products"
	msgDeleteProductDefault = "failed to delete product"
)

// DefaultFlashDuration is how long a success message stays visible.
const DefaultFlashDuration = 3 * time.Second

// ProductListOptions groups dependencies for ProductListView.
type ProductListOptions struct {
	Products  ports.ProductGateway // Required
	Auth      ports.AuthGateway    // Required: current user and logout
	Navigator ports.Navigator      // Required
	Format    Formatter
	// FlashDuration overrides DefaultFlashDuration when positive.
	FlashDuration time.Duration
}

// ProductListView shows the catalog and drives the delete flow.
type ProductListView struct {
	state
	products ports.ProductGateway
	auth     ports.AuthGateway
	nav      ports.Navigator
	format   Formatter
	flashFor time.Duration
	query    url.Values

	items          []model.Product
	loading        bool
	errorMessage   string
	successMessage string
	currentUser    *domainauth.User
	deletingID     int64
	pendingDelete  *model.Product
	flashTimer     *time.Timer
}

// NewProductListView builds the list view for a navigation carrying query.
func NewProductListView(opts ProductListOptions, query url.Values) *ProductListView {
	flash := opts.FlashDuration
	if flash <= 0 {
		flash = DefaultFlashDuration
	}
	if opts.Format.printer == nil {
		opts.Format = NewFormatter("es-ES")
	}
	return &ProductListView{
		products: opts.Products,
		auth:     opts.Auth,
		nav:      opts.Navigator,
		format:   opts.Format,
		flashFor: flash,
		query:    query,
	}
}

// Name implements View.
func (v *ProductListView) Name() string { return router.RouteProductList }

// Mount reads the current user, shows the flash carried by the navigation, and loads products.
func (v *ProductListView) Mount(ctx context.Context) {
	user := v.auth.CurrentUser()
	v.update(func() { v.currentUser = user })
	v.onDestroy(v.stopFlash)

	switch v.query.Get(router.ParamSuccess) {
	case "created":
		v.flash(MsgProductCreated)
	case "updated":
		v.flash(MsgProductUpdated)
	}
	v.Load(ctx)
}

// Load fetches the product list.
func (v *ProductListView) Load(ctx context.Context) {
	if !v.update(func() {
		v.loading = true
		v.errorMessage = ""
	}) {
		return
	}

	items, err := v.products.List(ctx)

	v.update(func() {
		v.loading = false
		if err != nil {
			v.errorMessage = apperrors.Message(err, msgLoadProductsDefault)
			return
		}
		v.items = items
	})
}

// Create goes to the new-product form.
func (v *ProductListView) Create() {
	v.nav.Navigate(router.PathProductNew, nil)
}

// Edit goes to the edit form of product id.
func (v *ProductListView) Edit(id int64) {
	v.nav.Navigate("/productos/editar/"+strconv.FormatInt(id, 10), nil)
}

// ConfirmDelete asks for confirmation before deleting product id.
func (v *ProductListView) ConfirmDelete(id int64) error {
	var found bool
	v.update(func() {
		for i := range v.items {
			if v.items[i].ID == id {
				p := v.items[i]
				v.pendingDelete = &p
				found = true
				return
			}
		}
	})
	if !found {
		return apperrors.NotFoundf("product %d is not in the list", id)
	}
	return nil
}

// CancelDelete dismisses the confirmation.
func (v *ProductListView) CancelDelete() {
	v.update(func() { v.pendingDelete = nil })
}

// Delete removes the product awaiting confirmation. It does nothing when no
// confirmation is pending.
func (v *ProductListView) Delete(ctx context.Context) {
	var id int64
	v.update(func() {
		if v.pendingDelete == nil {
			return
		}
		id = v.pendingDelete.ID
		v.deletingID = id
		v.errorMessage = ""
	})
	if id == 0 {
		return
	}

	err := v.products.Delete(ctx, id)

	ok := v.update(func() {
		v.deletingID = 0
		v.pendingDelete = nil
		if err != nil {
			v.errorMessage = apperrors.Message(err, msgDeleteProductDefault)
			return
		}
		kept := v.items[:0:0]
		for _, p := range v.items {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		v.items = kept
	})
	if ok && err == nil {
		v.flash(MsgProductDeleted)
	}
}

// Logout ends the session; the auth gateway navigates to the login route.
func (v *ProductListView) Logout(ctx context.Context) domainauth.Outcome {
	return v.auth.Logout(ctx)
}

// ClearMessages dismisses the error and success messages.
func (v *ProductListView) ClearMessages() {
	v.update(func() {
		v.errorMessage = ""
		v.successMessage = ""
	})
}

// Items returns a copy of the loaded products.
func (v *ProductListView) Items() []model.Product {
	var out []model.Product
	v.read(func() { out = append(out, v.items...) })
	return out
}

// ErrorMessage returns the current error, if any.
func (v *ProductListView) ErrorMessage() string {
	var msg string
	v.read(func() { msg = v.errorMessage })
	return msg
}

// SuccessMessage returns the current flash, if any.
func (v *ProductListView) SuccessMessage() string {
	var msg string
	v.read(func() { msg = v.successMessage })
	return msg
}

// PendingDelete returns the product awaiting confirmation, or nil.
func (v *ProductListView) PendingDelete() *model.Product {
	var p *model.Product
	v.read(func() { p = v.pendingDelete })
	return p
}

// DeletingID returns the id of the product being deleted, or 0.
func (v *ProductListView) DeletingID() int64 {
	var id int64
	v.read(func() { id = v.deletingID })
	return id
}

// flash shows msg and clears it after the flash duration.
func (v *ProductListView) flash(msg string) {
	v.update(func() {
		v.successMessage = msg
		if v.flashTimer != nil {
			v.flashTimer.Stop()
		}
		v.flashTimer = time.AfterFunc(v.flashFor, func() {
			v.update(func() {
				if v.successMessage == msg {
					v.successMessage = ""
				}
			})
		})
	})
}

func (v *ProductListView) stopFlash() {
	v.read(func() {
		if v.flashTimer != nil {
			v.flashTimer.Stop()
		}
	})
}

// Render implements View.
func (v *ProductListView) Render(w io.Writer) {
	v.read(func() {
		_, _ = fmt.Fprintln(w, "== Products ==")
		if v.currentUser != nil {
			_, _ = fmt.Fprintf(w, "Signed in as %s\n", v.currentUser.Username)
		}
		if v.successMessage != "" {
			_, _ = fmt.Fprintf(w, "OK: %s\n", v.successMessage)
		}
		if v.errorMessage != "" {
			_, _ = fmt.Fprintf(w, "Error: %s\n", v.errorMessage)
		}
		if v.loading {
			_, _ = fmt.Fprintln(w, "Loading products...")
		}
		v.renderTable(w)
		if v.pendingDelete != nil {
			_, _ = fmt.Fprintf(w, "Delete %s (%s)? Type 'yes' to confirm or 'no' to cancel.\n",
				v.pendingDelete.Name, v.pendingDelete.Code)
		}
		_, _ = fmt.Fprintln(w, "Commands: list [--query EXPR] | new | edit <id> | delete <id> | reload | clear | logout | quit")
	})
}

func (v *ProductListView) renderTable(w io.Writer) {
	if len(v.items) == 0 && !v.loading {
		_, _ = fmt.Fprintln(w, "No products.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tCODE\tNAME\tPRICE\tSTOCK\tACTIVE\tCREATED\t")
	for _, p := range v.items {
		marker := ""
		if p.ID == v.deletingID {
			marker = " (deleting)"
		}
		active := "yes"
		if !p.Active {
			active = "no"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s%s\t%s\t%s\t%s\t%s\t\n",
			p.ID, p.Code, p.Name, marker, v.format.Price(p.Price), v.format.Integer(p.Stock), active, v.format.Date(p.CreatedAt))
	}
	_ = tw.Flush()
}
