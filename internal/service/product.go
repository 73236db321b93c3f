package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/target/catalog-admin/internal/domain/model"
	apperrors "github.com/target/catalog-admin/internal/errors"
	"github.com/target/catalog-admin/internal/ports"
)

// Fallback messages used when the API reports failure without saying why.
const (
	msgListFailed   = "failed to load products"
	msgNotFound     = "product not found"
	msgCreateFailed = "failed to create product"
	msgUpdateFailed = "failed to update product"
	msgDeleteFailed = "failed to delete product"
)

var _ ports.ProductGateway = (*ProductService)(nil)

// productPolicy words 404 replies for the product resource.
var productPolicy = apperrors.Policy{NotFoundMessage: msgNotFound}

// ProductServiceOptions groups dependencies for ProductService.
type ProductServiceOptions struct {
	API ports.APIClient // Required: API transport
	// ProductsPath is the resource path under the API base, e.g. "/productos".
	ProductsPath string
	Logger       *slog.Logger // Optional: structured logger
}

// ProductService is the gateway to the product resource. It unwraps the API
// envelope and turns every failure into an *errors.AppError.
type ProductService struct {
	api    ports.APIClient
	path   string
	logger *slog.Logger
}

// NewProductService constructs a new ProductService.
func NewProductService(opts ProductServiceOptions) (*ProductService, error) {
	if opts.API == nil {
		return nil, errors.New("API client is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	path := strings.TrimRight(opts.ProductsPath, "/")
	if path == "" {
		path = "/productos"
	}
	return &ProductService{api: opts.API, path: path, logger: logger.With("component", "product_service")}, nil
}

// MustNewProductService constructs a new ProductService and panics on error.
func MustNewProductService(opts ProductServiceOptions) *ProductService {
	svc, err := NewProductService(opts)
	if err != nil {
		panic(err) //nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
	}
	return svc
}

// List returns every product. A successful reply without data is an empty list.
func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	var resp model.APIResponse[[]model.Product]
	if err := s.do(ctx, http.MethodGet, s.path, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, envelopeError(resp.Message, msgListFailed)
	}
	if resp.Data == nil {
		return []model.Product{}, nil
	}
	return *resp.Data, nil
}

// Get returns the product with the given id.
func (s *ProductService) Get(ctx context.Context, id int64) (*model.Product, error) {
	var resp model.APIResponse[model.Product]
	if err := s.do(ctx, http.MethodGet, s.itemPath(id), nil, &resp); err != nil {
		return nil, err
	}
	return unwrapProduct(resp, msgNotFound)
}

// Create adds a product.
func (s *ProductService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("product is required")
	}
	var resp model.APIResponse[model.Product]
	if err := s.do(ctx, http.MethodPost, s.path, req, &resp); err != nil {
		return nil, err
	}
	return unwrapProduct(resp, msgCreateFailed)
}

// Update replaces every editable field of the product with the given id.
func (s *ProductService) Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error) {
	if req == nil {
		return nil, apperrors.Validation("product is required")
	}
	var resp model.APIResponse[model.Product]
	if err := s.do(ctx, http.MethodPut, s.itemPath(id), req, &resp); err != nil {
		return nil, err
	}
	return unwrapProduct(resp, msgUpdateFailed)
}

// Delete removes the product with the given id.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	var resp model.APIResponse[struct{}]
	if err := s.do(ctx, http.MethodDelete, s.itemPath(id), nil, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return envelopeError(resp.Message, msgDeleteFailed)
	}
	return nil
}

func (s *ProductService) itemPath(id int64) string {
	return fmt.Sprintf("%s/%d", s.path, id)
}

func (s *ProductService) do(ctx context.Context, method, path string, body, out any) error {
	err := s.api.Do(ctx, ports.APIRequest{Method: method, Path: path, Body: body, Policy: productPolicy}, out)
	if err != nil && !apperrors.IsCanceled(err) {
		s.logger.WarnContext(ctx, "product request failed",
			"method", method, "path", path, "error", err)
	}
	return err
}

func unwrapProduct(resp model.APIResponse[model.Product], fallback string) (*model.Product, error) {
	if !resp.Success {
		return nil, envelopeError(resp.Message, fallback)
	}
	if resp.Data == nil {
		return nil, apperrors.Server(msgInvalidAPIResponse)
	}
	return resp.Data, nil
}

// envelopeError turns a 2xx reply with success=false into a server error.
func envelopeError(message, fallback string) *apperrors.AppError {
	return apperrors.Server(nonEmpty(message, fallback))
}
