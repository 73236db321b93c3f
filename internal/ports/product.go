package ports

import (
	"context"

	"github.com/target/catalog-admin/internal/domain/model"
)

// ProductGateway is the product resource of the remote API. Every error it returns
// is an *errors.AppError produced by the shared HTTP error policy.
type ProductGateway interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)
	Update(ctx context.Context, id int64, req *model.UpdateProductRequest) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}
