package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-backend/internal/domain"
)

type ProductUC interface {
	ListProducts(ctx context.Context, req *ListProductsReq) (*ListProductsRes, error)
	GetProduct(ctx context.Context, id int64, includeDeleted bool) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductReq) error
	DeleteProduct(ctx context.Context, id int64) error
	RestoreProduct(ctx context.Context, id int64) error
	SetProductActive(ctx context.Context, id int64, isActive bool) error
	Categories(ctx context.Context, includeDeleted bool) ([]string, error)
	Summary(ctx context.Context, includeDeleted bool) (*Summary, error)
	StatsByCategory(ctx context.Context, includeDeleted bool) ([]CategoryStats, error)
}
