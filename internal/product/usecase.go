package product

import (
	"context"
	"errors"

	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/product/dto"
)

var (
	ErrNotFound          = errors.New("product not found")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidPrice      = errors.New("price must be positive")
	ErrInvalidStockLevel = errors.New("max stock level must exceed min stock level")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SearchProducts(ctx context.Context, query string, page, pageSize int) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, id string, patch *dto.ProductPatch) (*model.Product, error)
	ToggleAvailability(ctx context.Context, id string) (*model.Product, error)
}
