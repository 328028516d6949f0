package category

import (
	"context"
	"errors"

	"github.com/omniorder/order-service/internal/category/dto"
	"github.com/omniorder/order-service/internal/model"
)

var (
	ErrNotFound    = errors.New("category not found")
	ErrHasProducts = errors.New("category still has products assigned")
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}
