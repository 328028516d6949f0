package usecase

import (
	"context"
	"testing"

	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/product"
	"github.com/omniorder/order-service/internal/product/dto"
	"github.com/omniorder/order-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productRepo struct {
	products map[string]*model.Product
}

func newProductRepo() *productRepo {
	return &productRepo{products: make(map[string]*model.Product)}
}

func (r *productRepo) Create(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

func (r *productRepo) FindByID(_ context.Context, id string) (*model.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *productRepo) FindAll(_ context.Context, _ *dto.ProductFilters) ([]model.Product, int, error) {
	var out []model.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *productRepo) Update(_ context.Context, p *model.Product) error {
	cp := *p
	r.products[p.ID] = &cp
	return nil
}

type categoryRepo struct {
	ids map[string]bool
}

func (r *categoryRepo) FindByID(_ context.Context, id string) (*model.Category, error) {
	if !r.ids[id] {
		return nil, nil
	}
	return &model.Category{BaseModel: model.BaseModel{ID: id}}, nil
}

func (r *categoryRepo) Create(_ context.Context, _ *model.Category) error      { return nil }
func (r *categoryRepo) FindAll(_ context.Context) ([]model.Category, error)    { return nil, nil }
func (r *categoryRepo) Update(_ context.Context, _ *model.Category) error      { return nil }
func (r *categoryRepo) Delete(_ context.Context, _ string) error               { return nil }
func (r *categoryRepo) CountProducts(_ context.Context, _ string) (int, error) { return 0, nil }

func newUC(repo *productRepo, cats *categoryRepo) product.UseCase {
	return NewProductUseCase(repo, cats, nil, nil, logger.NewNop())
}

func TestCreateProduct(t *testing.T) {
	repo := newProductRepo()
	uc := newUC(repo, &categoryRepo{ids: map[string]bool{"cat-1": true}})

	max := 100
	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		CreatedBy:     "admin",
		CategoryID:    "cat-1",
		Name:          "Espresso",
		Price:         decimal.RequireFromString("2.50"),
		MinStockLevel: 5,
		MaxStockLevel: &max,
		InitialStock:  50,
	})
	require.NoError(t, err)
	assert.True(t, p.IsAvailable)
	assert.Equal(t, 50, p.QtyInStock)
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "cat-1", *p.CategoryID)
}

func TestCreateProduct_Validation(t *testing.T) {
	uc := newUC(newProductRepo(), &categoryRepo{ids: map[string]bool{}})

	_, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:  "Free",
		Price: decimal.Zero,
	})
	assert.ErrorIs(t, err, product.ErrInvalidPrice)

	max := 3
	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:          "Inverted",
		Price:         decimal.RequireFromString("1.00"),
		MinStockLevel: 5,
		MaxStockLevel: &max,
	})
	assert.ErrorIs(t, err, product.ErrInvalidStockLevel)

	_, err = uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:       "Orphan",
		Price:      decimal.RequireFromString("1.00"),
		CategoryID: "missing",
	})
	assert.ErrorIs(t, err, product.ErrCategoryNotFound)
}

func TestUpdateProduct_PatchOnlyTouchesSetFields(t *testing.T) {
	repo := newProductRepo()
	uc := newUC(repo, &categoryRepo{ids: map[string]bool{}})

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:         "Latte",
		Price:        decimal.RequireFromString("3.00"),
		InitialStock: 10,
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("3.50")
	updated, err := uc.UpdateProduct(context.Background(), p.ID, &dto.ProductPatch{Price: &newPrice})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, "Latte", updated.Name)
	assert.Equal(t, 10, updated.QtyInStock)
}

func TestUpdateProduct_NotFound(t *testing.T) {
	uc := newUC(newProductRepo(), &categoryRepo{ids: map[string]bool{}})

	_, err := uc.UpdateProduct(context.Background(), "missing", &dto.ProductPatch{})
	assert.ErrorIs(t, err, product.ErrNotFound)
}

func TestToggleAvailability(t *testing.T) {
	repo := newProductRepo()
	uc := newUC(repo, &categoryRepo{ids: map[string]bool{}})

	p, err := uc.CreateProduct(context.Background(), &dto.CreateProductInput{
		Name:  "Mocha",
		Price: decimal.RequireFromString("4.00"),
	})
	require.NoError(t, err)
	require.True(t, p.IsAvailable)

	off, err := uc.ToggleAvailability(context.Background(), p.ID)
	require.NoError(t, err)
	assert.False(t, off.IsAvailable)

	on, err := uc.ToggleAvailability(context.Background(), p.ID)
	require.NoError(t, err)
	assert.True(t, on.IsAvailable)
}
