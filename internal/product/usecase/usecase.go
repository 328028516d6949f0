package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/omniorder/order-service/internal/category"
	"github.com/omniorder/order-service/internal/model"
	"github.com/omniorder/order-service/internal/product"
	"github.com/omniorder/order-service/internal/product/dto"
	"github.com/omniorder/order-service/pkg/cache"
	"github.com/omniorder/order-service/pkg/logger"
	"github.com/omniorder/order-service/pkg/search"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const productsIndex = "products"

const productsMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text" },
			"description": { "type": "text" },
			"category_id": { "type": "keyword" },
			"is_available": { "type": "boolean" },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo    product.Repository
	catRepo category.Repository
	cache   *cache.RedisClient
	es      *search.Client
	logger  logger.ZapLogger
}

func NewProductUseCase(
	repo product.Repository,
	catRepo category.Repository,
	cacheClient *cache.RedisClient,
	es *search.Client,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:    repo,
		catRepo: catRepo,
		cache:   cacheClient,
		es:      es,
		logger:  log,
	}
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if input.Price.LessThanOrEqual(decimal.Zero) {
		return nil, product.ErrInvalidPrice
	}
	if input.MaxStockLevel != nil && *input.MaxStockLevel <= input.MinStockLevel {
		return nil, product.ErrInvalidStockLevel
	}

	var categoryID *string
	if input.CategoryID != "" {
		cat, err := uc.catRepo.FindByID(ctx, input.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil {
			return nil, product.ErrCategoryNotFound
		}
		categoryID = &input.CategoryID
	}

	now := time.Now()
	var description, imageURL *string
	if input.Description != "" {
		description = &input.Description
	}
	if input.ImageURL != "" {
		imageURL = &input.ImageURL
	}

	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		CategoryID:    categoryID,
		CreatedBy:     input.CreatedBy,
		Name:          input.Name,
		Description:   description,
		Price:         input.Price,
		ImageURL:      imageURL,
		IsAvailable:   true,
		QtyInStock:    input.InitialStock,
		MinStockLevel: input.MinStockLevel,
		MaxStockLevel: input.MaxStockLevel,
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}
	return p, nil
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	cacheKey, keyErr := listCacheKey(filters)
	if keyErr == nil && uc.cache != nil {
		if val, err := uc.cache.Client.Get(ctx, cacheKey).Result(); err == nil {
			var cached struct {
				Products []model.Product
				Count    int
			}
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Count, nil
			}
		}
	}

	products, count, err := uc.repo.FindAll(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	if keyErr == nil && uc.cache != nil {
		payload := struct {
			Products []model.Product
			Count    int
		}{products, count}
		if data, err := json.Marshal(payload); err == nil {
			uc.cache.Client.Set(ctx, cacheKey, data, 5*time.Minute)
		}
	}
	return products, count, nil
}

func (uc *productUseCase) SearchProducts(ctx context.Context, query string, page, pageSize int) ([]model.Product, int, error) {
	if query != "" && uc.es != nil {
		q := map[string]interface{}{
			"query": map[string]interface{}{
				"query_string": map[string]interface{}{
					"query":  fmt.Sprintf("*%s*", query),
					"fields": []string{"name^3", "description"},
				},
			},
		}
		if pageSize > 0 {
			q["size"] = pageSize
			q["from"] = (page - 1) * pageSize
		}

		res, err := uc.es.Search(ctx, productsIndex, q)
		if err == nil {
			var products []model.Product
			for _, hit := range res.Hits.Hits {
				var p model.Product
				if err := json.Unmarshal(hit.Source, &p); err == nil {
					products = append(products, p)
				}
			}
			return products, res.Hits.Total.Value, nil
		}
		uc.logger.Error("ES search failed, falling back to DB", zap.Error(err))
	}

	return uc.repo.FindAll(ctx, &dto.ProductFilters{
		SearchQuery: query,
		Page:        page,
		PageSize:    pageSize,
	})
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, id string, patch *dto.ProductPatch) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Price != nil {
		if patch.Price.LessThanOrEqual(decimal.Zero) {
			return nil, product.ErrInvalidPrice
		}
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = patch.ImageURL
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID == "" {
			p.CategoryID = nil
		} else {
			cat, err := uc.catRepo.FindByID(ctx, *patch.CategoryID)
			if err != nil {
				return nil, err
			}
			if cat == nil {
				return nil, product.ErrCategoryNotFound
			}
			p.CategoryID = patch.CategoryID
		}
	}
	if patch.IsAvailable != nil {
		p.IsAvailable = *patch.IsAvailable
	}
	if patch.MinStockLevel != nil {
		p.MinStockLevel = *patch.MinStockLevel
	}
	if patch.MaxStockLevel != nil {
		p.MaxStockLevel = patch.MaxStockLevel
	}
	if p.MaxStockLevel != nil && *p.MaxStockLevel <= p.MinStockLevel {
		return nil, product.ErrInvalidStockLevel
	}

	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func (uc *productUseCase) ToggleAvailability(ctx context.Context, id string) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, product.ErrNotFound
	}

	p.IsAvailable = !p.IsAvailable
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	go uc.invalidateListCache(context.Background())
	go uc.syncToElastic(context.Background(), p)

	return p, nil
}

func listCacheKey(filters *dto.ProductFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("products:list:%x", md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateListCache(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	keys, err := uc.cache.Client.Keys(ctx, "products:list:*").Result()
	if err == nil && len(keys) > 0 {
		uc.cache.Client.Del(ctx, keys...)
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	_ = uc.es.CreateIndex(ctx, productsIndex, productsMapping)
	if err := uc.es.Index(ctx, productsIndex, p.ID, p); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}
