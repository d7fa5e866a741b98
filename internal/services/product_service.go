package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"webstore/internal/caching"
	"webstore/internal/common"
	"webstore/internal/models"
	"webstore/internal/repositories"
)

// ErrNoUpdate is returned by Update when the patch carries no fields. The
// handler decides whether that is a no-op or a client error.
var ErrNoUpdate = errors.New("no fields to update")

const productCacheTTL = 15 * time.Minute

const maxSKULength = 20

type ProductService interface {
	Create(ctx context.Context, ownerID int64, input *models.ProductInput) (*models.Product, error)
	GetByID(ctx context.Context, id int64) (*models.Product, error)
	List(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Product, error)
	Update(ctx context.Context, id, requesterID int64, patch *models.ProductPatch) (*models.Product, error)
	Replace(ctx context.Context, id, requesterID int64, input *models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, id, requesterID int64) error
}

type productService struct {
	repo        repositories.ProductRepository
	imageRepo   repositories.ProductImageRepository
	store       ObjectStore
	cache       caching.CacheService
	maxQuantity int
}

func NewProductService(repo repositories.ProductRepository, imageRepo repositories.ProductImageRepository, store ObjectStore, cache caching.CacheService, maxQuantity int) ProductService {
	return &productService{
		repo:        repo,
		imageRepo:   imageRepo,
		store:       store,
		cache:       cache,
		maxQuantity: maxQuantity,
	}
}

func (s *productService) Create(ctx context.Context, ownerID int64, input *models.ProductInput) (*models.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, common.NewInvalidInput("name is required")
	}
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, common.NewInvalidInput("sku is required")
	}
	if len(sku) > maxSKULength {
		return nil, common.NewInvalidInput("sku cannot exceed 20 characters")
	}

	// The sku uniqueness check runs before the quantity type check; a
	// request that is wrong in both ways reports the conflict.
	exists, err := s.repo.ExistsBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.NewConflict("a product with this sku already exists")
	}

	quantity, err := common.ParseQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}
	if err := common.ValidateQuantityBounds(quantity, s.maxQuantity); err != nil {
		return nil, err
	}

	product := &models.Product{
		OwnerID:      ownerID,
		Name:         input.Name,
		Description:  input.Description,
		SKU:          sku,
		Manufacturer: input.Manufacturer,
		Quantity:     quantity,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *productService) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
		return cached, nil
	} else if err != nil {
		log.Printf("WARN: product cache read failed for %d: %v", id, err)
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetProduct(ctx, product, productCacheTTL); err != nil {
		log.Printf("WARN: product cache write failed for %d: %v", id, err)
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, ownerID int64, limit, offset int) ([]*models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, ownerID, limit, offset)
}

// Update applies a partial update. Checks run in a fixed order: existence,
// quantity type, ownership, empty patch, sku conflict.
func (s *productService) Update(ctx context.Context, id, requesterID int64, patch *models.ProductPatch) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var quantity int
	if len(patch.Quantity) > 0 {
		quantity, err = common.ParseQuantity(patch.Quantity)
		if err != nil {
			return nil, err
		}
	}

	if product.OwnerID != requesterID {
		return nil, common.NewForbidden("you do not have permission to modify this product")
	}

	if patch.Empty() {
		return nil, ErrNoUpdate
	}

	if patch.SKU != nil {
		sku := strings.TrimSpace(*patch.SKU)
		if sku == "" {
			return nil, common.NewInvalidInput("sku cannot be empty")
		}
		if len(sku) > maxSKULength {
			return nil, common.NewInvalidInput("sku cannot exceed 20 characters")
		}
		if sku != product.SKU {
			exists, err := s.repo.ExistsBySKU(ctx, sku)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, common.NewConflict("a product with this sku already exists")
			}
		}
		product.SKU = sku
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, common.NewInvalidInput("name cannot be empty")
		}
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Manufacturer != nil {
		product.Manufacturer = *patch.Manufacturer
	}
	if len(patch.Quantity) > 0 {
		if err := common.ValidateQuantityBounds(quantity, s.maxQuantity); err != nil {
			return nil, err
		}
		product.Quantity = quantity
	}

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// Replace overwrites every mutable field. Fields absent from the input take
// their zero values, quantity excepted, which is required.
func (s *productService) Replace(ctx context.Context, id, requesterID int64, input *models.ProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	quantity, err := common.ParseQuantity(input.Quantity)
	if err != nil {
		return nil, err
	}

	if product.OwnerID != requesterID {
		return nil, common.NewForbidden("you do not have permission to modify this product")
	}

	if strings.TrimSpace(input.Name) == "" {
		return nil, common.NewInvalidInput("name is required")
	}
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		return nil, common.NewInvalidInput("sku is required")
	}
	if len(sku) > maxSKULength {
		return nil, common.NewInvalidInput("sku cannot exceed 20 characters")
	}
	if sku != product.SKU {
		exists, err := s.repo.ExistsBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, common.NewConflict("a product with this sku already exists")
		}
	}
	if err := common.ValidateQuantityBounds(quantity, s.maxQuantity); err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.SKU = sku
	product.Manufacturer = input.Manufacturer
	product.Quantity = quantity

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return product, nil
}

// Delete removes the image blobs best-effort and then the product row, which
// cascades to the image rows. A storage failure is logged and never blocks
// the relational delete.
func (s *productService) Delete(ctx context.Context, id, requesterID int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product.OwnerID != requesterID {
		return common.NewForbidden("you do not have permission to modify this product")
	}

	paths, err := s.imageRepo.ListPathsByProductID(ctx, id)
	if err != nil {
		return err
	}
	if len(paths) > 0 {
		if err := s.store.DeleteBatch(ctx, paths); err != nil {
			log.Printf("WARN: failed to delete image blobs for product %d: %v", id, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *productService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		log.Printf("WARN: product cache invalidation failed for %d: %v", id, err)
	}
}
