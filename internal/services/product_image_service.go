package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"webstore/internal/common"
	"webstore/internal/models"
	"webstore/internal/repositories"
)

type ProductImageService interface {
	List(ctx context.Context, productID, requesterID int64) ([]*models.ProductImage, error)
	Get(ctx context.Context, productID, imageID, requesterID int64) (*models.ProductImage, error)
	Upload(ctx context.Context, productID, requesterID int64, fileName string, data []byte) (*models.ProductImage, error)
	Delete(ctx context.Context, productID, imageID, requesterID int64) error
}

type productImageService struct {
	repo        repositories.ProductImageRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	store       ObjectStore
	publisher   EventPublisher
}

func NewProductImageService(repo repositories.ProductImageRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository, store ObjectStore, publisher EventPublisher) ProductImageService {
	return &productImageService{
		repo:        repo,
		productRepo: productRepo,
		userRepo:    userRepo,
		store:       store,
		publisher:   publisher,
	}
}

// requireOwnedProduct loads the product and enforces ownership, existence
// first so a wrong id is always a not-found.
func (s *productImageService) requireOwnedProduct(ctx context.Context, productID, requesterID int64) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.OwnerID != requesterID {
		return nil, common.NewForbidden("you do not have permission to access this product's images")
	}
	return product, nil
}

func (s *productImageService) List(ctx context.Context, productID, requesterID int64) ([]*models.ProductImage, error) {
	if _, err := s.requireOwnedProduct(ctx, productID, requesterID); err != nil {
		return nil, err
	}
	return s.repo.ListByProductID(ctx, productID)
}

func (s *productImageService) Get(ctx context.Context, productID, imageID, requesterID int64) (*models.ProductImage, error) {
	if _, err := s.requireOwnedProduct(ctx, productID, requesterID); err != nil {
		return nil, err
	}
	return s.repo.GetByProductAndID(ctx, productID, imageID)
}

// Upload stores an image in two phases: the row insert yields the id that
// the storage path embeds, then the blob goes out under that path. A blob
// failure leaves the row behind for the reconciliation sweep.
func (s *productImageService) Upload(ctx context.Context, productID, requesterID int64, fileName string, data []byte) (*models.ProductImage, error) {
	product, err := s.requireOwnedProduct(ctx, productID, requesterID)
	if err != nil {
		return nil, err
	}

	fileName = sanitizeFileName(fileName)
	if fileName == "" {
		return nil, common.NewInvalidInput("file name is required")
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return nil, common.NewInvalidInput("file is not a valid image")
	}

	img := &models.ProductImage{
		ProductID: productID,
		FileName:  fileName,
	}
	if err := s.repo.Create(ctx, img); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("%d/%d/%s", productID, img.ID, fileName)
	if err := s.repo.UpdatePath(ctx, img.ID, path); err != nil {
		return nil, err
	}
	img.S3BucketPath = path

	if err := s.store.Put(ctx, path, http.DetectContentType(data), data); err != nil {
		s.publisher.Publish(ctx, &models.ImageEvent{
			ImagePath: path,
			ImageName: fileName,
			Success:   false,
			Message:   "image upload failed",
			Owner:     s.ownerIdentity(ctx, product.OwnerID),
		})
		return nil, common.NewExternal("failed to store image", err)
	}

	s.publisher.Publish(ctx, &models.ImageEvent{
		ImagePath: path,
		ImageName: fileName,
		Success:   true,
		Message:   "image uploaded",
		Owner:     s.ownerIdentity(ctx, product.OwnerID),
	})
	return img, nil
}

// Delete removes the blob first and the row second. If the blob removal
// fails the row stays so the image is never half gone in the direction
// that loses track of a stored object.
func (s *productImageService) Delete(ctx context.Context, productID, imageID, requesterID int64) error {
	product, err := s.requireOwnedProduct(ctx, productID, requesterID)
	if err != nil {
		return err
	}

	img, err := s.repo.GetByProductAndID(ctx, productID, imageID)
	if err != nil {
		return err
	}

	if img.S3BucketPath != "" {
		if err := s.store.Delete(ctx, img.S3BucketPath); err != nil {
			s.publisher.Publish(ctx, &models.ImageEvent{
				ImagePath: img.S3BucketPath,
				ImageName: img.FileName,
				Success:   false,
				Message:   "image deletion failed",
				Owner:     s.ownerIdentity(ctx, product.OwnerID),
			})
			return common.NewExternal("failed to delete image from storage", err)
		}
	}

	if err := s.repo.Delete(ctx, imageID); err != nil {
		return err
	}

	s.publisher.Publish(ctx, &models.ImageEvent{
		ImagePath: img.S3BucketPath,
		ImageName: img.FileName,
		Success:   true,
		Message:   "image deleted",
		Owner:     s.ownerIdentity(ctx, product.OwnerID),
	})
	return nil
}

func (s *productImageService) ownerIdentity(ctx context.Context, ownerID int64) string {
	owner, err := s.userRepo.GetByID(ctx, ownerID)
	if err != nil {
		return fmt.Sprintf("user:%d", ownerID)
	}
	return owner.Email
}

// sanitizeFileName strips any path components from a client-supplied name.
func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == string(filepath.Separator) {
		return ""
	}
	return name
}
