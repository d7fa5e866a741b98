package repositories

import (
	"context"
	"errors"
	"time"

	"webstore/internal/common"
	"webstore/internal/models"

	"github.com/jackc/pgx/v5"
)

type ProductImageRepository interface {
	Create(ctx context.Context, image *models.ProductImage) error
	UpdatePath(ctx context.Context, id int64, path string) error
	GetByProductAndID(ctx context.Context, productID, id int64) (*models.ProductImage, error)
	ListByProductID(ctx context.Context, productID int64) ([]*models.ProductImage, error)
	ListPathsByProductID(ctx context.Context, productID int64) ([]string, error)
	Delete(ctx context.Context, id int64) error
	DeleteStaleUnpathed(ctx context.Context, cutoff time.Time) (int64, error)
}

type productImageRepo struct {
	db Database
}

func NewProductImageRepo(db Database) ProductImageRepository {
	return &productImageRepo{db: db}
}

// Create inserts the row with an empty storage path. The path depends on
// the generated id, so it is filled in by UpdatePath afterwards.
func (r *productImageRepo) Create(ctx context.Context, image *models.ProductImage) error {
	query := `
		INSERT INTO product_images (product_id, file_name)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, image.ProductID, image.FileName).
		Scan(&image.ID, &image.CreatedAt)
}

func (r *productImageRepo) UpdatePath(ctx context.Context, id int64, path string) error {
	query := `UPDATE product_images SET s3_bucket_path = $1 WHERE id = $2`
	tag, err := r.db.Exec(ctx, query, path, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("product image not found")
	}
	return nil
}

func (r *productImageRepo) GetByProductAndID(ctx context.Context, productID, id int64) (*models.ProductImage, error) {
	image := &models.ProductImage{}
	query := `
		SELECT id, product_id, file_name, s3_bucket_path, created_at
		FROM product_images
		WHERE product_id = $1 AND id = $2
	`
	err := r.db.QueryRow(ctx, query, productID, id).
		Scan(&image.ID, &image.ProductID, &image.FileName, &image.S3BucketPath, &image.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.NewNotFound("product image not found")
		}
		return nil, err
	}
	return image, nil
}

func (r *productImageRepo) ListByProductID(ctx context.Context, productID int64) ([]*models.ProductImage, error) {
	query := `
		SELECT id, product_id, file_name, s3_bucket_path, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.ProductImage
	for rows.Next() {
		image := &models.ProductImage{}
		if err := rows.Scan(&image.ID, &image.ProductID, &image.FileName, &image.S3BucketPath, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, rows.Err()
}

// ListPathsByProductID returns the storage paths of all images that made it
// past phase one of the upload. Rows with an empty path have no blob.
func (r *productImageRepo) ListPathsByProductID(ctx context.Context, productID int64) ([]string, error) {
	query := `
		SELECT s3_bucket_path
		FROM product_images
		WHERE product_id = $1 AND s3_bucket_path <> ''
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

func (r *productImageRepo) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM product_images WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFound("product image not found")
	}
	return nil
}

// DeleteStaleUnpathed removes rows whose blob write never happened and that
// are older than the cutoff. Used by the reconciliation sweep.
func (r *productImageRepo) DeleteStaleUnpathed(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM product_images WHERE s3_bucket_path = '' AND created_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
