package models

import "time"

// ProductImage is an image attached to a product. S3BucketPath is empty
// between the row insert and the blob write; the reconciliation job sweeps
// rows that stay that way.
type ProductImage struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	FileName     string    `json:"file_name"`
	S3BucketPath string    `json:"s3_bucket_path"`
	CreatedAt    time.Time `json:"created_at"`
}
