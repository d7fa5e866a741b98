package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/samber/lo"
)

// deleteBatchSize is the most keys a single bulk delete request may carry.
const deleteBatchSize = 1000

// ObjectStore wraps the S3-compatible blob store holding image data.
type ObjectStore interface {
	Put(ctx context.Context, objectName, contentType string, data []byte) error
	Delete(ctx context.Context, objectName string) error
	DeleteBatch(ctx context.Context, objectNames []string) error
	EnsureBucket(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(endpoint, accessKey, secretKey string, useSSL bool, bucket string) (ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStore{client: client, bucket: bucket}, nil
}

func (m *minioStore) Put(ctx context.Context, objectName, contentType string, data []byte) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioStore) Delete(ctx context.Context, objectName string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectName, minio.RemoveObjectOptions{})
}

// DeleteBatch removes objects in chunks that respect the bulk delete limit.
// It keeps going past individual failures and reports them at the end.
func (m *minioStore) DeleteBatch(ctx context.Context, objectNames []string) error {
	var failed int
	var firstErr error
	for _, chunk := range lo.Chunk(objectNames, deleteBatchSize) {
		objectsCh := make(chan minio.ObjectInfo, len(chunk))
		for _, name := range chunk {
			objectsCh <- minio.ObjectInfo{Key: name}
		}
		close(objectsCh)

		for result := range m.client.RemoveObjects(ctx, m.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
			if result.Err != nil {
				failed++
				if firstErr == nil {
					firstErr = result.Err
				}
			}
		}
	}
	if failed > 0 {
		return fmt.Errorf("failed to delete %d of %d objects: %w", failed, len(objectNames), firstErr)
	}
	return nil
}

func (m *minioStore) EnsureBucket(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
