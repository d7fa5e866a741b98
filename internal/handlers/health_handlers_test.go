package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"webstore/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(ctx context.Context) error { return s.err }

type stubCache struct{ err error }

func (s stubCache) GetProduct(ctx context.Context, productID int64) (*models.Product, error) {
	return nil, nil
}
func (s stubCache) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	return nil
}
func (s stubCache) DeleteProduct(ctx context.Context, productID int64) error { return nil }
func (s stubCache) Ping(ctx context.Context) error                           { return s.err }

type stubStore struct{ err error }

func (s stubStore) Put(ctx context.Context, objectName, contentType string, data []byte) error {
	return nil
}
func (s stubStore) Delete(ctx context.Context, objectName string) error       { return nil }
func (s stubStore) DeleteBatch(ctx context.Context, objectNames []string) error { return nil }
func (s stubStore) EnsureBucket(ctx context.Context) error                    { return nil }
func (s stubStore) Ping(ctx context.Context) error                            { return s.err }

func healthContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHealthCheck_AllDependenciesUp(t *testing.T) {
	h := NewHealthHandlers(stubPinger{}, stubCache{}, stubStore{})

	c, rec := healthContext()
	assert.NoError(t, h.Check(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthCheck_DatabaseDownIs503(t *testing.T) {
	h := NewHealthHandlers(stubPinger{err: errors.New("connection refused")}, stubCache{}, stubStore{})

	c, rec := healthContext()
	assert.NoError(t, h.Check(c))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"degraded"`)
	assert.Contains(t, rec.Body.String(), `"object_store":"ok"`)
}
