package handlers

import (
	"context"
	"net/http"
	"time"

	"webstore/internal/caching"
	"webstore/internal/services"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers reports liveness of the service and its dependencies.
type HealthHandlers struct {
	db    Pinger
	cache caching.CacheService
	store services.ObjectStore
}

func NewHealthHandlers(db Pinger, cache caching.CacheService, store services.ObjectStore) *HealthHandlers {
	return &HealthHandlers{db: db, cache: cache, store: store}
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Check reports service health.
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	503	{object}	healthResponse
//	@Router		/healthz [get]
func (h *HealthHandlers) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: map[string]string{}}
	status := http.StatusOK

	check := func(name string, err error) {
		if err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			return
		}
		resp.Checks[name] = "ok"
	}

	check("database", h.db.Ping(ctx))
	check("cache", h.cache.Ping(ctx))
	check("object_store", h.store.Ping(ctx))

	return c.JSON(status, resp)
}
