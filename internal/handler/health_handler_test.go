package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/section-planner-api/internal/service"
)

func TestHealthHandlerReady(t *testing.T) {
	ok := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("connection refused") })

	c, w := newGinContext(http.MethodGet, "/ready", nil)
	NewHealthHandler(nil, map[string]Pinger{"postgres": ok}).Ready(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ready"`)

	c, w = newGinContext(http.MethodGet, "/ready", nil)
	NewHealthHandler(nil, map[string]Pinger{"postgres": ok, "redis": down}).Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestHealthHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.ObserveImport(3)

	c, w := newGinContext(http.MethodGet, "/metrics", nil)
	NewHealthHandler(metrics, nil).Prometheus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "course_offerings_imported_total 3")

	c, w = newGinContext(http.MethodGet, "/health", nil)
	NewHealthHandler(nil, nil).Health(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
