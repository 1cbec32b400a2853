package system

import (
	"files-manager/internal/common/api"
	"files-manager/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsApi struct {
	metrics *metrics.Metrics
}

func NewMetricsApi(m *metrics.Metrics) api.Route {
	return &MetricsApi{metrics: m}
}

func (h *MetricsApi) Setup(app *fiber.App) {
	handler := promhttp.HandlerFor(h.metrics.Registry, promhttp.HandlerOpts{})
	app.Get("/metrics", adaptor.HTTPHandler(handler))
}
