package router

import (
	"github.com/Jegama/cp-multilingual-qa-lab/internal/metrics"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

func BindMetrics(e *echo.Echo, path string, g prometheus.Gatherer) {
	e.GET(path, echo.WrapHandler(metrics.Handler(g)))
}
