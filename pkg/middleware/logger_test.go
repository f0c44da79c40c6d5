package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestSkipPaths(t *testing.T) {
	e := echo.New()
	skip := SkipPaths("/health", "/metrics")

	tests := []struct {
		path string
		want bool
	}{
		{path: "/health", want: true},
		{path: "/metrics", want: true},
		{path: "/results", want: false},
		{path: "/health/extra", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			c := e.NewContext(httptest.NewRequest(http.MethodGet, tt.path, nil), httptest.NewRecorder())
			assert.Equal(t, tt.want, skip(c))
		})
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	e := echo.New()
	e.Use(Logger(WithSkipper(SkipPaths("/health"))))
	e.GET("/ok", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/boom", func(c echo.Context) error { return echo.NewHTTPError(http.StatusTeapot, "boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
