package router

import (
	"net/http"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/apperr"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/comparison"
	"github.com/labstack/echo/v4"
)

type ComparisonRouter struct {
	e     *echo.Echo
	store *comparison.Store
}

func NewComparisonRouter(e *echo.Echo, store *comparison.Store) *ComparisonRouter {
	return &ComparisonRouter{
		e:     e,
		store: store,
	}
}

func (r *ComparisonRouter) Bind() {
	r.e.GET("/comparison", r.tableHandler)
	r.e.GET("/comparison/:label", r.columnHandler)
}

func (r *ComparisonRouter) load() (*comparison.Table, error) {
	if !r.store.Exists() {
		return nil, apperr.NewMissingRequiredData("comparison table not found", r.store.Path())
	}
	return r.store.Load()
}

func (r *ComparisonRouter) tableHandler(c echo.Context) error {
	t, err := r.load()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, t)
}

func (r *ComparisonRouter) columnHandler(c echo.Context) error {
	label := c.Param("label")
	t, err := r.load()
	if err != nil {
		return err
	}
	col, ok := t.Column(label)
	if !ok {
		return apperr.NewMissingRequiredData("answers label not in comparison table", label)
	}

	values := make(map[string]string, len(col))
	for k, v := range col {
		values[k.String()] = v
	}
	return c.JSON(http.StatusOK, ColumnResponse{Label: label, Values: values})
}
