package router

import (
	"net/http"

	"github.com/Jegama/cp-multilingual-qa-lab/internal/apperr"
	"github.com/Jegama/cp-multilingual-qa-lab/internal/eval/ledger"
	"github.com/Jegama/cp-multilingual-qa-lab/pkg/pagination"
	"github.com/labstack/echo/v4"
)

type ResultsRouter struct {
	e      *echo.Echo
	reader ledger.Reader
}

func NewResultsRouter(e *echo.Echo, reader ledger.Reader) *ResultsRouter {
	return &ResultsRouter{
		e:      e,
		reader: reader,
	}
}

func (r *ResultsRouter) Bind() {
	r.e.GET("/results", r.listHandler)
}

func (r *ResultsRouter) listHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	var label string
	err := echo.QueryParamsBinder(c).
		String("label", &label).
		Int("page", &page.Page).
		Int("size", &page.Size).
		BindError()
	if err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	if err := page.Validate(); err != nil {
		return apperr.NewValidationWrap("invalid pagination parameters", err)
	}

	res, err := r.reader.List(c.Request().Context(), label, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}
