package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type errorResponse struct {
	Title   string   `json:"title,omitempty"`
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
}

// GlobalErrorHandler maps typed errors onto status codes: validation → 400,
// missing data → 404, echo errors keep their code, anything else → 500.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, body := classify(err)
		if code >= http.StatusInternalServerError {
			slog.Error("Request failed", "uri", c.Request().RequestURI, "status", code, "error", err)
		}
		_ = c.JSON(code, body)
	}
}

func classify(err error) (int, errorResponse) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Title: "validation error", Error: ve.Message}
	}

	var me *MissingRequiredDataError
	if errors.As(err, &me) {
		return http.StatusNotFound, errorResponse{Title: "missing data", Error: me.What, Missing: me.Missing}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprint(he.Message)}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
