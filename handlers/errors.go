package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/blob"
)

// fail translates an operation error into the HTTP error returned to the client.
func (h *Handler) fail(c echo.Context, err error) error {
	var (
		he *echo.HTTPError
		nf *access.NotFoundError
		rv *access.RuleViolationError
		mb *http.MaxBytesError
	)
	switch {
	case errors.As(err, &he):
		return he
	case errors.Is(err, authz.ErrAuthenticationRequired):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, authz.ErrAuthorizationDenied):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.As(err, &nf), errors.Is(err, blob.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.As(err, &rv), errors.Is(err, blob.ErrTokenUsed):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, blob.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.As(err, &mb):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, context.Canceled):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "request canceled")
	}
	h.l.Error("operation failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}
