package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Porx312/ProjectD/access"
)

func (h *Handler) ListTimesByCorner(c echo.Context) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return err
	}
	times, err := h.svc.Times.ListByCorner(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, times)
}

func (h *Handler) ListTimesByUser(c echo.Context) error {
	times, err := h.svc.Times.ListByUser(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, times)
}

// ListTimesWithDetails returns the user's times joined with corner and track.
func (h *Handler) ListTimesWithDetails(c echo.Context) error {
	details, err := h.svc.Times.ListByUserWithDetails(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, details)
}

func (h *Handler) CreateTime(c echo.Context) error {
	var req access.NewUserTime
	if err := bind(c, &req); err != nil {
		return err
	}
	id, err := h.svc.Times.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) RemoveTime(c echo.Context) error {
	if err := h.svc.Times.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
