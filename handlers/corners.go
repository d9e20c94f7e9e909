package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Porx312/ProjectD/access"
)

// ListCorners returns the corners of a track.
func (h *Handler) ListCorners(c echo.Context) error {
	corners, err := h.svc.Corners.ListByTrack(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, corners)
}

// CornerProgress returns each corner of a track with ?userId='s best time.
func (h *Handler) CornerProgress(c echo.Context) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return err
	}
	progress, err := h.svc.Corners.Progress(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, progress)
}

func (h *Handler) CreateCorner(c echo.Context) error {
	var req access.NewCorner
	if err := bind(c, &req); err != nil {
		return err
	}
	id, err := h.svc.Corners.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) GetCorner(c echo.Context) error {
	corner, err := h.svc.Corners.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if corner == nil {
		return h.fail(c, access.ErrCornerNotFound)
	}
	return c.JSON(http.StatusOK, corner)
}

func (h *Handler) UpdateCorner(c echo.Context) error {
	var req access.CornerPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.Corners.Update(c.Request().Context(), c.Param("id"), req); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RemoveCorner(c echo.Context) error {
	if err := h.svc.Corners.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) CornerDetail(c echo.Context) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return err
	}
	detail, err := h.svc.Corners.Detail(c.Request().Context(), c.Param("id"), userID)
	if err != nil {
		return h.fail(c, err)
	}
	if detail == nil {
		return h.fail(c, access.ErrCornerNotFound)
	}
	return c.JSON(http.StatusOK, detail)
}
