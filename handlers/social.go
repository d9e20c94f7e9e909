package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type starResponse struct {
	IsStarred bool `json:"isStarred"`
}

type savedResponse struct {
	IsSaved bool `json:"isSaved"`
}

type countResponse struct {
	Count int `json:"count"`
}

type commentRequest struct {
	Content string `json:"content" validate:"required"`
}

// StarTrack toggles the caller's star.
func (h *Handler) StarTrack(c echo.Context) error {
	on, err := h.svc.Tracks.StarTrack(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, starResponse{IsStarred: on})
}

func (h *Handler) IsTrackStarred(c echo.Context) error {
	on, err := h.svc.Tracks.IsTrackStarred(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, starResponse{IsStarred: on})
}

func (h *Handler) GetStarCount(c echo.Context) error {
	n, err := h.svc.Tracks.GetStarCount(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, countResponse{Count: n})
}

func (h *Handler) SaveTrack(c echo.Context) error {
	if err := h.svc.Tracks.SaveTrack(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *Handler) UnsaveTrack(c echo.Context) error {
	if err := h.svc.Tracks.UnsaveTrack(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, successResponse{Success: true})
}

func (h *Handler) IsTrackSaved(c echo.Context) error {
	saved, err := h.svc.Tracks.IsTrackSaved(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, savedResponse{IsSaved: saved})
}

// GetSavedTracks lists the caller's saved tracks; empty for anonymous callers.
func (h *Handler) GetSavedTracks(c echo.Context) error {
	tracks, err := h.svc.Tracks.GetSavedTracks(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tracks)
}

func (h *Handler) AddComment(c echo.Context) error {
	var req commentRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	id, err := h.svc.Tracks.AddComment(c.Request().Context(), c.Param("id"), req.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

func (h *Handler) GetComments(c echo.Context) error {
	comments, err := h.svc.Tracks.GetComments(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, comments)
}

func (h *Handler) DeleteComment(c echo.Context) error {
	if err := h.svc.Tracks.DeleteComment(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
