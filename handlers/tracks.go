package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Porx312/ProjectD/access"
)

// CreateTrack stores a new track and returns its id.
func (h *Handler) CreateTrack(c echo.Context) error {
	var req access.NewTrack
	if err := bind(c, &req); err != nil {
		return err
	}
	id, err := h.svc.Tracks.Create(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, idResponse{ID: id})
}

// ListTracks returns the tracks of ?userId=, each with its corners.
func (h *Handler) ListTracks(c echo.Context) error {
	userID, err := requiredQuery(c, "userId")
	if err != nil {
		return err
	}
	tracks, err := h.svc.Tracks.List(c.Request().Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tracks)
}

func (h *Handler) GetAllTracks(c echo.Context) error {
	tracks, err := h.svc.Tracks.GetAllTracks(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, tracks)
}

func (h *Handler) GetTrack(c echo.Context) error {
	track, err := h.svc.Tracks.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	if track == nil {
		return h.fail(c, access.ErrTrackNotFound)
	}
	return c.JSON(http.StatusOK, track)
}

// UpdateTrack patches the fields present in the body.
func (h *Handler) UpdateTrack(c echo.Context) error {
	var req access.TrackPatch
	if err := bind(c, &req); err != nil {
		return err
	}
	if err := h.svc.Tracks.Update(c.Request().Context(), c.Param("id"), req); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RemoveTrack(c echo.Context) error {
	if err := h.svc.Tracks.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return h.fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
