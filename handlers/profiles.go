package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Porx312/ProjectD/access"
)

type createProfileRequest struct {
	UserID      string  `json:"userId" validate:"required"`
	DisplayName *string `json:"displayName"`
}

// CreateProfile returns the id of the user's profile, creating it if needed.
func (h *Handler) CreateProfile(c echo.Context) error {
	var req createProfileRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	id, err := h.svc.Profiles.Create(c.Request().Context(), req.UserID, req.DisplayName)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, idResponse{ID: id})
}

func (h *Handler) GetProfile(c echo.Context) error {
	user, err := h.svc.Profiles.Get(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	if user == nil {
		return h.fail(c, &access.NotFoundError{Entity: "Profile"})
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) ProfileStats(c echo.Context) error {
	stats, err := h.svc.Profiles.Stats(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
