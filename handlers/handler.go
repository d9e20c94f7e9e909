package handlers

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/blob"
	"github.com/Porx312/ProjectD/logger"
)

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	svc   *access.Service
	blobs *blob.Store
	l     *zap.Logger
}

// New creates a Handler over the access operations and the blob store.
func New(svc *access.Service, blobs *blob.Store, l *zap.Logger) *Handler {
	return &Handler{svc: svc, blobs: blobs, l: logger.Or(l).Named("http")}
}

// Register mounts the JSON API under /api. mws run before every API route.
func (h *Handler) Register(e *echo.Echo, mws ...echo.MiddlewareFunc) {
	api := e.Group("/api", mws...)

	api.POST("/tracks", h.CreateTrack)
	api.GET("/tracks", h.ListTracks)
	api.GET("/tracks/all", h.GetAllTracks)
	api.GET("/tracks/saved", h.GetSavedTracks)
	api.GET("/tracks/:id", h.GetTrack)
	api.PATCH("/tracks/:id", h.UpdateTrack)
	api.DELETE("/tracks/:id", h.RemoveTrack)

	api.POST("/tracks/:id/star", h.StarTrack)
	api.GET("/tracks/:id/star", h.IsTrackStarred)
	api.GET("/tracks/:id/stars", h.GetStarCount)
	api.POST("/tracks/:id/save", h.SaveTrack)
	api.DELETE("/tracks/:id/save", h.UnsaveTrack)
	api.GET("/tracks/:id/save", h.IsTrackSaved)
	api.POST("/tracks/:id/comments", h.AddComment)
	api.GET("/tracks/:id/comments", h.GetComments)
	api.DELETE("/comments/:id", h.DeleteComment)

	api.GET("/tracks/:id/corners", h.ListCorners)
	api.GET("/tracks/:id/progress", h.CornerProgress)
	api.POST("/corners", h.CreateCorner)
	api.GET("/corners/:id", h.GetCorner)
	api.PATCH("/corners/:id", h.UpdateCorner)
	api.DELETE("/corners/:id", h.RemoveCorner)
	api.GET("/corners/:id/detail", h.CornerDetail)
	api.GET("/corners/:id/times", h.ListTimesByCorner)

	api.GET("/users/:userId/times", h.ListTimesByUser)
	api.GET("/users/:userId/times/details", h.ListTimesWithDetails)
	api.POST("/times", h.CreateTime)
	api.DELETE("/times/:id", h.RemoveTime)

	api.POST("/profiles", h.CreateProfile)
	api.GET("/profiles/:userId", h.GetProfile)
	api.GET("/profiles/:userId/stats", h.ProfileStats)

	api.POST("/storage/upload-url", h.GenerateUploadURL)
	api.POST("/storage/upload/:token", h.Upload)
	api.GET("/storage/:id", h.Download)
}

type idResponse struct {
	ID string `json:"id"`
}

type successResponse struct {
	Success bool `json:"success"`
}
