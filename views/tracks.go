package views

import (
	"time"

	"github.com/Porx312/ProjectD/models"
)

// TrackDetail is a track with its corners and resolved map image.
type TrackDetail struct {
	models.Track
	MapImageURL *string         `json:"mapImageUrl,omitempty"`
	Corners     []models.Corner `json:"corners"`
	CornerCount int             `json:"cornerCount"`
}

// TrackSummary is a track card in the public listing.
type TrackSummary struct {
	models.Track
	StarCount    int     `json:"starCount"`
	CommentCount int     `json:"commentCount"`
	MapImageURL  *string `json:"mapImageUrl,omitempty"`
}

// SavedTrackSummary is a summary of a track the caller bookmarked.
type SavedTrackSummary struct {
	TrackSummary
	SavedAt time.Time `json:"savedAt"`
}

func NewTrackDetail(t models.Track, mapImageURL *string, corners []models.Corner) TrackDetail {
	if corners == nil {
		corners = []models.Corner{}
	}
	return TrackDetail{Track: t, MapImageURL: mapImageURL, Corners: corners, CornerCount: len(corners)}
}
