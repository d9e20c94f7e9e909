package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TrackComment is a comment on a track. UserName is copied from the author's
// identity at creation time.
type TrackComment struct {
	bun.BaseModel `bun:"table:track_comments,alias:tc"`

	ID        string    `bun:"id,pk" json:"id"`
	TrackID   string    `bun:"track_id,notnull" json:"trackId"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	UserName  string    `bun:"user_name,notnull" json:"userName"`
	Content   string    `bun:"content,notnull" json:"content"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (c *TrackComment) Stamp(id string, at time.Time) { stamp(&c.ID, &c.CreatedAt, id, at) }

func (c *TrackComment) Key() string { return c.ID }

func (c *TrackComment) OwnerID() string { return c.UserID }

// TrackStar marks a track as starred by a user. One row per (user, track).
type TrackStar struct {
	bun.BaseModel `bun:"table:track_stars,alias:ts"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	TrackID   string    `bun:"track_id,notnull" json:"trackId"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (s *TrackStar) Stamp(id string, at time.Time) { stamp(&s.ID, &s.CreatedAt, id, at) }

func (s *TrackStar) Key() string { return s.ID }

// SavedTrack is a bookmark of another user's track. One row per (user, track).
type SavedTrack struct {
	bun.BaseModel `bun:"table:saved_tracks,alias:st"`

	ID        string    `bun:"id,pk" json:"id"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	TrackID   string    `bun:"track_id,notnull" json:"trackId"`
	SavedAt   time.Time `bun:"saved_at,notnull" json:"savedAt"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (s *SavedTrack) Stamp(id string, at time.Time) {
	stamp(&s.ID, &s.CreatedAt, id, at)
	if s.SavedAt.IsZero() {
		s.SavedAt = s.CreatedAt
	}
}

func (s *SavedTrack) Key() string { return s.ID }
