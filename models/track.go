package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Track is a user-defined touge route. UserName is a snapshot of the owner's
// display name taken when the track was created.
type Track struct {
	bun.BaseModel `bun:"table:tracks,alias:t"`

	ID         string    `bun:"id,pk" json:"id"`
	UserID     string    `bun:"user_id,notnull" json:"userId"`
	UserName   string    `bun:"user_name,notnull" json:"userName"`
	Name       string    `bun:"name,notnull" json:"name"`
	Location   string    `bun:"location,notnull" json:"location"`
	CarModel   string    `bun:"car_model,notnull" json:"carModel"`
	LengthKm   float64   `bun:"length_km,notnull" json:"lengthKm"`
	MapImageID *string   `bun:"map_image_id" json:"mapImageId,omitempty"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (t *Track) Stamp(id string, at time.Time) { stamp(&t.ID, &t.CreatedAt, id, at) }

func (t *Track) Key() string { return t.ID }

// OwnerID returns the user that may change or delete the track.
func (t *Track) OwnerID() string { return t.UserID }
