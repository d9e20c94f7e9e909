package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserTime is one recorded attempt at a corner.
type UserTime struct {
	bun.BaseModel `bun:"table:user_times,alias:ut"`

	ID        string    `bun:"id,pk" json:"id"`
	CornerID  string    `bun:"corner_id,notnull" json:"cornerId"`
	UserID    string    `bun:"user_id,notnull" json:"userId"`
	UserTime  float64   `bun:"user_time,notnull" json:"userTime"`
	Notes     *string   `bun:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (u *UserTime) Stamp(id string, at time.Time) { stamp(&u.ID, &u.CreatedAt, id, at) }

func (u *UserTime) Key() string { return u.ID }

func (u *UserTime) OwnerID() string { return u.UserID }
