package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Corner is a named point on a track. PositionX and PositionY are percentages of
// the displayed map image bounds.
type Corner struct {
	bun.BaseModel `bun:"table:corners,alias:c"`

	ID           string    `bun:"id,pk" json:"id"`
	TrackID      string    `bun:"track_id,notnull" json:"trackId"`
	CornerNumber int       `bun:"corner_number,notnull" json:"cornerNumber"`
	Name         string    `bun:"name,notnull" json:"name"`
	TargetTime   float64   `bun:"target_time,notnull" json:"targetTime"`
	TargetSpeed  float64   `bun:"target_speed,notnull" json:"targetSpeed"`
	TargetGear   int       `bun:"target_gear,notnull" json:"targetGear"`
	YoutubeURL   *string   `bun:"youtube_url" json:"youtubeUrl,omitempty"`
	PositionX    float64   `bun:"position_x,notnull" json:"positionX"`
	PositionY    float64   `bun:"position_y,notnull" json:"positionY"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"createdAt"`
}

func (c *Corner) Stamp(id string, at time.Time) { stamp(&c.ID, &c.CreatedAt, id, at) }

func (c *Corner) Key() string { return c.ID }
