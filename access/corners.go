package access

import (
	"context"

	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/views"
)

// Corners change under the ownership of their parent track.
type Corners struct {
	deps
	l *zap.Logger
}

type NewCorner struct {
	TrackID      string  `json:"trackId" validate:"required"`
	CornerNumber int     `json:"cornerNumber"`
	Name         string  `json:"name" validate:"required"`
	TargetTime   float64 `json:"targetTime"`
	TargetSpeed  float64 `json:"targetSpeed"`
	TargetGear   int     `json:"targetGear"`
	YoutubeURL   *string `json:"youtubeUrl"`
	PositionX    float64 `json:"positionX"`
	PositionY    float64 `json:"positionY"`
}

type CornerPatch struct {
	CornerNumber *int     `json:"cornerNumber"`
	Name         *string  `json:"name"`
	TargetTime   *float64 `json:"targetTime"`
	TargetSpeed  *float64 `json:"targetSpeed"`
	TargetGear   *int     `json:"targetGear"`
	YoutubeURL   *string  `json:"youtubeUrl"`
	PositionX    *float64 `json:"positionX"`
	PositionY    *float64 `json:"positionY"`
}

func (p CornerPatch) apply(c *models.Corner) []string {
	var cols []string
	set := func(col string, ok bool, assign func()) {
		if ok {
			assign()
			cols = append(cols, col)
		}
	}
	set("corner_number", p.CornerNumber != nil, func() { c.CornerNumber = *p.CornerNumber })
	set("name", p.Name != nil, func() { c.Name = *p.Name })
	set("target_time", p.TargetTime != nil, func() { c.TargetTime = *p.TargetTime })
	set("target_speed", p.TargetSpeed != nil, func() { c.TargetSpeed = *p.TargetSpeed })
	set("target_gear", p.TargetGear != nil, func() { c.TargetGear = *p.TargetGear })
	set("youtube_url", p.YoutubeURL != nil, func() { c.YoutubeURL = p.YoutubeURL })
	set("position_x", p.PositionX != nil, func() { c.PositionX = *p.PositionX })
	set("position_y", p.PositionY != nil, func() { c.PositionY = *p.PositionY })
	return cols
}

// ListByTrack returns the track's corners in creation order.
func (c *Corners) ListByTrack(ctx context.Context, trackID string) ([]models.Corner, error) {
	return store.Collect[models.Corner](ctx, c.store, store.Asc, store.By("track_id", trackID))
}

// Get returns the corner or nil.
func (c *Corners) Get(ctx context.Context, id string) (*models.Corner, error) {
	return store.Get[models.Corner](ctx, c.store, id)
}

// Create adds a corner to a track owned by the caller.
func (c *Corners) Create(ctx context.Context, in NewCorner) (string, error) {
	// legacy-open mode writes without looking at the parent track
	if c.gate.Requires(authz.PermissionCreateCorner) {
		if _, err := c.gate.Caller(ctx); err != nil {
			return "", err
		}
		track, err := store.Get[models.Track](ctx, c.store, in.TrackID)
		if err != nil {
			return "", err
		}
		if track == nil {
			return "", ErrTrackNotFound
		}
		if _, err := c.gate.Authorize(ctx, authz.PermissionCreateCorner, track.OwnerID()); err != nil {
			return "", err
		}
	}
	return c.store.Insert(ctx, &models.Corner{
		TrackID:      in.TrackID,
		CornerNumber: in.CornerNumber,
		Name:         in.Name,
		TargetTime:   in.TargetTime,
		TargetSpeed:  in.TargetSpeed,
		TargetGear:   in.TargetGear,
		YoutubeURL:   in.YoutubeURL,
		PositionX:    in.PositionX,
		PositionY:    in.PositionY,
	})
}

func (c *Corners) Update(ctx context.Context, id string, p CornerPatch) error {
	corner, err := c.guard(ctx, authz.PermissionUpdateCorner, id)
	if err != nil {
		return err
	}
	cols := p.apply(corner)
	if len(cols) == 0 {
		return nil
	}
	if ok, err := c.store.Patch(ctx, corner, cols...); err != nil {
		return err
	} else if !ok {
		return ErrCornerNotFound
	}
	return nil
}

// Remove deletes the corner row only. Times recorded on it become orphans.
func (c *Corners) Remove(ctx context.Context, id string) error {
	if _, err := c.guard(ctx, authz.PermissionDeleteCorner, id); err != nil {
		return err
	}
	_, err := store.Delete[models.Corner](ctx, c.store, id)
	return err
}

// Progress lists the track's corners with the user's best time on each.
func (c *Corners) Progress(ctx context.Context, trackID, userID string) ([]views.CornerProgress, error) {
	corners, err := c.ListByTrack(ctx, trackID)
	if err != nil {
		return nil, err
	}
	times, err := store.Collect[models.UserTime](ctx, c.store, store.Asc, store.By("user_id", userID))
	if err != nil {
		return nil, err
	}
	return views.BuildCornerProgress(corners, times), nil
}

// Detail returns the corner with its reference video and the user's times,
// or nil when the corner does not exist.
func (c *Corners) Detail(ctx context.Context, id, userID string) (*views.CornerDetail, error) {
	corner, err := c.Get(ctx, id)
	if err != nil || corner == nil {
		return nil, err
	}
	times, err := store.Collect[models.UserTime](ctx, c.store, store.Desc,
		store.By("corner_id", id), store.By("user_id", userID))
	if err != nil {
		return nil, err
	}
	detail := views.BuildCornerDetail(*corner, times)
	return &detail, nil
}

// guard resolves the owner of a corner through its parent track.
func (c *Corners) guard(ctx context.Context, perm authz.Permission, id string) (*models.Corner, error) {
	return guard(ctx, c.deps, perm, id, ErrCornerNotFound, func(ctx context.Context, corner *models.Corner) (string, error) {
		return c.trackOwner(ctx, corner.TrackID)
	})
}
