package access

import (
	"context"

	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/identity"
	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/views"
)

type Tracks struct {
	deps
	l *zap.Logger
}

// NewTrack is the input of Tracks.Create.
type NewTrack struct {
	Name       string  `json:"name" validate:"required"`
	Location   string  `json:"location" validate:"required"`
	CarModel   string  `json:"carModel" validate:"required"`
	LengthKm   float64 `json:"lengthKm"`
	MapImageID *string `json:"mapImageId"`
	UserID     string  `json:"userId" validate:"required"`
}

// TrackPatch holds the fields of a track update. Nil fields are left alone.
type TrackPatch struct {
	Name       *string  `json:"name"`
	Location   *string  `json:"location"`
	CarModel   *string  `json:"carModel"`
	LengthKm   *float64 `json:"lengthKm"`
	MapImageID *string  `json:"mapImageId"`
}

func (p TrackPatch) apply(t *models.Track) []string {
	var cols []string
	if p.Name != nil {
		t.Name = *p.Name
		cols = append(cols, "name")
	}
	if p.Location != nil {
		t.Location = *p.Location
		cols = append(cols, "location")
	}
	if p.CarModel != nil {
		t.CarModel = *p.CarModel
		cols = append(cols, "car_model")
	}
	if p.LengthKm != nil {
		t.LengthKm = *p.LengthKm
		cols = append(cols, "length_km")
	}
	if p.MapImageID != nil {
		t.MapImageID = p.MapImageID
		cols = append(cols, "map_image_id")
	}
	return cols
}

// Create stores a new track under in.UserID and returns its id. The owner
// name is the caller's display name at the time of the call.
func (t *Tracks) Create(ctx context.Context, in NewTrack) (string, error) {
	caller, ok := identity.FromContext(ctx)
	if ok && caller.Subject != in.UserID {
		t.l.Warn("track created for another user",
			zap.String("subject", caller.Subject),
			zap.String("userId", in.UserID))
	}
	track := &models.Track{
		UserID:     in.UserID,
		UserName:   identity.DisplayNameFrom(ctx),
		Name:       in.Name,
		Location:   in.Location,
		CarModel:   in.CarModel,
		LengthKm:   in.LengthKm,
		MapImageID: in.MapImageID,
	}
	return t.store.Insert(ctx, track)
}

func (t *Tracks) Update(ctx context.Context, id string, p TrackPatch) error {
	track, err := t.guard(ctx, authz.PermissionUpdateTrack, id)
	if err != nil {
		return err
	}
	cols := p.apply(track)
	if len(cols) == 0 {
		return nil
	}
	if ok, err := t.store.Patch(ctx, track, cols...); err != nil {
		return err
	} else if !ok {
		return ErrTrackNotFound
	}
	return nil
}

// Remove deletes the track row only. Its corners, stars, saves and comments
// stay behind and are treated as orphans by readers.
func (t *Tracks) Remove(ctx context.Context, id string) error {
	if _, err := t.guard(ctx, authz.PermissionDeleteTrack, id); err != nil {
		return err
	}
	_, err := store.Delete[models.Track](ctx, t.store, id)
	return err
}

// Get returns the track with its corners, or nil when it does not exist.
func (t *Tracks) Get(ctx context.Context, id string) (*views.TrackDetail, error) {
	track, err := store.Get[models.Track](ctx, t.store, id)
	if err != nil || track == nil {
		return nil, err
	}
	detail, err := t.detail(ctx, *track)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// List returns the user's tracks, newest first, each with its corners.
func (t *Tracks) List(ctx context.Context, userID string) ([]views.TrackDetail, error) {
	tracks, err := store.Collect[models.Track](ctx, t.store, store.Desc, store.By("user_id", userID))
	if err != nil {
		return nil, err
	}
	return mapConcurrent(ctx, tracks, t.detail)
}

// GetAllTracks returns every track, newest first, with star and comment counts.
func (t *Tracks) GetAllTracks(ctx context.Context) ([]views.TrackSummary, error) {
	tracks, err := store.Collect[models.Track](ctx, t.store, store.Desc)
	if err != nil {
		return nil, err
	}
	return mapConcurrent(ctx, tracks, t.summary)
}

// GenerateUploadURL returns a one-shot URL for uploading a map image.
func (t *Tracks) GenerateUploadURL(ctx context.Context) (string, error) {
	return t.blobs.GenerateUploadURL(ctx)
}

func (t *Tracks) guard(ctx context.Context, perm authz.Permission, id string) (*models.Track, error) {
	return guard(ctx, t.deps, perm, id, ErrTrackNotFound, func(_ context.Context, tr *models.Track) (string, error) {
		return tr.OwnerID(), nil
	})
}

func (t *Tracks) detail(ctx context.Context, track models.Track) (views.TrackDetail, error) {
	corners, err := store.Collect[models.Corner](ctx, t.store, store.Asc, store.By("track_id", track.ID))
	if err != nil {
		return views.TrackDetail{}, err
	}
	url, err := t.mapImageURL(ctx, track.MapImageID)
	if err != nil {
		return views.TrackDetail{}, err
	}
	return views.NewTrackDetail(track, url, corners), nil
}

func (t *Tracks) summary(ctx context.Context, track models.Track) (views.TrackSummary, error) {
	stars, err := store.Count[models.TrackStar](ctx, t.store, store.By("track_id", track.ID))
	if err != nil {
		return views.TrackSummary{}, err
	}
	comments, err := store.Count[models.TrackComment](ctx, t.store, store.By("track_id", track.ID))
	if err != nil {
		return views.TrackSummary{}, err
	}
	url, err := t.mapImageURL(ctx, track.MapImageID)
	if err != nil {
		return views.TrackSummary{}, err
	}
	return views.TrackSummary{Track: track, StarCount: stars, CommentCount: comments, MapImageURL: url}, nil
}
