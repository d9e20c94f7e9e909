package access

import (
	"context"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/views"
)

// UserTimes are recorded corner attempts. Any number may exist per user and
// corner.
type UserTimes struct {
	deps
	l *zap.Logger
}

type NewUserTime struct {
	CornerID string  `json:"cornerId" validate:"required"`
	UserID   string  `json:"userId" validate:"required"`
	UserTime float64 `json:"userTime"`
	Notes    *string `json:"notes"`
}

// ListByCorner returns the user's times on one corner in creation order.
func (u *UserTimes) ListByCorner(ctx context.Context, cornerID, userID string) ([]models.UserTime, error) {
	return store.Collect[models.UserTime](ctx, u.store, store.Asc,
		store.By("corner_id", cornerID), store.By("user_id", userID))
}

// ListByUser returns all of the user's times in creation order.
func (u *UserTimes) ListByUser(ctx context.Context, userID string) ([]models.UserTime, error) {
	return store.Collect[models.UserTime](ctx, u.store, store.Asc, store.By("user_id", userID))
}

// ListByUserWithDetails returns the user's times, newest first, joined with
// their corner and track. Times whose corner or track is gone are left out.
func (u *UserTimes) ListByUserWithDetails(ctx context.Context, userID string) ([]views.TimeDetail, error) {
	times, err := store.Collect[models.UserTime](ctx, u.store, store.Desc, store.By("user_id", userID))
	if err != nil {
		return nil, err
	}
	joined, err := mapConcurrent(ctx, times, func(ctx context.Context, t models.UserTime) (*views.TimeDetail, error) {
		corner, err := store.Resolve[models.Corner](ctx, u.store, t.CornerID)
		if err != nil || !corner.Found() {
			return nil, err
		}
		track, err := store.Resolve[models.Track](ctx, u.store, corner.Value.TrackID)
		if err != nil || !track.Found() {
			return nil, err
		}
		return &views.TimeDetail{UserTime: t, Corner: *corner.Value, Track: *track.Value}, nil
	})
	if err != nil {
		return nil, err
	}
	dropped := lo.CountBy(joined, func(d *views.TimeDetail) bool { return d == nil })
	if dropped > 0 {
		u.l.Debug("orphaned times skipped", zap.String("userId", userID), zap.Int("count", dropped))
	}
	return lo.FilterMap(joined, func(d *views.TimeDetail, _ int) (views.TimeDetail, bool) {
		if d == nil {
			return views.TimeDetail{}, false
		}
		return *d, true
	}), nil
}

// Create records a time for in.UserID. The caller must be that user.
func (u *UserTimes) Create(ctx context.Context, in NewUserTime) (string, error) {
	if u.gate.Requires(authz.PermissionCreateTime) {
		if _, err := u.gate.Caller(ctx); err != nil {
			return "", err
		}
		n, err := store.Count[models.Corner](ctx, u.store, store.By("id", in.CornerID))
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", ErrCornerNotFound
		}
		if _, err := u.gate.Authorize(ctx, authz.PermissionCreateTime, in.UserID); err != nil {
			return "", err
		}
	}
	return u.store.Insert(ctx, &models.UserTime{
		CornerID: in.CornerID,
		UserID:   in.UserID,
		UserTime: in.UserTime,
		Notes:    in.Notes,
	})
}

func (u *UserTimes) Remove(ctx context.Context, id string) error {
	_, err := guard(ctx, u.deps, authz.PermissionDeleteTime, id, ErrTimeNotFound,
		func(_ context.Context, t *models.UserTime) (string, error) {
			return t.OwnerID(), nil
		})
	if err != nil {
		return err
	}
	_, err = store.Delete[models.UserTime](ctx, u.store, id)
	return err
}
