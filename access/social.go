package access

import (
	"context"

	"github.com/samber/lo"

	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/identity"
	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/views"
)

// StarTrack flips the caller's star on the track and reports whether the
// track is starred afterwards.
func (t *Tracks) StarTrack(ctx context.Context, trackID string) (bool, error) {
	caller, err := t.gate.Caller(ctx)
	if err != nil {
		return false, err
	}
	if err := t.exists(ctx, trackID); err != nil {
		return false, err
	}
	star := &models.TrackStar{UserID: caller.Subject, TrackID: trackID}
	return t.store.Toggle(ctx, star, store.By("user_id", caller.Subject), store.By("track_id", trackID))
}

// IsTrackStarred is false for anonymous callers.
func (t *Tracks) IsTrackStarred(ctx context.Context, trackID string) (bool, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return false, nil
	}
	star, err := store.First[models.TrackStar](ctx, t.store,
		store.By("user_id", caller.Subject), store.By("track_id", trackID))
	return star != nil, err
}

func (t *Tracks) GetStarCount(ctx context.Context, trackID string) (int, error) {
	return store.Count[models.TrackStar](ctx, t.store, store.By("track_id", trackID))
}

// SaveTrack bookmarks another user's track for the caller.
func (t *Tracks) SaveTrack(ctx context.Context, trackID string) error {
	caller, err := t.gate.Caller(ctx)
	if err != nil {
		return err
	}
	track, err := store.Get[models.Track](ctx, t.store, trackID)
	if err != nil {
		return err
	}
	if track == nil {
		return ErrTrackNotFound
	}
	if track.OwnerID() == caller.Subject {
		return ErrSaveOwnTrack
	}
	saved, err := t.store.InsertIfAbsent(ctx,
		&models.SavedTrack{UserID: caller.Subject, TrackID: trackID}, "user_id", "track_id")
	if err != nil {
		return err
	}
	if !saved {
		return ErrAlreadySaved
	}
	return nil
}

func (t *Tracks) UnsaveTrack(ctx context.Context, trackID string) error {
	caller, err := t.gate.Caller(ctx)
	if err != nil {
		return err
	}
	n, err := store.DeleteWhere[models.SavedTrack](ctx, t.store,
		store.By("user_id", caller.Subject), store.By("track_id", trackID))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotSaved
	}
	return nil
}

// IsTrackSaved is false for anonymous callers.
func (t *Tracks) IsTrackSaved(ctx context.Context, trackID string) (bool, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return false, nil
	}
	saved, err := store.First[models.SavedTrack](ctx, t.store,
		store.By("user_id", caller.Subject), store.By("track_id", trackID))
	return saved != nil, err
}

// GetSavedTracks returns the caller's saved tracks, most recently saved
// first. Saves whose track was deleted are left out.
func (t *Tracks) GetSavedTracks(ctx context.Context) ([]views.SavedTrackSummary, error) {
	caller, ok := identity.FromContext(ctx)
	if !ok {
		return []views.SavedTrackSummary{}, nil
	}
	saves, err := store.Collect[models.SavedTrack](ctx, t.store, store.Desc, store.By("user_id", caller.Subject))
	if err != nil {
		return nil, err
	}
	resolved, err := mapConcurrent(ctx, saves, func(ctx context.Context, s models.SavedTrack) (*views.SavedTrackSummary, error) {
		ref, err := store.Resolve[models.Track](ctx, t.store, s.TrackID)
		if err != nil || !ref.Found() {
			return nil, err
		}
		summary, err := t.summary(ctx, *ref.Value)
		if err != nil {
			return nil, err
		}
		return &views.SavedTrackSummary{TrackSummary: summary, SavedAt: s.SavedAt}, nil
	})
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(resolved, func(s *views.SavedTrackSummary, _ int) (views.SavedTrackSummary, bool) {
		if s == nil {
			return views.SavedTrackSummary{}, false
		}
		return *s, true
	}), nil
}

// AddComment posts a comment as the caller and returns its id.
func (t *Tracks) AddComment(ctx context.Context, trackID, content string) (string, error) {
	caller, err := t.gate.Caller(ctx)
	if err != nil {
		return "", err
	}
	if err := t.exists(ctx, trackID); err != nil {
		return "", err
	}
	return t.store.Insert(ctx, &models.TrackComment{
		TrackID:  trackID,
		UserID:   caller.Subject,
		UserName: caller.DisplayName(),
		Content:  content,
	})
}

// GetComments returns the track's comments, newest first.
func (t *Tracks) GetComments(ctx context.Context, trackID string) ([]models.TrackComment, error) {
	return store.Collect[models.TrackComment](ctx, t.store, store.Desc, store.By("track_id", trackID))
}

// DeleteComment removes a comment. Only its author may do so.
func (t *Tracks) DeleteComment(ctx context.Context, commentID string) error {
	_, err := guard(ctx, t.deps, authz.PermissionDeleteComment, commentID, ErrCommentNotFound,
		func(_ context.Context, c *models.TrackComment) (string, error) {
			return c.OwnerID(), nil
		})
	if err != nil {
		return err
	}
	_, err = store.Delete[models.TrackComment](ctx, t.store, commentID)
	return err
}

func (t *Tracks) exists(ctx context.Context, trackID string) error {
	n, err := store.Count[models.Track](ctx, t.store, store.By("id", trackID))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTrackNotFound
	}
	return nil
}
