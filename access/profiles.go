package access

import (
	"context"

	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/views"
)

// Profiles are the user rows keyed by external identity.
type Profiles struct {
	deps
	times *UserTimes
	l     *zap.Logger
}

// Create returns the id of the user's profile, creating it when absent.
func (p *Profiles) Create(ctx context.Context, userID string, displayName *string) (string, error) {
	if existing, err := p.Get(ctx, userID); err != nil {
		return "", err
	} else if existing != nil {
		return existing.ID, nil
	}

	user := &models.User{UserID: userID, DisplayName: displayName}
	created, err := p.store.InsertIfAbsent(ctx, user, "user_id")
	if err != nil {
		return "", err
	}
	if created {
		p.l.Info("profile created", zap.String("userId", userID))
		return user.ID, nil
	}
	// lost a race with a concurrent create
	existing, err := p.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if existing == nil {
		return "", &NotFoundError{Entity: "Profile"}
	}
	return existing.ID, nil
}

// Get returns the user's profile or nil.
func (p *Profiles) Get(ctx context.Context, userID string) (*models.User, error) {
	return store.First[models.User](ctx, p.store, store.By("user_id", userID))
}

// Stats aggregates the user's recorded times as of now.
func (p *Profiles) Stats(ctx context.Context, userID string) (views.ProfileStats, error) {
	details, err := p.times.ListByUserWithDetails(ctx, userID)
	if err != nil {
		return views.ProfileStats{}, err
	}
	return views.BuildProfileStats(p.store.Now(), details), nil
}
