// Package access implements the named read and write operations of the
// tracker. Every mutation resolves the owner of the record it touches and
// passes it through the authorization gate.
package access

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/blob"
	"github.com/Porx312/ProjectD/logger"
	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
)

// fanout bounds the concurrent sub-fetches of one read.
const fanout = 8

// Service groups the operations by entity.
type Service struct {
	Tracks   *Tracks
	Corners  *Corners
	Times    *UserTimes
	Profiles *Profiles
}

func New(s *store.Store, gate *authz.Gate, blobs blob.Storage, l *zap.Logger) *Service {
	l = logger.Or(l).Named("access")
	base := deps{store: s, gate: gate, blobs: blobs}
	times := &UserTimes{deps: base, l: l.Named("times")}
	return &Service{
		Tracks:   &Tracks{deps: base, l: l.Named("tracks")},
		Corners:  &Corners{deps: base, l: l.Named("corners")},
		Times:    times,
		Profiles: &Profiles{deps: base, times: times, l: l.Named("profiles")},
	}
}

type deps struct {
	store *store.Store
	gate  *authz.Gate
	blobs blob.Storage
}

// guard loads the record a mutation targets and checks that the caller may
// change it. owner names the user that owns the loaded record.
func guard[T any](
	ctx context.Context,
	d deps,
	perm authz.Permission,
	id string,
	notFound error,
	owner func(context.Context, *T) (string, error),
) (*T, error) {
	if d.gate.Requires(perm) {
		if _, err := d.gate.Caller(ctx); err != nil {
			return nil, err
		}
	}
	rec, err := store.Get[T](ctx, d.store, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFound
	}
	ownerID, err := owner(ctx, rec)
	if err != nil {
		return nil, err
	}
	if _, err := d.gate.Authorize(ctx, perm, ownerID); err != nil {
		return nil, err
	}
	return rec, nil
}

// trackOwner resolves a track's owner. An orphaned reference has no owner.
func (d deps) trackOwner(ctx context.Context, trackID string) (string, error) {
	ref, err := store.Resolve[models.Track](ctx, d.store, trackID)
	if err != nil || !ref.Found() {
		return "", err
	}
	return ref.Value.OwnerID(), nil
}

// mapImageURL resolves the track's map image, nil when unset or gone.
func (d deps) mapImageURL(ctx context.Context, ref *string) (*string, error) {
	if ref == nil || d.blobs == nil {
		return nil, nil
	}
	url, ok, err := d.blobs.URL(ctx, *ref)
	if err != nil || !ok {
		return nil, err
	}
	return &url, nil
}

// mapConcurrent applies fn to every item with bounded concurrency. Results
// keep the order of items.
func mapConcurrent[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) ([]R, error) {
	out := make([]R, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fanout)
	for i, item := range items {
		g.Go(func() error {
			r, err := fn(ctx, item)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
