package access_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/blob"
	"github.com/Porx312/ProjectD/identity"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/testutil"
)

const (
	alice = "user_alice"
	bob   = "user_bob"
)

type fixture struct {
	svc   *access.Service
	store *store.Store
	clock *testutil.Clock
	blobs *blob.Store
}

func newFixture(t *testing.T, opts ...authz.Option) *fixture {
	t.Helper()
	s, clock := testutil.NewStore(t)

	eval, err := authz.NewOpaEvaluator(nil)
	require.NoError(t, err)
	gate := authz.NewGate(eval, opts...)

	blobs, err := blob.New(afero.NewMemMapFs(), "blobs", "http://test", []byte("k"), time.Minute)
	require.NoError(t, err)

	return &fixture{
		svc:   access.New(s, gate, blobs, nil),
		store: s,
		clock: clock,
		blobs: blobs,
	}
}

func anon() context.Context {
	return context.Background()
}

func as(subject string) context.Context {
	name := strings.TrimPrefix(subject, "user_")
	return identity.NewContext(context.Background(), identity.Identity{Subject: subject, Name: name})
}

func (f *fixture) track(t *testing.T, owner, name string) string {
	t.Helper()
	id, err := f.svc.Tracks.Create(as(owner), access.NewTrack{
		Name:     name,
		Location: "Gunma",
		CarModel: "AE86",
		LengthKm: 5.5,
		UserID:   owner,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) corner(t *testing.T, owner, trackID string, number int, target float64) string {
	t.Helper()
	id, err := f.svc.Corners.Create(as(owner), access.NewCorner{
		TrackID:      trackID,
		CornerNumber: number,
		Name:         "Hairpin",
		TargetTime:   target,
		TargetSpeed:  60,
		TargetGear:   2,
		PositionX:    40,
		PositionY:    60,
	})
	require.NoError(t, err)
	return id
}

func (f *fixture) record(t *testing.T, user, cornerID string, value float64) string {
	t.Helper()
	id, err := f.svc.Times.Create(as(user), access.NewUserTime{CornerID: cornerID, UserID: user, UserTime: value})
	require.NoError(t, err)
	return id
}

func ptr[T any](v T) *T {
	return &v
}
