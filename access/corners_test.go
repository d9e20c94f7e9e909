package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/authz"
)

func TestCornerOwnership(t *testing.T) {
	f := newFixture(t)
	trackID := f.track(t, alice, "Akina")
	in := access.NewCorner{TrackID: trackID, CornerNumber: 1, Name: "Five Hairpins", TargetTime: 8.3}

	_, err := f.svc.Corners.Create(anon(), in)
	assert.ErrorIs(t, err, authz.ErrAuthenticationRequired)
	_, err = f.svc.Corners.Create(as(bob), in)
	assert.ErrorIs(t, err, authz.ErrAuthorizationDenied)
	_, err = f.svc.Corners.Create(as(alice), access.NewCorner{TrackID: "missing", Name: "x"})
	assert.ErrorIs(t, err, access.ErrTrackNotFound)

	id, err := f.svc.Corners.Create(as(alice), in)
	require.NoError(t, err)

	patch := access.CornerPatch{TargetTime: ptr(8.1), YoutubeURL: ptr("https://youtu.be/abc?t=12")}
	assert.ErrorIs(t, f.svc.Corners.Update(as(bob), id, patch), authz.ErrAuthorizationDenied)
	assert.ErrorIs(t, f.svc.Corners.Remove(as(bob), id), authz.ErrAuthorizationDenied)
	assert.ErrorIs(t, f.svc.Corners.Update(as(alice), "missing", patch), access.ErrCornerNotFound)

	require.NoError(t, f.svc.Corners.Update(as(alice), id, patch))
	got, err := f.svc.Corners.Get(anon(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 8.1, got.TargetTime, 1e-9)
	assert.Equal(t, "Five Hairpins", got.Name)
	require.NotNil(t, got.YoutubeURL)

	require.NoError(t, f.svc.Corners.Remove(as(alice), id))
	got, err = f.svc.Corners.Get(anon(), id)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCornerOfDeletedTrackIsLocked(t *testing.T) {
	f := newFixture(t)
	trackID := f.track(t, alice, "Akina")
	id := f.corner(t, alice, trackID, 1, 8.3)
	require.NoError(t, f.svc.Tracks.Remove(as(alice), trackID))

	assert.ErrorIs(t, f.svc.Corners.Remove(as(alice), id), authz.ErrAuthorizationDenied)
}

func TestLegacyOpenCornerMutations(t *testing.T) {
	f := newFixture(t, authz.WithLegacyOpenMutations(true))
	trackID := f.track(t, alice, "Akina")

	id, err := f.svc.Corners.Create(as(bob), access.NewCorner{TrackID: trackID, Name: "Hairpin", TargetTime: 8})
	require.NoError(t, err)
	require.NoError(t, f.svc.Corners.Update(anon(), id, access.CornerPatch{Name: ptr("Renamed")}))

	got, err := f.svc.Corners.Get(anon(), id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	require.NoError(t, f.svc.Corners.Remove(as(bob), id))

	// no parent lookup either
	orphan, err := f.svc.Corners.Create(anon(), access.NewCorner{TrackID: "gone", Name: "Hairpin", TargetTime: 8})
	require.NoError(t, err)
	got, err = f.svc.Corners.Get(anon(), orphan)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "gone", got.TrackID)

	// tracks stay guarded
	assert.ErrorIs(t, f.svc.Tracks.Remove(as(bob), trackID), authz.ErrAuthorizationDenied)
}

func TestCornerProgressAndDetail(t *testing.T) {
	f := newFixture(t)
	trackID := f.track(t, alice, "Akina")
	c1 := f.corner(t, alice, trackID, 1, 8.30)
	c2 := f.corner(t, alice, trackID, 2, 5.00)
	require.NoError(t, f.svc.Corners.Update(as(alice), c1, access.CornerPatch{
		YoutubeURL: ptr("https://youtube.com/watch?v=ABC123&t=1m5s"),
	}))

	for _, v := range []float64{8.51, 8.20, 8.75} {
		f.record(t, bob, c1, v)
	}
	f.record(t, alice, c1, 7.0)

	progress, err := f.svc.Corners.Progress(anon(), trackID, bob)
	require.NoError(t, err)
	require.Len(t, progress, 2)
	assert.Equal(t, c1, progress[0].ID)
	assert.Equal(t, 3, progress[0].Attempts)
	require.NotNil(t, progress[0].BestTime)
	assert.InDelta(t, 8.20, *progress[0].BestTime, 1e-9)
	assert.InDelta(t, -0.10, *progress[0].Delta, 1e-9)
	assert.Equal(t, c2, progress[1].ID)
	assert.Nil(t, progress[1].BestTime)

	detail, err := f.svc.Corners.Detail(anon(), c1, bob)
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.NotNil(t, detail.EmbedURL)
	assert.Equal(t, "https://www.youtube.com/embed/ABC123?start=65&rel=0&modestbranding=1", *detail.EmbedURL)
	require.Len(t, detail.Times, 3)
	assert.InDelta(t, 8.75, detail.Times[0].UserTime, 1e-9)
	assert.InDelta(t, -0.10, *detail.Delta, 1e-9)

	missing, err := f.svc.Corners.Detail(anon(), "missing", bob)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
