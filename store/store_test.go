package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Porx312/ProjectD/models"
	"github.com/Porx312/ProjectD/store"
	"github.com/Porx312/ProjectD/testutil"
)

func newTrack(userID, name string) *models.Track {
	return &models.Track{UserID: userID, UserName: "Driver", Name: name, Location: "Akina", CarModel: "AE86", LengthKm: 5.2}
}

func TestInsertGetPatchDelete(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	tr := newTrack("user_1", "Akina Downhill")
	id, err := s.Insert(ctx, tr)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, testutil.Epoch.Add(time.Second), tr.CreatedAt)

	got, err := store.Get[models.Track](ctx, s, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Akina Downhill", got.Name)
	assert.Nil(t, got.MapImageID)

	got.Name = "Akina Uphill"
	got.Location = "ignored"
	ok, err := s.Patch(ctx, got, "name")
	require.NoError(t, err)
	assert.True(t, ok)

	again, err := store.Get[models.Track](ctx, s, id)
	require.NoError(t, err)
	assert.Equal(t, "Akina Uphill", again.Name)
	assert.Equal(t, "Akina", again.Location)

	removed, err := store.Delete[models.Track](ctx, s, id)
	require.NoError(t, err)
	assert.True(t, removed)

	missing, err := store.Get[models.Track](ctx, s, id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	removed, err = store.Delete[models.Track](ctx, s, id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestPatchMissing(t *testing.T) {
	s, _ := testutil.NewStore(t)
	ok, err := s.Patch(context.Background(), &models.Corner{ID: "nope", Name: "x"}, "name")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = s.Patch(context.Background(), &models.Corner{ID: "nope"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCollectOrderAndCount(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	for _, name := range []string{"first", "second", "third"} {
		_, err := s.Insert(ctx, newTrack("user_1", name))
		require.NoError(t, err)
	}
	_, err := s.Insert(ctx, newTrack("user_2", "other"))
	require.NoError(t, err)

	desc, err := store.Collect[models.Track](ctx, s, store.Desc, store.By("user_id", "user_1"))
	require.NoError(t, err)
	require.Len(t, desc, 3)
	assert.Equal(t, []string{"third", "second", "first"}, []string{desc[0].Name, desc[1].Name, desc[2].Name})

	asc, err := store.Collect[models.Track](ctx, s, store.Asc)
	require.NoError(t, err)
	require.Len(t, asc, 4)
	assert.Equal(t, "first", asc[0].Name)

	none, err := store.Collect[models.Track](ctx, s, store.Asc, store.By("user_id", "nobody"))
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	n, err := store.Count[models.Track](ctx, s, store.By("user_id", "user_1"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestToggle(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	toggle := func() bool {
		present, err := s.Toggle(ctx,
			&models.TrackStar{UserID: "u", TrackID: "t"},
			store.By("user_id", "u"), store.By("track_id", "t"))
		require.NoError(t, err)
		return present
	}

	assert.True(t, toggle())
	assert.False(t, toggle())
	assert.True(t, toggle())

	n, err := store.Count[models.TrackStar](ctx, s, store.By("track_id", "t"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestToggleConcurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	var g errgroup.Group
	for i := 0; i < 15; i++ {
		g.Go(func() error {
			_, err := s.Toggle(ctx,
				&models.TrackStar{UserID: "u", TrackID: "t"},
				store.By("user_id", "u"), store.By("track_id", "t"))
			return err
		})
	}
	require.NoError(t, g.Wait())

	n, err := store.Count[models.TrackStar](ctx, s, store.By("track_id", "t"))
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 1)
}

func TestInsertIfAbsentConcurrent(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	var (
		g       errgroup.Group
		mu      sync.Mutex
		written int
	)
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			ok, err := s.InsertIfAbsent(ctx, &models.SavedTrack{UserID: "u", TrackID: "t"}, "user_id", "track_id")
			if ok {
				mu.Lock()
				written++
				mu.Unlock()
			}
			return err
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, 1, written)
}

func TestInsertIfAbsent(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	ok, err := s.InsertIfAbsent(ctx, &models.SavedTrack{UserID: "u", TrackID: "t"}, "user_id", "track_id")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.InsertIfAbsent(ctx, &models.SavedTrack{UserID: "u", TrackID: "t"}, "user_id", "track_id")
	require.NoError(t, err)
	assert.False(t, ok)

	n, err := store.Count[models.SavedTrack](ctx, s, store.By("user_id", "u"))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeleteWhereRequiresPredicate(t *testing.T) {
	s, _ := testutil.NewStore(t)
	_, err := store.DeleteWhere[models.TrackStar](context.Background(), s)
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	s, _ := testutil.NewStore(t)

	id, err := s.Insert(ctx, &models.Corner{TrackID: "t", Name: "Hairpin"})
	require.NoError(t, err)

	ref, err := store.Resolve[models.Corner](ctx, s, id)
	require.NoError(t, err)
	assert.True(t, ref.Found())
	assert.Equal(t, "Hairpin", ref.Value.Name)

	ref, err = store.Resolve[models.Corner](ctx, s, "gone")
	require.NoError(t, err)
	assert.False(t, ref.Found())
	assert.Equal(t, store.Orphaned, ref.State)
	assert.Equal(t, "orphaned", ref.State.String())
}
