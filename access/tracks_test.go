package access_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Porx312/ProjectD/access"
	"github.com/Porx312/ProjectD/authz"
	"github.com/Porx312/ProjectD/identity"
)

func TestCreateTrackUserName(t *testing.T) {
	f := newFixture(t)

	id := f.track(t, alice, "Akina")
	got, err := f.svc.Tracks.Get(anon(), id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.UserName)
	assert.Equal(t, alice, got.UserID)

	nick := identity.NewContext(context.Background(), identity.Identity{Subject: bob, Nickname: "bobby"})
	id, err = f.svc.Tracks.Create(nick, access.NewTrack{Name: "Myogi", Location: "Gunma", CarModel: "R32", UserID: bob})
	require.NoError(t, err)
	got, err = f.svc.Tracks.Get(anon(), id)
	require.NoError(t, err)
	assert.Equal(t, "bobby", got.UserName)

	id, err = f.svc.Tracks.Create(anon(), access.NewTrack{Name: "Usui", Location: "Gunma", CarModel: "S13", UserID: bob})
	require.NoError(t, err)
	got, err = f.svc.Tracks.Get(anon(), id)
	require.NoError(t, err)
	assert.Equal(t, identity.UnknownUser, got.UserName)
}

func TestTrackUpdateRemoveAuthorization(t *testing.T) {
	f := newFixture(t)
	id := f.track(t, alice, "Akina")
	patch := access.TrackPatch{Name: ptr("Akina Downhill")}

	tests := []struct {
		name string
		ctx  context.Context
		want error
	}{
		{"anonymous", anon(), authz.ErrAuthenticationRequired},
		{"other user", as(bob), authz.ErrAuthorizationDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, f.svc.Tracks.Update(tt.ctx, id, patch), tt.want)
			assert.ErrorIs(t, f.svc.Tracks.Remove(tt.ctx, id), tt.want)

			got, err := f.svc.Tracks.Get(anon(), id)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, "Akina", got.Name)
		})
	}

	require.NoError(t, f.svc.Tracks.Update(as(alice), id, patch))
	got, err := f.svc.Tracks.Get(anon(), id)
	require.NoError(t, err)
	assert.Equal(t, "Akina Downhill", got.Name)
	assert.Equal(t, "Gunma", got.Location)

	require.NoError(t, f.svc.Tracks.Remove(as(alice), id))
	got, err = f.svc.Tracks.Get(anon(), id)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, f.svc.Tracks.Update(as(alice), id, patch), access.ErrTrackNotFound)
	assert.ErrorIs(t, f.svc.Tracks.Remove(as(alice), id), access.ErrTrackNotFound)
}

func TestGetTrackWithCornersAndImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	url, err := f.svc.Tracks.GenerateUploadURL(ctx)
	require.NoError(t, err)
	token := url[strings.LastIndex(url, "/")+1:]
	imageID, err := f.blobs.Put(ctx, token, "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	id := f.track(t, alice, "Akina")
	require.NoError(t, f.svc.Tracks.Update(as(alice), id, access.TrackPatch{MapImageID: &imageID}))
	c1 := f.corner(t, alice, id, 1, 8.3)
	c2 := f.corner(t, alice, id, 2, 5.1)

	got, err := f.svc.Tracks.Get(anon(), id)
	require.NoError(t, err)
	require.NotNil(t, got.MapImageURL)
	assert.Equal(t, "http://test/api/storage/"+imageID, *got.MapImageURL)
	require.Len(t, got.Corners, 2)
	assert.Equal(t, c1, got.Corners[0].ID)
	assert.Equal(t, c2, got.Corners[1].ID)
	assert.Equal(t, 2, got.CornerCount)

	missing, err := f.svc.Tracks.Get(anon(), "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestListTracksNewestFirst(t *testing.T) {
	f := newFixture(t)
	first := f.track(t, alice, "Akina")
	second := f.track(t, alice, "Irohazaka")
	f.track(t, bob, "Myogi")
	f.corner(t, alice, first, 1, 8.3)

	list, err := f.svc.Tracks.List(anon(), alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second, list[0].ID)
	assert.Equal(t, 0, list[0].CornerCount)
	assert.NotNil(t, list[0].Corners)
	assert.Equal(t, first, list[1].ID)
	assert.Equal(t, 1, list[1].CornerCount)

	empty, err := f.svc.Tracks.List(anon(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetAllTracksCounts(t *testing.T) {
	f := newFixture(t)
	akina := f.track(t, alice, "Akina")
	myogi := f.track(t, bob, "Myogi")

	users := []string{"u1", "u2", "u3", "u4"}
	for _, u := range users {
		on, err := f.svc.Tracks.StarTrack(as(u), akina)
		require.NoError(t, err)
		require.True(t, on)
	}
	// one user takes the star back
	on, err := f.svc.Tracks.StarTrack(as("u2"), akina)
	require.NoError(t, err)
	require.False(t, on)

	var comments []string
	for i, u := range users[:3] {
		id, err := f.svc.Tracks.AddComment(as(u), akina, strings.Repeat("nice ", i+1))
		require.NoError(t, err)
		comments = append(comments, id)
	}
	require.NoError(t, f.svc.Tracks.DeleteComment(as("u1"), comments[0]))
	_, err = f.svc.Tracks.AddComment(as(alice), myogi, "mine")
	require.NoError(t, err)

	all, err := f.svc.Tracks.GetAllTracks(anon())
	require.NoError(t, err)
	require.Len(t, all, 2)

	assert.Equal(t, myogi, all[0].ID)
	assert.Equal(t, 0, all[0].StarCount)
	assert.Equal(t, 1, all[0].CommentCount)

	assert.Equal(t, akina, all[1].ID)
	assert.Equal(t, 3, all[1].StarCount)
	assert.Equal(t, 2, all[1].CommentCount)
	assert.Nil(t, all[1].MapImageURL)

	count, err := f.svc.Tracks.GetStarCount(anon(), akina)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
