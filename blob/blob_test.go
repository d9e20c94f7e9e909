package blob

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)

func newStore(t *testing.T, now *time.Time) *Store {
	t.Helper()
	s, err := New(afero.NewMemMapFs(), "blobs", "http://localhost:9000/", []byte("k"), 15*time.Minute,
		WithClock(func() time.Time { return *now }))
	require.NoError(t, err)
	return s
}

func tokenOf(t *testing.T, url string) string {
	t.Helper()
	const prefix = "http://localhost:9000/api/storage/upload/"
	require.True(t, strings.HasPrefix(url, prefix), url)
	return strings.TrimPrefix(url, prefix)
}

func TestUploadRoundTrip(t *testing.T) {
	now := epoch
	s := newStore(t, &now)
	ctx := context.Background()

	url, err := s.GenerateUploadURL(ctx)
	require.NoError(t, err)

	id, err := s.Put(ctx, tokenOf(t, url), "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)

	f, contentType, err := s.Open(ctx, id)
	require.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(b))
	assert.Equal(t, "image/png", contentType)

	public, ok, err := s.URL(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:9000/api/storage/"+id, public)
}

func TestUploadTokenIsOneShot(t *testing.T) {
	now := epoch
	s := newStore(t, &now)
	ctx := context.Background()

	url, err := s.GenerateUploadURL(ctx)
	require.NoError(t, err)
	token := tokenOf(t, url)

	_, err = s.Put(ctx, token, "", strings.NewReader("a"))
	require.NoError(t, err)
	_, err = s.Put(ctx, token, "", strings.NewReader("b"))
	assert.ErrorIs(t, err, ErrTokenUsed)
}

func TestUploadTokenExpires(t *testing.T) {
	now := epoch
	s := newStore(t, &now)
	ctx := context.Background()

	url, err := s.GenerateUploadURL(ctx)
	require.NoError(t, err)
	now = epoch.Add(time.Hour)

	_, err = s.Put(ctx, tokenOf(t, url), "", strings.NewReader("a"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRejectsForeignTokens(t *testing.T) {
	now := epoch
	s := newStore(t, &now)
	_, err := s.Put(context.Background(), "garbage", "", strings.NewReader("a"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestURLUnknownRefs(t *testing.T) {
	now := epoch
	s := newStore(t, &now)
	ctx := context.Background()

	for _, ref := range []string{"", "../etc/passwd", "0ujsswThIGTUYm2K8FjOOfXtY1K"} {
		_, ok, err := s.URL(ctx, ref)
		require.NoError(t, err)
		assert.False(t, ok, ref)
	}

	_, _, err := s.Open(ctx, "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}
