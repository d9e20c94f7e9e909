// Package blob stores uploaded files (track map images) on an afero
// filesystem. Uploads go through one-shot signed URLs.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/ids"
	"github.com/Porx312/ProjectD/logger"
)

const uploadAudience = "blob-upload"

var (
	ErrNotFound     = errors.New("blob not found")
	ErrInvalidToken = errors.New("invalid upload token")
	ErrTokenUsed    = errors.New("upload token already used")
)

// Storage is what the access layer needs from blob storage.
type Storage interface {
	GenerateUploadURL(ctx context.Context) (string, error)
	URL(ctx context.Context, ref string) (string, bool, error)
}

type Store struct {
	fs        afero.Fs
	dir       string
	publicURL string
	key       []byte
	ttl       time.Duration
	now       func() time.Time
	l         *zap.Logger

	mu sync.Mutex
}

var _ Storage = (*Store)(nil)

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		s.l = l
	}
}

// New returns a store rooted at dir. publicURL is the externally reachable
// base of the HTTP API and key signs upload tokens.
func New(fs afero.Fs, dir, publicURL string, key []byte, ttl time.Duration, opts ...Option) (*Store, error) {
	s := &Store{
		fs:        fs,
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		key:       key,
		ttl:       ttl,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.l = logger.Or(s.l).Named("blob")
	if err := fs.MkdirAll(path.Join(dir, ".used"), 0o755); err != nil {
		return nil, fmt.Errorf("creating blob dir: %w", err)
	}
	return s, nil
}

// GenerateUploadURL returns a URL that accepts a single upload until the ttl
// runs out.
func (s *Store) GenerateUploadURL(ctx context.Context) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Audience:  jwt.ClaimStrings{uploadAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("signing upload token: %w", err)
	}
	return s.publicURL + "/api/storage/upload/" + token, nil
}

// Put consumes the upload token and stores the content. Returns the blob id.
func (s *Store) Put(ctx context.Context, token, contentType string, r io.Reader) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(uploadAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || claims.ID == "" {
		return "", ErrInvalidToken
	}

	if err := s.consume(claims.ID); err != nil {
		return "", err
	}

	id := ids.NewKSUID()
	f, err := s.fs.Create(s.path(id))
	if err != nil {
		return "", fmt.Errorf("creating blob: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.fs.Remove(s.path(id))
		return "", fmt.Errorf("writing blob: %w", err)
	}
	if contentType != "" {
		if err := afero.WriteFile(s.fs, s.path(id)+".type", []byte(contentType), 0o644); err != nil {
			return "", fmt.Errorf("writing blob type: %w", err)
		}
	}
	s.l.Info("stored", zap.String("id", id), zap.Int64("bytes", n))
	return id, nil
}

// Open returns the blob content and its content type.
func (s *Store) Open(ctx context.Context, id string) (afero.File, string, error) {
	if !valid(id) {
		return nil, "", ErrNotFound
	}
	f, err := s.fs.Open(s.path(id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, "", ErrNotFound
		}
		return nil, "", err
	}
	contentType := "application/octet-stream"
	if b, err := afero.ReadFile(s.fs, s.path(id)+".type"); err == nil && len(b) > 0 {
		contentType = string(b)
	}
	return f, contentType, nil
}

// URL resolves a stored reference to its public URL. The second result is
// false when ref is empty or no longer exists.
func (s *Store) URL(ctx context.Context, ref string) (string, bool, error) {
	if !valid(ref) {
		return "", false, nil
	}
	ok, err := afero.Exists(s.fs, s.path(ref))
	if err != nil || !ok {
		return "", false, err
	}
	return s.publicURL + "/api/storage/" + ref, true, nil
}

func (s *Store) consume(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	marker := path.Join(s.dir, ".used", jti)
	used, err := afero.Exists(s.fs, marker)
	if err != nil {
		return err
	}
	if used {
		return ErrTokenUsed
	}
	return afero.WriteFile(s.fs, marker, nil, 0o644)
}

func (s *Store) path(id string) string {
	return path.Join(s.dir, id)
}

// valid rejects anything that is not a blob id, so refs never escape dir.
func valid(id string) bool {
	if id == "" {
		return false
	}
	_, err := ksuid.Parse(id)
	return err == nil
}
