// Package authz decides whether the caller may change a record. Ownership is
// the only rule: a mutation is allowed when the caller subject equals the
// record's owner id.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Porx312/ProjectD/identity"
	"github.com/Porx312/ProjectD/logger"
)

var (
	ErrAuthenticationRequired = errors.New("Not authenticated") //nolint:staticcheck // user facing text
	ErrAuthorizationDenied    = errors.New("Unauthorized")      //nolint:staticcheck // user facing text
)

type Permission string

const (
	PermissionUpdateTrack   Permission = "update-track"
	PermissionDeleteTrack   Permission = "delete-track"
	PermissionDeleteComment Permission = "delete-comment"
	PermissionCreateCorner  Permission = "create-corner"
	PermissionUpdateCorner  Permission = "update-corner"
	PermissionDeleteCorner  Permission = "delete-corner"
	PermissionCreateTime    Permission = "create-time"
	PermissionDeleteTime    Permission = "delete-time"
)

// legacyOpen lists the mutations that historically ran without any check.
var legacyOpen = []Permission{
	PermissionCreateCorner,
	PermissionUpdateCorner,
	PermissionDeleteCorner,
	PermissionCreateTime,
	PermissionDeleteTime,
}

type Gate struct {
	eval       Evaluator
	legacyOpen bool
	denied     *prometheus.CounterVec
	l          *zap.Logger
}

type Option func(*Gate)

// WithLegacyOpenMutations skips the checks for corner and time mutations.
func WithLegacyOpenMutations(open bool) Option {
	return func(g *Gate) {
		g.legacyOpen = open
	}
}

// WithDeniedCounter counts rejected calls by permission and reason.
func WithDeniedCounter(c *prometheus.CounterVec) Option {
	return func(g *Gate) {
		g.denied = c
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) {
		g.l = l
	}
}

func NewGate(eval Evaluator, opts ...Option) *Gate {
	g := &Gate{eval: eval}
	for _, opt := range opts {
		opt(g)
	}
	g.l = logger.Or(g.l).Named("authz")
	if g.legacyOpen {
		g.l.Warn("corner and time mutations run without authorization",
			zap.Any("permissions", legacyOpen))
	}
	return g
}

// Caller returns the identity of the request or ErrAuthenticationRequired.
func (g *Gate) Caller(ctx context.Context) (identity.Identity, error) {
	id, ok := identity.FromContext(ctx)
	if !ok {
		return identity.Identity{}, ErrAuthenticationRequired
	}
	return id, nil
}

// Authorize checks that the caller owns the record. On success it returns the
// caller identity, which is empty for legacy open mutations made anonymously.
func (g *Gate) Authorize(ctx context.Context, perm Permission, ownerID string) (identity.Identity, error) {
	if g.legacyOpen && lo.Contains(legacyOpen, perm) {
		id, _ := identity.FromContext(ctx)
		return id, nil
	}

	id, ok := identity.FromContext(ctx)
	if !ok {
		g.deny(perm, "unauthenticated")
		return identity.Identity{}, ErrAuthenticationRequired
	}

	allowed, err := g.eval.Allowed(ctx, Request{Subject: id.Subject, Owner: ownerID, Action: perm})
	if err != nil {
		return identity.Identity{}, fmt.Errorf("evaluating %s: %w", perm, err)
	}
	if !allowed {
		g.deny(perm, "not-owner")
		g.l.Debug("denied",
			zap.String("permission", string(perm)),
			zap.String("subject", id.Subject),
			zap.String("owner", ownerID))
		return identity.Identity{}, ErrAuthorizationDenied
	}
	return id, nil
}

// Requires reports whether perm is checked under the current configuration.
func (g *Gate) Requires(perm Permission) bool {
	return !g.legacyOpen || !lo.Contains(legacyOpen, perm)
}

func (g *Gate) deny(perm Permission, reason string) {
	if g.denied != nil {
		g.denied.WithLabelValues(string(perm), reason).Inc()
	}
}
