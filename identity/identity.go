// Package identity carries the caller identity resolved from the request.
package identity

import (
	"context"
	"strings"
)

// UnknownUser is the display name used when the identity carries no name.
const UnknownUser = "Unknown User"

// Identity is the verified caller as reported by the identity provider.
type Identity struct {
	Subject  string `json:"subject"`
	Name     string `json:"name,omitempty"`
	Nickname string `json:"nickname,omitempty"`
}

// DisplayName returns the name, else the nickname, else UnknownUser.
func (i Identity) DisplayName() string {
	if n := strings.TrimSpace(i.Name); n != "" {
		return n
	}
	if n := strings.TrimSpace(i.Nickname); n != "" {
		return n
	}
	return UnknownUser
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying id.
func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the caller identity, if the request had one.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.Subject == "" {
		return Identity{}, false
	}
	return id, true
}

// DisplayNameFrom resolves the caller display name, falling back to UnknownUser
// for anonymous callers.
func DisplayNameFrom(ctx context.Context) string {
	id, ok := FromContext(ctx)
	if !ok {
		return UnknownUser
	}
	return id.DisplayName()
}
