package services

import (
	"context"
	"strings"
)

// Identity is the authenticated caller as seen by the services
type Identity struct {
	UserID   uint
	Username string
	Email    string
	IsActive bool
}

// AuthProvider resolves a bearer token to an identity
type AuthProvider interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
}

// AccessPolicy decides who may trigger paid provider calls. An empty
// allowlist admits every active user.
type AccessPolicy struct {
	allowed map[string]struct{}
}

func NewAccessPolicy(allowedUsers []string) *AccessPolicy {
	allowed := make(map[string]struct{}, len(allowedUsers))
	for _, u := range allowedUsers {
		if u = strings.ToLower(strings.TrimSpace(u)); u != "" {
			allowed[u] = struct{}{}
		}
	}
	return &AccessPolicy{allowed: allowed}
}

// IsFetchAllowed matches the username or email against the allowlist,
// case-insensitively
func (p *AccessPolicy) IsFetchAllowed(id *Identity) bool {
	if id == nil || !id.IsActive {
		return false
	}
	if len(p.allowed) == 0 {
		return true
	}
	for _, key := range []string{id.Username, id.Email} {
		if _, ok := p.allowed[strings.ToLower(key)]; ok && key != "" {
			return true
		}
	}
	return false
}
