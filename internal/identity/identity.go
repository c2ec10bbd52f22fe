// Package identity talks to external identity providers.
package identity

import (
	"context"
	"errors"
)

var (
	ErrNotConfigured  = errors.New("identity provider is not configured")
	ErrExchangeFailed = errors.New("identity provider code exchange failed")
	ErrProfileFailed  = errors.New("identity provider profile lookup failed")
)

// ExternalIdentity is a verified assertion returned by a provider.
type ExternalIdentity struct {
	Provider      string
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

type Provider interface {
	Name() string
	AuthCodeURL(state string) string
	Resolve(ctx context.Context, code string) (ExternalIdentity, error)
}
