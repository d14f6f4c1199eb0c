// Package identity verifies bearer credentials issued by an identity provider
// and turns them into a stable user identity.
package identity

import (
	"context"
	"errors"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is what a verified credential says about its holder.
type Identity struct {
	UserID string
	Email  string
	Name   string
}

// Verifier checks a raw bearer token.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
