package identity

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	localIssuer   = "cinelist"
	localAudience = "cinelist-api"
)

// LocalClaims are the claims carried by locally issued development tokens.
type LocalClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// LocalVerifier accepts HS256 tokens signed with a shared secret. It stands in
// for the real provider in development and tests.
type LocalVerifier struct {
	secret []byte
}

// NewLocalVerifier creates a LocalVerifier for the given secret.
func NewLocalVerifier(secret string) *LocalVerifier {
	return &LocalVerifier{secret: []byte(secret)}
}

// IssueToken creates a signed token for the given identity.
func (v *LocalVerifier) IssueToken(id Identity, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := LocalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    localIssuer,
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings{localAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: id.Email,
		Name:  id.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// Verify parses and validates a token string.
func (v *LocalVerifier) Verify(_ context.Context, tokenString string) (Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &LocalClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	}, jwt.WithIssuer(localIssuer), jwt.WithAudience(localAudience))
	if err != nil {
		return Identity{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*LocalClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	return Identity{UserID: claims.Subject, Email: claims.Email, Name: claims.Name}, nil
}
