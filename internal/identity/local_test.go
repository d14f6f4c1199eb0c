package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestLocalVerifierRoundTrip(t *testing.T) {
	v := NewLocalVerifier("test-secret")
	want := Identity{UserID: "firebase-uid-1", Email: "ana@example.com", Name: "Ana"}

	token, err := v.IssueToken(want, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	got, err := v.Verify(context.Background(), token)
	if err != nil {
		t.Fatalf("Verify() unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("Verify() = %+v, want %+v", got, want)
	}
}

func TestLocalVerifierRejects(t *testing.T) {
	v := NewLocalVerifier("test-secret")

	expired, err := v.IssueToken(Identity{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	otherSecret, err := NewLocalVerifier("other-secret").IssueToken(Identity{UserID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}
	noSubject, err := v.IssueToken(Identity{Email: "x@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	wrongIssuer := jwt.NewWithClaims(jwt.SigningMethodHS256, LocalClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			Subject:   "u1",
			Audience:  jwt.ClaimStrings{localAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongIssuerToken, err := wrongIssuer.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("SignedString() unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-valid-token"},
		{"empty", ""},
		{"expired", expired},
		{"wrong secret", otherSecret},
		{"missing subject", noSubject},
		{"wrong issuer", wrongIssuerToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Verify(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
