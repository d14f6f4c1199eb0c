package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	firebaseIssuerPrefix = "https://securetoken.google.com/"
	firebaseJWKSURL      = "https://www.googleapis.com/service_accounts/v1/jwk/securetoken@system.gserviceaccount.com"
)

var ErrMissingProjectID = errors.New("service account credentials have no project_id")

// FirebaseVerifier validates Firebase Authentication ID tokens. They are
// OIDC ID tokens whose issuer and audience are derived from the project id.
type FirebaseVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewFirebaseVerifier creates a verifier that fetches signing keys from
// Google on demand.
func NewFirebaseVerifier(ctx context.Context, projectID string) *FirebaseVerifier {
	return newFirebaseVerifier(projectID, oidc.NewRemoteKeySet(ctx, firebaseJWKSURL), time.Now)
}

func newFirebaseVerifier(projectID string, keys oidc.KeySet, now func() time.Time) *FirebaseVerifier {
	cfg := &oidc.Config{
		ClientID: projectID,
		Now:      now,
	}
	return &FirebaseVerifier{verifier: oidc.NewVerifier(firebaseIssuerPrefix+projectID, keys, cfg)}
}

// Verify checks signature, issuer, audience and expiry of an ID token.
func (v *FirebaseVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	idToken, err := v.verifier.Verify(ctx, token)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if idToken.Subject == "" {
		return Identity{}, ErrInvalidToken
	}

	var claims struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return Identity{UserID: idToken.Subject, Email: claims.Email, Name: claims.Name}, nil
}

// LoadProjectID reads the project id from a service account JSON file.
func LoadProjectID(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading service account credentials: %w", err)
	}

	var creds struct {
		ProjectID string `json:"project_id"`
	}
	if err := json.Unmarshal(data, &creds); err != nil {
		return "", fmt.Errorf("parsing service account credentials: %w", err)
	}
	if creds.ProjectID == "" {
		return "", ErrMissingProjectID
	}

	return creds.ProjectID, nil
}
