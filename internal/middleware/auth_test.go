package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cinelist/cinelist-go/internal/identity"
	"github.com/cinelist/cinelist-go/internal/model"
)

type stubResolver struct {
	err   error
	calls int
}

func (s *stubResolver) Resolve(ctx context.Context, id identity.Identity) (*model.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &model.User{ID: id.UserID, Email: id.Email}, nil
}

func protectedHandler(t *testing.T, reached *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*reached = true
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			t.Error("user id missing from context")
		}
		w.Write([]byte(id))
	})
}

func TestAuthenticate(t *testing.T) {
	verifier := identity.NewLocalVerifier("test-secret")
	valid, err := verifier.IssueToken(identity.Identity{UserID: "uid-1", Email: "a@example.com"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	expired, err := verifier.IssueToken(identity.Identity{UserID: "uid-1"}, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	foreign, err := identity.NewLocalVerifier("other-secret").IssueToken(identity.Identity{UserID: "uid-1"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer " + valid, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"expired token", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong signature", "Bearer " + foreign, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &stubResolver{}
			reached := false
			h := Authenticate(verifier, resolver)(protectedHandler(t, &reached))

			req := httptest.NewRequest(http.MethodGet, "/api/movies/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK {
				if rec.Body.String() != "uid-1" {
					t.Errorf("body = %q, want uid-1", rec.Body.String())
				}
				return
			}

			if reached {
				t.Error("handler ran for unauthenticated request")
			}
			if resolver.calls != 0 {
				t.Error("user resolved for unauthenticated request")
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body["code"] != "unauthorized" || body["error"] != unauthorizedMessage {
				t.Errorf("body = %v", body)
			}
		})
	}
}

func TestAuthenticate_ResolverFailure(t *testing.T) {
	verifier := identity.NewLocalVerifier("test-secret")
	token, err := verifier.IssueToken(identity.Identity{UserID: "uid-1"}, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	reached := false
	h := Authenticate(verifier, &stubResolver{err: errors.New("db down")})(protectedHandler(t, &reached))

	req := httptest.NewRequest(http.MethodGet, "/api/me/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if reached {
		t.Error("handler ran without a resolved user")
	}
}

func TestUserIDFromContext(t *testing.T) {
	if _, ok := UserIDFromContext(context.Background()); ok {
		t.Error("empty context should carry no user")
	}
	if _, ok := UserIDFromContext(WithUserID(context.Background(), "")); ok {
		t.Error("empty user id should not count")
	}
	id, ok := UserIDFromContext(WithUserID(context.Background(), "uid"))
	if !ok || id != "uid" {
		t.Errorf("UserIDFromContext() = %q, %v", id, ok)
	}
}
