// ABOUTME: Tests for the bearer-token guard middleware
// ABOUTME: Covers header extraction, unknown tokens, storage errors, and context passing

package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hearthside/emberchat/internal/store"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   string
	}{
		{"valid", "Bearer abc123", "abc123", ""},
		{"missing header", "", "", "missing authorization header"},
		{"wrong scheme", "Basic abc123", "", "invalid authorization header format"},
		{"empty token", "Bearer ", "", "empty token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, errMsg := extractBearerToken(tt.header)
			if token != tt.wantToken {
				t.Errorf("token: got %q, want %q", token, tt.wantToken)
			}
			if errMsg != tt.wantErr {
				t.Errorf("error: got %q, want %q", errMsg, tt.wantErr)
			}
		})
	}
}

func guardedRequest(t *testing.T, guard *Guard, authHeader string) (*httptest.ResponseRecorder, *string) {
	t.Helper()

	var seenToken *string
	handler := guard.Middleware(func(w http.ResponseWriter, r *http.Request) {
		token := TokenFromContext(r.Context())
		seenToken = &token
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec, seenToken
}

func TestGuard_ValidToken(t *testing.T) {
	sessions := newFakeSessions()
	sessions.sessions["good-token"] = &store.Session{Token: "good-token"}
	guard := NewGuard(sessions, nil)

	rec, seenToken := guardedRequest(t, guard, "Bearer good-token")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if seenToken == nil || *seenToken != "good-token" {
		t.Error("token was not attached to the request context")
	}
}

func TestGuard_MissingHeader(t *testing.T) {
	guard := NewGuard(newFakeSessions(), nil)

	rec, seenToken := guardedRequest(t, guard, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if seenToken != nil {
		t.Error("handler should not run without a token")
	}
}

func TestGuard_UnknownToken(t *testing.T) {
	guard := NewGuard(newFakeSessions(), nil)

	rec, _ := guardedRequest(t, guard, "Bearer no-such-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}

	var errResp map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error body: %v", err)
	}
	if errResp["error"] != "invalid token" {
		t.Errorf("unexpected error message: %q", errResp["error"])
	}
}

func TestGuard_StorageError(t *testing.T) {
	sessions := newFakeSessions()
	sessions.getErr = fmt.Errorf("connection lost")
	guard := NewGuard(sessions, nil)

	rec, _ := guardedRequest(t, guard, "Bearer any-token")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestGuard_ExpiredTokenStillAccepted(t *testing.T) {
	// Expiry is recorded but deliberately not enforced.
	sessions := newFakeSessions()
	sessions.sessions["old-token"] = &store.Session{
		Token:     "old-token",
		CreatedAt: 1000,
		ExpiresAt: 2000, // long past
	}
	guard := NewGuard(sessions, nil)

	rec, _ := guardedRequest(t, guard, "Bearer old-token")

	if rec.Code != http.StatusOK {
		t.Errorf("expired token should still be accepted, got %d", rec.Code)
	}
}
