package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

func TestIssueAndParseRoundTrip(t *testing.T) {
	m := NewJWTManager("test-signing-key", 15*time.Minute, 30*24*time.Hour)
	userID := uuid.New()

	tokens, refreshClaims, err := m.Issue("dealer", userID, "dealer@example.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if tokens.ExpiresIn != int64((15 * time.Minute).Seconds()) {
		t.Fatalf("unexpected expires_in %d", tokens.ExpiresIn)
	}

	claims, err := m.ParseAccess(tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access: %v", err)
	}
	if claims.UserID != userID.String() {
		t.Fatalf("user id mismatch: %s", claims.UserID)
	}
	if claims.UserType != "dealer" {
		t.Fatalf("role lost: %s", claims.UserType)
	}
	if claims.Email != "dealer@example.com" {
		t.Fatalf("email lost: %s", claims.Email)
	}

	parsed, err := m.ParseRefresh(tokens.RefreshToken)
	if err != nil {
		t.Fatalf("parse refresh: %v", err)
	}
	if parsed.JTI != refreshClaims.JTI {
		t.Fatal("refresh jti mismatch")
	}
	if parsed.UserID != userID.String() {
		t.Fatal("refresh user id mismatch")
	}
}

func TestParseAccessRejectsWrongKey(t *testing.T) {
	issuer := NewJWTManager("key-one", time.Minute, time.Hour)
	verifier := NewJWTManager("key-two", time.Minute, time.Hour)

	tokens, _, err := issuer.Issue("driver", uuid.New(), "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := verifier.ParseAccess(tokens.AccessToken); err == nil {
		t.Fatal("expected verification failure with a different key")
	}
}

func TestParseAccessRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-signing-key", -time.Minute, time.Hour)
	tokens, _, err := m.Issue("staff", uuid.New(), "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	_, err = m.ParseAccess(tokens.AccessToken)
	if err == nil {
		t.Fatal("expected expired token to fail")
	}
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected token-expired error, got %v", err)
	}
}
