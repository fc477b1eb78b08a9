package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blueprintcu/modeler-backend/errs"
)

const testSecret = "unit-test-secret"

func signedToken(t *testing.T, subject string, expiresAt time.Time, secret string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("signing test token: %v", err)
	}
	return token
}

func TestTokenVerifier(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)

	t.Run("valid token", func(t *testing.T) {
		token := signedToken(t, "user-42", time.Now().Add(time.Hour), testSecret)
		userID, err := verifier.UserID(token)
		if err != nil {
			t.Fatalf("UserID: %v", err)
		}
		if userID != "user-42" {
			t.Errorf("userID = %q, want user-42", userID)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := signedToken(t, "user-42", time.Now().Add(-time.Hour), testSecret)
		_, err := verifier.UserID(token)
		if !errors.Is(err, errs.ErrExpiredToken) {
			t.Errorf("expected expired-token error, got %v", err)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := signedToken(t, "user-42", time.Now().Add(time.Hour), "some-other-secret")
		_, err := verifier.UserID(token)
		if !errors.Is(err, errs.ErrInvalidToken) {
			t.Errorf("expected invalid-token error, got %v", err)
		}
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := verifier.UserID("")
		if !errors.Is(err, errs.ErrMissingToken) {
			t.Errorf("expected missing-token error, got %v", err)
		}
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		if err != nil {
			t.Fatal(err)
		}
		if _, err := verifier.UserID(token); !errors.Is(err, errs.ErrInvalidToken) {
			t.Errorf("expected invalid-token error for empty subject, got %v", err)
		}
	})
}

func TestSessionProviders(t *testing.T) {
	t.Run("context provider", func(t *testing.T) {
		ctx := WithUserID(context.Background(), "user-7")
		userID, err := ContextProvider{}.CurrentUser(ctx)
		if err != nil || userID != "user-7" {
			t.Errorf("CurrentUser = (%q, %v), want user-7", userID, err)
		}

		if _, err := (ContextProvider{}).CurrentUser(context.Background()); !errs.IsNoSession(err) {
			t.Errorf("bare context should yield a no-session error, got %v", err)
		}
	})

	t.Run("static provider", func(t *testing.T) {
		userID, err := Static{UserID: "user-9"}.CurrentUser(context.Background())
		if err != nil || userID != "user-9" {
			t.Errorf("CurrentUser = (%q, %v), want user-9", userID, err)
		}
		if _, err := (Static{}).CurrentUser(context.Background()); !errs.IsNoSession(err) {
			t.Errorf("empty static provider should yield a no-session error, got %v", err)
		}
	})
}
