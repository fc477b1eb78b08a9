package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/blueprintcu/modeler-backend/errs"
)

// TokenVerifier validates HS256 bearer tokens and extracts the subject claim
// as the user ID
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier over a shared HMAC secret
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// UserID parses and validates a bearer token, returning the subject claim
func (v *TokenVerifier) UserID(tokenString string) (string, error) {
	if tokenString == "" {
		return "", &wrappedAuthErr{errs.ErrMissingToken}
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", &wrappedAuthErr{errs.ErrExpiredToken}
		}
		return "", &wrappedAuthErr{errs.ErrInvalidToken}
	}

	subject, err := token.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", &wrappedAuthErr{errs.ErrInvalidToken}
	}
	return subject, nil
}

type wrappedAuthErr struct {
	sentinel error
}

func (e *wrappedAuthErr) Error() string { return e.sentinel.Error() }
func (e *wrappedAuthErr) Unwrap() error { return e.sentinel }
