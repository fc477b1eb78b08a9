// Package auth resolves the current user's session for the remote storage
// adapter. The UI owns sign-in and sign-out; this layer only answers "who is
// calling" from whatever credential the request carried.
package auth

import (
	"context"

	"github.com/blueprintcu/modeler-backend/errs"
)

type ctxKey string

const userIDKey ctxKey = "authUserID"

// SessionProvider resolves the authenticated user for a call. Implementations
// return errs.ErrNoSession-wrapped errors when no session exists; the remote
// adapter treats that as a hard authorization failure on every call
type SessionProvider interface {
	CurrentUser(ctx context.Context) (string, error)
}

// WithUserID returns a context carrying the resolved user ID
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// ContextProvider reads the user ID the auth middleware placed in the request
// context
type ContextProvider struct{}

// CurrentUser returns the user ID from the context, or a no-session error
func (ContextProvider) CurrentUser(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(userIDKey).(string); ok && v != "" {
		return v, nil
	}
	return "", errs.NewNoSessionError()
}

// Static always resolves the same user. Used by tests and by single-user
// local deployments
type Static struct {
	UserID string
}

// CurrentUser returns the fixed user ID, or a no-session error when empty
func (s Static) CurrentUser(_ context.Context) (string, error) {
	if s.UserID == "" {
		return "", errs.NewNoSessionError()
	}
	return s.UserID, nil
}
