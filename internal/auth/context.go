package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxRole
)

var ErrNoIdentity = errors.New("no identity in context")

// WithIdentity stores the authenticated identity in context.
func WithIdentity(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, ctxUserID, userID)
	ctx = context.WithValue(ctx, ctxRole, role)
	return ctx
}

// UserID returns the authenticated user id from context.
func UserID(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(ctxUserID).(string); ok && v != "" {
		return v, nil
	}
	return "", ErrNoIdentity
}

// Role returns the authenticated role from context.
func Role(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(ctxRole).(string); ok && v != "" {
		return v, nil
	}
	return "", ErrNoIdentity
}
