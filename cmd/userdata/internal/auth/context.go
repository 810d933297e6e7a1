package auth

import (
	"context"

	"github.com/thalib/userdata/cmd/userdata/internal/constants"
)

type contextKey string

const currentUserKey contextKey = constants.ContextKeyCurrentUser

// WithUser returns a copy of ctx carrying the authenticated user.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, currentUserKey, u)
}

// UserFromContext returns the authenticated user stored by WithUser.
func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(currentUserKey).(*User)
	return u, ok && u != nil
}
