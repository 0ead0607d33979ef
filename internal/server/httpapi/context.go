package httpapi

import (
	"context"

	"github.com/devhubhq/devhub/internal/server/models"
)

type ctxKey int

const userCtxKey ctxKey = 0

// WithUser stores the authenticated user on the context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, user)
}

// UserFromContext returns the user resolved by the authentication
// middleware, or nil for anonymous requests. The middleware runs once per
// request, so repeated calls never re-verify credentials.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userCtxKey).(*models.User)
	return user
}
