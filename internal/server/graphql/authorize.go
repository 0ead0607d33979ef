package graphql

import (
	"context"
	"errors"

	"github.com/devhubhq/devhub/internal/server/httpapi"
	"github.com/devhubhq/devhub/internal/server/models"
)

// RequireAuthenticated returns the current user or rejects the field.
func RequireAuthenticated(ctx context.Context) (*models.User, error) {
	user := httpapi.UserFromContext(ctx)
	if user == nil {
		return nil, errors.New("Authentication required")
	}
	return user, nil
}

// RequireAdmin returns the current user if they are an administrator. The
// error is identical for anonymous and non-admin callers, so a response
// never reveals whether a session existed.
func RequireAdmin(ctx context.Context) (*models.User, error) {
	user := httpapi.UserFromContext(ctx)
	if user == nil || !user.Admin {
		return nil, errors.New("Admin access required")
	}
	return user, nil
}
