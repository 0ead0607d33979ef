package activities

import (
	"context"

	"github.com/devhubhq/devhub/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	List(ctx context.Context, taskID string) ([]*models.Activity, error)
}
