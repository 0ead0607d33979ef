package tasks

import (
	"context"

	"github.com/devhubhq/devhub/internal/server/models"
)

// Filter narrows List results. Zero values mean "no filter".
type Filter struct {
	ProjectID string
	Status    string
}

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	List(ctx context.Context, filter Filter) ([]*models.Task, error)
	ListByAssignee(ctx context.Context, userID string) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status string) (int, error)
}
