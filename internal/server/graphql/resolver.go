package graphql

import (
	"context"
	"time"

	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/services"
)

// The resolver depends on narrow slices of the service layer so tests can
// substitute fakes per concern.

type UserOps interface {
	List(ctx context.Context) ([]*models.User, error)
	Find(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, name, email, password string, admin bool) (*models.User, error)
	Update(ctx context.Context, id string, params services.UpdateUserParams) (*models.User, error)
	Delete(ctx context.Context, id, actorID string) error
	Promote(ctx context.Context, id string) (*models.User, error)
	Demote(ctx context.Context, id, actorID string) (*models.User, error)
}

type ProjectOps interface {
	List(ctx context.Context) ([]*models.Project, error)
	Find(ctx context.Context, id string) (*models.Project, error)
	Create(ctx context.Context, name, description string) (*models.Project, error)
	Update(ctx context.Context, id string, params services.UpdateProjectParams) (*models.Project, error)
	Delete(ctx context.Context, id string) error
}

type TaskOps interface {
	List(ctx context.Context, projectID, status string) ([]*models.Task, error)
	Find(ctx context.Context, id string) (*models.Task, error)
	Create(ctx context.Context, params services.CreateTaskParams) (*models.Task, error)
	Update(ctx context.Context, id string, params services.UpdateTaskParams) (*models.Task, error)
	AssignToUser(ctx context.Context, id string, userID *string) (*models.Task, error)
	Delete(ctx context.Context, id string) error
	ListByAssignee(ctx context.Context, userID string) ([]*models.Task, error)
}

type ActivityOps interface {
	List(ctx context.Context, taskID string) ([]*models.Activity, error)
}

type StatsOps interface {
	AdminStats(ctx context.Context) (*services.AdminStats, error)
}

type AttachmentOps interface {
	CreateUpload(ctx context.Context, taskID, fileName string) (*models.Attachment, string, error)
	ConfirmUpload(ctx context.Context, id string) (*models.Attachment, error)
	DownloadURL(ctx context.Context, id string) (string, error)
	ListByTask(ctx context.Context, taskID string) ([]*models.Attachment, error)
}

// Resolver bundles the services the schema resolves against.
type Resolver struct {
	Users       UserOps
	Projects    ProjectOps
	Tasks       TaskOps
	Activities  ActivityOps
	Stats       StatsOps
	Attachments AttachmentOps
}

func optString(args map[string]any, key string) *string {
	if v, ok := args[key].(string); ok {
		return &v
	}
	return nil
}

func optBool(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func optTime(args map[string]any, key string) *time.Time {
	if v, ok := args[key].(time.Time); ok {
		return &v
	}
	return nil
}
