package repomanager

import (
	"context"
	"database/sql"

	"github.com/devhubhq/devhub/internal/dbx"
	"github.com/devhubhq/devhub/internal/server/repositories/activities"
	"github.com/devhubhq/devhub/internal/server/repositories/attachments"
	"github.com/devhubhq/devhub/internal/server/repositories/projects"
	"github.com/devhubhq/devhub/internal/server/repositories/tasks"
	"github.com/devhubhq/devhub/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Projects(db dbx.DBTX) projects.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Activities(db dbx.DBTX) activities.Repository
	Attachments(db dbx.DBTX) attachments.Repository
}
