package services

import (
	"context"
	"database/sql"

	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
)

type ActivityService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewActivityService(db *sql.DB, m repomanager.RepositoryManager) *ActivityService {
	return &ActivityService{db: db, repomanager: m}
}

// List returns activity lines newest first; taskID narrows to one task,
// empty returns everything.
func (s *ActivityService) List(ctx context.Context, taskID string) ([]*models.Activity, error) {
	return s.repomanager.Activities(s.db).List(ctx, taskID)
}
