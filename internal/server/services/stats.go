package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
)

// AdminStats is the aggregate counters block shown on the admin dashboard.
type AdminStats struct {
	TotalUsers      int
	TotalProjects   int
	TotalTasks      int
	PendingTasks    int
	InProgressTasks int
	CompletedTasks  int
}

type StatsService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStatsService(db *sql.DB, m repomanager.RepositoryManager) *StatsService {
	return &StatsService{db: db, repomanager: m}
}

func (s *StatsService) AdminStats(ctx context.Context) (*AdminStats, error) {
	stats := &AdminStats{}

	var err error
	if stats.TotalUsers, err = s.repomanager.Users(s.db).Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting users: %w", err)
	}
	if stats.TotalProjects, err = s.repomanager.Projects(s.db).Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting projects: %w", err)
	}

	taskRepo := s.repomanager.Tasks(s.db)
	if stats.TotalTasks, err = taskRepo.Count(ctx); err != nil {
		return nil, fmt.Errorf("error counting tasks: %w", err)
	}
	if stats.PendingTasks, err = taskRepo.CountByStatus(ctx, models.TaskStatusPending); err != nil {
		return nil, fmt.Errorf("error counting tasks: %w", err)
	}
	if stats.InProgressTasks, err = taskRepo.CountByStatus(ctx, models.TaskStatusInProgress); err != nil {
		return nil, fmt.Errorf("error counting tasks: %w", err)
	}
	if stats.CompletedTasks, err = taskRepo.CountByStatus(ctx, models.TaskStatusCompleted); err != nil {
		return nil, fmt.Errorf("error counting tasks: %w", err)
	}

	return stats, nil
}
