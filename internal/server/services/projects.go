package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devhubhq/devhub/internal/common"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/repositories/repomanager"
)

type ProjectService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewProjectService(db *sql.DB, m repomanager.RepositoryManager) *ProjectService {
	return &ProjectService{db: db, repomanager: m}
}

func (s *ProjectService) List(ctx context.Context) ([]*models.Project, error) {
	return s.repomanager.Projects(s.db).List(ctx)
}

func (s *ProjectService) Find(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.repomanager.Projects(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errors.New("Project not found")
		}
		return nil, fmt.Errorf("error searching project: %w", err)
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, name, description string) (*models.Project, error) {
	if name == "" {
		return nil, NewValidationError("Name can't be blank")
	}

	project := &models.Project{Name: name, Description: description}

	project, err := s.repomanager.Projects(s.db).Create(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("error creating project: %w", err)
	}
	return project, nil
}

// UpdateProjectParams carries optional field updates; nil means "leave as is".
type UpdateProjectParams struct {
	Name        *string
	Description *string
}

func (s *ProjectService) Update(ctx context.Context, id string, params UpdateProjectParams) (*models.Project, error) {
	project, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Name != nil {
		project.Name = *params.Name
	}
	if params.Description != nil {
		project.Description = *params.Description
	}
	if project.Name == "" {
		return nil, NewValidationError("Name can't be blank")
	}

	if err := s.repomanager.Projects(s.db).Update(ctx, project); err != nil {
		return nil, fmt.Errorf("error updating project: %w", err)
	}
	return project, nil
}

// Delete removes a project. Tasks, their activities and attachments go with
// it via foreign key cascades.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Projects(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errors.New("Project not found")
		}
		return fmt.Errorf("error deleting project: %w", err)
	}
	return nil
}
