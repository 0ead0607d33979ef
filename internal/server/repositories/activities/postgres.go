// Package activities provides a PostgreSQL-backed repository for task
// activity lines.
package activities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/devhubhq/devhub/internal/common"
	"github.com/devhubhq/devhub/internal/dbx"
	"github.com/devhubhq/devhub/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	query := `
		INSERT INTO activities (task_id, action)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, activity.TaskID, activity.Action).
		Scan(&activity.ID, &activity.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return activity, nil
}

// List returns activities newest first, optionally filtered to one task.
func (r *PostgresRepository) List(ctx context.Context, taskID string) ([]*models.Activity, error) {
	query := `SELECT id, task_id, action, created_at FROM activities`
	args := []any{}
	if taskID != "" {
		query += ` WHERE task_id = $1`
		args = append(args, taskID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Activity
	for rows.Next() {
		a := &models.Activity{}
		if err := rows.Scan(&a.ID, &a.TaskID, &a.Action, &a.CreatedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, common.ErrorNotFound
			}
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
