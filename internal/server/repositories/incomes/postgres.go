// Package incomes provides the PostgreSQL-backed, append-only income
// snapshot store.
package incomes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, snapshot *models.IncomeSnapshot) (*models.IncomeSnapshot, error) {
	query := `
		INSERT INTO income (user_id, amount)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, snapshot.UserID, snapshot.Amount).
		Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return snapshot, nil
}

// Latest returns the most recently created snapshot, or common.ErrorNotFound
// if the user never declared an income.
func (r *PostgresRepository) Latest(ctx context.Context, userID int64) (*models.IncomeSnapshot, error) {
	query := `
		SELECT id, user_id, amount, created_at, updated_at FROM income
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`
	s := &models.IncomeSnapshot{}
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&s.ID, &s.UserID, &s.Amount, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

// ListByUser returns the full snapshot history, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.IncomeSnapshot, error) {
	query := `
		SELECT id, user_id, amount, created_at, updated_at FROM income
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select income: %w", err)
	}
	defer rows.Close()

	result := make([]models.IncomeSnapshot, 0)
	for rows.Next() {
		var s models.IncomeSnapshot
		if err := rows.Scan(&s.ID, &s.UserID, &s.Amount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
