package incomes

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// Repository stores income snapshots. There is no update: every change of
// declared income is a new row.
type Repository interface {
	Create(ctx context.Context, snapshot *models.IncomeSnapshot) (*models.IncomeSnapshot, error)
	Latest(ctx context.Context, userID int64) (*models.IncomeSnapshot, error)
	ListByUser(ctx context.Context, userID int64) ([]models.IncomeSnapshot, error)
}
