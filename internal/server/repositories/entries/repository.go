package entries

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, entry *models.Entry) (*models.Entry, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Entry, error)
	DeleteOwned(ctx context.Context, userID, entryID int64) error
}
