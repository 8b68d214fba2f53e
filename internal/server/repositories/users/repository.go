package users

import (
	"context"

	"github.com/dmitrijs2005/fintrack/internal/server/models"
)

// Repository is the credential store: one row per registered identity.
type Repository interface {
	Create(ctx context.Context, identity *models.Identity) (*models.Identity, error)
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	UpdatePasswordHash(ctx context.Context, email, passwordHash string) error
}
