package models

import (
	"time"

	"github.com/dmitrijs2005/fintrack/internal/money"
)

// IncomeSnapshot is one point-in-time declaration of baseline income.
// Snapshots are append-only: the newest one is the current income.
type IncomeSnapshot struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	Amount    money.Amount `json:"amount"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
