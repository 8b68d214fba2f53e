package models

import (
	"time"

	"github.com/dmitrijs2005/fintrack/internal/money"
)

// Entry is one recorded expense or income event. Entries are never edited;
// they are created and deleted by their owner only.
type Entry struct {
	ID        int64        `json:"id"`
	UserID    int64        `json:"userId"`
	Name      string       `json:"name"`
	Cost      money.Amount `json:"cost"`
	IsIncome  bool         `json:"isIncome"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
