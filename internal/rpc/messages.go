package rpc

import (
	"time"

	"github.com/dmitrijs2005/fintrack/internal/money"
)

type Empty struct{}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Entry struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Cost      money.Amount `json:"cost"`
	IsIncome  bool         `json:"isIncome"`
	CreatedAt time.Time    `json:"createdAt"`
}

type ListEntriesResponse struct {
	Entries []Entry `json:"entries"`
}

// AddEntryRequest mirrors the HTTP body; nil Cost means "not provided".
type AddEntryRequest struct {
	Name     string        `json:"name"`
	Cost     *money.Amount `json:"cost"`
	IsIncome *bool         `json:"isIncome,omitempty"`
}

type DeleteEntryRequest struct {
	ID int64 `json:"id"`
}

type IncomeResponse struct {
	Amount money.Amount `json:"amount"`
}

type RecordIncomeRequest struct {
	Amount *money.Amount `json:"amount"`
}

type IncomeSnapshot struct {
	ID        int64        `json:"id"`
	Amount    money.Amount `json:"amount"`
	CreatedAt time.Time    `json:"createdAt"`
}

type IncomeHistoryResponse struct {
	Snapshots []IncomeSnapshot `json:"snapshots"`
}

type BalanceResponse struct {
	TotalIncome money.Amount `json:"totalIncome"`
	TotalSpent  money.Amount `json:"totalSpent"`
	Remaining   money.Amount `json:"remaining"`
}

type StatementResponse struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}
