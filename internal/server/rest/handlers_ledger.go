package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/fintrack/internal/money"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/services"
	"github.com/labstack/echo/v4"
)

// Ledger is the subset of services.LedgerService used by the HTTP layer.
type Ledger interface {
	ListEntries(ctx context.Context, userID int64) ([]models.Entry, error)
	AddEntry(ctx context.Context, userID int64, in services.NewEntry) (*models.Entry, error)
	DeleteEntry(ctx context.Context, userID, entryID int64) error
	CurrentIncome(ctx context.Context, userID int64) (money.Amount, error)
	RecordIncome(ctx context.Context, userID int64, amount *money.Amount) (*models.IncomeSnapshot, error)
	IncomeHistory(ctx context.Context, userID int64) ([]models.IncomeSnapshot, error)
	Balance(ctx context.Context, userID int64) (models.Balance, error)
}

// StatementExporter is implemented by services.StatementService.
type StatementExporter interface {
	Export(ctx context.Context, userID int64) (*models.Statement, error)
}

type addEntryRequest struct {
	Name     string        `json:"name" validate:"required,max=255"`
	Cost     *money.Amount `json:"cost" validate:"required"`
	IsIncome *bool         `json:"isIncome"`
}

type deleteEntryRequest struct {
	ID int64 `json:"id" param:"id" validate:"required"`
}

type incomeRequest struct {
	Amount *money.Amount `json:"amount" validate:"required"`
}

type incomeResponse struct {
	Amount money.Amount `json:"amount"`
}

func (h *handlers) listEntries(c echo.Context) error {
	items, err := h.ledger.ListEntries(c.Request().Context(), identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *handlers) addEntry(c echo.Context) error {
	var req addEntryRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	entry, err := h.ledger.AddEntry(c.Request().Context(), identityFrom(c).UserID, services.NewEntry{
		Name:     req.Name,
		Cost:     req.Cost,
		IsIncome: req.IsIncome,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entry)
}

func (h *handlers) deleteEntry(c echo.Context) error {
	var req deleteEntryRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	if err := h.ledger.DeleteEntry(c.Request().Context(), identityFrom(c).UserID, req.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Expense deleted"})
}

func (h *handlers) currentIncome(c echo.Context) error {
	amount, err := h.ledger.CurrentIncome(c.Request().Context(), identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, incomeResponse{Amount: amount})
}

func (h *handlers) recordIncome(c echo.Context) error {
	var req incomeRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	snap, err := h.ledger.RecordIncome(c.Request().Context(), identityFrom(c).UserID, req.Amount)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, snap)
}

func (h *handlers) incomeHistory(c echo.Context) error {
	items, err := h.ledger.IncomeHistory(c.Request().Context(), identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

func (h *handlers) balance(c echo.Context) error {
	b, err := h.ledger.Balance(c.Request().Context(), identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

func (h *handlers) exportStatement(c echo.Context) error {
	st, err := h.statements.Export(c.Request().Context(), identityFrom(c).UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, st)
}
