package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/money"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/repomanager"
)

// snapshotTx is used for reads that must see entries and income at the same
// point in time.
var snapshotTx = &sql.TxOptions{ReadOnly: true, Isolation: sql.LevelRepeatableRead}

// NewEntry carries the caller-supplied fields of an entry. The owner never
// comes from here.
type NewEntry struct {
	Name     string
	Cost     *money.Amount
	IsIncome *bool
}

// LedgerService manages per-identity entries and income snapshots and derives
// the balance. Every operation is scoped to the identity passed in; there is
// no way to address another identity's rows.
type LedgerService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewLedgerService(db *sql.DB, m repomanager.RepositoryManager) *LedgerService {
	return &LedgerService{db: db, repomanager: m}
}

// ListEntries returns the identity's entries newest first. The slice is
// empty, not nil, when there are none.
func (s *LedgerService) ListEntries(ctx context.Context, userID int64) ([]models.Entry, error) {
	items, err := s.repomanager.Entries(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Entry{}
	}
	return items, nil
}

// AddEntry validates and stores a new entry owned by userID.
func (s *LedgerService) AddEntry(ctx context.Context, userID int64, in NewEntry) (*models.Entry, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(name) > models.MaxTextLength {
		return nil, fmt.Errorf("%w: name must be at most %d characters long", common.ErrorValidation, models.MaxTextLength)
	}
	if in.Cost == nil {
		return nil, fmt.Errorf("%w: cost is required", common.ErrorValidation)
	}
	cost, err := checkAmount("cost", *in.Cost)
	if err != nil {
		return nil, err
	}

	entry := &models.Entry{
		UserID: userID,
		Name:   name,
		Cost:   cost,
	}
	if in.IsIncome != nil {
		entry.IsIncome = *in.IsIncome
	}

	return s.repomanager.Entries(s.db).Create(ctx, entry)
}

// DeleteEntry removes the entry only if userID owns it. A missing entry and
// an entry owned by someone else are indistinguishable: both are not found.
func (s *LedgerService) DeleteEntry(ctx context.Context, userID, entryID int64) error {
	if entryID <= 0 {
		return fmt.Errorf("%w: id must be a positive integer", common.ErrorValidation)
	}

	err := s.repomanager.Entries(s.db).DeleteOwned(ctx, userID, entryID)
	if errors.Is(err, common.ErrorNotFound) {
		return fmt.Errorf("%w: entry not found", common.ErrorNotFound)
	}
	return err
}

// CurrentIncome returns the amount of the newest snapshot, or zero.
func (s *LedgerService) CurrentIncome(ctx context.Context, userID int64) (money.Amount, error) {
	return currentIncome(ctx, s.repomanager, s.db, userID)
}

// RecordIncome appends a new snapshot. Earlier snapshots are kept.
func (s *LedgerService) RecordIncome(ctx context.Context, userID int64, amount *money.Amount) (*models.IncomeSnapshot, error) {
	if amount == nil {
		return nil, fmt.Errorf("%w: amount is required", common.ErrorValidation)
	}
	a, err := checkAmount("amount", *amount)
	if err != nil {
		return nil, err
	}

	return s.repomanager.Incomes(s.db).Create(ctx, &models.IncomeSnapshot{UserID: userID, Amount: a})
}

// IncomeHistory returns every snapshot newest first.
func (s *LedgerService) IncomeHistory(ctx context.Context, userID int64) ([]models.IncomeSnapshot, error) {
	items, err := s.repomanager.Incomes(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.IncomeSnapshot{}
	}
	return items, nil
}

// Balance derives totals from the entries and current income read in one
// consistent snapshot.
func (s *LedgerService) Balance(ctx context.Context, userID int64) (models.Balance, error) {
	items, income, err := s.snapshot(ctx, userID)
	if err != nil {
		return models.Balance{}, err
	}
	return models.ComputeBalance(items, income), nil
}

// snapshot reads entries and current income inside one read-only
// repeatable-read transaction.
func (s *LedgerService) snapshot(ctx context.Context, userID int64) ([]models.Entry, money.Amount, error) {
	var (
		items  []models.Entry
		income money.Amount
	)

	err := dbx.WithTx(ctx, s.db, snapshotTx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		items, err = s.repomanager.Entries(tx).ListByUser(ctx, userID)
		if err != nil {
			return err
		}
		income, err = currentIncome(ctx, s.repomanager, tx, userID)
		return err
	})
	if err != nil {
		return nil, money.Zero, err
	}

	return items, income, nil
}

// --- helpers below ---

func currentIncome(ctx context.Context, m repomanager.RepositoryManager, db dbx.DBTX, userID int64) (money.Amount, error) {
	snap, err := m.Incomes(db).Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return money.Zero, nil
		}
		return money.Zero, err
	}
	return snap.Amount, nil
}

// checkAmount rounds a to cents and rejects negative or oversized values.
func checkAmount(field string, a money.Amount) (money.Amount, error) {
	a = money.New(a.Decimal())
	if a.IsNegative() {
		return money.Zero, fmt.Errorf("%w: %s must not be negative", common.ErrorValidation, field)
	}
	if !a.Valid() {
		return money.Zero, fmt.Errorf("%w: %s is out of range", common.ErrorValidation, field)
	}
	return a, nil
}
