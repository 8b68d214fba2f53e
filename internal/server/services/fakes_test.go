package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/entries"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/incomes"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// memStore is an in-memory stand-in for the three tables. Ordering follows
// the SQL: newest first by created_at, then id.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	clock   time.Time
	users   map[string]*models.Identity
	entries []models.Entry
	incomes []models.IncomeSnapshot

	err error // returned by every call when set
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]*models.Identity{},
		clock: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() (int64, time.Time) {
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	return m.nextID, m.clock
}

type memUsers struct{ *memStore }

func (r memUsers) Create(_ context.Context, u *models.Identity) (*models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	if _, ok := r.users[u.Email]; ok {
		return nil, common.ErrAlreadyExists
	}
	c := *u
	c.ID, c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	r.users[c.Email] = &c
	out := c
	return &out, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r memUsers) UpdatePasswordHash(_ context.Context, email, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	u, ok := r.users[email]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memEntries struct{ *memStore }

func (r memEntries) Create(_ context.Context, e *models.Entry) (*models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	c := *e
	c.ID, c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	r.entries = append(r.entries, c)
	out := c
	return &out, nil
}

func (r memEntries) ListByUser(_ context.Context, userID int64) ([]models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []models.Entry{}
	for _, e := range r.entries {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memEntries) DeleteOwned(_ context.Context, userID, entryID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	for i, e := range r.entries {
		if e.ID == entryID && e.UserID == userID {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type memIncomes struct{ *memStore }

func (r memIncomes) Create(_ context.Context, s *models.IncomeSnapshot) (*models.IncomeSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	c := *s
	c.ID, c.CreatedAt = r.tick()
	c.UpdatedAt = c.CreatedAt
	r.incomes = append(r.incomes, c)
	out := c
	return &out, nil
}

func (r memIncomes) ListByUser(_ context.Context, userID int64) ([]models.IncomeSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := []models.IncomeSnapshot{}
	for _, s := range r.incomes {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r memIncomes) Latest(ctx context.Context, userID int64) (*models.IncomeSnapshot, error) {
	all, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, common.ErrorNotFound
	}
	return &all[0], nil
}

// fakeRepoManager hands out repositories over the same memStore no matter
// which handle (db or tx) is passed in.
type fakeRepoManager struct{ store *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return memUsers{m.store} }
func (m *fakeRepoManager) Entries(dbx.DBTX) entries.Repository         { return memEntries{m.store} }
func (m *fakeRepoManager) Incomes(dbx.DBTX) incomes.Repository         { return memIncomes{m.store} }
