package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fintrack/internal/dbx"
	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/dmitrijs2005/fintrack/internal/server/config"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/entries"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/incomes"
	"github.com/dmitrijs2005/fintrack/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopRepoMgr struct{}

func (noopRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }
func (noopRepoMgr) Users(dbx.DBTX) users.Repository             { return nil }
func (noopRepoMgr) Entries(dbx.DBTX) entries.Repository         { return nil }
func (noopRepoMgr) Incomes(dbx.DBTX) incomes.Repository         { return nil }

func TestNewApp_DBError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }

	cfg := &config.Config{}
	cfg.LoadDefaults()

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_EmptySecretFallsBackToDefault(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = ""

	app := newApp(cfg, logging.Nop{}, db, noopRepoMgr{})

	token, err := app.issuer.Issue(7, "a@x.io")
	require.NoError(t, err)

	id, err := auth.NewTokenIssuer(config.DefaultSecretKey, 0).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id.UserID)

	_, err = auth.NewTokenIssuer("", 0).Verify(token)
	require.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.HTTPAddr = "127.0.0.1:0"
	cfg.GRPCAddr = "127.0.0.1:0"

	app := newApp(cfg, logging.Nop{}, db, noopRepoMgr{})
	require.NotNil(t, app.authService)
	require.NotNil(t, app.ledgerService)
	require.NotNil(t, app.statementService)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop after context cancel")
	}
	require.NoError(t, mock.ExpectationsWereMet())
}
