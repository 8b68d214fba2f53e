package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/config"
	"github.com/dmitrijs2005/fintrack/internal/money"
	"github.com/dmitrijs2005/fintrack/internal/netx"
	"github.com/dmitrijs2005/fintrack/internal/rpc"
)

// ledgerAPI is the subset of client.GRPCClient the commands use.
type ledgerAPI interface {
	Register(ctx context.Context, email, password string) (*rpc.User, error)
	Login(ctx context.Context, email, password string) (*rpc.User, error)
	ResetPassword(ctx context.Context, email, password string) (string, error)
	ListEntries(ctx context.Context) ([]rpc.Entry, error)
	AddEntry(ctx context.Context, name string, cost money.Amount, isIncome bool) (*rpc.Entry, error)
	DeleteEntry(ctx context.Context, id int64) error
	CurrentIncome(ctx context.Context) (money.Amount, error)
	RecordIncome(ctx context.Context, amount money.Amount) (*rpc.IncomeSnapshot, error)
	IncomeHistory(ctx context.Context) ([]rpc.IncomeSnapshot, error)
	Balance(ctx context.Context) (*rpc.BalanceResponse, error)
	ExportStatement(ctx context.Context) (*rpc.StatementResponse, error)
	LoggedIn() bool
	Logout()
	Close() error
}

// downloadFn is a test seam for netx.DownloadToFile.
var downloadFn = netx.DownloadToFile

type App struct {
	config   *config.Config
	api      ledgerAPI
	userName string
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{config: c, api: apiClient, reader: bufio.NewReader(os.Stdin), out: os.Stdout}, nil
}

// Run starts the REPL and closes the connection when the user leaves.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.api.Close(); err != nil {
			log.Printf("error closing connection: %v", err)
		}
	}()

	log.Println("Welcome to fintrack CLI (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.api.LoggedIn()
}

func (a *App) getStatus() string {
	if a.userName == "" || !a.isLoggedIn() {
		return "(guest)"
	}
	return "(" + a.userName + ")"
}

// withTimeout bounds a single server call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
