// Package grpc serves the fintrack.Ledger gRPC service. Messages use the JSON
// codec registered by package rpc.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/fintrack/internal/logging"
	"github.com/dmitrijs2005/fintrack/internal/money"
	"github.com/dmitrijs2005/fintrack/internal/rpc"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/services"
	"google.golang.org/grpc"
)

type Authenticator interface {
	Register(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
}

type Ledger interface {
	ListEntries(ctx context.Context, userID int64) ([]models.Entry, error)
	AddEntry(ctx context.Context, userID int64, in services.NewEntry) (*models.Entry, error)
	DeleteEntry(ctx context.Context, userID, entryID int64) error
	CurrentIncome(ctx context.Context, userID int64) (money.Amount, error)
	RecordIncome(ctx context.Context, userID int64, amount *money.Amount) (*models.IncomeSnapshot, error)
	IncomeHistory(ctx context.Context, userID int64) ([]models.IncomeSnapshot, error)
	Balance(ctx context.Context, userID int64) (models.Balance, error)
}

type StatementExporter interface {
	Export(ctx context.Context, userID int64) (*models.Statement, error)
}

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type GRPCServer struct {
	address    string
	auth       Authenticator
	ledger     Ledger
	statements StatementExporter
	verifier   TokenVerifier
	logger     logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as Authenticator, ls Ledger, ss StatementExporter, v TokenVerifier) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		auth:       as,
		ledger:     ls,
		statements: ss,
		verifier:   v,
	}
}

// NewServer creates a grpc.Server with the interceptor chain and the service
// registered, without binding a listener.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterLedgerServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
