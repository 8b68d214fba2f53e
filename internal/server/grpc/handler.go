package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/rpc"
	"github.com/dmitrijs2005/fintrack/internal/server/models"
	"github.com/dmitrijs2005/fintrack/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps the error taxonomy to gRPC codes. Errors marked
// common.ErrorInternal and unknown errors are logged and returned as a bare
// Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorInternal):
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, common.Detail(err, common.ErrorValidation))
	case errors.Is(err, common.ErrorConflict):
		return status.Error(codes.AlreadyExists, "User already exists")
	case errors.Is(err, common.ErrorAuth):
		return status.Error(codes.Unauthenticated, "Invalid credentials")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, common.Detail(err, common.ErrorNotFound))
	case errors.Is(err, common.ErrFeatureDisabled):
		return status.Error(codes.Unimplemented, common.Detail(err, common.ErrFeatureDisabled))
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// userID returns the identity stored by the interceptor.
func (s *GRPCServer) userID(ctx context.Context) (int64, error) {
	id, ok := identityFrom(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "unauthorized")
	}
	return id.UserID, nil
}

func authResponse(r *services.AuthResult) *rpc.AuthResponse {
	return &rpc.AuthResponse{Token: r.Token, User: rpc.User{ID: r.User.ID, Email: r.User.Email}}
}

func toEntry(e *models.Entry) rpc.Entry {
	return rpc.Entry{ID: e.ID, Name: e.Name, Cost: e.Cost, IsIncome: e.IsIncome, CreatedAt: e.CreatedAt}
}

func toSnapshot(s *models.IncomeSnapshot) rpc.IncomeSnapshot {
	return rpc.IncomeSnapshot{ID: s.ID, Amount: s.Amount, CreatedAt: s.CreatedAt}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.CredentialsRequest) (*rpc.AuthResponse, error) {
	result, err := s.auth.Register(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return authResponse(result), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.CredentialsRequest) (*rpc.AuthResponse, error) {
	result, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return authResponse(result), nil
}

func (s *GRPCServer) ResetPassword(ctx context.Context, req *rpc.CredentialsRequest) (*rpc.MessageResponse, error) {
	if err := s.auth.ResetPassword(ctx, req.Email, req.Password); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.MessageResponse{Message: "Password updated successfully"}, nil
}

func (s *GRPCServer) ListEntries(ctx context.Context, _ *rpc.Empty) (*rpc.ListEntriesResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.ledger.ListEntries(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &rpc.ListEntriesResponse{Entries: make([]rpc.Entry, 0, len(items))}
	for i := range items {
		resp.Entries = append(resp.Entries, toEntry(&items[i]))
	}
	return resp, nil
}

func (s *GRPCServer) AddEntry(ctx context.Context, req *rpc.AddEntryRequest) (*rpc.Entry, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	e, err := s.ledger.AddEntry(ctx, uid, services.NewEntry{Name: req.Name, Cost: req.Cost, IsIncome: req.IsIncome})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := toEntry(e)
	return &out, nil
}

func (s *GRPCServer) DeleteEntry(ctx context.Context, req *rpc.DeleteEntryRequest) (*rpc.MessageResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.ledger.DeleteEntry(ctx, uid, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.MessageResponse{Message: "Expense deleted"}, nil
}

func (s *GRPCServer) CurrentIncome(ctx context.Context, _ *rpc.Empty) (*rpc.IncomeResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	amount, err := s.ledger.CurrentIncome(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.IncomeResponse{Amount: amount}, nil
}

func (s *GRPCServer) RecordIncome(ctx context.Context, req *rpc.RecordIncomeRequest) (*rpc.IncomeSnapshot, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.ledger.RecordIncome(ctx, uid, req.Amount)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	out := toSnapshot(snap)
	return &out, nil
}

func (s *GRPCServer) IncomeHistory(ctx context.Context, _ *rpc.Empty) (*rpc.IncomeHistoryResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.ledger.IncomeHistory(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &rpc.IncomeHistoryResponse{Snapshots: make([]rpc.IncomeSnapshot, 0, len(items))}
	for i := range items {
		resp.Snapshots = append(resp.Snapshots, toSnapshot(&items[i]))
	}
	return resp, nil
}

func (s *GRPCServer) Balance(ctx context.Context, _ *rpc.Empty) (*rpc.BalanceResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	b, err := s.ledger.Balance(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.BalanceResponse{TotalIncome: b.TotalIncome, TotalSpent: b.TotalSpent, Remaining: b.Remaining}, nil
}

func (s *GRPCServer) ExportStatement(ctx context.Context, _ *rpc.Empty) (*rpc.StatementResponse, error) {
	uid, err := s.userID(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.statements.Export(ctx, uid)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.StatementResponse{Key: st.Key, URL: st.URL, ExpiresAt: st.ExpiresAt}, nil
}
