package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// LedgerClient is the client stub for fintrack.Ledger. Calls are sent with
// the JSON content-subtype.
type LedgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) *LedgerClient {
	return &LedgerClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *LedgerClient) Register(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Register", in, opts)
}

func (c *LedgerClient) Login(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Login", in, opts)
}

func (c *LedgerClient) ResetPassword(ctx context.Context, in *CredentialsRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "ResetPassword", in, opts)
}

func (c *LedgerClient) ListEntries(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListEntriesResponse, error) {
	return invoke[ListEntriesResponse](ctx, c.cc, "ListEntries", in, opts)
}

func (c *LedgerClient) AddEntry(ctx context.Context, in *AddEntryRequest, opts ...grpc.CallOption) (*Entry, error) {
	return invoke[Entry](ctx, c.cc, "AddEntry", in, opts)
}

func (c *LedgerClient) DeleteEntry(ctx context.Context, in *DeleteEntryRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, "DeleteEntry", in, opts)
}

func (c *LedgerClient) CurrentIncome(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*IncomeResponse, error) {
	return invoke[IncomeResponse](ctx, c.cc, "CurrentIncome", in, opts)
}

func (c *LedgerClient) RecordIncome(ctx context.Context, in *RecordIncomeRequest, opts ...grpc.CallOption) (*IncomeSnapshot, error) {
	return invoke[IncomeSnapshot](ctx, c.cc, "RecordIncome", in, opts)
}

func (c *LedgerClient) IncomeHistory(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*IncomeHistoryResponse, error) {
	return invoke[IncomeHistoryResponse](ctx, c.cc, "IncomeHistory", in, opts)
}

func (c *LedgerClient) Balance(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, "Balance", in, opts)
}

func (c *LedgerClient) ExportStatement(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StatementResponse, error) {
	return invoke[StatementResponse](ctx, c.cc, "ExportStatement", in, opts)
}
