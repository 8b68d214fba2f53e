package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fintrack.Ledger"

// FullMethod returns "/fintrack.Ledger/<method>".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// publicMethods can be called without a bearer token.
var publicMethods = map[string]struct{}{
	FullMethod("Register"):      {},
	FullMethod("Login"):         {},
	FullMethod("ResetPassword"): {},
}

// IsPublic reports whether fullMethod skips authorization.
func IsPublic(fullMethod string) bool {
	_, ok := publicMethods[fullMethod]
	return ok
}

// LedgerServer is the server API for the fintrack.Ledger service.
type LedgerServer interface {
	Register(context.Context, *CredentialsRequest) (*AuthResponse, error)
	Login(context.Context, *CredentialsRequest) (*AuthResponse, error)
	ResetPassword(context.Context, *CredentialsRequest) (*MessageResponse, error)
	ListEntries(context.Context, *Empty) (*ListEntriesResponse, error)
	AddEntry(context.Context, *AddEntryRequest) (*Entry, error)
	DeleteEntry(context.Context, *DeleteEntryRequest) (*MessageResponse, error)
	CurrentIncome(context.Context, *Empty) (*IncomeResponse, error)
	RecordIncome(context.Context, *RecordIncomeRequest) (*IncomeSnapshot, error)
	IncomeHistory(context.Context, *Empty) (*IncomeHistoryResponse, error)
	Balance(context.Context, *Empty) (*BalanceResponse, error)
	ExportStatement(context.Context, *Empty) (*StatementResponse, error)
}

// ErrInvalidBody is returned for request messages the codec cannot decode.
// The decoder's own message is not passed to the caller.
var ErrInvalidBody = status.Error(codes.InvalidArgument, "invalid request body")

// unary builds a MethodDesc that runs the interceptor chain and dispatches to
// call. The request is decoded inside the innermost handler, so interceptors
// (the token check among them) run before any payload is parsed and see an
// empty Req.
func unary[Req, Resp any](method string, call func(LedgerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			handler := func(ctx context.Context, _ any) (any, error) {
				if err := dec(in); err != nil {
					return nil, ErrInvalidBody
				}
				return call(srv.(LedgerServer), ctx, in)
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// LedgerServiceDesc describes fintrack.Ledger for grpc.Server.RegisterService.
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", LedgerServer.Register),
		unary("Login", LedgerServer.Login),
		unary("ResetPassword", LedgerServer.ResetPassword),
		unary("ListEntries", LedgerServer.ListEntries),
		unary("AddEntry", LedgerServer.AddEntry),
		unary("DeleteEntry", LedgerServer.DeleteEntry),
		unary("CurrentIncome", LedgerServer.CurrentIncome),
		unary("RecordIncome", LedgerServer.RecordIncome),
		unary("IncomeHistory", LedgerServer.IncomeHistory),
		unary("Balance", LedgerServer.Balance),
		unary("ExportStatement", LedgerServer.ExportStatement),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fintrack/ledger",
}

// RegisterLedgerServer registers srv on s.
func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}
