package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/money"
	"github.com/dmitrijs2005/fintrack/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      *rpc.LedgerClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AuthorizationHeaderName)
	md.Set(common.AuthorizationHeaderName, common.BearerScheme+" "+token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" && !rpc.IsPublic(method) {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient creates a lazily connected client for endpointURL. Extra dial
// options are appended after the defaults.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(rpc.CodecName)),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewLedgerClient(conn)
	return c, nil
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(t string) {
	s.mu.Lock()
	s.accessToken = t
	s.mu.Unlock()
}

// LoggedIn reports whether a bearer token is held.
func (s *GRPCClient) LoggedIn() bool { return s.token() != "" }

// Logout forgets the token. Tokens are stateless, so the server is not called.
func (s *GRPCClient) Logout() { s.setToken("") }

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (*rpc.User, error) {
	resp, err := s.client.Register(ctx, &rpc.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setToken(resp.Token)
	return &resp.User, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*rpc.User, error) {
	resp, err := s.client.Login(ctx, &rpc.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	s.setToken(resp.Token)
	return &resp.User, nil
}

func (s *GRPCClient) ResetPassword(ctx context.Context, email, password string) (string, error) {
	resp, err := s.client.ResetPassword(ctx, &rpc.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.Message, nil
}

func (s *GRPCClient) ListEntries(ctx context.Context) ([]rpc.Entry, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.ListEntries(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Entries, nil
}

func (s *GRPCClient) AddEntry(ctx context.Context, name string, cost money.Amount, isIncome bool) (*rpc.Entry, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.AddEntry(ctx, &rpc.AddEntryRequest{Name: name, Cost: &cost, IsIncome: &isIncome})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) DeleteEntry(ctx context.Context, id int64) error {
	if !s.LoggedIn() {
		return ErrNotLoggedIn
	}
	if _, err := s.client.DeleteEntry(ctx, &rpc.DeleteEntryRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) CurrentIncome(ctx context.Context) (money.Amount, error) {
	if !s.LoggedIn() {
		return money.Amount{}, ErrNotLoggedIn
	}
	resp, err := s.client.CurrentIncome(ctx, &rpc.Empty{})
	if err != nil {
		return money.Amount{}, s.mapError(err)
	}
	return resp.Amount, nil
}

func (s *GRPCClient) RecordIncome(ctx context.Context, amount money.Amount) (*rpc.IncomeSnapshot, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.RecordIncome(ctx, &rpc.RecordIncomeRequest{Amount: &amount})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) IncomeHistory(ctx context.Context) ([]rpc.IncomeSnapshot, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.IncomeHistory(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Snapshots, nil
}

func (s *GRPCClient) Balance(ctx context.Context) (*rpc.BalanceResponse, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.Balance(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ExportStatement(ctx context.Context) (*rpc.StatementResponse, error) {
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}
	resp, err := s.client.ExportStatement(ctx, &rpc.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

// mapError converts transport failures into sentinels. Any other status is
// returned with its server message so the CLI can print it as is.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return errors.New(st.Message())
	}
}
