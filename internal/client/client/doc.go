// Package client wraps the fintrack.Ledger gRPC stub for the CLI.
//
// GRPCClient keeps the bearer token returned by Login/Register in memory and
// attaches it to every outgoing call through a unary interceptor. gRPC status
// codes are mapped to sentinel errors so callers can match them with
// errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotLoggedIn.
package client
