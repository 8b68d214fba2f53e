package rest

import (
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/common"
	"github.com/dmitrijs2005/fintrack/internal/server/auth"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// TokenVerifier checks a bearer token and returns the identity it was issued for.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// Gate authorizes requests carrying "Authorization: Bearer <token>".
type Gate struct {
	verifier TokenVerifier
}

func NewGate(v TokenVerifier) *Gate {
	return &Gate{verifier: v}
}

// Authorize parses the header value and verifies the token. The scheme is
// matched case-insensitively. Every failure is common.ErrorUnauthorized.
func (g *Gate) Authorize(header string) (auth.Identity, error) {
	token, ok := auth.BearerToken(header)
	if !ok {
		return auth.Identity{}, fmt.Errorf("%w: Unauthorized", common.ErrorUnauthorized)
	}

	identity, err := g.verifier.Verify(token)
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: Invalid token", common.ErrorUnauthorized)
	}

	return identity, nil
}

// Middleware rejects unauthorized requests and stores the identity for
// handlers to read with identityFrom.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, err := g.Authorize(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// identityFrom returns the identity set by the gate. Handlers mounted behind
// the gate can rely on it being present.
func identityFrom(c echo.Context) auth.Identity {
	identity, _ := c.Get(identityKey).(auth.Identity)
	return identity
}
