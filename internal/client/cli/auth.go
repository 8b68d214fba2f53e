package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// credentials reads the email (inline argument or prompt) and a password.
// The caller wipes the returned password.
func (a *App) credentials(args []string, passwordPrompt string) (string, []byte, error) {
	email := ""
	if len(args) > 0 {
		email = args[0]
	} else {
		var err error
		if email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
			return "", nil, err
		}
	}

	password, err := getPassword(a.out, passwordPrompt)
	if err != nil {
		return "", nil, err
	}
	return email, password, nil
}

// Register creates an account and logs in with the returned token.
func (a *App) Register(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.api.Register(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.userName = u.Email
	fmt.Fprintf(a.out, "Registered as %s (id %d)\n", u.Email, u.ID)
	return nil
}

// Login authenticates and keeps the bearer token for later commands.
func (a *App) Login(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return err
	}

	a.userName = u.Email
	fmt.Fprintf(a.out, "Logged in as %s\n", u.Email)
	return nil
}

// Reset sets a new password for an existing account. The server may have
// this disabled.
func (a *App) Reset(ctx context.Context, args []string) error {
	email, password, err := a.credentials(args, "Enter new password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msg, err := a.api.ResetPassword(ctx, email, string(password))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func (a *App) Logout(ctx context.Context, _ []string) error {
	a.api.Logout()
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// sessionExpired drops local state after the server rejected the token.
func (a *App) sessionExpired(err error) error {
	if errors.Is(err, client.ErrUnauthorized) && a.isLoggedIn() {
		a.api.Logout()
		a.userName = ""
		fmt.Fprintln(a.out, "Session expired, please login again")
	}
	return err
}
