package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type command func(ctx context.Context, args []string) error

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context, args []string) error
	Login(ctx context.Context, args []string) error
	Reset(ctx context.Context, args []string) error
	List(ctx context.Context, args []string) error
	Add(ctx context.Context, args []string) error
	Delete(ctx context.Context, args []string) error
	Income(ctx context.Context, args []string) error
	SetIncome(ctx context.Context, args []string) error
	History(ctx context.Context, args []string) error
	Balance(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Logout(ctx context.Context, args []string) error
}

const (
	guestHelp = "Available commands: register [email], login [email], reset [email], exit"
	userHelp  = "Available commands: (l)ist, add [name] [amount], delete [id], income, set-income [amount], " +
		"history, balance, export, logout, exit"
)

// runREPL starts a read–eval–print loop for the fintrack CLI.
//
// It reads a line from reader, parses the first token as the command and
// passes the remaining tokens to the handler. Commands that need a session
// are refused until the user logs in. Handler errors are printed and the
// loop continues. The loop exits on EOF or when the user types "exit" or
// "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	public := map[string]command{
		"register": a.Register,
		"login":    a.Login,
		"reset":    a.Reset,
	}
	private := map[string]command{
		"l":          a.List,
		"list":       a.List,
		"add":        a.Add,
		"delete":     a.Delete,
		"income":     a.Income,
		"set-income": a.SetIncome,
		"history":    a.History,
		"balance":    a.Balance,
		"export":     a.Export,
		"logout":     a.Logout,
	}

	for {
		printlnFn(fmt.Sprintf("ft %s > ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return
		}

		if h, ok := public[cmd]; ok {
			report(h(ctx, args))
			continue
		}

		if h, ok := private[cmd]; ok {
			if !a.isLoggedIn() {
				printlnFn("Please login first")
				continue
			}
			report(h(ctx, args))
			continue
		}

		printlnFn("Unknown command:", cmd)
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err.Error())
	}
}
