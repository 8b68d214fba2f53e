// Package cli provides the interactive fintrack command-line client.
//
// It wires configuration, the gRPC client and a REPL. Commands accept their
// arguments inline ("delete 7", "add Coffee 4.50") and prompt for anything
// missing. Passwords are always read from the terminal without echo.
//
// Commands:
//   - register / login / reset / logout
//   - list, add, delete
//   - income, set-income, history
//   - balance, export
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
