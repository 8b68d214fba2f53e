package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
	err   error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.err
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context, args []string) error {
	return f.record("register", args)
}
func (f *fakeExec) Login(ctx context.Context, args []string) error {
	f.loggedIn = true
	return f.record("login", args)
}
func (f *fakeExec) Reset(ctx context.Context, args []string) error { return f.record("reset", args) }
func (f *fakeExec) List(ctx context.Context, args []string) error  { return f.record("list", args) }
func (f *fakeExec) Add(ctx context.Context, args []string) error   { return f.record("add", args) }
func (f *fakeExec) Delete(ctx context.Context, args []string) error {
	return f.record("delete", args)
}
func (f *fakeExec) Income(ctx context.Context, args []string) error {
	return f.record("income", args)
}
func (f *fakeExec) SetIncome(ctx context.Context, args []string) error {
	return f.record("set-income", args)
}
func (f *fakeExec) History(ctx context.Context, args []string) error {
	return f.record("history", args)
}
func (f *fakeExec) Balance(ctx context.Context, args []string) error {
	return f.record("balance", args)
}
func (f *fakeExec) Export(ctx context.Context, args []string) error {
	return f.record("export", args)
}
func (f *fakeExec) Logout(ctx context.Context, args []string) error {
	f.loggedIn = false
	return f.record("logout", args)
}

func capturePrint(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	origPrint := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = origPrint })
	return &lines
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"list",
		"login a@b.c",
		"help",
		"add Coffee 4.50",
		"l",
		"delete 7",
		"set-income 8000",
		"income",
		"history",
		"balance",
		"export",
		"foobar",
		"logout",
		"exit",
		"list",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	want := []string{"login", "add", "list", "delete", "set-income", "income", "history", "balance", "export", "logout"}
	if strings.Join(exec.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("calls = %v, want %v", exec.calls, want)
	}
	if got := exec.args["add"]; len(got) != 2 || got[0] != "Coffee" || got[1] != "4.50" {
		t.Fatalf("add args = %v", got)
	}
	if got := exec.args["login"]; len(got) != 1 || got[0] != "a@b.c" {
		t.Fatalf("login args = %v", got)
	}

	joined := strings.Join(*out, "\n")
	for _, s := range []string{guestHelp, userHelp, "Please login first", "Unknown command: foobar", "Bye!"} {
		if !strings.Contains(joined, s) {
			t.Fatalf("output missing %q:\n%s", s, joined)
		}
	}
}

func TestRunREPL_PrintsHandlerErrors(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("entry not found")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("delete 99\nquit\n")))

	if !strings.Contains(strings.Join(*out, "\n"), "Error: entry not found") {
		t.Fatalf("error not reported: %v", *out)
	}
}

func TestRunREPL_LastLineWithoutNewline(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("\n\nbalance")))

	if len(exec.calls) != 1 || exec.calls[0] != "balance" {
		t.Fatalf("calls = %v", exec.calls)
	}
}
