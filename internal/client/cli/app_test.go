package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/client/client"
	"github.com/dmitrijs2005/fintrack/internal/client/config"
	"github.com/dmitrijs2005/fintrack/internal/money"
	"github.com/dmitrijs2005/fintrack/internal/rpc"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	token    string
	password string

	addedName   string
	addedCost   money.Amount
	addedIncome bool
	deletedID   int64
	recorded    money.Amount

	entries   []rpc.Entry
	statement *rpc.StatementResponse
	err       error
	closed    bool
}

func (f *fakeAPI) Register(ctx context.Context, email, password string) (*rpc.User, error) {
	f.password = password
	f.token = "t"
	return &rpc.User{ID: 1, Email: email}, f.err
}

func (f *fakeAPI) Login(ctx context.Context, email, password string) (*rpc.User, error) {
	f.password = password
	if f.err != nil {
		return nil, f.err
	}
	f.token = "t"
	return &rpc.User{ID: 1, Email: email}, nil
}

func (f *fakeAPI) ResetPassword(ctx context.Context, email, password string) (string, error) {
	f.password = password
	return "Password updated successfully", f.err
}

func (f *fakeAPI) ListEntries(ctx context.Context) ([]rpc.Entry, error) { return f.entries, f.err }

func (f *fakeAPI) AddEntry(ctx context.Context, name string, cost money.Amount, isIncome bool) (*rpc.Entry, error) {
	f.addedName, f.addedCost, f.addedIncome = name, cost, isIncome
	return &rpc.Entry{ID: 5, Name: name, Cost: cost, IsIncome: isIncome}, f.err
}

func (f *fakeAPI) DeleteEntry(ctx context.Context, id int64) error {
	f.deletedID = id
	return f.err
}

func (f *fakeAPI) CurrentIncome(ctx context.Context) (money.Amount, error) {
	return money.MustParse("8000"), f.err
}

func (f *fakeAPI) RecordIncome(ctx context.Context, amount money.Amount) (*rpc.IncomeSnapshot, error) {
	f.recorded = amount
	return &rpc.IncomeSnapshot{ID: 1, Amount: amount}, f.err
}

func (f *fakeAPI) IncomeHistory(ctx context.Context) ([]rpc.IncomeSnapshot, error) {
	return []rpc.IncomeSnapshot{{ID: 1, Amount: money.MustParse("7000")}, {ID: 2, Amount: money.MustParse("8000")}}, f.err
}

func (f *fakeAPI) Balance(ctx context.Context) (*rpc.BalanceResponse, error) {
	return &rpc.BalanceResponse{
		TotalIncome: money.MustParse("8000"),
		TotalSpent:  money.MustParse("120.50"),
		Remaining:   money.MustParse("7879.50"),
	}, f.err
}

func (f *fakeAPI) ExportStatement(ctx context.Context) (*rpc.StatementResponse, error) {
	return f.statement, f.err
}

func (f *fakeAPI) LoggedIn() bool { return f.token != "" }
func (f *fakeAPI) Logout()        { f.token = "" }
func (f *fakeAPI) Close() error   { f.closed = true; return nil }

func newTestApp(t *testing.T, input string) (*App, *fakeAPI, *bytes.Buffer) {
	t.Helper()

	oldPw := getPassword
	getPassword = func(w io.Writer, prompt string) ([]byte, error) { return []byte("pw"), nil }
	t.Cleanup(func() { getPassword = oldPw })

	api := &fakeAPI{}
	var out bytes.Buffer
	cfg := &config.Config{RequestTimeout: time.Second, DownloadDir: t.TempDir()}
	return &App{config: cfg, api: api, reader: rdr(input), out: &out}, api, &out
}

func TestLoginPromptsForEmail(t *testing.T) {
	app, api, out := newTestApp(t, "a@b.c\n")

	require.False(t, app.isLoggedIn())
	require.Equal(t, "(guest)", app.getStatus())

	require.NoError(t, app.Login(context.Background(), nil))
	require.True(t, app.isLoggedIn())
	require.Equal(t, "pw", api.password)
	require.Equal(t, "(a@b.c)", app.getStatus())
	require.Contains(t, out.String(), "Logged in as a@b.c")

	require.NoError(t, app.Logout(context.Background(), nil))
	require.False(t, app.isLoggedIn())
	require.Equal(t, "(guest)", app.getStatus())
}

func TestRegisterAndReset(t *testing.T) {
	app, _, out := newTestApp(t, "")

	require.NoError(t, app.Register(context.Background(), []string{"new@b.c"}))
	require.Contains(t, out.String(), "Registered as new@b.c (id 1)")

	require.NoError(t, app.Reset(context.Background(), []string{"new@b.c"}))
	require.Contains(t, out.String(), "Password updated successfully")
}

func TestLoginError(t *testing.T) {
	app, api, _ := newTestApp(t, "")
	api.err = fmt.Errorf("%w: Invalid credentials", client.ErrUnauthorized)

	err := app.Login(context.Background(), []string{"a@b.c"})
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.False(t, app.isLoggedIn())
}

func TestAddInlineAndPrompted(t *testing.T) {
	app, api, out := newTestApp(t, "n\nSalary\n1000.005\ny\n")
	api.token = "t"

	require.NoError(t, app.Add(context.Background(), []string{"Coffee", "4.5"}))
	require.Equal(t, "Coffee", api.addedName)
	require.Equal(t, "4.50", api.addedCost.String())
	require.False(t, api.addedIncome)
	require.Contains(t, out.String(), "Added entry 5: Coffee 4.50")

	require.NoError(t, app.Add(context.Background(), nil))
	require.Equal(t, "Salary", api.addedName)
	require.Equal(t, "1000.01", api.addedCost.String())
	require.True(t, api.addedIncome)
}

func TestAddRejectsBadAmount(t *testing.T) {
	app, api, _ := newTestApp(t, "")
	api.token = "t"

	require.Error(t, app.Add(context.Background(), []string{"Coffee", "abc"}))
	require.Empty(t, api.addedName)
}

func TestDelete(t *testing.T) {
	app, api, out := newTestApp(t, "12\n")
	api.token = "t"

	require.NoError(t, app.Delete(context.Background(), []string{"7"}))
	require.Equal(t, int64(7), api.deletedID)
	require.Contains(t, out.String(), "Expense deleted")

	require.NoError(t, app.Delete(context.Background(), nil))
	require.Equal(t, int64(12), api.deletedID)

	require.Error(t, app.Delete(context.Background(), []string{"0"}))
	require.Error(t, app.Delete(context.Background(), []string{"x"}))
}

func TestListAndSummaries(t *testing.T) {
	app, api, out := newTestApp(t, "")
	api.token = "t"

	require.NoError(t, app.List(context.Background(), nil))
	require.Contains(t, out.String(), "No entries")

	api.entries = []rpc.Entry{
		{ID: 1, Name: "Coffee", Cost: money.MustParse("4.50"), CreatedAt: time.Now()},
		{ID: 2, Name: "Bonus", Cost: money.MustParse("100"), IsIncome: true, CreatedAt: time.Now()},
	}
	out.Reset()
	require.NoError(t, app.List(context.Background(), nil))
	require.Contains(t, out.String(), "Coffee")
	require.Contains(t, out.String(), "expense")
	require.Contains(t, out.String(), "income")
	require.Contains(t, out.String(), "100.00")

	out.Reset()
	require.NoError(t, app.Income(context.Background(), nil))
	require.Contains(t, out.String(), "Current income: 8000.00")

	require.NoError(t, app.SetIncome(context.Background(), []string{"9000"}))
	require.Equal(t, "9000.00", api.recorded.String())
	require.Error(t, app.SetIncome(context.Background(), []string{"lots"}))

	out.Reset()
	require.NoError(t, app.History(context.Background(), nil))
	require.Contains(t, out.String(), "7000.00")
	require.Contains(t, out.String(), "8000.00")

	out.Reset()
	require.NoError(t, app.Balance(context.Background(), nil))
	require.Contains(t, out.String(), "7879.50")
	require.Contains(t, out.String(), "120.50")
}

func TestUnauthorizedDropsSession(t *testing.T) {
	app, api, out := newTestApp(t, "")
	api.token = "t"
	app.userName = "a@b.c"
	api.err = fmt.Errorf("%w: Invalid token", client.ErrUnauthorized)

	err := app.Balance(context.Background(), nil)
	require.ErrorIs(t, err, client.ErrUnauthorized)
	require.False(t, app.isLoggedIn())
	require.Contains(t, out.String(), "Session expired")
}

func TestExportDownloads(t *testing.T) {
	app, api, out := newTestApp(t, "")
	api.token = "t"
	api.statement = &rpc.StatementResponse{Key: "statements/1/a.csv", URL: "http://s3/a.csv", ExpiresAt: time.Now()}

	old := downloadFn
	t.Cleanup(func() { downloadFn = old })

	var gotURL, gotDir, gotName string
	downloadFn = func(ctx context.Context, url, dir, name string) (string, error) {
		gotURL, gotDir, gotName = url, dir, name
		return dir + "/a.csv", nil
	}

	require.NoError(t, app.Export(context.Background(), nil))
	require.Equal(t, "http://s3/a.csv", gotURL)
	require.Equal(t, app.config.DownloadDir, gotDir)
	require.Equal(t, "statements/1/a.csv", gotName)
	require.Contains(t, out.String(), "Statement saved to")

	downloadFn = func(ctx context.Context, url, dir, name string) (string, error) {
		return "", errors.New("download failed")
	}
	out.Reset()
	require.Error(t, app.Export(context.Background(), nil))
	require.Contains(t, out.String(), "http://s3/a.csv")
}

func TestRunClosesClient(t *testing.T) {
	app, api, _ := newTestApp(t, "exit\n")
	capturePrint(t)

	app.Run(context.Background())
	require.True(t, api.closed)
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&config.Config{ServerEndpointAddr: "127.0.0.1:1"})
	require.NoError(t, err)
	require.NotNil(t, app.api)
	require.NoError(t, app.api.Close())
}
