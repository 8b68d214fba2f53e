package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/fintrack/internal/money"
)

const timeLayout = "2006-01-02 15:04"

func (a *App) List(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	items, err := a.api.ListEntries(ctx)
	if err != nil {
		return a.sessionExpired(err)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No entries")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tNAME\tKIND\tAMOUNT")
	for _, e := range items {
		kind := "expense"
		if e.IsIncome {
			kind = "income"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.CreatedAt.Local().Format(timeLayout), e.Name, kind, e.Cost)
	}
	return tw.Flush()
}

// Add records an entry: add [name] [amount]. Multi-word names go through
// the prompt.
func (a *App) Add(ctx context.Context, args []string) error {
	var name, rawAmount string
	var err error

	if len(args) > 0 {
		name = args[0]
	} else if name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if len(args) > 1 {
		rawAmount = args[1]
	} else if rawAmount, err = getSimpleText(a.reader, "Enter amount", a.out); err != nil {
		return err
	}

	amount, err := money.Parse(rawAmount)
	if err != nil {
		return err
	}

	isIncome, err := GetYesNo(a.reader, "Is this income?", a.out)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	e, err := a.api.AddEntry(ctx, name, amount, isIncome)
	if err != nil {
		return a.sessionExpired(err)
	}
	fmt.Fprintf(a.out, "Added entry %d: %s %s\n", e.ID, e.Name, e.Cost)
	return nil
}

// Delete removes an entry by id: delete [id].
func (a *App) Delete(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		if raw, err = getSimpleText(a.reader, "Enter entry id", a.out); err != nil {
			return err
		}
	}

	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid id %q", raw)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.api.DeleteEntry(ctx, id); err != nil {
		return a.sessionExpired(err)
	}
	fmt.Fprintln(a.out, "Expense deleted")
	return nil
}

func (a *App) Income(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	amount, err := a.api.CurrentIncome(ctx)
	if err != nil {
		return a.sessionExpired(err)
	}
	fmt.Fprintf(a.out, "Current income: %s\n", amount)
	return nil
}

// SetIncome records a new income snapshot: set-income [amount].
func (a *App) SetIncome(ctx context.Context, args []string) error {
	raw := ""
	if len(args) > 0 {
		raw = args[0]
	} else {
		var err error
		if raw, err = getSimpleText(a.reader, "Enter income amount", a.out); err != nil {
			return err
		}
	}

	amount, err := money.Parse(raw)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	snap, err := a.api.RecordIncome(ctx, amount)
	if err != nil {
		return a.sessionExpired(err)
	}
	fmt.Fprintf(a.out, "Income set to %s\n", snap.Amount)
	return nil
}

func (a *App) History(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	snaps, err := a.api.IncomeHistory(ctx)
	if err != nil {
		return a.sessionExpired(err)
	}
	if len(snaps) == 0 {
		fmt.Fprintln(a.out, "No income recorded")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tAMOUNT")
	for _, s := range snaps {
		fmt.Fprintf(tw, "%s\t%s\n", s.CreatedAt.Local().Format(timeLayout), s.Amount)
	}
	return tw.Flush()
}

func (a *App) Balance(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	b, err := a.api.Balance(ctx)
	if err != nil {
		return a.sessionExpired(err)
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "Total income\t%s\t\n", b.TotalIncome)
	fmt.Fprintf(tw, "Total spent\t%s\t\n", b.TotalSpent)
	fmt.Fprintf(tw, "Remaining\t%s\t\n", b.Remaining)
	return tw.Flush()
}

// Export asks the server for a CSV statement and downloads it into the
// configured directory.
func (a *App) Export(ctx context.Context, _ []string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	st, err := a.api.ExportStatement(ctx)
	if err != nil {
		return a.sessionExpired(err)
	}

	dir := "."
	if a.config != nil && a.config.DownloadDir != "" {
		dir = a.config.DownloadDir
	}

	path, err := downloadFn(ctx, st.URL, dir, st.Key)
	if err != nil {
		fmt.Fprintf(a.out, "Statement stored as %s, link valid until %s:\n%s\n",
			st.Key, st.ExpiresAt.Local().Format(time.RFC3339), st.URL)
		return err
	}
	fmt.Fprintf(a.out, "Statement saved to %s\n", path)
	return nil
}
