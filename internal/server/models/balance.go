package models

import "github.com/dmitrijs2005/fintrack/internal/money"

// Balance is derived on every read from the entry set and the current income.
type Balance struct {
	TotalIncome money.Amount `json:"totalIncome"`
	TotalSpent  money.Amount `json:"totalSpent"`
	Remaining   money.Amount `json:"remaining"`
}

// ComputeBalance sums expenses and income entries on top of the declared
// baseline income.
func ComputeBalance(entries []Entry, currentIncome money.Amount) Balance {
	spent := money.Zero
	income := currentIncome
	for _, e := range entries {
		if e.IsIncome {
			income = income.Add(e.Cost)
		} else {
			spent = spent.Add(e.Cost)
		}
	}
	return Balance{TotalIncome: income, TotalSpent: spent, Remaining: income.Sub(spent)}
}
