package core

import "github.com/shopspring/decimal"

// Totals are the derived figures of a ledger.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Summary adds the income/expense split used by the chart. Shares are whole
// percentages; both are zero for an empty ledger.
type Summary struct {
	Totals
	IncomeShare  int
	ExpenseShare int
	Count        int
}

// ComputeTotals sums amounts by type. Balance is income minus expenses.
func ComputeTotals(txs []Transaction) Totals {
	t := Totals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		switch tx.Type {
		case Income:
			t.Income = t.Income.Add(tx.Amount)
		case Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		}
	}
	t.Balance = t.Income.Sub(t.Expense)
	return t
}

func Summarize(txs []Transaction) Summary {
	s := Summary{Totals: ComputeTotals(txs), Count: len(txs)}
	total := s.Income.Add(s.Expense)
	if total.IsZero() {
		return s
	}
	s.IncomeShare = int(s.Income.Mul(decimal.NewFromInt(100)).Div(total).Round(0).IntPart())
	s.ExpenseShare = 100 - s.IncomeShare
	return s
}
