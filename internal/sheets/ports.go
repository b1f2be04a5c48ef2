package sheets

import (
	"context"

	"tracker/internal/core"
)

// ExpenseExporter appends a created expense to an external spreadsheet and
// returns a reference to the written row.
type ExpenseExporter interface {
	Export(ctx context.Context, e core.ExpenseRecord) (rowRef string, err error)
}

// Columns is the header the exporters write under.
var Columns = []string{"Date", "Title", "Amount", "ID"}

// Row lays an expense out in Columns order. The date is the UTC calendar
// day of CreatedAt.
func Row(e core.ExpenseRecord) []any {
	return []any{e.CreatedAt.UTC().Format("2006-01-02"), e.Title, e.Amount, e.ID}
}
