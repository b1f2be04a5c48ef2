// Package memory is an in-process exporter used when no spreadsheet is
// configured. Rows are kept in memory and logged.
package memory

import (
	"context"
	"fmt"
	"sync"

	"tracker/internal/core"
	applog "tracker/internal/log"
	"tracker/internal/sheets"
)

var _ sheets.ExpenseExporter = (*Exporter)(nil)

type Exporter struct {
	mu     sync.Mutex
	rows   [][]any
	logger *applog.Logger
}

func New(logger *applog.Logger) *Exporter {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Exporter{logger: logger.WithComponent(applog.ComponentSheets)}
}

func (x *Exporter) Export(ctx context.Context, e core.ExpenseRecord) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	row := sheets.Row(e)

	x.mu.Lock()
	x.rows = append(x.rows, row)
	ref := fmt.Sprintf("mem:%d", len(x.rows))
	x.mu.Unlock()

	x.logger.InfoContext(ctx, "Expense exported",
		applog.FieldExpenseID, e.ID,
		applog.FieldSheetsRef, ref,
		"row", row)
	return ref, nil
}

// Rows returns a copy of every exported row in order.
func (x *Exporter) Rows() [][]any {
	x.mu.Lock()
	defer x.mu.Unlock()
	out := make([][]any, len(x.rows))
	copy(out, x.rows)
	return out
}
