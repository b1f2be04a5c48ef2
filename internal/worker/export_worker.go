package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"tracker/internal/amqp"
	applog "tracker/internal/log"
	"tracker/internal/sheets"
)

const defaultExportTimeout = 30 * time.Second

// Consumer is the queue side of amqp.Client.
type Consumer interface {
	ConsumeExpenseCreated(ctx context.Context, handler amqp.Handler) error
}

// ExportWorker mirrors created expenses into a spreadsheet.
type ExportWorker struct {
	exporter sheets.ExpenseExporter
	timeout  time.Duration
	logger   *applog.Logger

	exported atomic.Int64
	failed   atomic.Int64
}

func NewExportWorker(exporter sheets.ExpenseExporter, timeout time.Duration, logger *applog.Logger) *ExportWorker {
	if logger == nil {
		logger = applog.Discard()
	}
	if timeout <= 0 {
		timeout = defaultExportTimeout
	}
	return &ExportWorker{
		exporter: exporter,
		timeout:  timeout,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleExpenseCreated exports one message. A returned error makes the
// consumer requeue the message.
func (w *ExportWorker) HandleExpenseCreated(ctx context.Context, msg *amqp.ExpenseCreatedMessage) error {
	expense := msg.Expense()

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	ref, err := w.exporter.Export(ctx, expense)
	if err != nil {
		w.failed.Add(1)
		w.logger.ErrorContext(ctx, "Failed to export expense",
			applog.FieldOperation, applog.OpExport,
			applog.FieldExpenseID, expense.ID,
			applog.FieldError, err)
		return fmt.Errorf("export expense %s: %w", expense.ID, err)
	}

	w.exported.Add(1)
	w.logger.InfoContext(ctx, "Expense exported",
		applog.FieldOperation, applog.OpExport,
		applog.FieldExpenseID, expense.ID,
		applog.FieldSheetsRef, ref,
		applog.FieldDuration, time.Since(start).Milliseconds(),
		"queued_for", time.Since(msg.Timestamp).String())
	return nil
}

// Run consumes until ctx is cancelled. Cancellation is a clean stop.
func (w *ExportWorker) Run(ctx context.Context, consumer Consumer) error {
	w.logger.Info("Export worker started")
	err := consumer.ConsumeExpenseCreated(ctx, w.HandleExpenseCreated)
	exported, failed := w.Stats()
	w.logger.Info("Export worker stopped", "exported", exported, "failed", failed)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Stats reports how many messages were exported and how many failed.
func (w *ExportWorker) Stats() (exported, failed int64) {
	return w.exported.Load(), w.failed.Load()
}
