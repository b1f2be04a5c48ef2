package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/sheets/memory"
)

type failingExporter struct{ err error }

func (f failingExporter) Export(context.Context, core.ExpenseRecord) (string, error) {
	return "", f.err
}

// fakeConsumer feeds a fixed set of messages and records handler outcomes.
type fakeConsumer struct {
	msgs    []*amqp.ExpenseCreatedMessage
	results []error
}

func (f *fakeConsumer) ConsumeExpenseCreated(ctx context.Context, handler amqp.Handler) error {
	for _, m := range f.msgs {
		f.results = append(f.results, handler(ctx, m))
	}
	<-ctx.Done()
	return ctx.Err()
}

func message(id, title string, amount float64) *amqp.ExpenseCreatedMessage {
	return &amqp.ExpenseCreatedMessage{
		ID:        id,
		Title:     title,
		Amount:    amount,
		CreatedAt: time.Date(2025, 7, 4, 18, 0, 0, 0, time.UTC),
		Timestamp: time.Now(),
	}
}

func TestHandleExpenseCreated(t *testing.T) {
	exporter := memory.New(nil)
	w := NewExportWorker(exporter, time.Second, nil)

	if err := w.HandleExpenseCreated(context.Background(), message("1", "Fireworks", 60)); err != nil {
		t.Fatalf("HandleExpenseCreated() error = %v", err)
	}
	rows := exporter.Rows()
	if len(rows) != 1 || rows[0][3] != "1" {
		t.Fatalf("unexpected rows %v", rows)
	}
	if exported, failed := w.Stats(); exported != 1 || failed != 0 {
		t.Errorf("Stats() = %d, %d", exported, failed)
	}
}

func TestHandleExpenseCreated_ExportFailure(t *testing.T) {
	boom := errors.New("quota exceeded")
	w := NewExportWorker(failingExporter{err: boom}, 0, nil)

	err := w.HandleExpenseCreated(context.Background(), message("9", "Paint", 20))
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped export error, got %v", err)
	}
	if _, failed := w.Stats(); failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
}

func TestRun(t *testing.T) {
	exporter := memory.New(nil)
	w := NewExportWorker(exporter, time.Second, nil)
	consumer := &fakeConsumer{msgs: []*amqp.ExpenseCreatedMessage{
		message("1", "Coffee", 3),
		message("2", "", 5),
		message("3", "Bagel", 2.5),
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := w.Run(ctx, consumer); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run() error = %v", err)
	}
	if len(consumer.results) != 3 || consumer.results[0] != nil || consumer.results[1] == nil || consumer.results[2] != nil {
		t.Fatalf("unexpected handler results %v", consumer.results)
	}
	if len(exporter.Rows()) != 2 {
		t.Errorf("expected 2 exported rows, got %d", len(exporter.Rows()))
	}
}
