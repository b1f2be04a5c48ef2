package cli

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"tracker/internal/ledger"
	"tracker/internal/storage/memory"
)

type brokenStorage struct{ *memory.Store }

func (brokenStorage) Put(context.Context, string, string) error {
	return errors.New("read-only filesystem")
}

func newApp(t *testing.T, color bool) (*LedgerApp, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	store := ledger.Open(context.Background(), memory.New(), ledger.Options{})
	var out, errOut bytes.Buffer
	return NewLedgerApp(store, &out, &errOut, color), &out, &errOut
}

func run(app *LedgerApp, out, errOut *bytes.Buffer, args ...string) int {
	out.Reset()
	errOut.Reset()
	return app.Run(context.Background(), args)
}

func TestLedgerApp_AddListSummary(t *testing.T) {
	app, out, errOut := newApp(t, false)

	if code := run(app, out, errOut, "add", "-description", "Salary", "-amount", "1000", "-type", "income", "-date", "2025-03-01"); code != 0 {
		t.Fatalf("add income exit %d: %s", code, errOut)
	}
	if !strings.Contains(out.String(), "Salary +$1000.00") {
		t.Errorf("unexpected add output %q", out)
	}
	if code := run(app, out, errOut, "add", "-description", "Rent", "-amount", "250", "-date", "2025-03-02"); code != 0 {
		t.Fatalf("add expense exit %d: %s", code, errOut)
	}

	run(app, out, errOut, "list")
	for _, want := range []string{"DESCRIPTION", "Salary", "income", "Rent", "expense", "-$250.00"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	run(app, out, errOut, "summary")
	for _, want := range []string{"Income:   $1000.00", "Expenses: $250.00", "Balance:  $750.00", " 80%", " 20%"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
}

func TestLedgerApp_AddValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing everything", []string{"add"}, "empty description"},
		{"negative amount", []string{"add", "-description", "x", "-amount", "-5", "-date", "2025-01-01"}, "invalid amount"},
		{"bad type", []string{"add", "-description", "x", "-amount", "5", "-type", "gift", "-date", "2025-01-01"}, "invalid transaction type"},
		{"missing date", []string{"add", "-description", "x", "-amount", "5"}, "empty date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, out, errOut := newApp(t, false)
			if code := run(app, out, errOut, tt.args...); code != 1 {
				t.Fatalf("exit code = %d, want 1", code)
			}
			if !strings.Contains(errOut.String(), "Please enter valid details") || !strings.Contains(errOut.String(), tt.want) {
				t.Errorf("stderr = %q, want notice with %q", errOut, tt.want)
			}
			run(app, out, errOut, "list")
			if !strings.Contains(out.String(), "No transactions yet.") {
				t.Error("failed add must not change the ledger")
			}
		})
	}
}

func TestLedgerApp_Delete(t *testing.T) {
	app, out, errOut := newApp(t, false)
	run(app, out, errOut, "add", "-description", "Coffee", "-amount", "3", "-date", "2025-01-01")
	id := app.store.Transactions()[0].ID

	if code := run(app, out, errOut, "delete", "42"); code != 0 || !strings.Contains(out.String(), "No transaction with id 42") {
		t.Fatalf("unknown id should be a no-op, code=%d out=%q", code, out)
	}
	if code := run(app, out, errOut, "delete", "abc"); code != 1 {
		t.Fatalf("non-numeric id should fail, code=%d", code)
	}
	if code := run(app, out, errOut, "delete", strconv.FormatInt(id, 10)); code != 0 {
		t.Fatalf("delete exit %d: %s", code, errOut)
	}
	if len(app.store.Transactions()) != 0 {
		t.Error("transaction should be gone")
	}
}

func TestLedgerApp_ThemeSwitchesPalette(t *testing.T) {
	app, out, errOut := newApp(t, true)
	if app.palette != LightPalette {
		t.Fatal("expected light palette initially")
	}

	run(app, out, errOut, "theme")
	if !strings.Contains(out.String(), "Dark mode on") {
		t.Errorf("unexpected output %q", out)
	}
	if app.palette != DarkPalette {
		t.Error("toggle should switch to the dark palette")
	}

	run(app, out, errOut, "theme", "show")
	if !strings.Contains(out.String(), "Dark mode on") {
		t.Errorf("theme show = %q", out)
	}

	run(app, out, errOut, "theme")
	if app.palette != LightPalette {
		t.Error("second toggle should restore the light palette")
	}
}

func TestLedgerApp_PlainOutputIgnoresTheme(t *testing.T) {
	app, out, errOut := newApp(t, false)
	run(app, out, errOut, "theme")
	if app.palette != PlainPalette {
		t.Error("colorless output should stay plain in dark mode")
	}
	if strings.Contains(out.String(), "\033[") {
		t.Errorf("plain output contains escape codes: %q", out)
	}
}

func TestLedgerApp_PersistFailureIsReported(t *testing.T) {
	store := ledger.Open(context.Background(), brokenStorage{memory.New()}, ledger.Options{})
	var out, errOut bytes.Buffer
	app := NewLedgerApp(store, &out, &errOut, false)

	code := app.Run(context.Background(), []string{"add", "-description", "Tea", "-amount", "2", "-date", "2025-01-01"})
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "could not save transactions") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestLedgerApp_UnknownCommand(t *testing.T) {
	app, out, errOut := newApp(t, false)
	if code := run(app, out, errOut, "export"); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if code := run(app, out, errOut); code != 2 {
		t.Fatalf("no args exit code = %d, want 2", code)
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		share int
		full  int
	}{
		{0, 0},
		{1, 1},
		{50, 20},
		{100, 40},
	}
	for _, tt := range tests {
		if got := strings.Count(bar(tt.share), "█"); got != tt.full {
			t.Errorf("bar(%d) has %d filled cells, want %d", tt.share, got, tt.full)
		}
	}
}
