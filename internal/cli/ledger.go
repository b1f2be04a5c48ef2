package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"tracker/internal/core"
	"tracker/internal/ledger"
)

const barWidth = 40

// Palette holds the ANSI sequences used for one theme.
type Palette struct {
	Income  string
	Expense string
	Accent  string
	Muted   string
	Reset   string
}

var (
	LightPalette = Palette{Income: "\033[32m", Expense: "\033[31m", Accent: "\033[34m", Muted: "\033[90m", Reset: "\033[0m"}
	DarkPalette  = Palette{Income: "\033[92m", Expense: "\033[91m", Accent: "\033[96m", Muted: "\033[37m", Reset: "\033[0m"}
	PlainPalette = Palette{}
)

// LedgerApp maps command lines onto ledger.Store operations.
type LedgerApp struct {
	store   *ledger.Store
	stdout  io.Writer
	stderr  io.Writer
	color   bool
	palette Palette
}

// NewLedgerApp wires the app to store and keeps the palette in step with
// the stored theme. With color false every palette is plain.
func NewLedgerApp(store *ledger.Store, stdout, stderr io.Writer, color bool) *LedgerApp {
	a := &LedgerApp{store: store, stdout: stdout, stderr: stderr, color: color}
	a.applyTheme(store.DarkMode())
	store.OnThemeChange(a.applyTheme)
	return a
}

func (a *LedgerApp) applyTheme(dark bool) {
	switch {
	case !a.color:
		a.palette = PlainPalette
	case dark:
		a.palette = DarkPalette
	default:
		a.palette = LightPalette
	}
}

// Run executes one command and returns the process exit code.
func (a *LedgerApp) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return 2
	}

	var err error
	switch args[0] {
	case "add":
		err = a.add(ctx, args[1:])
	case "delete", "rm":
		err = a.delete(ctx, args[1:])
	case "list", "ls":
		a.list()
	case "summary":
		a.summary()
	case "theme":
		err = a.theme(ctx, args[1:])
	case "help", "-h", "--help":
		a.usage()
	default:
		fmt.Fprintf(a.stderr, "unknown command %q\n\n", args[0])
		a.usage()
		return 2
	}

	if err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *LedgerApp) report(err error) {
	var verr *core.ValidationError
	var perr *ledger.PersistError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintf(a.stderr, "%s%s%s\n", a.palette.Expense, capitalize(verr.Message), a.palette.Reset)
		for _, f := range verr.Fields {
			fmt.Fprintf(a.stderr, "  - %s\n", f)
		}
	case errors.As(err, &perr):
		fmt.Fprintf(a.stderr, "could not save %s: %v\n", perr.Key, perr.Err)
	default:
		fmt.Fprintf(a.stderr, "error: %v\n", err)
	}
}

func (a *LedgerApp) add(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	var d ledger.Draft
	fs.StringVar(&d.Description, "description", "", "what the money was for")
	fs.StringVar(&d.Amount, "amount", "", "positive amount, e.g. 12.50")
	fs.StringVar(&d.Type, "type", string(core.Expense), "expense or income")
	fs.StringVar(&d.Date, "date", "", "date of the transaction, e.g. 2025-01-31")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tx, err := a.store.Add(ctx, &d)
	var perr *ledger.PersistError
	if err != nil && !errors.As(err, &perr) {
		return err
	}
	fmt.Fprintf(a.stdout, "Added #%d %s %s\n", tx.ID, tx.Description, a.signed(tx))
	return err
}

func (a *LedgerApp) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: ledger delete <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q", args[0])
	}

	removed, err := a.store.Delete(ctx, id)
	if !removed {
		fmt.Fprintf(a.stdout, "No transaction with id %d\n", id)
		return nil
	}
	fmt.Fprintf(a.stdout, "Deleted #%d\n", id)
	return err
}

func (a *LedgerApp) list() {
	txs := a.store.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(a.stdout, "No transactions yet.")
		return
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sID\tDATE\tDESCRIPTION\tTYPE\tAMOUNT%s\n", a.palette.Accent, a.palette.Reset)
	for _, tx := range txs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Description, tx.Type, a.signed(tx))
	}
	tw.Flush()
}

func (a *LedgerApp) summary() {
	s := a.store.Summary()
	p := a.palette

	fmt.Fprintf(a.stdout, "Income:   %s%s%s\n", p.Income, core.FormatAmount(s.Income), p.Reset)
	fmt.Fprintf(a.stdout, "Expenses: %s%s%s\n", p.Expense, core.FormatAmount(s.Expense), p.Reset)
	fmt.Fprintf(a.stdout, "Balance:  %s%s%s\n", p.Accent, core.FormatAmount(s.Balance), p.Reset)

	if s.Count == 0 || (s.IncomeShare == 0 && s.ExpenseShare == 0) {
		fmt.Fprintf(a.stdout, "\n%sNothing to chart yet.%s\n", p.Muted, p.Reset)
		return
	}
	fmt.Fprintln(a.stdout)
	fmt.Fprintf(a.stdout, "Income   %s%s%s %3d%%\n", p.Income, bar(s.IncomeShare), p.Reset, s.IncomeShare)
	fmt.Fprintf(a.stdout, "Expenses %s%s%s %3d%%\n", p.Expense, bar(s.ExpenseShare), p.Reset, s.ExpenseShare)
}

func (a *LedgerApp) theme(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "show" {
		fmt.Fprintf(a.stdout, "Dark mode %s\n", onOff(a.store.DarkMode()))
		return nil
	}
	if len(args) > 0 {
		return fmt.Errorf("unknown theme argument %q", args[0])
	}

	dark, err := a.store.ToggleDarkMode(ctx)
	fmt.Fprintf(a.stdout, "%sDark mode %s%s\n", a.palette.Accent, onOff(dark), a.palette.Reset)
	return err
}

func (a *LedgerApp) signed(tx core.Transaction) string {
	if tx.Type == core.Income {
		return a.palette.Income + "+" + core.FormatAmount(tx.Amount) + a.palette.Reset
	}
	return a.palette.Expense + "-" + core.FormatAmount(tx.Amount) + a.palette.Reset
}

func (a *LedgerApp) usage() {
	fmt.Fprint(a.stderr, `Usage: ledger <command> [arguments]

Commands:
  add -description D -amount A [-type expense|income] -date YYYY-MM-DD
  delete <id>
  list
  summary
  theme          toggle dark mode
  theme show
`)
}

func bar(share int) string {
	n := share * barWidth / 100
	if share > 0 && n == 0 {
		n = 1
	}
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
