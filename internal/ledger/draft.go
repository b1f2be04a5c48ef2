package ledger

import (
	"strings"

	"tracker/internal/core"
)

// Draft holds the raw values of the add-transaction form. Store.Add clears
// the text fields after a successful add; the type selection is kept.
type Draft struct {
	Description string
	Amount      string
	Type        string
	Date        string
}

// Ready reports whether every text field has been filled in.
func (d *Draft) Ready() bool {
	return d.Description != "" && d.Amount != "" && d.Date != ""
}

func (d *Draft) reset() {
	d.Description = ""
	d.Amount = ""
	d.Date = ""
}

// build validates the draft and returns the transaction it describes,
// without an id.
func (d *Draft) build() (core.Transaction, error) {
	var errs []error

	desc := strings.TrimSpace(d.Description)
	if desc == "" {
		errs = append(errs, core.ErrEmptyDescription)
	}
	amount, err := core.ParseAmount(d.Amount)
	if err != nil {
		errs = append(errs, err)
	}
	typ, err := core.ParseTransactionType(d.Type)
	if err != nil {
		errs = append(errs, err)
	}
	date := strings.TrimSpace(d.Date)
	if date == "" {
		errs = append(errs, core.ErrEmptyDate)
	}

	if len(errs) > 0 {
		return core.Transaction{}, &core.ValidationError{Message: "please enter valid details", Fields: errs}
	}
	return core.Transaction{
		Description: desc,
		Amount:      amount,
		Type:        typ,
		Date:        date,
	}, nil
}
