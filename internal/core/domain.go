package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"
)

type (
	TransactionType string

	// Transaction is a single ledger entry recorded by the user.
	Transaction struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Amount      decimal.Decimal `json:"amount"`
		Type        TransactionType `json:"type"`
		Date        string          `json:"date"`
	}

	// ExpenseRecord is the server-side expense resource. It is unrelated to
	// Transaction despite the naming overlap.
	ExpenseRecord struct {
		ID        string    `json:"_id"`
		Title     string    `json:"title"`
		Amount    float64   `json:"amount"`
		CreatedAt time.Time `json:"createdAt"`
	}
)

// MarshalJSON writes the amount as a plain JSON number so stored ledgers
// keep the numeric layout the browser front-end reads.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID          int64           `json:"id"`
		Description string          `json:"description"`
		Amount      json.Number     `json:"amount"`
		Type        TransactionType `json:"type"`
		Date        string          `json:"date"`
	}{tx.ID, tx.Description, json.Number(tx.Amount.String()), tx.Type, tx.Date})
}

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDate        = errors.New("empty date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyTitle       = errors.New("empty title")
	ErrMissingAmount    = errors.New("missing amount")
)

// ValidationError collects every field that failed validation. Message is
// what gets shown to the user; Fields carries the underlying causes.
type ValidationError struct {
	Message string
	Fields  []error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return e.Message + ": " + strings.Join(parts, ", ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Fields
}

// ParseTransactionType maps user input to a TransactionType. Empty input
// defaults to Expense.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(s))) {
	case "", Expense:
		return Expense, nil
	case Income:
		return Income, nil
	default:
		return "", ErrInvalidType
	}
}

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (t TransactionType) String() string {
	return string(t)
}

func (tx Transaction) Validate() error {
	var errs []error
	if strings.TrimSpace(tx.Description) == "" {
		errs = append(errs, ErrEmptyDescription)
	}
	if !tx.Amount.IsPositive() {
		errs = append(errs, ErrInvalidAmount)
	}
	if !tx.Type.Valid() {
		errs = append(errs, ErrInvalidType)
	}
	if strings.TrimSpace(tx.Date) == "" {
		errs = append(errs, ErrEmptyDate)
	}
	if len(errs) > 0 {
		return &ValidationError{Message: "invalid transaction", Fields: errs}
	}
	return nil
}

// Validate applies the presence checks of the expense resource: a non-empty
// title and a non-zero amount.
func (e ExpenseRecord) Validate() error {
	var errs []error
	if strings.TrimSpace(e.Title) == "" {
		errs = append(errs, ErrEmptyTitle)
	}
	if e.Amount == 0 {
		errs = append(errs, ErrMissingAmount)
	}
	if len(errs) > 0 {
		return &ValidationError{Message: "Title and amount are required", Fields: errs}
	}
	return nil
}
