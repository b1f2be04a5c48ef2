package amqp

import (
	"encoding/json"
	"time"

	"tracker/internal/core"
)

// ExpenseCreatedMessage carries a freshly created expense to the export worker.
// The record travels whole so the consumer needs no access to the store.
type ExpenseCreatedMessage struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"createdAt"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExpenseCreatedMessage(e core.ExpenseRecord) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		CreatedAt: e.CreatedAt,
		Timestamp: time.Now().UTC(),
	}
}

func (m *ExpenseCreatedMessage) Expense() core.ExpenseRecord {
	return core.ExpenseRecord{ID: m.ID, Title: m.Title, Amount: m.Amount, CreatedAt: m.CreatedAt}
}

func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ExpenseCreatedMessageFromJSON(data []byte) (*ExpenseCreatedMessage, error) {
	var msg ExpenseCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
