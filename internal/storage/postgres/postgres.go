// Package postgres persists expense records in PostgreSQL through lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/lib/pq"

	"tracker/internal/core"
)

type Storage struct {
	DB *sql.DB
}

func NewStorage(ctx context.Context, connStr string) (*Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS expenses (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create expenses table: %w", err)
	}

	return &Storage{DB: db}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *Storage) ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error) {
	rows, err := s.DB.QueryContext(ctx, "SELECT id, title, amount, created_at FROM expenses ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	expenses := []core.ExpenseRecord{}
	for rows.Next() {
		var (
			id int64
			e  core.ExpenseRecord
		)
		if err := rows.Scan(&id, &e.Title, &e.Amount, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		e.ID = strconv.FormatInt(id, 10)
		e.CreatedAt = e.CreatedAt.UTC()
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *Storage) CreateExpense(ctx context.Context, e *core.ExpenseRecord) error {
	var id int64
	err := s.DB.QueryRowContext(ctx,
		"INSERT INTO expenses (title, amount, created_at) VALUES ($1, $2, $3) RETURNING id",
		e.Title, e.Amount, e.CreatedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	e.ID = strconv.FormatInt(id, 10)
	return nil
}
