// Package mongo persists expense records in a MongoDB collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"tracker/internal/core"
)

const CollectionExpenses = "expenses"

type expenseDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Amount    float64            `bson:"amount"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d expenseDocument) toCore() core.ExpenseRecord {
	return core.ExpenseRecord{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Amount:    d.Amount,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

type Repository struct {
	client   *mongo.Client
	expenses *mongo.Collection
}

// Connect dials uri, verifies the connection and binds the expenses
// collection of database.
func Connect(ctx context.Context, uri, database string) (*Repository, error) {
	if uri == "" {
		return nil, errors.New("missing MongoDB connection string")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	slog.InfoContext(ctx, "MongoDB connected", "database", database, "collection", CollectionExpenses)
	return &Repository{
		client:   client,
		expenses: client.Database(database).Collection(CollectionExpenses),
	}, nil
}

func (r *Repository) CreateExpense(ctx context.Context, e *core.ExpenseRecord) error {
	doc := expenseDocument{Title: e.Title, Amount: e.Amount, CreatedAt: e.CreatedAt}
	res, err := r.expenses.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	e.ID = oid.Hex()
	return nil
}

func (r *Repository) ListExpenses(ctx context.Context) ([]core.ExpenseRecord, error) {
	cur, err := r.expenses.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find expenses: %w", err)
	}
	defer cur.Close(ctx)

	var docs []expenseDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode expenses: %w", err)
	}

	out := make([]core.ExpenseRecord, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toCore())
	}
	return out, nil
}

func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
