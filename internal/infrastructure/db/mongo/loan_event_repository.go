package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/librarydesk/library-admin/internal/core/domain"
)

const collectionLoanEvents = "loan_events"

// loanEventDoc is the stored shape of a lending event.
type loanEventDoc struct {
	ID         string    `bson:"_id"`
	BookID     int64     `bson:"book_id"`
	PersonID   *int64    `bson:"person_id,omitempty"`
	Action     string    `bson:"action"`
	Actor      string    `bson:"actor"`
	OccurredAt time.Time `bson:"occurred_at"`
}

// LoanEventRepository implements ports.LoanEventRepository using MongoDB.
type LoanEventRepository struct {
	db *mongo.Database
}

func NewLoanEventRepository(db *mongo.Database) *LoanEventRepository {
	return &LoanEventRepository{db: db}
}

// EnsureIndexes creates the index backing ListByBook.
func (r *LoanEventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(collectionLoanEvents).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "book_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("loan event index: %w", err)
	}
	return nil
}

// InsertEvent appends a lending event to the audit collection.
func (r *LoanEventRepository) InsertEvent(ctx context.Context, event *domain.LoanEvent) error {
	_, err := r.db.Collection(collectionLoanEvents).InsertOne(ctx, toDoc(event))
	return err
}

// ListByBook returns the newest events of a book first.
func (r *LoanEventRepository) ListByBook(ctx context.Context, bookID int64, limit int64) ([]*domain.LoanEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "occurred_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.db.Collection(collectionLoanEvents).Find(ctx, bson.M{"book_id": bookID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find loan events: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []loanEventDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode loan events: %w", err)
	}

	events := make([]*domain.LoanEvent, 0, len(docs))
	for i := range docs {
		events = append(events, fromDoc(&docs[i]))
	}
	return events, nil
}

func toDoc(e *domain.LoanEvent) loanEventDoc {
	return loanEventDoc{
		ID:         e.ID,
		BookID:     e.BookID,
		PersonID:   e.PersonID,
		Action:     string(e.Action),
		Actor:      e.Actor,
		OccurredAt: e.OccurredAt.UTC(),
	}
}

func fromDoc(d *loanEventDoc) *domain.LoanEvent {
	return &domain.LoanEvent{
		ID:         d.ID,
		BookID:     d.BookID,
		PersonID:   d.PersonID,
		Action:     domain.LoanAction(d.Action),
		Actor:      d.Actor,
		OccurredAt: d.OccurredAt,
	}
}
