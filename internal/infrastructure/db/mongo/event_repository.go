package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/internal/core/ports"
)

const collectionStatusEvents = "status_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{db: db}
}

// UpdateOrderStatus moves the order from one status to the next in a single
// conditional update and bumps its version, so a concurrent ledger save made
// against the old version is rejected.
func (r *EventRepository) UpdateOrderStatus(
	ctx context.Context,
	orderNumber string,
	from, to domain.OrderStatus,
	ts time.Time,
	notes string,
) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	historyEntry := bson.M{
		"status":    string(to),
		"timestamp": ts.UTC(),
		"notes":     notes,
	}

	filter := bson.M{"order_number": orderNumber, "status": string(from)}
	update := bson.M{
		"$set":  bson.M{"status": string(to), "updated_at": time.Now().UTC()},
		"$inc":  bson.M{"version": 1},
		"$push": bson.M{"status_history": historyEntry},
	}

	res, err := r.db.Collection(collectionOrders).UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

// InsertEvent persists a status event to the audit collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.StatusEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"order_number": event.OrderNumber,
		"status":       string(event.Status),
		"timestamp":    event.Timestamp.UTC(),
		"source":       event.Source,
		"processed_at": time.Now().UTC(),
	}
	if event.Notes != "" {
		doc["notes"] = event.Notes
	}

	_, err := r.db.Collection(collectionStatusEvents).InsertOne(ctx, doc)
	return err
}
