package mongodb

import (
	"context"
	"fmt"
	"time"

	"farm-market/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultDatabase   = "farm_market"
	DefaultCollection = "order_status_history"

	opTimeout = 5 * time.Second
)

// StatusHistory stores status changes in a Mongo collection.
type StatusHistory struct {
	collection *mongo.Collection
}

// Connect dials uri and checks the server answers a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping Mongo: %w", err)
	}
	return client, nil
}

func NewStatusHistory(client *mongo.Client, database, collection string) *StatusHistory {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &StatusHistory{collection: client.Database(database).Collection(collection)}
}

// EnsureIndexes creates the lookup index used by ListByOrder.
func (r *StatusHistory) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "timestamp", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create history index: %w", err)
	}
	return nil
}

func (r *StatusHistory) Record(ctx context.Context, change domain.StatusChange) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if _, err := r.collection.InsertOne(ctx, change); err != nil {
		return fmt.Errorf("failed to insert history status to Mongo: %w", err)
	}
	return nil
}

func (r *StatusHistory) ListByOrder(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	cur, err := r.collection.Find(ctx, orderFilter(orderID), listOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer cur.Close(ctx)

	changes := []domain.StatusChange{}
	if err := cur.All(ctx, &changes); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return changes, nil
}

func orderFilter(orderID string) bson.M {
	return bson.M{"order_id": orderID}
}

func listOptions() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}})
}
