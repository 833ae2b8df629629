package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KPICollection defines the interface for KPI snapshot operations.
type KPICollection interface {
	UpsertSnapshot(ctx context.Context, snap models.KPISnapshot) error
	FindSnapshots(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindLatest(ctx context.Context, windowHours int) (*models.KPISnapshot, error)
}

// MongoKPICollection implements KPICollection for MongoDB.
type MongoKPICollection struct {
	Collection *mongo.Collection
}

// UpsertSnapshot writes a snapshot keyed by (window_hours, period_start) so
// recomputation of the same period is idempotent.
func (c *MongoKPICollection) UpsertSnapshot(ctx context.Context, snap models.KPISnapshot) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	snap.CreatedAt = time.Now()
	filter := bson.M{
		"window_hours": snap.WindowHours,
		"period_start": snap.PeriodStart,
	}
	opts := options.Replace().SetUpsert(true)
	_, err := c.Collection.ReplaceOne(ctx, filter, snap, opts)
	return err
}

// FindSnapshots queries KPI snapshots from the collection.
func (c *MongoKPICollection) FindSnapshots(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindLatest returns the most recent snapshot for a window size.
func (c *MongoKPICollection) FindLatest(ctx context.Context, windowHours int) (*models.KPISnapshot, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.FindOne().SetSort(bson.M{"period_start": -1})
	var snap models.KPISnapshot
	err := c.Collection.FindOne(ctx, bson.M{"window_hours": windowHours}, opts).Decode(&snap)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &snap, nil
}
