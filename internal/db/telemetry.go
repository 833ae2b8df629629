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

// TelemetryCollection defines the interface for telemetry data operations.
type TelemetryCollection interface {
	InsertTelemetry(ctx context.Context, telemetry models.Telemetry) error
	FindTelemetry(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindRecentForVehicle(ctx context.Context, vehicleID string, since time.Time, limit int64) ([]models.Telemetry, error)
}

// MongoTelemetryCollection implements TelemetryCollection for MongoDB.
type MongoTelemetryCollection struct {
	Collection *mongo.Collection
}

// InsertTelemetry inserts a telemetry record into the collection.
func (c *MongoTelemetryCollection) InsertTelemetry(ctx context.Context, telemetry models.Telemetry) error {
	if c.Collection == nil {
		return fmt.Errorf("mongo collection is nil")
	}
	_, err := c.Collection.InsertOne(ctx, telemetry)
	return err
}

// FindTelemetry queries telemetry records from the collection.
func (c *MongoTelemetryCollection) FindTelemetry(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindRecentForVehicle returns the newest readings for a vehicle since the
// given time, newest first.
func (c *MongoTelemetryCollection) FindRecentForVehicle(ctx context.Context, vehicleID string, since time.Time, limit int64) ([]models.Telemetry, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := c.Collection.Find(ctx, bson.M{
		"vehicle_id": vehicleID,
		"timestamp":  bson.M{"$gte": since},
	}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.Telemetry
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
