package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AlertCollection defines the interface for alert data operations.
type AlertCollection interface {
	InsertAlert(ctx context.Context, alert models.Alert) (string, error)
	FindAlerts(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindAlertByID(ctx context.Context, id string) (*models.Alert, error)
	FindOpenByDedupeKey(ctx context.Context, dedupeKey string) (*models.Alert, error)
	ApplyAction(ctx context.Context, id string, status models.AlertStatus, action models.AlertAction) error
	CountOpen(ctx context.Context) (int64, error)
}

// MongoAlertCollection implements AlertCollection for MongoDB.
type MongoAlertCollection struct {
	Collection *mongo.Collection
}

// InsertAlert inserts an alert and returns its ID.
func (c *MongoAlertCollection) InsertAlert(ctx context.Context, alert models.Alert) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = time.Now()
	if alert.Status == "" {
		alert.Status = models.AlertOpen
	}
	res, err := c.Collection.InsertOne(ctx, alert)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type")
	}
	return oid.Hex(), nil
}

// FindAlerts queries alert records from the collection.
func (c *MongoAlertCollection) FindAlerts(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindAlertByID finds an alert by its ID.
func (c *MongoAlertCollection) FindAlertByID(ctx context.Context, id string) (*models.Alert, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid alert ID: %w", err)
	}
	var alert models.Alert
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("alert not found")
		}
		return nil, err
	}
	return &alert, nil
}

// FindOpenByDedupeKey returns the open alert carrying the dedupe key, or nil.
func (c *MongoAlertCollection) FindOpenByDedupeKey(ctx context.Context, dedupeKey string) (*models.Alert, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	var alert models.Alert
	err := c.Collection.FindOne(ctx, bson.M{
		"dedupe_key": dedupeKey,
		"status":     models.AlertOpen,
	}).Decode(&alert)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// ApplyAction transitions an open alert to its decided status. The filter
// includes the open status so a concurrent decision loses cleanly.
func (c *MongoAlertCollection) ApplyAction(ctx context.Context, id string, status models.AlertStatus, action models.AlertAction) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid alert ID: %w", err)
	}
	result, err := c.Collection.UpdateOne(ctx,
		bson.M{"_id": objectID, "status": models.AlertOpen},
		bson.M{"$set": bson.M{
			"status":     status,
			"action":     action,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("alert is not open")
	}
	return nil
}

// CountOpen counts alerts still awaiting a decision.
func (c *MongoAlertCollection) CountOpen(ctx context.Context) (int64, error) {
	if c.Collection == nil {
		return 0, fmt.Errorf("mongo collection is nil")
	}
	return c.Collection.CountDocuments(ctx, bson.M{"status": models.AlertOpen})
}
