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

// CostCollection defines the interface for cost data operations.
type CostCollection interface {
	InsertCost(ctx context.Context, cost models.Cost) (string, error)
	FindCosts(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindCostsSince(ctx context.Context, since time.Time) ([]models.Cost, error)
	DeleteCost(ctx context.Context, id string) error
}

// MongoCostCollection implements CostCollection for MongoDB.
type MongoCostCollection struct {
	Collection *mongo.Collection
}

// InsertCost inserts a cost record and returns its ID.
func (c *MongoCostCollection) InsertCost(ctx context.Context, cost models.Cost) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	cost.CreatedAt = time.Now()
	cost.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, cost)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type")
	}
	return oid.Hex(), nil
}

// FindCosts queries cost records from the collection.
func (c *MongoCostCollection) FindCosts(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindCostsSince returns all cost records dated on or after the given time.
func (c *MongoCostCollection) FindCostsSince(ctx context.Context, since time.Time) ([]models.Cost, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, bson.M{"date": bson.M{"$gte": since}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []models.Cost
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteCost deletes a cost record by its ID.
func (c *MongoCostCollection) DeleteCost(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid cost ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("cost record not found")
	}
	return nil
}
