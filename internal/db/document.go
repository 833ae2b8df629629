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

// DocumentCollection defines the interface for document data operations.
type DocumentCollection interface {
	InsertDocument(ctx context.Context, doc models.Document) (string, error)
	FindDocuments(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error)
	FindDocumentByID(ctx context.Context, id string) (*models.Document, error)
	UpdateDocument(ctx context.Context, id string, doc models.Document) error
	DeleteDocument(ctx context.Context, id string) error
}

// MongoDocumentCollection implements DocumentCollection for MongoDB.
type MongoDocumentCollection struct {
	Collection *mongo.Collection
}

// InsertDocument inserts a document record and returns its ID.
func (c *MongoDocumentCollection) InsertDocument(ctx context.Context, doc models.Document) (string, error) {
	if c.Collection == nil {
		return "", fmt.Errorf("mongo collection is nil")
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = time.Now()
	res, err := c.Collection.InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted ID type")
	}
	return oid.Hex(), nil
}

// FindDocuments queries document records from the collection.
func (c *MongoDocumentCollection) FindDocuments(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (Cursor, error) {
	if c.Collection == nil {
		return nil, fmt.Errorf("mongo collection is nil")
	}
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return &mongoCursor{cursor: cursor}, nil
}

// FindDocumentByID finds a document by its ID.
func (c *MongoDocumentCollection) FindDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid document ID: %w", err)
	}
	var doc models.Document
	err = c.Collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("document not found")
		}
		return nil, err
	}
	return &doc, nil
}

// UpdateDocument updates a document by its ID.
func (c *MongoDocumentCollection) UpdateDocument(ctx context.Context, id string, doc models.Document) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}
	doc.UpdatedAt = time.Now()
	result, err := c.Collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": doc})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}

// DeleteDocument deletes a document by its ID.
func (c *MongoDocumentCollection) DeleteDocument(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid document ID: %w", err)
	}
	result, err := c.Collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("document not found")
	}
	return nil
}
