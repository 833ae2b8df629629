package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Document represents an uploaded fleet document (insurance papers,
// registrations, inspection reports, invoices).
type Document struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title      string             `bson:"title" json:"title"`
	Kind       string             `bson:"kind" json:"kind"` // "insurance", "registration", "inspection", "invoice", "policy", "other"
	VehicleID  string             `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	DriverID   string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	URL        string             `bson:"url" json:"url"`
	MimeType   string             `bson:"mime_type" json:"mime_type"`
	SizeBytes  int64              `bson:"size_bytes" json:"size_bytes"`
	UploadedBy string             `bson:"uploaded_by" json:"uploaded_by"`
	ExpiresAt  *time.Time         `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	Notes      string             `bson:"notes" json:"notes"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
