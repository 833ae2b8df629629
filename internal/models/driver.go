package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Driver represents a fleet driver.
type Driver struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName         string             `bson:"first_name" json:"first_name"`
	LastName          string             `bson:"last_name" json:"last_name"`
	Email             string             `bson:"email" json:"email"`
	Phone             string             `bson:"phone" json:"phone"`
	LicenseNumber     string             `bson:"license_number" json:"license_number"`
	LicenseExpiry     time.Time          `bson:"license_expiry" json:"license_expiry"`
	AssignedVehicleID string             `bson:"assigned_vehicle_id,omitempty" json:"assigned_vehicle_id,omitempty"`
	SafetyScore       float64            `bson:"safety_score" json:"safety_score"` // 0-100
	Status            string             `bson:"status" json:"status"`             // "active", "on_leave", "inactive"
	HiredAt           time.Time          `bson:"hired_at" json:"hired_at"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}
