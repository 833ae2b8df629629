package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// Vehicle represents a fleet vehicle.
type Vehicle struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Type             string             `bson:"type" json:"type"` // "ICE" or "EV"
	Make             string             `bson:"make" json:"make"`
	Model            string             `bson:"model" json:"model"`
	Year             int                `bson:"year" json:"year"`
	LicensePlate     string             `bson:"license_plate" json:"license_plate"`
	VIN              string             `bson:"vin" json:"vin"`
	OdometerKm       float64            `bson:"odometer_km" json:"odometer_km"`
	AssignedDriverID string             `bson:"assigned_driver_id,omitempty" json:"assigned_driver_id,omitempty"`
	CurrentLocation  Location           `bson:"current_location" json:"current_location"`
	Status           string             `bson:"status" json:"status"` // "active", "in_shop", "inactive"
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}
