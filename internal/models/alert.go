package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// AlertStatus is the lifecycle state of an alert.
type AlertStatus string

const (
	AlertOpen     AlertStatus = "open"
	AlertAccepted AlertStatus = "accepted"
	AlertDenied   AlertStatus = "denied"
	AlertIgnored  AlertStatus = "ignored"
)

// Alert rules produced by the engine.
const (
	RuleFuelAnomaly          = "fuel_anomaly"
	RuleRouteDeviation       = "route_deviation"
	RuleMaintenanceFrequency = "maintenance_frequency"
)

// AlertAction records the user decision taken on an alert.
type AlertAction struct {
	Action      string     `bson:"action" json:"action"` // "accept", "deny", "ignore"
	Reason      string     `bson:"reason" json:"reason"`
	ActorID     string     `bson:"actor_id" json:"actor_id"`
	IgnoreUntil *time.Time `bson:"ignore_until,omitempty" json:"ignore_until,omitempty"`
	ActedAt     time.Time  `bson:"acted_at" json:"acted_at"`
}

// Alert represents an AI-flagged anomaly awaiting a user decision.
type Alert struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Rule      string             `bson:"rule" json:"rule"`
	Severity  string             `bson:"severity" json:"severity"` // "info", "warning", "critical"
	VehicleID string             `bson:"vehicle_id" json:"vehicle_id"`
	DriverID  string             `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Data      map[string]float64 `bson:"data,omitempty" json:"data,omitempty"`
	DedupeKey string             `bson:"dedupe_key" json:"dedupe_key"`
	Status    AlertStatus        `bson:"status" json:"status"`
	Action    *AlertAction       `bson:"action,omitempty" json:"action,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// AlertActionRequest is the body of POST /api/alerts/{id}/action.
type AlertActionRequest struct {
	Action      string `json:"action"` // "accept", "deny", "ignore"
	Reason      string `json:"reason"`
	IgnoreHours int    `json:"ignore_hours,omitempty"`
}

// IsValidAlertAction reports whether the action name is one the workflow
// understands.
func IsValidAlertAction(action string) bool {
	switch action {
	case "accept", "deny", "ignore":
		return true
	default:
		return false
	}
}

// StatusForAction maps an action name to the resulting alert status.
func StatusForAction(action string) AlertStatus {
	switch action {
	case "accept":
		return AlertAccepted
	case "deny":
		return AlertDenied
	case "ignore":
		return AlertIgnored
	default:
		return AlertOpen
	}
}
