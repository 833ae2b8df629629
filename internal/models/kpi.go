package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
	"time"
)

// KPISnapshot is a precomputed summary over a fixed window, surfaced in the
// feed as a KPI card.
type KPISnapshot struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PeriodStart      time.Time          `bson:"period_start" json:"period_start"`
	PeriodEnd        time.Time          `bson:"period_end" json:"period_end"`
	WindowHours      int                `bson:"window_hours" json:"window_hours"`
	TotalDistanceKm  float64            `bson:"total_distance_km" json:"total_distance_km"`
	TotalFuelLiters  float64            `bson:"total_fuel_liters" json:"total_fuel_liters"`
	TotalEmissionsKg float64            `bson:"total_emissions_kg" json:"total_emissions_kg"`
	TotalCost        float64            `bson:"total_cost" json:"total_cost"`
	CostPerKm        float64            `bson:"cost_per_km" json:"cost_per_km"`
	ActiveVehicles   int                `bson:"active_vehicles" json:"active_vehicles"`
	CompletedTrips   int                `bson:"completed_trips" json:"completed_trips"`
	OpenAlerts       int                `bson:"open_alerts" json:"open_alerts"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
}
