package alerts

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// checkRouteDeviation flags a vehicle whose position implies a detour well
// beyond the direct path of its in-progress trip.
func (e *Engine) checkRouteDeviation(ctx context.Context, tele models.Telemetry) *models.Alert {
	trip, err := e.trips.FindActiveTripForVehicle(ctx, tele.VehicleID)
	if err != nil {
		log.WithError(err).Error("Route rule: trip lookup failed")
		return nil
	}
	if trip == nil {
		return nil
	}

	detour := detourKm(trip.StartLocation, tele.Location, trip.EndLocation)
	if detour < e.thresholds.RouteDeviationKm {
		return nil
	}

	return &models.Alert{
		Rule:      models.RuleRouteDeviation,
		Severity:  "warning",
		VehicleID: tele.VehicleID,
		DriverID:  trip.DriverID,
		Title:     "Route deviation",
		Message: fmt.Sprintf("Vehicle is %.1f km off the direct path of its current trip",
			detour),
		Data: map[string]float64{
			"detour_km": detour,
		},
		DedupeKey: fmt.Sprintf("%s:%s:%s", models.RuleRouteDeviation, tele.VehicleID, trip.ID.Hex()),
	}
}
