package alerts

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// checkFuelAnomaly flags a fuel-level drop too large for the distance the
// vehicle covered since its previous reading (leak or theft pattern).
func (e *Engine) checkFuelAnomaly(ctx context.Context, tele models.Telemetry) *models.Alert {
	if tele.FuelLevel == nil {
		return nil
	}

	prev, err := e.telemetry.FindRecentForVehicle(ctx, tele.VehicleID, tele.Timestamp.Add(-time.Hour), 2)
	if err != nil {
		log.WithError(err).Error("Fuel rule: telemetry lookup failed")
		return nil
	}
	// Newest first; skip the reading being evaluated if already stored.
	var last *models.Telemetry
	for i := range prev {
		if !prev[i].Timestamp.Equal(tele.Timestamp) {
			last = &prev[i]
			break
		}
	}
	if last == nil || last.FuelLevel == nil {
		return nil
	}

	drop := *last.FuelLevel - *tele.FuelLevel
	if drop < e.thresholds.FuelDropPct {
		return nil
	}
	moved := haversineKm(last.Location, tele.Location)
	if moved > e.thresholds.FuelDropMaxKm {
		return nil
	}

	return &models.Alert{
		Rule:      models.RuleFuelAnomaly,
		Severity:  "warning",
		VehicleID: tele.VehicleID,
		Title:     "Unexplained fuel drop",
		Message: fmt.Sprintf("Fuel level fell %.1f%% while the vehicle moved only %.2f km",
			drop, moved),
		Data: map[string]float64{
			"fuel_drop_pct": drop,
			"distance_km":   moved,
		},
		DedupeKey: fmt.Sprintf("%s:%s", models.RuleFuelAnomaly, tele.VehicleID),
	}
}
