package alerts

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// checkMaintenanceFrequency flags a vehicle that needed the same service
// suspiciously often within the window (recurring fault indicator).
func (e *Engine) checkMaintenanceFrequency(ctx context.Context, m models.Maintenance) *models.Alert {
	since := time.Now().Add(-e.thresholds.MaintenanceWindow)
	count, err := e.maintenance.CountServiceSince(ctx, m.VehicleID, m.ServiceType, since)
	if err != nil {
		log.WithError(err).Error("Maintenance rule: count failed")
		return nil
	}
	if count < e.thresholds.MaintenanceCount {
		return nil
	}

	days := int(e.thresholds.MaintenanceWindow.Hours() / 24)
	return &models.Alert{
		Rule:      models.RuleMaintenanceFrequency,
		Severity:  "critical",
		VehicleID: m.VehicleID,
		Title:     "Repeated maintenance",
		Message: fmt.Sprintf("%d %q services in the last %d days",
			count, m.ServiceType, days),
		Data: map[string]float64{
			"service_count": float64(count),
			"window_days":   float64(days),
		},
		DedupeKey: fmt.Sprintf("%s:%s:%s", models.RuleMaintenanceFrequency, m.VehicleID, m.ServiceType),
	}
}
