package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// Thresholds tunes the alert rules.
type Thresholds struct {
	// FuelDropPct is the fuel-level percentage drop between consecutive
	// readings that counts as anomalous when the vehicle barely moved.
	FuelDropPct float64
	// FuelDropMaxKm is the distance under which such a drop is suspicious.
	FuelDropMaxKm float64
	// RouteDeviationKm is the allowed detour beyond the direct
	// start-to-end path of the active trip.
	RouteDeviationKm float64
	// MaintenanceCount is the number of same-type services within
	// MaintenanceWindow that triggers the frequency rule.
	MaintenanceCount  int64
	MaintenanceWindow time.Duration
}

// DefaultThresholds returns the tuning used in production.
func DefaultThresholds() Thresholds {
	return Thresholds{
		FuelDropPct:       15,
		FuelDropMaxKm:     2,
		RouteDeviationKm:  25,
		MaintenanceCount:  3,
		MaintenanceWindow: 90 * 24 * time.Hour,
	}
}

// Notifier receives alerts the engine raises. The websocket hub implements
// this to push live cards to dashboards.
type Notifier interface {
	NotifyAlert(alert models.Alert)
}

// Engine evaluates telemetry and maintenance history against the alert
// rules and persists what it finds.
type Engine struct {
	alerts      db.AlertCollection
	telemetry   db.TelemetryCollection
	trips       db.TripCollection
	maintenance db.MaintenanceCollection
	rdb         *redis.Client
	thresholds  Thresholds
	notifier    Notifier
}

// NewEngine creates an alert engine.
func NewEngine(colls *db.Collections, rdb *redis.Client, thresholds Thresholds, notifier Notifier) *Engine {
	return &Engine{
		alerts:      colls.Alerts,
		telemetry:   colls.Telemetry,
		trips:       colls.Trips,
		maintenance: colls.Maintenance,
		rdb:         rdb,
		thresholds:  thresholds,
		notifier:    notifier,
	}
}

// EvaluateTelemetry runs the telemetry-driven rules for one reading.
func (e *Engine) EvaluateTelemetry(ctx context.Context, tele models.Telemetry) {
	if alert := e.checkFuelAnomaly(ctx, tele); alert != nil {
		e.raise(ctx, *alert)
	}
	if alert := e.checkRouteDeviation(ctx, tele); alert != nil {
		e.raise(ctx, *alert)
	}
}

// EvaluateMaintenance runs the history rules after a maintenance record is
// created.
func (e *Engine) EvaluateMaintenance(ctx context.Context, m models.Maintenance) {
	if alert := e.checkMaintenanceFrequency(ctx, m); alert != nil {
		e.raise(ctx, *alert)
	}
}

// raise persists an alert unless an equivalent one is already open or the
// rule is suppressed for this vehicle.
func (e *Engine) raise(ctx context.Context, alert models.Alert) {
	suppressed, err := e.isSuppressed(ctx, alert.DedupeKey)
	if err != nil {
		log.WithError(err).Warn("Suppression lookup failed, raising anyway")
	}
	if suppressed {
		return
	}

	existing, err := e.alerts.FindOpenByDedupeKey(ctx, alert.DedupeKey)
	if err != nil {
		log.WithError(err).Error("Failed to check for duplicate alert")
		return
	}
	if existing != nil {
		return
	}

	alert.Status = models.AlertOpen
	id, err := e.alerts.InsertAlert(ctx, alert)
	if err != nil {
		log.WithError(err).Error("Failed to insert alert")
		return
	}
	log.WithFields(log.Fields{
		"alert_id":   id,
		"rule":       alert.Rule,
		"vehicle_id": alert.VehicleID,
		"severity":   alert.Severity,
	}).Info("Alert raised")

	if e.notifier != nil {
		e.notifier.NotifyAlert(alert)
	}
}

func (e *Engine) isSuppressed(ctx context.Context, dedupeKey string) (bool, error) {
	if e.rdb == nil {
		return false, nil
	}
	n, err := e.rdb.Exists(ctx, suppressKey(dedupeKey)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

func suppressKey(dedupeKey string) string {
	return "alerts:suppress:" + dedupeKey
}
