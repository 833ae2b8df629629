package kpi

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Service computes KPI snapshots over a rolling window and persists them as
// feed-ready cards.
type Service struct {
	trips       db.TripCollection
	costs       db.CostCollection
	vehicles    db.VehicleCollection
	alerts      db.AlertCollection
	kpis        db.KPICollection
	windowHours int
}

// NewService creates a KPI service for the given window size.
func NewService(colls *db.Collections, windowHours int) *Service {
	if windowHours <= 0 {
		windowHours = 24
	}
	return &Service{
		trips:       colls.Trips,
		costs:       colls.Costs,
		vehicles:    colls.Vehicles,
		alerts:      colls.Alerts,
		kpis:        colls.KPIs,
		windowHours: windowHours,
	}
}

// Compute aggregates trips, costs, vehicles and alerts over the window
// ending at now and returns the snapshot without persisting it.
func (s *Service) Compute(ctx context.Context, now time.Time) (*models.KPISnapshot, error) {
	// Period start is truncated to the hour so recomputation within the
	// same hour upserts the same snapshot.
	periodEnd := now.Truncate(time.Hour)
	periodStart := periodEnd.Add(-time.Duration(s.windowHours) * time.Hour)

	snap := &models.KPISnapshot{
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		WindowHours: s.windowHours,
	}

	cursor, err := s.trips.FindTrips(ctx, bson.M{
		"status":   "completed",
		"end_time": bson.M{"$gte": periodStart, "$lt": periodEnd},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	var trips []models.Trip
	if err := cursor.All(ctx, &trips); err != nil {
		return nil, fmt.Errorf("failed to decode trips: %w", err)
	}
	cursor.Close(ctx)

	for _, trip := range trips {
		snap.TotalDistanceKm += trip.Distance
		snap.TotalFuelLiters += trip.FuelConsumption
		snap.TotalCost += trip.Cost
		// 2.31 kg CO2 per liter of petrol burned.
		snap.TotalEmissionsKg += trip.FuelConsumption * 2.31
	}
	snap.CompletedTrips = len(trips)

	costs, err := s.costs.FindCostsSince(ctx, periodStart)
	if err != nil {
		return nil, fmt.Errorf("failed to query costs: %w", err)
	}
	for _, c := range costs {
		if c.Date.Before(periodEnd) {
			snap.TotalCost += c.Amount
		}
	}

	if snap.TotalDistanceKm > 0 {
		snap.CostPerKm = snap.TotalCost / snap.TotalDistanceKm
	}

	active, err := s.vehicles.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active vehicles: %w", err)
	}
	snap.ActiveVehicles = int(active)

	open, err := s.alerts.CountOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count open alerts: %w", err)
	}
	snap.OpenAlerts = int(open)

	return snap, nil
}

// Refresh computes and persists the current snapshot.
func (s *Service) Refresh(ctx context.Context) (*models.KPISnapshot, error) {
	snap, err := s.Compute(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	if err := s.kpis.UpsertSnapshot(ctx, *snap); err != nil {
		return nil, fmt.Errorf("failed to store KPI snapshot: %w", err)
	}
	log.WithFields(log.Fields{
		"period_start":    snap.PeriodStart,
		"completed_trips": snap.CompletedTrips,
		"distance_km":     snap.TotalDistanceKm,
	}).Info("KPI snapshot refreshed")
	return snap, nil
}

// Run refreshes snapshots on the given interval until the context is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if _, err := s.Refresh(ctx); err != nil {
		log.WithError(err).Error("Initial KPI refresh failed")
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				log.WithError(err).Error("KPI refresh failed")
			}
		}
	}
}
