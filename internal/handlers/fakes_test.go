package handlers

import (
	"context"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCursor yields a canned result set through All.
type fakeCursor struct {
	all func(out interface{}) error
}

func (c *fakeCursor) All(_ context.Context, out interface{}) error {
	if c.all == nil {
		return nil
	}
	return c.all(out)
}

func (c *fakeCursor) Close(context.Context) error { return nil }

type fakeVehicles struct {
	db.VehicleCollection
	vehicles  []models.Vehicle
	findErr   error
	insertErr error
	inserted  *models.Vehicle
	byID      *models.Vehicle
	byIDErr   error
}

func (f *fakeVehicles) FindVehicles(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return &fakeCursor{all: func(out interface{}) error {
		*out.(*[]models.Vehicle) = f.vehicles
		return nil
	}}, nil
}

func (f *fakeVehicles) InsertVehicle(ctx context.Context, vehicle models.Vehicle) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = &vehicle
	return "64b000000000000000000001", nil
}

func (f *fakeVehicles) FindVehicleByID(ctx context.Context, id string) (*models.Vehicle, error) {
	return f.byID, f.byIDErr
}

type fakeAlerts struct {
	db.AlertCollection
	alerts      []models.Alert
	byID        *models.Alert
	byIDErr     error
	applyErr    error
	appliedID   string
	appliedWith models.AlertAction
}

func (f *fakeAlerts) FindAlerts(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	return &fakeCursor{all: func(out interface{}) error {
		*out.(*[]models.Alert) = f.alerts
		return nil
	}}, nil
}

func (f *fakeAlerts) FindAlertByID(ctx context.Context, id string) (*models.Alert, error) {
	return f.byID, f.byIDErr
}

func (f *fakeAlerts) ApplyAction(ctx context.Context, id string, status models.AlertStatus, action models.AlertAction) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.appliedID = id
	f.appliedWith = action
	return nil
}

type fakeTelemetry struct {
	db.TelemetryCollection
	inserted  []models.Telemetry
	insertErr error
	recent    []models.Telemetry
}

func (f *fakeTelemetry) InsertTelemetry(ctx context.Context, tele models.Telemetry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, tele)
	return nil
}

func (f *fakeTelemetry) FindRecentForVehicle(ctx context.Context, vehicleID string, since time.Time, limit int64) ([]models.Telemetry, error) {
	return f.recent, nil
}

type fakeTrips struct {
	db.TripCollection
	trips    []models.Trip
	inserted *models.Trip
	byID     *models.Trip
	byIDErr  error
	updated  *models.Trip
}

func (f *fakeTrips) FindTrips(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	return &fakeCursor{all: func(out interface{}) error {
		*out.(*[]models.Trip) = f.trips
		return nil
	}}, nil
}

func (f *fakeTrips) InsertTrip(ctx context.Context, trip models.Trip) (string, error) {
	f.inserted = &trip
	return "64b000000000000000000002", nil
}

func (f *fakeTrips) FindTripByID(ctx context.Context, id string) (*models.Trip, error) {
	return f.byID, f.byIDErr
}

func (f *fakeTrips) UpdateTrip(ctx context.Context, id string, trip models.Trip) error {
	f.updated = &trip
	return nil
}

type fakeMaintenance struct {
	db.MaintenanceCollection
	records []models.Maintenance
}

func (f *fakeMaintenance) FindMaintenance(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	return &fakeCursor{all: func(out interface{}) error {
		*out.(*[]models.Maintenance) = f.records
		return nil
	}}, nil
}

type fakeDocuments struct {
	db.DocumentCollection
	docs []models.Document
}

func (f *fakeDocuments) FindDocuments(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	return &fakeCursor{all: func(out interface{}) error {
		*out.(*[]models.Document) = f.docs
		return nil
	}}, nil
}

type fakeKPIs struct {
	db.KPICollection
	snaps  []models.KPISnapshot
	latest *models.KPISnapshot
}

func (f *fakeKPIs) FindSnapshots(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (db.Cursor, error) {
	return &fakeCursor{all: func(out interface{}) error {
		*out.(*[]models.KPISnapshot) = f.snaps
		return nil
	}}, nil
}

func (f *fakeKPIs) FindLatest(ctx context.Context, windowHours int) (*models.KPISnapshot, error) {
	return f.latest, nil
}

// fakeHub records broadcast feed items.
type fakeHub struct {
	items []models.FeedItem
}

func (f *fakeHub) BroadcastItem(item models.FeedItem) {
	f.items = append(f.items, item)
}
