package feed

import (
	"fmt"

	"github.com/ukydev/fleet-dashboard/internal/models"
)

// TripItem maps a trip to its feed card. In-progress trips sort by start
// time; completed ones by end time.
func TripItem(t models.Trip) models.FeedItem {
	ts := t.EndTime
	title := fmt.Sprintf("Trip completed: %.1f km", t.Distance)
	if t.Status == "in_progress" || t.EndTime.IsZero() {
		ts = t.StartTime
		title = "Trip in progress"
	}
	return models.FeedItem{
		Kind:      models.FeedTrip,
		SourceID:  t.ID.Hex(),
		Timestamp: ts,
		Title:     title,
		Summary:   t.Purpose,
		VehicleID: t.VehicleID,
		DriverID:  t.DriverID,
		Payload:   t,
	}
}

// MaintenanceItem maps a maintenance record to its feed card.
func MaintenanceItem(m models.Maintenance) models.FeedItem {
	title := fmt.Sprintf("Maintenance: %s", m.ServiceType)
	if m.Status == "scheduled" {
		title = fmt.Sprintf("Scheduled: %s", m.ServiceType)
	}
	return models.FeedItem{
		Kind:      models.FeedMaintenance,
		SourceID:  m.ID.Hex(),
		Timestamp: m.ServiceDate,
		Title:     title,
		Summary:   m.Description,
		VehicleID: m.VehicleID,
		Payload:   m,
	}
}

// DocumentItem maps a document to its feed card.
func DocumentItem(d models.Document) models.FeedItem {
	return models.FeedItem{
		Kind:      models.FeedDocument,
		SourceID:  d.ID.Hex(),
		Timestamp: d.CreatedAt,
		Title:     fmt.Sprintf("Document uploaded: %s", d.Title),
		Summary:   d.Kind,
		VehicleID: d.VehicleID,
		DriverID:  d.DriverID,
		Payload:   d,
	}
}

// AlertItem maps an alert to its feed card.
func AlertItem(a models.Alert) models.FeedItem {
	return models.FeedItem{
		Kind:      models.FeedAlert,
		SourceID:  a.ID.Hex(),
		Timestamp: a.CreatedAt,
		Title:     a.Title,
		Summary:   a.Message,
		VehicleID: a.VehicleID,
		DriverID:  a.DriverID,
		Payload:   a,
	}
}

// KPIItem maps a KPI snapshot to its feed card.
func KPIItem(s models.KPISnapshot) models.FeedItem {
	return models.FeedItem{
		Kind:      models.FeedKPI,
		SourceID:  s.ID.Hex(),
		Timestamp: s.PeriodEnd,
		Title:     fmt.Sprintf("Fleet summary: last %dh", s.WindowHours),
		Summary: fmt.Sprintf("%.0f km driven, %d trips, %d open alerts",
			s.TotalDistanceKm, s.CompletedTrips, s.OpenAlerts),
		Payload: s,
	}
}

// VideoItem maps a third-party video to its feed card.
func VideoItem(v models.Video) models.FeedItem {
	return models.FeedItem{
		Kind:      models.FeedVideo,
		SourceID:  v.ID,
		Timestamp: v.PublishedAt,
		Title:     v.Title,
		Summary:   v.Channel,
		Payload:   v,
	}
}
