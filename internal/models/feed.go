package models

import "time"

// FeedKind identifies the source type of a feed card.
type FeedKind string

const (
	FeedTrip        FeedKind = "trip"
	FeedMaintenance FeedKind = "maintenance"
	FeedDocument    FeedKind = "document"
	FeedAlert       FeedKind = "alert"
	FeedKPI         FeedKind = "kpi"
	FeedVideo       FeedKind = "video"
)

// FeedItem is one card in the merged activity feed.
type FeedItem struct {
	Kind      FeedKind    `json:"kind"`
	SourceID  string      `json:"source_id"`
	Timestamp time.Time   `json:"timestamp"`
	Title     string      `json:"title"`
	Summary   string      `json:"summary,omitempty"`
	VehicleID string      `json:"vehicle_id,omitempty"`
	DriverID  string      `json:"driver_id,omitempty"`
	Upcoming  bool        `json:"upcoming,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
}

// Key uniquely identifies a card within a composed feed.
func (f FeedItem) Key() string {
	return string(f.Kind) + ":" + f.SourceID
}

// Video is a third-party video card interleaved into the feed.
type Video struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Channel      string    `json:"channel"`
	DurationSec  int       `json:"duration_sec"`
	PublishedAt  time.Time `json:"published_at"`
}
