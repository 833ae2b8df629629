package handlers

import "github.com/ukydev/fleet-dashboard/internal/models"

// Broadcaster pushes freshly created feed cards to connected dashboards.
// Satisfied by the websocket hub; may be nil in tests.
type Broadcaster interface {
	BroadcastItem(item models.FeedItem)
}
