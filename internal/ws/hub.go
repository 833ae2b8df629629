package ws

import (
	"context"
	"encoding/json"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// Hub fans newly created feed items out to connected dashboard clients.
type Hub struct {
	clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	broadcast  chan []byte
}

// NewHub creates a hub. Run must be started for it to do anything.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
	}
}

// Run owns the client set until the context is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			return
		case client := <-h.Register:
			h.clients[client] = true
			log.WithField("client_id", client.ID).Info("Dashboard client connected")
		case client := <-h.Unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				log.WithField("client_id", client.ID).Info("Dashboard client disconnected")
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// Slow consumer; drop it rather than block the hub.
					delete(h.clients, client)
					close(client.Send)
				}
			}
		}
	}
}

// BroadcastItem pushes a feed item to every connected client.
func (h *Hub) BroadcastItem(item models.FeedItem) {
	data, err := json.Marshal(item)
	if err != nil {
		log.WithError(err).Error("Failed to marshal feed item for broadcast")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		log.Warn("Broadcast queue full, dropping feed item")
	}
}

// NotifyAlert implements alerts.Notifier: freshly raised alerts appear on
// dashboards without a refresh.
func (h *Hub) NotifyAlert(alert models.Alert) {
	h.BroadcastItem(feed.AlertItem(alert))
}
