package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c1 := &Client{ID: "c1", Send: make(chan []byte, 1)}
	c2 := &Client{ID: "c2", Send: make(chan []byte, 1)}
	hub.Register <- c1
	hub.Register <- c2

	item := models.FeedItem{Kind: models.FeedAlert, SourceID: "a1", Title: "Route deviation"}
	hub.BroadcastItem(item)

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Send:
			var got models.FeedItem
			assert.NoError(t, json.Unmarshal(data, &got))
			assert.Equal(t, "a1", got.SourceID)
			assert.Equal(t, models.FeedAlert, got.Kind)
		case <-time.After(time.Second):
			t.Fatalf("client %s never received the broadcast", c.ID)
		}
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	hub.Register <- c
	hub.Unregister <- c

	// Send channel is closed on unregister.
	select {
	case _, ok := <-c.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
}

func TestHub_NotifyAlertProducesFeedItem(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	hub.Register <- c

	hub.NotifyAlert(models.Alert{Title: "Repeated maintenance", VehicleID: "v1"})

	select {
	case data := <-c.Send:
		var got models.FeedItem
		assert.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, models.FeedAlert, got.Kind)
		assert.Equal(t, "v1", got.VehicleID)
	case <-time.After(time.Second):
		t.Fatal("alert was not broadcast")
	}
}
