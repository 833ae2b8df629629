package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMessage(t *testing.T) {
	payload := []byte(`{"vehicle_id":"v1","speed":42.5,"fuel_level":61,"location":{"lat":51.5,"lon":-0.12}}`)
	tele, err := parseMessage("fleet/v1/telemetry", payload)

	assert.NoError(t, err)
	assert.Equal(t, "v1", tele.VehicleID)
	assert.Equal(t, 42.5, tele.Speed)
	assert.NotNil(t, tele.FuelLevel)
	assert.Equal(t, 61.0, *tele.FuelLevel)
	assert.Equal(t, 51.5, tele.Location.Lat)
	// Missing timestamp defaults to now.
	assert.WithinDuration(t, time.Now(), tele.Timestamp, time.Second)
}

func TestParseMessage_VehicleIDFromTopic(t *testing.T) {
	tele, err := parseMessage("fleet/truck-7/telemetry", []byte(`{"speed":10}`))
	assert.NoError(t, err)
	assert.Equal(t, "truck-7", tele.VehicleID)
}

func TestParseMessage_PayloadWins(t *testing.T) {
	tele, err := parseMessage("fleet/topic-id/telemetry", []byte(`{"vehicle_id":"payload-id"}`))
	assert.NoError(t, err)
	assert.Equal(t, "payload-id", tele.VehicleID)
}

func TestParseMessage_BadJSON(t *testing.T) {
	_, err := parseMessage("fleet/v1/telemetry", []byte(`{broken`))
	assert.Error(t, err)
}

func TestParseMessage_NoVehicleID(t *testing.T) {
	_, err := parseMessage("weird-topic", []byte(`{"speed":10}`))
	assert.Error(t, err)
}

func TestNewConsumer_NoBroker(t *testing.T) {
	c := NewConsumer("", "test", "fleet/+/telemetry", nil, nil)
	assert.NoError(t, c.Start())
	c.Stop()
}
