package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-dashboard/internal/alerts"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// Consumer subscribes to the fleet telemetry topic and feeds readings into
// storage and the alert engine.
type Consumer struct {
	client    mqtt.Client
	telemetry db.TelemetryCollection
	engine    *alerts.Engine
}

// NewConsumer creates an MQTT telemetry consumer. broker may be empty, in
// which case Start is a no-op (HTTP ingest still works).
func NewConsumer(broker, clientID, topic string, telemetry db.TelemetryCollection, engine *alerts.Engine) *Consumer {
	c := &Consumer{telemetry: telemetry, engine: engine}
	if broker == "" {
		return c
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)
	opts.OnConnect = func(client mqtt.Client) {
		log.WithField("topic", topic).Info("MQTT connected, subscribing")
		if token := client.Subscribe(topic, 1, c.handleMessage); token.Wait() && token.Error() != nil {
			log.WithError(token.Error()).Error("MQTT subscribe failed")
		}
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		log.WithError(err).Warn("MQTT connection lost")
	}
	c.client = mqtt.NewClient(opts)
	return c
}

// Start connects to the broker. Safe to call with no broker configured.
func (c *Consumer) Start() error {
	if c.client == nil {
		log.Info("MQTT broker not configured, telemetry ingest is HTTP only")
		return nil
	}
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect failed: %w", token.Error())
	}
	return nil
}

// Stop disconnects from the broker.
func (c *Consumer) Stop() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
	}
}

func (c *Consumer) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	tele, err := parseMessage(msg.Topic(), msg.Payload())
	if err != nil {
		log.WithError(err).WithField("topic", msg.Topic()).Warn("Dropping bad telemetry message")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.telemetry.InsertTelemetry(ctx, tele); err != nil {
		log.WithError(err).Error("Failed to store MQTT telemetry")
		return
	}
	if c.engine != nil {
		c.engine.EvaluateTelemetry(ctx, tele)
	}
}

// parseMessage decodes a telemetry payload. The vehicle ID comes from the
// topic (fleet/<vehicle_id>/telemetry) when the payload omits it.
func parseMessage(topic string, payload []byte) (models.Telemetry, error) {
	var tele models.Telemetry
	if err := json.Unmarshal(payload, &tele); err != nil {
		return tele, fmt.Errorf("invalid telemetry JSON: %w", err)
	}
	if tele.VehicleID == "" {
		parts := strings.Split(topic, "/")
		if len(parts) >= 3 {
			tele.VehicleID = parts[1]
		}
	}
	if tele.VehicleID == "" {
		return tele, fmt.Errorf("telemetry without vehicle ID")
	}
	if tele.Timestamp.IsZero() {
		tele.Timestamp = time.Now()
	}
	return tele, nil
}
