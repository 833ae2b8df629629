package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/alerts"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// TelemetryHandler handles HTTP telemetry ingest and queries.
type TelemetryHandler struct {
	telemetry db.TelemetryCollection
	engine    *alerts.Engine
}

// NewTelemetryHandler creates a new telemetry handler. engine may be nil.
func NewTelemetryHandler(telemetry db.TelemetryCollection, engine *alerts.Engine) *TelemetryHandler {
	return &TelemetryHandler{telemetry: telemetry, engine: engine}
}

// Ingest handles POST /api/telemetry.
func (h *TelemetryHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var tele models.Telemetry
	if err := json.Unmarshal(body, &tele); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if tele.VehicleID == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}
	if tele.Timestamp.IsZero() {
		tele.Timestamp = time.Now()
	}

	if err := h.telemetry.InsertTelemetry(r.Context(), tele); err != nil {
		http.Error(w, "Failed to store telemetry", http.StatusInternalServerError)
		return
	}

	if h.engine != nil {
		h.engine.EvaluateTelemetry(r.Context(), tele)
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Recent handles GET /api/telemetry/{vehicle_id}: latest readings for one
// vehicle, newest first.
func (h *TelemetryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	vehicleID := r.PathValue("vehicle_id")
	if vehicleID == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}

	limit := int64(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > 500 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	since := time.Now().Add(-24 * time.Hour)
	readings, err := h.telemetry.FindRecentForVehicle(r.Context(), vehicleID, since, limit)
	if err != nil {
		http.Error(w, "Failed to fetch telemetry", http.StatusInternalServerError)
		return
	}
	if readings == nil {
		readings = []models.Telemetry{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(readings)
}
