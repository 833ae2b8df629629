package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/alerts"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MaintenanceHandler handles maintenance record requests.
type MaintenanceHandler struct {
	maintenance db.MaintenanceCollection
	engine      *alerts.Engine
	hub         Broadcaster
}

// NewMaintenanceHandler creates a new maintenance handler. engine and hub
// may be nil.
func NewMaintenanceHandler(maintenance db.MaintenanceCollection, engine *alerts.Engine, hub Broadcaster) *MaintenanceHandler {
	return &MaintenanceHandler{maintenance: maintenance, engine: engine, hub: hub}
}

// Collection handles GET (list) and POST (create) on /api/maintenance.
func (h *MaintenanceHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/maintenance/{id}.
func (h *MaintenanceHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Maintenance ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, err := h.maintenance.FindMaintenanceByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Maintenance record not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(record)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var record models.Maintenance
		if err := json.Unmarshal(body, &record); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		existing, err := h.maintenance.FindMaintenanceByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Maintenance record not found", http.StatusNotFound)
			return
		}
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		record.UpdatedAt = time.Now()
		if err := h.maintenance.UpdateMaintenance(r.Context(), id, record); err != nil {
			http.Error(w, "Failed to update maintenance record", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(record)

	case http.MethodDelete:
		if err := h.maintenance.DeleteMaintenance(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete maintenance record", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *MaintenanceHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if serviceType := r.URL.Query().Get("service_type"); serviceType != "" {
		filter["service_type"] = serviceType
	}

	opts := options.Find().SetSort(bson.D{{Key: "service_date", Value: -1}})
	cursor, err := h.maintenance.FindMaintenance(r.Context(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to list maintenance records", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	records := []models.Maintenance{}
	if err := cursor.All(r.Context(), &records); err != nil {
		http.Error(w, "Failed to decode maintenance records", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}

func (h *MaintenanceHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var record models.Maintenance
	if err := json.Unmarshal(body, &record); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if record.VehicleID == "" || record.ServiceType == "" {
		http.Error(w, "Vehicle ID and service type are required", http.StatusBadRequest)
		return
	}
	if record.Status == "" {
		record.Status = "scheduled"
	}
	if record.ServiceDate.IsZero() {
		record.ServiceDate = time.Now()
	}
	record.CreatedAt = time.Now()
	record.UpdatedAt = record.CreatedAt

	id, err := h.maintenance.InsertMaintenance(r.Context(), record)
	if err != nil {
		http.Error(w, "Failed to create maintenance record", http.StatusInternalServerError)
		return
	}
	record.ID, _ = primitive.ObjectIDFromHex(id)

	// A new service record can trip the repeated-maintenance rule.
	if h.engine != nil {
		h.engine.EvaluateMaintenance(r.Context(), record)
	}
	if h.hub != nil {
		h.hub.BroadcastItem(feed.MaintenanceItem(record))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
