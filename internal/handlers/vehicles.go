package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
)

// VehicleHandler handles vehicle CRUD requests.
type VehicleHandler struct {
	vehicles db.VehicleCollection
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(vehicles db.VehicleCollection) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles}
}

// Collection handles GET (list) and POST (create) on /api/vehicles.
func (h *VehicleHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/vehicles/{id}.
func (h *VehicleHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		vehicle, err := h.vehicles.FindVehicleByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vehicle)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var vehicle models.Vehicle
		if err := json.Unmarshal(body, &vehicle); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		existing, err := h.vehicles.FindVehicleByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Vehicle not found", http.StatusNotFound)
			return
		}
		vehicle.ID = existing.ID
		vehicle.CreatedAt = existing.CreatedAt
		vehicle.UpdatedAt = time.Now()
		if err := h.vehicles.UpdateVehicle(r.Context(), id, vehicle); err != nil {
			http.Error(w, "Failed to update vehicle", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(vehicle)

	case http.MethodDelete:
		if err := h.vehicles.DeleteVehicle(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete vehicle", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *VehicleHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if vtype := r.URL.Query().Get("type"); vtype != "" {
		filter["type"] = vtype
	}

	cursor, err := h.vehicles.FindVehicles(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list vehicles", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	vehicles := []models.Vehicle{}
	if err := cursor.All(r.Context(), &vehicles); err != nil {
		http.Error(w, "Failed to decode vehicles", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(vehicles)
}

func (h *VehicleHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal(body, &vehicle); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if vehicle.Make == "" || vehicle.Model == "" || vehicle.LicensePlate == "" {
		http.Error(w, "Make, model and license plate are required", http.StatusBadRequest)
		return
	}
	if vehicle.Type != "ICE" && vehicle.Type != "EV" {
		http.Error(w, "Vehicle type must be ICE or EV", http.StatusBadRequest)
		return
	}
	if vehicle.Status == "" {
		vehicle.Status = "active"
	}
	vehicle.CreatedAt = time.Now()
	vehicle.UpdatedAt = vehicle.CreatedAt

	id, err := h.vehicles.InsertVehicle(r.Context(), vehicle)
	if err != nil {
		http.Error(w, "Failed to create vehicle", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
