package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TripHandler handles trip CRUD requests.
type TripHandler struct {
	trips db.TripCollection
	hub   Broadcaster
}

// NewTripHandler creates a new trip handler. hub may be nil.
func NewTripHandler(trips db.TripCollection, hub Broadcaster) *TripHandler {
	return &TripHandler{trips: trips, hub: hub}
}

// Collection handles GET (list) and POST (create) on /api/trips.
func (h *TripHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/trips/{id}.
func (h *TripHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Trip ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		trip, err := h.trips.FindTripByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trip)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var trip models.Trip
		if err := json.Unmarshal(body, &trip); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		existing, err := h.trips.FindTripByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Trip not found", http.StatusNotFound)
			return
		}
		trip.ID = existing.ID
		trip.CreatedAt = existing.CreatedAt
		trip.UpdatedAt = time.Now()
		if err := h.trips.UpdateTrip(r.Context(), id, trip); err != nil {
			http.Error(w, "Failed to update trip", http.StatusInternalServerError)
			return
		}
		// A trip that just completed becomes a feed card.
		if h.hub != nil && trip.Status == "completed" && existing.Status != "completed" {
			h.hub.BroadcastItem(feed.TripItem(trip))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trip)

	case http.MethodDelete:
		if err := h.trips.DeleteTrip(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete trip", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *TripHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}
	if driverID := r.URL.Query().Get("driver_id"); driverID != "" {
		filter["driver_id"] = driverID
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	cursor, err := h.trips.FindTrips(r.Context(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to list trips", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	trips := []models.Trip{}
	if err := cursor.All(r.Context(), &trips); err != nil {
		http.Error(w, "Failed to decode trips", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(trips)
}

func (h *TripHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var trip models.Trip
	if err := json.Unmarshal(body, &trip); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if trip.VehicleID == "" {
		http.Error(w, "Vehicle ID is required", http.StatusBadRequest)
		return
	}
	if trip.Status == "" {
		trip.Status = "in_progress"
	}
	if trip.StartTime.IsZero() {
		trip.StartTime = time.Now()
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt

	id, err := h.trips.InsertTrip(r.Context(), trip)
	if err != nil {
		http.Error(w, "Failed to create trip", http.StatusInternalServerError)
		return
	}

	if h.hub != nil {
		created := trip
		created.ID, _ = primitive.ObjectIDFromHex(id)
		h.hub.BroadcastItem(feed.TripItem(created))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
