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

// DriverHandler handles driver CRUD requests.
type DriverHandler struct {
	drivers db.DriverCollection
}

// NewDriverHandler creates a new driver handler.
func NewDriverHandler(drivers db.DriverCollection) *DriverHandler {
	return &DriverHandler{drivers: drivers}
}

// Collection handles GET (list) and POST (create) on /api/drivers.
func (h *DriverHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET, PUT and DELETE on /api/drivers/{id}.
func (h *DriverHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Driver ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		driver, err := h.drivers.FindDriverByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Driver not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(driver)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}
		var driver models.Driver
		if err := json.Unmarshal(body, &driver); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		existing, err := h.drivers.FindDriverByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Driver not found", http.StatusNotFound)
			return
		}
		driver.ID = existing.ID
		driver.CreatedAt = existing.CreatedAt
		driver.UpdatedAt = time.Now()
		if err := h.drivers.UpdateDriver(r.Context(), id, driver); err != nil {
			http.Error(w, "Failed to update driver", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(driver)

	case http.MethodDelete:
		if err := h.drivers.DeleteDriver(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete driver", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DriverHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	cursor, err := h.drivers.FindDrivers(r.Context(), filter)
	if err != nil {
		http.Error(w, "Failed to list drivers", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	drivers := []models.Driver{}
	if err := cursor.All(r.Context(), &drivers); err != nil {
		http.Error(w, "Failed to decode drivers", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(drivers)
}

func (h *DriverHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var driver models.Driver
	if err := json.Unmarshal(body, &driver); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if driver.FirstName == "" || driver.LastName == "" || driver.LicenseNumber == "" {
		http.Error(w, "First name, last name and license number are required", http.StatusBadRequest)
		return
	}
	if driver.Status == "" {
		driver.Status = "active"
	}
	driver.CreatedAt = time.Now()
	driver.UpdatedAt = driver.CreatedAt

	id, err := h.drivers.InsertDriver(r.Context(), driver)
	if err != nil {
		http.Error(w, "Failed to create driver", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
