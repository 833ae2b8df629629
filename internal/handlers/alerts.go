package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ukydev/fleet-dashboard/internal/alerts"
	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AlertHandler handles alert listing and the accept/deny/ignore workflow.
type AlertHandler struct {
	alerts   db.AlertCollection
	workflow *alerts.Workflow
}

// NewAlertHandler creates a new alert handler.
func NewAlertHandler(collection db.AlertCollection, workflow *alerts.Workflow) *AlertHandler {
	return &AlertHandler{alerts: collection, workflow: workflow}
}

// List handles GET /api/alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}
	if rule := r.URL.Query().Get("rule"); rule != "" {
		filter["rule"] = rule
	}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.alerts.FindAlerts(r.Context(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to list alerts", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	list := []models.Alert{}
	if err := cursor.All(r.Context(), &list); err != nil {
		http.Error(w, "Failed to decode alerts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// Get handles GET /api/alerts/{id}.
func (h *AlertHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.PathValue("id")
	alert, err := h.alerts.FindAlertByID(r.Context(), id)
	if err != nil {
		http.Error(w, "Alert not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alert)
}

// Action handles POST /api/alerts/{id}/action: accept, deny or ignore an
// open alert. Decisions are final.
func (h *AlertHandler) Action(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		http.Error(w, "User context not found", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var req models.AlertActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	alert, err := h.workflow.Apply(r.Context(), r.PathValue("id"), claims.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, alerts.ErrInvalidAction), errors.Is(err, alerts.ErrReasonRequired):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, alerts.ErrAlertNotFound):
			http.Error(w, "Alert not found", http.StatusNotFound)
		case errors.Is(err, alerts.ErrAlertNotOpen):
			http.Error(w, "Alert has already been decided", http.StatusConflict)
		default:
			http.Error(w, "Failed to apply alert action", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(alert)
}
