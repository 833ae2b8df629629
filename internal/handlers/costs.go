package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CostHandler handles fleet cost record requests.
type CostHandler struct {
	costs db.CostCollection
}

// NewCostHandler creates a new cost handler.
func NewCostHandler(costs db.CostCollection) *CostHandler {
	return &CostHandler{costs: costs}
}

// Collection handles GET (list) and POST (create) on /api/costs.
func (h *CostHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles DELETE on /api/costs/{id}.
func (h *CostHandler) Item(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Cost ID is required", http.StatusBadRequest)
		return
	}
	if err := h.costs.DeleteCost(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete cost", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CostHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}
	if since := r.URL.Query().Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			http.Error(w, "Invalid since timestamp, want RFC3339", http.StatusBadRequest)
			return
		}
		filter["date"] = bson.M{"$gte": t}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := h.costs.FindCosts(r.Context(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to list costs", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	costs := []models.Cost{}
	if err := cursor.All(r.Context(), &costs); err != nil {
		http.Error(w, "Failed to decode costs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(costs)
}

func (h *CostHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var cost models.Cost
	if err := json.Unmarshal(body, &cost); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if cost.Category == "" || cost.Amount <= 0 {
		http.Error(w, "Category and a positive amount are required", http.StatusBadRequest)
		return
	}
	if cost.Date.IsZero() {
		cost.Date = time.Now()
	}
	if cost.Status == "" {
		cost.Status = "pending"
	}
	cost.CreatedAt = time.Now()
	cost.UpdatedAt = cost.CreatedAt

	id, err := h.costs.InsertCost(r.Context(), cost)
	if err != nil {
		http.Error(w, "Failed to create cost", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
