package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// KPIHandler serves precomputed KPI snapshots.
type KPIHandler struct {
	kpis        db.KPICollection
	windowHours int
}

// NewKPIHandler creates a new KPI handler.
func NewKPIHandler(kpis db.KPICollection, windowHours int) *KPIHandler {
	return &KPIHandler{kpis: kpis, windowHours: windowHours}
}

// Latest handles GET /api/kpis: the most recent snapshot for the configured
// window.
func (h *KPIHandler) Latest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, err := h.kpis.FindLatest(r.Context(), h.windowHours)
	if err != nil {
		http.Error(w, "Failed to fetch KPI snapshot", http.StatusInternalServerError)
		return
	}
	if snap == nil {
		http.Error(w, "No KPI snapshot available yet", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// History handles GET /api/kpis/history: recent snapshots, newest first.
func (h *KPIHandler) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	limit := int64(24)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 || n > 500 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "period_end", Value: -1}}).
		SetLimit(limit)
	cursor, err := h.kpis.FindSnapshots(r.Context(), bson.M{"window_hours": h.windowHours}, opts)
	if err != nil {
		http.Error(w, "Failed to fetch KPI history", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	snaps := []models.KPISnapshot{}
	if err := cursor.All(r.Context(), &snaps); err != nil {
		http.Error(w, "Failed to decode KPI history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snaps)
}
