package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/models"
)

// FeedHandler serves the merged activity feed.
type FeedHandler struct {
	composer *feed.Composer
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(composer *feed.Composer) *FeedHandler {
	return &FeedHandler{composer: composer}
}

// Get handles GET /api/feed. Supported query parameters:
//
//	limit  - page size
//	before - RFC3339 exclusive upper bound for pagination
//	from   - RFC3339 lower bound
//	kinds  - comma-separated card kinds (trip,maintenance,document,alert,kpi)
func (h *FeedHandler) Get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := feed.Query{}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		q.Limit = n
	}
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid before timestamp, want RFC3339", http.StatusBadRequest)
			return
		}
		q.Before = t
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			http.Error(w, "Invalid from timestamp, want RFC3339", http.StatusBadRequest)
			return
		}
		q.From = t
	}
	if raw := r.URL.Query().Get("kinds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			kind := models.FeedKind(strings.TrimSpace(part))
			switch kind {
			case models.FeedTrip, models.FeedMaintenance, models.FeedDocument, models.FeedAlert, models.FeedKPI:
				q.Kinds = append(q.Kinds, kind)
			default:
				http.Error(w, "Unknown feed kind: "+string(kind), http.StatusBadRequest)
				return
			}
		}
	}

	items, err := h.composer.Compose(r.Context(), q)
	if err != nil {
		http.Error(w, "Failed to build feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}
