package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/ukydev/fleet-dashboard/internal/db"
	"github.com/ukydev/fleet-dashboard/internal/feed"
	"github.com/ukydev/fleet-dashboard/internal/middleware"
	"github.com/ukydev/fleet-dashboard/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentHandler handles fleet document requests.
type DocumentHandler struct {
	documents db.DocumentCollection
	hub       Broadcaster
}

// NewDocumentHandler creates a new document handler. hub may be nil.
func NewDocumentHandler(documents db.DocumentCollection, hub Broadcaster) *DocumentHandler {
	return &DocumentHandler{documents: documents, hub: hub}
}

// Collection handles GET (list) and POST (create) on /api/documents.
func (h *DocumentHandler) Collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Item handles GET and DELETE on /api/documents/{id}.
func (h *DocumentHandler) Item(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "Document ID is required", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		doc, err := h.documents.FindDocumentByID(r.Context(), id)
		if err != nil {
			http.Error(w, "Document not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(doc)

	case http.MethodDelete:
		if err := h.documents.DeleteDocument(r.Context(), id); err != nil {
			http.Error(w, "Failed to delete document", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *DocumentHandler) list(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter["kind"] = kind
	}
	if vehicleID := r.URL.Query().Get("vehicle_id"); vehicleID != "" {
		filter["vehicle_id"] = vehicleID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.documents.FindDocuments(r.Context(), filter, opts)
	if err != nil {
		http.Error(w, "Failed to list documents", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(r.Context())

	docs := []models.Document{}
	if err := cursor.All(r.Context(), &docs); err != nil {
		http.Error(w, "Failed to decode documents", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(docs)
}

func (h *DocumentHandler) create(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	var doc models.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if doc.Title == "" || doc.URL == "" {
		http.Error(w, "Title and URL are required", http.StatusBadRequest)
		return
	}
	if doc.Kind == "" {
		doc.Kind = "other"
	}
	if claims, ok := middleware.GetUserFromContext(r.Context()); ok {
		doc.UploadedBy = claims.Username
	}
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	id, err := h.documents.InsertDocument(r.Context(), doc)
	if err != nil {
		http.Error(w, "Failed to create document", http.StatusInternalServerError)
		return
	}
	doc.ID, _ = primitive.ObjectIDFromHex(id)

	if h.hub != nil {
		h.hub.BroadcastItem(feed.DocumentItem(doc))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"id": id})
}
