// Package http provides HTTP handlers for the record API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/atinyakov/UserKeeper/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// RecordService defines the record operations required by the RecordHandler.
type RecordService interface {
	List(ctx context.Context) ([]models.Record, error)
	Create(ctx context.Context, f models.Fields) (string, error)
	Update(ctx context.Context, id string, f models.Fields) error
	Delete(ctx context.Context, id string) error
}

// RecordHandler handles HTTP requests for records.
type RecordHandler struct {
	RecordService RecordService
	// Log receives service failures; nil disables logging.
	Log *zap.Logger
}

// ListResponse is the body of GET /api/records.
type ListResponse struct {
	Records []models.Record `json:"records"`
}

// CreateResponse is the body of POST /api/records.
type CreateResponse struct {
	ID string `json:"id"`
}

// List handles GET /api/records.
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.RecordService.List(r.Context())
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	writeJSON(w, http.StatusOK, ListResponse{Records: records})
}

// Create handles POST /api/records with a {name,email,age} body.
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var f models.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	id, err := h.RecordService.Create(r.Context(), f)
	if err != nil {
		h.fail(w, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id})
}

// Update handles PUT /api/records/{id} with a {name,email,age} body.
func (h *RecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	var f models.Fields
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.RecordService.Update(r.Context(), chi.URLParam(r, "id"), f); err != nil {
		h.fail(w, "update", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/records/{id}.
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.RecordService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health handles GET /api/health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *RecordHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		if h.Log != nil {
			h.Log.Error("record operation failed", zap.String("op", op), zap.Error(err))
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
