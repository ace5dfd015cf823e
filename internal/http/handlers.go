package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/divedb/rosekv/internal/kvdemo"
	"github.com/divedb/rosekv/internal/wal"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Handler contains HTTP handlers for the key/value API.
type Handler struct {
	store  *kvdemo.Store
	logger zerolog.Logger
}

// NewHandler creates a new HTTP handler over store.
func NewHandler(store *kvdemo.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// HandlePut stores the "value" field of the JSON request body as the
// value for the {key} path parameter, appending it to the WAL before
// returning. An empty body stores an empty value.
func (h *Handler) HandlePut(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req PutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}

	if err := h.store.Put(key, []byte(req.Value)); err != nil {
		h.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PutResponse{Key: key, Success: true})
}

// HandleGet returns the value stored for the {key} path parameter.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, ok, err := h.store.Get(key)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "key not found", "not_found")
		return
	}

	writeJSON(w, http.StatusOK, GetResponse{Key: key, Value: string(value)})
}

// HandleDelete removes the {key} path parameter, appending a tombstone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	deleted, err := h.store.Delete(key)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Key: key, Deleted: deleted})
}

// HandleSync forces an immediate flush of the WAL to durable storage.
func (h *Handler) HandleSync(w http.ResponseWriter, _ *http.Request) {
	if err := h.store.Sync(); err != nil {
		h.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"synced": true})
}

// writeStoreError maps a wal/kvdemo sentinel error to an HTTP status code.
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	h.logger.Error().Err(err).Msg("store operation failed")

	switch {
	case errors.Is(err, wal.ErrTooLargeData):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error(), "too_large")
	case errors.Is(err, wal.ErrInvalidOffset):
		writeError(w, http.StatusNotFound, err.Error(), "not_found")
	case errors.Is(err, wal.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error(), "closed")
	default:
		writeError(w, http.StatusInternalServerError, err.Error(), "internal_error")
	}
}
