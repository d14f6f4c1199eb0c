package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinelist/cinelist-go/internal/model"
	"github.com/cinelist/cinelist-go/internal/service"
)

// MovieHandler handles HTTP requests for the caller's movie entries.
type MovieHandler struct {
	service *service.StatusService
}

// NewMovieHandler creates a new MovieHandler.
func NewMovieHandler(svc *service.StatusService) *MovieHandler {
	return &MovieHandler{service: svc}
}

// HandleList handles GET /api/movies/ requests.
func (h *MovieHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entries, err := h.service.ListEntries(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}

// HandleGet handles GET /api/movies/{tmdb_id}/ requests.
func (h *MovieHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	entry, err := h.service.GetEntry(r.Context(), userID, chi.URLParam(r, "tmdb_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// HandleSetStatus handles POST /api/movie-status/ requests.
func (h *MovieHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req model.SetStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.service.SetStatus(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if res.Deleted {
		writeJSON(w, http.StatusOK, model.EntryDeletedResponse{TMDBID: res.TMDBID, Status: model.StatusDeleted})
		return
	}
	writeJSON(w, http.StatusOK, res.Entry)
}
