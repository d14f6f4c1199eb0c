package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cinelist/cinelist-go/internal/service"
)

// ShareHandler handles HTTP requests for shared lists.
type ShareHandler struct {
	service *service.ShareService
}

// NewShareHandler creates a new ShareHandler.
func NewShareHandler(svc *service.ShareService) *ShareHandler {
	return &ShareHandler{service: svc}
}

// HandleList handles GET /api/shared-lists/ requests.
func (h *ShareHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	shares, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, shares)
}

// HandleCreate handles POST /api/shared-lists/ requests.
func (h *ShareHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	share, err := h.service.Create(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, share)
}

// HandleGet handles GET /api/shared-lists/{id}/ requests.
func (h *ShareHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	share, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// HandleUpdate handles PUT /api/shared-lists/{id}/ requests. The body is
// ignored; a shared list has no writable fields.
func (h *ShareHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	share, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, share)
}

// HandleDelete handles DELETE /api/shared-lists/{id}/ requests.
func (h *ShareHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandlePublic handles GET /api/public-list/{id}/ requests. No credential
// is needed; the id itself grants access.
func (h *ShareHandler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.Resolve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, entries)
}
