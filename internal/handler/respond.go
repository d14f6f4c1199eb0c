package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/cinelist/cinelist-go/internal/catalog"
	"github.com/cinelist/cinelist-go/internal/middleware"
	"github.com/cinelist/cinelist-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

const (
	codeValidation   = "validation_error"
	codeNotFound     = "not_found"
	codeUpstream     = "upstream_unavailable"
	codeUnauthorized = "unauthorized"
	codeTooLarge     = "request_too_large"
	codeInternal     = "internal_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeRaw writes a JSON document that is already encoded.
func writeRaw(w http.ResponseWriter, status int, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

func errorResponse(code, msg string) map[string]string {
	return map[string]string{"error": msg, "code": code}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse(code, msg))
}

// decodeJSON reads a size-limited JSON body into v. It writes the error
// response itself and reports whether decoding succeeded.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil {
		return true
	}

	var (
		tooLarge *http.MaxBytesError
		typeErr  *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &tooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large")
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeError(w, http.StatusBadRequest, codeValidation, fmt.Sprintf("%s has an invalid type", typeErr.Field))
	default:
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request body")
	}
	return false
}

// requireUser returns the authenticated user ID or writes a 401.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "unauthorized")
	}
	return userID, ok
}

// writeServiceError maps a service or catalog error to its response.
// Internal details are logged, never sent.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isValidationError(err):
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
	case isNotFoundError(err):
		writeError(w, http.StatusNotFound, codeNotFound, notFoundMessage(err))
	case errors.Is(err, catalog.ErrUpstreamUnavailable):
		slog.Warn("catalog request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusServiceUnavailable, codeUpstream, catalog.ErrUpstreamUnavailable.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, codeInternal, "internal server error")
	}
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrTMDBIDRequired) ||
		errors.Is(err, service.ErrInvalidTMDBID) ||
		errors.Is(err, service.ErrInvalidListType) ||
		errors.Is(err, service.ErrStatusRequired) ||
		errors.Is(err, catalog.ErrQueryRequired) ||
		errors.Is(err, catalog.ErrInvalidWindow) ||
		errors.Is(err, catalog.ErrInvalidMovieID)
}

func isNotFoundError(err error) bool {
	return errors.Is(err, service.ErrShareNotFound) ||
		errors.Is(err, service.ErrEntryNotFound) ||
		errors.Is(err, service.ErrUserNotFound) ||
		errors.Is(err, catalog.ErrNotFound)
}

func notFoundMessage(err error) string {
	if errors.Is(err, catalog.ErrNotFound) {
		return catalog.ErrNotFound.Error()
	}
	return err.Error()
}
