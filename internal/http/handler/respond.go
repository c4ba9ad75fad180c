package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"curio/internal/apperr"
	"curio/internal/page"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError maps service error kinds to HTTP statuses. Anything outside the
// taxonomy is a store failure: logged and reported as 500.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	switch {
	case apperr.IsValidation(err):
		writeDetail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrPermissionDenied):
		writeDetail(w, http.StatusForbidden, "not enough permissions")
	case errors.Is(err, apperr.ErrConflict):
		writeDetail(w, http.StatusConflict, "already exists")
	default:
		logger.Errorw("request failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "server error")
	}
}

// parsePage reads skip/limit query params, falling back to the listing
// defaults on absence or garbage.
func parsePage(r *http.Request) (skip, limit int) {
	limit = page.DefaultLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	return page.Normalize(skip, limit)
}
