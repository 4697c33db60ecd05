package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"fuko-store/middleware"
	"fuko-store/models"
)

// RequestTimeout bounds the storage work of a single request
var RequestTimeout = 10 * time.Second

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), RequestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

// customerPhone returns the verified phone of the session
func customerPhone(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok || claims.Phone == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return claims.Phone, true
}

// pathIndex reads a non-negative integer route variable
func pathIndex(r *http.Request, name string) (int, error) {
	index, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil || index < 0 {
		return 0, models.NewValidationError(name, "must be a non-negative integer")
	}
	return index, nil
}
