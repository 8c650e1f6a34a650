// Package api serves the boundary dataset over HTTP: handlers, response
// shapes, error mapping and the chi router.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sells-group/boundary-api/internal/region"
)

// DistrictNotFoundMessage is the body text for a missing district ("district
// not found" in Mongolian).
const DistrictNotFoundMessage = "Сум олдсонгүй"

// errorResponse is the body of every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("api: write response",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

// errorStatus maps a repository error to its HTTP status and body text.
// Only a missing district is a client-facing outcome; every other error is
// a 500 that carries the raw error text.
func errorStatus(err error) (int, string) {
	if errors.Is(err, region.ErrNotFound) {
		return http.StatusNotFound, DistrictNotFoundMessage
	}
	return http.StatusInternalServerError, err.Error()
}

// writeRepoError writes the response for a failed repository call.
func writeRepoError(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		zap.L().Error("api: request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	writeError(w, r, status, msg)
}
