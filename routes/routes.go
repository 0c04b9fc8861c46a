package routes

import (
	"encoding/json"
	"net/http"
	"strings"

	"snowhub/auth"
	"snowhub/delivery"
	"snowhub/ingest"
	"snowhub/ledger"
	"snowhub/logger"
	"snowhub/progress"
)

// Handlers holds the services the HTTP surface dispatches into. Everything
// is injected; the package keeps no ambient state.
type Handlers struct {
	Ingest   *ingest.Service
	Progress *progress.Tracker
	Delivery *delivery.Service
	Outcomes *ledger.Store
	Verifier *auth.Verifier // nil disables bearer-token identity
}

// Register installs all routes on the mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /upload", h.UploadHandler)
	mux.HandleFunc("GET /progress/{id}", h.ProgressHandler)
	mux.HandleFunc("GET /videos/metadata", h.VideoListHandler)
	mux.HandleFunc("GET /videos/{fileName}", h.VideoURLHandler)
	mux.HandleFunc("DELETE /videos/{videoId}/{userName}", h.VideoDeleteHandler)
	mux.HandleFunc("GET /jobs", h.JobListHandler)
	mux.HandleFunc("GET /jobs/{videoId}", h.JobStatusHandler)
	mux.HandleFunc("GET /health", h.HealthHandler)
	mux.HandleFunc("GET /version", h.VersionHandler)
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// caller resolves the acting user. With no verifier configured the request
// value is trusted as-is; with one configured a valid bearer token is
// required and its userName claim wins.
func (h *Handlers) caller(r *http.Request, fromRequest string) (string, error) {
	if h.Verifier == nil {
		return fromRequest, nil
	}

	header := r.Header.Get("Authorization")
	token := strings.TrimPrefix(header, "Bearer ")
	if header == "" || token == header {
		return "", auth.ErrInvalidToken
	}

	claims, err := h.Verifier.Verify(token)
	if err != nil {
		return "", err
	}
	return claims.UserName, nil
}
