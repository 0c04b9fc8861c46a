package routes

import (
	"errors"
	"net/http"

	"snowhub/logger"
	"snowhub/progress"
)

// ProgressHandler reports the aggregated stage and percentage for one job.
// The first poll that observes completion retires the underlying record, so
// a later poll for the same id gets 404.
func (h *Handlers) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("id")

	status, err := h.Progress.Aggregate(r.Context(), videoID)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			respondError(w, http.StatusNotFound, "No progress data found for this ID")
			return
		}
		logger.Errorf("Error getting progress data for %s: %v", videoID, err)
		respondError(w, http.StatusInternalServerError, "Failed to retrieve progress data")
		return
	}

	respondJSON(w, http.StatusOK, status)
}
