package routes

import (
	"net/http"

	"snowhub/logger"
)

// JobStatusHandler returns the ledger outcome for one video's processing,
// or a not_found status when the worker has recorded nothing yet.
func (h *Handlers) JobStatusHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")

	record, err := h.Outcomes.Get(videoID)
	if err != nil {
		logger.Errorf("Failed to query job outcome for %s: %v", videoID, err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if record == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"videoId": videoID,
			"status":  "not_found",
		})
		return
	}

	respondJSON(w, http.StatusOK, record)
}

// JobListHandler lists every recorded job outcome. Operator endpoint.
func (h *Handlers) JobListHandler(w http.ResponseWriter, r *http.Request) {
	records, err := h.Outcomes.List()
	if err != nil {
		logger.Errorf("Failed to list job outcomes: %v", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"jobs":  records,
		"count": len(records),
	})
}
