package routes

import (
	"errors"
	"net/http"

	"snowhub/delivery"
	"snowhub/logger"
)

// VideoListHandler returns the metadata of every finished video, sorted by
// the "sort" query parameter (date, username, location or title).
func (h *Handlers) VideoListHandler(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy == "" {
		sortBy = "date"
	}

	videos, err := h.Delivery.List(r.Context(), sortBy)
	if err != nil {
		if errors.Is(err, delivery.ErrEmptyCatalog) {
			respondError(w, http.StatusNotFound, "No video metadata available")
			return
		}
		logger.Errorf("Failed to fetch or sort video metadata: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch or sort video metadata")
		return
	}

	respondJSON(w, http.StatusOK, videos)
}

// VideoURLHandler issues a time-limited retrieval URL for one rendition
// file.
func (h *Handlers) VideoURLHandler(w http.ResponseWriter, r *http.Request) {
	fileName := r.PathValue("fileName")

	downloadURL, err := h.Delivery.SignURL(r.Context(), fileName)
	if err != nil {
		logger.Errorf("Error generating presigned URL for %s: %v", fileName, err)
		respondError(w, http.StatusInternalServerError, "Failed to generate presigned URL")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"downloadUrl": downloadURL})
}

// VideoDeleteHandler removes a video and its renditions. Only the owner or
// the admin sentinel may delete.
func (h *Handlers) VideoDeleteHandler(w http.ResponseWriter, r *http.Request) {
	videoID := r.PathValue("videoId")

	caller, err := h.caller(r, r.PathValue("userName"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	if err := h.Delivery.Delete(r.Context(), videoID, caller); err != nil {
		switch {
		case errors.Is(err, delivery.ErrNotFound):
			respondJSON(w, http.StatusNotFound, map[string]string{"message": "Video not found"})
		case errors.Is(err, delivery.ErrForbidden):
			respondJSON(w, http.StatusForbidden, map[string]string{"message": "Unauthorised to delete this video"})
		default:
			logger.Errorf("Error deleting video %s: %v", videoID, err)
			respondJSON(w, http.StatusInternalServerError, map[string]string{"message": "Failed to delete video"})
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Video deleted successfully"})
}
