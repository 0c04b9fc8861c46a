package routes

import (
	"errors"
	"io"
	"net/http"

	"snowhub/ingest"
	"snowhub/logger"
)

// maxUploadBytes caps a single video upload at 300MB.
const maxUploadBytes = 300 << 20

// UploadHandler accepts a multipart video upload and returns the videoId
// the caller polls progress under. Processing happens asynchronously.
func (h *Handlers) UploadHandler(w http.ResponseWriter, r *http.Request) {
	logger.Info("Received upload request")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	var file io.Reader
	originalName := ""
	if f, header, err := r.FormFile("video"); err == nil {
		defer f.Close()
		file = f
		originalName = header.Filename
	}

	userName, err := h.caller(r, r.FormValue("userName"))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	videoID, err := h.Ingest.Ingest(r.Context(), file, originalName,
		r.FormValue("videoTitle"), r.FormValue("locationName"), userName)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrNoFile),
			errors.Is(err, ingest.ErrNoTitle),
			errors.Is(err, ingest.ErrNoUser):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			logger.Errorf("Upload failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Failed to ingest video")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"videoId": videoID})
}
