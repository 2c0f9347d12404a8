package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/dhakabakes/api/internal/media"
)

// maxUploadBytes caps media uploads at 20 MB, enough for banner videos.
const maxUploadBytes = 20 << 20

// MediaUploader is the slice of the Cloudinary client the media
// handlers need. Narrow interface for testability.
type MediaUploader interface {
	Upload(ctx context.Context, file io.Reader, filename, folder string, onProgress media.ProgressFunc) (*media.UploadResult, error)
	Destroy(ctx context.Context, publicID string) error
}

// MediaHandler proxies media uploads and deletions to Cloudinary.
// Deletion requires signing with the API secret, so it only exists
// behind admin auth.
type MediaHandler struct {
	client MediaUploader
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(client MediaUploader) *MediaHandler {
	return &MediaHandler{client: client}
}

// --- Request / Response types ---

type deleteMediaRequest struct {
	URL string `json:"url"`
}

type uploadResponse struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// --- Handlers ---

// Upload accepts a multipart file and forwards it to Cloudinary using
// the unsigned upload preset. The optional "folder" form field routes
// the asset into a Cloudinary folder.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "file is required"})
		return
	}
	defer file.Close()

	folder := r.FormValue("folder")

	result, err := h.client.Upload(r.Context(), file, header.Filename, folder, nil)
	if err != nil {
		log.Printf("ERROR: upload media: %v", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upload failed"})
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		PublicID:  result.PublicID,
		SecureURL: result.SecureURL,
		Format:    result.Format,
		Width:     result.Width,
		Height:    result.Height,
	})
}

// Delete removes an asset from Cloudinary given its delivery URL.
func (h *MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	var req deleteMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	publicID := media.ExtractPublicID(req.URL)
	if publicID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "not a recognizable media URL"})
		return
	}

	if err := h.client.Destroy(r.Context(), publicID); err != nil {
		if errors.Is(err, media.ErrMissingCredentials) {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "media deletion is not configured"})
			return
		}
		log.Printf("ERROR: destroy media %s: %v", publicID, err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "deletion failed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "media deleted", "public_id": publicID})
}
