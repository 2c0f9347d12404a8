package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/enum"
)

// SettingsStore defines the database methods needed by site settings
// handlers. Satisfied by *database.Queries.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (database.SiteSetting, error)
	UpsertSetting(ctx context.Context, arg database.UpsertSettingParams) (database.SiteSetting, error)
}

// SettingsHandler handles site-wide settings. Currently that is just
// the storefront logo URL.
type SettingsHandler struct {
	store SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(store SettingsStore) *SettingsHandler {
	return &SettingsHandler{store: store}
}

// --- Request / Response types ---

type logoRequest struct {
	LogoURL string `json:"logo_url"`
}

type logoResponse struct {
	LogoURL   string    `json:"logo_url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// --- Handlers ---

// GetLogo returns the configured logo URL. A missing row means no
// logo has been set yet; the storefront falls back to its default.
func (h *SettingsHandler) GetLogo(w http.ResponseWriter, r *http.Request) {
	setting, err := h.store.GetSetting(r.Context(), enum.SettingLogoURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusOK, logoResponse{})
			return
		}
		log.Printf("ERROR: get logo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, logoResponse{LogoURL: setting.Value, UpdatedAt: setting.UpdatedAt})
}

// UpdateLogo sets the logo URL.
func (h *SettingsHandler) UpdateLogo(w http.ResponseWriter, r *http.Request) {
	var req logoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.LogoURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "logo_url is required"})
		return
	}

	setting, err := h.store.UpsertSetting(r.Context(), database.UpsertSettingParams{
		Key:   enum.SettingLogoURL,
		Value: req.LogoURL,
	})
	if err != nil {
		log.Printf("ERROR: update logo: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, logoResponse{LogoURL: setting.Value, UpdatedAt: setting.UpdatedAt})
}
