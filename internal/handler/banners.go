package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/enum"
	"github.com/dhakabakes/api/internal/service"
	"github.com/dhakabakes/api/internal/ws"
)

// BannerStore defines the read methods needed by banner handlers.
// Mutations go through the BannerService so renumbering stays
// transactional.
type BannerStore interface {
	ListBanners(ctx context.Context) ([]database.BannerSetting, error)
}

// Broadcaster pushes events to WebSocket subscribers. Satisfied by
// *ws.Hub; narrow interface for testability.
type Broadcaster interface {
	Broadcast(topic string, event ws.Event)
}

// CarouselControl is the slice of the rotator the banner handlers
// need: keeping its slide count in sync with the collection.
type CarouselControl interface {
	SetCount(count int)
}

// BannerHandler handles carousel banner endpoints (admin side plus the
// public list).
type BannerHandler struct {
	store    BannerStore
	svc      *service.BannerService
	carousel CarouselControl
	hub      Broadcaster
}

// NewBannerHandler creates a new BannerHandler. carousel and hub may
// be nil in tests.
func NewBannerHandler(store BannerStore, svc *service.BannerService, carousel CarouselControl, hub Broadcaster) *BannerHandler {
	return &BannerHandler{store: store, svc: svc, carousel: carousel, hub: hub}
}

// RegisterAdminRoutes registers banner mutation endpoints on the given
// Chi router.
func (h *BannerHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Delete("/{id}", h.Delete)
	r.Put("/{id}/move-up", h.MoveUp)
	r.Put("/{id}/move-down", h.MoveDown)
	r.Put("/{id}/position", h.MoveTo)
}

// --- Request / Response types ---

type createBannerRequest struct {
	BannerType string `json:"banner_type"`
	BannerURL  string `json:"banner_url"`
}

type moveBannerRequest struct {
	Position int32 `json:"position"`
}

type bannerResponse struct {
	ID           uuid.UUID `json:"id"`
	BannerType   string    `json:"banner_type"`
	BannerURL    string    `json:"banner_url"`
	DisplayOrder int32     `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
}

func toBannerResponse(b database.BannerSetting) bannerResponse {
	return bannerResponse{
		ID:           b.ID,
		BannerType:   b.BannerType,
		BannerURL:    b.BannerUrl,
		DisplayOrder: b.DisplayOrder,
		CreatedAt:    b.CreatedAt,
	}
}

func isValidBannerType(t string) bool {
	switch t {
	case enum.BannerTypeImage, enum.BannerTypeVideo:
		return true
	}
	return false
}

// --- Handlers ---

// List returns all banners in display order.
func (h *BannerHandler) List(w http.ResponseWriter, r *http.Request) {
	banners, err := h.store.ListBanners(r.Context())
	if err != nil {
		log.Printf("ERROR: list banners: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]bannerResponse, len(banners))
	for i, b := range banners {
		resp[i] = toBannerResponse(b)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Create appends a new banner at the end of the carousel.
func (h *BannerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if !isValidBannerType(req.BannerType) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "banner_type must be image or video"})
		return
	}

	if req.BannerURL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "banner_url is required"})
		return
	}

	banner, err := h.svc.Insert(r.Context(), req.BannerType, req.BannerURL)
	if err != nil {
		log.Printf("ERROR: create banner: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.syncCarousel(r.Context())
	writeJSON(w, http.StatusCreated, toBannerResponse(banner))
}

// Delete removes a banner and renumbers the remaining ones.
func (h *BannerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid banner ID"})
		return
	}

	if _, err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "banner not found"})
			return
		}
		log.Printf("ERROR: delete banner: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.syncCarousel(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{"message": "banner deleted"})
}

// MoveUp swaps a banner with the one before it. At the front this is a
// no-op, not an error.
func (h *BannerHandler) MoveUp(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.MoveUp)
}

// MoveDown swaps a banner with the one after it. At the back this is a
// no-op, not an error.
func (h *BannerHandler) MoveDown(w http.ResponseWriter, r *http.Request) {
	h.move(w, r, h.svc.MoveDown)
}

func (h *BannerHandler) move(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid banner ID"})
		return
	}

	if err := op(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "banner not found"})
			return
		}
		log.Printf("ERROR: move banner: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.respondWithList(w, r)
}

// MoveTo places a banner at an explicit position, shifting the banners
// in between.
func (h *BannerHandler) MoveTo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid banner ID"})
		return
	}

	var req moveBannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if err := h.svc.MoveTo(r.Context(), id, req.Position); err != nil {
		switch {
		case errors.Is(err, service.ErrBannerNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "banner not found"})
		case errors.Is(err, service.ErrInvalidPosition):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "position out of range"})
		default:
			log.Printf("ERROR: move banner: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.respondWithList(w, r)
}

// --- Helpers ---

// respondWithList returns the post-mutation ordering so the admin UI
// can re-render without a second request.
func (h *BannerHandler) respondWithList(w http.ResponseWriter, r *http.Request) {
	h.syncCarousel(r.Context())
	h.List(w, r)
}

// syncCarousel pushes the new banner state to the rotator and the
// storefront WebSocket subscribers.
func (h *BannerHandler) syncCarousel(ctx context.Context) {
	banners, err := h.store.ListBanners(ctx)
	if err != nil {
		log.Printf("ERROR: sync carousel: %v", err)
		return
	}

	if h.carousel != nil {
		h.carousel.SetCount(len(banners))
	}

	if h.hub != nil {
		resp := make([]bannerResponse, len(banners))
		for i, b := range banners {
			resp[i] = toBannerResponse(b)
		}
		payload, err := json.Marshal(resp)
		if err != nil {
			return
		}
		h.hub.Broadcast(ws.TopicCarousel, ws.Event{Type: "banners_changed", Payload: payload})
	}
}
