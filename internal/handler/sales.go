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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/service"
)

// SaleStore defines the read/create methods needed by sale handlers.
// Activation and deletion go through the SaleService so they run
// transactionally.
type SaleStore interface {
	ListGlobalSales(ctx context.Context) ([]database.GlobalSale, error)
	GetGlobalSale(ctx context.Context, id uuid.UUID) (database.GlobalSale, error)
	CreateGlobalSale(ctx context.Context, arg database.CreateGlobalSaleParams) (database.GlobalSale, error)
}

// SaleHandler handles global sale endpoints (admin side).
type SaleHandler struct {
	store SaleStore
	svc   *service.SaleService
}

// NewSaleHandler creates a new SaleHandler.
func NewSaleHandler(store SaleStore, svc *service.SaleService) *SaleHandler {
	return &SaleHandler{store: store, svc: svc}
}

// RegisterRoutes registers sale endpoints on the given Chi router.
func (h *SaleHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}/activate", h.Activate)
	r.Put("/{id}/deactivate", h.Deactivate)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type createSaleRequest struct {
	Name               string     `json:"name"`
	Description        string     `json:"description"`
	DiscountPercentage int32      `json:"discount_percentage"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
}

type saleResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	Description        *string    `json:"description"`
	DiscountPercentage int32      `json:"discount_percentage"`
	IsActive           bool       `json:"is_active"`
	StartDate          *time.Time `json:"start_date"`
	EndDate            *time.Time `json:"end_date"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func toSaleResponse(sale database.GlobalSale) saleResponse {
	resp := saleResponse{
		ID:                 sale.ID,
		Name:               sale.Name,
		DiscountPercentage: sale.DiscountPercentage,
		IsActive:           sale.IsActive,
		CreatedAt:          sale.CreatedAt,
		UpdatedAt:          sale.UpdatedAt,
	}

	if sale.Description.Valid {
		resp.Description = &sale.Description.String
	}
	if sale.StartDate.Valid {
		t := sale.StartDate.Time
		resp.StartDate = &t
	}
	if sale.EndDate.Valid {
		t := sale.EndDate.Time
		resp.EndDate = &t
	}
	return resp
}

// --- Handlers ---

// List returns all global sales.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := h.store.ListGlobalSales(r.Context())
	if err != nil {
		log.Printf("ERROR: list sales: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]saleResponse, len(sales))
	for i, sale := range sales {
		resp[i] = toSaleResponse(sale)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single sale by ID.
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return
	}

	sale, err := h.store.GetGlobalSale(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sale not found"})
			return
		}
		log.Printf("ERROR: get sale: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSaleResponse(sale))
}

// Create adds a new global sale. Sales are created inactive; a
// separate activate call makes one live.
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	if req.DiscountPercentage < 1 || req.DiscountPercentage > 100 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "discount_percentage must be between 1 and 100"})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}

	startDate := pgtype.Timestamptz{}
	if req.StartDate != nil {
		startDate = pgtype.Timestamptz{Time: *req.StartDate, Valid: true}
	}

	endDate := pgtype.Timestamptz{}
	if req.EndDate != nil {
		endDate = pgtype.Timestamptz{Time: *req.EndDate, Valid: true}
	}

	sale, err := h.store.CreateGlobalSale(r.Context(), database.CreateGlobalSaleParams{
		Name:               req.Name,
		Description:        desc,
		DiscountPercentage: req.DiscountPercentage,
		StartDate:          startDate,
		EndDate:            endDate,
	})
	if err != nil {
		log.Printf("ERROR: create sale: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toSaleResponse(sale))
}

// Activate makes one sale live and deactivates all others in the same
// transaction, so at most one sale is ever active.
func (h *SaleHandler) Activate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return
	}

	sale, err := h.svc.Activate(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sale not found"})
			return
		}
		log.Printf("ERROR: activate sale: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSaleResponse(sale))
}

// Deactivate turns a sale off.
func (h *SaleHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return
	}

	sale, err := h.svc.Deactivate(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sale not found"})
			return
		}
		log.Printf("ERROR: deactivate sale: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toSaleResponse(sale))
}

// Delete removes a sale entirely.
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid sale ID"})
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrSaleNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "sale not found"})
			return
		}
		log.Printf("ERROR: delete sale: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}
