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
	"github.com/shopspring/decimal"

	"github.com/dhakabakes/api/internal/database"
)

// ItemStore defines the database methods needed by item handlers.
// Satisfied by *database.Queries; narrow interface for testability.
type ItemStore interface {
	ListBakeryItems(ctx context.Context) ([]database.BakeryItem, error)
	GetBakeryItem(ctx context.Context, id uuid.UUID) (database.BakeryItem, error)
	CreateBakeryItem(ctx context.Context, arg database.CreateBakeryItemParams) (database.BakeryItem, error)
	UpdateBakeryItem(ctx context.Context, arg database.UpdateBakeryItemParams) (database.BakeryItem, error)
	DeleteBakeryItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// ItemHandler handles bakery item CRUD endpoints (admin side).
type ItemHandler struct {
	store ItemStore
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(store ItemStore) *ItemHandler {
	return &ItemHandler{store: store}
}

// RegisterRoutes registers item CRUD endpoints on the given Chi router.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type itemRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	ImageURL       string `json:"image_url"`
	Category       string `json:"category"`
	IsOnSale       bool   `json:"is_on_sale"`
	SalePercentage *int32 `json:"sale_percentage"`
}

type itemResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Price          string    `json:"price"`
	ImageURL       *string   `json:"image_url"`
	Category       string    `json:"category"`
	IsOnSale       bool      `json:"is_on_sale"`
	SalePercentage *int32    `json:"sale_percentage"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func toItemResponse(item database.BakeryItem) itemResponse {
	resp := itemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Category:  item.Category,
		IsOnSale:  item.IsOnSale,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}

	// Always format with 2 decimal places for consistent money representation.
	if item.Price.Valid {
		val, err := item.Price.Value()
		if err == nil && val != nil {
			d, err := decimal.NewFromString(val.(string))
			if err == nil {
				resp.Price = d.StringFixed(2)
			}
		}
	}

	if item.Description.Valid {
		resp.Description = &item.Description.String
	}
	if item.ImageUrl.Valid {
		resp.ImageURL = &item.ImageUrl.String
	}
	if item.SalePercentage.Valid {
		pct := item.SalePercentage.Int32
		resp.SalePercentage = &pct
	}
	return resp
}

// --- Helpers ---

var errNonPositivePrice = errors.New("non-positive price")

func parsePrice(s string) (pgtype.Numeric, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return pgtype.Numeric{}, err
	}
	if !d.IsPositive() {
		return pgtype.Numeric{}, errNonPositivePrice
	}
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

// validateItemRequest checks the fields shared by create and update.
// An item is on sale iff it carries a percentage in 1..99.
func validateItemRequest(req itemRequest) (pgtype.Numeric, pgtype.Int4, string) {
	if req.Name == "" {
		return pgtype.Numeric{}, pgtype.Int4{}, "name is required"
	}
	if req.Category == "" {
		return pgtype.Numeric{}, pgtype.Int4{}, "category is required"
	}
	if req.Price == "" {
		return pgtype.Numeric{}, pgtype.Int4{}, "price is required"
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		if errors.Is(err, errNonPositivePrice) {
			return pgtype.Numeric{}, pgtype.Int4{}, "price must be > 0"
		}
		return pgtype.Numeric{}, pgtype.Int4{}, "invalid price"
	}

	salePct := pgtype.Int4{}
	if req.IsOnSale {
		if req.SalePercentage == nil {
			return pgtype.Numeric{}, pgtype.Int4{}, "sale_percentage is required when is_on_sale is true"
		}
		if *req.SalePercentage < 1 || *req.SalePercentage > 99 {
			return pgtype.Numeric{}, pgtype.Int4{}, "sale_percentage must be between 1 and 99"
		}
		salePct = pgtype.Int4{Int32: *req.SalePercentage, Valid: true}
	} else if req.SalePercentage != nil {
		return pgtype.Numeric{}, pgtype.Int4{}, "sale_percentage requires is_on_sale to be true"
	}

	return price, salePct, ""
}

// --- Handlers ---

// List returns all bakery items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListBakeryItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list items: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single bakery item by ID.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	item, err := h.store.GetBakeryItem(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: get item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Create adds a new bakery item.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	price, salePct, msg := validateItemRequest(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}

	imageURL := pgtype.Text{}
	if req.ImageURL != "" {
		imageURL = pgtype.Text{String: req.ImageURL, Valid: true}
	}

	item, err := h.store.CreateBakeryItem(r.Context(), database.CreateBakeryItemParams{
		Name:           req.Name,
		Description:    desc,
		Price:          price,
		ImageUrl:       imageURL,
		Category:       req.Category,
		IsOnSale:       req.IsOnSale,
		SalePercentage: salePct,
	})
	if err != nil {
		log.Printf("ERROR: create item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// Update modifies an existing bakery item.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	var req itemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	price, salePct, msg := validateItemRequest(req)
	if msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	desc := pgtype.Text{}
	if req.Description != "" {
		desc = pgtype.Text{String: req.Description, Valid: true}
	}

	imageURL := pgtype.Text{}
	if req.ImageURL != "" {
		imageURL = pgtype.Text{String: req.ImageURL, Valid: true}
	}

	item, err := h.store.UpdateBakeryItem(r.Context(), database.UpdateBakeryItemParams{
		Name:           req.Name,
		Description:    desc,
		Price:          price,
		ImageUrl:       imageURL,
		Category:       req.Category,
		IsOnSale:       req.IsOnSale,
		SalePercentage: salePct,
		ID:             id,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: update item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// Delete removes a bakery item.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	if _, err := h.store.DeleteBakeryItem(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: delete item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
