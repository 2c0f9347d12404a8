package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/pricing"
)

// CatalogStore defines the database methods needed by the public catalog.
// Satisfied by *database.Queries; narrow interface for testability.
type CatalogStore interface {
	ListBakeryItems(ctx context.Context) ([]database.BakeryItem, error)
	GetBakeryItem(ctx context.Context, id uuid.UUID) (database.BakeryItem, error)
	GetActiveSale(ctx context.Context) (database.GlobalSale, error)
}

// CatalogHandler serves the public storefront catalog with effective
// prices applied. Item sales take priority over the global sale and
// discounts never stack.
type CatalogHandler struct {
	store CatalogStore
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(store CatalogStore) *CatalogHandler {
	return &CatalogHandler{store: store}
}

// RegisterRoutes registers public catalog endpoints on the given Chi router.
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
}

// --- Response types ---

type catalogItemResponse struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Price          string    `json:"price"`
	EffectivePrice string    `json:"effective_price"`
	DiscountSource string    `json:"discount_source,omitempty"`
	DiscountLabel  string    `json:"discount_label,omitempty"`
	ImageURL       *string   `json:"image_url"`
	Category       string    `json:"category"`
	IsOnSale       bool      `json:"is_on_sale"`
	SalePercentage *int32    `json:"sale_percentage"`
}

type activeSaleResponse struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	DiscountPercentage int32     `json:"discount_percentage"`
}

type catalogResponse struct {
	Items      []catalogItemResponse `json:"items"`
	ActiveSale *activeSaleResponse   `json:"active_sale"`
}

func numericDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toCatalogItemResponse(item database.BakeryItem, activePct int32) catalogItemResponse {
	price := numericDecimal(item.Price)
	effective := pricing.EffectivePrice(price, item.IsOnSale, item.SalePercentage.Int32, activePct)

	resp := catalogItemResponse{
		ID:             item.ID,
		Name:           item.Name,
		Price:          price.StringFixed(2),
		EffectivePrice: effective.StringFixed(2),
		Category:       item.Category,
		IsOnSale:       item.IsOnSale,
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

	switch {
	case item.IsOnSale && item.SalePercentage.Valid:
		resp.DiscountSource = "item_sale"
		resp.DiscountLabel = itoaPercent(item.SalePercentage.Int32)
	case activePct > 0:
		resp.DiscountSource = "global_sale"
		resp.DiscountLabel = itoaPercent(activePct)
	}

	return resp
}

func itoaPercent(pct int32) string {
	return strconv.Itoa(int(pct)) + "% OFF"
}

// --- Handlers ---

// List returns the full catalog with the active sale applied.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListBakeryItems(r.Context())
	if err != nil {
		log.Printf("ERROR: list catalog: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	activePct, activeSale := h.activeSale(r.Context())

	resp := catalogResponse{Items: make([]catalogItemResponse, len(items))}
	for i, item := range items {
		resp.Items[i] = toCatalogItemResponse(item, activePct)
	}
	resp.ActiveSale = activeSale

	writeJSON(w, http.StatusOK, resp)
}

// Get returns one catalog item with the active sale applied.
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
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
		log.Printf("ERROR: get catalog item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	activePct, _ := h.activeSale(r.Context())
	writeJSON(w, http.StatusOK, toCatalogItemResponse(item, activePct))
}

// activeSale resolves the current global sale. No active sale is the
// normal case, not an error. The is_active flag alone decides whether
// a sale applies; start and end dates are informational, so catalog,
// cart and checkout all price from the same rule.
func (h *CatalogHandler) activeSale(ctx context.Context) (int32, *activeSaleResponse) {
	sale, err := h.store.GetActiveSale(ctx)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			log.Printf("ERROR: get active sale: %v", err)
		}
		return 0, nil
	}

	return sale.DiscountPercentage, &activeSaleResponse{
		ID:                 sale.ID,
		Name:               sale.Name,
		DiscountPercentage: sale.DiscountPercentage,
	}
}
