package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/pricing"
)

const (
	cartSessionName = "bakery_cart"
	cartSessionKey  = "lines"
)

// CartStore defines the database methods needed to price cart lines.
// Satisfied by *database.Queries.
type CartStore interface {
	GetBakeryItem(ctx context.Context, id uuid.UUID) (database.BakeryItem, error)
	GetActiveSale(ctx context.Context) (database.GlobalSale, error)
}

// CartHandler keeps a guest shopping cart in an encrypted session
// cookie. Unit prices are frozen when a line is added; checkout still
// reprices server-side, so a stale cart can never force a stale total.
type CartHandler struct {
	store    CartStore
	sessions *sessions.CookieStore
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(store CartStore, sessionSecret string) *CartHandler {
	cookieStore := sessions.NewCookieStore([]byte(sessionSecret))
	cookieStore.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &CartHandler{store: store, sessions: cookieStore}
}

// RegisterRoutes registers cart endpoints on the given Chi router.
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Get)
	r.Post("/items", h.AddItem)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.RemoveItem)
	r.Delete("/", h.Clear)
}

// --- Types ---

// cartLine is one item in the cart. UnitPrice is the effective price
// at the moment the line was added.
type cartLine struct {
	ItemID    string `json:"item_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int32  `json:"quantity"`
}

type addCartItemRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int32  `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type cartResponse struct {
	Lines    []cartLine `json:"lines"`
	Subtotal string     `json:"subtotal"`
}

func toCartResponse(lines []cartLine) cartResponse {
	subtotal := decimal.Zero
	for _, line := range lines {
		price, err := decimal.NewFromString(line.UnitPrice)
		if err != nil {
			continue
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt32(line.Quantity)))
	}
	return cartResponse{Lines: lines, Subtotal: subtotal.StringFixed(2)}
}

// --- Session plumbing ---

// Cart lines are stored as a JSON string inside the session so the
// cookie codec never needs gob registration.
func (h *CartHandler) loadLines(r *http.Request) (*sessions.Session, []cartLine) {
	session, err := h.sessions.Get(r, cartSessionName)
	if err != nil {
		// A bad or tampered cookie just means an empty cart.
		session, _ = h.sessions.New(r, cartSessionName)
	}

	raw, ok := session.Values[cartSessionKey].(string)
	if !ok || raw == "" {
		return session, nil
	}

	var lines []cartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return session, nil
	}
	return session, lines
}

func (h *CartHandler) saveLines(w http.ResponseWriter, r *http.Request, session *sessions.Session, lines []cartLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	session.Values[cartSessionKey] = string(raw)
	return session.Save(r, w)
}

// --- Handlers ---

// Get returns the current cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, lines := h.loadLines(r)
	writeJSON(w, http.StatusOK, toCartResponse(lines))
}

// AddItem puts an item in the cart, merging quantities when the item
// is already there. The unit price is resolved now and kept.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be greater than zero"})
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		return
	}

	item, err := h.store.GetBakeryItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
			return
		}
		log.Printf("ERROR: cart add item: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	activePct := int32(0)
	if sale, err := h.store.GetActiveSale(r.Context()); err == nil {
		activePct = sale.DiscountPercentage
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Printf("ERROR: cart active sale: %v", err)
	}

	unitPrice := pricing.EffectivePrice(numericDecimal(item.Price), item.IsOnSale, item.SalePercentage.Int32, activePct)

	session, lines := h.loadLines(r)

	// A merge only bumps the quantity; the unit price stays frozen at
	// whatever it was when the line was first added.
	merged := false
	for i := range lines {
		if lines[i].ItemID == req.ItemID {
			lines[i].Quantity += req.Quantity
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, cartLine{
			ItemID:    req.ItemID,
			Name:      item.Name,
			UnitPrice: unitPrice.StringFixed(2),
			Quantity:  req.Quantity,
		})
	}

	if err := h.saveLines(w, r, session, lines); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(lines))
}

// UpdateItem sets a line's quantity. Zero removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must not be negative"})
		return
	}

	session, lines := h.loadLines(r)

	found := false
	next := lines[:0]
	for _, line := range lines {
		if line.ItemID == itemID {
			found = true
			if req.Quantity == 0 {
				continue
			}
			line.Quantity = req.Quantity
		}
		next = append(next, line)
	}

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not in cart"})
		return
	}

	if err := h.saveLines(w, r, session, next); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(next))
}

// RemoveItem deletes a line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "id")

	session, lines := h.loadLines(r)

	found := false
	next := lines[:0]
	for _, line := range lines {
		if line.ItemID == itemID {
			found = true
			continue
		}
		next = append(next, line)
	}

	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not in cart"})
		return
	}

	if err := h.saveLines(w, r, session, next); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(next))
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	session, _ := h.loadLines(r)

	if err := h.saveLines(w, r, session, nil); err != nil {
		log.Printf("ERROR: save cart: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toCartResponse(nil))
}
