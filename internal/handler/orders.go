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
	"github.com/shopspring/decimal"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/enum"
	"github.com/dhakabakes/api/internal/notify"
	"github.com/dhakabakes/api/internal/pricing"
	"github.com/dhakabakes/api/internal/service"
	"github.com/dhakabakes/api/internal/ws"
)

// OrderStore defines the read/delete methods needed by admin order
// handlers. Checkout goes through the OrderService.
type OrderStore interface {
	ListOrders(ctx context.Context) ([]database.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// OrderHandler handles the public checkout endpoint and the admin
// order list.
type OrderHandler struct {
	store    OrderStore
	svc      *service.OrderService
	notifier *notify.Notifier
	hub      Broadcaster
}

// NewOrderHandler creates a new OrderHandler. notifier and hub may be
// nil in tests.
func NewOrderHandler(store OrderStore, svc *service.OrderService, notifier *notify.Notifier, hub Broadcaster) *OrderHandler {
	return &OrderHandler{store: store, svc: svc, notifier: notifier, hub: hub}
}

// RegisterAdminRoutes registers the admin order endpoints on the given
// Chi router.
func (h *OrderHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type placeOrderRequest struct {
	ItemID          string `json:"item_id"`
	Quantity        int32  `json:"quantity"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	SpecialNotes    string `json:"special_notes"`
}

type orderResponse struct {
	ID              uuid.UUID `json:"id"`
	OrderID         string    `json:"order_id"`
	ItemID          *string   `json:"item_id"`
	ItemName        string    `json:"item_name"`
	Quantity        int32     `json:"quantity"`
	TotalAmount     string    `json:"total_amount"`
	Currency        string    `json:"currency"`
	CustomerName    string    `json:"customer_name"`
	CustomerEmail   string    `json:"customer_email"`
	CustomerPhone   string    `json:"customer_phone"`
	CustomerAddress string    `json:"customer_address"`
	SpecialNotes    *string   `json:"special_notes"`
	CreatedAt       time.Time `json:"created_at"`
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:              o.ID,
		OrderID:         o.OrderID,
		ItemName:        o.ItemName,
		Quantity:        o.Quantity,
		Currency:        enum.Currency,
		CustomerName:    o.CustomerName,
		CustomerEmail:   o.CustomerEmail,
		CustomerPhone:   o.CustomerPhone,
		CustomerAddress: o.CustomerAddress,
		CreatedAt:       o.CreatedAt,
	}

	if o.TotalAmount.Valid {
		val, err := o.TotalAmount.Value()
		if err == nil && val != nil {
			d, err := decimal.NewFromString(val.(string))
			if err == nil {
				resp.TotalAmount = d.StringFixed(2)
			}
		}
	}

	if o.ItemID.Valid {
		id := uuid.UUID(o.ItemID.Bytes).String()
		resp.ItemID = &id
	}
	if o.SpecialNotes.Valid {
		resp.SpecialNotes = &o.SpecialNotes.String
	}
	return resp
}

// --- Handlers ---

// Place handles public checkout. The total is computed server-side;
// nothing in the request body can influence the amount. Webhook
// delivery and the admin feed run after the order is committed and
// never block the response.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	order, err := h.svc.Place(r.Context(), service.PlaceOrderRequest{
		ItemID:          req.ItemID,
		Quantity:        req.Quantity,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		SpecialNotes:    req.SpecialNotes,
	})
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrInvalidQuantity):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be greater than zero"})
		case errors.Is(err, service.ErrInvalidItemID):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item_id"})
		case errors.Is(err, service.ErrMissingCustomer):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer name, email, phone and address are required"})
		case errors.Is(err, service.ErrItemNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "item not found"})
		default:
			log.Printf("ERROR: place order: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	resp := toOrderResponse(order)
	h.notifyOrder(resp)
	writeJSON(w, http.StatusCreated, resp)
}

// List returns all orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.store.ListOrders(r.Context())
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Get returns a single order by row ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// Delete removes an order.
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	if _, err := h.store.DeleteOrder(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		log.Printf("ERROR: delete order: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

// DeadLetters returns webhook deliveries that failed, for manual
// follow-up from the admin panel.
func (h *OrderHandler) DeadLetters(w http.ResponseWriter, r *http.Request) {
	if h.notifier == nil {
		writeJSON(w, http.StatusOK, []notify.FailedDelivery{})
		return
	}
	writeJSON(w, http.StatusOK, h.notifier.DeadLetters())
}

// --- Helpers ---

func (h *OrderHandler) notifyOrder(resp orderResponse) {
	if h.notifier != nil {
		notes := ""
		if resp.SpecialNotes != nil {
			notes = *resp.SpecialNotes
		}
		h.notifier.Enqueue(notify.OrderPayload{
			OrderID:         resp.OrderID,
			ItemName:        resp.ItemName,
			Quantity:        resp.Quantity,
			TotalAmount:     resp.TotalAmount,
			CustomerName:    resp.CustomerName,
			CustomerEmail:   resp.CustomerEmail,
			CustomerPhone:   resp.CustomerPhone,
			CustomerAddress: resp.CustomerAddress,
			SpecialNotes:    notes,
			OrderDate:       resp.CreatedAt.Format(time.RFC3339),
			Currency:        enum.Currency,
		})
	}

	if h.hub != nil {
		payload, err := json.Marshal(resp)
		if err != nil {
			return
		}
		h.hub.Broadcast(ws.TopicOrders, ws.Event{Type: "new_order", Payload: payload})
	}
}
