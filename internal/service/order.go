package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/pricing"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Errors returned by the order service.
var (
	ErrInvalidItemID   = errors.New("invalid item_id")
	ErrItemNotFound    = errors.New("item not found")
	ErrMissingCustomer = errors.New("customer name, email, phone and address are required")
)

// OrderStore defines the DB methods needed to place orders.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetBakeryItem(ctx context.Context, id uuid.UUID) (database.BakeryItem, error)
	GetActiveSale(ctx context.Context) (database.GlobalSale, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// PlaceOrderRequest is the validated input for checkout.
type PlaceOrderRequest struct {
	ItemID          string
	Quantity        int32
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	SpecialNotes    string
}

// OrderService prices and persists customer orders. The unit price is
// always recomputed server-side from the item row and the active global
// sale; the client never dictates the amount.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	now      func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, now: time.Now}
}

// Place validates the request, computes the frozen total, and persists
// the order. Validation failures happen before any write.
func (s *OrderService) Place(ctx context.Context, req PlaceOrderRequest) (database.Order, error) {
	if req.Quantity <= 0 {
		return database.Order{}, pricing.ErrInvalidQuantity
	}
	if req.CustomerName == "" || req.CustomerEmail == "" || req.CustomerPhone == "" || req.CustomerAddress == "" {
		return database.Order{}, ErrMissingCustomer
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return database.Order{}, ErrInvalidItemID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.Order{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	item, err := store.GetBakeryItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.Order{}, ErrItemNotFound
		}
		return database.Order{}, fmt.Errorf("get item: %w", err)
	}

	var activePct int32
	sale, err := store.GetActiveSale(ctx)
	switch {
	case err == nil:
		activePct = sale.DiscountPercentage
	case errors.Is(err, pgx.ErrNoRows):
		// No active sale.
	default:
		return database.Order{}, fmt.Errorf("get active sale: %w", err)
	}

	var salePct int32
	if item.SalePercentage.Valid {
		salePct = item.SalePercentage.Int32
	}
	effective := pricing.EffectivePrice(numericToDecimal(item.Price), item.IsOnSale, salePct, activePct)

	total, err := pricing.OrderTotal(effective, req.Quantity)
	if err != nil {
		return database.Order{}, err
	}

	notes := pgtype.Text{}
	if req.SpecialNotes != "" {
		notes = pgtype.Text{String: req.SpecialNotes, Valid: true}
	}

	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		OrderID:         s.generateOrderID(),
		ItemID:          pgtype.UUID{Bytes: item.ID, Valid: true},
		ItemName:        item.Name,
		Quantity:        req.Quantity,
		TotalAmount:     decimalToNumeric(total),
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		SpecialNotes:    notes,
	})
	if err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.Order{}, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// generateOrderID produces the human-readable id shown to customers,
// derived from the submission timestamp in milliseconds.
func (s *OrderService) generateOrderID() string {
	return fmt.Sprintf("ORDER-%d", s.now().UnixMilli())
}
