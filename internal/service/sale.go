package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhakabakes/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrSaleNotFound is returned when the referenced global sale does not
// exist.
var ErrSaleNotFound = errors.New("sale not found")

// SaleStore defines the DB methods needed to manage global sales.
// Satisfied by *database.Queries (and its WithTx variant).
type SaleStore interface {
	DeactivateAllSales(ctx context.Context) error
	ActivateGlobalSale(ctx context.Context, id uuid.UUID) (database.GlobalSale, error)
	DeactivateGlobalSale(ctx context.Context, id uuid.UUID) (database.GlobalSale, error)
	DeleteGlobalSale(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

// NewSaleStore creates a SaleStore from a DBTX (pool or tx).
type NewSaleStore func(db database.DBTX) SaleStore

// SaleService enforces the single-active-sale rule at the write
// boundary. Activation deactivates every other sale in the same
// transaction, so the most recently activated sale always wins and two
// rows can never stay active together.
type SaleService struct {
	pool     TxBeginner
	newStore NewSaleStore
}

// NewSaleService creates a new SaleService.
func NewSaleService(pool TxBeginner, newStore NewSaleStore) *SaleService {
	return &SaleService{pool: pool, newStore: newStore}
}

// Activate turns on one sale and off all others, atomically.
func (s *SaleService) Activate(ctx context.Context, id uuid.UUID) (database.GlobalSale, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.GlobalSale{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := store.DeactivateAllSales(ctx); err != nil {
		return database.GlobalSale{}, fmt.Errorf("deactivate sales: %w", err)
	}

	sale, err := store.ActivateGlobalSale(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.GlobalSale{}, ErrSaleNotFound
		}
		return database.GlobalSale{}, fmt.Errorf("activate sale: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.GlobalSale{}, fmt.Errorf("commit tx: %w", err)
	}
	return sale, nil
}

// Deactivate turns a sale off. Deactivating the active sale leaves no
// sale active.
func (s *SaleService) Deactivate(ctx context.Context, id uuid.UUID) (database.GlobalSale, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.GlobalSale{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	sale, err := store.DeactivateGlobalSale(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.GlobalSale{}, ErrSaleNotFound
		}
		return database.GlobalSale{}, fmt.Errorf("deactivate sale: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.GlobalSale{}, fmt.Errorf("commit tx: %w", err)
	}
	return sale, nil
}

// Delete removes a sale entirely. Deleting the active sale leaves no
// sale active.
func (s *SaleService) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if _, err := store.DeleteGlobalSale(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrSaleNotFound
		}
		return fmt.Errorf("delete sale: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
