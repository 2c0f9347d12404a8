package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhakabakes/api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Errors returned by the banner service.
var (
	ErrBannerNotFound  = errors.New("banner not found")
	ErrInvalidPosition = errors.New("position out of range")
)

// BannerStore defines the DB methods needed to maintain banner ordering.
// Satisfied by *database.Queries (and its WithTx variant).
type BannerStore interface {
	ListBanners(ctx context.Context) ([]database.BannerSetting, error)
	GetBanner(ctx context.Context, id uuid.UUID) (database.BannerSetting, error)
	CreateBanner(ctx context.Context, arg database.CreateBannerParams) (database.BannerSetting, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
	SetBannerOrder(ctx context.Context, arg database.SetBannerOrderParams) error
	MaxBannerOrder(ctx context.Context) (int32, error)
}

// NewBannerStore creates a BannerStore from a DBTX (pool or tx).
type NewBannerStore func(db database.DBTX) BannerStore

// BannerService keeps display_order values a dense 0..N-1 sequence
// across inserts, deletes, and moves. Every multi-record renumber runs
// in a single transaction so a partial failure cannot leave gaps or
// duplicates behind.
type BannerService struct {
	pool     TxBeginner
	newStore NewBannerStore
}

// NewBannerService creates a new BannerService.
func NewBannerService(pool TxBeginner, newStore NewBannerStore) *BannerService {
	return &BannerService{pool: pool, newStore: newStore}
}

// Insert appends a banner at the end of the ordering: max existing
// order + 1, or 0 for an empty collection.
func (s *BannerService) Insert(ctx context.Context, bannerType, bannerURL string) (database.BannerSetting, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.BannerSetting{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	max, err := store.MaxBannerOrder(ctx)
	if err != nil {
		return database.BannerSetting{}, fmt.Errorf("max banner order: %w", err)
	}

	banner, err := store.CreateBanner(ctx, database.CreateBannerParams{
		BannerType:   bannerType,
		BannerUrl:    bannerURL,
		DisplayOrder: max + 1,
	})
	if err != nil {
		return database.BannerSetting{}, fmt.Errorf("create banner: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return database.BannerSetting{}, fmt.Errorf("commit tx: %w", err)
	}
	return banner, nil
}

// Delete removes a banner and renumbers the remaining ones 0..N-1,
// preserving their relative order.
func (s *BannerService) Delete(ctx context.Context, id uuid.UUID) (database.BannerSetting, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return database.BannerSetting{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	banner, err := store.GetBanner(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return database.BannerSetting{}, ErrBannerNotFound
		}
		return database.BannerSetting{}, fmt.Errorf("get banner: %w", err)
	}

	if _, err := store.DeleteBanner(ctx, id); err != nil {
		return database.BannerSetting{}, fmt.Errorf("delete banner: %w", err)
	}

	// Remaining banners come back sorted by display_order; reassigning
	// 0..N-1 in that order closes the gap.
	remaining, err := store.ListBanners(ctx)
	if err != nil {
		return database.BannerSetting{}, fmt.Errorf("list banners: %w", err)
	}
	for i, b := range remaining {
		if b.DisplayOrder == int32(i) {
			continue
		}
		if err := store.SetBannerOrder(ctx, database.SetBannerOrderParams{
			DisplayOrder: int32(i),
			ID:           b.ID,
		}); err != nil {
			return database.BannerSetting{}, fmt.Errorf("renumber banner: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return database.BannerSetting{}, fmt.Errorf("commit tx: %w", err)
	}
	return banner, nil
}

// MoveTo repositions a banner to newOrder, shifting the banners in
// between by one. newOrder must be within [0, N-1].
func (s *BannerService) MoveTo(ctx context.Context, id uuid.UUID, newOrder int32) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	if err := moveTo(ctx, store, id, newOrder); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MoveUp moves a banner one position earlier. A banner already at the
// top stays where it is, matching the disabled up button in the admin
// panel.
func (s *BannerService) MoveUp(ctx context.Context, id uuid.UUID) error {
	return s.moveBy(ctx, id, -1)
}

// MoveDown moves a banner one position later. A banner already at the
// bottom stays where it is.
func (s *BannerService) MoveDown(ctx context.Context, id uuid.UUID) error {
	return s.moveBy(ctx, id, +1)
}

func (s *BannerService) moveBy(ctx context.Context, id uuid.UUID, delta int32) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	banner, err := store.GetBanner(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrBannerNotFound
		}
		return fmt.Errorf("get banner: %w", err)
	}

	err = moveTo(ctx, store, id, banner.DisplayOrder+delta)
	if errors.Is(err, ErrInvalidPosition) {
		// Boundary moves are no-ops.
		return nil
	}
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// moveTo shifts the range between the banner's old and new positions by
// one and assigns the banner its target order. Runs against a store
// already bound to the caller's transaction.
func moveTo(ctx context.Context, store BannerStore, id uuid.UUID, newOrder int32) error {
	banners, err := store.ListBanners(ctx)
	if err != nil {
		return fmt.Errorf("list banners: %w", err)
	}
	if newOrder < 0 || newOrder >= int32(len(banners)) {
		return ErrInvalidPosition
	}

	var moved *database.BannerSetting
	for i := range banners {
		if banners[i].ID == id {
			moved = &banners[i]
			break
		}
	}
	if moved == nil {
		return ErrBannerNotFound
	}

	oldOrder := moved.DisplayOrder
	if newOrder == oldOrder {
		return nil
	}

	for _, b := range banners {
		if b.ID == id {
			continue
		}
		var shifted int32
		switch {
		case newOrder < oldOrder && b.DisplayOrder >= newOrder && b.DisplayOrder < oldOrder:
			shifted = b.DisplayOrder + 1
		case newOrder > oldOrder && b.DisplayOrder > oldOrder && b.DisplayOrder <= newOrder:
			shifted = b.DisplayOrder - 1
		default:
			continue
		}
		if err := store.SetBannerOrder(ctx, database.SetBannerOrderParams{
			DisplayOrder: shifted,
			ID:           b.ID,
		}); err != nil {
			return fmt.Errorf("shift banner: %w", err)
		}
	}

	if err := store.SetBannerOrder(ctx, database.SetBannerOrderParams{
		DisplayOrder: newOrder,
		ID:           id,
	}); err != nil {
		return fmt.Errorf("move banner: %w", err)
	}
	return nil
}
