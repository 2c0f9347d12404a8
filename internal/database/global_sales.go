package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listGlobalSales = `
SELECT id, name, description, discount_percentage, is_active, start_date, end_date, created_at, updated_at
FROM global_sales
ORDER BY created_at DESC
`

func (q *Queries) ListGlobalSales(ctx context.Context) ([]GlobalSale, error) {
	rows, err := q.db.Query(ctx, listGlobalSales)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []GlobalSale
	for rows.Next() {
		var s GlobalSale
		if err := rows.Scan(
			&s.ID,
			&s.Name,
			&s.Description,
			&s.DiscountPercentage,
			&s.IsActive,
			&s.StartDate,
			&s.EndDate,
			&s.CreatedAt,
			&s.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

const getGlobalSale = `
SELECT id, name, description, discount_percentage, is_active, start_date, end_date, created_at, updated_at
FROM global_sales
WHERE id = $1
`

func (q *Queries) GetGlobalSale(ctx context.Context, id uuid.UUID) (GlobalSale, error) {
	row := q.db.QueryRow(ctx, getGlobalSale, id)
	var s GlobalSale
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.DiscountPercentage,
		&s.IsActive,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

// GetActiveSale returns the single active sale. The updated_at ordering
// is the tie-break if bad data ever leaves two rows active: the most
// recently activated one wins.
const getActiveSale = `
SELECT id, name, description, discount_percentage, is_active, start_date, end_date, created_at, updated_at
FROM global_sales
WHERE is_active = TRUE
ORDER BY updated_at DESC
LIMIT 1
`

func (q *Queries) GetActiveSale(ctx context.Context) (GlobalSale, error) {
	row := q.db.QueryRow(ctx, getActiveSale)
	var s GlobalSale
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.DiscountPercentage,
		&s.IsActive,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const createGlobalSale = `
INSERT INTO global_sales (name, description, discount_percentage, start_date, end_date)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, discount_percentage, is_active, start_date, end_date, created_at, updated_at
`

type CreateGlobalSaleParams struct {
	Name               string
	Description        pgtype.Text
	DiscountPercentage int32
	StartDate          pgtype.Timestamptz
	EndDate            pgtype.Timestamptz
}

// CreateGlobalSale inserts a sale. New sales are born inactive.
func (q *Queries) CreateGlobalSale(ctx context.Context, arg CreateGlobalSaleParams) (GlobalSale, error) {
	row := q.db.QueryRow(ctx, createGlobalSale,
		arg.Name,
		arg.Description,
		arg.DiscountPercentage,
		arg.StartDate,
		arg.EndDate,
	)
	var s GlobalSale
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.DiscountPercentage,
		&s.IsActive,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const deactivateAllSales = `
UPDATE global_sales
SET is_active = FALSE, updated_at = now()
WHERE is_active = TRUE
`

func (q *Queries) DeactivateAllSales(ctx context.Context) error {
	_, err := q.db.Exec(ctx, deactivateAllSales)
	return err
}

const activateGlobalSale = `
UPDATE global_sales
SET is_active = TRUE, updated_at = now()
WHERE id = $1
RETURNING id, name, description, discount_percentage, is_active, start_date, end_date, created_at, updated_at
`

func (q *Queries) ActivateGlobalSale(ctx context.Context, id uuid.UUID) (GlobalSale, error) {
	row := q.db.QueryRow(ctx, activateGlobalSale, id)
	var s GlobalSale
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.DiscountPercentage,
		&s.IsActive,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const deactivateGlobalSale = `
UPDATE global_sales
SET is_active = FALSE, updated_at = now()
WHERE id = $1
RETURNING id, name, description, discount_percentage, is_active, start_date, end_date, created_at, updated_at
`

func (q *Queries) DeactivateGlobalSale(ctx context.Context, id uuid.UUID) (GlobalSale, error) {
	row := q.db.QueryRow(ctx, deactivateGlobalSale, id)
	var s GlobalSale
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.DiscountPercentage,
		&s.IsActive,
		&s.StartDate,
		&s.EndDate,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	return s, err
}

const deleteGlobalSale = `
DELETE FROM global_sales
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteGlobalSale(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteGlobalSale, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
