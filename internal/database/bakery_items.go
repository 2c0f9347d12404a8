package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const listBakeryItems = `
SELECT id, name, description, price, image_url, category, is_on_sale, sale_percentage, created_at, updated_at
FROM bakery_items
ORDER BY created_at DESC
`

func (q *Queries) ListBakeryItems(ctx context.Context) ([]BakeryItem, error) {
	rows, err := q.db.Query(ctx, listBakeryItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []BakeryItem
	for rows.Next() {
		var i BakeryItem
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Description,
			&i.Price,
			&i.ImageUrl,
			&i.Category,
			&i.IsOnSale,
			&i.SalePercentage,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

const getBakeryItem = `
SELECT id, name, description, price, image_url, category, is_on_sale, sale_percentage, created_at, updated_at
FROM bakery_items
WHERE id = $1
`

func (q *Queries) GetBakeryItem(ctx context.Context, id uuid.UUID) (BakeryItem, error) {
	row := q.db.QueryRow(ctx, getBakeryItem, id)
	var i BakeryItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ImageUrl,
		&i.Category,
		&i.IsOnSale,
		&i.SalePercentage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createBakeryItem = `
INSERT INTO bakery_items (name, description, price, image_url, category, is_on_sale, sale_percentage)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, name, description, price, image_url, category, is_on_sale, sale_percentage, created_at, updated_at
`

type CreateBakeryItemParams struct {
	Name           string
	Description    pgtype.Text
	Price          pgtype.Numeric
	ImageUrl       pgtype.Text
	Category       string
	IsOnSale       bool
	SalePercentage pgtype.Int4
}

func (q *Queries) CreateBakeryItem(ctx context.Context, arg CreateBakeryItemParams) (BakeryItem, error) {
	row := q.db.QueryRow(ctx, createBakeryItem,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.Category,
		arg.IsOnSale,
		arg.SalePercentage,
	)
	var i BakeryItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ImageUrl,
		&i.Category,
		&i.IsOnSale,
		&i.SalePercentage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateBakeryItem = `
UPDATE bakery_items
SET name = $1, description = $2, price = $3, image_url = $4, category = $5,
    is_on_sale = $6, sale_percentage = $7, updated_at = now()
WHERE id = $8
RETURNING id, name, description, price, image_url, category, is_on_sale, sale_percentage, created_at, updated_at
`

type UpdateBakeryItemParams struct {
	Name           string
	Description    pgtype.Text
	Price          pgtype.Numeric
	ImageUrl       pgtype.Text
	Category       string
	IsOnSale       bool
	SalePercentage pgtype.Int4
	ID             uuid.UUID
}

func (q *Queries) UpdateBakeryItem(ctx context.Context, arg UpdateBakeryItemParams) (BakeryItem, error) {
	row := q.db.QueryRow(ctx, updateBakeryItem,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.ImageUrl,
		arg.Category,
		arg.IsOnSale,
		arg.SalePercentage,
		arg.ID,
	)
	var i BakeryItem
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Description,
		&i.Price,
		&i.ImageUrl,
		&i.Category,
		&i.IsOnSale,
		&i.SalePercentage,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const deleteBakeryItem = `
DELETE FROM bakery_items
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteBakeryItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteBakeryItem, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
