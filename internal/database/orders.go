package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (order_id, item_id, item_name, quantity, total_amount,
	customer_name, customer_email, customer_phone, customer_address, special_notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, order_id, item_id, item_name, quantity, total_amount,
	customer_name, customer_email, customer_phone, customer_address, special_notes, created_at
`

type CreateOrderParams struct {
	OrderID         string
	ItemID          pgtype.UUID
	ItemName        string
	Quantity        int32
	TotalAmount     pgtype.Numeric
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	SpecialNotes    pgtype.Text
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.OrderID,
		arg.ItemID,
		arg.ItemName,
		arg.Quantity,
		arg.TotalAmount,
		arg.CustomerName,
		arg.CustomerEmail,
		arg.CustomerPhone,
		arg.CustomerAddress,
		arg.SpecialNotes,
	)
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderID,
		&o.ItemID,
		&o.ItemName,
		&o.Quantity,
		&o.TotalAmount,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.CustomerAddress,
		&o.SpecialNotes,
		&o.CreatedAt,
	)
	return o, err
}

const listOrders = `
SELECT id, order_id, item_id, item_name, quantity, total_amount,
	customer_name, customer_email, customer_phone, customer_address, special_notes, created_at
FROM orders
ORDER BY created_at DESC
`

func (q *Queries) ListOrders(ctx context.Context) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(
			&o.ID,
			&o.OrderID,
			&o.ItemID,
			&o.ItemName,
			&o.Quantity,
			&o.TotalAmount,
			&o.CustomerName,
			&o.CustomerEmail,
			&o.CustomerPhone,
			&o.CustomerAddress,
			&o.SpecialNotes,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const getOrder = `
SELECT id, order_id, item_id, item_name, quantity, total_amount,
	customer_name, customer_email, customer_phone, customer_address, special_notes, created_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	row := q.db.QueryRow(ctx, getOrder, id)
	var o Order
	err := row.Scan(
		&o.ID,
		&o.OrderID,
		&o.ItemID,
		&o.ItemName,
		&o.Quantity,
		&o.TotalAmount,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.CustomerPhone,
		&o.CustomerAddress,
		&o.SpecialNotes,
		&o.CreatedAt,
	)
	return o, err
}

const deleteOrder = `
DELETE FROM orders
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteOrder(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteOrder, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}
