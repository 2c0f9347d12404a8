package database

import (
	"context"
	"fmt"
)

// Bootstrap creates the schema if it does not exist yet. Statements are
// idempotent so the server can run it unconditionally at startup.
func Bootstrap(ctx context.Context, db DBTX) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
		`CREATE TABLE IF NOT EXISTS bakery_items (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			description TEXT,
			price NUMERIC(12,2) NOT NULL CHECK (price > 0),
			image_url TEXT,
			category TEXT NOT NULL DEFAULT 'cakes',
			is_on_sale BOOLEAN NOT NULL DEFAULT FALSE,
			sale_percentage INTEGER CHECK (sale_percentage > 0 AND sale_percentage < 100),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			CHECK (is_on_sale = (sale_percentage IS NOT NULL))
		)`,
		`CREATE TABLE IF NOT EXISTS global_sales (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name TEXT NOT NULL,
			description TEXT,
			discount_percentage INTEGER NOT NULL CHECK (discount_percentage > 0 AND discount_percentage <= 100),
			is_active BOOLEAN NOT NULL DEFAULT FALSE,
			start_date TIMESTAMPTZ,
			end_date TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS banner_settings (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			banner_type TEXT NOT NULL CHECK (banner_type IN ('image', 'video')),
			banner_url TEXT NOT NULL,
			display_order INTEGER NOT NULL CHECK (display_order >= 0),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			order_id TEXT NOT NULL UNIQUE,
			item_id UUID REFERENCES bakery_items(id) ON DELETE SET NULL,
			item_name TEXT NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			total_amount NUMERIC(12,2) NOT NULL,
			customer_name TEXT NOT NULL,
			customer_email TEXT NOT NULL,
			customer_phone TEXT NOT NULL,
			customer_address TEXT NOT NULL,
			special_notes TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email TEXT NOT NULL UNIQUE,
			hashed_password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'admin' CHECK (role IN ('admin')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS site_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
