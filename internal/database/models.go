package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BakeryItem is a catalog product. SalePercentage is set iff IsOnSale.
type BakeryItem struct {
	ID             uuid.UUID
	Name           string
	Description    pgtype.Text
	Price          pgtype.Numeric
	ImageUrl       pgtype.Text
	Category       string
	IsOnSale       bool
	SalePercentage pgtype.Int4
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GlobalSale is a site-wide discount. At most one row is active at a
// time; activation is enforced at the write boundary, not by a DB
// constraint.
type GlobalSale struct {
	ID                 uuid.UUID
	Name               string
	Description        pgtype.Text
	DiscountPercentage int32
	IsActive           bool
	StartDate          pgtype.Timestamptz
	EndDate            pgtype.Timestamptz
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BannerSetting is one carousel slide. DisplayOrder values are kept
// dense (0..N-1) by the banner service.
type BannerSetting struct {
	ID           uuid.UUID
	BannerType   string
	BannerUrl    string
	DisplayOrder int32
	CreatedAt    time.Time
}

// Order is an immutable customer order snapshot. ItemName and
// TotalAmount are frozen at submission time.
type Order struct {
	ID              uuid.UUID
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
	CreatedAt       time.Time
}

type AdminUser struct {
	ID             uuid.UUID
	Email          string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
}

type SiteSetting struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}
