package database

import (
	"context"

	"github.com/google/uuid"
)

const listBanners = `
SELECT id, banner_type, banner_url, display_order, created_at
FROM banner_settings
ORDER BY display_order ASC
`

func (q *Queries) ListBanners(ctx context.Context) ([]BannerSetting, error) {
	rows, err := q.db.Query(ctx, listBanners)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var banners []BannerSetting
	for rows.Next() {
		var b BannerSetting
		if err := rows.Scan(&b.ID, &b.BannerType, &b.BannerUrl, &b.DisplayOrder, &b.CreatedAt); err != nil {
			return nil, err
		}
		banners = append(banners, b)
	}
	return banners, rows.Err()
}

const getBanner = `
SELECT id, banner_type, banner_url, display_order, created_at
FROM banner_settings
WHERE id = $1
`

func (q *Queries) GetBanner(ctx context.Context, id uuid.UUID) (BannerSetting, error) {
	row := q.db.QueryRow(ctx, getBanner, id)
	var b BannerSetting
	err := row.Scan(&b.ID, &b.BannerType, &b.BannerUrl, &b.DisplayOrder, &b.CreatedAt)
	return b, err
}

const createBanner = `
INSERT INTO banner_settings (banner_type, banner_url, display_order)
VALUES ($1, $2, $3)
RETURNING id, banner_type, banner_url, display_order, created_at
`

type CreateBannerParams struct {
	BannerType   string
	BannerUrl    string
	DisplayOrder int32
}

func (q *Queries) CreateBanner(ctx context.Context, arg CreateBannerParams) (BannerSetting, error) {
	row := q.db.QueryRow(ctx, createBanner, arg.BannerType, arg.BannerUrl, arg.DisplayOrder)
	var b BannerSetting
	err := row.Scan(&b.ID, &b.BannerType, &b.BannerUrl, &b.DisplayOrder, &b.CreatedAt)
	return b, err
}

const deleteBanner = `
DELETE FROM banner_settings
WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteBanner(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteBanner, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

const setBannerOrder = `
UPDATE banner_settings
SET display_order = $1
WHERE id = $2
`

type SetBannerOrderParams struct {
	DisplayOrder int32
	ID           uuid.UUID
}

func (q *Queries) SetBannerOrder(ctx context.Context, arg SetBannerOrderParams) error {
	_, err := q.db.Exec(ctx, setBannerOrder, arg.DisplayOrder, arg.ID)
	return err
}

// MaxBannerOrder returns -1 for an empty collection so insert can
// always use max+1.
const maxBannerOrder = `
SELECT COALESCE(MAX(display_order), -1)::int
FROM banner_settings
`

func (q *Queries) MaxBannerOrder(ctx context.Context) (int32, error) {
	row := q.db.QueryRow(ctx, maxBannerOrder)
	var max int32
	err := row.Scan(&max)
	return max, err
}
