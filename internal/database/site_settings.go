package database

import "context"

const getSetting = `
SELECT key, value, updated_at
FROM site_settings
WHERE key = $1
`

func (q *Queries) GetSetting(ctx context.Context, key string) (SiteSetting, error) {
	row := q.db.QueryRow(ctx, getSetting, key)
	var s SiteSetting
	err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}

const upsertSetting = `
INSERT INTO site_settings (key, value)
VALUES ($1, $2)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
RETURNING key, value, updated_at
`

type UpsertSettingParams struct {
	Key   string
	Value string
}

func (q *Queries) UpsertSetting(ctx context.Context, arg UpsertSettingParams) (SiteSetting, error) {
	row := q.db.QueryRow(ctx, upsertSetting, arg.Key, arg.Value)
	var s SiteSetting
	err := row.Scan(&s.Key, &s.Value, &s.UpdatedAt)
	return s, err
}
