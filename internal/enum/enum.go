package enum

// ── Banner media types (CHECK constrained in DB) ──

const (
	BannerTypeImage = "image"
	BannerTypeVideo = "video"
)

// ── User roles (CHECK constrained in DB) ──

const (
	RoleAdmin = "admin"
)

// ── Site settings keys (no DB constraint) ──

const (
	SettingLogoURL = "logo_url"
)

// ── Currency ──

const (
	Currency = "BDT"
)
