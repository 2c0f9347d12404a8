package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhakabakes/api/internal/carousel"
	"github.com/dhakabakes/api/internal/config"
	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/enum"
	"github.com/dhakabakes/api/internal/handler"
	"github.com/dhakabakes/api/internal/media"
	mw "github.com/dhakabakes/api/internal/middleware"
	"github.com/dhakabakes/api/internal/notify"
	"github.com/dhakabakes/api/internal/service"
	"github.com/dhakabakes/api/internal/ws"
)

// New creates a Chi router with all application routes wired up.
// Storefront routes are public; everything under /admin requires a
// valid admin JWT.
func New(cfg *config.Config, queries *database.Queries, pool *pgxpool.Pool, hub *ws.Hub, rotator *carousel.Rotator, notifier *notify.Notifier) chi.Router {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))

	// Services that need transactional writes
	bannerService := service.NewBannerService(pool, func(db database.DBTX) service.BannerStore {
		return database.New(db)
	})
	saleService := service.NewSaleService(pool, func(db database.DBTX) service.SaleStore {
		return database.New(db)
	})
	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	})

	cloudinary := media.NewClient(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryUploadPreset,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
	)

	itemHandler := handler.NewItemHandler(queries)
	catalogHandler := handler.NewCatalogHandler(queries)
	saleHandler := handler.NewSaleHandler(queries, saleService)
	bannerHandler := handler.NewBannerHandler(queries, bannerService, rotator, hub)
	orderHandler := handler.NewOrderHandler(queries, orderService, notifier, hub)
	settingsHandler := handler.NewSettingsHandler(queries)
	mediaHandler := handler.NewMediaHandler(cloudinary)
	cartHandler := handler.NewCartHandler(queries, cfg.SessionSecret)

	// Public routes
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","version":"1.0.0"}`))
	})

	authHandler := handler.NewAuthHandler(queries, cfg.JWTSecret)
	authHandler.RegisterRoutes(r)

	r.Route("/catalog", catalogHandler.RegisterRoutes)
	r.Get("/banners", bannerHandler.List)
	r.Get("/logo", settingsHandler.GetLogo)
	r.Post("/orders", orderHandler.Place)
	r.Route("/cart", cartHandler.RegisterRoutes)

	// WebSocket routes (orders feed handles auth internally via query param)
	r.Get("/ws/carousel", ws.ServeCarouselWS(hub))
	r.Get("/ws/orders", ws.ServeOrdersWS(hub, cfg.JWTSecret))

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(mw.Authenticate(cfg.JWTSecret))
		r.Use(mw.RequireRole(enum.RoleAdmin))

		r.Route("/items", itemHandler.RegisterRoutes)
		r.Route("/sales", saleHandler.RegisterRoutes)
		r.Route("/banners", bannerHandler.RegisterAdminRoutes)
		r.Route("/orders", orderHandler.RegisterAdminRoutes)
		r.Get("/notifications/dead-letters", orderHandler.DeadLetters)

		r.Get("/logo", settingsHandler.GetLogo)
		r.Put("/logo", settingsHandler.UpdateLogo)

		r.Post("/media", mediaHandler.Upload)
		r.Delete("/media", mediaHandler.Delete)
	})

	return r
}
