package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dhakabakes/api/internal/carousel"
	"github.com/dhakabakes/api/internal/config"
	"github.com/dhakabakes/api/internal/database"
	"github.com/dhakabakes/api/internal/notify"
	"github.com/dhakabakes/api/internal/router"
	"github.com/dhakabakes/api/internal/ws"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	if err := database.Bootstrap(ctx, pool); err != nil {
		log.Fatalf("Failed to bootstrap schema: %v", err)
	}

	queries := database.New(pool)

	hub := ws.NewHub()
	go hub.Run()

	notifier := notify.New(cfg.OrderWebhookURL)
	if cfg.OrderWebhookURL == "" {
		log.Println("ORDER_WEBHOOK_URL not set; order notifications disabled")
	}

	// Server-driven carousel: pushes the current slide index to
	// storefront subscribers every rotation.
	rotator := carousel.New(carousel.DefaultInterval, func(index int) {
		payload, err := json.Marshal(map[string]int{"index": index})
		if err != nil {
			return
		}
		hub.Broadcast(ws.TopicCarousel, ws.Event{Type: "carousel_advanced", Payload: payload})
	})

	banners, err := queries.ListBanners(ctx)
	if err != nil {
		log.Fatalf("Failed to load banners: %v", err)
	}
	rotator.SetCount(len(banners))
	rotator.Start()
	defer rotator.Stop()

	r := router.New(cfg, queries, pool, hub, rotator, notifier)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.Fatal(err)
	}
}
