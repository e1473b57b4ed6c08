// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/togetherdine/server/internal/database"
	"github.com/togetherdine/server/internal/handler"
	"github.com/togetherdine/server/internal/service"
	"github.com/togetherdine/server/internal/store"
)

func main() {
	ctx := context.Background()

	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	// ── 1. Pick a store backend ───────────────────────────────────────────
	st, err := newStore(ctx)
	if err != nil {
		log.Fatalf("store: %v", err)
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	userSvc := service.NewUserService(st)
	restaurantSvc := service.NewRestaurantService(st)
	invitationSvc := service.NewInvitationService(st)

	userHandler := handler.NewUserHandler(userSvc)
	restaurantHandler := handler.NewRestaurantHandler(restaurantSvc)
	invitationHandler := handler.NewInvitationHandler(invitationSvc)

	// ── 3. Build the router ───────────────────────────────────────────────
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.Recoverer) // recover from panics, return 500
	r.Use(chimiddleware.RequestID) // attach request IDs
	r.Use(chimiddleware.RealIP)    // trust X-Forwarded-For
	r.Use(handler.Logger)          // structured access log
	r.Use(handler.CORS)            // permissive CORS for demo

	// Health
	r.Get("/health", handler.HealthCheck)

	// API routes
	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.Upsert)
		r.Get("/", userHandler.List)
		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}/availabilities", userHandler.SetAvailabilities)
		r.Get("/{id}/availabilities", userHandler.GetAvailabilities)
	})
	r.Route("/restaurants", func(r chi.Router) {
		r.Post("/", restaurantHandler.Upsert)
		r.Get("/", restaurantHandler.List)
		r.Get("/{id}", restaurantHandler.Get)
	})
	r.Route("/invitations", func(r chi.Router) {
		r.Post("/", invitationHandler.Build)
		r.Get("/", invitationHandler.List)
		r.Get("/{id}", invitationHandler.Get)
		r.Post("/{id}/confirm", invitationHandler.Confirm)
		r.Post("/{id}/votes", invitationHandler.CastVote)
		r.Get("/{id}/votes", invitationHandler.ListVotes)
		r.Get("/{id}/calendar-event", invitationHandler.GetCalendarEvent)
	})

	// Static HTML – serve the web/ directory at the root (demo form UI).
	webFS := http.Dir("./web")
	r.Handle("/*", http.FileServer(webFS))

	// ── 4. Start server with graceful shutdown ────────────────────────────
	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Run in background goroutine so we can listen for shutdown signal.
	go func() {
		log.Printf("✓ Server listening on http://localhost:%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Block until SIGINT or SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server…")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
	log.Println("server stopped")
}

// newStore selects the store backend from the STORE environment
// variable: memory (default), postgres, or redis.
func newStore(ctx context.Context) (store.Store, error) {
	switch backend := getEnv("STORE", "memory"); backend {
	case "memory":
		log.Println("✓ Using in-memory store")
		return store.NewMemory(), nil
	case "postgres":
		pool, err := database.NewPool(ctx, database.ConfigFromEnv())
		if err != nil {
			return nil, err
		}
		log.Println("✓ Connected to PostgreSQL")
		return store.NewPostgres(ctx, pool)
	case "redis":
		st, err := store.NewRedis(ctx, getEnv("REDIS_ADDR", "localhost:6379"))
		if err != nil {
			return nil, err
		}
		log.Println("✓ Connected to Redis")
		return st, nil
	default:
		return nil, fmt.Errorf("unknown STORE backend %q", backend)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
