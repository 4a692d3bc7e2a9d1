//	@title			Verdant API
//	@version		1.0
//	@description	Backend for Verdant — plant growth tracking.
//
//	@host		localhost:8080
//	@BasePath	/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Bearer token. Format: **Bearer {token}**

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/verdant/service/internal/config"
	"github.com/verdant/service/internal/db"
	appMiddleware "github.com/verdant/service/internal/middleware"
	"github.com/verdant/service/internal/note"
	"github.com/verdant/service/internal/photo"
	"github.com/verdant/service/internal/plant"
	"github.com/verdant/service/internal/storage"

	_ "github.com/verdant/service/docs/swagger"
)

func main() {
	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	store, err := storage.NewMinioStorage(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
	)
	if err != nil {
		log.Fatalf("object storage init failed: %v", err)
	}

	// Wire dependencies: repository → service → handler
	plantRepo := plant.NewRepository(pool)
	plantSvc := plant.NewService(plantRepo)
	plantHandler := plant.NewHandler(plantSvc, store)

	photoRepo := photo.NewRepository(pool)
	photoSvc := photo.NewService(photoRepo, store)
	photoHandler := photo.NewHandler(photoSvc, store)

	noteRepo := note.NewRepository(pool)
	noteSvc := note.NewService(noteRepo)
	noteHandler := note.NewHandler(noteSvc)

	// Router
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI — available at http://localhost:8080/swagger/
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RequireAuth(cfg.JWTSecret))

		r.Route("/plants", func(r chi.Router) {
			r.Get("/", plantHandler.List)
			r.Post("/", plantHandler.Create)
			r.Get("/{plantID}", plantHandler.Get)
			r.Patch("/{plantID}", plantHandler.Update)
			r.Post("/{plantID}/stages", photoHandler.AddStage)
			r.Post("/{plantID}/photos", photoHandler.Upload)
			r.Get("/{plantID}/notes", noteHandler.List)
			r.Post("/{plantID}/notes", noteHandler.Create)
		})

		r.Route("/photos", func(r chi.Router) {
			r.Patch("/{photoID}", photoHandler.Update)
			r.Delete("/{photoID}", photoHandler.Delete)
		})

		r.Route("/notes", func(r chi.Router) {
			r.Put("/{noteID}", noteHandler.Update)
			r.Delete("/{noteID}", noteHandler.Delete)
		})

		r.Get("/varieties", plantHandler.Varieties)
		r.Post("/varieties", plantHandler.CreateVariety)
		r.Get("/stages", plantHandler.Stages)
		r.Get("/locations", plantHandler.Locations)
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on :%s (env=%s)", cfg.Port, cfg.AppEnv)
		log.Printf("swagger UI at http://localhost:%s/swagger/", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}

	log.Println("server stopped")
}
