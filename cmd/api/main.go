package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/tripcrew/tripsplit/docs"
	"github.com/tripcrew/tripsplit/internal/config"
	"github.com/tripcrew/tripsplit/internal/database"
	"github.com/tripcrew/tripsplit/internal/receipt"
	"github.com/tripcrew/tripsplit/internal/shares"
	"github.com/tripcrew/tripsplit/internal/trip"
	"github.com/tripcrew/tripsplit/pkg/logging"
	"github.com/tripcrew/tripsplit/pkg/metrics"
	mw "github.com/tripcrew/tripsplit/pkg/middleware"
)

// @title           Tripsplit API
// @version         1.0
// @description     Cost-sharing backend for trip planning: receipts record how one expense was split across named participants, and settlements net all debts per participant pair.
// @BasePath        /api/v1
func main() {
	logging.Setup()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("Connected to database")

	// Trip feature
	tripRepo := trip.NewRepository(db)
	tripService := trip.NewService(tripRepo)
	tripHandler := trip.NewHandler(tripService)

	// Receipt feature (trip repo doubles as the trip directory)
	receiptRepo := receipt.NewRepository(db)
	receiptService := receipt.NewService(receiptRepo, tripRepo)
	receiptHandler := receipt.NewHandler(receiptService)

	// Share-editing endpoints (stateless)
	sharesHandler := shares.NewHandler()

	r := chi.NewRouter()

	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(mw.Identity)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", metrics.Handler())
	r.Get("/swagger/*", httpSwagger.Handler())

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/trips", tripHandler.Routes())
		r.Mount("/receipts", receiptHandler.Routes())
		r.Mount("/shares", sharesHandler.Routes())
	})

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	slog.Info("Server starting", "port", port)
	if err := http.ListenAndServe(":"+port, r); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
