package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmgate/internal/auth"
	"farmgate/internal/cache"
	"farmgate/internal/database/postgresql"
	"farmgate/internal/events"
	"farmgate/internal/handlers/labor"
	"farmgate/internal/handlers/listings"
	"farmgate/internal/handlers/prefs"
	"farmgate/internal/handlers/uploads"
	"farmgate/internal/idempotency"
	"farmgate/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
)

type application struct {
	config        config
	conn          *pgxpool.Pool
	cache         *cache.RedisClient
	authenticator *auth.Authenticator
	storage       storage.Provider
	eventBus      events.Bus
	logger        *slog.Logger
}

type config struct {
	events         *events.EventConfig
	frontend       string
	addr           string
	publicFilesURL string
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{app.config.frontend},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))
	slog.Info("Allowed origins", "origin", app.config.frontend)

	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	idempotencyStore := idempotency.NewStore(app.cache)

	repo := postgresql.New(app.conn)
	eventHandler := events.NewEventHandler(app.eventBus, app.config.events, app.logger)

	listingsService := listings.NewListingsService(repo, app.conn, app.logger, app.cache, eventHandler)
	listingsHandler := listings.NewListingsHandler(listingsService)

	uploadsService := uploads.NewUploadsService(app.storage, app.config.publicFilesURL, app.logger)
	uploadsHandler := uploads.NewUploadsHandler(uploadsService)

	laborHandler := labor.NewLaborHandler(labor.NewStore())
	prefsHandler := prefs.NewPrefsHandler(prefs.NewRedisStore(app.cache, app.logger))

	r.Group(func(r chi.Router) {
		// Public routes
		r.Use(middleware.Recoverer)

		r.Get("/listings", listingsHandler.GetListings)
		r.Get("/listings/search", listingsHandler.SearchListings)
		r.Get("/listings/{id}", listingsHandler.GetListingByID)
		r.Post("/listings/{id}/views", listingsHandler.IncrementListingView)

		r.Get("/laborers", laborHandler.ListLaborers)
		r.Get("/groups", laborHandler.ListGroups)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Recoverer)
		r.Use(idempotency.Idempotency(idempotencyStore))

		// Authenticated routes
		r.Use(app.authenticator.Middleware)

		r.Post("/listings", listingsHandler.CreateListing)
		r.Put("/listings/{id}", listingsHandler.UpdateListing)
		r.Delete("/listings/{id}", listingsHandler.DeleteListing)
		r.Patch("/listings/{id}/status", listingsHandler.ChangeListingStatus)

		r.Post("/listings/{id}/save", listingsHandler.SaveListing)
		r.Delete("/listings/{id}/save", listingsHandler.UnsaveListing)
		r.Get("/saved", listingsHandler.GetSavedListings)

		r.Post("/listings/images", uploadsHandler.UploadListingImages)
		r.Post("/files/presign", uploadsHandler.PresignUpload)

		r.Get("/preferences", prefsHandler.GetPreferences)
		r.Put("/preferences", prefsHandler.PutPreferences)

		r.Post("/groups", laborHandler.CreateGroup)
		r.Post("/groups/{id}/join", laborHandler.JoinGroup)
		r.Post("/laborers/{id}/book", laborHandler.RequestBooking)
		r.Get("/bookings", laborHandler.MyBookings)
	})

	return r
}

func (app *application) run(h http.Handler) error {
	svr := &http.Server{
		Addr:         app.config.addr,
		Handler:      h,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute * 1,
	}

	slog.Info("Starting server on " + app.config.addr)
	go func() {
		if err := svr.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		log.Fatal("Server Forced to Shutdown:", err)
		return err
	}

	// Drain lets in-flight publishes finish before the connection closes.
	if err := app.eventBus.Drain(); err != nil {
		log.Fatal("NATS Drain failed:", err)
		return err
	}

	app.conn.Close()

	if err := app.cache.Close(); err != nil {
		log.Fatal("Redis Close failed:", err)
		return err
	}

	log.Println("Server Exited Properly")
	return nil
}
