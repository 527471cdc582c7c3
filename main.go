package main

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/averyhm/photowellbackend/config"
	"github.com/averyhm/photowellbackend/database"
	"github.com/averyhm/photowellbackend/handlers"
	"github.com/averyhm/photowellbackend/media"
	"github.com/averyhm/photowellbackend/repository"
	"github.com/averyhm/photowellbackend/services"
	"github.com/averyhm/photowellbackend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatalf("FATAL: Failed to create indexes: %v", err)
	}

	albumRepo := repository.NewAlbumRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	prefRepo := repository.NewPreferenceRepository(db)

	prefService := services.NewPreferenceService(prefRepo)
	albumService := services.NewAlbumService(db, albumRepo, photoRepo, prefService, cfg.MinAlbumYear)
	importService := services.NewImportService(
		db,
		albumService,
		photoRepo,
		media.NewExifExtractor(),
		media.NewImagingGenerator(),
		prefService,
		cfg.MaxFileSizeBytes,
		cfg.ThumbnailMaxSize,
	)

	log.Printf("Initializing thumbnail backfill pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
	backfiller := workers.NewThumbnailBackfiller(photoRepo, media.NewImagingGenerator(), cfg.ThumbnailMaxSize, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
	defer backfiller.Stop()

	if _, err := backfiller.QueueMissing(); err != nil {
		log.Printf("Warning: could not queue thumbnail backfill at startup: %v", err)
	}

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{cfg.UIOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	albumHandler := &handlers.AlbumHandler{Albums: albumService}
	photoHandler := &handlers.PhotoHandler{Importer: importService, Backfill: backfiller}
	prefHandler := &handlers.PreferenceHandler{Prefs: prefService}

	r.Route("/api", func(r chi.Router) {
		r.Route("/albums", func(r chi.Router) {
			r.Get("/", albumHandler.ListAlbums)
			r.Post("/", albumHandler.CreateAlbum)
			r.Put("/order", albumHandler.ReorderAlbums)
			r.Route("/{album_id}", func(r chi.Router) {
				r.Get("/", albumHandler.GetAlbum)
				r.Delete("/", albumHandler.DeleteAlbum)
				r.Put("/order", albumHandler.UpdateAlbumOrder)
				r.Post("/merge", albumHandler.MergeAlbums)
				r.Get("/photos", photoHandler.ListAlbumPhotos)
			})
		})

		r.Route("/photos", func(r chi.Router) {
			r.Post("/import", photoHandler.ImportPhotos)
			r.Route("/{photo_id}", func(r chi.Router) {
				r.Delete("/", photoHandler.DeletePhoto)
				r.Get("/thumbnail", photoHandler.ServeThumbnail)
			})
		})

		r.Route("/preferences", func(r chi.Router) {
			r.Get("/", prefHandler.ListPreferences)
			r.Route("/{key}", func(r chi.Router) {
				r.Get("/", prefHandler.GetPreference)
				r.Put("/", prefHandler.SetPreference)
			})
		})

		r.Post("/maintenance/thumbnails/rescan", photoHandler.RescanThumbnails)
	})

	log.Printf("Using database: %s", cfg.DatabasePath)
	log.Printf("Server listening on %s", cfg.ListenAddr)
	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
