package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/phonon-explorer/internal/api"
	"github.com/RMahshie/phonon-explorer/internal/catalog"
	"github.com/RMahshie/phonon-explorer/internal/config"
	"github.com/RMahshie/phonon-explorer/internal/phonon"
	"github.com/RMahshie/phonon-explorer/internal/plotting"
	"github.com/RMahshie/phonon-explorer/internal/repository"
	"github.com/RMahshie/phonon-explorer/internal/repository/csvtable"
	"github.com/RMahshie/phonon-explorer/internal/repository/postgres"
	"github.com/RMahshie/phonon-explorer/internal/storage"
	"github.com/RMahshie/phonon-explorer/pkg/models"
)

func main() {
	// Configure zerolog for structured logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if level, err := zerolog.ParseLevel(cfg.Server.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	ctx := context.Background()

	// Object storage is optional unless band files live there
	var s3Service storage.S3Service
	if cfg.AWS.S3Bucket != "" {
		s3Service, err = storage.NewS3Service(ctx, storage.S3Config{
			Bucket:    cfg.AWS.S3Bucket,
			Endpoint:  cfg.AWS.S3Endpoint,
			Region:    cfg.AWS.Region,
			AccessKey: cfg.AWS.AccessKeyID,
			SecretKey: cfg.AWS.SecretAccessKey,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 service")
		}
	}

	var source phonon.FileSource = storage.NewLocalSource(cfg.Phonon.DataDir)
	if cfg.Phonon.Source == config.SourceS3 {
		source = s3Service
	}

	cat, err := catalog.Load(cfg.Phonon.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Phonon.CatalogPath).Msg("Failed to load material catalog")
	}
	log.Info().Int("materials", len(cat.List())).Str("source", cfg.Phonon.Source).Msg("Material catalog loaded")

	tableRepo, closeTable, err := openTable(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Dataset.Backend).Msg("Failed to open dataset table")
	}
	defer closeTable()

	var store plotting.FigureStore
	if s3Service != nil {
		store = s3Service
	}
	plottingSvc := plotting.NewPlottingService(cat, source, store, cfg.Phonon.BranchLimit)

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Phonon Explorer API", "1.0.0")
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = "1.0.0"
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, plottingSvc, tableRepo)

	// Start server
	addr := ":" + cfg.Server.Port
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Server.Env).Msg("Starting Phonon Explorer API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// openTable opens the configured dataset table backend
func openTable(ctx context.Context, cfg *config.Config) (repository.TableRepository, func(), error) {
	switch cfg.Dataset.Backend {
	case config.BackendPostgres:
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to reach database: %w", err)
		}
		repo := postgres.NewPostgresTableRepository(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	default:
		repo, err := csvtable.Load(cfg.Dataset.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() {}, nil
	}
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("remote_ip", r.RemoteAddr).
					Int("status", ww.Status()).
					Dur("latency", time.Since(start)).
					Str("user_agent", r.UserAgent()).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
