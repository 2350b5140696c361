package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/amirjon-1/interview-backend/internal/config"
	"github.com/amirjon-1/interview-backend/internal/handler"
	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	"github.com/amirjon-1/interview-backend/internal/service/auth"
	"github.com/amirjon-1/interview-backend/internal/service/export"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.Auth.Enabled() {
		log.Fatal("JWT_SECRET is required")
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	// Primary store: database when configured, in-memory fallback otherwise.
	var store interview.Store
	if cfg.Database.Enabled() {
		db, err := cfg.Database.Open()
		if err != nil {
			logg.Fatal("failed to open database", "error", err)
		}
		gormStore := interview.NewGormStore(db)
		if err := gormStore.AutoMigrate(); err != nil {
			logg.Fatal("failed to migrate database", "error", err)
		}
		store = gormStore
		logg.Info("primary store ready", "driver", cfg.Database.Driver)
	} else {
		logg.Warn("no database configured, interview records are held in memory only")
		store = interview.NewMemoryStore()
	}

	// Object storage is best-effort end to end: a missing bucket only
	// disables the sink.
	var objects export.ObjectStore
	if cfg.Storage.Enabled() {
		gcs, err := export.NewGCSStore(ctx, cfg.Storage.Bucket)
		if err != nil {
			logg.Warn("failed to initialize object storage, continuing without it", "error", err)
		} else {
			objects = gcs
			defer gcs.Close()
			logg.Info("object storage ready", "bucket", cfg.Storage.Bucket)
		}
	} else {
		logg.Info("object storage not configured")
	}

	backup := export.NewBackupDir(cfg.Backup.Dir)
	exportSvc := export.NewService(store, backup, objects, logg)
	authSvc := auth.NewService(cfg.Auth.Secret)

	router := handler.NewRouter(authSvc, exportSvc, store, logg)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("interview backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
