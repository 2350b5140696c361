package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/amirjon-1/interview-backend/internal/config"
	"github.com/amirjon-1/interview-backend/internal/model/interview"
	"github.com/amirjon-1/interview-backend/internal/pkg/logger"
	"github.com/amirjon-1/interview-backend/internal/service/export"
	"github.com/amirjon-1/interview-backend/internal/service/reconcile"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	if len(os.Args) < 2 {
		log.Println("usage: reconcile <owner-user-id>")
		log.Println("provide the user id (UUID) to associate the backup transcripts with")
		os.Exit(1)
	}

	owner, err := uuid.Parse(os.Args[1])
	if err != nil {
		log.Fatalf("invalid owner user id %q: %v", os.Args[1], err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.Database.Enabled() {
		log.Fatal("reconciliation requires a database, set DB_DRIVER")
	}

	logg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logg.Sync()

	db, err := cfg.Database.Open()
	if err != nil {
		logg.Fatal("failed to open database", "error", err)
	}
	store := interview.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		logg.Fatal("failed to migrate database", "error", err)
	}

	backup := export.NewBackupDir(cfg.Backup.Dir)
	svc := reconcile.NewService(store, backup, logg)

	summary, err := svc.Run(ctx, owner)
	if err != nil {
		logg.Fatal("reconciliation aborted", "owner", owner.String(), "error", err)
	}

	logg.Info("reconciliation complete",
		"owner", owner.String(),
		"discovered", summary.Discovered,
		"uploaded", summary.Uploaded,
	)
}
