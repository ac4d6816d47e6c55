package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vinnybad/choremander/internal/backup"
	"github.com/vinnybad/choremander/internal/config"
	"github.com/vinnybad/choremander/internal/database"
	"github.com/vinnybad/choremander/internal/logging"
	"github.com/vinnybad/choremander/internal/push"
	"github.com/vinnybad/choremander/internal/server"
	"github.com/vinnybad/choremander/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	st := store.New(db, logger.With("component", "store"))
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.Load(ctx); err != nil {
		logger.Error("failed to load state", "error", err)
		os.Exit(1)
	}

	srv := server.New(db, st, server.Config{
		RefreshInterval: cfg.RefreshInterval,
		Backup: backup.Config{
			Dir:           cfg.BackupDir,
			Passphrase:    cfg.BackupPassphrase,
			Interval:      cfg.BackupInterval,
			RetentionDays: cfg.BackupRetentionDays,
			S3: backup.S3Config{
				Endpoint:  cfg.S3Endpoint,
				Bucket:    cfg.S3Bucket,
				Region:    cfg.S3Region,
				AccessKey: cfg.S3AccessKey,
				SecretKey: cfg.S3SecretKey,
			},
		},
		Push: push.Config{
			VAPIDPublicKey:  cfg.VAPIDPublicKey,
			VAPIDPrivateKey: cfg.VAPIDPrivateKey,
		},
	}, logger)

	go srv.Coordinator().Run(ctx)
	go srv.BackupManager().Run(ctx)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("choremander listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
