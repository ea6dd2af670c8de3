package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkalisz/keepsake/internal/auth"
	"github.com/mkalisz/keepsake/internal/blobstore/local"
	"github.com/mkalisz/keepsake/internal/config"
	"github.com/mkalisz/keepsake/internal/db"
	"github.com/mkalisz/keepsake/internal/logging"
	"github.com/mkalisz/keepsake/internal/realtime"
	"github.com/mkalisz/keepsake/internal/service"
	"github.com/mkalisz/keepsake/internal/store"
	"github.com/mkalisz/keepsake/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	blobs, err := local.NewLocalStore(cfg.UploadPath)
	if err != nil {
		logger.Error("failed to initialize upload store", "error", err)
		return
	}

	hub := realtime.NewHub(logger)
	defer hub.Close()

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	photoStore := store.NewPhotoStore(database)

	services := web.Services{
		Auth:    service.NewAuthService(store.NewUserStore(database), tokens, logger),
		Gallery: service.NewGalleryService(photoStore, blobs, hub, logger),
		Stories: service.NewStoryService(store.NewStoryStore(database), hub, logger),
		Notes:   service.NewNoteService(store.NewNoteStore(database), hub, logger),
		Albums:  service.NewAlbumService(store.NewAlbumStore(database), photoStore, hub, logger),
		Letters: service.NewLetterService(store.NewLetterStore(database), hub, logger),
		Bucket:  service.NewBucketService(store.NewBucketStore(database), hub, logger),
		Journal: service.NewJournalService(store.NewJournalStore(database), blobs, hub, logger),
	}

	server := web.NewServer(services, hub, blobs, tokens, cfg.ClientOrigin, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe(cfg.ListenAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}
}
