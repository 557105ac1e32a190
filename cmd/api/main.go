//	@title			ImageDrop API
//	@version		1.0
//	@description	Minimal image upload service backed by S3-compatible object storage.
//
//	@host		localhost:8080
//	@BasePath	/

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/imagedrop/service/internal/config"
	"github.com/imagedrop/service/internal/logger"
	"github.com/imagedrop/service/internal/server"
	"github.com/imagedrop/service/internal/storage"
	"github.com/imagedrop/service/internal/upload"

	_ "github.com/imagedrop/service/docs/swagger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet at this point.
		os.Stderr.WriteString("configuration error: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.IsProduction())

	store, err := storage.NewMinioStore(
		cfg.StorageEndpoint,
		cfg.StorageAccessKey,
		cfg.StorageSecretKey,
		cfg.StorageBucket,
		cfg.StoragePublicBase,
		cfg.StorageUseSSL,
		cfg.URLPolicy == config.URLPolicyPublic,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("object storage init failed")
	}

	// Wire dependencies: storage → service → handler
	uploadSvc := upload.NewService(store, cfg, log)
	uploadHandler := upload.NewHandler(uploadSvc, log)

	r := server.NewRouter(cfg, uploadHandler, log)

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
		log.Info().Str("port", cfg.Port).Str("env", cfg.AppEnv).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-quit
	log.Info().Msg("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	log.Info().Msg("server stopped")
}
