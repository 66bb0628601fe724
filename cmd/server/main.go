package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/screenerhq/screener/internal/adapters/http"
	"github.com/screenerhq/screener/internal/adapters/redisstore"
	"github.com/screenerhq/screener/internal/adapters/storage"
	"github.com/screenerhq/screener/internal/app"
	"github.com/screenerhq/screener/internal/app/orch"
	"github.com/screenerhq/screener/internal/config"
	"github.com/screenerhq/screener/internal/videos"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	store, err := redisstore.New(cfg.RedisAddr)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect video catalog")
	}
	defer store.Close()

	blobs, err := storage.NewDiskStore(cfg.MediaDir, cfg.MediaBase)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open media dir")
	}

	svc := videos.NewService(store, blobs)

	o := &orch.Orchestrator{
		Registry: app.NewRegistry(),
		Rooms:    app.NewRooms(),
	}

	r := router.SetupRouter(ctx, cfg, o, svc)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Screener server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
