package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Ayoublby/full-store/internal/config"
	"github.com/Ayoublby/full-store/internal/httpserver"
	"github.com/Ayoublby/full-store/internal/imagestore"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := config.NewLogger(cfg).With().Str("service", "api").Logger()

	images, err := imagestore.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init image store")
	}

	products, err := productrepo.NewFile(cfg.ProductsFile, cfg.MirrorFile, images, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init product repository")
	}

	srv, err := httpserver.New(cfg.HTTPAddr, logger, httpserver.Deps{
		Products: products,
		Images:   images,
		SiteDir:  cfg.SiteDir,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
