package main

import (
	"context"

	"github.com/joho/godotenv"

	"github.com/Ayoublby/full-store/internal/config"
	"github.com/Ayoublby/full-store/internal/imagestore"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
	"github.com/Ayoublby/full-store/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := config.NewLogger(cfg).With().Str("service", "seed").Logger()

	images, err := imagestore.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init image store")
	}

	repo, err := productrepo.NewFile(cfg.ProductsFile, cfg.MirrorFile, images, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init product repository")
	}

	count, err := seed.Apply(context.Background(), repo)
	if err != nil {
		logger.Fatal().Err(err).Msg("seed failed")
	}
	if count == 0 {
		logger.Info().Msg("store already seeded, nothing to do")
		return
	}
	logger.Info().Int("count", count).Msg("starter catalog written")
}
