package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Ayoublby/full-store/internal/config"
	"github.com/Ayoublby/full-store/internal/imagestore"
	"github.com/Ayoublby/full-store/internal/importer"
	productrepo "github.com/Ayoublby/full-store/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := config.NewLogger(cfg).With().Str("service", "importer").Logger()
	ctx := context.Background()

	images, err := imagestore.New(cfg.UploadDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init image store")
	}

	repo, err := productrepo.NewFile(cfg.ProductsFile, cfg.MirrorFile, images, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("init product repository")
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("open file")
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, repo)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("import failed")
	}

	fmt.Printf("Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
