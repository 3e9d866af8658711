package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"course-store/internal/config"
	"course-store/internal/domain"
	"course-store/internal/export"
	"course-store/internal/mappers"
	"course-store/internal/providers/scalev"
	"course-store/internal/sftpclient"
)

// exportcatalog dumps the normalized course catalog as CSV for
// marketing/reporting, optionally uploading it to the SFTP drop.
func main() {
	var (
		outPath    = flag.String("out", "COURSE-CATALOG.csv", "output csv path")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated CSV via SFTP")
	)
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	client, err := scalev.New(cfg.ScalevBaseURL, cfg.ScalevAPIKey, cfg.ScalevStoreID, logger)
	if err != nil {
		logger.Fatal("scalev client", zap.Error(err))
	}
	client.DetailWorkers = cfg.DetailWorkers

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("output dir", zap.Error(err))
		}
	}

	var courses []domain.Course
	products, err := client.Products(ctx)
	switch {
	case errors.Is(err, scalev.ErrNoProducts):
		logger.Warn("catalog is empty, writing header-only csv")
	case err != nil:
		logger.Fatal("fetch products", zap.Error(err))
	default:
		courses = mappers.CoursesFromProducts(products, logger)
	}

	if err := export.WriteCatalogCSVFile(*outPath, courses); err != nil {
		logger.Fatal("write csv", zap.Error(err))
	}
	logger.Info("catalog exported", zap.Int("courses", len(courses)), zap.String("path", *outPath))

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:      cfg.SFTPHost,
			Port:      cfg.SFTPPort,
			User:      cfg.SFTPUser,
			Pass:      cfg.SFTPPass,
			RemoteDir: cfg.SFTPDir,
		}

		upCtx, upCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(*outPath)
		if err := sftpclient.UploadFile(upCtx, upCfg, *outPath, remoteName); err != nil {
			logger.Fatal("sftp upload", zap.Error(err))
		}
		logger.Info("catalog uploaded",
			zap.String("host", upCfg.Host),
			zap.String("remote", filepath.Join(upCfg.RemoteDir, remoteName)))
	}
}
