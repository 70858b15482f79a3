package main

import (
	"context"

	"github.com/kartik220803/image-analyzer/src/analyses"
	"github.com/kartik220803/image-analyzer/src/config"
	"github.com/kartik220803/image-analyzer/src/db"
	"github.com/kartik220803/image-analyzer/src/server"
	"github.com/kartik220803/image-analyzer/src/storage"
	"github.com/kartik220803/image-analyzer/src/users"
	"github.com/kartik220803/image-analyzer/src/vision"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Msgf("failed to load config: %v", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	conn, err := db.Init(cfg)
	if err != nil {
		log.Fatal().Msgf("failed to connect to postgres: %v", err)
	}
	defer conn.Close()

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal().Msgf("failed to create schema: %v", err)
	}

	ctx := context.Background()
	annotator, err := vision.NewClient(ctx, cfg.GoogleCredentials)
	if err != nil {
		log.Fatal().Msgf("failed to create vision client: %v", err)
	}
	defer annotator.Close()

	blobs := storage.New(storage.Config{
		Endpoint:      cfg.StorageEndpoint,
		Region:        cfg.StorageRegion,
		AccessKey:     cfg.StorageAccessKey,
		SecretKey:     cfg.StorageSecretKey,
		Bucket:        cfg.StorageBucket,
		PublicBaseURL: cfg.StoragePublicURL,
	})

	userStore := users.NewPGStore(conn)
	analysisStore := analyses.NewPGStore(conn)
	retention := analyses.NewPolicy(analysisStore, blobs)

	s := server.NewServe(userStore, analysisStore, blobs, annotator, retention, []byte(cfg.JWTSecret))
	if err := s.Init(cfg.Port); err != nil {
		log.Error().Msgf("server stopped: %v", err)
	}
}
