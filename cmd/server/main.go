package main

import (
	"github.com/joho/godotenv"

	"mediascribe/internal/config"
	httpserver "mediascribe/internal/http"
	"mediascribe/internal/logger"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fallback := logger.New("info")
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New(cfg.LogLevel)

	srv, err := httpserver.NewServer(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	log.Info().Str("port", cfg.Port).Msg("starting server")
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}
