package main

import (
	"context"
	"os"

	_ "github.com/jimmicro/version"
	"github.com/jimyag/taxo/internal/taxo"
	"github.com/jimyag/taxo/internal/taxo/config"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.New(os.Getenv("TAXO_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create config")
	}
	server, err := taxo.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}
	if err := server.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run server")
	}
}
