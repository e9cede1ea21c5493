package main

import (
	"os"
	"time"

	"dream-journal/confs"
	"dream-journal/db"
	"dream-journal/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// load config
	cfg, err := confs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// connect to database Postgres
	database, err := db.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to DB")
	}

	// run server
	log.Info().Str("env", cfg.Env).Str("port", cfg.Port).Msg("starting server")
	srv := server.NewServer(database, cfg)
	srv.Start()
}
