package main

import (
	"flag"
	"os"

	"github.com/arhyth/ledgerxgo"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg ledgerxgo.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	srv := flag.String("server", "http://localhost:3000", "base URL of a running ledger server")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	sdr := ledgerxgo.NewSeeder(*srv, &logger)
	if err = sdr.Seed(cfg.Seed); err != nil {
		logger.Fatal().Err(err).Msg("error seeding accounts")
	}
}
