package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/arhyth/ledgerxgo"
	"github.com/bwmarrin/snowflake"
	"gopkg.in/yaml.v3"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg ledgerxgo.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	if cfg.Server.LogLevel != "" {
		lvl, err := zerolog.ParseLevel(cfg.Server.LogLevel)
		if err != nil {
			logger.Fatal().Err(err).Msg("error parsing log level")
		}
		zerolog.SetGlobalLevel(lvl)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting snowflake node")
	}

	ledger := ledgerxgo.NewLedger()
	var svc ledgerxgo.Service = ledgerxgo.NewService(ledger, &logger)
	limits := ledgerxgo.NewServiceLimits(cfg.Limits)
	brkrs := ledgerxgo.NewServiceBreaker(cfg.Breaker)
	for _, mw := range []ledgerxgo.Middleware{
		ledgerxgo.NewLimitMiddleware(limits, time.Duration(cfg.Limits.TimeoutMS)*time.Millisecond),
		ledgerxgo.NewCircuitBreakMiddleware(brkrs),
	} {
		svc = mw(svc)
	}
	hndlr := ledgerxgo.NewHTTPHandler(svc, node, &logger)

	addr := cfg.Server.Addr
	if addr == "" {
		addr = ":3000"
	}
	logger.Info().Str("addr", addr).Msg("listening")
	if err = http.ListenAndServe(addr, hndlr); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
