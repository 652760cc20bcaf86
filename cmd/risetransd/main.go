// Command risetransd serves rise, set, transit and lunar phase times over
// HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thurmanmarka/risetrans/internal/config"
	"github.com/thurmanmarka/risetrans/internal/logging"
	"github.com/thurmanmarka/risetrans/internal/server"
)

func main() {
	path := flag.String("config", os.Getenv("RISETRANS_CONFIG"), "path to a YAML or JSON config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Debug {
		cfg.Logger.Level = "debug"
	}

	logger, err := logging.New(cfg.Logger, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	log := logger.Logger

	log.Info().
		Str("config", cfg.Path).
		Float64("cadence", cfg.Transit.Cadence).
		Float64("polar_latitude", cfg.Transit.PolarLatitude).
		Str("rise_set_mode", cfg.Transit.RiseSetMode).
		Msg("configuration loaded")

	srv, err := server.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server gracefully stopped")
}
