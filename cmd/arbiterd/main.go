package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/cometbft/cometbft/abci/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cangkulan/arbiter/internal/app"
	"cangkulan/arbiter/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "arbiterd",
		Short:         "Cangkulan arbiter ABCI node",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runArbiterd,
	}
	config.BindFlags(cmd)
	return cmd
}

func runArbiterd(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)

	a, err := app.NewWithLogger(cfg.Home, logger)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	a.BootstrapCollaborators(cfg.Hub, cfg.UltraHonk)

	srv, err := server.NewServer(cfg.Addr, cfg.Transport, a)
	if err != nil {
		return fmt.Errorf("start abci server: %w", err)
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("abci server start: %w", err)
	}
	defer func() { _ = srv.Stop() }()

	logger.Info().Str("addr", cfg.Addr).Str("transport", cfg.Transport).Str("home", cfg.Home).Msg("arbiterd listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info().Msg("arbiterd shutting down")
	return nil
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stderr).With().Timestamp().Logger()
}
