// Package config loads arbiterd's instance configuration: ABCI listen
// address, state home directory, and the external collaborator
// endpoints (hub, ultrahonk) an operator wires in before handing the
// node its first admin/set_hub transaction.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the instance-scoped configuration for a single arbiterd
// process. It never carries per-session game state — that lives in
// internal/state and is only ever touched through ABCI transactions.
type Config struct {
	Home      string `mapstructure:"home"`
	Addr      string `mapstructure:"addr"`
	Transport string `mapstructure:"transport"`

	Hub       string `mapstructure:"hub"`
	UltraHonk string `mapstructure:"ultrahonk"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

const envPrefix = "ARBITER"

// BindFlags registers the flags Load reads from onto cmd.
func BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("home", ".arbiter", "app home directory (state is stored under <home>/app)")
	flags.String("addr", "tcp://127.0.0.1:26658", "ABCI listen address")
	flags.String("transport", "socket", "ABCI transport (socket|grpc)")
	flags.String("hub", "", "matchmaking hub base URL (optional at startup, settable via admin/set_hub)")
	flags.String("ultrahonk", "", "UltraHonk proof verifier base URL (optional, settable via admin/set_ultrahonk)")
	flags.String("log-level", "info", "zerolog level (debug|info|warn|error)")
	flags.String("log-format", "json", "log output format (json|console)")
}

// Load reads configuration from, in increasing precedence: defaults,
// a .env file in the working directory (optional, via godotenv),
// ARBITER_-prefixed environment variables, and cmd's bound flags.
func Load(cmd *cobra.Command) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// .env is optional; only a missing file is tolerated here.
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("home", ".arbiter")
	v.SetDefault("addr", "tcp://127.0.0.1:26658")
	v.SetDefault("transport", "socket")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	if cmd != nil {
		binds := map[string]string{
			"home":       "home",
			"addr":       "addr",
			"transport":  "transport",
			"hub":        "hub",
			"ultrahonk":  "ultrahonk",
			"log_level":  "log-level",
			"log_format": "log-format",
		}
		for key, flagName := range binds {
			if f := cmd.Flags().Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flagName, err)
				}
			}
		}
	}

	cfg := &Config{
		Home:      v.GetString("home"),
		Addr:      v.GetString("addr"),
		Transport: v.GetString("transport"),
		Hub:       v.GetString("hub"),
		UltraHonk: v.GetString("ultrahonk"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}

	if cfg.Home == "" {
		return nil, fmt.Errorf("home directory must not be empty")
	}
	if cfg.Transport != "socket" && cfg.Transport != "grpc" {
		return nil, fmt.Errorf("transport must be socket or grpc, got %q", cfg.Transport)
	}
	return cfg, nil
}
