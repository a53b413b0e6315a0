package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd)
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cmd := newTestCmd()
	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, ".arbiter", cfg.Home)
	require.Equal(t, "tcp://127.0.0.1:26658", cfg.Addr)
	require.Equal(t, "socket", cfg.Transport)
	require.Empty(t, cfg.Hub)
}

func TestLoadHonorsFlagOverride(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("hub", "http://hub.example"))
	require.NoError(t, cmd.Flags().Set("transport", "grpc"))

	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "http://hub.example", cfg.Hub)
	require.Equal(t, "grpc", cfg.Transport)
}

func TestLoadRejectsBadTransport(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("transport", "carrier-pigeon"))
	_, err := Load(cmd)
	require.Error(t, err)
}

func TestLoadEnvOverridesDefault(t *testing.T) {
	t.Setenv("ARBITER_HOME", "/tmp/arbiter-env-test")
	cmd := newTestCmd()
	cfg, err := Load(cmd)
	require.NoError(t, err)
	require.Equal(t, "/tmp/arbiter-env-test", cfg.Home)
}
