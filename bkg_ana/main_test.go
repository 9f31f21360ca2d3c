package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCmd(t *testing.T) *cobra.Command {
	t.Helper()
	configPath, treeName, workers = "", "", 1
	rootCmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
	cmd := &cobra.Command{}
	cmd.Flags().AddFlagSet(rootCmd.Flags())
	return cmd
}

func TestLoadConfigDefaults(t *testing.T) {
	cmd := newCmd(t)
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Tree)
	assert.Equal(t, 1, cfg.Workers)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tree: DecayTree\nworkers: 2\n"), 0o644))

	cmd := newCmd(t)
	require.NoError(t, cmd.Flags().Set("config", path))
	cfg, err := loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, "DecayTree", cfg.Tree)
	assert.Equal(t, 2, cfg.Workers)

	require.NoError(t, cmd.Flags().Set("workers", "6"))
	cfg, err = loadConfig(cmd)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.Workers)

	require.NoError(t, cmd.Flags().Set("workers", "0"))
	_, err = loadConfig(cmd)
	assert.Error(t, err)
}
