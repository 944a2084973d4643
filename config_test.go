package vexsql_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vexsql/vexsql"
)

func TestLoadConfig_WalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b", "c")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	content := []byte("count: 25\nseed: 7\ncompound: true\nweights:\n  join: 0.5\n  simple: 0.5\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".vexsql.yaml"), content, 0o600))

	cfg, err := vexsql.LoadConfig(nested)
	require.NoError(t, err)

	if cfg.Count != 25 {
		t.Errorf("Count = %d, want 25", cfg.Count)
	}

	if cfg.Seed != 7 {
		t.Errorf("Seed = %d, want 7", cfg.Seed)
	}

	if !cfg.Compound {
		t.Error("Compound = false, want true")
	}

	if got := cfg.Weights["join"]; got != 0.5 {
		t.Errorf("Weights[join] = %v, want 0.5", got)
	}
}

func TestLoadConfig_NotFound(t *testing.T) {
	_, err := vexsql.LoadConfig(t.TempDir())
	if !errors.Is(err, vexsql.ErrConfigNotFound) {
		t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
	}
}

func TestFindConfig_PrefersNearest(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "sub")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(root, ".vexsql.yaml"), []byte("count: 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(nested, ".vexsql.yaml"), []byte("count: 2\n"), 0o600))

	path, err := vexsql.FindConfig(nested)
	require.NoError(t, err)

	cfg, err := vexsql.LoadConfigFile(path)
	require.NoError(t, err)

	if cfg.Count != 2 {
		t.Errorf("Count = %d, want 2 (nearest config)", cfg.Count)
	}
}
