// Command vexsql generates perturbed text-to-SQL benchmark datasets and
// verifies them against a synthetic store.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vexsql/vexsql"
)

func main() {
	cmd := &cli.Command{
		Name:  "vexsql",
		Usage: "Schema-aware SQL benchmark synthesizer with natural-language perturbations",
		Commands: []*cli.Command{
			generateCommand(),
			statsCommand(),
			verifyCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}

	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	return config.Build()
}

// loadConfig loads the nearest .vexsql.yaml, treating a missing file as an
// empty configuration.
func loadConfig() (*vexsql.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	cfg, err := vexsql.LoadConfig(cwd)
	if errors.Is(err, vexsql.ErrConfigNotFound) {
		return &vexsql.Config{}, nil
	}

	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadSchema resolves the schema source: an explicit path wins over the
// config file, and with neither the built-in social-media schema applies.
func loadSchema(path string, cfg *vexsql.Config) (*vexsql.Schema, *vexsql.ForeignKeyGraph, error) {
	if path == "" {
		path = cfg.Schema
	}

	if path == "" {
		schema, fks := vexsql.DefaultSchema()

		return schema, fks, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading schema: %w", err)
	}

	return vexsql.ParseSchema(path, data)
}
