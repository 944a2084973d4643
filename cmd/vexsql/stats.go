package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"

	"github.com/vexsql/vexsql/dataset"
)

// ErrNoDataset is returned when stats or verify is run without a dataset path.
var ErrNoDataset = errors.New("no dataset file specified")

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:      "stats",
		Usage:     "Report complexity and applicability statistics for a dataset",
		ArgsUsage: "<dataset.json>",
		Action:    runStats,
	}
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	path := cmd.Args().First()
	if path == "" {
		return ErrNoDataset
	}

	records, err := dataset.Load(path)
	if err != nil {
		return err
	}

	color := isatty.IsTerminal(os.Stdout.Fd())
	fmt.Print(dataset.FormatStats(dataset.Stats(records), color))

	return nil
}
