package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/vexsql/vexsql/dataset"
	"github.com/vexsql/vexsql/verify"
)

func verifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "Check that every record's gold SQL executes against a synthetic store",
		ArgsUsage: "<dataset.json>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "schema",
				Aliases: []string{"s"},
				Usage:   "schema file the dataset was generated from",
			},
			&cli.IntFlag{
				Name:  "rows",
				Usage: "synthetic rows per table",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "verbose output",
			},
		},
		Action: runVerify,
	}
}

func runVerify(ctx context.Context, cmd *cli.Command) error {
	logger, err := newLogger(cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // stderr sync failure is uninteresting

	path := cmd.Args().First()
	if path == "" {
		return ErrNoDataset
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	schema, fks, err := loadSchema(cmd.String("schema"), cfg)
	if err != nil {
		return err
	}

	rows := cfg.VerifyRows
	if cmd.IsSet("rows") {
		rows = int(cmd.Int("rows"))
	}

	records, err := dataset.Load(path)
	if err != nil {
		return err
	}

	v := verify.New(schema, fks, verify.WithRows(rows))

	failures := 0

	for _, rec := range records {
		if err := v.Execute(ctx, rec.SQL); err != nil {
			failures++

			logger.Warn("gold SQL failed",
				zap.Int("id", rec.ID),
				zap.String("sql", rec.SQL),
				zap.Error(err))
		}
	}

	if failures > 0 {
		return cli.Exit(fmt.Sprintf("%d of %d records failed verification", failures, len(records)), 1)
	}

	logger.Info("all records verified", zap.Int("records", len(records)))
	fmt.Printf("OK: %d records verified\n", len(records))

	return nil
}
