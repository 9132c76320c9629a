package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"

	"travecoqs/internal/config"
	"travecoqs/internal/exporter"
	"travecoqs/internal/infrastructure"
	"travecoqs/internal/loader"
	"travecoqs/internal/pipeline"
)

func main() {
	ordersPath := flag.String("orders", "", "path to the monthly Auftragsanalyse workbook (required)")
	divisionsPath := flag.String("divisions", "", "path to the Sparten workbook (required)")
	centersPath := flag.String("centers", "", "path to the Betriebszentralen workbook (required)")
	outDir := flag.String("out", "out", "output directory for CSV artifacts")
	configFile := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if *ordersPath == "" || *divisionsPath == "" || *centersPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		var cfgErr *config.ConfigurationError
		if errors.As(err, &cfgErr) {
			slog.Error("Configuration rejected", "field", cfgErr.Field, "reason", cfgErr.Reason)
		} else {
			slog.Error("Failed to load config", "error", err)
		}
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := context.Background()

	logger.Info("Starting transport order reconciliation",
		slog.String("orders", *ordersPath),
		slog.String("divisions", *divisionsPath),
		slog.String("centers", *centersPath),
		slog.String("output_dir", *outDir))

	in, err := loader.LoadInput(ctx, logger,
		loader.Source{Path: *ordersPath},
		loader.Source{Path: *divisionsPath},
		loader.Source{Path: *centersPath},
	)
	if err != nil {
		logger.Error("Failed to load input workbooks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	runner := pipeline.NewRunner(logger, cfg)
	out, err := runner.Run(ctx, in)
	if err != nil {
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			logger.Error("Pipeline run failed",
				slog.String("stage", stageErr.StageID),
				slog.String("error", stageErr.Err.Error()))
		} else {
			logger.Error("Pipeline run failed", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(*outDir)
	if err := writer.WriteRunArtifacts(out); err != nil {
		logger.Error("Failed to write artifacts", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Run complete",
		slog.Int("output_orders", len(out.Orders)),
		slog.Int("excluded", len(out.Excluded)),
		slog.Int("summary_rows", len(out.Summaries)))
}
