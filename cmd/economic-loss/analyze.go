package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iwvelando/economic-loss/internal/actuarial"
	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/internal/config"
	"github.com/iwvelando/economic-loss/internal/model"
	"github.com/iwvelando/economic-loss/internal/store"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/iwvelando/economic-loss/pkg/output"
	"github.com/iwvelando/economic-loss/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type analyzeOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
	save         bool
	dbPath       string
}

func analyzeCmd() *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compute the economic loss for a case file",
		Long: `Load a case configuration, look up life, work-life and wage-growth rates,
project earnings over the remaining work-life and print the discounted
earnings-loss table.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.configPath = cliFlags.GetString("config")
			opts.logLevel = cliFlags.GetString("log-level")
			opts.outputFormat = cliFlags.GetString("output-format")
			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.save, "save", false, "record the run in the run history database")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "run history database path (overrides storage.path)")

	return cmd
}

func runAnalyze(ctx context.Context, w io.Writer, opts analyzeOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runAnalyze"),
		)
	}

	tables, err := actuarial.LoadOrDefault(conf.Tables.Path)
	if err != nil {
		return fmt.Errorf("failed to load actuarial tables: %w", err)
	}

	analyzer := analysis.New(logger, tables)
	req := conf.Request()

	result, err := analyzer.Run(ctx, req)
	if err != nil && !(result != nil && errors.Is(err, model.ErrEmptyTimeline)) {
		return fmt.Errorf("failed to compute economic loss: %w", err)
	}
	if err != nil {
		logger.Warn("no active work-life years; reporting a zero loss",
			zap.String("op", "main.runAnalyze"),
			zap.Error(err),
		)
	}

	if err := output.Write(w, outputFormat, result); err != nil {
		return err
	}

	if opts.save || conf.Storage.Enabled {
		dbPath := conf.Storage.Path
		if opts.dbPath != "" {
			dbPath = opts.dbPath
		}
		return saveRun(ctx, logger, analyzer, dbPath, req, result)
	}
	return nil
}

func saveRun(ctx context.Context, logger *zap.Logger, analyzer *analysis.Analyzer, dbPath string, req analysis.Request, result *analysis.Result) error {
	inputHash, err := analyzer.CacheKey(req)
	if err != nil {
		return err
	}

	s, err := store.Open(ctx, dbPath, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	existing, err := s.FindByInputHash(ctx, inputHash)
	switch {
	case err == nil:
		logger.Info("identical case already recorded; not saving again",
			zap.String("op", "main.saveRun"),
			zap.String("existingRunId", existing.ID),
		)
		return nil
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	if err := s.SaveRun(ctx, req, result, inputHash); err != nil {
		return err
	}
	logger.Info("run recorded",
		zap.String("op", "main.saveRun"),
		zap.String("runId", result.RunID),
		zap.String("db", dbPath),
	)
	return nil
}
