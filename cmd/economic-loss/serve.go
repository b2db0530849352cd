package main

import (
	"fmt"

	"github.com/iwvelando/economic-loss/internal/actuarial"
	"github.com/iwvelando/economic-loss/internal/analysis"
	"github.com/iwvelando/economic-loss/internal/cache"
	"github.com/iwvelando/economic-loss/internal/server"
	"github.com/iwvelando/economic-loss/internal/store"
	"github.com/iwvelando/economic-loss/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var (
		serverConfigPath string
		address          string
		maxBodySize      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return fmt.Errorf("failed to load server configuration at %s: %w", serverConfigPath, err)
			}
			if address != "" {
				cfg.Address = address
			}
			if maxBodySize != "" {
				size, err := server.ParseSize(maxBodySize)
				if err != nil {
					return err
				}
				cfg.SetBodySizeBytes(size)
			}

			logger, err := initializeLogger(cfg.Logging, cliFlags.GetString("log-level"))
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			tables, err := actuarial.LoadOrDefault(cfg.Tables.Path)
			if err != nil {
				return fmt.Errorf("failed to load actuarial tables: %w", err)
			}

			resultCache, err := cache.New(cfg.Cache)
			if err != nil {
				return err
			}
			defer func() {
				_ = resultCache.Close()
			}()

			opts := server.Options{
				Logger:      logger,
				Analyzer:    analysis.New(logger, tables),
				Cache:       resultCache,
				MaxBodySize: cfg.BodySizeBytes(),
				Version:     version,
			}

			if cfg.Storage.Enabled {
				s, err := store.Open(ctx, cfg.Storage.Path, logger)
				if err != nil {
					return err
				}
				defer func() {
					_ = s.Close()
				}()
				opts.Store = s
			}

			logger.Info("starting API server",
				zap.String("op", "main.serve"),
				zap.String("address", cfg.Address),
				zap.String("tablesVersion", tables.Version()),
				zap.String("cache", cfg.Cache.Backend),
				zap.Bool("storage", cfg.Storage.Enabled),
			)
			return server.Run(ctx, logger, cfg.Address, server.NewHandler(opts))
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	cmd.Flags().StringVar(&maxBodySize, "max-body-size", "", "request body limit override (e.g. 256K, 1M)")

	return cmd
}
