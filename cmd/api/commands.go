package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"blog-api/cmd/internal/logger"
	"blog-api/config"
	"blog-api/db"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "blog-api",
		Short:         "Blog post CRUD API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.InitApp()
			logger.Init(config.GetConfig().Logging.Level)
		},
	}
	root.AddCommand(newServeCmd(), newEnsureIndexesCmd())
	// 서브커맨드 없이 실행하면 serve 와 동일하게 동작한다.
	root.RunE = func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), config.GetConfig())
	}
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to MongoDB and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), config.GetConfig())
		},
	}
}

func newEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Connect to MongoDB, create the blogs indexes and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg := config.GetConfig()
			// Init 이 인덱스 생성까지 수행한다.
			if err := db.Init(ctx, cfg.Mongo); err != nil {
				logger.Log.Errorf("ensure indexes failed: %v", err)
				return fmt.Errorf("ensure indexes: %w", err)
			}
			defer db.Disconnect(context.Background())
			logger.Log.Infof("indexes ensured on %s.%s", cfg.Mongo.DBName, db.BlogsCollection)
			return nil
		},
	}
}
