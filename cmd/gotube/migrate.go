package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gotube/internal/config"
	"gotube/internal/dbmongo"
	"gotube/internal/logging"
)

func newMigrateCommand() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the indexes the API relies on",
		Long:  "migrate creates the MongoDB indexes for likes, comments, subscriptions and video search. It is safe to run repeatedly.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate(cmd.Context(), timeout)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "upper bound for connecting and building indexes")
	return cmd
}

func migrate(ctx context.Context, timeout time.Duration) error {
	cfg := config.LoadConfig()
	logger, err := logging.NewLogger(cfg.Logging.Format, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = mc.Close(context.Background()) }()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	names, err := dbmongo.EnsureIndexes(ctx, mc.Database)
	if err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}
	logger.Info("indexes ready", zap.String("database", cfg.MongoDB.Database), zap.Strings("indexes", names))
	return nil
}
