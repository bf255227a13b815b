// Package cli implements the coursehub-admin command tree.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/turtacn/coursehub/internal/bootstrap"
	"github.com/turtacn/coursehub/internal/config"
	"github.com/turtacn/coursehub/internal/infrastructure/monitoring"
)

// NewRootCmd builds the coursehub-admin command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	var configFile string

	rootCmd := &cobra.Command{
		Use:   "coursehub-admin",
		Short: "Administrative tasks for the coursehub API",
		Long: `coursehub-admin runs maintenance tasks against the coursehub database,
such as applying migrations, creating super users and minting tokens.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", os.Getenv("COURSEHUB_CONFIG"), "path to the YAML config file")

	open := func(ctx context.Context) (*bootstrap.Container, func(), error) {
		return openContainer(ctx, configFile)
	}
	rootCmd.AddCommand(
		newMigrateCmd(open),
		newUserCmd(open),
		newTokenCmd(open),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type opener func(ctx context.Context) (*bootstrap.Container, func(), error)

func openContainer(ctx context.Context, configFile string) (*bootstrap.Container, func(), error) {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	zl, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	c, err := bootstrap.New(ctx, cfg, zl.WithComponent("admin"))
	if err != nil {
		_ = zl.Sync()
		return nil, nil, err
	}
	return c, func() {
		c.Close(context.Background())
		_ = zl.Sync()
	}, nil
}
