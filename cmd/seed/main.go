package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GoSim-25-26J-441/taskflow-backend/config"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/logging"
	"github.com/GoSim-25-26J-441/taskflow-backend/internal/seed"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		reset  bool
		driver string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo account and sample projects",
		Long: `Seed creates the demo user (demo@example.com / password123) and two sample
projects with their tasks in the configured store.

The store is chosen by STORE_DRIVER and the usual connection settings; see
the API server configuration.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), driver, reset)
		},
	}

	cmd.Flags().BoolVar(&reset, "reset", false, "Delete the demo user's existing projects first")
	cmd.Flags().StringVar(&driver, "driver", "", "Override STORE_DRIVER (mongo, postgres, redis)")

	return cmd
}

func run(ctx context.Context, driver string, reset bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if driver != "" {
		cfg.Store.Driver = driver
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := bootstrap.OpenStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close(context.Background()) }()

	res, err := seed.Run(ctx, store, seed.Options{Reset: reset, Log: log})
	if err != nil {
		return err
	}

	log.Info("seed complete", zap.String("user_id", res.User.ID))
	fmt.Printf("Demo user credentials:\nEmail: %s\nPassword: %s\n\nCreated %d projects with %d tasks total\n",
		seed.DemoEmail, seed.DemoPassword, res.Projects, res.Tasks)
	return nil
}
