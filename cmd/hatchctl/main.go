package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/hatchery/internal/config"
	"github.com/mamadbah2/hatchery/pkg/logger"
)

// offlineAnnotation marks commands that never touch the data source.
const offlineAnnotation = "offline"

var (
	envFile string
	log     *zap.Logger
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "hatchctl",
	Short:         "Offline tools for the hatchery complete data sheet",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		load := config.Load
		if _, ok := cmd.Annotations[offlineAnnotation]; ok {
			load = config.Read
		}

		loaded, err := load(envFile)
		if err != nil {
			return err
		}
		cfg = loaded

		log, err = logger.New(cfg.Log.Level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to an env file (defaults to .env when present)")
	rootCmd.AddCommand(exportCmd, viewsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
