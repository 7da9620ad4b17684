package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/harbor/internal/app"
	"github.com/MrSnakeDoc/harbor/internal/config"
	"github.com/MrSnakeDoc/harbor/internal/logger"
)

var jsonOutput bool

var rootCmd = &cobra.Command{
	Use:   "harbor",
	Short: "Import third-party FTP client bookmarks",
	Long: "Harbor imports the site managers of CrossFTP and FileZilla into one bookmark collection,\n" +
		"moving passwords into an encrypted keychain. Configuration comes from HARBOR_* environment variables.",
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print machine readable JSON")
}

// openApp loads the configuration and wires the application. The
// returned cleanup closes the backend and flushes the logger.
func openApp(ctx context.Context) (*app.App, func(), error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a, err := app.New(ctx, cfg, loggerClient)
	if err != nil {
		_ = loggerClient.Sync()
		return nil, nil, err
	}
	cleanup := func() {
		if err := a.Close(); err != nil {
			loggerClient.Warn("failed to close backend", logger.Error(err))
		}
		_ = loggerClient.Sync()
	}
	return a, cleanup, nil
}
