package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"mnemo/pkg/app"
	"mnemo/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "mnemo",
	Short: "Memory trick service",
	Long: `Mnemo turns letters, lists and abbreviations into memory tricks built
from actors, cricketers, animals, professions and a word bank.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads configuration and builds the application. The caller must
// Close the returned App.
func setup(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := app.NewLogger(cfg.Log, os.Stderr)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	return a, nil
}
