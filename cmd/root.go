/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/webmoto/storefront/config"
	"github.com/webmoto/storefront/internal/logging"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "webmoto",
	Short: "WebMoto motorbike storefront",
	Long: `WebMoto serves the motorbike storefront and its maintenance tasks.

	webmoto server
	webmoto migrate up
	webmoto notifier
	webmoto create-admin --username root --email root@example.com`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the configuration and the logger it describes.
func loadConfig() (config.Config, logging.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Format), nil
}
