package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fabcatalogue/config"
	"fabcatalogue/logger"
)

var Version = "dev"

var configPath string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fabcatalogue",
	Short: "Fabrication catalogue API server",
	Long: `fabcatalogue serves a JSON API over a catalogue of engineering design
projects, their drawings and the company locations able to fabricate them.

Subcommands:
  serve        - Run the HTTP API
  db           - Create, drop or seed the database
  events tail  - Print catalogue change events from Kafka
  version      - Print the version`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("fabcatalogue", Version)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "fabcatalogue.yaml", "path to config file")
	rootCmd.AddCommand(serveCmd, dbCmd, eventsCmd, versionCmd)
}

// loadConfig reads the config file and sets the log level from it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Init(cfg.Log.Level); err != nil {
		return nil, err
	}
	return cfg, nil
}
