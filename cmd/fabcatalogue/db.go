package main

import (
	"github.com/spf13/cobra"

	"fabcatalogue/auth"
	"fabcatalogue/logger"
	"fabcatalogue/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the catalogue database",
	Long: `Manage the catalogue database.

Subcommands:
  create  - Create any missing tables
  drop    - Drop every catalogue table
  seed    - Load the demonstration catalogue`,
}

var dbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create any missing tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			if err := db.Create(); err != nil {
				return err
			}
			logger.Default().Info("Tables created")
			return nil
		})
	},
}

var dbDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every catalogue table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			if err := db.Drop(); err != nil {
				return err
			}
			logger.Default().Info("Tables dropped")
			return nil
		})
	},
}

var dbSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the demonstration catalogue into an empty database",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(func(db *store.DB) error {
			if err := db.Seed(auth.HashPassword); err != nil {
				return err
			}
			logger.Default().Info("Tables seeded")
			return nil
		})
	},
}

func init() {
	dbCmd.AddCommand(dbCreateCmd, dbDropCmd, dbSeedCmd)
}

// withStore opens the configured database (which also creates missing tables) for fn.
func withStore(fn func(db *store.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := store.Open(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	return fn(db)
}
