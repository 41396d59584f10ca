package main

import (
	"context" // Command context
	"fmt"     // Output
	"os"      // Exit codes

	"makerspace/internal/config" // Custom import path (Config)
	"makerspace/internal/db"     // Custom import path (Database)
	"makerspace/internal/store"  // Repository for grant-admin

	"github.com/sirupsen/logrus" // Structured logging
	"github.com/spf13/cobra"     // CLI commands
	"gorm.io/gorm"               // GORM ORM library
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the makerspace database schema and seed data",
	Long: `migrate creates and updates the makerspace schema, seeds the roles table
and sample consumables, and grants the admin role to a registered account.

Connection settings come from the environment (or a .env file):
DB_DRIVER, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD, DB_NAME.`,
	SilenceUsage: true,
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Create or update every table",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := connect()
		if err != nil {
			return err
		}
		return db.Migrate(gdb)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Migrate, then insert default roles and sample consumables",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := connect()
		if err != nil {
			return err
		}
		if err := db.Migrate(gdb); err != nil {
			return err
		}
		return db.Seed(gdb)
	},
}

var grantAdminCmd = &cobra.Command{
	Use:   "grant-admin EMAIL",
	Short: "Add the admin role to a registered account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := connect()
		if err != nil {
			return err
		}
		profile, err := db.GrantAdmin(cmd.Context(), store.New(gdb), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) now has roles %v\n", profile.FullName, profile.ID, profile.Roles)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upCmd, seedCmd, grantAdminCmd)
}

// connect opens the configured database
func connect() (*gorm.DB, error) {
	cfg := config.LoadConfig() // Load configuration
	return db.Open(cfg.DBDriver, cfg.DSN())
}

// Main entry point for migration
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
