package main

import (
	"fmt"
	"os"

	"igpages/internal/app"
	"igpages/internal/config"
	"igpages/internal/database"
	"igpages/internal/database/migrations"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file from its default (or overridden) location.
func loadConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

var rootCmd = &cobra.Command{
	Use:   "igpages",
	Short: "Render a scraped social-media archive into a static HTML site",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Data Dir:   %s\n", cfg.DataDir)
		fmt.Printf("Output Dir: %s\n", cfg.OutputDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Data Dir:     %s\n", cfg.DataDir)
		fmt.Printf("Output Dir:   %s\n", cfg.OutputDir)
		fmt.Printf("Template Dir: %s\n", cfg.TemplateDir)
		fmt.Printf("Static Dir:   %s\n", cfg.StaticDir)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Database:     %s (%s)\n", cfg.Database.Type, cfg.Database.Path)
		fmt.Printf("Feed Months:  %d\n", cfg.Feed.Months)
		if len(cfg.ExcludeAccounts) > 0 {
			fmt.Printf("Excluded:     %v\n", cfg.ExcludeAccounts)
		}
		return nil
	},
}

// db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the archive database schema",
}

var dbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create or upgrade the archive schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.OpenConnection(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}

		fmt.Printf("Archive schema up to date at %s\n", cfg.Database.Path)
		return nil
	},
}

var dbStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check the archive schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.OpenConnection(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := migrations.CheckDBMigrationStatus(db); err != nil {
			return err
		}

		fmt.Println("Archive schema is up to date.")
		return nil
	},
}

// accounts command
var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List accounts in the archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.NewApp(cfg, 0)
		if err != nil {
			return err
		}
		defer a.Close()

		accounts, err := a.ListAccounts()
		if err != nil {
			return err
		}

		if len(accounts) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		for _, acct := range accounts {
			private := ""
			if acct.IsPrivate {
				private = "  [private]"
			}
			fmt.Printf("%-30s %s%s\n", acct.Username, acct.FullName, private)
		}
		return nil
	},
}

// build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the full static site",
	RunE: func(cmd *cobra.Command, args []string) error {
		months, _ := cmd.Flags().GetInt("months")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		a, err := app.NewApp(cfg, months)
		if err != nil {
			return err
		}
		defer a.Close()

		sum, err := a.Build()
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}

		// Skipped pages and accounts are logged, not fatal: the build is
		// best-effort and exits 0 once it completes.
		fmt.Printf("Built %d account(s): %d page(s) written, %d skipped\n",
			sum.Accounts, sum.PagesWritten, sum.PagesSkipped)
		fmt.Printf("Site is in %s\n", cfg.OutputDir)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	dbCmd.AddCommand(dbInitCmd)
	dbCmd.AddCommand(dbStatusCmd)

	buildCmd.Flags().IntP("months", "m", 0, "Feed window in months (overrides config)")

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(accountsCmd)
	rootCmd.AddCommand(buildCmd)
}
