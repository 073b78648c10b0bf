package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"project-builder-backend/internal/config"
	"project-builder-backend/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		database, err := db.Connect(cfg.DBDriver, cfg.DSN())
		if err != nil {
			return err
		}
		defer database.Close()

		before, err := database.SchemaVersion(cmd.Context())
		if err != nil {
			return err
		}
		if err := database.Migrate(cmd.Context()); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if before == db.LatestVersion() {
			fmt.Fprintf(out, "schema already at v%d\n", before)
			return nil
		}
		fmt.Fprintf(out, "%s migrated %s database from v%d to v%d\n",
			color.GreenString("✓"), cfg.DBDriver, before, db.LatestVersion())
		return nil
	},
}
