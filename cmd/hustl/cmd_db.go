package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/hustlcampus/hustl/config"
	"github.com/hustlcampus/hustl/database/seeders"
	"github.com/hustlcampus/hustl/pkg/database"
	"github.com/hustlcampus/hustl/pkg/migration"
)

// bootDB loads config and opens the instrumented database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	return database.Instrument(database.DB)
}

// bootSchema opens the database and applies pending migrations. Progress
// goes to out.
func bootSchema(out io.Writer) error {
	if err := bootDB(); err != nil {
		return err
	}
	if _, err := migration.New(database.DB, out).Run(); err != nil {
		database.Close()
		return err
	}
	return nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		_, err := migration.New(database.DB, cmd.OutOrStdout()).Run()
		return err
	},
}

var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Roll back the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		_, err := migration.New(database.DB, cmd.OutOrStdout()).Rollback()
		return err
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		status, err := migration.New(database.DB, cmd.OutOrStdout()).Status()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "MIGRATION\tRAN\tBATCH")
		for _, s := range status {
			batch := "-"
			if s.Ran {
				batch = fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%t\t%s\n", s.Name, s.Ran, batch)
		}
		return w.Flush()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo users, listings and lost items",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(database.DB, cmd.OutOrStdout())
	},
}
