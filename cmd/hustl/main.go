// Command hustl runs the campus marketplace server and its database tasks.
//
//	hustl serve
//	hustl migrate
//	hustl migrate:rollback
//	hustl migrate:status
//	hustl seed
//	hustl route:list
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations and seeders register themselves in init().
	_ "github.com/hustlcampus/hustl/database/migrations"
	_ "github.com/hustlcampus/hustl/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "hustl",
	Short:         "Hustl campus marketplace and lost-and-found",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
