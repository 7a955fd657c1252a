// Command server is the bazario binary: the API server plus the operational
// commands (migrations, seeding, queue workers, route listing).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/rishavanand/bazario/database/migrations"
	_ "github.com/rishavanand/bazario/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bazario",
	Short: "bazario — e-commerce API server",
	Long:  "bazario is the e-commerce backend. Run the API, manage the database, and operate the queue from this CLI.",
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(queueWorkCmd)
}
