package main

import (
	"fmt"
	"os"

	"stylemanager-backend/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stylemanager",
		Short: "StyleManager - commission tracking for hair salons",
		Long: `StyleManager records the services each stylist performs, splits every
amount between stylist and salon, and exports payroll and balance sheets.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.ServeCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.PromoteCmd())
	rootCmd.AddCommand(cmd.CloseDayCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
