package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := connect(loadConfig(), true); err != nil {
				return err
			}
			log.Println("Migration completed successfully")
			return nil
		},
	}
}
