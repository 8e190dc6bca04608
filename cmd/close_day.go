package cmd

import (
	"fmt"
	"time"

	"stylemanager-backend/config"
	"stylemanager-backend/services"
	"stylemanager-backend/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// CloseDayCmd returns the close-day command
func CloseDayCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "close-day",
		Short: "Record the closing of a day and notify the owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig()
			if err := connect(cfg, true); err != nil {
				return err
			}

			day := time.Now().In(cfg.Location)
			if date != "" {
				parsed, err := utils.ParseDay(date, cfg.Location)
				if err != nil {
					return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", date)
				}
				day = parsed
			}

			closings := services.NewClosingService(config.DB, services.NewNotifier(cfg.Twilio), cfg.Closing.OwnerPhone, cfg.Location)
			closing, err := closings.CloseDay(cmd.Context(), day)
			if err != nil {
				return err
			}

			fmt.Printf("Closing %s\n", color.New(color.FgCyan).Sprint(closing.Day))
			fmt.Printf("  Services: %d\n", closing.Count)
			fmt.Printf("  Revenue:  %s\n", utils.FormatCurrency(closing.Revenue))
			fmt.Printf("  Payout:   %s\n", utils.FormatCurrency(closing.Payout))
			fmt.Printf("  Salon:    %s\n", color.New(color.FgGreen).Sprint(utils.FormatCurrency(closing.Company)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "day to close as YYYY-MM-DD (default today)")
	return cmd
}
