package cmd

import (
	"errors"
	"fmt"
	"strings"

	"stylemanager-backend/config"
	"stylemanager-backend/gate"
	"stylemanager-backend/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// PromoteCmd returns the promote command
func PromoteCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "promote <email>",
		Short: "Set the role of a registered user",
		Long: `Set the role of a registered user. Admins see every view; users see the
daily log and the service catalog.

Examples:
  stylemanager promote owner@salao.com.br
  stylemanager promote recepcao@salao.com.br --role user`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if role != string(gate.RoleAdmin) && role != string(gate.RoleUser) {
				return fmt.Errorf("invalid role %q: use admin or user", role)
			}
			if err := connect(loadConfig(), true); err != nil {
				return err
			}

			email := strings.ToLower(strings.TrimSpace(args[0]))
			var user models.User
			if err := config.DB.Where("email = ?", email).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("no user registered as %s", email)
				}
				return err
			}

			if user.Role == role {
				fmt.Printf("%s already has role %s\n", email, color.New(color.FgYellow).Sprint(role))
				return nil
			}
			if err := config.DB.Model(&user).Update("role", role).Error; err != nil {
				return fmt.Errorf("failed to update role: %w", err)
			}

			fmt.Printf("%s %s is now %s\n", color.New(color.FgGreen).Sprint("✓"), email, role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", string(gate.RoleAdmin), "role to assign (admin or user)")
	return cmd
}
