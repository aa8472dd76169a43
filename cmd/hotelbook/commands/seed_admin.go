package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lakeview/hotel-booking/internal/core/service"
)

// seedAdminCmd creates the default administrator
var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create the default admin user if it does not exist",
	Long: `Create the administrator named by ADMIN_USERNAME. When ADMIN_PASSWORD is
empty a random password is generated and logged once.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeedAdmin(cmd)
	},
}

func init() {
	rootCmd.AddCommand(seedAdminCmd)
}

func runSeedAdmin(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	b, err := openBackend(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	auth := service.NewAuthService(b.users, cfg.JWTSecret, cfg.TokenTTL,
		service.WithBcryptCost(cfg.BcryptCost),
		service.WithAuthLogger(log),
	)
	user, created, err := auth.EnsureAdmin(cmd.Context(), adminSeed(cfg))
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	log.Info().Str("username", user.Username).Bool("created", created).Msg("admin seed done")
	return nil
}
