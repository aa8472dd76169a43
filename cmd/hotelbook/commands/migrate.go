package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Migrate flags
	down bool
)

// migrateCmd prepares the configured store's schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the store schema",
	Long: `Create MongoDB indexes or apply the embedded PostgreSQL migrations, then exit.

Examples:
  STORE_DRIVER=postgres hotelbook migrate          # Apply pending migrations
  STORE_DRIVER=postgres hotelbook migrate --down   # Roll every migration back
  STORE_DRIVER=mongo hotelbook migrate             # Ensure unique and lookup indexes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.Flags().BoolVar(&down, "down", false, "Roll back instead of applying (postgres only)")
}

func runMigrate(cmd *cobra.Command) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	b, err := openBackend(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer b.close()

	if err := b.prepare(cmd.Context(), down); err != nil {
		return err
	}
	log.Info().Str("driver", cfg.StoreDriver).Bool("down", down).Msg("schema ready")
	return nil
}
