package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lakeview/hotel-booking/internal/pkg/config"
	"github.com/lakeview/hotel-booking/pkg/logger"
)

const serviceName = "hotelbook"

var (
	// Global flags
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hotelbook",
	Short: "Hotel booking service",
	Long: `hotelbook serves the hotel booking HTTP API and runs its maintenance tasks.

Configuration is read from the environment (PORT, STORE_DRIVER, JWT_SECRET, ...).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (trace, debug, info, warn, error)")
}

// setup loads the configuration and initialises the process logger.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadContext(cmd.Context())
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
	})
	return cfg, log, nil
}
