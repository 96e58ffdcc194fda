package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/petclinic/internal/config"
	"github.com/deppfellow/petclinic/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "petclinic",
	Short:         "Pet clinic backend",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd(), migrateCmd(), ownersCmd(), previewCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration and builds the process logger. Callers
// must Shutdown the returned service.
func bootstrap() (*config.Config, *zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)
	return cfg, &log, loggerService, nil
}
