package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/petclinic/internal/database"
	"github.com/deppfellow/petclinic/internal/handler"
	"github.com/deppfellow/petclinic/internal/repository"
	"github.com/deppfellow/petclinic/internal/router"
	"github.com/deppfellow/petclinic/internal/server"
	"github.com/deppfellow/petclinic/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

func serveCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, loggerService, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if migrate {
				if err := database.Migrate(ctx, log, cfg); err != nil {
					return fmt.Errorf("failed to migrate database: %w", err)
				}
			}

			srv, err := server.New(cfg, log, loggerService)
			if err != nil {
				return err
			}

			repos := repository.NewRepositories(srv)
			services, err := service.NewService(srv, repos)
			if err != nil {
				return fmt.Errorf("could not create services: %w", err)
			}

			srv.SetupHTTPServer(router.NewRouter(srv, handler.NewHandlers(srv, services)))

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err = <-errCh:
				if err != nil {
					log.Error().Err(err).Msg("server stopped")
				}
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
				return shutdownErr
			}

			log.Info().Msg("server exited properly")
			return err
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}
