package main

import (
	"fmt"

	"github.com/deppfellow/petclinic/internal/database"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded schema and seed migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if list {
				names, err := database.MigrationNames()
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}

			cfg, log, loggerService, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			return database.Migrate(cmd.Context(), log, cfg)
		},
	}

	cmd.Flags().BoolVar(&list, "list", false, "print the embedded migrations and exit")
	return cmd
}
