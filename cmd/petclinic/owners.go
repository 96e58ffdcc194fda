package main

import (
	"github.com/deppfellow/petclinic/internal/database"
	"github.com/deppfellow/petclinic/internal/lib/query"
	"github.com/deppfellow/petclinic/internal/lib/utils"
	"github.com/deppfellow/petclinic/internal/repository"
	"github.com/spf13/cobra"
)

// ownersCmd prints one page of owners, pets included, as JSON.
func ownersCmd() *cobra.Command {
	var (
		lastName string
		page     int
		size     int
	)

	cmd := &cobra.Command{
		Use:   "owners",
		Short: "Print a page of owners whose last name starts with a prefix",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pageable := query.PageRequest(page, size)
			if err := pageable.Validate(); err != nil {
				return err
			}

			cfg, log, loggerService, err := bootstrap()
			if err != nil {
				return err
			}
			defer loggerService.Shutdown()

			db, err := database.New(cfg, log, loggerService)
			if err != nil {
				return err
			}
			defer db.Close()

			owners := repository.NewOwnerRepository(db.Pool)
			result, err := owners.FindByLastNameStartingWith(log.WithContext(cmd.Context()), lastName, pageable)
			if err != nil {
				return err
			}

			return utils.PrintJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&lastName, "last-name", "", "last name prefix, case-insensitive")
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&size, "size", 5, "page size")
	return cmd
}
