package main

import (
	"fmt"

	"github.com/deppfellow/petclinic/internal/lib/email"
	"github.com/spf13/cobra"
)

func previewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "email-preview [template]",
		Short: "Render an email template with sample data",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := email.TemplateVisitScheduled
			if len(args) == 1 {
				name = email.Template(args[0])
			}

			html, err := email.Preview(name)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), html)
			return err
		},
	}
}
