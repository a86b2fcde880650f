package main

import (
	"github.com/spf13/cobra"
)

func newSchemaCmd(opts *rootOptions) *cobra.Command {
	var presentation bool
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the schema of the current sheet value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck
			if presentation {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"sheet":  rt.sheet.Presentation(),
					"schema": rt.sheet.Schema(),
				})
			}
			return printJSON(cmd.OutOrStdout(), rt.sheet.Schema())
		},
	}
	cmd.Flags().BoolVar(&presentation, "presentation", false, "include the sheet presentation hints")
	return cmd
}
