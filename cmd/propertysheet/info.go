package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-propertysheet/pkg/apidoc"
)

func newInfoCmd(opts *rootOptions) *cobra.Command {
	var openapi bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print API metadata for the sheet value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !openapi {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"info":    apidoc.Info(),
					"example": apidoc.ExamplePayload(),
				})
			}
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck
			doc, err := apidoc.Document(rt.sheet.Type(), "", rt.sheet.Presentation().Label, "")
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().BoolVar(&openapi, "openapi", false, "print the OpenAPI document of the bound record")
	return cmd
}
