package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/renderers/tui"
)

func newEditCmd(opts *rootOptions) *cobra.Command {
	var changedOnly bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the sheet interactively in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			editor := tui.New(
				tui.WithPromptDriver(tui.NewSurveyDriver(cmd.ErrOrStderr())),
				tui.WithChangedOnly(changedOnly),
			)
			payload, err := editor.Edit(cmd.Context(), rt.sheet.Schema())
			if err != nil {
				return err
			}
			rt.logger.Debug("edit session finished", zap.Int("edits", len(payload.Entries())))
			return printJSON(cmd.OutOrStdout(), rt.apply(payload))
		},
	}
	cmd.Flags().BoolVar(&changedOnly, "changed-only", true, "only send fields whose value changed")
	return cmd
}
