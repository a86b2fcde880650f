package main

import (
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

func newApplyCmd(opts *rootOptions) *cobra.Command {
	var withSchema bool
	cmd := &cobra.Command{
		Use:   "apply [payload.json|-]",
		Short: "Reconcile a front-end payload and print the resulting value",
		Long: "Reads a payload (a JSON list of groups or a JSON object patch) from the\n" +
			"given file, or from stdin when the argument is \"-\" or omitted, and\n" +
			"prints the reconciled value and whether it changed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			payload, err := model.DecodePayload(data)
			if err != nil {
				return err
			}

			before := rt.sheet.Value()
			value := rt.apply(payload)
			out := map[string]any{
				"value":   value,
				"changed": !reflect.DeepEqual(before, value),
			}
			if withSchema {
				out["schema"] = rt.sheet.Schema()
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().BoolVar(&withSchema, "schema", false, "also print the schema of the reconciled value")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return data, nil
}
