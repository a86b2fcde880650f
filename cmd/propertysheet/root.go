package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/internal/config"
	"github.com/goliatone/go-propertysheet/internal/demo"
	"github.com/goliatone/go-propertysheet/internal/logging"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/overlay"
	"github.com/goliatone/go-propertysheet/pkg/sheet"
)

type rootOptions struct {
	configFile string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	defaults := config.Default()

	cmd := &cobra.Command{
		Use:           "propertysheet",
		Short:         "Render, edit and serve property sheets for the demo records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "configuration file (YAML, JSON or TOML)")
	flags.String("log-level", defaults.Log.Level, "log level: debug, info, warn or error")
	flags.String("log-format", defaults.Log.Format, "log format: json or console")
	flags.String("sheet-kind", defaults.Sheet.Kind, "demo sheet: render or environment")
	flags.String("sheet-values", "", "YAML or JSON file with initial values")
	flags.String("sheet-overlays", "", "directory of overlay documents (defaults to the bundled overlays)")
	flags.String("sheet-label", "", "sheet label override")

	cmd.AddCommand(
		newSchemaCmd(opts),
		newApplyCmd(opts),
		newInfoCmd(opts),
		newEditCmd(opts),
		newServeCmd(opts),
	)
	return cmd
}

// runtime is the state shared by every subcommand.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
	def    demo.Definition
	sheet  *sheet.Sheet
}

func setup(cmd *cobra.Command, opts *rootOptions) (*runtime, error) {
	cfg, err := config.Load(opts.configFile, cmd.Flags())
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	def, err := demo.Lookup(cfg.Sheet.Kind)
	if err != nil {
		return nil, err
	}

	var overlays fs.FS = demo.EmbeddedOverlays()
	if cfg.Sheet.Overlays != "" {
		overlays = os.DirFS(cfg.Sheet.Overlays)
	}
	store, err := overlay.LoadFS(overlays)
	if err != nil {
		return nil, err
	}

	s, err := def.NewSheet(logger, store, cfg.Sheet.Label)
	if err != nil {
		return nil, err
	}
	rt := &runtime{cfg: cfg, logger: logger, def: def, sheet: s}

	if cfg.Sheet.Values != "" {
		payload, err := demo.LoadValues(cfg.Sheet.Values)
		if err != nil {
			return nil, err
		}
		rt.apply(payload)
		logger.Debug("initial values applied", zap.String("file", cfg.Sheet.Values))
	}
	return rt, nil
}

// apply reconciles payload and runs the demo rule, rebinding the sheet when
// the rule adjusts the value.
func (rt *runtime) apply(payload *model.Payload) any {
	value := rt.sheet.Reconcile(payload)
	if rt.def.Apply != nil && rt.def.Apply(value) {
		rt.logger.Debug("demo rule adjusted reconciled value", zap.String("kind", rt.def.Kind))
		rt.sheet.Extract(value)
		value = rt.sheet.Value()
	}
	return value
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
