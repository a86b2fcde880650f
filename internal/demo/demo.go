// Package demo holds the two demo records served by the command-line host
// and the rules that accompany them.
package demo

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/interactivity/expr"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/overlay"
	"github.com/goliatone/go-propertysheet/pkg/sanitize"
	"github.com/goliatone/go-propertysheet/pkg/sheet"
)

const (
	KindRender      = "render"
	KindEnvironment = "environment"
)

//go:embed overlays/*
var embeddedOverlays embed.FS

// EmbeddedOverlays returns the bundled overlay documents. Callers may pass
// this filesystem to overlay.LoadFS.
func EmbeddedOverlays() fs.FS {
	sub, err := fs.Sub(embeddedOverlays, "overlays")
	if err != nil {
		panic(err)
	}
	return sub
}

// Definition describes one demo sheet.
type Definition struct {
	Kind    string
	Label   string
	Options []sheet.Option
	// New returns a fresh record populated with its defaults.
	New func() any
	// Apply runs the host rule on a reconciled value and reports whether it
	// changed anything. It receives a pointer to the record.
	Apply func(value any) bool
}

var definitions = map[string]Definition{
	KindRender: {
		Kind:  KindRender,
		Label: "Render Settings",
		Options: []sheet.Option{
			sheet.WithWidth(sheet.Pixels(400)),
			sheet.WithHeight(sheet.Pixels(550)),
		},
		New: func() any { return NewRenderConfig() },
		Apply: func(value any) bool {
			cfg, _ := value.(*RenderConfig)
			return ResetCustomPath(cfg)
		},
	},
	KindEnvironment: {
		Kind:  KindEnvironment,
		Label: "Environment Settings",
		Options: []sheet.Option{
			sheet.WithWidth(sheet.Pixels(400)),
			sheet.WithOpen(false),
		},
		New:   func() any { return NewEnvironmentConfig() },
		Apply: func(any) bool { return false },
	},
}

// Kinds lists the registered demo kinds in sorted order.
func Kinds() []string {
	out := make([]string, 0, len(definitions))
	for kind := range definitions {
		out = append(out, kind)
	}
	sort.Strings(out)
	return out
}

// Lookup returns the definition registered for kind.
func Lookup(kind string) (Definition, error) {
	def, ok := definitions[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return Definition{}, fmt.Errorf("demo: unknown sheet kind %q (want one of %s)", kind, strings.Join(Kinds(), ", "))
	}
	return def, nil
}

// Decorators returns the schema decorators for the sheet: the overlay for
// its kind from store (when present) followed by markup sanitising.
func (d Definition) Decorators(store *overlay.Store) []model.Decorator {
	return []model.Decorator{
		overlay.NewDecorator(store, d.Kind),
		sanitize.NewDecorator(),
	}
}

// NewSheet builds the sheet for this definition and binds it to a fresh
// record. label overrides the definition label when not empty.
func (d Definition) NewSheet(logger *zap.Logger, store *overlay.Store, label string) (*sheet.Sheet, error) {
	if label == "" {
		label = d.Label
	}
	initial := d.New()
	options := append([]sheet.Option{
		sheet.WithLogger(logger),
		sheet.WithLabel(label),
		sheet.WithDecorators(d.Decorators(store)...),
		sheet.WithEvaluator(expr.New()),
	}, d.Options...)
	s, err := sheet.New(initial, options...)
	if err != nil {
		return nil, fmt.Errorf("demo: %s sheet: %w", d.Kind, err)
	}
	s.Extract(initial)
	return s, nil
}

// NewRenderConfig returns the render record with its declared defaults.
func NewRenderConfig() *RenderConfig {
	return &RenderConfig{
		Seed:      -1,
		BatchSize: 1,
		Model: ModelSettings{
			ModelType:       "SDXL",
			CustomModelPath: DefaultCustomModelPath,
		},
		Sampling: SamplingSettings{SamplerName: "DPM++ 2M Karras", Steps: 25, CFGScale: 7},
		Image:    ImageSettings{Width: 1024, Height: 1024},
		Postprocessing: PostprocessingSettings{
			RestoreFaces:      true,
			DenoisingStrength: 0.45,
		},
		Scripts:  ScriptSettings{ScriptName: "None", XValues: "-1, 10, 20"},
		Advanced: AdvancedSettings{ClipSkip: 2, NoiseSchedule: "Karras"},
	}
}

// NewEnvironmentConfig returns the environment record with its declared
// defaults.
func NewEnvironmentConfig() *EnvironmentConfig {
	return &EnvironmentConfig{
		Background: "Sky",
		Lighting:   Lighting{SunIntensity: 1, AmbientOcclusion: true, Color: "#FFDDBB"},
	}
}
