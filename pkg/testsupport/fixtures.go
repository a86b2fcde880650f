// Package testsupport holds record fixtures and payload builders shared by
// the package tests.
package testsupport

import (
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
)

// ModelType is an enumerated string with a fixed choice set.
type ModelType string

// Choices implements record.Enum.
func (ModelType) Choices() []string {
	return []string{"SD 1.5", "SDXL", "Pony", "Custom"}
}

// ModelSettings is a nested group with an enum and a conditional field.
type ModelSettings struct {
	ModelType       ModelType `component:"dropdown" label:"Base Model" default:"SDXL"`
	CustomModelPath string    `label:"Custom Model Path" interactive_if:"model_type=Custom" default:"/path/to/default.safetensors"`
	VAEPath         string    `label:"VAE Path (optional)"`
}

// SamplingSettings is a nested group with slider bounds.
type SamplingSettings struct {
	CFGScale  float64 `component:"slider" min:"1" max:"30" step:"0.5" label:"CFG Scale" help:"How strongly the prompt is adhered to." default:"7"`
	Scheduler string  `choices:"Default|Karras|Exponential" default:"Karras"`
}

// PostSettings exercises boolean conditions.
type PostSettings struct {
	EnableHR          bool    `label:"Hires. fix"`
	DenoisingStrength float64 `component:"slider" min:"0" max:"1" step:"0.01" interactive_if:"enable_hr=true" default:"0.45"`
}

// Settings is the main fixture: two root scalars and three groups.
type Settings struct {
	Seed     int              `component:"number_integer" label:"Seed (-1 for random)" help:"The random seed for generation." default:"-1"`
	Steps    int              `default:"25"`
	Model    ModelSettings    `json:"model"`
	Sampling SamplingSettings `json:"sampling"`
	Post     PostSettings     `sheet:"postprocessing"`
}

// NewSettings returns the fixture populated with its declared defaults.
func NewSettings() Settings {
	return Settings{
		Seed:  -1,
		Steps: 25,
		Model: ModelSettings{
			ModelType:       "SDXL",
			CustomModelPath: "/path/to/default.safetensors",
		},
		Sampling: SamplingSettings{CFGScale: 7, Scheduler: "Karras"},
		Post:     PostSettings{DenoisingStrength: 0.45},
	}
}

// Lighting uses an explicit colorpicker and a pointer field with a default.
type Lighting struct {
	SunIntensity     float64 `component:"slider" min:"0" max:"5" step:"0.1" default:"1"`
	AmbientOcclusion bool    `label:"Ambient Occlusion" default:"true"`
	Color            string  `component:"colorpicker" label:"Sun Color" default:"#FFDDBB"`
	Exposure         *int    `default:"3"`
}

// Environment has only group fields once Background is skipped.
type Environment struct {
	Background string    `sheet:"-"`
	Lighting   Lighting  `json:"lighting"`
	Fog        *Lighting `json:"fog"`
}

// GroupA and GroupB both own a field called "shared".
type GroupA struct {
	Shared int
	OnlyA  string
}

// GroupB collides with GroupA on "shared".
type GroupB struct {
	Shared int
	OnlyB  bool
}

// Collision exercises first-match nested resolution.
type Collision struct {
	First  GroupA `json:"first"`
	Second GroupB `json:"second"`
}

// Described supplies metadata in code through record.Describer.
type Described struct {
	Threshold float64 `label:"ignored"`
	Mode      string
}

// DescribeFields implements record.Describer.
func (Described) DescribeFields() map[string]record.Metadata {
	low, high := 0.0, 1.0
	return map[string]record.Metadata{
		"threshold": {Label: "Threshold", Minimum: &low, Maximum: &high, Component: model.RenderKindSlider},
		"mode":      {Choices: []string{"fast", "slow"}, Help: "Processing mode."},
	}
}

// IdentityPayload mirrors a schema as a group payload carrying every
// descriptor's current value.
func IdentityPayload(schema model.Schema) *model.Payload {
	groups := make([]model.GroupPayload, 0, len(schema))
	for _, group := range schema {
		payload := model.GroupPayload{Name: group.Name}
		for _, prop := range group.Properties {
			payload.Properties = append(payload.Properties, model.PropertyValue{Name: prop.Name, Value: prop.Value})
		}
		groups = append(groups, payload)
	}
	return model.NewGroupPayload(groups...)
}

// IdentityPatch mirrors a schema as a patch keyed by dotted path, so fields
// whose plain names collide across groups still address their own group.
func IdentityPatch(schema model.Schema) *model.Payload {
	values := make(map[string]any)
	for _, group := range schema {
		for _, prop := range group.Properties {
			values[prop.Path] = prop.Value
		}
	}
	return model.NewPatch(values)
}

// GroupPayload builds a single-group payload from name/value pairs given as
// alternating arguments.
func GroupPayload(group string, pairs ...any) *model.Payload {
	payload := model.GroupPayload{Name: group}
	for i := 0; i+1 < len(pairs); i += 2 {
		name, _ := pairs[i].(string)
		payload.Properties = append(payload.Properties, model.PropertyValue{Name: name, Value: pairs[i+1]})
	}
	return model.NewGroupPayload(payload)
}
