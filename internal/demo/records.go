package demo

// ModelType selects the base checkpoint family.
type ModelType string

// Choices implements record.Enum.
func (ModelType) Choices() []string { return []string{"SD 1.5", "SDXL", "Pony", "Custom"} }

// SamplerName selects the diffusion sampler.
type SamplerName string

// Choices implements record.Enum.
func (SamplerName) Choices() []string { return []string{"Euler", "Euler a", "DPM++ 2M Karras", "UniPC"} }

// NoiseSchedule selects the sigma schedule.
type NoiseSchedule string

// Choices implements record.Enum.
func (NoiseSchedule) Choices() []string { return []string{"Default", "Karras", "Exponential"} }

// ScriptName selects an automation script.
type ScriptName string

// Choices implements record.Enum.
func (ScriptName) Choices() []string { return []string{"None", "Prompt matrix", "X/Y/Z plot"} }

// Background selects the environment backdrop.
type Background string

// Choices implements record.Enum.
func (Background) Choices() []string { return []string{"Sky", "Color", "Image"} }

// DefaultCustomModelPath is restored whenever the model type is not Custom.
const DefaultCustomModelPath = "/path/to/default.safetensors"

type ModelSettings struct {
	ModelType       ModelType `json:"model_type" component:"dropdown" label:"Base Model" default:"SDXL"`
	CustomModelPath string    `json:"custom_model_path" label:"Custom Model Path" interactive_if:"model_type=Custom" default:"/path/to/default.safetensors"`
	VAEPath         string    `json:"vae_path" label:"VAE Path (optional)"`
}

type SamplingSettings struct {
	SamplerName SamplerName `json:"sampler_name" component:"dropdown" label:"Sampler" help:"The algorithm for the diffusion process." default:"DPM++ 2M Karras"`
	Steps       int         `json:"steps" component:"slider" min:"1" max:"150" step:"1" label:"Sampling Steps" help:"More steps can improve quality." default:"25"`
	CFGScale    float64     `json:"cfg_scale" component:"slider" min:"1" max:"30" step:"0.5" label:"CFG Scale" help:"How strongly the prompt is adhered to." default:"7"`
}

type ImageSettings struct {
	Width  int `json:"width" component:"slider" min:"512" max:"2048" step:"64" label:"Image Width" default:"1024"`
	Height int `json:"height" component:"slider" min:"512" max:"2048" step:"64" label:"Image Height" default:"1024"`
}

type PostprocessingSettings struct {
	RestoreFaces      bool    `json:"restore_faces" label:"Restore Faces" help:"Use a secondary model to fix distorted faces." default:"true"`
	EnableHR          bool    `json:"enable_hr" label:"Hires. fix" help:"Enable a second pass at a higher resolution."`
	DenoisingStrength float64 `json:"denoising_strength" component:"slider" min:"0" max:"1" step:"0.01" label:"Denoising Strength" interactive_if:"enable_hr=true" default:"0.45"`
}

type AdvancedSettings struct {
	ClipSkip             int           `json:"clip_skip" component:"slider" min:"1" max:"12" step:"1" label:"CLIP Skip" help:"Skip final layers of the text encoder." default:"2"`
	NoiseSchedule        NoiseSchedule `json:"noise_schedule" component:"dropdown" label:"Noise Schedule" default:"Karras"`
	DoNotScaleCondUncond bool          `json:"do_not_scale_cond_uncond" label:"Do not scale cond/uncond"`
}

type ScriptSettings struct {
	ScriptName ScriptName `json:"script_name" component:"dropdown" label:"Script" default:"None"`
	XValues    string     `json:"x_values" label:"X axis values" interactive_if:"script_name=X/Y/Z plot" default:"-1, 10, 20"`
	YValues    string     `json:"y_values" label:"Y axis values" interactive_if:"script_name=X/Y/Z plot"`
}

// RenderConfig groups every render setting of the demo sheet.
type RenderConfig struct {
	Seed           int                    `json:"seed" component:"number_integer" label:"Seed (-1 for random)" help:"The random seed for generation." default:"-1"`
	BatchSize      int                    `json:"batch_size" component:"slider" min:"1" max:"8" step:"1" label:"Batch Size" default:"1"`
	Model          ModelSettings          `json:"model"`
	Sampling       SamplingSettings       `json:"sampling"`
	Image          ImageSettings          `json:"image"`
	Postprocessing PostprocessingSettings `json:"postprocessing"`
	Scripts        ScriptSettings         `json:"scripts"`
	Advanced       AdvancedSettings       `json:"advanced"`
}

type Lighting struct {
	SunIntensity     float64 `json:"sun_intensity" component:"slider" min:"0" max:"5" step:"0.1" default:"1"`
	AmbientOcclusion bool    `json:"ambient_occlusion" label:"Ambient Occlusion" default:"true"`
	Color            string  `json:"color" component:"colorpicker" label:"Sun Color" default:"#FFDDBB"`
}

// EnvironmentConfig is the secondary demo sheet.
type EnvironmentConfig struct {
	Background Background `json:"background" component:"dropdown" default:"Sky"`
	Lighting   Lighting   `json:"lighting"`
}

// ResetCustomPath restores the default custom model path unless the Custom
// model type is selected.
func ResetCustomPath(cfg *RenderConfig) bool {
	if cfg == nil || cfg.Model.ModelType == "Custom" || cfg.Model.CustomModelPath == DefaultCustomModelPath {
		return false
	}
	cfg.Model.CustomModelPath = DefaultCustomModelPath
	return true
}
