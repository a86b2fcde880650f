// Package record inspects configuration records once per Go type and exposes
// the result as an explicit descriptor table: ordered fields with their wire
// names, kinds, metadata and accessors. Everything that needs reflection
// lives here so the extractor and reconciler only walk the table.
//
// A record is a struct (or a pointer to one). Exported fields become
// properties; struct-typed root fields become groups whose own fields are the
// group's properties. Field metadata comes from struct tags:
//
//	type SamplingSettings struct {
//		Sampler  Sampler `label:"Sampler" help:"The algorithm for the diffusion process." default:"DPM++ 2M Karras"`
//		Steps    int     `component:"slider" min:"1" max:"150" step:"1" default:"25"`
//		CFGScale float64 `component:"slider" min:"1" max:"30" step:"0.5" label:"CFG Scale" default:"7"`
//	}
//
// Recognised tags: sheet (name override or "-"), json (name fallback),
// label, help, component, min, max, step, choices ("a|b|c"),
// interactive_if ("field=value"), interactive_rule, meta ("k=v;k2=v2") and
// default (resolved through github.com/creasty/defaults). Types may also
// implement Describer to supply metadata in code, and string types may
// implement Enum to declare their fixed choice set.
package record
