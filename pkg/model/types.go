package model

import "github.com/mohae/deepcopy"

// RenderKind names the control a front-end should draw for a field.
type RenderKind string

const (
	RenderKindString        RenderKind = "string"
	RenderKindCheckbox      RenderKind = "checkbox"
	RenderKindDropdown      RenderKind = "dropdown"
	RenderKindNumberInteger RenderKind = "number_integer"
	RenderKindNumberFloat   RenderKind = "number_float"
	RenderKindSlider        RenderKind = "slider"
	RenderKindColorPicker   RenderKind = "colorpicker"
)

// DefaultRootLabel is the group name used for root-level scalar fields.
const DefaultRootLabel = "General"

// InteractiveIf makes a control interactive only while another field holds
// the given value.
type InteractiveIf struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

// FieldDescriptor describes one control. It is produced fresh on every
// extraction and never stored.
type FieldDescriptor struct {
	Name          string            `json:"name"`
	Path          string            `json:"path"`
	Label         string            `json:"label"`
	Value         any               `json:"value"`
	Component     RenderKind        `json:"component"`
	Choices       []string          `json:"choices,omitempty"`
	Minimum       *float64          `json:"minimum,omitempty"`
	Maximum       *float64          `json:"maximum,omitempty"`
	Step          *float64          `json:"step,omitempty"`
	Help          string            `json:"help,omitempty"`
	InteractiveIf *InteractiveIf    `json:"interactive_if,omitempty"`
	Interactive   *bool             `json:"interactive,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// Group is a named, ordered collection of descriptors. Key holds the record
// field backing the group and is empty for the synthetic root group.
type Group struct {
	Name       string            `json:"group_name"`
	Key        string            `json:"key,omitempty"`
	Properties []FieldDescriptor `json:"properties"`
}

// Schema is the ordered list of groups rendered by a front-end.
type Schema []Group

// Lookup returns the descriptor registered under the dotted path.
func (s Schema) Lookup(path string) (*FieldDescriptor, bool) {
	for gi := range s {
		for pi := range s[gi].Properties {
			if s[gi].Properties[pi].Path == path {
				return &s[gi].Properties[pi], true
			}
		}
	}
	return nil, false
}

// Group returns the group with the supplied display name.
func (s Schema) Group(name string) (*Group, bool) {
	for idx := range s {
		if s[idx].Name == name {
			return &s[idx], true
		}
	}
	return nil, false
}

// Clone returns a copy that shares no slices or maps with s, descriptor
// values included.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	out := make(Schema, len(s))
	for gi, group := range s {
		cloned := group
		cloned.Properties = make([]FieldDescriptor, len(group.Properties))
		for pi, prop := range group.Properties {
			cloned.Properties[pi] = prop.clone()
		}
		out[gi] = cloned
	}
	return out
}

func (d FieldDescriptor) clone() FieldDescriptor {
	out := d
	out.Value = deepcopy.Copy(d.Value)
	if d.Choices != nil {
		out.Choices = append([]string(nil), d.Choices...)
	}
	out.Minimum = cloneFloat(d.Minimum)
	out.Maximum = cloneFloat(d.Maximum)
	out.Step = cloneFloat(d.Step)
	if d.InteractiveIf != nil {
		cond := *d.InteractiveIf
		out.InteractiveIf = &cond
	}
	if d.Interactive != nil {
		flag := *d.Interactive
		out.Interactive = &flag
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
