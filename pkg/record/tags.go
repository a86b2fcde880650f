package record

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

const (
	tagSheet           = "sheet"
	tagJSON            = "json"
	tagLabel           = "label"
	tagHelp            = "help"
	tagComponent       = "component"
	tagMin             = "min"
	tagMax             = "max"
	tagStep            = "step"
	tagChoices         = "choices"
	tagInteractiveIf   = "interactive_if"
	tagInteractiveRule = "interactive_rule"
	tagMeta            = "meta"
)

// fieldName resolves the wire name of a struct field. The sheet tag wins over
// the json tag; without either the Go name is converted to snake_case.
func fieldName(sf reflect.StructField) (string, bool) {
	if raw, ok := sf.Tag.Lookup(tagSheet); ok {
		name := strings.TrimSpace(strings.Split(raw, ",")[0])
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	if raw, ok := sf.Tag.Lookup(tagJSON); ok {
		name := strings.TrimSpace(strings.Split(raw, ",")[0])
		if name == "-" {
			return "", false
		}
		if name != "" {
			return name, true
		}
	}
	return SnakeCase(sf.Name), true
}

func parseMetadata(sf reflect.StructField) (Metadata, error) {
	meta := Metadata{
		Component:       model.RenderKind(strings.TrimSpace(sf.Tag.Get(tagComponent))),
		Label:           sf.Tag.Get(tagLabel),
		Help:            sf.Tag.Get(tagHelp),
		InteractiveRule: strings.TrimSpace(sf.Tag.Get(tagInteractiveRule)),
	}

	var err error
	if meta.Minimum, err = parseBound(sf, tagMin); err != nil {
		return Metadata{}, err
	}
	if meta.Maximum, err = parseBound(sf, tagMax); err != nil {
		return Metadata{}, err
	}
	if meta.Step, err = parseBound(sf, tagStep); err != nil {
		return Metadata{}, err
	}

	if raw := sf.Tag.Get(tagChoices); raw != "" {
		for _, choice := range strings.Split(raw, "|") {
			if trimmed := strings.TrimSpace(choice); trimmed != "" {
				meta.Choices = append(meta.Choices, trimmed)
			}
		}
	}

	if raw, ok := sf.Tag.Lookup(tagInteractiveIf); ok {
		field, value, found := strings.Cut(raw, "=")
		field = strings.TrimSpace(field)
		if !found || field == "" {
			return Metadata{}, fmt.Errorf("%w: field %s: %s must look like \"field=value\"", ErrInvalidTag, sf.Name, tagInteractiveIf)
		}
		meta.InteractiveIf = &model.InteractiveIf{Field: field, Value: strings.TrimSpace(value)}
	}

	if raw := sf.Tag.Get(tagMeta); raw != "" {
		meta.Extra = make(map[string]string)
		for _, pair := range strings.Split(raw, ";") {
			if strings.TrimSpace(pair) == "" {
				continue
			}
			key, value, found := strings.Cut(pair, "=")
			key = strings.TrimSpace(key)
			if !found || key == "" {
				return Metadata{}, fmt.Errorf("%w: field %s: %s entry %q must look like \"key=value\"", ErrInvalidTag, sf.Name, tagMeta, pair)
			}
			meta.Extra[key] = strings.TrimSpace(value)
		}
	}

	return meta, nil
}

func parseBound(sf reflect.StructField, tag string) (*float64, error) {
	raw := strings.TrimSpace(sf.Tag.Get(tag))
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: field %s: %s=%q is not a number", ErrInvalidTag, sf.Name, tag, raw)
	}
	return &value, nil
}

// merge applies the non-zero members of override on top of base.
func (base Metadata) merge(override Metadata) Metadata {
	out := base
	if override.Component != "" {
		out.Component = override.Component
	}
	if override.Label != "" {
		out.Label = override.Label
	}
	if override.Help != "" {
		out.Help = override.Help
	}
	if override.Minimum != nil {
		out.Minimum = override.Minimum
	}
	if override.Maximum != nil {
		out.Maximum = override.Maximum
	}
	if override.Step != nil {
		out.Step = override.Step
	}
	if len(override.Choices) > 0 {
		out.Choices = append([]string(nil), override.Choices...)
	}
	if override.InteractiveIf != nil {
		cond := *override.InteractiveIf
		out.InteractiveIf = &cond
	}
	if override.InteractiveRule != "" {
		out.InteractiveRule = override.InteractiveRule
	}
	if len(override.Extra) > 0 {
		extra := make(map[string]string, len(base.Extra)+len(override.Extra))
		for k, v := range base.Extra {
			extra[k] = v
		}
		for k, v := range override.Extra {
			extra[k] = v
		}
		out.Extra = extra
	}
	return out
}
