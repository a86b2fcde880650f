// Package apidoc describes the property sheet's wire values as OpenAPI 3
// schemas, for hosts that publish an API description next to the sheet.
package apidoc

import (
	"errors"
	"reflect"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-propertysheet/pkg/record"
)

// ErrNilType is returned when RecordSchema or Document receive no type.
var ErrNilType = errors.New("apidoc: record type is required")

const (
	infoDescription = "A key-value dictionary of property settings."
	// ExtensionGroup marks nested record properties rendered as groups.
	ExtensionGroup = "x-propertysheet-group"
	// ExtensionComponent carries the explicit render kind of a field.
	ExtensionComponent = "x-propertysheet-component"
	// ExtensionStep carries the slider step of a numeric field.
	ExtensionStep = "x-propertysheet-step"
)

// Info returns the generic description of a sheet value: an object of
// arbitrary settings.
func Info() *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Description = infoDescription
	allow := true
	schema.AdditionalProperties = openapi3.AdditionalProperties{Has: &allow}
	return schema
}

// ExamplePayload returns a minimal patch payload suitable as an example.
func ExamplePayload() map[string]any {
	return map[string]any{"seed": 12345}
}

// RecordSchema builds the OpenAPI schema of a record type. Scalars map to
// boolean, integer, number and string schemas carrying titles, defaults,
// choices and bounds; nested records become object properties.
func RecordSchema(info *record.Type) (*openapi3.Schema, error) {
	if info == nil {
		return nil, ErrNilType
	}
	return objectSchema(info), nil
}

// Document wraps the record schema in a minimal OpenAPI document under
// components/schemas/<name>.
func Document(info *record.Type, name, title, version string) (*openapi3.T, error) {
	schema, err := RecordSchema(info)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = info.Go.Name()
	}
	if version == "" {
		version = "1.0.0"
	}
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info:    &openapi3.Info{Title: title, Version: version, Description: infoDescription},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: openapi3.NewSchemaRef("", schema)},
		},
	}, nil
}

func objectSchema(info *record.Type) *openapi3.Schema {
	schema := openapi3.NewObjectSchema()
	schema.Properties = make(openapi3.Schemas, len(info.Fields))
	defaults := info.Defaults()
	for idx := range info.Fields {
		field := &info.Fields[idx]
		schema.Properties[field.Name] = openapi3.NewSchemaRef("", fieldSchema(field, defaults))
	}
	return schema
}

func fieldSchema(field *record.Field, defaults reflect.Value) *openapi3.Schema {
	var schema *openapi3.Schema
	switch field.Kind {
	case record.KindGroup:
		schema = objectSchema(field.Group)
		schema.Extensions = map[string]any{ExtensionGroup: true}
	case record.KindBool:
		schema = openapi3.NewBoolSchema()
	case record.KindInt:
		schema = openapi3.NewIntegerSchema()
	case record.KindFloat:
		schema = openapi3.NewFloat64Schema()
	default:
		schema = openapi3.NewStringSchema()
	}

	meta := field.Meta
	schema.Title = meta.Label
	schema.Description = meta.Help
	schema.Nullable = field.Pointer()
	if field.Kind != record.KindGroup {
		schema.Min = cloneFloat(meta.Minimum)
		schema.Max = cloneFloat(meta.Maximum)
		extensions := make(map[string]any)
		if meta.Component != "" {
			extensions[ExtensionComponent] = string(meta.Component)
		}
		if meta.Step != nil {
			extensions[ExtensionStep] = *meta.Step
		}
		if len(extensions) > 0 {
			schema.Extensions = extensions
		}
		if value, ok := field.Get(defaults); ok {
			schema.Default = record.Plain(value)
		}
	}

	choices := field.Choices
	if len(choices) == 0 {
		choices = meta.Choices
	}
	if len(choices) > 0 {
		schema.Enum = make([]any, len(choices))
		for i, choice := range choices {
			schema.Enum[i] = choice
		}
	}
	return schema
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
