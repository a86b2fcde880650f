package apidoc_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propertysheet/pkg/apidoc"
	"github.com/goliatone/go-propertysheet/pkg/record"
	"github.com/goliatone/go-propertysheet/pkg/testsupport"
)

func inspect(t *testing.T, v any) *record.Type {
	t.Helper()
	info, err := record.Inspect(reflect.TypeOf(v))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	return info
}

func TestInfoAndExample(t *testing.T) {
	info := apidoc.Info()
	if !info.Type.Is("object") {
		t.Fatalf("expected object type, got %v", info.Type)
	}
	if info.Description != "A key-value dictionary of property settings." {
		t.Fatalf("unexpected description %q", info.Description)
	}
	if diff := cmp.Diff(map[string]any{"seed": 12345}, apidoc.ExamplePayload()); diff != "" {
		t.Fatalf("example mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordSchema_Settings(t *testing.T) {
	schema, err := apidoc.RecordSchema(inspect(t, testsupport.Settings{}))
	if err != nil {
		t.Fatalf("record schema: %v", err)
	}
	if err := schema.Validate(context.Background()); err != nil {
		t.Fatalf("schema invalid: %v", err)
	}

	var keys []string
	for key := range schema.Properties {
		keys = append(keys, key)
	}
	if len(keys) != 5 {
		t.Fatalf("expected 5 properties, got %v", keys)
	}

	seed := schema.Properties["seed"].Value
	if !seed.Type.Is("integer") || seed.Title != "Seed (-1 for random)" || seed.Default != -1 {
		t.Fatalf("seed schema mismatch: %+v", seed)
	}

	sampling := schema.Properties["sampling"].Value
	if sampling.Extensions[apidoc.ExtensionGroup] != true {
		t.Fatalf("expected group extension on sampling")
	}
	cfg := sampling.Properties["cfg_scale"].Value
	if !cfg.Type.Is("number") || *cfg.Min != 1 || *cfg.Max != 30 || cfg.Extensions[apidoc.ExtensionStep] != 0.5 {
		t.Fatalf("cfg_scale schema mismatch: %+v", cfg)
	}

	modelType := schema.Properties["model"].Value.Properties["model_type"].Value
	if diff := cmp.Diff([]any{"SD 1.5", "SDXL", "Pony", "Custom"}, modelType.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
	if !schema.Properties["postprocessing"].Value.Properties["enable_hr"].Value.Type.Is("boolean") {
		t.Fatalf("expected boolean enable_hr")
	}
}

func TestRecordSchema_AcceptsCurrentValue(t *testing.T) {
	schema, err := apidoc.RecordSchema(inspect(t, testsupport.Settings{}))
	if err != nil {
		t.Fatalf("record schema: %v", err)
	}
	data, err := json.Marshal(map[string]any{
		"seed":  -1,
		"steps": 25,
		"model": map[string]any{"model_type": "Pony", "custom_model_path": "", "vae_path": ""},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var value any
	if err := json.Unmarshal(data, &value); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := schema.VisitJSON(value); err != nil {
		t.Fatalf("expected value to validate: %v", err)
	}

	bad := map[string]any{"model": map[string]any{"model_type": "Flux"}}
	if err := schema.VisitJSON(bad); err == nil {
		t.Fatalf("expected unknown enum value to fail validation")
	}
}

func TestRecordSchema_PointerFieldsNullable(t *testing.T) {
	schema, err := apidoc.RecordSchema(inspect(t, testsupport.Environment{}))
	if err != nil {
		t.Fatalf("record schema: %v", err)
	}
	if _, ok := schema.Properties["background"]; ok {
		t.Fatalf("skipped fields must not be described")
	}
	fog := schema.Properties["fog"].Value
	if !fog.Nullable || !fog.Properties["exposure"].Value.Nullable {
		t.Fatalf("expected pointer fields to be nullable")
	}
	if fog.Properties["exposure"].Value.Default != 3 {
		t.Fatalf("expected pointer default to be dereferenced, got %v", fog.Properties["exposure"].Value.Default)
	}
}

func TestDocument(t *testing.T) {
	doc, err := apidoc.Document(inspect(t, testsupport.Settings{}), "", "Render settings", "")
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		t.Fatalf("document invalid: %v", err)
	}
	if _, ok := doc.Components.Schemas["Settings"]; !ok {
		t.Fatalf("expected record schema under the Go type name, got %v", doc.Components.Schemas)
	}
	if doc.Info.Version != "1.0.0" {
		t.Fatalf("expected default version, got %q", doc.Info.Version)
	}

	if _, err := apidoc.RecordSchema(nil); !errors.Is(err, apidoc.ErrNilType) {
		t.Fatalf("expected ErrNilType, got %v", err)
	}
}
