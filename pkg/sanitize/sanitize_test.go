package sanitize_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/sanitize"
)

func TestText(t *testing.T) {
	cases := map[string]string{
		"  Seed  ":                         "Seed",
		"<b>Bold</b> label":                "Bold label",
		"Light & Shadow":                   "Light & Shadow",
		`<script>alert("x")</script>Steps`: "Steps",
		"":                                 "",
	}
	for input, want := range cases {
		if got := sanitize.Text(input); got != want {
			t.Fatalf("Text(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestIconRemovesScripts(t *testing.T) {
	got := sanitize.Icon(`  <svg viewBox="0 0 24 24"><script>alert('x')</script><path d="M0 0h24v24H0z" /></svg>`)
	if strings.Contains(got, "script") {
		t.Fatalf("expected script tag to be removed, got %q", got)
	}
	if !strings.Contains(got, "<svg") || !strings.Contains(got, "<path") {
		t.Fatalf("expected svg/path elements to remain, got %q", got)
	}
}

func TestDecoratorCleansDisplayStrings(t *testing.T) {
	schema := model.Schema{{
		Name: "<i>Sampling</i>",
		Key:  "sampling",
		Properties: []model.FieldDescriptor{{
			Name:     "cfg_scale",
			Path:     "sampling.cfg_scale",
			Label:    "<em>CFG</em> Scale",
			Help:     `<a href="javascript:alert(1)">How strongly</a> the prompt is followed.`,
			Value:    "<b>kept</b>",
			Metadata: map[string]string{"hint": "<u>x</u>", sanitize.IconMetadataKey: `<svg><path d="M0 0"/><script>x</script></svg>`},
		}},
	}}

	if err := sanitize.NewDecorator().Decorate(&schema); err != nil {
		t.Fatalf("decorate: %v", err)
	}
	desc := schema[0].Properties[0]
	got := []string{schema[0].Name, desc.Label, desc.Help, desc.Metadata["hint"]}
	want := []string{"Sampling", "CFG Scale", "How strongly the prompt is followed.", "x"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitised strings mismatch (-want +got):\n%s", diff)
	}
	if desc.Value != "<b>kept</b>" {
		t.Fatalf("values must not be sanitised, got %v", desc.Value)
	}
	if icon := desc.Metadata[sanitize.IconMetadataKey]; !strings.Contains(icon, "<path") || strings.Contains(icon, "script") {
		t.Fatalf("icon metadata not cleaned with svg policy: %q", icon)
	}
}

func TestDecorateNilSchema(t *testing.T) {
	if err := sanitize.NewDecorator().Decorate(nil); err != nil {
		t.Fatalf("expected nil schema to be ignored, got %v", err)
	}
}
