package sheet_test

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/sheet"
	"github.com/goliatone/go-propertysheet/pkg/testsupport"
)

func TestReconcile_RoundTripIsStable(t *testing.T) {
	exposure := 7
	withHR := testsupport.NewSettings()
	withHR.Post.EnableHR = true

	cases := []struct {
		name    string
		value   any
		payload func(model.Schema) *model.Payload
	}{
		{name: "settings", value: testsupport.NewSettings(), payload: testsupport.IdentityPayload},
		{name: "settings pointer", value: &withHR, payload: testsupport.IdentityPayload},
		{name: "settings by path", value: testsupport.NewSettings(), payload: testsupport.IdentityPatch},
		{name: "environment", value: testsupport.Environment{Lighting: testsupport.Lighting{Exposure: &exposure}}, payload: testsupport.IdentityPatch},
		{name: "nil groups and pointers", value: testsupport.Environment{}, payload: testsupport.IdentityPatch},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fired int
			s := newSheet(t, sheet.WithChangeHandler(func(sheet.ChangeEvent) { fired++ }))
			schema := s.Extract(tc.value)

			got := s.Reconcile(tc.payload(schema))
			if diff := cmp.Diff(tc.value, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
			if fired != 0 {
				t.Fatalf("identity payload must not report changes, fired %d times", fired)
			}
		})
	}
}

func TestReconcile_NilPayloadReturnsHeldValue(t *testing.T) {
	s := newSheet(t)
	settings := testsupport.NewSettings()
	settings.Steps = 40
	s.Extract(settings)

	if diff := cmp.Diff(settings, s.Reconcile(nil)); diff != "" {
		t.Fatalf("nil payload mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_UnboundReturnsNil(t *testing.T) {
	settings := testsupport.NewSettings()
	s, err := sheet.New(settings)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if got := s.Reconcile(model.NewPatch(map[string]any{"seed": 1})); got != nil {
		t.Fatalf("expected nil from an unbound sheet, got %#v", got)
	}
	if got := s.Reconcile(nil); got != nil {
		t.Fatalf("expected nil from an unbound sheet, got %#v", got)
	}
}

func TestReconcile_PatchFindsFirstOwningGroup(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.NewSettings())

	got := s.Reconcile(model.NewPatch(map[string]any{"cfg_scale": 9.5})).(testsupport.Settings)

	want := testsupport.NewSettings()
	want.Sampling.CFGScale = 9.5
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patch mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_CollisionsResolveToFirstGroup(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.Collision{})

	got := s.Reconcile(model.NewPatch(map[string]any{"shared": 4})).(testsupport.Collision)
	if got.First.Shared != 4 || got.Second.Shared != 0 {
		t.Fatalf("expected first group to own the name, got %+v", got)
	}

	got = s.Reconcile(model.NewPatch(map[string]any{"second.shared": 8})).(testsupport.Collision)
	if got.First.Shared != 4 || got.Second.Shared != 8 {
		t.Fatalf("expected dotted path to address the second group, got %+v", got)
	}
}

func TestReconcile_NestedPatchObjects(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.NewSettings())

	payload, err := model.DecodePayload([]byte(`{"sampling": {"scheduler": "Exponential"}, "steps": "30"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := s.Reconcile(payload).(testsupport.Settings)
	if got.Sampling.Scheduler != "Exponential" || got.Steps != 30 {
		t.Fatalf("nested patch not applied: %+v", got)
	}
}

func TestReconcile_GroupPayloadFromJSON(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.NewSettings())

	body := `[
		{"group_name": "General", "properties": [{"name": "seed", "value": 1234}]},
		{"group_name": "Model", "properties": [{"name": "model_type", "value": "Custom"}, {"name": "custom_model_path", "value": "/models/mine.safetensors"}]}
	]`
	var payload model.Payload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got := s.Reconcile(&payload).(testsupport.Settings)

	want := testsupport.NewSettings()
	want.Seed = 1234
	want.Model.ModelType = "Custom"
	want.Model.CustomModelPath = "/models/mine.safetensors"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("group payload mismatch (-want +got):\n%s", diff)
	}
}

func TestReconcile_IgnoresUnknownAndUnconvertible(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.NewSettings())

	got := s.Reconcile(model.NewPatch(map[string]any{
		"does_not_exist": 1,
		"steps":          "many",
		"seed":           2.5,
		"model":          "flat value for a group",
		"enable_hr":      true,
	})).(testsupport.Settings)

	want := testsupport.NewSettings()
	want.Post.EnableHR = true
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected mutation (-want +got):\n%s", diff)
	}
}

func TestReconcile_ResultBecomesHeldValue(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.NewSettings())

	s.Reconcile(model.NewPatch(map[string]any{"steps": 50}))
	got := s.Reconcile(model.NewPatch(map[string]any{"seed": 7})).(testsupport.Settings)
	if got.Steps != 50 || got.Seed != 7 {
		t.Fatalf("edits did not accumulate: %+v", got)
	}

	schema := s.Schema()
	if desc, ok := schema.Lookup("steps"); !ok || desc.Value != 50 {
		t.Fatalf("schema of the held value is stale: %+v", desc)
	}
}

func TestReconcile_PointerInPointerOut(t *testing.T) {
	s := newSheet(t)
	settings := testsupport.NewSettings()
	s.Extract(&settings)

	got, ok := s.Reconcile(model.NewPatch(map[string]any{"seed": 3})).(*testsupport.Settings)
	if !ok {
		t.Fatalf("expected a pointer result")
	}
	if got.Seed != 3 || settings.Seed != -1 {
		t.Fatalf("reconcile must work on a copy: got=%d input=%d", got.Seed, settings.Seed)
	}
}

func TestReconcile_AllocatesNilGroupOnWrite(t *testing.T) {
	s := newSheet(t)
	s.Extract(testsupport.Environment{})

	got := s.Reconcile(model.NewPatch(map[string]any{"fog.sun_intensity": 0.2})).(testsupport.Environment)
	if got.Fog == nil {
		t.Fatalf("expected fog group to be allocated")
	}
	if got.Fog.SunIntensity != 0.2 || got.Fog.Color != "#FFDDBB" || !got.Fog.AmbientOcclusion {
		t.Fatalf("allocated group should start from its defaults: %+v", got.Fog)
	}
}

func TestReconcile_ChangeEvent(t *testing.T) {
	var events []sheet.ChangeEvent
	s := newSheet(t, sheet.WithChangeHandler(func(ev sheet.ChangeEvent) { events = append(events, ev) }))
	s.Extract(testsupport.NewSettings())

	s.Reconcile(model.NewPatch(map[string]any{"cfg_scale": 7.0}))
	if len(events) != 0 {
		t.Fatalf("unchanged value must not fire, got %+v", events)
	}

	result := s.Reconcile(model.NewPatch(map[string]any{"cfg_scale": 12, "seed": 5}))
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	want := []sheet.FieldChange{
		{Path: "sampling.cfg_scale", Old: 7.0, New: 12.0},
		{Path: "seed", Old: -1, New: 5},
	}
	if diff := cmp.Diff(want, events[0].Changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(result, events[0].Value); diff != "" {
		t.Fatalf("event value mismatch (-want +got):\n%s", diff)
	}
}

type tagged struct {
	Tags []string `json:"tags"`
}

func TestSheet_CompositeValuesAreCopied(t *testing.T) {
	s := newSheet(t)
	schema := s.Extract(tagged{Tags: []string{"x", "y"}})

	desc, ok := schema.Lookup("tags")
	if !ok {
		t.Fatalf("tags descriptor missing")
	}
	desc.Value.([]string)[0] = "edited"
	if diff := cmp.Diff(tagged{Tags: []string{"x", "y"}}, s.Value()); diff != "" {
		t.Fatalf("schema shares memory with the held value (-want +got):\n%s", diff)
	}

	in := []string{"p", "q"}
	s.Reconcile(model.NewPatch(map[string]any{"tags": in}))
	in[0] = "caller"
	if diff := cmp.Diff(tagged{Tags: []string{"p", "q"}}, s.Value()); diff != "" {
		t.Fatalf("held value shares memory with the payload (-want +got):\n%s", diff)
	}
}
