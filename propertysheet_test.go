package propertysheet_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	propertysheet "github.com/goliatone/go-propertysheet"
	"github.com/goliatone/go-propertysheet/pkg/testsupport"
)

type gated struct {
	Mode      string `choices:"simple|expert" default:"simple"`
	Threshold int    `interactive_rule:"mode == 'expert'" default:"3"`
}

func TestRoundTrip(t *testing.T) {
	s, err := propertysheet.New(testsupport.NewSettings(), propertysheet.WithSanitizer())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	schema := s.Extract(s.Initial())

	payload, err := propertysheet.DecodePayload([]byte(`[{"group_name": "General", "properties": [{"name": "seed", "value": 5}]}]`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	got := s.Reconcile(payload).(testsupport.Settings)

	want := testsupport.NewSettings()
	want.Seed = 5
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("value mismatch (-want +got):\n%s", diff)
	}
	if len(schema) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(schema))
	}
}

func TestExtractWithOverlay(t *testing.T) {
	overlayOpt, err := propertysheet.WithOverlayFS(fstest.MapFS{
		"settings.yaml": {Data: []byte("sheets:\n  settings:\n    rootLabel: Basics\n")},
	}, "settings")
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	schema, err := propertysheet.Extract(testsupport.NewSettings(), overlayOpt)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if schema[0].Name != "Basics" {
		t.Fatalf("expected overlay root label, got %q", schema[0].Name)
	}

	if _, err := propertysheet.WithOverlayFS(fstest.MapFS{"bad.json": {Data: []byte("{")}}, "x"); err == nil {
		t.Fatalf("expected overlay parse error")
	}
}

func TestWithRules(t *testing.T) {
	schema, err := propertysheet.Extract(gated{Mode: "expert"}, propertysheet.WithRules())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	threshold, ok := schema.Lookup("threshold")
	if !ok || threshold.Interactive == nil || !*threshold.Interactive {
		t.Fatalf("expected threshold to be interactive in expert mode: %+v", threshold)
	}

	schema, _ = propertysheet.Extract(gated{Mode: "simple"}, propertysheet.WithRules())
	threshold, _ = schema.Lookup("threshold")
	if *threshold.Interactive {
		t.Fatalf("expected threshold to be locked in simple mode")
	}
}

func TestNewRejectsNonRecords(t *testing.T) {
	if _, err := propertysheet.New(42); !errors.Is(err, propertysheet.ErrNotRecord) {
		t.Fatalf("expected ErrNotRecord, got %v", err)
	}
}
