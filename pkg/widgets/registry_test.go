package widgets

import (
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
)

type sample struct {
	Enabled  bool
	Count    int
	Ratio    float64
	Name     string
	Mode     string        `choices:"a|b"`
	Tint     string        `component:"colorpicker"`
	Strength float64       `component:"slider" min:"0" max:"1"`
	Timeout  time.Duration `default:"5s"`
	When     time.Time
}

func field(t *testing.T, name string) *record.Field {
	t.Helper()
	info, err := record.Inspect(reflect.TypeOf(sample{}))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	f, ok := info.Lookup(name)
	if !ok {
		t.Fatalf("field %q not found", name)
	}
	return f
}

func TestResolve_ExplicitComponentWins(t *testing.T) {
	reg := NewRegistry()

	if got := reg.Resolve(field(t, "tint")); got != model.RenderKindColorPicker {
		t.Fatalf("expected explicit colorpicker to win, got %q", got)
	}
	if got := reg.Resolve(field(t, "strength")); got != model.RenderKindSlider {
		t.Fatalf("expected explicit slider to win, got %q", got)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		field  string
		expect model.RenderKind
	}{
		{field: "enabled", expect: model.RenderKindCheckbox},
		{field: "count", expect: model.RenderKindNumberInteger},
		{field: "ratio", expect: model.RenderKindNumberFloat},
		{field: "name", expect: model.RenderKindString},
		{field: "mode", expect: model.RenderKindDropdown},
		{field: "when", expect: model.RenderKindString},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.field, func(t *testing.T) {
			t.Parallel()
			if got := reg.Resolve(field(t, tc.field)); got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.field, tc.expect, got)
			}
		})
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	durationType := reflect.TypeOf(time.Duration(0))
	reg.Register("duration", "duration", 999, func(f *record.Field) bool {
		return f.Type == durationType
	})

	if got := reg.Resolve(field(t, "timeout")); got != "duration" {
		t.Fatalf("priority matcher should win, got %q", got)
	}
	if got := reg.Resolve(field(t, "count")); got != model.RenderKindNumberInteger {
		t.Fatalf("builtin int matcher should still apply, got %q", got)
	}
}

func TestResolve_TiesFallBackToRegistrationOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", "first", 10, func(*record.Field) bool { return true })
	reg.Register("second", "second", 10, func(*record.Field) bool { return true })

	if got := reg.Resolve(field(t, "name")); got != "first" {
		t.Fatalf("expected first registration to win the tie, got %q", got)
	}
}

func TestResolve_EmptyRegistryFallsBackToString(t *testing.T) {
	var reg *Registry
	if got := reg.Resolve(field(t, "enabled")); got != model.RenderKindString {
		t.Fatalf("nil registry should resolve to string, got %q", got)
	}
	if got := (&Registry{}).Resolve(nil); got != model.RenderKindString {
		t.Fatalf("nil field should resolve to string, got %q", got)
	}
}
