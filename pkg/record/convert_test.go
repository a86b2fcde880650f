package record_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propertysheet/pkg/record"
	"github.com/goliatone/go-propertysheet/pkg/testsupport"
)

func TestConvert(t *testing.T) {
	intPtr := func(v int) *int { return &v }

	cases := []struct {
		name   string
		value  any
		target reflect.Type
		want   any
	}{
		{name: "string to int", value: "42", target: reflect.TypeOf(0), want: 42},
		{name: "integral float to int", value: 3.0, target: reflect.TypeOf(0), want: 3},
		{name: "json number to float", value: json.Number("7.5"), target: reflect.TypeOf(0.0), want: 7.5},
		{name: "json number to int", value: json.Number("12"), target: reflect.TypeOf(0), want: 12},
		{name: "string to bool", value: "true", target: reflect.TypeOf(false), want: true},
		{name: "int to float", value: 2, target: reflect.TypeOf(0.0), want: 2.0},
		{name: "string to enum", value: "Custom", target: reflect.TypeOf(testsupport.ModelType("")), want: testsupport.ModelType("Custom")},
		{name: "float to pointer", value: 4.0, target: reflect.TypeOf((*int)(nil)), want: intPtr(4)},
		{name: "nil to pointer", value: nil, target: reflect.TypeOf((*int)(nil)), want: (*int)(nil)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := record.Convert(tc.value, tc.target)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if diff := cmp.Diff(tc.want, got.Interface()); diff != "" {
				t.Fatalf("converted value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvert_Rejects(t *testing.T) {
	cases := []struct {
		name   string
		value  any
		target reflect.Type
	}{
		{name: "fractional float to int", value: 2.5, target: reflect.TypeOf(0)},
		{name: "fractional json number to int", value: json.Number("0.5"), target: reflect.TypeOf(0)},
		{name: "overflow", value: 300, target: reflect.TypeOf(int8(0))},
		{name: "negative to uint", value: -1, target: reflect.TypeOf(uint(0))},
		{name: "garbage to int", value: "abc", target: reflect.TypeOf(0)},
		{name: "nil to scalar", value: nil, target: reflect.TypeOf("")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := record.Convert(tc.value, tc.target); !errors.Is(err, record.ErrConvert) {
				t.Fatalf("expected ErrConvert, got %v", err)
			}
		})
	}
}

func TestPlain(t *testing.T) {
	exposure := 5
	cases := []struct {
		name  string
		value reflect.Value
		want  any
	}{
		{name: "named string", value: reflect.ValueOf(testsupport.ModelType("SDXL")), want: "SDXL"},
		{name: "small int", value: reflect.ValueOf(int8(4)), want: 4},
		{name: "uint", value: reflect.ValueOf(uint16(9)), want: 9},
		{name: "float32", value: reflect.ValueOf(float32(0.5)), want: 0.5},
		{name: "pointer", value: reflect.ValueOf(&exposure), want: 5},
		{name: "nil pointer", value: reflect.ValueOf((*int)(nil)), want: nil},
		{name: "invalid", value: reflect.Value{}, want: nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, record.Plain(tc.value)); diff != "" {
				t.Fatalf("plain mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCopy_IsDeep(t *testing.T) {
	exposure := 2
	original := testsupport.Environment{
		Lighting: testsupport.Lighting{Color: "#000000"},
		Fog:      &testsupport.Lighting{Exposure: &exposure},
	}

	copied := record.Copy(reflect.ValueOf(original))
	if !copied.CanSet() {
		t.Fatalf("expected addressable copy")
	}
	clone := copied.Addr().Interface().(*testsupport.Environment)
	clone.Lighting.Color = "#FFFFFF"
	*clone.Fog.Exposure = 9

	if original.Lighting.Color != "#000000" || *original.Fog.Exposure != 2 {
		t.Fatalf("copy shares state with original: %+v", original)
	}
	if !record.Equal(reflect.ValueOf(original), reflect.ValueOf(original)) {
		t.Fatalf("expected value to equal itself")
	}
	if record.Equal(reflect.ValueOf(original), copied) {
		t.Fatalf("expected modified copy to differ")
	}
}

func TestPlainAndConvert_CopyComposites(t *testing.T) {
	held := []string{"a", "b"}
	plain := record.Plain(reflect.ValueOf(held)).([]string)
	plain[0] = "edited"
	if diff := cmp.Diff([]string{"a", "b"}, held); diff != "" {
		t.Fatalf("Plain shares the slice (-want +got):\n%s", diff)
	}

	in := map[string]int{"k": 1}
	converted, err := record.Convert(in, reflect.TypeOf(in))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	in["k"] = 2
	if diff := cmp.Diff(map[string]int{"k": 1}, converted.Interface()); diff != "" {
		t.Fatalf("Convert shares the map (-want +got):\n%s", diff)
	}
}
