package record

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mohae/deepcopy"
)

// ErrConvert reports a payload value that cannot be assigned to a field.
var ErrConvert = errors.New("record: cannot convert value")

// number is satisfied by json.Number from both encoding/json and go-json.
type number interface {
	String() string
	Int64() (int64, error)
	Float64() (float64, error)
}

// Convert turns a payload value into a value of the target type. Strings are
// parsed weakly ("42" -> 42, "true" -> true); floats only convert to integer
// types when integral and in range. A nil value converts to a nil pointer for
// pointer targets and fails otherwise.
func Convert(value any, target reflect.Type) (reflect.Value, error) {
	if target.Kind() == reflect.Pointer {
		if value == nil {
			return reflect.Zero(target), nil
		}
		inner, err := Convert(value, target.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		ptr := reflect.New(target.Elem())
		ptr.Elem().Set(inner)
		return ptr, nil
	}
	if value == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil into %s", ErrConvert, target)
	}
	if rv := reflect.ValueOf(value); rv.Type() == target {
		if composite(target.Kind()) {
			return reflect.ValueOf(deepcopy.Copy(value)), nil
		}
		return rv, nil
	}

	input, err := normaliseNumber(value, target)
	if err != nil {
		return reflect.Value{}, err
	}

	out := reflect.New(target)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out.Interface(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %v", ErrConvert, err)
	}
	if err := decoder.Decode(input); err != nil {
		return reflect.Value{}, fmt.Errorf("%w: %T into %s: %v", ErrConvert, value, target, err)
	}
	return out.Elem(), nil
}

func normaliseNumber(value any, target reflect.Type) (any, error) {
	kind := target.Kind()
	if n, ok := value.(number); ok {
		switch {
		case isInt(kind) || isUint(kind):
			if i, err := n.Int64(); err == nil {
				return checkInt(i, target)
			}
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %q into %s", ErrConvert, n.String(), target)
			}
			return floatToInt(f, target)
		case isFloat(kind):
			f, err := n.Float64()
			if err != nil {
				return nil, fmt.Errorf("%w: %q into %s", ErrConvert, n.String(), target)
			}
			return f, nil
		default:
			return n.String(), nil
		}
	}

	rv := reflect.ValueOf(value)
	switch {
	case (isInt(kind) || isUint(kind)) && isFloat(rv.Kind()):
		return floatToInt(rv.Float(), target)
	case (isInt(kind) || isUint(kind)) && isInt(rv.Kind()):
		return checkInt(rv.Int(), target)
	}
	return value, nil
}

func floatToInt(f float64, target reflect.Type) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %v is not an integer (%s)", ErrConvert, f, target)
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("%w: %v overflows %s", ErrConvert, f, target)
	}
	return checkInt(int64(f), target)
}

func checkInt(i int64, target reflect.Type) (any, error) {
	zero := reflect.New(target).Elem()
	if isUint(target.Kind()) {
		if i < 0 || zero.OverflowUint(uint64(i)) {
			return nil, fmt.Errorf("%w: %d overflows %s", ErrConvert, i, target)
		}
		return uint64(i), nil
	}
	if zero.OverflowInt(i) {
		return nil, fmt.Errorf("%w: %d overflows %s", ErrConvert, i, target)
	}
	return i, nil
}

func isInt(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isFloat(kind reflect.Kind) bool {
	return kind == reflect.Float32 || kind == reflect.Float64
}

// Plain unwraps a field value into the basic Go value a front-end understands:
// bool, int, float64 or string for scalar kinds (named types included), the
// dereferenced value for pointers and nil for nil pointers. Slices, maps,
// arrays and structs are returned as deep copies.
func Plain(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch {
	case v.Kind() == reflect.Bool:
		return v.Bool()
	case isInt(v.Kind()):
		return int(v.Int())
	case isUint(v.Kind()):
		u := v.Uint()
		if u > math.MaxInt {
			return u
		}
		return int(u)
	case isFloat(v.Kind()):
		return v.Float()
	case v.Kind() == reflect.String:
		return v.String()
	case composite(v.Kind()):
		return deepcopy.Copy(v.Interface())
	default:
		return v.Interface()
	}
}

func composite(kind reflect.Kind) bool {
	switch kind {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Struct:
		return true
	}
	return false
}

// Copy returns an addressable deep copy of a record value. Unexported fields
// are not copied.
func Copy(v reflect.Value) reflect.Value {
	if !v.IsValid() {
		return reflect.Value{}
	}
	out := reflect.New(v.Type()).Elem()
	copied := deepcopy.Copy(v.Interface())
	if copied != nil {
		out.Set(reflect.ValueOf(copied))
	}
	return out
}

// Equal reports whether two field values are deeply equal.
func Equal(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	return reflect.DeepEqual(a.Interface(), b.Interface())
}
