// Package interactivity decides whether a control accepts input given the
// current values of the record it belongs to.
package interactivity

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

// Evaluator evaluates an interactive_rule expression for the field at
// fieldPath.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context provides inputs to an Evaluator. Values holds the plain values of
// the bound record keyed by sibling name, dotted path and group name (the
// latter mapping to a nested map). Extras lets hosts inject arbitrary flags
// reachable through the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}

// Lookup resolves key against the context. Exact keys win over dot-path
// traversal of nested maps; keys prefixed with `extras.` read from Extras.
func (c Context) Lookup(key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	if strings.HasPrefix(strings.ToLower(key), "extras.") {
		return lookupPath(c.Extras, strings.TrimSpace(key[len("extras."):]))
	}
	return lookupPath(c.Values, key)
}

func lookupPath(values map[string]any, path string) (any, bool) {
	if len(values) == 0 || path == "" {
		return nil, false
	}
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Matches reports whether the field named by cond currently holds cond.Value.
// A nil condition always matches; a condition on a field absent from the
// context never does.
func Matches(cond *model.InteractiveIf, ctx Context) bool {
	if cond == nil {
		return true
	}
	current, ok := ctx.Lookup(cond.Field)
	if !ok {
		return false
	}
	return Equal(current, cond.Value)
}

// Equal compares two plain values. Numbers compare by value regardless of
// their Go type; other values compare deeply, falling back to their string
// forms for mixed string/scalar pairs ("true" equals true).
func Equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return fa == fb
		}
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	_, aString := a.(string)
	_, bString := b.(string)
	if aString != bString {
		return fmt.Sprint(a) == fmt.Sprint(b)
	}
	return false
}

func toFloat(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f, !math.IsNaN(f)
	default:
		return 0, false
	}
}
