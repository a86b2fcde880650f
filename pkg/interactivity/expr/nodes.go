package expr

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-propertysheet/pkg/interactivity"
)

type orNode struct {
	left, right Node
}

func (n orNode) eval(ctx interactivity.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || ok {
		return ok, err
	}
	return n.right.eval(ctx)
}

type andNode struct {
	left, right Node
}

func (n andNode) eval(ctx interactivity.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil || !ok {
		return false, err
	}
	return n.right.eval(ctx)
}

type notNode struct {
	inner Node
}

func (n notNode) eval(ctx interactivity.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

type truthyNode struct {
	identifier string
}

func (n truthyNode) eval(ctx interactivity.Context) (bool, error) {
	value, ok := ctx.Lookup(n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type compareNode struct {
	identifier string
	op         tokenKind
	literal    token
}

func (n compareNode) eval(ctx interactivity.Context) (bool, error) {
	value, _ := ctx.Lookup(n.identifier)

	switch n.literal.kind {
	case tokNull:
		return n.equality(value == nil)
	case tokBool:
		got, _ := coerceBool(value)
		return n.equality(got == (n.literal.raw == "true"))
	case tokString:
		return n.equality(coerceString(value) == n.literal.raw)
	case tokNumber:
		want, err := strconv.ParseFloat(n.literal.raw, 64)
		if err != nil {
			return false, fmt.Errorf("%w: invalid number literal %q", ErrSyntax, n.literal.raw)
		}
		got, present := coerceNumber(value)
		if !present {
			if n.op == tokEq || n.op == tokNeq {
				return n.equality(false)
			}
			return false, nil
		}
		switch n.op {
		case tokLt:
			return got < want, nil
		case tokLte:
			return got <= want, nil
		case tokGt:
			return got > want, nil
		case tokGte:
			return got >= want, nil
		}
		return n.equality(got == want)
	}
	return false, fmt.Errorf("%w: unsupported literal %q", ErrOperator, n.literal.raw)
}

// equality turns an equality outcome into the result for == or !=.
func (n compareNode) equality(equal bool) (bool, error) {
	switch n.op {
	case tokEq:
		return equal, nil
	case tokNeq:
		return !equal, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrOperator, operatorText[n.op])
	}
}

func truthy(value any) bool {
	if value == nil {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	}
	if f, ok := coerceNumber(value); ok {
		return f != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return rv.Len() > 0
	case reflect.Pointer:
		return !rv.IsNil()
	}
	return true
}

func coerceBool(value any) (bool, bool) {
	switch v := value.(type) {
	case nil:
		return false, false
	case bool:
		return v, true
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed, true
		}
		return strings.TrimSpace(v) != "", true
	default:
		return truthy(value), true
	}
}

func coerceNumber(value any) (float64, bool) {
	if value == nil {
		return 0, false
	}
	if s, ok := value.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
