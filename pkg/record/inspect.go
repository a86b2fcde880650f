package record

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/creasty/defaults"
)

var (
	// ErrNotRecord is returned when a type is not a struct or pointer to one.
	ErrNotRecord = errors.New("record: value is not a record")
	// ErrInvalidTag reports malformed field metadata tags.
	ErrInvalidTag = errors.New("record: invalid field tag")
	// ErrDuplicateField reports two fields resolving to the same wire name.
	ErrDuplicateField = errors.New("record: duplicate field name")
	// ErrDefaults wraps failures applying declared defaults.
	ErrDefaults = errors.New("record: apply defaults")
)

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

// Registry caches descriptor tables per Go type. It is safe for concurrent
// use; each type is inspected at most once per successful lookup.
type Registry struct {
	types sync.Map
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry used by Inspect.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Inspect resolves the descriptor table for rt using the shared registry.
func Inspect(rt reflect.Type) (*Type, error) {
	return defaultRegistry.Inspect(rt)
}

// Inspect resolves the descriptor table for rt. Pointer types resolve to their
// element type.
func (r *Registry) Inspect(rt reflect.Type) (*Type, error) {
	if rt == nil {
		return nil, ErrNotRecord
	}
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if !isRecordType(rt) {
		return nil, fmt.Errorf("%w: %s", ErrNotRecord, rt)
	}
	if cached, ok := r.types.Load(rt); ok {
		return cached.(*Type), nil
	}
	info, err := inspect(rt, 0)
	if err != nil {
		return nil, err
	}
	actual, _ := r.types.LoadOrStore(rt, info)
	return actual.(*Type), nil
}

// IsRecord reports whether v is a struct or a non-nil pointer to one.
func IsRecord(v any) bool {
	_, _, ok := Value(v)
	return ok
}

// Value unwraps v into its struct value. pointer reports whether v was a
// pointer to the struct.
func Value(v any) (value reflect.Value, pointer bool, ok bool) {
	if v == nil {
		return reflect.Value{}, false, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, true, false
		}
		rv = rv.Elem()
		pointer = true
	}
	if !isRecordType(rv.Type()) {
		return reflect.Value{}, pointer, false
	}
	return rv, pointer, true
}

func isRecordType(rt reflect.Type) bool {
	return rt.Kind() == reflect.Struct && !reflect.PointerTo(rt).Implements(textMarshalerType)
}

func inspect(rt reflect.Type, depth int) (*Type, error) {
	info := &Type{
		Go:    rt,
		index: make(map[string]int, rt.NumField()),
	}

	var described map[string]Metadata
	if describer, ok := reflect.New(rt).Interface().(Describer); ok {
		described = describer.DescribeFields()
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name, ok := fieldName(sf)
		if !ok {
			continue
		}
		kind := classify(sf.Type)
		if kind == KindGroup && depth > 0 {
			continue
		}
		if _, exists := info.index[name]; exists {
			return nil, fmt.Errorf("%w: %s.%s resolves to %q twice", ErrDuplicateField, rt.Name(), sf.Name, name)
		}

		meta, err := parseMetadata(sf)
		if err != nil {
			return nil, err
		}
		if override, ok := described[name]; ok {
			meta = meta.merge(override)
		}

		field := Field{
			Name:   name,
			GoName: sf.Name,
			Index:  i,
			Type:   sf.Type,
			Kind:   kind,
			Meta:   meta,
		}

		switch kind {
		case KindGroup:
			group, err := inspect(elemType(sf.Type), depth+1)
			if err != nil {
				return nil, err
			}
			field.Group = group
		case KindString:
			if choices := enumChoices(sf.Type); len(choices) > 0 {
				field.Kind = KindEnum
				field.Choices = choices
			} else if len(meta.Choices) > 0 {
				field.Kind = KindEnum
				field.Choices = append([]string(nil), meta.Choices...)
			}
		}

		info.index[name] = len(info.Fields)
		info.Fields = append(info.Fields, field)
	}

	normaliseConditions(info)

	ptr := reflect.New(rt)
	if err := defaults.Set(ptr.Interface()); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDefaults, rt, err)
	}
	info.defaults = ptr.Elem()
	return info, nil
}

func classify(rt reflect.Type) Kind {
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	switch elem.Kind() {
	case reflect.Bool:
		return KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindInt
	case reflect.Float32, reflect.Float64:
		return KindFloat
	case reflect.String:
		return KindString
	case reflect.Struct:
		if isRecordType(elem) {
			return KindGroup
		}
	}
	return KindOther
}

func elemType(rt reflect.Type) reflect.Type {
	if rt.Kind() == reflect.Pointer {
		return rt.Elem()
	}
	return rt
}

func enumChoices(rt reflect.Type) []string {
	elem := elemType(rt)
	if enum, ok := reflect.Zero(elem).Interface().(Enum); ok {
		return append([]string(nil), enum.Choices()...)
	}
	if enum, ok := reflect.New(elem).Interface().(Enum); ok {
		return append([]string(nil), enum.Choices()...)
	}
	return nil
}

// normaliseConditions converts interactive_if values written as tag strings
// into the type of the sibling field they reference, so "enable_hr=true"
// carries a boolean.
func normaliseConditions(info *Type) {
	for idx := range info.Fields {
		cond := info.Fields[idx].Meta.InteractiveIf
		if cond == nil {
			continue
		}
		raw, isString := cond.Value.(string)
		if !isString {
			continue
		}
		target, ok := info.Lookup(cond.Field)
		if !ok || target.IsGroup() {
			continue
		}
		converted, err := Convert(raw, elemType(target.Type))
		if err != nil {
			continue
		}
		normalised := *cond
		normalised.Value = Plain(converted)
		info.Fields[idx].Meta.InteractiveIf = &normalised
	}
}
