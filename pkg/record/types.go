package record

import (
	"reflect"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

// Kind is the declared-type tag used for render-kind inference.
type Kind int

const (
	KindOther Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindEnum
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindGroup:
		return "group"
	default:
		return "other"
	}
}

// Enum is implemented by string types with a fixed, ordered set of allowed
// values.
type Enum interface {
	Choices() []string
}

// Describer lets a record supply field metadata in code instead of (or on top
// of) struct tags. Keys are wire field names; non-zero members override the
// tag-derived values.
type Describer interface {
	DescribeFields() map[string]Metadata
}

// Metadata holds the free-form annotations attached to a field.
type Metadata struct {
	Component       model.RenderKind
	Label           string
	Help            string
	Minimum         *float64
	Maximum         *float64
	Step            *float64
	Choices         []string
	InteractiveIf   *model.InteractiveIf
	InteractiveRule string
	Extra           map[string]string
}

// Field is one entry of a record's descriptor table.
type Field struct {
	// Name is the wire name used in schemas and payloads.
	Name   string
	GoName string
	Index  int
	// Type is the declared Go type, possibly a pointer.
	Type    reflect.Type
	Kind    Kind
	Choices []string
	Meta    Metadata
	// Group describes the nested record when Kind is KindGroup.
	Group *Type
}

// Pointer reports whether the declared type is a pointer.
func (f *Field) Pointer() bool {
	return f.Type.Kind() == reflect.Pointer
}

// IsGroup reports whether the field holds a nested record.
func (f *Field) IsGroup() bool {
	return f.Kind == KindGroup
}

// Get returns the field value with pointers dereferenced. ok is false when a
// pointer field is nil.
func (f *Field) Get(rec reflect.Value) (reflect.Value, bool) {
	value := rec.Field(f.Index)
	if f.Pointer() {
		if value.IsNil() {
			return reflect.Value{}, false
		}
		return value.Elem(), true
	}
	return value, true
}

// Raw returns the field value exactly as declared.
func (f *Field) Raw(rec reflect.Value) reflect.Value {
	return rec.Field(f.Index)
}

// Set assigns value, which must already be of the declared type.
func (f *Field) Set(rec reflect.Value, value reflect.Value) {
	rec.Field(f.Index).Set(value)
}

// Type is the descriptor table of one record type.
type Type struct {
	Go       reflect.Type
	Fields   []Field
	index    map[string]int
	defaults reflect.Value
}

// Lookup returns the field registered under the wire name.
func (t *Type) Lookup(name string) (*Field, bool) {
	if t == nil {
		return nil, false
	}
	idx, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.Fields[idx], true
}

// Groups returns the group fields in declaration order.
func (t *Type) Groups() []*Field {
	var out []*Field
	for idx := range t.Fields {
		if t.Fields[idx].IsGroup() {
			out = append(out, &t.Fields[idx])
		}
	}
	return out
}

// Defaults returns a fresh, addressable instance populated with the declared
// defaults.
func (t *Type) Defaults() reflect.Value {
	return Copy(t.defaults)
}

// Default returns the declared default of a field, dereferenced. ok is false
// when the default itself is a nil pointer.
func (t *Type) Default(f *Field) (reflect.Value, bool) {
	return f.Get(t.defaults)
}

// GroupValue returns the addressable nested record held by a group field.
// When the pointer is nil and allocate is set, a default instance is stored
// first; without allocate the declared default is returned read-only.
func (t *Type) GroupValue(rec reflect.Value, f *Field, allocate bool) (reflect.Value, bool) {
	if value, ok := f.Get(rec); ok {
		return value, true
	}
	if !allocate {
		if f.Group == nil {
			return reflect.Value{}, false
		}
		return f.Group.defaults, true
	}
	fresh := f.Group.Defaults()
	ptr := reflect.New(f.Group.Go)
	ptr.Elem().Set(fresh)
	f.Set(rec, ptr)
	return ptr.Elem(), true
}
