package sheet

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/interactivity"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
	"github.com/goliatone/go-propertysheet/pkg/widgets"
)

// FieldChange records one field a reconcile overwrote.
type FieldChange struct {
	Path string `json:"path"`
	Old  any    `json:"old"`
	New  any    `json:"new"`
}

// ChangeEvent is delivered after a reconcile that changed the held value.
type ChangeEvent struct {
	Changes []FieldChange `json:"changes"`
	// Value is a copy of the new held value, shaped like Reconcile's result.
	Value any `json:"value"`
}

// ChangeHandler receives change events synchronously from Reconcile.
type ChangeHandler func(ChangeEvent)

// Sheet is one property-sheet instance. It remembers the last record it
// extracted or reconciled so that later payloads, which carry only names and
// values, can be applied to a complete instance of the same type.
type Sheet struct {
	logger       *zap.Logger
	types        *record.Registry
	widgets      *widgets.Registry
	evaluator    interactivity.Evaluator
	extras       map[string]any
	decorators   []model.Decorator
	onChange     ChangeHandler
	presentation Presentation

	initial any

	// bound state; info is nil while UNBOUND
	info    *record.Type
	value   reflect.Value
	pointer bool
}

// New constructs a Sheet. initial must be nil or a record (a struct or a
// non-nil pointer to one); anything else fails with ErrNotRecord. Malformed
// field tags on the record type are reported here as well. The initial value
// is kept for the host to render first; the sheet itself stays UNBOUND until
// the first Extract.
func New(initial any, options ...Option) (*Sheet, error) {
	s := &Sheet{
		logger:       zap.NewNop(),
		presentation: DefaultPresentation(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.types == nil {
		s.types = record.DefaultRegistry()
	}
	if s.widgets == nil {
		s.widgets = widgets.NewRegistry()
	}
	s.logger = s.logger.Named("sheet")

	if initial == nil {
		return s, nil
	}
	rv, _, ok := record.Value(initial)
	if !ok {
		if isNilPointer(initial) && reflect.TypeOf(initial).Elem().Kind() == reflect.Struct {
			return s, nil
		}
		return nil, fmt.Errorf("%w: got %T", ErrNotRecord, initial)
	}
	if _, err := s.types.Inspect(rv.Type()); err != nil {
		return nil, fmt.Errorf("sheet: inspect %T: %w", initial, err)
	}
	s.initial = shaped(record.Copy(rv), reflect.ValueOf(initial).Kind() == reflect.Pointer)
	return s, nil
}

// MustNew is New that panics on error, for package-level sheets over records
// known to be valid.
func MustNew(initial any, options ...Option) *Sheet {
	s, err := New(initial, options...)
	if err != nil {
		panic(err)
	}
	return s
}

// Initial returns a copy of the value supplied to New, or nil.
func (s *Sheet) Initial() any {
	if s == nil || s.initial == nil {
		return nil
	}
	rv, pointer, ok := record.Value(s.initial)
	if !ok {
		return nil
	}
	return shaped(record.Copy(rv), pointer)
}

// Bound reports whether the sheet has learned a record type.
func (s *Sheet) Bound() bool {
	return s != nil && s.info != nil
}

// Value returns a copy of the held value, or nil while UNBOUND. The copy is a
// pointer when the sheet was bound from a pointer.
func (s *Sheet) Value() any {
	if !s.Bound() {
		return nil
	}
	return shaped(record.Copy(s.value), s.pointer)
}

// Type returns the descriptor table of the bound record type, or nil.
func (s *Sheet) Type() *record.Type {
	if s == nil {
		return nil
	}
	return s.info
}

// Presentation returns the display hints configured at construction.
func (s *Sheet) Presentation() Presentation {
	p := s.presentation
	p.ElemClasses = append([]string(nil), s.presentation.ElemClasses...)
	return p
}

func (s *Sheet) bind(rv reflect.Value, info *record.Type, pointer bool) {
	s.value = rv
	s.info = info
	s.pointer = pointer
}

func shaped(rv reflect.Value, pointer bool) any {
	if pointer {
		return rv.Addr().Interface()
	}
	return rv.Interface()
}

func isNilPointer(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
