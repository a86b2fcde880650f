package sheet

import (
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
)

// Reconcile applies a front-end payload to a deep copy of the held value,
// remembers the result and returns it. A nil payload returns the held value
// unchanged; an UNBOUND sheet returns nil. Unknown names and values that do
// not convert to the field type are skipped. Fields are only overwritten when
// the converted value differs from the current one.
func (s *Sheet) Reconcile(payload *model.Payload) any {
	if !s.Bound() {
		if payload != nil {
			s.logger.Debug("reconcile: sheet is unbound")
		}
		return nil
	}
	if payload == nil {
		return s.Value()
	}

	working := record.Copy(s.value)
	var changes []FieldChange
	for _, entry := range payload.Entries() {
		target, ok := s.resolve(entry.Name)
		if !ok {
			s.logger.Debug("reconcile: ignore unknown field", zap.String("name", entry.Name))
			continue
		}
		change, changed, err := target.apply(working, entry.Value)
		if err != nil {
			s.logger.Debug("reconcile: ignore unconvertible value",
				zap.String("path", target.path()),
				zap.Any("value", entry.Value),
				zap.Error(err),
			)
			continue
		}
		if changed {
			changes = append(changes, change)
		}
	}

	s.value = working
	if len(changes) > 0 && s.onChange != nil {
		s.onChange(ChangeEvent{Changes: changes, Value: s.Value()})
	}
	return s.Value()
}

// target is a resolved payload name: a root scalar when group is nil,
// otherwise a member of the nested record held by group.
type target struct {
	info  *record.Type
	group *record.Field
	field *record.Field
}

func (t target) path() string {
	if t.group == nil {
		return t.field.Name
	}
	return t.group.Name + "." + t.field.Name
}

// resolve finds the field a payload name addresses. A dotted name naming a
// group member is resolved exactly; otherwise a root scalar wins, then the
// first group in declaration order that owns the name.
func (s *Sheet) resolve(name string) (target, bool) {
	info := s.info
	if groupName, member, dotted := strings.Cut(name, "."); dotted {
		if group, ok := info.Lookup(groupName); ok && group.IsGroup() {
			if field, ok := group.Group.Lookup(member); ok && !field.IsGroup() {
				return target{info: info, group: group, field: field}, true
			}
		}
	}
	if field, ok := info.Lookup(name); ok && !field.IsGroup() {
		return target{info: info, field: field}, true
	}
	for _, group := range info.Groups() {
		if field, ok := group.Group.Lookup(name); ok && !field.IsGroup() {
			return target{info: info, group: group, field: field}, true
		}
	}
	return target{}, false
}

// apply converts raw and writes it into rec when it differs from the current
// value. A nil pointer group is only allocated when a write is needed.
func (t target) apply(rec reflect.Value, raw any) (FieldChange, bool, error) {
	converted, err := record.Convert(raw, t.field.Type)
	if err != nil {
		return FieldChange{}, false, err
	}

	owner := rec
	if t.group != nil {
		owner, _ = t.info.GroupValue(rec, t.group, false)
	}
	current := t.field.Raw(owner)
	if record.Equal(current, converted) || t.echoesDefault(current, converted) {
		return FieldChange{}, false, nil
	}

	if t.group != nil {
		owner, _ = t.info.GroupValue(rec, t.group, true)
		current = t.field.Raw(owner)
	}
	change := FieldChange{
		Path: t.path(),
		Old:  record.Plain(current),
		New:  record.Plain(converted),
	}
	t.field.Set(owner, converted)
	return change, true, nil
}

// echoesDefault reports whether converted is the declared default shown in
// place of a nil pointer field. Sending that value back leaves the field nil.
func (t target) echoesDefault(current, converted reflect.Value) bool {
	if current.Kind() != reflect.Pointer || !current.IsNil() || converted.Kind() != reflect.Pointer || converted.IsNil() {
		return false
	}
	owner := t.info
	if t.group != nil {
		owner = t.group.Group
	}
	def, ok := owner.Default(t.field)
	if !ok {
		return false
	}
	return reflect.DeepEqual(def.Interface(), converted.Elem().Interface())
}
