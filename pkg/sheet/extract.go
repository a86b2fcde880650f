package sheet

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/interactivity"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
)

// Extract builds the schema for value and binds the sheet to a deep copy of
// it. nil, nil pointers and non-record values yield an empty schema and leave
// the sheet untouched. The input is never mutated.
func (s *Sheet) Extract(value any) model.Schema {
	rv, pointer, ok := record.Value(value)
	if !ok {
		if value != nil && !isNilPointer(value) {
			s.logger.Warn("extract: value is not a record", zap.String("type", fmt.Sprintf("%T", value)))
		}
		return model.Schema{}
	}
	info, err := s.types.Inspect(rv.Type())
	if err != nil {
		s.logger.Warn("extract: inspect record", zap.Error(err))
		return model.Schema{}
	}

	snapshot := record.Copy(rv)
	s.bind(snapshot, info, pointer)
	return s.decorate(s.build(snapshot, info))
}

// Schema rebuilds the schema of the held value without rebinding. It is empty
// while UNBOUND.
func (s *Sheet) Schema() model.Schema {
	if !s.Bound() {
		return model.Schema{}
	}
	return s.decorate(s.build(s.value, s.info))
}

func (s *Sheet) build(rec reflect.Value, info *record.Type) model.Schema {
	values := s.scope(rec, info)
	rootCtx := values.context()

	var (
		rootGroup = model.Group{Properties: []model.FieldDescriptor{}}
		groups    []model.Group
		names     = newLabelSet()
	)
	for idx := range info.Fields {
		field := &info.Fields[idx]
		if !field.IsGroup() {
			rootGroup.Properties = append(rootGroup.Properties, s.describe(field, info, rec, field.Name, rootCtx))
			continue
		}

		group := model.Group{
			Name:       names.claim(groupLabel(field)),
			Key:        field.Name,
			Properties: []model.FieldDescriptor{},
		}
		groupRec, ok := info.GroupValue(rec, field, false)
		if ok {
			ctx := values.withSiblings(groupRec, field.Group)
			for sub := range field.Group.Fields {
				member := &field.Group.Fields[sub]
				if member.IsGroup() {
					continue
				}
				path := field.Name + "." + member.Name
				group.Properties = append(group.Properties, s.describe(member, field.Group, groupRec, path, ctx))
			}
		}
		groups = append(groups, group)
	}

	schema := make(model.Schema, 0, len(groups)+1)
	if len(rootGroup.Properties) > 0 {
		rootGroup.Name = names.claim(s.presentation.RootLabel)
		schema = append(schema, rootGroup)
	}
	return append(schema, groups...)
}

func (s *Sheet) describe(field *record.Field, owner *record.Type, rec reflect.Value, path string, ctx interactivity.Context) model.FieldDescriptor {
	desc := model.FieldDescriptor{
		Name:      field.Name,
		Path:      path,
		Label:     fieldLabel(field),
		Value:     currentValue(field, owner, rec),
		Component: s.widgets.Resolve(field),
		Minimum:   cloneFloat(field.Meta.Minimum),
		Maximum:   cloneFloat(field.Meta.Maximum),
		Step:      cloneFloat(field.Meta.Step),
		Help:      field.Meta.Help,
	}

	if desc.Component == model.RenderKindDropdown && field.Kind == record.KindEnum && len(field.Choices) > 0 {
		desc.Choices = append([]string(nil), field.Choices...)
		if current, _ := desc.Value.(string); !contains(desc.Choices, current) {
			s.logger.Debug("extract: coerce enum value to first choice",
				zap.String("path", path),
				zap.Any("value", desc.Value),
				zap.String("choice", desc.Choices[0]),
			)
			desc.Value = desc.Choices[0]
		}
	}

	if cond := field.Meta.InteractiveIf; cond != nil {
		copied := *cond
		desc.InteractiveIf = &copied
	}
	if field.Meta.InteractiveIf != nil || field.Meta.InteractiveRule != "" {
		interactive := s.interactive(field, path, ctx)
		desc.Interactive = &interactive
	}

	if len(field.Meta.Extra) > 0 {
		desc.Metadata = make(map[string]string, len(field.Meta.Extra))
		for k, v := range field.Meta.Extra {
			desc.Metadata[k] = v
		}
	}
	return desc
}

func (s *Sheet) interactive(field *record.Field, path string, ctx interactivity.Context) bool {
	ok := interactivity.Matches(field.Meta.InteractiveIf, ctx)
	rule := field.Meta.InteractiveRule
	if !ok || rule == "" || s.evaluator == nil {
		return ok
	}
	result, err := s.evaluator.Eval(path, rule, ctx)
	if err != nil {
		s.logger.Warn("extract: evaluate interactive rule",
			zap.String("path", path),
			zap.String("rule", rule),
			zap.Error(err),
		)
		return ok
	}
	return result
}

// decorate runs the decorators on a clone and keeps the result only when all
// of them succeed.
func (s *Sheet) decorate(schema model.Schema) model.Schema {
	if len(s.decorators) == 0 {
		return schema
	}
	decorated := schema.Clone()
	for _, decorator := range s.decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&decorated); err != nil {
			s.logger.Warn("extract: decorate schema", zap.Error(err))
			return schema
		}
	}
	return decorated
}

// currentValue reads a field, falling back to the declared default when a
// pointer field is nil.
func currentValue(field *record.Field, owner *record.Type, rec reflect.Value) any {
	if value, ok := field.Get(rec); ok {
		return record.Plain(value)
	}
	if value, ok := owner.Default(field); ok {
		return record.Plain(value)
	}
	return nil
}

func fieldLabel(field *record.Field) string {
	if label := strings.TrimSpace(field.Meta.Label); label != "" {
		return label
	}
	return record.DefaultLabeler(field.Name)
}

func groupLabel(field *record.Field) string {
	if label := strings.TrimSpace(field.Meta.Label); label != "" {
		return label
	}
	return record.GroupLabeler(field.Name)
}

// scope exposes the record to interactivity checks: root scalars by name,
// every group as a nested map and every group member by dotted path.
type scope struct {
	values map[string]any
	extras map[string]any
}

func (s *Sheet) scope(rec reflect.Value, info *record.Type) scope {
	values := make(map[string]any)
	for idx := range info.Fields {
		field := &info.Fields[idx]
		if !field.IsGroup() {
			values[field.Name] = currentValue(field, info, rec)
			continue
		}
		groupRec, ok := info.GroupValue(rec, field, false)
		if !ok {
			continue
		}
		members := make(map[string]any, len(field.Group.Fields))
		for sub := range field.Group.Fields {
			member := &field.Group.Fields[sub]
			if member.IsGroup() {
				continue
			}
			value := currentValue(member, field.Group, groupRec)
			members[member.Name] = value
			values[field.Name+"."+member.Name] = value
		}
		values[field.Name] = members
	}
	return scope{values: values, extras: s.extras}
}

func (sc scope) context() interactivity.Context {
	return interactivity.Context{Values: sc.values, Extras: sc.extras}
}

// withSiblings layers the members of one group over the root scope so that
// conditions name their siblings directly.
func (sc scope) withSiblings(rec reflect.Value, group *record.Type) interactivity.Context {
	values := make(map[string]any, len(sc.values)+len(group.Fields))
	for k, v := range sc.values {
		values[k] = v
	}
	for idx := range group.Fields {
		member := &group.Fields[idx]
		if member.IsGroup() {
			continue
		}
		values[member.Name] = currentValue(member, group, rec)
	}
	return interactivity.Context{Values: values, Extras: sc.extras}
}

// labelSet hands out unique group names, suffixing repeats with " (2)",
// " (3)" and so on.
type labelSet map[string]struct{}

func newLabelSet() labelSet {
	return make(labelSet)
}

func (l labelSet) claim(label string) string {
	candidate := label
	for n := 2; ; n++ {
		if _, taken := l[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s (%d)", label, n)
	}
	l[candidate] = struct{}{}
	return candidate
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
