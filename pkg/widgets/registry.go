package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
)

// Built-in matcher names.
const (
	MatcherEnum  = "enum"
	MatcherBool  = "bool"
	MatcherInt   = "int"
	MatcherFloat = "float"
)

// Matcher decides whether a render kind applies to the supplied field.
type Matcher func(field *record.Field) bool

type rule struct {
	name     string
	kind     model.RenderKind
	priority int
	match    Matcher
	order    int
}

// Registry infers render kinds for fields based on explicit metadata or
// registered matchers. Higher priority wins; ties fall back to registration
// order. Fields no matcher claims render as free text.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher producing kind. Higher priority values take
// precedence.
func (r *Registry) Register(name string, kind model.RenderKind, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || strings.TrimSpace(string(kind)) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		kind:     kind,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the render kind for a field. An explicit component in the
// field metadata is returned untouched.
func (r *Registry) Resolve(field *record.Field) model.RenderKind {
	if field == nil {
		return model.RenderKindString
	}
	if explicit := strings.TrimSpace(string(field.Meta.Component)); explicit != "" {
		return model.RenderKind(explicit)
	}
	if r == nil {
		return model.RenderKindString
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.kind
		}
	}
	return model.RenderKindString
}

func (r *Registry) registerBuiltins() {
	r.Register(MatcherEnum, model.RenderKindDropdown, 90, func(field *record.Field) bool {
		return field.Kind == record.KindEnum
	})
	r.Register(MatcherBool, model.RenderKindCheckbox, 80, func(field *record.Field) bool {
		return field.Kind == record.KindBool
	})
	r.Register(MatcherInt, model.RenderKindNumberInteger, 70, func(field *record.Field) bool {
		return field.Kind == record.KindInt
	})
	r.Register(MatcherFloat, model.RenderKindNumberFloat, 60, func(field *record.Field) bool {
		return field.Kind == record.KindFloat
	})
}
