package sheet

import (
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-propertysheet/pkg/interactivity"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/record"
	"github.com/goliatone/go-propertysheet/pkg/widgets"
)

// Option customises a Sheet.
type Option func(*Sheet)

// WithLogger injects the logger used for debug traces of ignored edits and
// warnings about unusable input. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Sheet) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTypes injects the record type registry. Defaults to the process-wide
// registry shared through record.Inspect.
func WithTypes(types *record.Registry) Option {
	return func(s *Sheet) {
		s.types = types
	}
}

// WithWidgets injects the render-kind registry used for fields without an
// explicit component.
func WithWidgets(registry *widgets.Registry) Option {
	return func(s *Sheet) {
		s.widgets = registry
	}
}

// WithDecorators registers decorators that run on every extracted schema.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(s *Sheet) {
		if len(decorators) == 0 {
			return
		}
		s.decorators = append(s.decorators, decorators...)
	}
}

// WithEvaluator sets the evaluator for interactive_rule expressions. Without
// one, rules are ignored and only interactive_if conditions apply.
func WithEvaluator(evaluator interactivity.Evaluator) Option {
	return func(s *Sheet) {
		s.evaluator = evaluator
	}
}

// WithExtras exposes host flags to interactive_rule expressions under the
// `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(s *Sheet) {
		s.extras = extras
	}
}

// WithChangeHandler registers a callback fired after a reconcile that
// changed at least one field.
func WithChangeHandler(handler ChangeHandler) Option {
	return func(s *Sheet) {
		s.onChange = handler
	}
}

// WithPresentation replaces every display hint at once.
func WithPresentation(p Presentation) Option {
	return func(s *Sheet) {
		s.presentation = p
	}
}

// WithLabel sets the accordion header label.
func WithLabel(label string) Option {
	return func(s *Sheet) {
		s.presentation.Label = label
	}
}

// WithRootLabel names the group holding root-level scalar fields.
func WithRootLabel(label string) Option {
	return func(s *Sheet) {
		if trimmed := strings.TrimSpace(label); trimmed != "" {
			s.presentation.RootLabel = trimmed
		}
	}
}

// WithVisible toggles the visibility hint.
func WithVisible(visible bool) Option {
	return func(s *Sheet) {
		s.presentation.Visible = visible
	}
}

// WithOpen sets whether the sheet starts expanded.
func WithOpen(open bool) Option {
	return func(s *Sheet) {
		s.presentation.Open = open
	}
}

// WithElemID sets the DOM id hint.
func WithElemID(id string) Option {
	return func(s *Sheet) {
		s.presentation.ElemID = id
	}
}

// WithScale sets the relative size hint.
func WithScale(scale int) Option {
	return func(s *Sheet) {
		s.presentation.Scale = &scale
	}
}

// WithWidth sets the width hint.
func WithWidth(width *Dimension) Option {
	return func(s *Sheet) {
		s.presentation.Width = width
	}
}

// WithHeight sets the maximum content height hint.
func WithHeight(height *Dimension) Option {
	return func(s *Sheet) {
		s.presentation.Height = height
	}
}

// WithMinWidth sets the minimum width hint in pixels.
func WithMinWidth(px int) Option {
	return func(s *Sheet) {
		s.presentation.MinWidth = &px
	}
}

// WithContainer toggles the container background hint.
func WithContainer(container bool) Option {
	return func(s *Sheet) {
		s.presentation.Container = container
	}
}

// WithElemClasses appends DOM class hints.
func WithElemClasses(classes ...string) Option {
	return func(s *Sheet) {
		for _, class := range classes {
			if trimmed := strings.TrimSpace(class); trimmed != "" {
				s.presentation.ElemClasses = append(s.presentation.ElemClasses, trimmed)
			}
		}
	}
}
