package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-propertysheet/pkg/interactivity"
	"github.com/goliatone/go-propertysheet/pkg/model"
)

// Editor prompts for every interactive field of a schema.
type Editor struct {
	driver      PromptDriver
	theme       Theme
	changedOnly bool
}

// New constructs an editor with defaults (survey driver on stdout).
func New(options ...Option) *Editor {
	e := &Editor{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver(nil)
	}
	return e
}

// Edit walks the schema in order and returns a group payload with one
// property per edited field. Fields marked non-interactive are shown but not
// prompted and keep their current value.
func (e *Editor) Edit(ctx context.Context, schema model.Schema) (*model.Payload, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.driver == nil {
		return nil, ErrNilDriver
	}

	groups := make([]model.GroupPayload, 0, len(schema))
	for _, group := range schema {
		if err := e.driver.Info(ctx, e.theme.InfoPrefix+"== "+group.Name+" =="); err != nil {
			return nil, err
		}
		payload := model.GroupPayload{Name: group.Name}
		for _, desc := range group.Properties {
			if desc.Interactive != nil && !*desc.Interactive {
				msg := fmt.Sprintf("%s%s: %s (locked)", e.theme.InfoPrefix, displayLabel(desc), formatValue(desc.Value))
				if err := e.driver.Info(ctx, msg); err != nil {
					return nil, err
				}
				if !e.changedOnly {
					payload.Properties = append(payload.Properties, model.PropertyValue{Name: desc.Path, Value: desc.Value})
				}
				continue
			}

			value, err := e.promptField(ctx, desc)
			if err != nil {
				return nil, fmt.Errorf("tui: %s: %w", desc.Path, err)
			}
			if e.changedOnly && interactivity.Equal(value, desc.Value) {
				continue
			}
			payload.Properties = append(payload.Properties, model.PropertyValue{Name: desc.Path, Value: value})
		}
		if e.changedOnly && len(payload.Properties) == 0 {
			continue
		}
		groups = append(groups, payload)
	}
	return model.NewGroupPayload(groups...), nil
}

func (e *Editor) promptField(ctx context.Context, desc model.FieldDescriptor) (any, error) {
	message := e.theme.PromptPrefix + displayLabel(desc)
	switch desc.Component {
	case model.RenderKindCheckbox:
		current, _ := desc.Value.(bool)
		return e.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: current, Help: desc.Help})
	case model.RenderKindDropdown:
		if len(desc.Choices) == 0 {
			return e.promptString(ctx, message, desc)
		}
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      desc.Choices,
			DefaultIndex: indexOf(desc.Choices, formatValue(desc.Value)),
			Help:         desc.Help,
		})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(desc.Choices) {
			return desc.Value, nil
		}
		return desc.Choices[idx], nil
	case model.RenderKindNumberInteger:
		return e.promptNumber(ctx, message, desc, true)
	case model.RenderKindNumberFloat, model.RenderKindSlider:
		return e.promptNumber(ctx, message, desc, false)
	default:
		return e.promptString(ctx, message, desc)
	}
}

func (e *Editor) promptString(ctx context.Context, message string, desc model.FieldDescriptor) (any, error) {
	return e.driver.Input(ctx, InputConfig{Message: message, Default: formatValue(desc.Value), Help: desc.Help})
}

func (e *Editor) promptNumber(ctx context.Context, message string, desc model.FieldDescriptor, integer bool) (any, error) {
	validate := func(raw string) error {
		_, err := parseNumber(raw, desc, integer)
		return err
	}
	raw, err := e.driver.Input(ctx, InputConfig{
		Message:   message,
		Default:   formatValue(desc.Value),
		Help:      boundsHelp(desc),
		Validator: validate,
	})
	if err != nil {
		return nil, err
	}
	return parseNumber(raw, desc, integer)
}

func parseNumber(raw string, desc model.FieldDescriptor, integer bool) (any, error) {
	trimmed := strings.TrimSpace(raw)
	var (
		number float64
		out    any
	)
	if integer {
		n, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", raw)
		}
		number, out = float64(n), n
	} else {
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", raw)
		}
		number, out = f, f
	}
	if desc.Minimum != nil && number < *desc.Minimum {
		return nil, fmt.Errorf("must be at least %g", *desc.Minimum)
	}
	if desc.Maximum != nil && number > *desc.Maximum {
		return nil, fmt.Errorf("must be at most %g", *desc.Maximum)
	}
	return out, nil
}

func boundsHelp(desc model.FieldDescriptor) string {
	parts := []string{}
	if desc.Help != "" {
		parts = append(parts, desc.Help)
	}
	switch {
	case desc.Minimum != nil && desc.Maximum != nil:
		parts = append(parts, fmt.Sprintf("range %g..%g", *desc.Minimum, *desc.Maximum))
	case desc.Minimum != nil:
		parts = append(parts, fmt.Sprintf("min %g", *desc.Minimum))
	case desc.Maximum != nil:
		parts = append(parts, fmt.Sprintf("max %g", *desc.Maximum))
	}
	return strings.Join(parts, " ")
}

func displayLabel(desc model.FieldDescriptor) string {
	if desc.Label != "" {
		return desc.Label
	}
	return desc.Name
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
