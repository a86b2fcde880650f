// Package propertysheet binds Go records to a grouped property-sheet UI.
// Extract turns a record into an ordered schema of groups and field
// descriptors; Reconcile applies the edited values sent back by a front-end
// to a deep copy of the remembered record.
//
// The root package re-exports the types most hosts need. The building blocks
// live under pkg/: record (type inspection), model (wire types), sheet (the
// stateful adapter), overlay and sanitize (schema decorators), widgets
// (render-kind inference), interactivity (conditional controls), apidoc
// (OpenAPI descriptions) and renderers/tui (a terminal editor).
package propertysheet

import (
	"io/fs"

	"github.com/goliatone/go-propertysheet/pkg/interactivity/expr"
	"github.com/goliatone/go-propertysheet/pkg/model"
	"github.com/goliatone/go-propertysheet/pkg/overlay"
	"github.com/goliatone/go-propertysheet/pkg/sanitize"
	"github.com/goliatone/go-propertysheet/pkg/sheet"
)

// Sheet is one property-sheet instance.
type Sheet = sheet.Sheet

// Option configures a Sheet.
type Option = sheet.Option

// Schema is the ordered list of groups sent to a front-end.
type Schema = model.Schema

// Group is one named group of a Schema.
type Group = model.Group

// FieldDescriptor describes one control.
type FieldDescriptor = model.FieldDescriptor

// Payload is an edit sent back by a front-end.
type Payload = model.Payload

// ChangeEvent is delivered after a reconcile that changed the held value.
type ChangeEvent = sheet.ChangeEvent

// ErrNotRecord is returned by New for initial values that are not records.
var ErrNotRecord = sheet.ErrNotRecord

// New constructs a Sheet. See sheet.New.
func New(initial any, options ...Option) (*Sheet, error) {
	return sheet.New(initial, options...)
}

// Extract is a one-shot helper returning the schema of value without keeping
// a sheet around.
func Extract(value any, options ...Option) (Schema, error) {
	s, err := sheet.New(nil, options...)
	if err != nil {
		return nil, err
	}
	return s.Extract(value), nil
}

// DecodePayload parses a JSON payload in either supported shape.
func DecodePayload(data []byte) (*Payload, error) {
	return model.DecodePayload(data)
}

// WithOverlayFS loads overlay documents from fsys and applies the one
// registered under sheetID to every extracted schema.
func WithOverlayFS(fsys fs.FS, sheetID string) (Option, error) {
	store, err := overlay.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	return sheet.WithDecorators(overlay.NewDecorator(store, sheetID)), nil
}

// WithSanitizer strips markup from labels, group names and help text.
func WithSanitizer() Option {
	return sheet.WithDecorators(sanitize.NewDecorator())
}

// WithRules enables interactive_rule expressions with the built-in
// expression evaluator.
func WithRules() Option {
	return sheet.WithEvaluator(expr.New())
}
