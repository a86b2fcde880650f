package overlay

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

// Decorator applies one sheet overlay to extracted schemas.
type Decorator struct {
	store   *Store
	sheetID string
}

// NewDecorator builds a Decorator applying the overlay registered for
// sheetID. When store is nil, empty or lacks sheetID, the decorator is a
// no-op.
func NewDecorator(store *Store, sheetID string) *Decorator {
	return &Decorator{store: store, sheetID: strings.TrimSpace(sheetID)}
}

// Decorate applies the overlay. References to groups or fields the schema
// does not contain are reported as errors.
func (d *Decorator) Decorate(schema *model.Schema) error {
	if d == nil || d.store.Empty() || schema == nil {
		return nil
	}
	sheet, ok := d.store.Sheet(d.sheetID)
	if !ok {
		return nil
	}

	if err := applyGroups(*schema, sheet); err != nil {
		return err
	}
	if err := applyFields(*schema, sheet); err != nil {
		return err
	}
	reorderGroups(*schema, sheet)
	return checkUniqueNames(*schema, sheet)
}

func applyGroups(schema model.Schema, sheet Sheet) error {
	byKey := make(map[string]*model.Group, len(schema))
	for idx := range schema {
		group := &schema[idx]
		if group.Key == "" {
			if sheet.RootLabel != "" {
				group.Name = sheet.RootLabel
			}
			continue
		}
		byKey[group.Key] = group
	}

	for key, cfg := range sheet.Groups {
		group, ok := byKey[key]
		if !ok {
			return fmt.Errorf("overlay: sheet %q (file %s) references unknown group %q", sheet.ID, sheet.Source, key)
		}
		if label := strings.TrimSpace(cfg.Label); label != "" {
			group.Name = label
		}
	}
	return nil
}

func applyFields(schema model.Schema, sheet Sheet) error {
	for path, cfg := range sheet.Fields {
		desc, ok := schema.Lookup(path)
		if !ok {
			return fmt.Errorf("overlay: sheet %q (file %s) references unknown field %q", sheet.ID, sheet.Source, cfg.OriginalPath)
		}
		applyFieldCopy(desc, cfg)
	}

	for idx := range schema {
		reorderFields(schema[idx].Properties, sheet)
	}
	return nil
}

func applyFieldCopy(desc *model.FieldDescriptor, cfg FieldConfig) {
	if label := strings.TrimSpace(cfg.Label); label != "" {
		desc.Label = label
	}
	if help := strings.TrimSpace(cfg.Help); help != "" {
		desc.Help = help
	}
	if component := strings.TrimSpace(cfg.Component); component != "" {
		desc.Component = model.RenderKind(component)
	}
	if cfg.Minimum != nil {
		v := *cfg.Minimum
		desc.Minimum = &v
	}
	if cfg.Maximum != nil {
		v := *cfg.Maximum
		desc.Maximum = &v
	}
	if cfg.Step != nil {
		v := *cfg.Step
		desc.Step = &v
	}
	if len(cfg.Metadata) > 0 {
		if desc.Metadata == nil {
			desc.Metadata = make(map[string]string, len(cfg.Metadata))
		}
		for k, v := range cfg.Metadata {
			desc.Metadata[k] = v
		}
	}
}

// reorderFields sorts descriptors by their configured order. Descriptors
// without one keep their original index as sort key and sort after
// configured descriptors with the same key.
func reorderFields(props []model.FieldDescriptor, sheet Sheet) {
	keys := make(map[string]orderKey, len(props))
	explicit := false
	for idx, prop := range props {
		keys[prop.Path] = orderKey{value: idx, index: idx, implicit: true}
		if cfg, ok := sheet.Fields[prop.Path]; ok && cfg.Order != nil {
			keys[prop.Path] = orderKey{value: *cfg.Order, index: idx}
			explicit = true
		}
	}
	if !explicit {
		return
	}
	sort.SliceStable(props, func(i, j int) bool {
		return keys[props[i].Path].less(keys[props[j].Path])
	})
}

// reorderGroups sorts the named groups by configured order, with the same
// tie rule as reorderFields. The root group stays first.
func reorderGroups(schema model.Schema, sheet Sheet) {
	start := 0
	if len(schema) > 0 && schema[0].Key == "" {
		start = 1
	}
	named := schema[start:]
	keys := make(map[string]orderKey, len(named))
	explicit := false
	for idx, group := range named {
		keys[group.Key] = orderKey{value: idx, index: idx, implicit: true}
		if cfg, ok := sheet.Groups[group.Key]; ok && cfg.Order != nil {
			keys[group.Key] = orderKey{value: *cfg.Order, index: idx}
			explicit = true
		}
	}
	if !explicit {
		return
	}
	sort.SliceStable(named, func(i, j int) bool {
		return keys[named[i].Key].less(keys[named[j].Key])
	})
}

type orderKey struct {
	value    int
	index    int
	implicit bool
}

func (k orderKey) less(other orderKey) bool {
	if k.value != other.value {
		return k.value < other.value
	}
	if k.implicit != other.implicit {
		return !k.implicit
	}
	return k.index < other.index
}

func checkUniqueNames(schema model.Schema, sheet Sheet) error {
	seen := make(map[string]struct{}, len(schema))
	for _, group := range schema {
		if _, exists := seen[group.Name]; exists {
			return fmt.Errorf("overlay: sheet %q (file %s) produces duplicate group name %q", sheet.ID, sheet.Source, group.Name)
		}
		seen[group.Name] = struct{}{}
	}
	return nil
}
