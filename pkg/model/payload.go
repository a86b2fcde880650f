package model

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

var (
	// ErrPayloadShape is returned when a payload is neither a JSON array of
	// groups nor a JSON object patch.
	ErrPayloadShape = errors.New("model: payload must be a list of groups or a key/value object")
	// ErrPayloadEmpty is returned for zero-length input.
	ErrPayloadEmpty = errors.New("model: payload is empty")
)

// PropertyValue is the name/value pair a front-end sends for one control.
type PropertyValue struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// GroupPayload mirrors a schema group but carries only name/value pairs.
type GroupPayload struct {
	Name       string          `json:"group_name"`
	Properties []PropertyValue `json:"properties"`
}

// Payload is an edit coming back from the front-end. Exactly one of Groups or
// Patch is meaningful; a payload with Groups set is group-structured.
type Payload struct {
	Groups []GroupPayload
	Patch  map[string]any
}

// Entry is one name/value edit in application order.
type Entry struct {
	Name  string
	Value any
}

// NewGroupPayload wraps group-structured edits.
func NewGroupPayload(groups ...GroupPayload) *Payload {
	if groups == nil {
		groups = []GroupPayload{}
	}
	return &Payload{Groups: groups}
}

// NewPatch builds a flat patch. Nested maps are flattened into dotted keys so
// {"sampling": {"steps": 30}} addresses "sampling.steps".
func NewPatch(values map[string]any) *Payload {
	patch := make(map[string]any, len(values))
	flatten("", values, patch)
	return &Payload{Patch: patch}
}

// IsGroups reports whether the payload is group-structured.
func (p *Payload) IsGroups() bool {
	return p != nil && p.Groups != nil
}

// Entries returns the edits in application order: group order then property
// order for group payloads, sorted keys for patches.
func (p *Payload) Entries() []Entry {
	if p == nil {
		return nil
	}
	if p.IsGroups() {
		var out []Entry
		for _, group := range p.Groups {
			for _, prop := range group.Properties {
				name := strings.TrimSpace(prop.Name)
				if name == "" {
					continue
				}
				out = append(out, Entry{Name: name, Value: prop.Value})
			}
		}
		return out
	}
	keys := make([]string, 0, len(p.Patch))
	for key := range p.Patch {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Entry, 0, len(keys))
	for _, key := range keys {
		out = append(out, Entry{Name: strings.TrimSpace(key), Value: p.Patch[key]})
	}
	return out
}

// MarshalJSON encodes group payloads as arrays and patches as objects.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Groups != nil {
		return json.Marshal(p.Groups)
	}
	if p.Patch == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Patch)
}

// UnmarshalJSON accepts either payload shape.
func (p *Payload) UnmarshalJSON(data []byte) error {
	decoded, err := DecodePayload(data)
	if err != nil {
		return err
	}
	if decoded == nil {
		*p = Payload{}
		return nil
	}
	*p = *decoded
	return nil
}

// DecodePayload parses a front-end payload. A JSON null yields a nil payload,
// which the reconciler treats as "no edit". Numbers are kept as json.Number
// so integer fields never round-trip through float64.
func DecodePayload(data []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, ErrPayloadEmpty
	}
	switch trimmed[0] {
	case 'n':
		if string(trimmed) == "null" {
			return nil, nil
		}
	case '[':
		var groups []GroupPayload
		if err := decodeNumbers(trimmed, &groups); err != nil {
			return nil, fmt.Errorf("model: decode group payload: %w", err)
		}
		return NewGroupPayload(groups...), nil
	case '{':
		var values map[string]any
		if err := decodeNumbers(trimmed, &values); err != nil {
			return nil, fmt.Errorf("model: decode patch payload: %w", err)
		}
		return NewPatch(values), nil
	}
	return nil, ErrPayloadShape
}

func decodeNumbers(data []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(dest)
}

func flatten(prefix string, values map[string]any, dest map[string]any) {
	for key, value := range values {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if nested, ok := value.(map[string]any); ok && len(nested) > 0 {
			flatten(path, nested, dest)
			continue
		}
		dest[path] = value
	}
}
