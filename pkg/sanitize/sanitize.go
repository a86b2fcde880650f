// Package sanitize strips markup from the display strings of an extracted
// schema. Labels, group names and help text come from struct tags, overlay
// files or code, and front-ends commonly render them as HTML.
package sanitize

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

// IconMetadataKey is the descriptor metadata key that may carry inline SVG
// markup. Its value is cleaned with an SVG allow-list instead of being
// stripped.
const IconMetadataKey = "icon"

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy

	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// Decorator strips markup from group names, labels, help text and metadata
// values. Values and paths are left untouched.
type Decorator struct{}

// NewDecorator returns the sanitising decorator.
func NewDecorator() Decorator {
	return Decorator{}
}

// Decorate implements model.Decorator.
func (Decorator) Decorate(schema *model.Schema) error {
	if schema == nil {
		return nil
	}
	for gi := range *schema {
		group := &(*schema)[gi]
		group.Name = Text(group.Name)
		for pi := range group.Properties {
			desc := &group.Properties[pi]
			desc.Label = Text(desc.Label)
			desc.Help = Text(desc.Help)
			for key, value := range desc.Metadata {
				if key == IconMetadataKey {
					desc.Metadata[key] = Icon(value)
					continue
				}
				desc.Metadata[key] = Text(value)
			}
		}
	}
	return nil
}

// Text removes every tag from raw and trims the result. Entities produced by
// the policy are decoded back so plain labels such as "A & B" survive.
func Text(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || !strings.ContainsAny(trimmed, "<>&") {
		return trimmed
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(unescape(cleaned))
}

// Icon keeps a small SVG vocabulary and drops everything else.
func Icon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(iconSanitizer().Sanitize(trimmed))
}

// Angle brackets stay escaped so decoding never reintroduces markup.
var entities = strings.NewReplacer("&amp;", "&", "&#34;", `"`, "&#39;", "'", "&quot;", `"`)

func unescape(s string) string {
	return entities.Replace(s)
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

func iconSanitizer() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("svg", "g", "path", "circle", "rect", "line", "polyline", "polygon", "title")
		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "aria-hidden", "role", "class",
		).OnElements("svg")
		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
			).OnElements(el)
		}
		iconPolicy = policy
	})
	return iconPolicy
}
