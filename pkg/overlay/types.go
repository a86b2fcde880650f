package overlay

import "strings"

// Store keeps the parsed sheet overlays. It is safe for concurrent readers
// when treated as immutable after construction.
type Store struct {
	sheets map[string]Sheet
}

// Sheet holds the overrides for one sheet id.
type Sheet struct {
	ID        string
	Source    string
	RootLabel string
	// Groups is keyed by the record field backing the group.
	Groups map[string]GroupConfig
	// Fields is keyed by dotted descriptor path.
	Fields map[string]FieldConfig
}

// GroupConfig customises one group.
type GroupConfig struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Order *int   `json:"order,omitempty" yaml:"order,omitempty"`
}

// FieldConfig customises one descriptor.
type FieldConfig struct {
	Label        string            `json:"label,omitempty" yaml:"label,omitempty"`
	Help         string            `json:"help,omitempty" yaml:"help,omitempty"`
	Component    string            `json:"component,omitempty" yaml:"component,omitempty"`
	Minimum      *float64          `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum      *float64          `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Step         *float64          `json:"step,omitempty" yaml:"step,omitempty"`
	Order        *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	OriginalPath string            `json:"-" yaml:"-"`
}

// NormalizeFieldPath trims a field key and collapses empty path segments, so
// " sampling..cfg_scale " addresses "sampling.cfg_scale".
func NormalizeFieldPath(path string) string {
	var parts []string
	for _, part := range strings.Split(strings.TrimSpace(path), ".") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, ".")
}
