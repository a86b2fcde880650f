package demo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-propertysheet/pkg/model"
)

// LoadValues reads a YAML or JSON values file into a patch payload. Nested
// objects address group fields ({"sampling": {"steps": 30}}).
func LoadValues(path string) (*model.Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("demo: read values %s: %w", path, err)
	}
	return ParseValues(data, filepath.Ext(path))
}

// ParseValues decodes values data. ext selects YAML for ".yaml"/".yml";
// anything else is tried as JSON first and YAML second.
func ParseValues(data []byte, ext string) (*model.Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return model.NewPatch(nil), nil
	}

	var values map[string]any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("demo: parse values: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &values); err != nil {
			values = nil
			if yerr := yaml.Unmarshal(data, &values); yerr != nil {
				return nil, fmt.Errorf("demo: parse values: invalid JSON or YAML")
			}
		}
	}
	return model.NewPatch(values), nil
}
