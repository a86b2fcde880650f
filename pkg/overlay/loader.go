package overlay

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML overlay files.
// When fsys is nil or no overlay files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{sheets: make(map[string]Sheet)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isOverlayFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("overlay: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawID, raw := range doc.Sheets {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("overlay: file %s defines an empty sheet id", path)
			}
			if _, exists := store.sheets[id]; exists {
				return fmt.Errorf("overlay: duplicate sheet %q (file %s)", id, path)
			}
			sheet, err := normaliseSheet(raw, id, path)
			if err != nil {
				return err
			}
			store.sheets[id] = sheet
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Sheet returns the overlay registered for id.
func (s *Store) Sheet(id string) (Sheet, bool) {
	if s == nil {
		return Sheet{}, false
	}
	sheet, ok := s.sheets[strings.TrimSpace(id)]
	return sheet, ok
}

// Empty reports whether the store holds any overlays.
func (s *Store) Empty() bool {
	return s == nil || len(s.sheets) == 0
}

type documentFile struct {
	Sheets map[string]sheetFile `json:"sheets" yaml:"sheets"`
}

type sheetFile struct {
	RootLabel string                 `json:"rootLabel" yaml:"rootLabel"`
	Groups    map[string]GroupConfig `json:"groups" yaml:"groups"`
	Fields    map[string]FieldConfig `json:"fields" yaml:"fields"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if strings.TrimSpace(string(data)) == "" {
		return documentFile{}, fmt.Errorf("overlay: file %s is empty", source)
	}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("overlay: parse %s: invalid JSON or YAML", source)
}

func normaliseSheet(raw sheetFile, id, source string) (Sheet, error) {
	sheet := Sheet{
		ID:        id,
		Source:    source,
		RootLabel: strings.TrimSpace(raw.RootLabel),
		Groups:    make(map[string]GroupConfig, len(raw.Groups)),
		Fields:    make(map[string]FieldConfig, len(raw.Fields)),
	}

	for key, cfg := range raw.Groups {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return Sheet{}, fmt.Errorf("overlay: sheet %q (file %s) defines a group with an empty key", id, source)
		}
		if _, exists := sheet.Groups[trimmed]; exists {
			return Sheet{}, fmt.Errorf("overlay: sheet %q (file %s) defines duplicate group %q", id, source, trimmed)
		}
		sheet.Groups[trimmed] = cfg
	}

	for key, cfg := range raw.Fields {
		normalised := NormalizeFieldPath(key)
		if normalised == "" {
			return Sheet{}, fmt.Errorf("overlay: sheet %q (file %s) field key %q normalises to empty path", id, source, key)
		}
		if _, exists := sheet.Fields[normalised]; exists {
			return Sheet{}, fmt.Errorf("overlay: sheet %q (file %s) defines duplicate field path %q", id, source, normalised)
		}
		if cfg.Minimum != nil && cfg.Maximum != nil && *cfg.Minimum > *cfg.Maximum {
			return Sheet{}, fmt.Errorf("overlay: sheet %q (file %s) field %q has minimum above maximum", id, source, key)
		}
		cloned := cloneFieldConfig(cfg)
		cloned.OriginalPath = key
		sheet.Fields[normalised] = cloned
	}
	return sheet, nil
}

func cloneFieldConfig(cfg FieldConfig) FieldConfig {
	out := cfg
	if len(cfg.Metadata) > 0 {
		out.Metadata = make(map[string]string, len(cfg.Metadata))
		for k, v := range cfg.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

func isOverlayFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
