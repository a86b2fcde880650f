// Package overlay loads per-sheet presentation overrides from JSON or YAML
// documents and applies them to extracted schemas. Overlays change how a
// sheet looks (labels, help, components, bounds, ordering) without touching
// the record types, so the same record can be presented differently per host.
package overlay
