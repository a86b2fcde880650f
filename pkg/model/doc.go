// Package model defines the schema and payload types exchanged with a
// front-end. A Schema is an ordered list of groups; each group carries the
// field descriptors a renderer needs to draw one control per field (name,
// label, current value, component kind and kind-specific parameters such as
// choices or numeric bounds). Payloads travel the other way: either a
// group-shaped list of name/value pairs or a flat key/value patch. Nothing in
// this package inspects Go records; see pkg/record for that.
package model
