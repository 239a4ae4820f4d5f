// Package model defines the form record, per-field validity, UI flags and the
// descriptor tree (fields and flex containers) that the form engine binds and
// renderers consume. Records hold primitive values only: strings, float64
// numbers and []string for multi selects. The key set of a record must equal
// the set of leaf field names declared for it; CheckShape enforces that.
package model
