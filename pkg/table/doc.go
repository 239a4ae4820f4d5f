// Package table is a generic presenter for tabular data: one searchable
// column, client-side sorting of the loaded rows, internal or caller-owned
// pagination, row selection and column visibility. Renderers consume the
// snapshot returned by View.
package table
