// Package template defines the renderer-agnostic template contract. The
// gotemplate subpackage implements it on pongo2.
package template
