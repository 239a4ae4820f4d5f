package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrShapeMismatch is returned when the leaf field names of a descriptor tree
// do not match the keys of the form record.
var ErrShapeMismatch = errors.New("model: descriptor names do not match record keys")

// Walk visits every descriptor depth-first, containers before their children.
// Returning false from fn stops the walk.
func Walk(descriptors []Descriptor, fn func(Descriptor) bool) bool {
	for _, descriptor := range descriptors {
		if descriptor == nil {
			continue
		}
		if !fn(descriptor) {
			return false
		}
		if container, ok := descriptor.(Container); ok {
			if !Walk(container.Fields, fn) {
				return false
			}
		}
	}
	return true
}

// Leaves flattens the descriptor tree into its fields, in declaration order.
func Leaves(descriptors []Descriptor) []Field {
	var out []Field
	Walk(descriptors, func(d Descriptor) bool {
		if field, ok := d.(Field); ok {
			out = append(out, field)
		}
		return true
	})
	return out
}

// CheckShape verifies the set of leaf names equals the record key set.
// Containers are ignored and duplicate leaf names are allowed.
func CheckShape(descriptors []Descriptor, record Record) error {
	names := make(map[string]struct{})
	for _, field := range Leaves(descriptors) {
		names[field.Name] = struct{}{}
	}

	var missing, extra []string
	for name := range names {
		if _, ok := record[name]; !ok {
			extra = append(extra, name)
		}
	}
	for key := range record {
		if _, ok := names[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	slices.Sort(missing)
	slices.Sort(extra)
	var parts []string
	if len(extra) > 0 {
		parts = append(parts, "unknown fields "+strings.Join(extra, ","))
	}
	if len(missing) > 0 {
		parts = append(parts, "unbound keys "+strings.Join(missing, ","))
	}
	return fmt.Errorf("%w: %s", ErrShapeMismatch, strings.Join(parts, "; "))
}

// FieldByName returns the first leaf with the given name.
func FieldByName(descriptors []Descriptor, name string) (Field, bool) {
	var (
		found Field
		ok    bool
	)
	Walk(descriptors, func(d Descriptor) bool {
		if field, isField := d.(Field); isField && field.Name == name {
			found, ok = field, true
			return false
		}
		return true
	})
	return found, ok
}
