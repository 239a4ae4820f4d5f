package model

import (
	"context"
	"slices"
)

// FieldKind enumerates the input widgets a form can bind.
type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindEmail       FieldKind = "email"
	FieldKindPassword    FieldKind = "password"
	FieldKindDate        FieldKind = "date"
	FieldKindNumber      FieldKind = "number"
	FieldKindSelect      FieldKind = "select"
	FieldKindAsyncSelect FieldKind = "async-select"
	FieldKindTextarea    FieldKind = "textarea"
)

// Record maps field names to primitive values (string, float64, []string).
// The key set is fixed when a form is created; only values change.
type Record map[string]any

// Clone returns a copy of the record. Slice values are copied so callers can
// mutate the clone without touching the source.
func (r Record) Clone() Record {
	if r == nil {
		return Record{}
	}
	out := make(Record, len(r))
	for key, value := range r {
		out[key] = cloneValue(value)
	}
	return out
}

// Keys returns the record keys sorted.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		return slices.Clone(v)
	default:
		return value
	}
}

// Validity is the recorded validation outcome of one field.
type Validity struct {
	IsValid bool   `json:"isValid"`
	Message string `json:"message,omitempty"`
}

// Valid is the zero-message passing result.
var Valid = Validity{IsValid: true}

// Invalid builds a failing result with the given message.
func Invalid(message string) Validity {
	return Validity{IsValid: false, Message: message}
}

// UIState gates rendering and interaction; it never touches the record.
type UIState struct {
	IsLoading       bool `json:"isLoading"`
	SubmitTriggered bool `json:"submitTriggered"`
	ReadOnly        bool `json:"readOnly"`
	Disabled        bool `json:"disabled"`
}

// SelectOption is a single entry of a select or async-select widget.
type SelectOption struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ValidatorFunc is a custom validation hook; it returns the validity for the
// stringified value.
type ValidatorFunc func(value any) Validity

// OptionsFetcher loads async-select options. The context is cancelled when the
// owning form scope unmounts.
type OptionsFetcher func(ctx context.Context) ([]SelectOption, error)

// Descriptor is either a Field or a Container.
type Descriptor interface {
	descriptor()
}

// Field declares one bound input.
type Field struct {
	Kind        FieldKind
	Name        string
	Label       string
	Placeholder string
	Required    bool
	// MinLength and MaxLength are nil when undeclared. For multi selects
	// MaxLength caps the number of chosen options.
	MinLength *int
	MaxLength *int
	Validator ValidatorFunc

	OnChange func(value any)
	OnBlur   func(value any)
	OnFocus  func(value any)
	// Masker rewrites a value before it is stored.
	Masker func(value any) any

	DefaultValue   any
	Options        []SelectOption
	OptionsFetcher OptionsFetcher
	Multiple       bool
}

func (Field) descriptor() {}

// Container groups descriptors into a horizontal flex row.
type Container struct {
	Name   string
	Fields []Descriptor
}

func (Container) descriptor() {}

// Limit returns a pointer suitable for MinLength/MaxLength.
func Limit(n int) *int {
	return &n
}

// IsMulti reports whether the field stores a []string value.
func (f Field) IsMulti() bool {
	return f.Multiple && (f.Kind == FieldKindSelect || f.Kind == FieldKindAsyncSelect)
}

// InputType maps the field kind onto an HTML input type.
func (f Field) InputType() string {
	switch f.Kind {
	case FieldKindEmail, FieldKindPassword, FieldKindDate, FieldKindNumber:
		return string(f.Kind)
	default:
		return "text"
	}
}
