package form

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-article-admin/pkg/model"
)

const (
	// ChooseSuffix marks a posted multi-select interaction adding an option.
	ChooseSuffix = "__choose"
	// ReleaseSuffix marks a posted multi-select interaction removing an option.
	ReleaseSuffix = "__release"
)

// Interaction is a posted chip add/remove on a multi async select.
type Interaction struct {
	Field  string
	Value  string
	Choose bool
}

// Decoded is the result of decoding posted form values.
type Decoded struct {
	Values       map[string]any
	Interactions []Interaction
}

// Decode maps posted values onto the leaves of descriptors. Number fields turn
// "" into 0, drop unparsable input and strip leading zeros; multi selects
// collect every posted value. Fields missing from the post are left out so
// the scope keeps their current value, except multi selects which decode to
// an empty selection.
func Decode(values url.Values, descriptors []model.Descriptor) Decoded {
	out := Decoded{Values: make(map[string]any)}
	for _, field := range model.Leaves(descriptors) {
		name := field.Name
		if field.IsMulti() {
			selected := append([]string{}, values[name]...)
			out.Values[name] = compactStrings(selected)
			if v := strings.TrimSpace(values.Get(name + ChooseSuffix)); v != "" {
				out.Interactions = append(out.Interactions, Interaction{Field: name, Value: v, Choose: true})
			}
			if v := strings.TrimSpace(values.Get(name + ReleaseSuffix)); v != "" {
				out.Interactions = append(out.Interactions, Interaction{Field: name, Value: v})
			}
			continue
		}
		raw, ok := values[name]
		if !ok || len(raw) == 0 {
			continue
		}
		if field.Kind == model.FieldKindNumber {
			if n, ok := ParseNumber(raw[0]); ok {
				out.Values[name] = n
			}
			continue
		}
		out.Values[name] = raw[0]
	}
	return out
}

// ParseNumber converts number input text: "" is 0, unparsable text reports
// false so the caller keeps the previous value.
func ParseNumber(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NumberText renders a number without leading zeros, as a number input shows it.
func NumberText(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Apply writes the decoded values into the scope. Call it before Bind so
// multi selects seed their chosen list from the posted selection.
func (d Decoded) Apply(scope *Scope) {
	scope.SetFormFields(d.Values)
}

// Replay runs chip interactions against the bound multi selects. Options must
// have finished loading for interactions to take effect.
func (d Decoded) Replay(scope *Scope) {
	for _, in := range d.Interactions {
		b, ok := scope.Binding(in.Field)
		if !ok {
			continue
		}
		if in.Choose {
			b.Choose(in.Value)
		} else {
			b.Release(in.Value)
		}
	}
}

func compactStrings(values []string) []string {
	out := values[:0]
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
