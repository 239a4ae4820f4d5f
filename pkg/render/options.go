package render

import (
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating form or table state.
type RenderOptions struct {
	// Action is the URL the rendered form posts to.
	Action string
	// Method is the HTTP verb; renderers emit a hidden _method input for verbs
	// browsers cannot submit directly.
	Method      string
	SubmitLabel string
	// Hidden lists extra hidden inputs keyed by name.
	Hidden map[string]string
	// FormErrors are page-level messages rendered above the fields.
	FormErrors []string
	// Theme carries the resolved go-theme selection (partials, tokens, CSS vars).
	Theme *theme.RendererConfig
	// BaseURL is used by table renderers to build sort, filter and page links.
	BaseURL string
	// Query holds parameters table links must preserve (tab, limit, ...).
	Query map[string]string
}

// Clone returns a deep copy so callers can adjust per-request values safely.
func (o RenderOptions) Clone() RenderOptions {
	out := o
	out.Hidden = maps.Clone(o.Hidden)
	out.Query = maps.Clone(o.Query)
	out.FormErrors = MergeMessages(o.FormErrors)
	return out
}

// MergeMessages concatenates message slices, trimming whitespace and removing
// duplicates while preserving order.
func MergeMessages(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)

	seen := make(map[string]struct{}, len(combined))
	out := make([]string, 0, len(combined))
	for _, msg := range combined {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			continue
		}
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		out = append(out, msg)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FormMethod splits the requested verb into the browser-submittable method
// and the _method override value, if any.
func FormMethod(method string) (formMethod, override string) {
	upper := strings.ToUpper(strings.TrimSpace(method))
	switch upper {
	case "", "POST":
		return "post", ""
	case "GET":
		return "get", ""
	default:
		return "post", upper
	}
}
