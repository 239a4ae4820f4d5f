package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/validation"
)

// MessageNotANumber rejects unparsable input on number fields.
const MessageNotANumber = "Enter a number"

// Renderer drives a bound form from the terminal and serializes the record.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	styles       Styles
	out          io.Writer
}

var _ render.FormRenderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		styles:       DefaultStyles(),
		out:          os.Stdout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = &surveyDriver{out: r.out}
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render serializes the values shown by the form snapshot.
func (r *Renderer) Render(ctx context.Context, view render.FormView, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.Encode(recordFromView(view))
}

// Fill prompts every binding of the scope in declaration order. Each prompt
// fires focus, change and blur on the binding, and rejects input the
// validation chain refuses. Async options must have finished loading. Fill
// returns ErrInvalid when the record still fails validation afterwards.
func (r *Renderer) Fill(ctx context.Context, scope *form.Scope) error {
	if scope == nil {
		return errors.New("tui: scope is nil")
	}
	if err := scope.AwaitOptions(ctx); err != nil {
		return err
	}
	for _, binding := range scope.Bindings() {
		if err := r.promptBinding(ctx, binding); err != nil {
			return fmt.Errorf("tui: %s: %w", binding.Name(), err)
		}
	}
	if !scope.CheckValidations() {
		return ErrInvalid
	}
	return nil
}

func (r *Renderer) promptBinding(ctx context.Context, b *form.Binding) error {
	b.Focus()
	defer b.Blur()

	field := b.Field()
	switch {
	case field.IsMulti():
		return r.promptMulti(ctx, b)
	case field.Kind == model.FieldKindSelect || field.Kind == model.FieldKindAsyncSelect:
		return r.promptSelect(ctx, b)
	}

	current := validation.Stringify(b.Value())
	validator := func(input string) error {
		value, ok := parseInput(field, input)
		if !ok {
			return errors.New(MessageNotANumber)
		}
		return asError(b.Check(value))
	}
	var (
		input string
		err   error
	)
	switch field.Kind {
	case model.FieldKindTextarea:
		input, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label(field), Default: current, Validator: validator})
	case model.FieldKindPassword:
		input, err = r.driver.Password(ctx, InputConfig{Message: label(field), Validator: validator})
	default:
		input, err = r.driver.Input(ctx, InputConfig{
			Message:   label(field),
			Default:   current,
			Help:      field.Placeholder,
			Validator: validator,
		})
	}
	if err != nil {
		return err
	}
	if value, ok := parseInput(field, input); ok {
		b.Change(value)
	}
	return nil
}

func (r *Renderer) promptSelect(ctx context.Context, b *form.Binding) error {
	field := b.Field()
	state := b.Options()
	if state.Err != nil || len(state.Available) == 0 {
		if state.Err != nil {
			_ = r.driver.Info(ctx, r.styles.Error.Render(form.MessageOptionsFailed))
		}
		input, err := r.driver.Input(ctx, InputConfig{
			Message:   label(field),
			Default:   validation.Stringify(b.Value()),
			Validator: func(s string) error { return asError(b.Check(s)) },
		})
		if err != nil {
			return err
		}
		b.Change(input)
		return nil
	}

	labels := optionLabels(state.Available)
	current := validation.Stringify(b.Value())
	defaultIdx := -1
	for i, opt := range state.Available {
		if opt.Value == current {
			defaultIdx = i
		}
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{Message: label(field), Options: labels, DefaultIndex: defaultIdx})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(state.Available) {
			_ = r.driver.Info(ctx, r.styles.Error.Render("Invalid selection"))
			continue
		}
		value := state.Available[idx].Value
		if err := asError(b.Check(value)); err != nil {
			_ = r.driver.Info(ctx, r.styles.Error.Render(err.Error()))
			continue
		}
		b.Change(value)
		return nil
	}
}

// promptMulti offers chosen and available options together and replays the
// answer as release/choose interactions so the chip lists stay in sync.
func (r *Renderer) promptMulti(ctx context.Context, b *form.Binding) error {
	field := b.Field()
	state := b.Options()
	if state.Err != nil {
		return r.driver.Info(ctx, r.styles.Error.Render(form.MessageOptionsFailed))
	}

	options := append(append([]model.SelectOption{}, state.Chosen...), state.Available...)
	var defaults []int
	if field.Kind == model.FieldKindAsyncSelect {
		for i := range state.Chosen {
			defaults = append(defaults, i)
		}
	} else {
		current, _ := b.Value().([]string)
		for i, opt := range options {
			if slices.Contains(current, opt.Value) {
				defaults = append(defaults, i)
			}
		}
	}
	for {
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Message:  label(field),
			Options:  optionLabels(options),
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		if limit := field.MaxLength; limit != nil && *limit > 0 && len(indices) > *limit {
			_ = r.driver.Info(ctx, r.styles.Error.Render(fmt.Sprintf("Select at most %d", *limit)))
			continue
		}

		picked := make(map[string]bool, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(options) {
				picked[options[idx].Value] = true
			}
		}
		if field.Kind != model.FieldKindAsyncSelect {
			values := make([]string, 0, len(picked))
			for _, opt := range options {
				if picked[opt.Value] {
					values = append(values, opt.Value)
				}
			}
			b.Change(values)
			return nil
		}
		for _, opt := range state.Chosen {
			if !picked[opt.Value] {
				b.Release(opt.Value)
			}
		}
		for _, idx := range indices {
			if idx >= len(state.Chosen) && idx < len(options) {
				b.Choose(options[idx].Value)
			}
		}
		return nil
	}
}

// Encode serializes a record in the configured output format.
func (r *Renderer) Encode(record model.Record) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(encodeForm(record)), nil
	case OutputFormatPrettyText:
		return []byte(pretty(record)), nil
	default:
		out, err := sonic.ConfigStd.Marshal(record)
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	}
}

func pretty(record model.Record) string {
	var b strings.Builder
	for _, key := range record.Keys() {
		value := record[key]
		text := validation.Stringify(value)
		if list, ok := value.([]string); ok {
			text = strings.Join(list, ", ")
		}
		fmt.Fprintf(&b, "%s: %s\n", key, text)
	}
	return b.String()
}

func encodeForm(record model.Record) string {
	values := url.Values{}
	for key, value := range record {
		if list, ok := value.([]string); ok {
			values[key] = append([]string(nil), list...)
			continue
		}
		values.Set(key, validation.Stringify(value))
	}
	return values.Encode()
}

func recordFromView(view render.FormView) model.Record {
	record := model.Record{}
	for _, leaf := range view.Leaves() {
		switch {
		case leaf.Multiple:
			record[leaf.Name] = append([]string{}, leaf.Values...)
		case leaf.Kind == string(model.FieldKindNumber):
			n, _ := form.ParseNumber(leaf.Value)
			record[leaf.Name] = n
		default:
			record[leaf.Name] = leaf.Value
		}
	}
	return record
}

// parseInput converts prompt text into a record value. Number fields report
// false for unparsable text.
func parseInput(field model.Field, input string) (any, bool) {
	if field.Kind == model.FieldKindNumber {
		return form.ParseNumber(input)
	}
	return input, true
}

func asError(v model.Validity) error {
	if v.IsValid {
		return nil
	}
	return errors.New(v.Message)
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func optionLabels(options []model.SelectOption) []string {
	out := make([]string, len(options))
	for i, opt := range options {
		out[i] = opt.Label
		if out[i] == "" {
			out[i] = opt.Value
		}
	}
	return out
}

