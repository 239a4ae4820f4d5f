package form

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/validation"
)

// MessageOptionsFailed is shown on an async select whose fetch failed.
const MessageOptionsFailed = "Failed to load options"

// OptionsState is the option list of a select binding.
type OptionsState struct {
	Loading   bool
	Available []model.SelectOption
	Chosen    []model.SelectOption
	Err       error
}

// Binding ties one leaf field to a scope. It re-validates the field on bind
// and whenever the bound value changes.
type Binding struct {
	scope *Scope
	field model.Field
	chain validation.Chain

	mu        sync.Mutex
	loading   bool
	options   []model.SelectOption
	available []model.SelectOption
	chosen    []model.SelectOption
	loadErr   error
}

// Bind checks the descriptors against the record shape, registers one binding
// per leaf field and starts async option loads. Loads run concurrently and are
// cancelled when the scope unmounts.
func (f *Form) Bind(ctx context.Context, descriptors []model.Descriptor) ([]*Binding, error) {
	scope, err := f.Use(ctx)
	if err != nil {
		return nil, err
	}
	if scope.Disposed() {
		return nil, ErrDisposed
	}
	if err := model.CheckShape(descriptors, scope.Data()); err != nil {
		return nil, fmt.Errorf("form: bind: %w", err)
	}

	leaves := model.Leaves(descriptors)
	bindings := make([]*Binding, 0, len(leaves))
	for _, field := range leaves {
		b := &Binding{scope: scope, field: field, chain: f.chain}
		if field.Kind == model.FieldKindSelect {
			b.available = slices.Clone(field.Options)
		}
		if field.Kind == model.FieldKindAsyncSelect && field.OptionsFetcher != nil {
			b.loading = true
		}
		bindings = append(bindings, b)
	}

	scope.mu.Lock()
	scope.descriptors = descriptors
	scope.bindings = append(scope.bindings, bindings...)
	scope.mu.Unlock()

	for _, b := range bindings {
		scope.watch(b.field.Name, func(value any) {
			b.validate(value)
		})
		if b.multiAsync() {
			scope.watch(b.field.Name, b.syncChosen)
		}
		b.validate(scope.Value(b.field.Name))
	}

	f.startLoads(scope, bindings)
	return bindings, nil
}

func (f *Form) startLoads(scope *Scope, bindings []*Binding) {
	var pending []*Binding
	for _, b := range bindings {
		if b.Loading() {
			pending = append(pending, b)
		}
	}
	if len(pending) == 0 {
		return
	}

	scope.loadStarted()
	go func() {
		defer scope.loadFinished()
		var g errgroup.Group
		g.SetLimit(f.fetchLimit)
		for _, b := range pending {
			g.Go(func() error {
				b.load(scope.ctx, f.logger)
				return nil
			})
		}
		_ = g.Wait()
	}()
}

// Field returns the bound descriptor.
func (b *Binding) Field() model.Field {
	return b.field
}

// Name is the bound record key.
func (b *Binding) Name() string {
	return b.field.Name
}

// Value returns the current record value of the field.
func (b *Binding) Value() any {
	return b.scope.Value(b.field.Name)
}

// Validity returns the recorded validity, valid when none was recorded yet.
func (b *Binding) Validity() model.Validity {
	if v, ok := b.scope.Validation(b.field.Name); ok {
		return v
	}
	return model.Valid
}

// Change applies the masker, writes the value and fires OnChange.
func (b *Binding) Change(value any) {
	if b.scope.Disposed() {
		return
	}
	if b.field.Masker != nil {
		value = b.field.Masker(value)
	}
	b.scope.SetFormField(b.field.Name, value)
	if b.field.OnChange != nil {
		b.field.OnChange(value)
	}
}

// Focus fires OnFocus with the current value.
func (b *Binding) Focus() {
	if b.field.OnFocus != nil && !b.scope.Disposed() {
		b.field.OnFocus(b.Value())
	}
}

// Blur fires OnBlur with the current value.
func (b *Binding) Blur() {
	if b.field.OnBlur != nil && !b.scope.Disposed() {
		b.field.OnBlur(b.Value())
	}
}

// Loading reports whether an async option load is in flight.
func (b *Binding) Loading() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loading
}

// Options returns a snapshot of the option lists.
func (b *Binding) Options() OptionsState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return OptionsState{
		Loading:   b.loading,
		Available: slices.Clone(b.available),
		Chosen:    slices.Clone(b.chosen),
		Err:       b.loadErr,
	}
}

// AtLimit reports whether a multi select already holds MaxLength choices.
func (b *Binding) AtLimit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.atLimitLocked()
}

func (b *Binding) atLimitLocked() bool {
	limit := b.field.MaxLength
	return limit != nil && *limit > 0 && len(b.chosen) >= *limit
}

// Choose moves an available option into the chosen list of a multi async
// select. It is a no-op once MaxLength options are chosen.
func (b *Binding) Choose(value string) bool {
	if !b.multiAsync() || b.scope.Disposed() {
		return false
	}
	b.mu.Lock()
	if b.loading || b.atLimitLocked() {
		b.mu.Unlock()
		return false
	}
	idx := indexOption(b.available, value)
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	b.chosen = append(b.chosen, b.available[idx])
	b.available = slices.Delete(b.available, idx, idx+1)
	b.mu.Unlock()

	b.emitChosen()
	return true
}

// Release moves a chosen option back to the end of the available list.
func (b *Binding) Release(value string) bool {
	if !b.multiAsync() || b.scope.Disposed() {
		return false
	}
	b.mu.Lock()
	idx := indexOption(b.chosen, value)
	if idx < 0 {
		b.mu.Unlock()
		return false
	}
	b.available = append(b.available, b.chosen[idx])
	b.chosen = slices.Delete(b.chosen, idx, idx+1)
	b.mu.Unlock()

	b.emitChosen()
	return true
}

func (b *Binding) multiAsync() bool {
	return b.field.Kind == model.FieldKindAsyncSelect && b.field.Multiple
}

func (b *Binding) emitChosen() {
	b.mu.Lock()
	values := make([]string, 0, len(b.chosen))
	for _, opt := range b.chosen {
		values = append(values, opt.Value)
	}
	b.mu.Unlock()

	b.scope.SetFormField(b.field.Name, values)
	if b.field.OnChange != nil {
		b.field.OnChange(values)
	}
}

// Check evaluates the validation chain against value without recording the
// result.
func (b *Binding) Check(value any) model.Validity {
	return b.chain.Evaluate(b.field, value)
}

func (b *Binding) validate(value any) {
	b.scope.SetFormValidation(b.field.Name, b.chain.Evaluate(b.field, value))
}

func (b *Binding) load(ctx context.Context, logger *zap.Logger) {
	options, err := b.field.OptionsFetcher(ctx)
	if ctx.Err() != nil {
		// unmounted while fetching; the result is dropped
		return
	}

	if err != nil {
		logger.Warn("async select options failed",
			zap.String("field", b.field.Name),
			zap.Error(err),
		)
		b.mu.Lock()
		b.loading = false
		b.loadErr = err
		b.mu.Unlock()
		return
	}

	if !b.field.Multiple {
		b.mu.Lock()
		b.loading = false
		b.available = slices.Clone(options)
		b.mu.Unlock()
		if b.field.DefaultValue != nil && validation.Stringify(b.scope.Value(b.field.Name)) == "" {
			b.scope.SetFormField(b.field.Name, b.field.DefaultValue)
		}
		return
	}

	seed := seedValues(b.scope.Value(b.field.Name), b.field.DefaultValue)
	b.mu.Lock()
	b.loading = false
	b.options = slices.Clone(options)
	b.partitionLocked(seed)
	b.mu.Unlock()

	b.emitChosen()
}

// partitionLocked splits the fetched options into chosen and available,
// keeping fetch order in both lists.
func (b *Binding) partitionLocked(values []string) {
	b.chosen = make([]model.SelectOption, 0, len(values))
	b.available = make([]model.SelectOption, 0, len(b.options))
	for _, opt := range b.options {
		if slices.Contains(values, opt.Value) {
			b.chosen = append(b.chosen, opt)
			continue
		}
		b.available = append(b.available, opt)
	}
}

// syncChosen rebuilds the chip lists when the record value is replaced from
// outside the binding, as SetFormFields, ResetFormData and ClearFormData do.
func (b *Binding) syncChosen(value any) {
	values := asStrings(value)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.loading || b.loadErr != nil {
		return
	}
	current := make([]string, 0, len(b.chosen))
	for _, opt := range b.chosen {
		current = append(current, opt.Value)
	}
	if slices.Equal(current, values) {
		return
	}
	b.partitionLocked(values)
}

// seedValues picks the initially chosen values of a multi select: the current
// record value when it already holds selections, else the declared default.
func seedValues(current, fallback any) []string {
	if values := asStrings(current); len(values) > 0 {
		return values
	}
	return asStrings(fallback)
}

func asStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func indexOption(options []model.SelectOption, value string) int {
	return slices.IndexFunc(options, func(opt model.SelectOption) bool {
		return opt.Value == value
	})
}
