package form

import (
	"context"
	"maps"
	"reflect"
	"sync"

	"github.com/goliatone/go-article-admin/pkg/model"
)

type watcher func(value any)

// Scope holds the record, per-field validity and UI flags of one mounted form.
// All actions are safe for concurrent use; async option loads complete on
// their own goroutines.
type Scope struct {
	form *Form

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	initial     model.Record
	data        model.Record
	validations map[string]model.Validity
	ui          model.UIState
	watchers    map[string][]watcher
	bindings    []*Binding
	descriptors []model.Descriptor
	disposed    bool

	// pending counts running load batches; idle is closed when it drops to zero.
	pending int
	idle    chan struct{}
}

func newScope(parent context.Context, form *Form) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		form:        form,
		ctx:         ctx,
		cancel:      cancel,
		initial:     form.initial.Clone(),
		data:        form.initial.Clone(),
		validations: make(map[string]model.Validity),
		watchers:    make(map[string][]watcher),
	}
	context.AfterFunc(ctx, s.dispose)
	return s
}

// Context is cancelled when the scope unmounts.
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Unmount disposes the scope: in-flight option loads are cancelled and later
// state writes are ignored.
func (s *Scope) Unmount() {
	s.cancel()
	s.dispose()
}

func (s *Scope) dispose() {
	s.mu.Lock()
	s.disposed = true
	s.watchers = nil
	s.mu.Unlock()
}

// Disposed reports whether the scope has been unmounted.
func (s *Scope) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Data returns a copy of the record.
func (s *Scope) Data() model.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Clone()
}

// Value returns one record value.
func (s *Scope) Value(name string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[name]
}

// Validations returns a copy of the recorded validity entries.
func (s *Scope) Validations() map[string]model.Validity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return maps.Clone(s.validations)
}

// Validation returns the recorded validity of a field, if any.
func (s *Scope) Validation(name string) (model.Validity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.validations[name]
	return v, ok
}

// UI returns the current UI flags.
func (s *Scope) UI() model.UIState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui
}

// SetFormField replaces one value. Names outside the record shape are
// ignored. Validation is not run synchronously; bound fields observe the
// change and record their validity.
func (s *Scope) SetFormField(name string, value any) {
	s.apply(func(data model.Record) map[string]any {
		if _, ok := data[name]; !ok {
			return nil
		}
		return map[string]any{name: value}
	})
}

// SetFormFields merges partial into the record, e.g. when hydrating an edit
// form from a fetched entity. Unknown keys are ignored.
func (s *Scope) SetFormFields(partial map[string]any) {
	s.apply(func(data model.Record) map[string]any {
		out := make(map[string]any, len(partial))
		for key, value := range partial {
			if _, ok := data[key]; ok {
				out[key] = value
			}
		}
		return out
	})
}

// ClearFormData sets every field to the empty string regardless of its
// declared type.
func (s *Scope) ClearFormData() {
	s.apply(func(data model.Record) map[string]any {
		out := make(map[string]any, len(data))
		for key := range data {
			out[key] = ""
		}
		return out
	})
}

// ResetFormData restores the initial record field for field.
func (s *Scope) ResetFormData() {
	s.apply(func(model.Record) map[string]any {
		return s.initial.Clone()
	})
}

// SetFormValidation records the validity of a field. Bindings call this; pages
// should not need to.
func (s *Scope) SetFormValidation(name string, validity model.Validity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.validations[name] = validity
}

// CheckValidations reports whether every recorded validity is valid. Fields
// without an entry count as valid.
func (s *Scope) CheckValidations() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.validations {
		if !v.IsValid {
			return false
		}
	}
	return true
}

func (s *Scope) SetLoading(v bool) {
	s.setUI(func(ui *model.UIState) { ui.IsLoading = v })
}

func (s *Scope) SetSubmitTriggered(v bool) {
	s.setUI(func(ui *model.UIState) { ui.SubmitTriggered = v })
}

func (s *Scope) SetReadOnly(v bool) {
	s.setUI(func(ui *model.UIState) { ui.ReadOnly = v })
}

func (s *Scope) SetDisabled(v bool) {
	s.setUI(func(ui *model.UIState) { ui.Disabled = v })
}

func (s *Scope) setUI(fn func(*model.UIState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	fn(&s.ui)
}

// Binding returns the first binding registered for name.
func (s *Scope) Binding(name string) (*Binding, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bindings {
		if b.field.Name == name {
			return b, true
		}
	}
	return nil, false
}

// Bindings returns every binding in declaration order.
func (s *Scope) Bindings() []*Binding {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Binding, len(s.bindings))
	copy(out, s.bindings)
	return out
}

// AwaitOptions blocks until every async option load started by Bind settles,
// ctx is done or the scope unmounts. An unmounted scope never applies load
// results, so there is nothing left to wait for.
func (s *Scope) AwaitOptions(ctx context.Context) error {
	s.mu.Lock()
	idle := s.idle
	pending := s.pending
	s.mu.Unlock()
	if pending == 0 {
		return nil
	}
	select {
	case <-idle:
		return nil
	case <-s.ctx.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scope) loadStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == 0 {
		s.idle = make(chan struct{})
	}
	s.pending++
}

func (s *Scope) loadFinished() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending--
	if s.pending == 0 {
		close(s.idle)
	}
}

// watch registers fn to run whenever the value of name changes.
func (s *Scope) watch(name string, fn watcher) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	s.watchers[name] = append(s.watchers[name], fn)
}

// apply computes updates under the lock, writes the changed values and then
// notifies watchers outside the lock.
func (s *Scope) apply(compute func(data model.Record) map[string]any) {
	type notification struct {
		value    any
		watchers []watcher
	}

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	updates := compute(s.data)
	var pending []notification
	for key, value := range updates {
		if reflect.DeepEqual(s.data[key], value) {
			continue
		}
		s.data[key] = value
		if ws := s.watchers[key]; len(ws) > 0 {
			pending = append(pending, notification{value: value, watchers: append([]watcher(nil), ws...)})
		}
	}
	s.mu.Unlock()

	for _, n := range pending {
		for _, w := range n.watchers {
			w(n.value)
		}
	}
}
