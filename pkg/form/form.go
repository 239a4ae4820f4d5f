package form

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/validation"
)

var (
	// ErrNoProvider is returned when the reader is used outside a mounted scope.
	ErrNoProvider = errors.New("form: no provider mounted in context")
	// ErrDisposed is returned when binding against an unmounted scope.
	ErrDisposed = errors.New("form: scope has been unmounted")
)

// Option configures a Form.
type Option func(*Form)

// WithChain replaces the default validation chain.
func WithChain(chain validation.Chain) Option {
	return func(f *Form) {
		if len(chain) > 0 {
			f.chain = chain
		}
	}
}

// WithLogger sets the logger used for async option loads.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithID sets the DOM id used by renderers.
func WithID(id string) Option {
	return func(f *Form) {
		if id != "" {
			f.id = id
		}
	}
}

// WithFetchConcurrency bounds how many async option loads run at once.
func WithFetchConcurrency(n int) Option {
	return func(f *Form) {
		if n > 0 {
			f.fetchLimit = n
		}
	}
}

// scopeKey is allocated per Form so scopes of different forms never collide in
// a shared context.
type scopeKey struct {
	_ byte
}

// Form is created once per record shape. Provide mounts isolated scopes, Use
// reads the nearest one back, and Bind/Submit/Render drive it.
type Form struct {
	id         string
	initial    model.Record
	key        *scopeKey
	chain      validation.Chain
	logger     *zap.Logger
	fetchLimit int
}

// New creates a form whose scopes start from a copy of initial.
func New(initial model.Record, opts ...Option) *Form {
	f := &Form{
		id:         "form",
		initial:    initial.Clone(),
		key:        &scopeKey{},
		chain:      validation.DefaultChain(),
		logger:     zap.NewNop(),
		fetchLimit: 4,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Initial returns a copy of the record every scope starts from.
func (f *Form) Initial() model.Record {
	return f.initial.Clone()
}

// Provide mounts a new scope and returns a context carrying it. The scope is
// unmounted when Unmount is called or when ctx is cancelled.
func (f *Form) Provide(ctx context.Context) (context.Context, *Scope) {
	if ctx == nil {
		ctx = context.Background()
	}
	scope := newScope(ctx, f)
	return context.WithValue(ctx, f.key, scope), scope
}

// Use returns the scope mounted by this form's Provide.
func (f *Form) Use(ctx context.Context) (*Scope, error) {
	if ctx == nil {
		return nil, ErrNoProvider
	}
	scope, ok := ctx.Value(f.key).(*Scope)
	if !ok || scope == nil {
		return nil, ErrNoProvider
	}
	return scope, nil
}

// MustUse panics when no scope is mounted.
func (f *Form) MustUse(ctx context.Context) *Scope {
	scope, err := f.Use(ctx)
	if err != nil {
		panic(err)
	}
	return scope
}
