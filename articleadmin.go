// Package articleadmin is the entry point of the article admin module. The
// admin server lives in internal/admin and the command in cmd/article-admin;
// this package exposes the reusable pieces for embedding forms elsewhere.
package articleadmin

import (
	"context"
	"fmt"

	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides such as the form action and
// page-level errors.
type RenderOptions = render.RenderOptions

// Record aliases model.Record.
type Record = model.Record

// RenderHTML binds descriptors over initial, waits for async options and
// renders the form with the vanilla renderer. It is the simplest entry point
// for a one-off form.
func RenderHTML(ctx context.Context, initial Record, descriptors []model.Descriptor, opts RenderOptions) ([]byte, error) {
	renderer, err := vanilla.New()
	if err != nil {
		return nil, err
	}

	f := form.New(initial)
	ctx, scope := f.Provide(ctx)
	defer scope.Unmount()

	if _, err := f.Bind(ctx, descriptors); err != nil {
		return nil, fmt.Errorf("articleadmin: bind: %w", err)
	}
	if err := scope.AwaitOptions(ctx); err != nil {
		return nil, fmt.Errorf("articleadmin: options: %w", err)
	}
	return f.Render(ctx, renderer, opts)
}
