package categories

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-article-admin/pkg/model"
)

// Component bundles the category handler with its configuration.
type Component struct {
	opts Options
}

// New constructs a component with default options plus any overrides.
func New(fns ...OptionFn) *Component {
	return &Component{opts: NewOptions(fns...)}
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Handler returns a net/http handler for category queries.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// Mount serves the component on r at basePath joined with the configured
// route path, for GET and HEAD, and returns that route.
func (c *Component) Mount(r chi.Router, basePath string) string {
	opts := c.Options()
	route := path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(opts.RoutePath))
	h := HandlerWithOptions(opts)
	r.Get(route, h.ServeHTTP)
	r.Head(route, h.ServeHTTP)
	return route
}

// Fetcher returns an in-process options fetcher for async selects. It
// serves the first DefaultLimit categories.
func (c *Component) Fetcher() model.OptionsFetcher {
	opts := c.Options()
	return func(ctx context.Context) ([]model.SelectOption, error) {
		all, err := resolve(ctx, opts)
		if err != nil {
			return nil, err
		}
		return SearchOptions(all, "", opts.DefaultLimit, NewOptions(func(o *Options) {
			*o = opts
			o.EmptySearchMode = EmptySearchTop
		})), nil
	}
}
