package categories

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/goliatone/go-article-admin/pkg/model"
)

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// Response is the JSON body served by the handler.
type Response struct {
	Data []model.SelectOption `json:"data"`
}

// Handler builds a net/http handler with default options plus any overrides.
func Handler(fns ...OptionFn) http.Handler {
	return HandlerWithOptions(NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(opts Options) http.Handler {
	opts = NewOptions(func(o *Options) { *o = opts })
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		if opts.Guard != nil {
			if err := opts.Guard(r); err != nil {
				writeGuardError(w, err)
				return
			}
		}

		all, err := resolve(r.Context(), opts)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		query := r.URL.Query().Get(opts.SearchParam)
		limit := parseInt(r.URL.Query().Get(opts.LimitParam))
		results := SearchOptions(all, query, limit, opts)
		if results == nil {
			results = []model.SelectOption{}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = sonic.ConfigStd.NewEncoder(w).Encode(Response{Data: results})
	})
}

// resolve merges the static list with the dynamic source. A failing source
// is logged and skipped so the static list is still served.
func resolve(ctx context.Context, opts Options) ([]string, error) {
	static := opts.Categories
	if static == nil {
		loaded, err := DefaultCategories()
		if err != nil {
			return nil, err
		}
		static = loaded
	}
	if opts.Source == nil {
		return Merge(static), nil
	}
	dynamic, err := opts.Source(ctx)
	if err != nil {
		logger(opts).Warn("category source failed", zap.Error(err))
		return Merge(static), nil
	}
	return Merge(static, dynamic), nil
}

func logger(opts Options) *zap.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return zap.NewNop()
}

func writeGuardError(w http.ResponseWriter, err error) {
	code := http.StatusForbidden
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
		if code <= 0 {
			code = http.StatusForbidden
		}
	}
	http.Error(w, http.StatusText(code), code)
}

func parseInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
