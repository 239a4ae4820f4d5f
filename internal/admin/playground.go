package admin

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/render"
)

const playgroundPath = "/playground"

// playground serves the form engine demo. A POST carrying a chip
// interaction only updates the selection; any other POST submits.
func (s *Server) playground(w http.ResponseWriter, r *http.Request) {
	f := form.New(PlaygroundRecord(), form.WithID("playground"), form.WithLogger(s.logger.Named("form")))
	ctx, scope := f.Provide(r.Context())
	defer scope.Unmount()

	fields := PlaygroundFields(s.categories.Fetcher())

	var decoded form.Decoded
	if r.Method == http.MethodPost {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		decoded = form.Decode(r.PostForm, fields)
		decoded.Apply(scope)
	}

	if _, err := f.Bind(ctx, fields); err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := scope.AwaitOptions(ctx); err != nil {
		s.serverError(w, r, err)
		return
	}
	decoded.Replay(scope)

	var submitted string
	status := http.StatusOK
	if r.Method == http.MethodPost && len(decoded.Interactions) == 0 {
		ran, err := f.Submit(ctx, func(_ context.Context, data model.Record) error {
			out, err := sonic.ConfigStd.MarshalIndent(data, "", "  ")
			if err != nil {
				return err
			}
			submitted = string(out)
			return nil
		})
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		if !ran {
			status = http.StatusUnprocessableEntity
		}
	}

	out, err := f.Render(ctx, s.forms, render.RenderOptions{
		Action:      playgroundPath,
		Method:      http.MethodPost,
		SubmitLabel: "Submit",
		Theme:       s.themeConfig(r),
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.renderPage(w, r, page{
		Title:    "Playground",
		Section:  playgroundPath,
		Template: "playground",
		Status:   status,
		Data: map[string]any{
			"form":      string(out),
			"submitted": submitted,
		},
	})
}
