// Package admin serves the article admin HTML pages: the tabbed article
// list, the create/edit form, the delete confirmation, the public preview and
// the form playground.
package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-article-admin/components/categories"
	"github.com/goliatone/go-article-admin/internal/config"
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/render"
	rendertemplate "github.com/goliatone/go-article-admin/pkg/render/template"
	gotemplate "github.com/goliatone/go-article-admin/pkg/render/template/gotemplate"
	"github.com/goliatone/go-article-admin/pkg/renderers/tui"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla"
)

// ShutdownGrace bounds how long Run waits for in-flight requests.
const ShutdownGrace = 5 * time.Second

// Options wires a Server.
type Options struct {
	Config *config.Config
	Client *articles.Client
	Logger *zap.Logger
}

// Server holds the admin dependencies and its router.
type Server struct {
	cfg        *config.Config
	client     *articles.Client
	logger     *zap.Logger
	pages      *gotemplate.Engine
	forms      *vanilla.Renderer
	tables     *render.Registry[render.TableRenderer]
	themes     *themeSelector
	theme      string
	variant    string
	flashes    *flashStore
	categories *categories.Component
	router     chi.Router
}

// New builds a server from opts. A nil config means the defaults and a nil
// client targets the configured base URL.
func New(opts Options) (*Server, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := opts.Client
	if client == nil {
		client = articles.NewClient(cfg.API.BaseURL,
			articles.WithTimeout(cfg.APITimeout()),
			articles.WithLogger(logger.Named("articles")),
		)
	}

	pages, err := newPageEngine(cfg.UI.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("admin: page templates: %w", err)
	}
	forms, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("admin: %w", err)
	}
	tables := render.NewRegistry[render.TableRenderer]()
	tables.MustRegister(forms)
	tables.MustRegister(tui.NewTable(tui.DefaultStyles(), 60))

	themeName, variant := cfg.UI.Theme, cfg.UI.Variant
	if themeName == "" {
		themeName = DefaultTheme
	}
	if variant == "" {
		variant = DefaultVariant
	}
	themes, err := newThemeSelector(themeName, variant, adminManifest())
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		pages:   pages,
		forms:   forms,
		tables:  tables,
		themes:  themes,
		theme:   themeName,
		variant: variant,
		flashes: newFlashStore([]byte(cfg.Server.SessionKey)),
	}

	catOpts := []categories.OptionFn{
		categories.WithSource(s.articleCategories),
		categories.WithLogger(logger.Named("categories")),
	}
	if len(cfg.UI.Categories) > 0 {
		catOpts = append(catOpts, categories.WithCategories(cfg.UI.Categories))
	}
	s.categories = categories.New(catOpts...)

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(s.cfg.Server.AllowedOrigins))
	r.Use(preflightBody)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/articles", http.StatusFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServerFS(vanilla.AssetsFS())))

	r.Get("/articles", s.listArticles)
	r.Route("/articles/{id}", func(r chi.Router) {
		r.Get("/", s.editArticle)
		r.Post("/", s.submitArticle)
		r.Get("/delete", s.confirmDelete)
		r.Post("/delete", s.deleteArticle)
	})

	r.Get("/preview", s.previewList)
	r.Get("/preview/{id}", s.previewDetail)

	r.Get("/playground", s.playground)
	r.Post("/playground", s.playground)

	s.categories.Mount(r, "")
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Resetters lists the template caches a file watcher should clear.
func (s *Server) Resetters() []rendertemplate.Resetter {
	out := []rendertemplate.Resetter{s.pages}
	if r, ok := s.forms.Templates().(rendertemplate.Resetter); ok {
		out = append(out, r)
	}
	return out
}

// Run serves on the configured address until ctx is done. Outside
// production mode a configured templates directory is watched and reloaded.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if dir := s.cfg.UI.TemplatesDir; dir != "" && !s.cfg.IsProduction() {
		go func() {
			if err := WatchTemplates(ctx, dir, s.logger, s.Resetters()...); err != nil {
				s.logger.Warn("template watcher stopped", zap.Error(err))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr), zap.String("api", s.client.BaseURL()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("admin: shutdown: %w", err)
	}
	return nil
}

// articleCategories feeds categories already used by articles into the
// category option source.
func (s *Server) articleCategories(ctx context.Context) ([]string, error) {
	res := s.client.List(ctx, articles.ListParams{Limit: 100})
	if err := res.Err(); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(res.Data))
	for _, a := range res.Data {
		if a.Category != "" {
			out = append(out, a.Category)
		}
	}
	return out, nil
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("id", RequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
