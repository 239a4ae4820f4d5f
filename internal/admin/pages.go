package admin

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"net/http"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	gotemplate "github.com/goliatone/go-article-admin/pkg/render/template/gotemplate"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla"
)

//go:embed templates/*.tmpl
var embeddedPages embed.FS

// PagesFS exposes the embedded page templates.
func PagesFS() fs.FS {
	sub, err := fs.Sub(embeddedPages, "templates")
	if err != nil {
		return embeddedPages
	}
	return sub
}

// newPageEngine builds the page template engine. Files in dir take
// precedence over the embedded pages.
func newPageEngine(dir string) (*gotemplate.Engine, error) {
	opts := []gotemplate.Option{
		gotemplate.WithName("admin-pages"),
		gotemplate.WithExtension(".tmpl"),
	}
	if dir != "" {
		opts = append(opts, gotemplate.WithBaseDir(dir))
	}
	opts = append(opts, gotemplate.WithFS(PagesFS()))
	return gotemplate.New(opts...)
}

type navItem struct {
	Title  string `json:"title"`
	Href   string `json:"href"`
	Active bool   `json:"active"`
}

// page is one full HTML response: a body template wrapped in the layout.
type page struct {
	Title    string
	Section  string
	Template string
	Data     map[string]any
	Status   int
	Flash    *Flash
}

func (s *Server) navigation(active string) []navItem {
	items := []navItem{
		{Title: "Articles", Href: "/articles"},
		{Title: "New article", Href: "/articles/new"},
		{Title: "Preview", Href: "/preview"},
		{Title: "Playground", Href: "/playground"},
	}
	for i := range items {
		items[i].Active = items[i].Href == active
	}
	return items
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, p page) {
	body, err := s.pages.RenderTemplate(p.Template, p.Data)
	if err != nil {
		s.serverError(w, r, fmt.Errorf("render %s: %w", p.Template, err))
		return
	}

	flash := p.Flash
	if flash == nil {
		flash = s.flashes.pop(w, r)
	}

	cfg := s.themeConfig(r)
	layout := map[string]any{
		"title":      p.Title,
		"content":    body,
		"nav":        s.navigation(p.Section),
		"flash":      flash,
		"stylesheet": "/assets/" + vanilla.StylesheetName,
	}
	if cfg != nil {
		layout["theme"] = cfg.Theme
		layout["variant"] = cfg.Variant
		layout["cssVars"] = cfg.CSSVars
		if url := cfg.AssetURL("stylesheet"); url != "" {
			layout["stylesheet"] = url
		}
	}

	var buf bytes.Buffer
	if _, err := s.pages.RenderTemplate("layout", layout, &buf); err != nil {
		s.serverError(w, r, fmt.Errorf("render layout: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.Status != 0 {
		w.WriteHeader(p.Status)
	}
	_, _ = buf.WriteTo(w)
}

// themeConfig resolves the theme for a request. The variant query parameter
// switches between light and dark.
func (s *Server) themeConfig(r *http.Request) *theme.RendererConfig {
	variant := s.variant
	if v := r.URL.Query().Get("variant"); v != "" {
		variant = v
	}
	selection, err := s.themes.Select(s.theme, variant)
	if err != nil {
		s.logger.Warn("theme selection failed", zap.Error(err))
		return nil
	}
	return rendererConfig(selection)
}
