package admin

import (
	"fmt"
	"maps"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// Built-in theme names.
const (
	DefaultTheme   = "admin"
	DefaultVariant = "light"
)

// adminManifest is the built-in theme. Tokens become CSS variables on the
// page shell and the vanilla form.
func adminManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultTheme,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":      "#ffffff",
			"color-fg":      "#111827",
			"color-muted":   "#6b7280",
			"color-border":  "#e5e7eb",
			"color-primary": "#2563eb",
		},
		Assets: theme.Assets{
			Prefix: "/assets",
			Files: map[string]string{
				"stylesheet": "article-admin.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-bg":     "#0f172a",
					"color-fg":     "#e2e8f0",
					"color-muted":  "#94a3b8",
					"color-border": "#1e293b",
				},
			},
		},
	}
}

// themeSelector resolves theme selections from the manifests it was built
// with. Every manifest is also registered with a go-theme registry so
// malformed manifests are rejected up front.
type themeSelector struct {
	registry       theme.ThemeProvider
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*themeSelector)(nil)

func newThemeSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*themeSelector, error) {
	registry := theme.NewRegistry()
	s := &themeSelector{
		registry:       registry,
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("admin: register theme %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
	}
	if s.defaultTheme == "" {
		s.defaultTheme = DefaultTheme
	}
	if _, ok := s.manifests[s.defaultTheme]; !ok {
		return nil, fmt.Errorf("admin: unknown theme %q", s.defaultTheme)
	}
	return s, nil
}

// Select returns the named theme and variant, falling back to the defaults.
// Unknown variants fall back to the base manifest.
func (s *themeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("admin: unknown theme %q", name)
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// rendererConfig flattens a selection into what templates consume. Variant
// tokens, templates and asset files override the base manifest.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	tokens := maps.Clone(manifest.Tokens)
	partials := maps.Clone(manifest.Templates)
	files := maps.Clone(manifest.Assets.Files)
	if tokens == nil {
		tokens = map[string]string{}
	}
	if partials == nil {
		partials = map[string]string{}
	}
	if files == nil {
		files = map[string]string{}
	}
	prefix := manifest.Assets.Prefix

	if variant, ok := manifest.Variants[selection.Variant]; ok {
		maps.Copy(tokens, variant.Tokens)
		maps.Copy(partials, variant.Templates)
		maps.Copy(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: partials,
		Tokens:   tokens,
		CSSVars:  cssVars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			if strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
				return file
			}
			return path.Join(prefix, file)
		},
	}
}
