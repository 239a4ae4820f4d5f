package articleadmin

import (
	"io/fs"

	"github.com/goliatone/go-article-admin/internal/admin"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// PageTemplates exposes the admin page templates. Copy them into a directory
// and point ui.templates_dir at it to override pages during development.
func PageTemplates() fs.FS {
	return admin.PagesFS()
}

// AssetsFS exposes the stylesheet shared by the admin pages and the vanilla
// renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(articleadmin.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
