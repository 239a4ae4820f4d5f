package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-article-admin/internal/textutil"
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/table"
)

// Public preview settings.
const (
	PreviewPageSize       = 10
	PreviewExcerptLength  = 50
	PreviewWordBreak      = 50
	MessageArticleMissing = "Article not found or unpublished."
)

const previewPath = "/preview"

type previewItem struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Href     string `json:"href"`
	Excerpt  string `json:"excerpt"`
}

// previewPage reads ?page=N, clamped to 1.
func previewPage(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 1
	}
	return max(1, n)
}

func previewHref(page int) string {
	return previewPath + "?page=" + strconv.Itoa(page)
}

func (s *Server) previewList(w http.ResponseWriter, r *http.Request) {
	current := previewPage(r.URL.Query().Get("page"))
	params := articles.ListParams{Limit: PreviewPageSize, Offset: (current - 1) * PreviewPageSize}

	data := map[string]any{"page": current}
	res := s.client.List(r.Context(), params)
	if !res.OK() {
		data["error"] = res.Error
	} else {
		items := make([]previewItem, 0, len(res.Data))
		for _, a := range res.Data {
			if a.Status != articles.StatusPublish {
				continue
			}
			items = append(items, previewItem{
				Category: a.Category,
				Title:    a.Title,
				Href:     previewPath + "/" + strconv.FormatInt(a.ID, 10),
				Excerpt:  textutil.Truncate(a.Content, PreviewExcerptLength),
			})
		}
		data["items"] = items
		if current > 1 {
			data["prevHref"] = previewHref(current - 1)
		}
		// a full backend page means another may follow, whatever was published on it
		if table.HasNextPage(len(res.Data), PreviewPageSize) {
			data["nextHref"] = previewHref(current + 1)
		}
	}

	s.renderPage(w, r, page{
		Title:    "Latest Posts",
		Section:  previewPath,
		Template: "preview_list",
		Data:     data,
	})
}

func (s *Server) previewDetail(w http.ResponseWriter, r *http.Request) {
	res := s.client.GetPublished(r.Context(), chi.URLParam(r, "id"))
	if !res.OK() {
		s.renderPage(w, r, page{
			Title:    "Preview",
			Section:  previewPath,
			Template: "preview_detail",
			Status:   http.StatusNotFound,
			Data:     map[string]any{"error": MessageArticleMissing},
		})
		return
	}

	a := res.Data
	// content is plain text; the template escapes it
	body := textutil.SplitLongWords(a.Content, PreviewWordBreak)
	s.renderPage(w, r, page{
		Title:    a.Title,
		Section:  previewPath,
		Template: "preview_detail",
		Data: map[string]any{
			"article": a,
			"body":    body,
		},
	})
}
