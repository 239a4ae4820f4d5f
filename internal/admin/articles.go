package admin

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/goliatone/go-article-admin/internal/textutil"
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/renderers/vanilla"
	"github.com/goliatone/go-article-admin/pkg/table"
)

// NewArticleID is the path id of the create form.
const NewArticleID = "new"

// Toast messages shown after article actions.
const (
	MessageCreated        = "Article created!"
	MessageDeleted        = "Article deleted!"
	MessageUpdated        = "Article updated!"
	MessageDeletedForever = "Deleted successfully"
	MessageDeleteWarning  = "This action cannot be undone!"
)

const (
	articlesPath       = "/articles"
	searchPlaceholder  = "Filter title..."
	cellTruncateLength = 100
	paramTab           = "tab"
	paramFormat        = "format"
)

type articleTab struct {
	Title  string
	Status articles.Status
}

var articleTabs = []articleTab{
	{Title: "Published", Status: articles.StatusPublish},
	{Title: "Drafts", Status: articles.StatusDraft},
	{Title: "Trashed", Status: articles.StatusTrash},
}

// upstreamError marks failures reported by the article API.
type upstreamError struct{ msg string }

func (e upstreamError) Error() string { return e.msg }

func articleColumns(actions bool) []table.Column[articles.Article] {
	columns := []table.Column[articles.Article]{
		{ID: "id", Header: "ID", Width: 80, Value: func(a articles.Article) any { return a.ID }},
		{ID: "title", Header: "Title", Sortable: true, Value: func(a articles.Article) any { return a.Title }},
		{
			ID:       "category",
			Header:   "Category",
			Hideable: true,
			Value:    func(a articles.Article) any { return a.Category },
			Cell:     func(a articles.Article) string { return textutil.Truncate(a.Category, cellTruncateLength) },
		},
		{
			ID:       "content",
			Header:   "Content",
			Hideable: true,
			Value:    func(a articles.Article) any { return a.Content },
			Cell:     func(a articles.Article) string { return textutil.Truncate(a.Content, cellTruncateLength) },
		},
		{ID: "status", Header: "Status", Value: func(a articles.Article) any { return string(a.Status) }},
	}
	if actions {
		columns = append(columns, table.Column[articles.Article]{
			ID:     "actions",
			Header: "Actions",
			Width:  140,
			HTML: func(a articles.Article) string {
				id := strconv.FormatInt(a.ID, 10)
				return fmt.Sprintf(`<a href="%s/%s">Edit</a> <a href="%s/%s/delete">Delete</a>`,
					articlesPath, id, articlesPath, id)
			},
		})
	}
	return columns
}

func articleRowID(a articles.Article) string {
	return strconv.FormatInt(a.ID, 10)
}

// listParams reads limit/offset, falling back to the configured page size.
func (s *Server) listParams(q url.Values) articles.ListParams {
	limit, err := strconv.Atoi(q.Get(vanilla.ParamLimit))
	if err != nil || limit <= 0 {
		limit = s.cfg.UI.PageSize
	}
	offset, err := strconv.Atoi(q.Get(vanilla.ParamOffset))
	if err != nil || offset < 0 {
		offset = 0
	}
	return articles.ListParams{Limit: limit, Offset: offset}
}

func selectedTab(raw string) articleTab {
	for _, tab := range articleTabs {
		if strings.EqualFold(raw, string(tab.Status)) {
			return tab
		}
	}
	return articleTabs[0]
}

func (s *Server) listArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := s.listParams(q)
	tab := selectedTab(q.Get(paramTab))

	// the Trash tab lists permanently deleted records; the others filter the
	// live page by status
	var rows []articles.Article
	var res articles.Result[[]articles.Article]
	if tab.Status == articles.StatusTrash {
		res = s.client.ListDeleted(r.Context(), params)
		rows = res.Data
	} else {
		res = s.client.List(r.Context(), params)
		for _, a := range res.Data {
			if a.Status == tab.Status {
				rows = append(rows, a)
			}
		}
	}

	var errs []string
	if !res.OK() {
		errs = append(errs, res.Error)
	}

	pageIndex := params.Offset / params.Limit
	hasNext := table.HasNextPage(len(res.Data), params.Limit)
	tbl := s.articleTable(q, rows, pageIndex, hasNext, tab.Status != articles.StatusTrash)

	query := map[string]string{
		paramTab:            string(tab.Status),
		vanilla.ParamLimit:  strconv.Itoa(params.Limit),
		vanilla.ParamOffset: strconv.Itoa(params.Offset),
		vanilla.ParamFilter: q.Get(vanilla.ParamFilter),
		vanilla.ParamSort:   q.Get(vanilla.ParamSort),
		vanilla.ParamDir:    q.Get(vanilla.ParamDir),
		vanilla.ParamHide:   q.Get(vanilla.ParamHide),
	}
	opts := render.RenderOptions{BaseURL: articlesPath, Query: query}

	if q.Get(paramFormat) == "text" {
		s.writeTextTable(w, r, tbl.View(), opts)
		return
	}

	body, err := s.forms.RenderTable(r.Context(), tbl.View(), opts)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	data := map[string]any{
		"tabs":    s.tabs(tab, params.Limit),
		"newHref": articlesPath + "/" + NewArticleID,
		"errors":  errs,
		"table":   string(body),
	}

	s.renderPage(w, r, page{
		Title:    "Articles",
		Section:  articlesPath,
		Template: "articles",
		Data:     data,
	})
}

func (s *Server) articleTable(q url.Values, rows []articles.Article, pageIndex int, hasNext, actions bool) *table.Table[articles.Article] {
	var hidden []string
	for _, id := range strings.Split(q.Get(vanilla.ParamHide), ",") {
		if id = strings.TrimSpace(id); id != "" {
			hidden = append(hidden, id)
		}
	}
	tbl := table.New(articleColumns(actions), rows,
		table.WithSearch[articles.Article]("title", searchPlaceholder),
		table.WithManualPagination[articles.Article](pageIndex, table.ManualPageCount(pageIndex, hasNext), nil),
		table.WithRowID(articleRowID),
		table.WithHiddenColumns[articles.Article](hidden...),
		table.WithLineClamp[articles.Article](2),
	)
	tbl.SetFilter(q.Get(vanilla.ParamFilter))
	if col := q.Get(vanilla.ParamSort); col != "" {
		tbl.SetSort(col, q.Get(vanilla.ParamDir) == "desc")
	}
	return tbl
}

func (s *Server) tabs(active articleTab, limit int) []navItem {
	out := make([]navItem, 0, len(articleTabs))
	for _, tab := range articleTabs {
		values := url.Values{}
		values.Set(paramTab, string(tab.Status))
		values.Set(vanilla.ParamLimit, strconv.Itoa(limit))
		out = append(out, navItem{
			Title:  tab.Title,
			Href:   articlesPath + "?" + values.Encode(),
			Active: tab.Status == active.Status,
		})
	}
	return out
}

func (s *Server) writeTextTable(w http.ResponseWriter, r *http.Request, view render.TableView, opts render.RenderOptions) {
	renderer, err := s.tables.Get("tui")
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	out, err := renderer.RenderTable(r.Context(), view, opts)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	_, _ = w.Write(out)
}

// articleForm mounts the article form. The caller unmounts the scope.
func (s *Server) articleForm(ctx context.Context) (*form.Form, context.Context, *form.Scope) {
	f := form.New(ArticleRecord(), form.WithID("article-form"), form.WithLogger(s.logger.Named("form")))
	ctx, scope := f.Provide(ctx)
	return f, ctx, scope
}

func (s *Server) editArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	f, ctx, scope := s.articleForm(r.Context())
	defer scope.Unmount()

	var toast string
	if id != NewArticleID {
		res := s.client.Get(ctx, id)
		if res.OK() {
			scope.SetFormFields(RecordFromArticle(res.Data))
		} else {
			toast = res.Error
		}
	}
	if _, err := f.Bind(ctx, ArticleFields()); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.renderArticleForm(ctx, w, r, f, id, toast, http.StatusOK)
}

func (s *Server) submitArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f, ctx, scope := s.articleForm(r.Context())
	defer scope.Unmount()

	fields := ArticleFields()
	form.Decode(r.PostForm, fields).Apply(scope)
	if _, err := f.Bind(ctx, fields); err != nil {
		s.serverError(w, r, err)
		return
	}

	var message string
	ran, err := f.Submit(ctx, func(ctx context.Context, data model.Record) error {
		msg, err := s.saveArticle(ctx, id, data)
		message = msg
		return err
	})
	switch {
	case err != nil:
		status := http.StatusUnprocessableEntity
		var upstream upstreamError
		if errors.As(err, &upstream) {
			status = http.StatusBadGateway
		}
		s.logger.Warn("article submit failed",
			zap.String("id", id),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		s.renderArticleForm(ctx, w, r, f, id, err.Error(), status)
	case !ran:
		s.renderArticleForm(ctx, w, r, f, id, "", http.StatusUnprocessableEntity)
	default:
		s.redirectWithFlash(w, r, articlesPath, FlashSuccess, message)
	}
}

// saveArticle dispatches a valid submission: create for the new form, delete
// when an existing article is moved to Trash, update otherwise.
func (s *Server) saveArticle(ctx context.Context, id string, data model.Record) (string, error) {
	dto := ArticleFromRecord(data)
	status, err := articles.ParseStatus(string(dto.Status))
	if err != nil {
		return "", err
	}
	dto.Status = status

	switch {
	case id == NewArticleID:
		if err := articles.ValidateCreate(ctx, dto); err != nil {
			return "", err
		}
		if res := s.client.Create(ctx, dto); !res.OK() {
			return "", upstreamError{res.Error}
		}
		return MessageCreated, nil
	case status == articles.StatusTrash:
		if res := s.client.Delete(ctx, id); !res.OK() {
			return "", upstreamError{res.Error}
		}
		return MessageDeleted, nil
	default:
		update := articles.UpdateDTO{
			Title:    articles.Ptr(dto.Title),
			Content:  articles.Ptr(dto.Content),
			Category: articles.Ptr(dto.Category),
			Status:   articles.Ptr(dto.Status),
		}
		if res := s.client.Update(ctx, id, update, http.MethodPut); !res.OK() {
			return "", upstreamError{res.Error}
		}
		return MessageUpdated, nil
	}
}

func (s *Server) renderArticleForm(ctx context.Context, w http.ResponseWriter, r *http.Request, f *form.Form, id, toast string, status int) {
	title, label := "Edit article", "Update"
	deleteHref := articlesPath + "/" + id + "/delete"
	if id == NewArticleID {
		title, label, deleteHref = "New article", "Create", ""
	}

	out, err := f.Render(ctx, s.forms, render.RenderOptions{
		Action:      articlesPath + "/" + id,
		Method:      http.MethodPost,
		SubmitLabel: label,
		Hidden:      render.MergeHiddenFields(nil, render.Hidden("id", id)),
		Theme:       s.themeConfig(r),
	})
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	section := articlesPath
	if id == NewArticleID {
		section = articlesPath + "/" + NewArticleID
	}
	s.renderPage(w, r, page{
		Title:    title,
		Section:  section,
		Template: "article_form",
		Status:   status,
		Data: map[string]any{
			"error":      toast,
			"form":       string(out),
			"deleteHref": deleteHref,
		},
	})
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	res := s.client.Get(r.Context(), id)
	if !res.OK() {
		s.redirectWithFlash(w, r, articlesPath, FlashError, res.Error)
		return
	}
	s.renderPage(w, r, page{
		Title:    "Delete article",
		Section:  articlesPath,
		Template: "delete",
		Data: map[string]any{
			"article":    res.Data,
			"warning":    MessageDeleteWarning,
			"action":     articlesPath + "/" + id + "/delete",
			"cancelHref": articlesPath,
		},
	})
}

func (s *Server) deleteArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if res := s.client.Delete(r.Context(), id); !res.OK() {
		s.redirectWithFlash(w, r, articlesPath, FlashError, res.Error)
		return
	}
	s.logger.Info("article deleted", zap.String("id", id))
	s.redirectWithFlash(w, r, articlesPath+"?"+paramTab+"="+string(articles.StatusTrash), FlashSuccess, MessageDeletedForever)
}
