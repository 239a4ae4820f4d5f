package admin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-article-admin/internal/config"
	"github.com/goliatone/go-article-admin/internal/textutil"
	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/testsupport"
	"github.com/goliatone/go-article-admin/pkg/validation"
)

func newTestServer(t *testing.T, seed ...articles.Article) (http.Handler, *testsupport.FakeAPI) {
	t.Helper()
	api := testsupport.NewFakeAPI(t, seed...)
	srv, err := New(Options{Config: config.DefaultConfig(), Client: api.Client()})
	require.NoError(t, err)
	return srv.Handler(), api
}

func get(t *testing.T, h http.Handler, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(t *testing.T, h http.Handler, target string, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// follow replays a redirect with the cookies it set.
func follow(t *testing.T, h http.Handler, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)
	return get(t, h, rec.Header().Get("Location"), rec.Result().Cookies()...)
}

func articleForm(title, content, category, status string) url.Values {
	return url.Values{
		"title":    {title},
		"content":  {content},
		"category": {category},
		"status":   {status},
	}
}

func validForm(status string) url.Values {
	return articleForm(
		"A thoroughly descriptive title",
		strings.Repeat("Long enough body text. ", 10),
		"Programming",
		status,
	)
}

func writes(api *testsupport.FakeAPI) []string {
	var out []string
	for _, r := range api.Requests() {
		if !strings.HasPrefix(r, http.MethodGet) {
			out = append(out, r)
		}
	}
	return out
}

func TestRootRedirectsToArticles(t *testing.T) {
	h, _ := newTestServer(t)
	rec := get(t, h, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/articles", rec.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	h, _ := newTestServer(t)
	rec := get(t, h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestAssetsServeStylesheet(t *testing.T) {
	h, _ := newTestServer(t)
	rec := get(t, h, "/assets/article-admin.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".af-prose")
}

func TestListArticlesFiltersByTab(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)

	rec := get(t, h, "/articles")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Getting started with Go modules")
	assert.Contains(t, body, "Shipping small services")
	assert.NotContains(t, body, "Draft notes on caching")
	assert.Contains(t, body, "Filter title...")
	assert.Contains(t, body, `href="/articles/1/delete"`)
	assert.Equal(t, []string{"GET /articles/10/0"}, api.Requests())

	body = get(t, h, "/articles?tab=Draft").Body.String()
	assert.Contains(t, body, "Draft notes on caching")
	assert.NotContains(t, body, "Shipping small services")
}

func TestListArticlesTrashShowsDeleted(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)
	require.True(t, api.Client().Delete(testsupport.Context(), "1").OK())

	body := get(t, h, "/articles?tab=Trash").Body.String()
	assert.Contains(t, body, "Getting started with Go modules")
	assert.NotContains(t, body, "Old announcement")
	assert.NotContains(t, body, `href="/articles/1/delete"`)
	assert.Contains(t, api.Requests(), "GET /articles/deleted/10/0")
	assert.NotContains(t, api.Requests(), "GET /articles/10/0")
}

func TestListArticlesManualPagination(t *testing.T) {
	h, _ := newTestServer(t, testsupport.ManyArticles(12)...)

	first := get(t, h, "/articles?limit=10").Body.String()
	assert.Contains(t, first, "Article 10")
	assert.NotContains(t, first, "Article 11")
	assert.Contains(t, first, "offset=10")

	second := get(t, h, "/articles?limit=10&offset=10").Body.String()
	assert.Contains(t, second, "Article 11")
	assert.Contains(t, second, "Page 2")
	assert.NotContains(t, second, "offset=20")
}

func TestListArticlesTextFormat(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)
	rec := get(t, h, "/articles?format=text&q=shipping")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Shipping small services")
	assert.NotContains(t, rec.Body.String(), "Getting started")
	assert.Contains(t, rec.Body.String(), "Page 1 of 1")
}

func TestListArticlesShowsAPIErrors(t *testing.T) {
	h, api := newTestServer(t)
	api.Fail(http.StatusInternalServerError, `{"error":"database unavailable"}`, true)

	rec := get(t, h, "/articles")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "database unavailable")
}

func TestEditFormPreloadsArticle(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)
	rec := get(t, h, "/articles/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Draft notes on caching")
	assert.Contains(t, rec.Body.String(), `href="/articles/2/delete"`)
}

func TestEditFormMissingArticleShowsToast(t *testing.T) {
	h, _ := newTestServer(t)
	rec := get(t, h, "/articles/99")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "article not found")
}

func TestNewFormStartsAsDraft(t *testing.T) {
	h, api := newTestServer(t)
	rec := get(t, h, "/articles/new")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "e.g. Programming")
	assert.NotContains(t, rec.Body.String(), "/articles/new/delete")
	assert.Empty(t, api.Requests())
}

func TestCreateArticle(t *testing.T) {
	h, api := newTestServer(t)

	rec := post(t, h, "/articles/new", validForm("Draft"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles", rec.Header().Get("Location"))
	assert.Equal(t, []string{"POST /article"}, writes(api))

	live := api.Live()
	require.Len(t, live, 1)
	assert.Equal(t, "A thoroughly descriptive title", live[0].Title)
	assert.Equal(t, articles.StatusDraft, live[0].Status)

	next := follow(t, h, rec)
	assert.Contains(t, next.Body.String(), MessageCreated)
}

func TestUpdateArticleUsesPut(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)

	rec := post(t, h, "/articles/2", validForm("Publish"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"PUT /article/2"}, writes(api))
	assert.Equal(t, articles.StatusPublish, api.Live()[1].Status)
	assert.Contains(t, follow(t, h, rec).Body.String(), MessageUpdated)
}

func TestTrashStatusDeletesInsteadOfUpdating(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)

	rec := post(t, h, "/articles/2", validForm("Trash"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"DELETE /article/2"}, writes(api))
	assert.Len(t, api.Deleted(), 1)
	assert.Contains(t, follow(t, h, rec).Body.String(), MessageDeleted)
}

func TestCreateWithTrashStatusCreates(t *testing.T) {
	h, api := newTestServer(t)
	rec := post(t, h, "/articles/new", validForm("Trash"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"POST /article"}, writes(api))
}

func TestSubmitMissingFieldsRerendersForm(t *testing.T) {
	h, api := newTestServer(t)

	rec := post(t, h, "/articles/new", articleForm("", "", "", "Draft"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), validation.MessageRequired)
	assert.Empty(t, writes(api))
}

func TestSubmitInvalidStatusShowsDomainError(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)

	rec := post(t, h, "/articles/1", validForm("Archived"))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), articles.ErrInvalidStatus.Error())
	assert.Empty(t, writes(api))
}

func TestCreateChecksRequiredTitleForPresenceOnly(t *testing.T) {
	h, api := newTestServer(t)

	page := get(t, h, "/articles/new")
	require.Equal(t, http.StatusOK, page.Code)
	assert.NotContains(t, page.Body.String(), `minlength=`)

	form := validForm("Draft")
	form.Set("title", "Short one")
	rec := post(t, h, "/articles/new", form)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"POST /article"}, writes(api))
	require.Len(t, api.Live(), 1)
	assert.Equal(t, "Short one", api.Live()[0].Title)
}

func TestSubmitUpstreamFailureKeepsForm(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)
	api.Fail(http.StatusInternalServerError, `{"error":"write failed"}`, true)

	rec := post(t, h, "/articles/1", validForm("Publish"))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "write failed")
	assert.Contains(t, rec.Body.String(), "A thoroughly descriptive title")
}

func TestConfirmAndDeleteArticle(t *testing.T) {
	h, api := newTestServer(t, testsupport.SampleArticles()...)

	confirm := get(t, h, "/articles/1/delete")
	require.Equal(t, http.StatusOK, confirm.Code)
	assert.Contains(t, confirm.Body.String(), MessageDeleteWarning)
	assert.Contains(t, confirm.Body.String(), "Delete Permanently")

	rec := post(t, h, "/articles/1/delete", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/articles?tab=Trash", rec.Header().Get("Location"))
	assert.Len(t, api.Deleted(), 1)
	assert.Contains(t, follow(t, h, rec).Body.String(), MessageDeletedForever)
}

func TestConfirmDeleteMissingArticleRedirects(t *testing.T) {
	h, _ := newTestServer(t)
	rec := get(t, h, "/articles/42/delete")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, follow(t, h, rec).Body.String(), "article not found")
}

func TestPreviewListShowsPublishedExcerpts(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)
	body := get(t, h, "/preview").Body.String()

	assert.Contains(t, body, "Latest Posts")
	assert.Contains(t, body, "GOLANG")
	assert.Contains(t, body, `href="/preview/1"`)
	assert.Contains(t, body, "Read more →")
	assert.NotContains(t, body, "Draft notes on caching")
	assert.Contains(t, body, "Page 1")
}

func TestPreviewListPaging(t *testing.T) {
	h, _ := newTestServer(t, testsupport.ManyArticles(11)...)

	first := get(t, h, "/preview?page=0").Body.String()
	assert.Contains(t, first, "/preview?page=2")
	assert.NotContains(t, first, "/preview?page=0")
	assert.Contains(t, first, textutil.Truncate(strings.Repeat("lorem ipsum ", 25), PreviewExcerptLength))

	second := get(t, h, "/preview?page=2").Body.String()
	assert.Contains(t, second, "Article 11")
	assert.Contains(t, second, "/preview?page=1")
	assert.Contains(t, second, "Page 2")
	assert.NotContains(t, second, "/preview?page=3")
}

func TestPreviewListEmptyAndError(t *testing.T) {
	h, api := newTestServer(t)
	assert.Contains(t, get(t, h, "/preview").Body.String(), "No published posts yet.")

	api.Fail(http.StatusBadGateway, "upstream down", false)
	assert.Contains(t, get(t, h, "/preview").Body.String(), "Failed to load: upstream down")
}

func TestPreviewDetail(t *testing.T) {
	long := articles.Article{
		Title:    "A post with an unbroken word",
		Content:  strings.Repeat("x", 120) + ` <script>alert(1)</script>done <a href="https://example.com/` + strings.Repeat("p", 60) + `">site</a>`,
		Category: "misc",
		Status:   articles.StatusPublish,
	}
	h, _ := newTestServer(t, append(testsupport.SampleArticles(), long)...)

	rec := get(t, h, "/preview/5")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "A post with an unbroken word")
	assert.Contains(t, body, textutil.ZeroWidthSpace)
	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;alert(1)&lt;/script&gt;done")
	assert.NotContains(t, body, `<a href="https://example.com`)
}

func TestPreviewDetailRejectsUnpublished(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)
	for _, target := range []string{"/preview/2", "/preview/404"} {
		rec := get(t, h, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
		assert.Contains(t, rec.Body.String(), MessageArticleMissing, target)
	}
}

func TestPlaygroundSubmit(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)

	page := get(t, h, "/playground")
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `name="currentSalary"`)

	rec := post(t, h, "/playground", url.Values{
		"name":          {"Ada"},
		"email":         {"ada@example.com"},
		"password":      {"correct horse"},
		"currentSalary": {"0042"},
		"gender":        {"F"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Submitted")
	assert.Contains(t, rec.Body.String(), "ada@example.com")
	assert.Contains(t, rec.Body.String(), "42")
}

func TestPlaygroundChipInteractionDoesNotSubmit(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)

	rec := post(t, h, "/playground", url.Values{
		"name":           {"Ada"},
		"topics__choose": {"golang"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Submitted")
}

func TestPlaygroundRequiresName(t *testing.T) {
	h, _ := newTestServer(t)
	rec := post(t, h, "/playground", url.Values{"name": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), validation.MessageRequired)
}

func TestCategoriesEndpointIncludesArticleCategories(t *testing.T) {
	h, _ := newTestServer(t, testsupport.SampleArticles()...)
	rec := get(t, h, "/api/categories?q=devops")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"devops"`)
}

func TestCORSPreflight(t *testing.T) {
	h, _ := newTestServer(t)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/articles", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "Content-Type")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://topengdev.com")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "{}", rec.Body.String())
	assert.Equal(t, "https://topengdev.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodPost, rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))

	rec = preflight("https://evil.example")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://topengdev.com")
	actual := httptest.NewRecorder()
	h.ServeHTTP(actual, req)
	assert.Equal(t, http.StatusOK, actual.Code)
	assert.Equal(t, "https://topengdev.com", actual.Header().Get("Access-Control-Allow-Origin"))
}

func TestDarkVariantChangesCSSVars(t *testing.T) {
	h, _ := newTestServer(t)
	assert.Contains(t, get(t, h, "/preview?variant=dark").Body.String(), "#0f172a")
	assert.NotContains(t, get(t, h, "/preview").Body.String(), "#0f172a")
}
