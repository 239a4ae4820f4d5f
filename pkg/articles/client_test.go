package articles_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-article-admin/pkg/articles"
	"github.com/goliatone/go-article-admin/pkg/testsupport"
)

func TestClientListUsesPathPaging(t *testing.T) {
	api := testsupport.NewFakeAPI(t, testsupport.ManyArticles(15)...)
	client := api.Client()

	first := client.List(context.Background(), articles.ListParams{})
	if !first.OK() {
		t.Fatalf("list: %s", first.Error)
	}
	if len(first.Data) != articles.DefaultLimit {
		t.Fatalf("expected %d articles, got %d", articles.DefaultLimit, len(first.Data))
	}

	second := client.List(context.Background(), articles.ListParams{Limit: 10, Offset: 10})
	if !second.OK() {
		t.Fatalf("list page 2: %s", second.Error)
	}
	if len(second.Data) != 5 || second.Data[0].Title != "Article 11" {
		t.Fatalf("unexpected second page: %+v", second.Data)
	}

	want := []string{"GET /articles/10/0", "GET /articles/10/10"}
	if diff := cmp.Diff(want, api.Requests()); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestClientCreateSendsCapitalizedKeys(t *testing.T) {
	var (
		mu   sync.Mutex
		body map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/article" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		mu.Lock()
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"title":"t","content":"c","category":"news","status":"Draft"}`)
	}))
	defer srv.Close()

	result := articles.NewClient(srv.URL).Create(context.Background(), articles.CreateDTO{
		Title:    "A title",
		Content:  "Body",
		Category: "news",
		Status:   articles.StatusDraft,
	})
	if !result.OK() {
		t.Fatalf("create: %s", result.Error)
	}
	if result.Data.ID != 7 || result.Data.Status != articles.StatusDraft {
		t.Fatalf("unexpected article: %+v", result.Data)
	}

	mu.Lock()
	defer mu.Unlock()
	want := map[string]any{"Title": "A title", "Content": "Body", "Category": "news", "Status": "Draft"}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClientUpdateSendsOnlyProvidedFields(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		body   map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method = r.Method
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client := articles.NewClient(srv.URL)
	result := client.Update(context.Background(), "3", articles.UpdateDTO{
		Status: articles.Ptr(articles.StatusPublish),
	}, "")
	if !result.OK() {
		t.Fatalf("update: %s", result.Error)
	}

	mu.Lock()
	if method != http.MethodPut {
		t.Fatalf("expected PUT by default, got %s", method)
	}
	if diff := cmp.Diff(map[string]any{"Status": "Publish"}, body); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
	mu.Unlock()

	if r := client.Update(context.Background(), "3", articles.UpdateDTO{}, "patch"); !r.OK() {
		t.Fatalf("patch update: %s", r.Error)
	}
	mu.Lock()
	if method != http.MethodPatch {
		t.Fatalf("expected PATCH, got %s", method)
	}
	mu.Unlock()

	bad := client.Update(context.Background(), "3", articles.UpdateDTO{}, "DELETE")
	if bad.OK() || !strings.Contains(bad.Error, "unsupported update method") {
		t.Fatalf("expected unsupported method failure, got %+v", bad)
	}
}

func TestClientDeleteMovesToDeletedList(t *testing.T) {
	api := testsupport.NewFakeAPI(t, testsupport.SampleArticles()...)
	client := api.Client()

	if r := client.Delete(context.Background(), "2"); !r.OK() {
		t.Fatalf("delete: %s", r.Error)
	}
	deleted := client.ListDeleted(context.Background(), articles.ListParams{})
	if !deleted.OK() {
		t.Fatalf("list deleted: %s", deleted.Error)
	}
	if len(deleted.Data) != 1 || deleted.Data[0].ID != 2 {
		t.Fatalf("unexpected deleted list: %+v", deleted.Data)
	}
	if got := len(api.Live()); got != 3 {
		t.Fatalf("expected 3 live articles, got %d", got)
	}
}

func TestClientErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		json   bool
		want   string
	}{
		{name: "json error field", status: http.StatusNotFound, body: `{"error":"article not found"}`, json: true, want: "article not found"},
		{name: "json without error", status: http.StatusBadRequest, body: `{"message":"nope"}`, json: true, want: "HTTP 400"},
		{name: "plain text body", status: http.StatusBadGateway, body: "upstream exploded", want: "upstream exploded"},
		{name: "empty body", status: http.StatusInternalServerError, body: "", want: "HTTP 500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := testsupport.NewFakeAPI(t)
			api.Fail(tt.status, tt.body, tt.json)

			result := api.Client().Get(context.Background(), "1")
			if result.OK() {
				t.Fatalf("expected failure")
			}
			if result.Error != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, result.Error)
			}
			if result.Err() == nil {
				t.Fatalf("expected Err() to be non-nil")
			}
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	result := articles.NewClient(srv.URL, articles.WithTimeout(50*time.Millisecond)).
		List(context.Background(), articles.ListParams{})
	if result.Error != "request timed out" {
		t.Fatalf("expected timeout message, got %q", result.Error)
	}
}

func TestClientPublishedFilters(t *testing.T) {
	api := testsupport.NewFakeAPI(t, testsupport.SampleArticles()...)
	client := api.Client()

	published := client.ListPublished(context.Background(), articles.ListParams{})
	if !published.OK() {
		t.Fatalf("list published: %s", published.Error)
	}
	var ids []int64
	for _, a := range published.Data {
		ids = append(ids, a.ID)
	}
	if diff := cmp.Diff([]int64{1, 3}, ids); diff != "" {
		t.Fatalf("published ids mismatch (-want +got):\n%s", diff)
	}

	draft := client.GetPublished(context.Background(), "2")
	if draft.Error != articles.ErrNotPublished.Error() {
		t.Fatalf("expected not published error, got %q", draft.Error)
	}
	if ok := client.GetPublished(context.Background(), "1"); !ok.OK() || ok.Data.ID != 1 {
		t.Fatalf("expected published article, got %+v", ok)
	}
}

func TestBaseURLFromEnv(t *testing.T) {
	t.Setenv(articles.EnvBaseURL, "")
	if got := articles.BaseURLFromEnv(); got != articles.DefaultBaseURL {
		t.Fatalf("expected default base url, got %q", got)
	}
	t.Setenv(articles.EnvBaseURL, "http://api.internal:9000/")
	client := articles.NewClient("")
	if got := client.BaseURL(); got != "http://api.internal:9000" {
		t.Fatalf("expected trimmed env base url, got %q", got)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range articles.Statuses {
		got, err := articles.ParseStatus(" " + string(s) + " ")
		if err != nil || got != s {
			t.Fatalf("parse %q: %v %v", s, got, err)
		}
	}
	if _, err := articles.ParseStatus("publish"); err != articles.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}
