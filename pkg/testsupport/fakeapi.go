package testsupport

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-article-admin/pkg/articles"
)

// FakeAPI is an in-memory stand-in for the article backend. Deleted articles
// move to a separate soft-deleted list, matching the real service.
type FakeAPI struct {
	mu       sync.Mutex
	nextID   int64
	live     []articles.Article
	deleted  []articles.Article
	requests []string

	failStatus int
	failBody   string
	failJSON   bool

	server *httptest.Server
}

// NewFakeAPI starts a fake backend seeded with seed and closes it on cleanup.
func NewFakeAPI(t *testing.T, seed ...articles.Article) *FakeAPI {
	t.Helper()

	api := &FakeAPI{nextID: 1}
	for _, a := range seed {
		if a.ID == 0 {
			a.ID = api.nextID
		}
		if a.ID >= api.nextID {
			api.nextID = a.ID + 1
		}
		api.live = append(api.live, a)
	}

	r := chi.NewRouter()
	r.Use(api.record, api.fail)
	r.Get("/articles/{limit}/{offset}", api.list(false))
	r.Get("/articles/deleted/{limit}/{offset}", api.list(true))
	r.Get("/article/{id}", api.get)
	r.Post("/article", api.create)
	r.Put("/article/{id}", api.update)
	r.Patch("/article/{id}", api.update)
	r.Delete("/article/{id}", api.remove)

	api.server = httptest.NewServer(r)
	t.Cleanup(api.server.Close)
	return api
}

// URL is the base URL to hand to articles.NewClient.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// Client returns an articles client pointed at the fake.
func (f *FakeAPI) Client(opts ...articles.Option) *articles.Client {
	return articles.NewClient(f.server.URL, opts...)
}

// Requests returns "METHOD path" for every request served so far.
func (f *FakeAPI) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.requests)
}

// Live returns the non-deleted articles.
func (f *FakeAPI) Live() []articles.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.live)
}

// Deleted returns the soft-deleted articles.
func (f *FakeAPI) Deleted() []articles.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.deleted)
}

// Fail makes every following request answer with status and body. A JSON
// body is served as application/json, anything else as text/plain.
// Status 0 restores normal behaviour.
func (f *FakeAPI) Fail(status int, body string, asJSON bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failStatus, f.failBody, f.failJSON = status, body, asJSON
}

func (f *FakeAPI) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Method+" "+r.URL.Path)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeAPI) fail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		status, body, asJSON := f.failStatus, f.failBody, f.failJSON
		f.mu.Unlock()
		if status == 0 {
			next.ServeHTTP(w, r)
			return
		}
		if asJSON {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (f *FakeAPI) list(deleted bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err1 := strconv.Atoi(chi.URLParam(r, "limit"))
		offset, err2 := strconv.Atoi(chi.URLParam(r, "offset"))
		if err1 != nil || err2 != nil || limit < 0 || offset < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid paging"})
			return
		}
		f.mu.Lock()
		source := f.live
		if deleted {
			source = f.deleted
		}
		page := []articles.Article{}
		if offset < len(source) {
			end := min(offset+limit, len(source))
			page = append(page, source[offset:end]...)
		}
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, page)
	}
}

func (f *FakeAPI) get(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	idx := f.indexOf(chi.URLParam(r, "id"))
	var a articles.Article
	if idx >= 0 {
		a = f.live[idx]
	}
	f.mu.Unlock()
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (f *FakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var dto articles.CreateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f.mu.Lock()
	a := articles.Article{
		ID:       f.nextID,
		Title:    dto.Title,
		Content:  dto.Content,
		Category: dto.Category,
		Status:   dto.Status,
	}
	f.nextID++
	f.live = append(f.live, a)
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, a)
}

func (f *FakeAPI) update(w http.ResponseWriter, r *http.Request) {
	var dto articles.UpdateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.indexOf(chi.URLParam(r, "id"))
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	a := &f.live[idx]
	if dto.Title != nil {
		a.Title = *dto.Title
	}
	if dto.Content != nil {
		a.Content = *dto.Content
	}
	if dto.Category != nil {
		a.Category = *dto.Category
	}
	if dto.Status != nil {
		a.Status = *dto.Status
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *FakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.indexOf(chi.URLParam(r, "id"))
	if idx < 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "article not found"})
		return
	}
	a := f.live[idx]
	a.Status = articles.StatusTrash
	f.deleted = append(f.deleted, a)
	f.live = slices.Delete(f.live, idx, idx+1)
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (f *FakeAPI) indexOf(rawID string) int {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return -1
	}
	return slices.IndexFunc(f.live, func(a articles.Article) bool { return a.ID == id })
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
