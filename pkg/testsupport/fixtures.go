package testsupport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-article-admin/pkg/articles"
)

// SampleArticles returns a fresh, mixed-status article set. Ids are assigned
// by NewFakeAPI in order, starting at 1.
func SampleArticles() []articles.Article {
	return []articles.Article{
		{Title: "Getting started with Go modules", Content: "Modules are the unit of versioning in Go.", Category: "golang", Status: articles.StatusPublish},
		{Title: "Draft notes on caching", Content: "Unfinished thoughts about cache invalidation.", Category: "architecture", Status: articles.StatusDraft},
		{Title: "Shipping small services", Content: "Small deployable units make rollbacks boring.", Category: "devops", Status: articles.StatusPublish},
		{Title: "Old announcement", Content: "This post has been retired.", Category: "news", Status: articles.StatusTrash},
	}
}

// ManyArticles returns n published articles titled "Article 1".."Article n".
func ManyArticles(n int) []articles.Article {
	out := make([]articles.Article, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, articles.Article{
			Title:    fmt.Sprintf("Article %d", i),
			Content:  strings.Repeat("lorem ipsum ", 25),
			Category: "general",
			Status:   articles.StatusPublish,
		})
	}
	return out
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureOutput runs fn with a buffer and returns what it wrote.
func CaptureOutput(t *testing.T, fn func(io.Writer) error) string {
	t.Helper()

	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		t.Fatalf("capture output: %v", err)
	}
	return buf.String()
}
