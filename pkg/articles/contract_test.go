package articles_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-article-admin/pkg/articles"
)

func TestContractOperations(t *testing.T) {
	ops, err := articles.Operations(context.Background())
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	want := []articles.Operation{
		{ID: "createArticle", Method: "POST", Path: "/article"},
		{ID: "deleteArticle", Method: "DELETE", Path: "/article/{id}"},
		{ID: "getArticle", Method: "GET", Path: "/article/{id}"},
		{ID: "updateArticle", Method: "PUT", Path: "/article/{id}"},
		{ID: "listDeletedArticles", Method: "GET", Path: "/articles/deleted/{limit}/{offset}"},
		{ID: "listArticles", Method: "GET", Path: "/articles/{limit}/{offset}"},
	}
	if diff := cmp.Diff(want, ops); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateStatus(t *testing.T) {
	for _, s := range articles.Statuses {
		if err := articles.ValidateStatus(context.Background(), string(s)); err != nil {
			t.Fatalf("status %s: %v", s, err)
		}
	}
	err := articles.ValidateStatus(context.Background(), "Archived")
	if !errors.Is(err, articles.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestValidateCreate(t *testing.T) {
	good := articles.CreateDTO{
		Title:    "A perfectly reasonable title",
		Content:  strings.Repeat("x", 200),
		Category: "news",
		Status:   articles.StatusDraft,
	}
	if err := articles.ValidateCreate(context.Background(), good); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}

	short := good
	short.Title = "short"
	short.Content = "tiny"
	if err := articles.ValidateCreate(context.Background(), short); err != nil {
		t.Fatalf("lengths are a form concern, got %v", err)
	}

	badStatus := good
	badStatus.Status = "Archived"
	if err := articles.ValidateCreate(context.Background(), badStatus); err == nil {
		t.Fatalf("expected invalid status to fail")
	}
}

func TestContractSourceIsCopy(t *testing.T) {
	src := articles.ContractSource()
	if !strings.HasPrefix(string(src), "openapi: 3.0.3") {
		t.Fatalf("unexpected contract header: %q", string(src[:20]))
	}
	src[0] = 'X'
	if articles.ContractSource()[0] != 'o' {
		t.Fatalf("ContractSource must return a copy")
	}
}

func TestContractLoadsWithCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc, err := articles.Contract(ctx)
	if err != nil {
		t.Fatalf("contract: %v", err)
	}
	if doc.Paths.Find("/article") == nil {
		t.Fatalf("expected /article path in contract")
	}
	again, err := articles.Contract(context.Background())
	if err != nil || again != doc {
		t.Fatalf("expected cached document, got %p (%v)", again, err)
	}
}
