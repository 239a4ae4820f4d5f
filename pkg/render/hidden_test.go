package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-article-admin/pkg/render"
)

func TestMergeAndSortHiddenFields(t *testing.T) {
	base := map[string]string{
		" tab ": "Draft",
		"":      "ignored",
	}

	merged := render.MergeHiddenFields(base,
		render.Hidden("limit", 10),
		render.Hidden("  ", "skip"),
		render.Hidden("tab", "Trash"),
	)

	wantMerged := map[string]string{
		"tab":   "Trash",
		"limit": "10",
	}
	if diff := cmp.Diff(wantMerged, merged); diff != "" {
		t.Fatalf("merged mismatch (-want +got):\n%s", diff)
	}

	wantSorted := []render.HiddenField{
		{Name: "limit", Value: "10"},
		{Name: "tab", Value: "Trash"},
	}
	if diff := cmp.Diff(wantSorted, render.SortedHiddenFields(merged)); diff != "" {
		t.Fatalf("sorted mismatch (-want +got):\n%s", diff)
	}
}

func TestHiddenFieldsEmpty(t *testing.T) {
	if got := render.MergeHiddenFields(nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
	if got := render.SortedHiddenFields(map[string]string{" ": "x"}); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
