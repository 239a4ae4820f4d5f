package categories

import (
	"sort"
	"strings"

	"github.com/goliatone/go-article-admin/internal/textutil"
	"github.com/goliatone/go-article-admin/pkg/model"
)

// Search filters categories by a case-insensitive substring, ranking prefix
// matches first.
func Search(categories []string, query string, limit int, opts Options) []string {
	limit = clampLimit(limit, opts)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode == EmptySearchTop {
			return append([]string{}, categories[:min(limit, len(categories))]...)
		}
		return nil
	}

	q := strings.ToLower(query)
	matches := make([]matchedCategory, 0, 16)
	for _, category := range categories {
		lower := strings.ToLower(category)
		if !strings.Contains(lower, q) {
			continue
		}
		matches = append(matches, matchedCategory{
			name:     category,
			isPrefix: strings.HasPrefix(lower, q),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].isPrefix != matches[j].isPrefix {
			return matches[i].isPrefix
		}
		return matches[i].name < matches[j].name
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.name)
	}
	return out
}

// SearchOptions is Search mapped to select options labelled for display.
func SearchOptions(categories []string, query string, limit int, opts Options) []model.SelectOption {
	results := Search(categories, query, limit, opts)
	if len(results) == 0 {
		return nil
	}

	out := make([]model.SelectOption, 0, len(results))
	for _, category := range results {
		out = append(out, model.SelectOption{Value: category, Label: textutil.Capitalize(category)})
	}
	return out
}

type matchedCategory struct {
	name     string
	isPrefix bool
}
