package categories

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

//go:embed data/categories.txt
var dataFS embed.FS

const defaultListPath = "data/categories.txt"

var (
	defaultOnce       sync.Once
	defaultCategories []string
	defaultErr        error
)

// DefaultCategories returns the embedded category list.
func DefaultCategories() ([]string, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()

		defaultCategories, defaultErr = LoadCategories(f)
	})

	if defaultErr != nil {
		return nil, defaultErr
	}
	return slices.Clone(defaultCategories), nil
}

// LoadCategories reads one category per line, skipping blanks and # comments.
// Entries are lowercased, deduplicated and sorted.
func LoadCategories(r io.Reader) ([]string, error) {
	if r == nil {
		return nil, fmt.Errorf("categories: missing reader")
	}

	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return Merge(lines), nil
}

// Merge normalizes and combines category lists.
func Merge(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, list := range lists {
		for _, category := range list {
			category = Normalize(category)
			if category == "" {
				continue
			}
			if _, ok := seen[category]; ok {
				continue
			}
			seen[category] = struct{}{}
			out = append(out, category)
		}
	}
	slices.Sort(out)
	return out
}

// Normalize trims and lowercases a category name.
func Normalize(category string) string {
	return strings.ToLower(strings.TrimSpace(category))
}
