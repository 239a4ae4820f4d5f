package table

import (
	"cmp"
	"strings"
	"time"

	"github.com/goliatone/go-article-admin/pkg/validation"
)

// HasNextPage guesses whether a server-paginated listing has more rows: a
// full page means more may exist. A listing whose size is an exact multiple
// of limit therefore reports one empty trailing page.
func HasNextPage(returned, limit int) bool {
	return limit > 0 && returned >= limit
}

// ManualPageCount is the page count advertised for manual pagination: one
// page past the current one when more may exist.
func ManualPageCount(pageIndex int, hasNext bool) int {
	if hasNext {
		return pageIndex + 2
	}
	return pageIndex + 1
}

func compareValues(a, b any) int {
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return cmp.Compare(x, y)
		}
	}
	if x, ok := a.(time.Time); ok {
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	}
	return strings.Compare(
		strings.ToLower(validation.Stringify(a)),
		strings.ToLower(validation.Stringify(b)),
	)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
