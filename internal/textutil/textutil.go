// Package textutil holds the small string helpers shared by the admin pages,
// table columns and CLI output.
package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ZeroWidthSpace is inserted by SplitLongWords as a line break opportunity.
const ZeroWidthSpace = "\u200b"

// Truncate cuts text to n runes and appends "..." when anything was removed.
func Truncate(text string, n int) string {
	if n < 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	return string(runes[:n]) + "..."
}

// Capitalize upper-cases the first letter of every space separated word.
func Capitalize(text string) string {
	words := strings.Split(text, " ")
	for i, word := range words {
		r, size := utf8.DecodeRuneInString(word)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + word[size:]
	}
	return strings.Join(words, " ")
}

// SnakeToTitle turns "created_at" into "Created At".
func SnakeToTitle(text string) string {
	return Capitalize(strings.ReplaceAll(text, "_", " "))
}

// SplitLongWords inserts a zero-width space after every n runes of any word
// longer than n, so unbroken strings wrap instead of overflowing. Whitespace
// is preserved.
func SplitLongWords(text string, n int) string {
	if n <= 0 || text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	run := 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			run = 0
			b.WriteRune(r)
			continue
		}
		if run == n {
			b.WriteString(ZeroWidthSpace)
			run = 0
		}
		b.WriteRune(r)
		run++
	}
	return b.String()
}
