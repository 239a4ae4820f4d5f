package tui

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-article-admin/pkg/render"
)

// TableRenderer prints a table snapshot as aligned terminal text.
type TableRenderer struct {
	styles   Styles
	maxWidth int
}

var _ render.TableRenderer = (*TableRenderer)(nil)

// NewTable constructs a terminal table renderer. Cells wider than maxWidth
// are cut with an ellipsis; zero disables the limit.
func NewTable(styles Styles, maxWidth int) *TableRenderer {
	return &TableRenderer{styles: styles, maxWidth: maxWidth}
}

func (t *TableRenderer) Name() string {
	return "tui"
}

func (t *TableRenderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// RenderTable writes the visible columns, the rows, and a footer with the
// selection summary and page position.
func (t *TableRenderer) RenderTable(ctx context.Context, table render.TableView, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var headers []string
	for _, col := range table.Columns {
		if col.Visible {
			header := col.Header
			switch col.Sorted {
			case "asc":
				header += " ↑"
			case "desc":
				header += " ↓"
			}
			headers = append(headers, header)
		}
	}

	rows := make([][]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]string, 0, len(row.Cells))
		for _, cell := range row.Cells {
			cells = append(cells, t.clip(cellText(cell)))
		}
		rows = append(rows, cells)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cell))
			}
		}
	}

	var sb strings.Builder
	sep := t.styles.Muted.Render("│")
	writeLine := func(cells []string, style lipgloss.Style) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			// padding is included in the width
			parts[i] = style.Width(widths[i] + 2).Render(cell)
		}
		sb.WriteString(strings.TrimRight(strings.Join(parts, sep), " "))
		sb.WriteString("\n")
	}

	writeLine(headers, t.styles.Header)
	total := len(widths) - 1
	for _, w := range widths {
		total += w + 2
	}
	sb.WriteString(t.styles.Muted.Render(strings.Repeat("─", max(total, 0))))
	sb.WriteString("\n")

	if len(rows) == 0 {
		sb.WriteString(t.styles.Muted.Render(table.EmptyText))
		sb.WriteString("\n")
	}
	for _, row := range rows {
		writeLine(row, t.styles.Cell)
	}

	footer := table.SelectionText
	if table.PageCount > 0 {
		footer = strings.TrimSpace(fmt.Sprintf("%s  Page %d of %d", footer, table.PageIndex+1, table.PageCount))
	}
	if footer != "" {
		sb.WriteString(t.styles.Muted.Render(footer))
		sb.WriteString("\n")
	}
	return []byte(sb.String()), nil
}

func (t *TableRenderer) clip(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	if t.maxWidth <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= t.maxWidth {
		return text
	}
	return string(runes[:max(t.maxWidth-1, 0)]) + "…"
}

var strict = bluemonday.StrictPolicy()

// cellText prefers plain text; HTML cells fall back to their tag-stripped text.
func cellText(cell render.CellView) string {
	if cell.Text != "" || cell.HTML == "" {
		return cell.Text
	}
	return html.UnescapeString(strict.Sanitize(cell.HTML))
}
