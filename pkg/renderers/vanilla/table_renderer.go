package vanilla

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-article-admin/pkg/render"
)

// Query parameters the table links read and write.
const (
	ParamFilter = "q"
	ParamSort   = "sort"
	ParamDir    = "dir"
	ParamHide   = "hide"
	ParamPage   = "page"
	ParamLimit  = "limit"
	ParamOffset = "offset"
)

// RenderTable writes the table as an HTML fragment. Rich cells are sanitized
// before output. Page links use offset/limit when options.Query carries a
// limit, and a zero-based page index otherwise.
func (r *Renderer) RenderTable(_ context.Context, table render.TableView, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	links := tableLinks{base: options.BaseURL, query: options.Query}
	grid := table.GridTemplate
	if table.Selectable {
		grid = strings.TrimSpace("40px " + grid)
	}

	var headers []map[string]any
	var toggles []map[string]any
	for _, col := range table.Columns {
		if col.Hideable {
			toggles = append(toggles, map[string]any{
				"id":      col.ID,
				"header":  col.Header,
				"visible": col.Visible,
				"href":    links.with(map[string]string{ParamHide: toggleHidden(options.Query[ParamHide], col.ID)}),
			})
		}
		if !col.Visible {
			continue
		}
		header := map[string]any{
			"id":       col.ID,
			"header":   col.Header,
			"sortable": col.Sortable,
			"sorted":   col.Sorted,
		}
		if col.Sortable {
			dir := "asc"
			if col.Sorted == "asc" {
				dir = "desc"
			}
			header["href"] = links.with(map[string]string{ParamSort: col.ID, ParamDir: dir})
		}
		headers = append(headers, header)
	}

	rows := make([]map[string]any, 0, len(table.Rows))
	for _, row := range table.Rows {
		cells := make([]map[string]any, 0, len(row.Cells))
		for _, cell := range row.Cells {
			entry := map[string]any{"column": cell.Column, "text": cell.Text}
			if cell.HTML != "" {
				entry["html"] = r.policy.Sanitize(cell.HTML)
			}
			cells = append(cells, entry)
		}
		rows = append(rows, map[string]any{"id": row.ID, "selected": row.Selected, "cells": cells})
	}

	data := map[string]any{
		"table":     table,
		"grid":      grid,
		"headers":   headers,
		"toggles":   toggles,
		"rows":      rows,
		"clamp":     "",
		"action":    options.BaseURL,
		"preserved": hiddenInputs(without(options.Query, ParamFilter, ParamOffset, ParamPage)),
		"prevHref":  "",
		"nextHref":  "",
		"pageLabel": fmt.Sprintf("Page %d", table.PageIndex+1),
	}
	if table.LineClamp > 0 {
		data["clamp"] = strconv.Itoa(table.LineClamp)
	}
	if table.CanPrev {
		data["prevHref"] = links.page(table.PageIndex - 1)
	}
	if table.CanNext {
		data["nextHref"] = links.page(table.PageIndex + 1)
	}

	result, err := r.templates.RenderTemplate("templates/table.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render table: %w", err)
	}
	return []byte(result), nil
}

type tableLinks struct {
	base  string
	query map[string]string
}

// with returns base?query with overrides applied; empty overrides drop keys.
func (l tableLinks) with(overrides map[string]string) string {
	values := url.Values{}
	for key, value := range l.query {
		if value != "" {
			values.Set(key, value)
		}
	}
	for key, value := range overrides {
		if value == "" {
			values.Del(key)
			continue
		}
		values.Set(key, value)
	}
	encoded := values.Encode()
	if encoded == "" {
		return l.base
	}
	return l.base + "?" + encoded
}

func (l tableLinks) page(index int) string {
	index = max(index, 0)
	if limit, err := strconv.Atoi(l.query[ParamLimit]); err == nil && limit > 0 {
		return l.with(map[string]string{ParamOffset: strconv.Itoa(index * limit)})
	}
	return l.with(map[string]string{ParamPage: strconv.Itoa(index)})
}

func toggleHidden(current, id string) string {
	var ids []string
	for _, part := range strings.Split(current, ",") {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, part)
		}
	}
	if idx := slices.Index(ids, id); idx >= 0 {
		ids = slices.Delete(ids, idx, idx+1)
	} else {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return strings.Join(ids, ",")
}

func without(query map[string]string, keys ...string) map[string]string {
	out := make(map[string]string, len(query))
	for key, value := range query {
		if value == "" || slices.Contains(keys, key) {
			continue
		}
		out[key] = value
	}
	return out
}
