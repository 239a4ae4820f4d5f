package table

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/validation"
)

const (
	// DefaultPageSize is used for internal pagination when no size is set.
	DefaultPageSize = 10
	// DefaultSearchPlaceholder labels the search box.
	DefaultSearchPlaceholder = "Search..."
	// EmptyText is shown when no rows survive filtering.
	EmptyText = "No results."
	// FlexibleWidth is the grid track used by columns without a fixed width.
	FlexibleWidth = "minmax(0, 1fr)"
)

// Column describes one table column over rows of type T.
type Column[T any] struct {
	ID     string
	Header string
	// Value feeds sorting, filtering and the default cell text.
	Value func(T) any
	// Cell overrides the plain-text rendering of Value.
	Cell func(T) string
	// HTML produces rich cell markup; renderers sanitize it before output.
	HTML     func(T) string
	Width    int
	Sortable bool
	Hideable bool
}

// SortState is the active sort; an empty Column means unsorted.
type SortState struct {
	Column string
	Desc   bool
}

// Table is a filterable, sortable, paginated view over one slice of rows.
// Sorting and filtering only ever see the rows handed to the table, never a
// remote result set. A Table is not safe for concurrent use.
type Table[T any] struct {
	columns []Column[T]
	data    []T
	rowID   func(int, T) string

	searchColumn      string
	searchPlaceholder string
	filter            string
	sort              SortState

	pageSize  int
	pageIndex int
	manual    bool
	pageCount int
	onPage    func(int)

	selectable  bool
	selection   map[string]bool
	onSelection func(map[string]bool)

	hidden    map[string]bool
	lineClamp int
	emptyText string
}

// Option configures a Table.
type Option[T any] func(*Table[T])

// WithSearch enables the single-column filter.
func WithSearch[T any](columnID, placeholder string) Option[T] {
	return func(t *Table[T]) {
		t.searchColumn = columnID
		if placeholder != "" {
			t.searchPlaceholder = placeholder
		}
	}
}

// WithPageSize sets the internal page size.
func WithPageSize[T any](size int) Option[T] {
	return func(t *Table[T]) {
		if size > 0 {
			t.pageSize = size
		}
	}
}

// WithManualPagination hands paging to the caller: the table never slices its
// data, and page moves are reported through onChange instead of applied.
func WithManualPagination[T any](pageIndex, pageCount int, onChange func(int)) Option[T] {
	return func(t *Table[T]) {
		t.manual = true
		t.pageIndex = max(pageIndex, 0)
		t.pageCount = max(pageCount, 0)
		t.onPage = onChange
	}
}

// WithInitialSort sets the starting sort.
func WithInitialSort[T any](column string, desc bool) Option[T] {
	return func(t *Table[T]) {
		t.sort = SortState{Column: column, Desc: desc}
	}
}

// WithRowID derives stable row ids. Without it rows are keyed by index.
func WithRowID[T any](fn func(T) string) Option[T] {
	return func(t *Table[T]) {
		if fn != nil {
			t.rowID = func(_ int, row T) string { return fn(row) }
		}
	}
}

// WithSelection enables row selection.
func WithSelection[T any]() Option[T] {
	return func(t *Table[T]) {
		t.selectable = true
	}
}

// WithDelegatedSelection enables row selection owned by the caller: state
// seeds the selection and onChange receives every new selection, including
// the reset performed by SetData.
func WithDelegatedSelection[T any](state map[string]bool, onChange func(map[string]bool)) Option[T] {
	return func(t *Table[T]) {
		t.selectable = true
		t.selection = cloneSelection(state)
		t.onSelection = onChange
	}
}

// WithHiddenColumns hides the named columns initially.
func WithHiddenColumns[T any](ids ...string) Option[T] {
	return func(t *Table[T]) {
		for _, id := range ids {
			t.hidden[id] = true
		}
	}
}

// WithLineClamp clamps cell text to n lines; 0 disables clamping.
func WithLineClamp[T any](n int) Option[T] {
	return func(t *Table[T]) {
		t.lineClamp = max(n, 0)
	}
}

// WithEmptyText overrides the "No results." message.
func WithEmptyText[T any](text string) Option[T] {
	return func(t *Table[T]) {
		if text != "" {
			t.emptyText = text
		}
	}
}

// New builds a table over data.
func New[T any](columns []Column[T], data []T, opts ...Option[T]) *Table[T] {
	t := &Table[T]{
		columns:           slices.Clone(columns),
		data:              data,
		rowID:             func(i int, _ T) string { return strconv.Itoa(i) },
		searchPlaceholder: DefaultSearchPlaceholder,
		pageSize:          DefaultPageSize,
		selection:         map[string]bool{},
		hidden:            map[string]bool{},
		emptyText:         EmptyText,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// SetData swaps the rows. Selection never survives a swap, and internal
// pagination returns to the first page.
func (t *Table[T]) SetData(data []T) {
	t.data = data
	if !t.manual {
		t.pageIndex = 0
	}
	t.setSelection(map[string]bool{})
}

// SetPagination updates caller-owned paging state.
func (t *Table[T]) SetPagination(pageIndex, pageCount int) {
	t.pageIndex = max(pageIndex, 0)
	t.pageCount = max(pageCount, 0)
}

// SetFilter sets the search text. Internal pagination returns to page one.
func (t *Table[T]) SetFilter(text string) {
	t.filter = text
	if !t.manual {
		t.pageIndex = 0
	}
}

// Filter returns the current search text.
func (t *Table[T]) Filter() string {
	return t.filter
}

// Sort returns the active sort.
func (t *Table[T]) Sort() SortState {
	return t.sort
}

// SetSort sets the sort explicitly. Unknown or unsortable columns clear it.
func (t *Table[T]) SetSort(column string, desc bool) {
	col, ok := t.column(column)
	if !ok || !col.Sortable {
		t.sort = SortState{}
		return
	}
	t.sort = SortState{Column: column, Desc: desc}
}

// ToggleSort sorts by column ascending, or flips direction when the column is
// already sorted.
func (t *Table[T]) ToggleSort(column string) {
	desc := t.sort.Column == column && !t.sort.Desc
	t.SetSort(column, desc)
}

// ToggleColumn flips the visibility of a hideable column.
func (t *Table[T]) ToggleColumn(id string) {
	col, ok := t.column(id)
	if !ok || !col.Hideable {
		return
	}
	t.hidden[id] = !t.hidden[id]
}

// ColumnVisible reports whether a column is shown.
func (t *Table[T]) ColumnVisible(id string) bool {
	return !t.hidden[id]
}

// PageIndex returns the current zero-based page.
func (t *Table[T]) PageIndex() int {
	return t.pageIndex
}

// PageCount returns the number of pages. Internal pagination derives it from
// the filtered rows; manual pagination returns the caller's value.
func (t *Table[T]) PageCount() int {
	if t.manual {
		return t.pageCount
	}
	n := len(t.filtered())
	return (n + t.pageSize - 1) / t.pageSize
}

// CanPrev reports whether a previous page exists.
func (t *Table[T]) CanPrev() bool {
	return t.pageIndex > 0
}

// CanNext reports whether a next page exists.
func (t *Table[T]) CanNext() bool {
	return t.pageIndex+1 < t.PageCount()
}

// NextPage advances one page when possible.
func (t *Table[T]) NextPage() {
	if t.CanNext() {
		t.gotoPage(t.pageIndex + 1)
	}
}

// PrevPage goes back one page when possible.
func (t *Table[T]) PrevPage() {
	if t.CanPrev() {
		t.gotoPage(t.pageIndex - 1)
	}
}

func (t *Table[T]) gotoPage(index int) {
	if t.manual {
		if t.onPage != nil {
			t.onPage(index)
		}
		return
	}
	t.pageIndex = index
}

// ToggleRow flips the selection of one row.
func (t *Table[T]) ToggleRow(id string) {
	if !t.selectable {
		return
	}
	next := cloneSelection(t.selection)
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	t.setSelection(next)
}

// SelectPage selects or clears every row on the current page.
func (t *Table[T]) SelectPage(selected bool) {
	if !t.selectable {
		return
	}
	next := cloneSelection(t.selection)
	for _, r := range t.page() {
		if selected {
			next[r.id] = true
		} else {
			delete(next, r.id)
		}
	}
	t.setSelection(next)
}

// Selected returns the selected row ids in sorted order.
func (t *Table[T]) Selected() []string {
	ids := make([]string, 0, len(t.selection))
	for id, ok := range t.selection {
		if ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (t *Table[T]) setSelection(next map[string]bool) {
	t.selection = next
	if t.onSelection != nil {
		t.onSelection(cloneSelection(next))
	}
}

// Rows returns the rows of the current page after filtering and sorting.
func (t *Table[T]) Rows() []T {
	page := t.page()
	out := make([]T, len(page))
	for i, r := range page {
		out[i] = r.value
	}
	return out
}

type row[T any] struct {
	id    string
	value T
}

func (t *Table[T]) filtered() []row[T] {
	rows := make([]row[T], 0, len(t.data))
	needle := strings.ToLower(strings.TrimSpace(t.filter))
	col, searchable := t.column(t.searchColumn)
	for i, value := range t.data {
		if needle != "" && searchable {
			text := strings.ToLower(t.text(col, value))
			if !strings.Contains(text, needle) {
				continue
			}
		}
		rows = append(rows, row[T]{id: t.rowID(i, value), value: value})
	}
	if col, ok := t.column(t.sort.Column); ok && col.Sortable && col.Value != nil {
		slices.SortStableFunc(rows, func(a, b row[T]) int {
			c := compareValues(col.Value(a.value), col.Value(b.value))
			if t.sort.Desc {
				return -c
			}
			return c
		})
	}
	return rows
}

func (t *Table[T]) page() []row[T] {
	rows := t.filtered()
	if t.manual {
		return rows
	}
	start := t.pageIndex * t.pageSize
	if start >= len(rows) {
		return nil
	}
	return rows[start:min(start+t.pageSize, len(rows))]
}

func (t *Table[T]) column(id string) (Column[T], bool) {
	if id == "" {
		return Column[T]{}, false
	}
	for _, col := range t.columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column[T]{}, false
}

func (t *Table[T]) text(col Column[T], value T) string {
	if col.Cell != nil {
		return col.Cell(value)
	}
	if col.Value != nil {
		return validation.Stringify(col.Value(value))
	}
	return ""
}

// View snapshots the table for renderers.
func (t *Table[T]) View() render.TableView {
	filtered := t.filtered()
	page := t.page()

	view := render.TableView{
		LineClamp:         t.lineClamp,
		SearchColumn:      t.searchColumn,
		SearchPlaceholder: t.searchPlaceholder,
		Filter:            t.filter,
		SortColumn:        t.sort.Column,
		SortDesc:          t.sort.Desc,
		Manual:            t.manual,
		PageIndex:         t.pageIndex,
		PageCount:         t.PageCount(),
		CanPrev:           t.CanPrev(),
		CanNext:           t.CanNext(),
		Selectable:        t.selectable,
		FilteredCount:     len(filtered),
		Empty:             len(page) == 0,
		EmptyText:         t.emptyText,
	}

	var tracks []string
	var visible []Column[T]
	for _, col := range t.columns {
		cv := render.ColumnView{
			ID:       col.ID,
			Header:   col.Header,
			Sortable: col.Sortable,
			Hideable: col.Hideable,
			Visible:  !t.hidden[col.ID],
		}
		if col.Width > 0 {
			cv.Width = fmt.Sprintf("%dpx", col.Width)
		}
		if t.sort.Column == col.ID && col.Sortable {
			cv.Sorted = "asc"
			if t.sort.Desc {
				cv.Sorted = "desc"
			}
		}
		view.Columns = append(view.Columns, cv)
		if !cv.Visible {
			continue
		}
		visible = append(visible, col)
		if cv.Width != "" {
			tracks = append(tracks, cv.Width)
		} else {
			tracks = append(tracks, FlexibleWidth)
		}
	}
	view.GridTemplate = strings.Join(tracks, " ")

	for _, r := range filtered {
		if t.selection[r.id] {
			view.SelectedCount++
		}
	}
	view.SelectionText = fmt.Sprintf("%d of %d row(s) selected.", view.SelectedCount, view.FilteredCount)

	for _, r := range page {
		rv := render.RowView{ID: r.id, Selected: t.selection[r.id]}
		for _, col := range visible {
			cell := render.CellView{Column: col.ID, Text: t.text(col, r.value)}
			if col.HTML != nil {
				cell.HTML = col.HTML(r.value)
			}
			rv.Cells = append(rv.Cells, cell)
		}
		view.Rows = append(view.Rows, rv)
	}
	return view
}

func cloneSelection(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		if v {
			out[k] = true
		}
	}
	return out
}
