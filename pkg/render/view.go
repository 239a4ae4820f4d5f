package render

import "github.com/goliatone/go-article-admin/pkg/model"

// FormView is a renderer-facing snapshot of a mounted form scope. It holds
// plain data only so template engines can serialise it.
type FormView struct {
	ID     string        `json:"id"`
	UI     model.UIState `json:"ui"`
	Fields []FieldView   `json:"fields"`
}

// FieldView describes either a bound field or a flex container (Container set,
// Children populated).
type FieldView struct {
	Container bool        `json:"container,omitempty"`
	Children  []FieldView `json:"children,omitempty"`

	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	Component   string `json:"component,omitempty"`
	InputType   string `json:"inputType,omitempty"`
	Label       string `json:"label,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	Required    bool   `json:"required,omitempty"`
	MinLength   int    `json:"minLength,omitempty"`
	MaxLength   int    `json:"maxLength,omitempty"`
	Multiple    bool   `json:"multiple,omitempty"`

	// Value is the stringified record value; Values is set for multi selects.
	Value  string   `json:"value"`
	Values []string `json:"values,omitempty"`

	Options   []OptionView         `json:"options,omitempty"`
	Chosen    []model.SelectOption `json:"chosen,omitempty"`
	Available []model.SelectOption `json:"available,omitempty"`
	Loading   bool                 `json:"loading,omitempty"`
	LoadError string               `json:"loadError,omitempty"`
	AtLimit   bool                 `json:"atLimit,omitempty"`

	Invalid   bool   `json:"invalid,omitempty"`
	Message   string `json:"message,omitempty"`
	ShowError bool   `json:"showError,omitempty"`
	Disabled  bool   `json:"disabled,omitempty"`
	ReadOnly  bool   `json:"readOnly,omitempty"`
}

// OptionView is a select option with its selection state resolved.
type OptionView struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// Leaves returns the non-container views in order.
func (v FormView) Leaves() []FieldView {
	var out []FieldView
	var walk func([]FieldView)
	walk = func(fields []FieldView) {
		for _, field := range fields {
			if field.Container {
				walk(field.Children)
				continue
			}
			out = append(out, field)
		}
	}
	walk(v.Fields)
	return out
}

// TableView is a renderer-facing snapshot of a table presenter.
type TableView struct {
	Columns      []ColumnView `json:"columns"`
	Rows         []RowView    `json:"rows"`
	GridTemplate string       `json:"gridTemplate"`
	LineClamp    int          `json:"lineClamp,omitempty"`

	SearchColumn      string `json:"searchColumn,omitempty"`
	SearchPlaceholder string `json:"searchPlaceholder,omitempty"`
	Filter            string `json:"filter,omitempty"`

	SortColumn string `json:"sortColumn,omitempty"`
	SortDesc   bool   `json:"sortDesc,omitempty"`

	Manual    bool `json:"manual,omitempty"`
	PageIndex int  `json:"pageIndex"`
	PageCount int  `json:"pageCount"`
	CanPrev   bool `json:"canPrev"`
	CanNext   bool `json:"canNext"`

	Selectable    bool   `json:"selectable,omitempty"`
	SelectedCount int    `json:"selectedCount"`
	FilteredCount int    `json:"filteredCount"`
	SelectionText string `json:"selectionText"`
	Empty         bool   `json:"empty"`
	EmptyText     string `json:"emptyText"`
}

// ColumnView describes a visible column header.
type ColumnView struct {
	ID       string `json:"id"`
	Header   string `json:"header"`
	Width    string `json:"width,omitempty"`
	Sortable bool   `json:"sortable,omitempty"`
	Sorted   string `json:"sorted,omitempty"`
	Hideable bool   `json:"hideable,omitempty"`
	Visible  bool   `json:"visible"`
}

// RowView is one rendered row; cells follow the visible column order.
type RowView struct {
	ID       string     `json:"id"`
	Selected bool       `json:"selected,omitempty"`
	Cells    []CellView `json:"cells"`
}

// CellView carries either plain text or HTML that renderers must sanitize.
type CellView struct {
	Column string `json:"column"`
	Text   string `json:"text"`
	HTML   string `json:"html,omitempty"`
}
