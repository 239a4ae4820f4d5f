package components

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput            = "input"
	NameTextarea         = "textarea"
	NameSelect           = "select"
	NameAsyncSelect      = "async-select"
	NameAsyncMultiSelect = "async-multi-select"
	NameContainer        = "container"
)

