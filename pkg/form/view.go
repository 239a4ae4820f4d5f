package form

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/goliatone/go-article-admin/pkg/model"
	"github.com/goliatone/go-article-admin/pkg/render"
	"github.com/goliatone/go-article-admin/pkg/validation"
)

// View snapshots the mounted scope into a renderer-facing FormView. Error
// messages are attached to every invalid field but only flagged for display
// once a submit has been attempted.
func (f *Form) View(ctx context.Context) (render.FormView, error) {
	scope, err := f.Use(ctx)
	if err != nil {
		return render.FormView{}, err
	}

	scope.mu.Lock()
	descriptors := scope.descriptors
	ui := scope.ui
	scope.mu.Unlock()

	if descriptors == nil {
		return render.FormView{}, errors.New("form: view requires bound descriptors")
	}

	used := make(map[string]int)
	view := render.FormView{ID: f.id, UI: ui}
	view.Fields = f.viewDescriptors(scope, descriptors, used)
	return view, nil
}

// Render snapshots the scope and hands it to renderer.
func (f *Form) Render(ctx context.Context, renderer render.FormRenderer, options render.RenderOptions) ([]byte, error) {
	if renderer == nil {
		return nil, errors.New("form: renderer is required")
	}
	view, err := f.View(ctx)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(ctx, view, options)
	if err != nil {
		return nil, fmt.Errorf("form: render %s: %w", renderer.Name(), err)
	}
	return out, nil
}

func (f *Form) viewDescriptors(scope *Scope, descriptors []model.Descriptor, used map[string]int) []render.FieldView {
	out := make([]render.FieldView, 0, len(descriptors))
	for _, descriptor := range descriptors {
		switch d := descriptor.(type) {
		case model.Container:
			out = append(out, render.FieldView{
				Container: true,
				Name:      d.Name,
				Component: "container",
				Children:  f.viewDescriptors(scope, d.Fields, used),
			})
		case model.Field:
			out = append(out, f.viewField(scope, d, used))
		}
	}
	return out
}

func (f *Form) viewField(scope *Scope, field model.Field, used map[string]int) render.FieldView {
	ui := scope.UI()
	value := scope.Value(field.Name)

	view := render.FieldView{
		Name:        field.Name,
		Kind:        string(field.Kind),
		Component:   componentFor(field),
		InputType:   field.InputType(),
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Required:    field.Required,
		Multiple:    field.IsMulti(),
		Disabled:    ui.Disabled,
		ReadOnly:    ui.ReadOnly,
	}
	if field.MinLength != nil {
		view.MinLength = *field.MinLength
	}
	if field.MaxLength != nil {
		view.MaxLength = *field.MaxLength
	}

	if view.Multiple {
		view.Values = asStrings(value)
	} else {
		view.Value = validation.Stringify(value)
	}

	if validity, ok := scope.Validation(field.Name); ok && !validity.IsValid {
		view.Invalid = true
		view.Message = validity.Message
		view.ShowError = ui.SubmitTriggered
	}

	binding := nthBinding(scope, field.Name, used[field.Name])
	used[field.Name]++

	switch field.Kind {
	case model.FieldKindSelect:
		view.Options = optionViews(field.Options, view.Value, view.Values)
	case model.FieldKindAsyncSelect:
		if binding == nil {
			break
		}
		state := binding.Options()
		view.Loading = state.Loading
		if state.Err != nil {
			view.LoadError = MessageOptionsFailed
		}
		if view.Multiple {
			view.Chosen = state.Chosen
			view.Available = state.Available
			view.AtLimit = binding.AtLimit()
		} else {
			view.Options = optionViews(state.Available, view.Value, nil)
		}
	}
	return view
}

func nthBinding(scope *Scope, name string, n int) *Binding {
	for _, b := range scope.Bindings() {
		if b.field.Name != name {
			continue
		}
		if n == 0 {
			return b
		}
		n--
	}
	return nil
}

func componentFor(field model.Field) string {
	switch field.Kind {
	case model.FieldKindSelect:
		return "select"
	case model.FieldKindAsyncSelect:
		if field.Multiple {
			return "async-multi-select"
		}
		return "async-select"
	case model.FieldKindTextarea:
		return "textarea"
	default:
		return "input"
	}
}

func optionViews(options []model.SelectOption, value string, values []string) []render.OptionView {
	out := make([]render.OptionView, 0, len(options))
	for _, opt := range options {
		out = append(out, render.OptionView{
			Label:    opt.Label,
			Value:    opt.Value,
			Selected: opt.Value == value || slices.Contains(values, opt.Value),
		})
	}
	return out
}
