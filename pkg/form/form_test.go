package form_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/model"
)

func articleDescriptors() []model.Descriptor {
	return []model.Descriptor{
		model.Field{Kind: model.FieldKindText, Name: "title", MinLength: model.Limit(20), MaxLength: model.Limit(200)},
		model.Field{Kind: model.FieldKindTextarea, Name: "content", Required: true, MinLength: model.Limit(200)},
		model.Field{Kind: model.FieldKindText, Name: "category", Required: true, MinLength: model.Limit(3), MaxLength: model.Limit(100)},
		model.Field{Kind: model.FieldKindSelect, Name: "status", Options: []model.SelectOption{
			{Label: "Publish", Value: "Publish"},
			{Label: "Draft", Value: "Draft"},
			{Label: "Trash", Value: "Trash"},
		}},
	}
}

func articleInitial() model.Record {
	return model.Record{"title": "", "content": "", "category": "", "status": "Draft"}
}

func TestUseOutsideProvider(t *testing.T) {
	f := form.New(articleInitial())
	if _, err := f.Use(context.Background()); !errors.Is(err, form.ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if _, err := f.Bind(context.Background(), articleDescriptors()); !errors.Is(err, form.ErrNoProvider) {
		t.Fatalf("expected bind to fail without provider, got %v", err)
	}
}

func TestFormsAreIsolated(t *testing.T) {
	first := form.New(model.Record{"name": "a"})
	second := form.New(model.Record{"name": "b"})

	ctx, scopeA := first.Provide(context.Background())
	ctx, scopeB := second.Provide(ctx)
	defer scopeA.Unmount()
	defer scopeB.Unmount()

	scopeA.SetFormField("name", "changed")

	gotB, err := second.Use(ctx)
	if err != nil {
		t.Fatalf("use second: %v", err)
	}
	if gotB.Value("name") != "b" {
		t.Fatalf("second form saw first form's write: %v", gotB.Value("name"))
	}
	gotA := first.MustUse(ctx)
	if gotA != scopeA {
		t.Fatalf("reader returned a different scope for the first form")
	}
}

func TestMountsStartFromInitialRecord(t *testing.T) {
	f := form.New(articleInitial())
	_, one := f.Provide(context.Background())
	one.SetFormField("title", "edited")
	_, two := f.Provide(context.Background())
	if two.Value("title") != "" {
		t.Fatalf("second mount leaked state: %v", two.Value("title"))
	}
}

func TestBindValidatesOnMountAndChange(t *testing.T) {
	f := form.New(articleInitial())
	ctx, scope := f.Provide(context.Background())
	defer scope.Unmount()

	bindings, err := f.Bind(ctx, articleDescriptors())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	want := map[string]model.Validity{
		"title":    model.Invalid("Minimum 20 characters"),
		"content":  model.Invalid("This field is required"),
		"category": model.Invalid("This field is required"),
		"status":   model.Valid,
	}
	if diff := cmp.Diff(want, scope.Validations()); diff != "" {
		t.Fatalf("validations after bind mismatch (-want +got):\n%s", diff)
	}

	bindings[0].Change(strings.Repeat("a", 10))
	if got := bindings[0].Validity(); got.Message != "Minimum 20 characters" {
		t.Fatalf("expected min length message, got %+v", got)
	}

	bindings[0].Change(strings.Repeat("a", 25))
	if got := bindings[0].Validity(); !got.IsValid {
		t.Fatalf("expected valid title, got %+v", got)
	}
}

func TestBindRejectsShapeMismatch(t *testing.T) {
	f := form.New(model.Record{"title": ""})
	ctx, scope := f.Provide(context.Background())
	defer scope.Unmount()

	_, err := f.Bind(ctx, articleDescriptors())
	if !errors.Is(err, model.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestSubmitGatesOnValidations(t *testing.T) {
	f := form.New(articleInitial())
	ctx, scope := f.Provide(context.Background())
	defer scope.Unmount()

	bindings, err := f.Bind(ctx, articleDescriptors())
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	bindings[0].Change(strings.Repeat("t", 10))
	bindings[1].Change(strings.Repeat("c", 200))
	bindings[2].Change("news")

	called := false
	ran, err := f.Submit(ctx, func(context.Context, model.Record) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if ran || called {
		t.Fatalf("handler must not run with an invalid title")
	}
	if !scope.UI().SubmitTriggered {
		t.Fatalf("submit should set SubmitTriggered")
	}

	view, err := f.View(ctx)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	title := view.Fields[0]
	if !title.ShowError || title.Message != "Minimum 20 characters" {
		t.Fatalf("expected visible min length error, got %+v", title)
	}

	bindings[0].Change(strings.Repeat("t", 20))
	var got model.Record
	ran, err = f.Submit(ctx, func(_ context.Context, data model.Record) error {
		got = data
		return nil
	})
	if err != nil || !ran {
		t.Fatalf("expected handler to run, ran=%v err=%v", ran, err)
	}
	want := model.Record{
		"title":    strings.Repeat("t", 20),
		"content":  strings.Repeat("c", 200),
		"category": "news",
		"status":   "Draft",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted record mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitPropagatesHandlerError(t *testing.T) {
	f := form.New(model.Record{"note": ""})
	ctx, scope := f.Provide(context.Background())
	defer scope.Unmount()

	boom := errors.New("HTTP 500")
	ran, err := f.Submit(ctx, func(context.Context, model.Record) error { return boom })
	if !ran || !errors.Is(err, boom) {
		t.Fatalf("expected handler error, ran=%v err=%v", ran, err)
	}
}

func TestUnrecordedFieldsPassCheck(t *testing.T) {
	f := form.New(model.Record{"a": "", "b": ""})
	_, scope := f.Provide(context.Background())
	defer scope.Unmount()

	if !scope.CheckValidations() {
		t.Fatalf("empty validations should pass")
	}
	scope.SetFormValidation("a", model.Invalid("bad"))
	if scope.CheckValidations() {
		t.Fatalf("invalid entry should fail the check")
	}
}

func TestClearAndReset(t *testing.T) {
	f := form.New(model.Record{"title": "x", "age": float64(3)})
	_, scope := f.Provide(context.Background())
	defer scope.Unmount()

	scope.SetFormFields(map[string]any{"title": "changed", "age": float64(9), "unknown": true})
	scope.ClearFormData()
	if diff := cmp.Diff(model.Record{"title": "", "age": ""}, scope.Data()); diff != "" {
		t.Fatalf("clear mismatch (-want +got):\n%s", diff)
	}

	scope.ResetFormData()
	if diff := cmp.Diff(model.Record{"title": "x", "age": float64(3)}, scope.Data()); diff != "" {
		t.Fatalf("reset mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmountIgnoresLaterWrites(t *testing.T) {
	f := form.New(model.Record{"title": ""})
	_, scope := f.Provide(context.Background())
	scope.Unmount()

	scope.SetFormField("title", "late")
	scope.SetLoading(true)
	if scope.Value("title") != "" || scope.UI().IsLoading {
		t.Fatalf("disposed scope accepted writes")
	}
}

func TestParentCancellationDisposes(t *testing.T) {
	f := form.New(model.Record{"title": ""})
	parent, cancel := context.WithCancel(context.Background())
	_, scope := f.Provide(parent)
	cancel()

	<-scope.Context().Done()
	deadline := time.Now().Add(time.Second)
	for !scope.Disposed() {
		if time.Now().After(deadline) {
			t.Fatalf("scope should be disposed after parent cancellation")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCallbacks(t *testing.T) {
	var events []string
	field := model.Field{
		Kind: model.FieldKindText,
		Name: "name",
		OnChange: func(v any) {
			events = append(events, "change:"+v.(string))
		},
		OnFocus: func(any) { events = append(events, "focus") },
		OnBlur:  func(any) { events = append(events, "blur") },
		Masker: func(v any) any {
			return strings.ToUpper(v.(string))
		},
	}
	f := form.New(model.Record{"name": ""})
	ctx, scope := f.Provide(context.Background())
	defer scope.Unmount()

	bindings, err := f.Bind(ctx, []model.Descriptor{field})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	bindings[0].Focus()
	bindings[0].Change("ada")
	bindings[0].Blur()

	if diff := cmp.Diff([]string{"focus", "change:ADA", "blur"}, events); diff != "" {
		t.Fatalf("events mismatch (-want +got):\n%s", diff)
	}
	if scope.Value("name") != "ADA" {
		t.Fatalf("masker not applied: %v", scope.Value("name"))
	}
}
