package form_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/goliatone/go-article-admin/pkg/form"
	"github.com/goliatone/go-article-admin/pkg/model"
)

func categoryOptions() []model.SelectOption {
	return []model.SelectOption{
		{Label: "News", Value: "news"},
		{Label: "Tech", Value: "tech"},
		{Label: "Life", Value: "life"},
	}
}

func staticFetcher(opts []model.SelectOption) model.OptionsFetcher {
	return func(context.Context) ([]model.SelectOption, error) {
		return opts, nil
	}
}

func mountAsync(t *testing.T, field model.Field, initial any) (context.Context, *form.Form, *form.Scope, *form.Binding) {
	t.Helper()
	f := form.New(model.Record{field.Name: initial})
	ctx, scope := f.Provide(context.Background())
	t.Cleanup(scope.Unmount)

	bindings, err := f.Bind(ctx, []model.Descriptor{field})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := scope.AwaitOptions(waitCtx); err != nil {
		t.Fatalf("await options: %v", err)
	}
	return ctx, f, scope, bindings[0]
}

func TestAsyncMultiSelectPartitionsDefaults(t *testing.T) {
	var changes [][]string
	field := model.Field{
		Kind:           model.FieldKindAsyncSelect,
		Name:           "categories",
		Multiple:       true,
		DefaultValue:   []string{"tech"},
		OptionsFetcher: staticFetcher(categoryOptions()),
		OnChange: func(v any) {
			changes = append(changes, v.([]string))
		},
	}
	_, _, scope, binding := mountAsync(t, field, []string{})

	state := binding.Options()
	if state.Loading {
		t.Fatalf("expected loading to be finished")
	}
	if diff := cmp.Diff([]model.SelectOption{{Label: "Tech", Value: "tech"}}, state.Chosen); diff != "" {
		t.Fatalf("chosen mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]model.SelectOption{{Label: "News", Value: "news"}, {Label: "Life", Value: "life"}}, state.Available); diff != "" {
		t.Fatalf("available mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tech"}, scope.Value("categories")); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([][]string{{"tech"}}, changes); diff != "" {
		t.Fatalf("onChange mismatch (-want +got):\n%s", diff)
	}
}

func TestAsyncMultiSelectChooseRespectsLimit(t *testing.T) {
	field := model.Field{
		Kind:           model.FieldKindAsyncSelect,
		Name:           "categories",
		Multiple:       true,
		MaxLength:      model.Limit(2),
		OptionsFetcher: staticFetcher(categoryOptions()),
	}
	_, _, scope, binding := mountAsync(t, field, []string{})

	if !binding.Choose("news") || !binding.Choose("life") {
		t.Fatalf("expected first two choices to succeed")
	}
	if binding.Choose("tech") {
		t.Fatalf("choose beyond MaxLength must be a no-op")
	}
	if !binding.AtLimit() {
		t.Fatalf("expected binding at limit")
	}
	if diff := cmp.Diff([]string{"news", "life"}, scope.Value("categories")); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}

	if !binding.Release("news") {
		t.Fatalf("release should succeed")
	}
	state := binding.Options()
	want := []model.SelectOption{{Label: "Tech", Value: "tech"}, {Label: "News", Value: "news"}}
	if diff := cmp.Diff(want, state.Available); diff != "" {
		t.Fatalf("released option should be appended (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"life"}, scope.Value("categories")); diff != "" {
		t.Fatalf("record mismatch (-want +got):\n%s", diff)
	}
}

func TestAsyncSingleSelectSeedsDefault(t *testing.T) {
	field := model.Field{
		Kind:           model.FieldKindAsyncSelect,
		Name:           "category",
		DefaultValue:   "life",
		OptionsFetcher: staticFetcher(categoryOptions()),
	}
	ctx, f, scope, _ := mountAsync(t, field, "")

	if scope.Value("category") != "life" {
		t.Fatalf("expected default seeded after load, got %v", scope.Value("category"))
	}
	view, err := f.View(ctx)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if len(view.Fields[0].Options) != 3 || !view.Fields[0].Options[2].Selected {
		t.Fatalf("expected seeded option selected: %+v", view.Fields[0].Options)
	}
}

func TestAsyncSelectFetchError(t *testing.T) {
	field := model.Field{
		Kind: model.FieldKindAsyncSelect,
		Name: "category",
		OptionsFetcher: func(context.Context) ([]model.SelectOption, error) {
			return nil, errors.New("HTTP 502")
		},
	}
	ctx, f, _, binding := mountAsync(t, field, "")

	if binding.Loading() {
		t.Fatalf("loading should end after a failed fetch")
	}
	view, err := f.View(ctx)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Fields[0].LoadError != form.MessageOptionsFailed {
		t.Fatalf("expected load error on view, got %+v", view.Fields[0])
	}
}

func TestAsyncSelectShowsLoadingWhileFetching(t *testing.T) {
	release := make(chan struct{})
	field := model.Field{
		Kind: model.FieldKindAsyncSelect,
		Name: "category",
		OptionsFetcher: func(ctx context.Context) ([]model.SelectOption, error) {
			select {
			case <-release:
				return categoryOptions(), nil
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		},
	}
	f := form.New(model.Record{"category": ""})
	ctx, scope := f.Provide(context.Background())
	defer scope.Unmount()

	if _, err := f.Bind(ctx, []model.Descriptor{field}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	view, err := f.View(ctx)
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if !view.Fields[0].Loading {
		t.Fatalf("expected loading placeholder while fetching")
	}
	close(release)
	if err := scope.AwaitOptions(ctx); err != nil {
		t.Fatalf("await: %v", err)
	}
}

func TestUnmountCancelsInFlightFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	field := model.Field{
		Kind:     model.FieldKindAsyncSelect,
		Name:     "categories",
		Multiple: true,
		OptionsFetcher: func(ctx context.Context) ([]model.SelectOption, error) {
			close(started)
			<-ctx.Done()
			return categoryOptions(), nil
		},
	}
	f := form.New(model.Record{"categories": []string{}})
	ctx, scope := f.Provide(context.Background())
	bindings, err := f.Bind(ctx, []model.Descriptor{field})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}

	<-started
	scope.Unmount()

	waitCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := scope.AwaitOptions(waitCtx); err != nil {
		t.Fatalf("loads did not settle after unmount: %v", err)
	}
	if state := bindings[0].Options(); len(state.Chosen)+len(state.Available) != 0 {
		t.Fatalf("results applied after unmount: %+v", state)
	}
	if diff := cmp.Diff([]string{}, scope.Value("categories")); diff != "" {
		t.Fatalf("record changed after unmount (-want +got):\n%s", diff)
	}
}

func TestAwaitOptionsDoesNotOutliveScope(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)
	field := model.Field{
		Kind:     model.FieldKindAsyncSelect,
		Name:     "categories",
		Multiple: true,
		OptionsFetcher: func(context.Context) ([]model.SelectOption, error) {
			close(started)
			<-release
			return categoryOptions(), nil
		},
	}
	f := form.New(model.Record{"categories": []string{}})
	ctx, scope := f.Provide(context.Background())
	if _, err := f.Bind(ctx, []model.Descriptor{field}); err != nil {
		t.Fatalf("bind: %v", err)
	}
	<-started

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	if err := scope.AwaitOptions(cancelled); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	waitErr := make(chan error, 1)
	go func() { waitErr <- scope.AwaitOptions(context.Background()) }()
	scope.Unmount()

	select {
	case err := <-waitErr:
		if err != nil {
			t.Fatalf("await after unmount: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("await still blocked after unmount")
	}
}

func TestAsyncMultiSelectFollowsRecordResets(t *testing.T) {
	field := model.Field{
		Kind:           model.FieldKindAsyncSelect,
		Name:           "categories",
		Multiple:       true,
		OptionsFetcher: staticFetcher(categoryOptions()),
	}
	_, _, scope, binding := mountAsync(t, field, []string{})

	if !binding.Choose("news") {
		t.Fatalf("choose should succeed")
	}
	scope.ResetFormData()
	state := binding.Options()
	if len(state.Chosen) != 0 {
		t.Fatalf("expected no chips after reset, got %+v", state.Chosen)
	}
	if diff := cmp.Diff(categoryOptions(), state.Available); diff != "" {
		t.Fatalf("available after reset (-want +got):\n%s", diff)
	}

	if !binding.Choose("life") {
		t.Fatalf("choose after reset should succeed")
	}
	scope.ClearFormData()
	if diff := cmp.Diff("", scope.Value("categories")); diff != "" {
		t.Fatalf("record after clear (-want +got):\n%s", diff)
	}
	if state := binding.Options(); len(state.Chosen) != 0 {
		t.Fatalf("expected no chips after clear, got %+v", state.Chosen)
	}

	scope.SetFormFields(map[string]any{"categories": []string{"tech", "news"}})
	want := []model.SelectOption{{Label: "News", Value: "news"}, {Label: "Tech", Value: "tech"}}
	if diff := cmp.Diff(want, binding.Options().Chosen); diff != "" {
		t.Fatalf("chosen after set (-want +got):\n%s", diff)
	}
}
