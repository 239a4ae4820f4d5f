// Package form is the form engine: a factory that, given an initial record,
// yields a provider (Provide), a reader (Use) and a renderer (Bind, Submit,
// View, Render) sharing one isolated scope per mount.
//
// A typical request handler mounts a scope, hydrates it, binds descriptors and
// renders:
//
//	ctx, scope := articleForm.Provide(r.Context())
//	defer scope.Unmount()
//	scope.SetFormFields(fetched)
//	if _, err := articleForm.Bind(ctx, descriptors); err != nil { ... }
//	_ = scope.AwaitOptions(ctx)
//	html, err := articleForm.Render(ctx, renderer, render.RenderOptions{Action: "/articles/new"})
//
// Validation runs through pkg/validation when a field is bound and whenever
// its value changes; Submit only calls its handler when every recorded
// validity is valid.
package form
