package form

import (
	"context"

	"github.com/goliatone/go-article-admin/pkg/model"
)

// SubmitHandler receives a snapshot of the record once validation passed.
type SubmitHandler func(ctx context.Context, data model.Record) error

// Submit marks the scope as submit-triggered, so error messages become
// visible, then runs handler only if every recorded validity is valid at that
// instant. The returned bool reports whether the handler ran. There is no
// submit lock; concurrent submits each evaluate the gate independently.
func (f *Form) Submit(ctx context.Context, handler SubmitHandler) (bool, error) {
	scope, err := f.Use(ctx)
	if err != nil {
		return false, err
	}
	scope.SetSubmitTriggered(true)
	if !scope.CheckValidations() {
		return false, nil
	}
	if handler == nil {
		return true, nil
	}
	return true, handler(ctx, scope.Data())
}
