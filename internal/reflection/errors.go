package reflection

import (
	"errors"
	"fmt"

	"reflq/internal/diag"
	"reflq/internal/model"
)

var (
	// ErrNotReflectable reports a query that does not apply to the entity.
	ErrNotReflectable = errors.New("entity is not reflectable")
	// ErrUnimplemented reports a catalogued query with no evaluator yet.
	ErrUnimplemented = errors.New("reflection query not implemented")
	// ErrNoAttribute reports a failed attribute lookup.
	ErrNoAttribute = errors.New("no matching attribute")
)

// fail records one "not defined" diagnostic and returns ErrNotReflectable.
// Type reflections name the offending type.
func (r Reflection) fail(q Query) error {
	msg := fmt.Sprintf("%s: reflected entity is not defined", q)
	if r.val.IsType() {
		t := r.ctx.StripLocInfo(r.val.Type())
		msg = fmt.Sprintf("%s: reflected type '%s' is not defined", q,
			r.ctx.TypeString(t, model.Policy{}))
	}
	diag.ReportError(r.reporter, diag.ReflNotDefined, r.span, msg).Emit()
	return fmt.Errorf("%s: %w", q, ErrNotReflectable)
}

func (r Reflection) unimplemented(q Query) error {
	diag.ReportError(r.reporter, diag.ReflQueryUnimplemented, r.span,
		fmt.Sprintf("reflection query %s is not implemented", q)).Emit()
	return fmt.Errorf("%s: %w", q, ErrUnimplemented)
}

func mustBand(q Query, want Band) {
	if q.Band() != want {
		panic(fmt.Sprintf("reflection: %s is not a %s query", q, want))
	}
}
