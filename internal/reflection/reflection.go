package reflection

import (
	"fmt"

	"reflq/internal/diag"
	"reflq/internal/source"
)

// Options tune presentation-only behavior of the name band.
type Options struct {
	// QualifiedDisplayNames makes get_display_name render scope-qualified
	// names. get_name is unaffected.
	QualifiedDisplayNames bool
}

// Reflection binds a Value to the model it was taken from, together with
// the location of the query and an optional diagnostic sink. It borrows
// the model and is cheap to copy.
type Reflection struct {
	ctx      Model
	val      Value
	span     source.Span
	reporter diag.Reporter
	opts     Options
}

// New wraps v for evaluation against ctx.
func New(ctx Model, v Value) Reflection {
	if ctx == nil {
		panic("reflection: nil model")
	}
	return Reflection{ctx: ctx, val: v}
}

// At records the source location of the query for diagnostics.
func (r Reflection) At(span source.Span) Reflection {
	r.span = span
	return r
}

// WithReporter attaches the diagnostic sink. Each failing call appends at
// most one diagnostic.
func (r Reflection) WithReporter(rep diag.Reporter) Reflection {
	r.reporter = rep
	return r
}

func (r Reflection) WithOptions(opts Options) Reflection {
	r.opts = opts
	return r
}

func (r Reflection) Value() Value      { return r.val }
func (r Reflection) Kind() Kind        { return r.val.Kind() }
func (r Reflection) Model() Model      { return r.ctx }
func (r Reflection) Span() source.Span { return r.span }

// derive keeps context, location and sink for a related value.
func (r Reflection) derive(v Value) Reflection {
	r.val = v
	return r
}

func (r Reflection) String() string {
	return fmt.Sprintf("reflection(%s)", r.val)
}
