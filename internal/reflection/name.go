package reflection

import (
	"fmt"

	"reflq/internal/diag"
	"reflq/internal/model"
)

// GetName renders the entity's name and materializes it as a constant
// string. Types print with tag keywords suppressed; declarations need an
// identifier. get_display_name shares the renderer and differs only when
// Options.QualifiedDisplayNames is set.
func (r Reflection) GetName(q Query) (model.ConstString, error) {
	mustBand(q, BandName)
	if r.val.IsInvalid() {
		return model.ConstString{}, r.fail(q)
	}
	text, ok := r.renderName(q == GetDisplayName && r.opts.QualifiedDisplayNames)
	if !ok {
		return model.ConstString{}, r.fail(q)
	}
	s, err := r.ctx.MaterializeString(text)
	if err != nil {
		diag.ReportError(r.reporter, diag.ReflNotDefined, r.span,
			fmt.Sprintf("%s: name cannot be materialized", q)).Emit()
		return model.ConstString{}, fmt.Errorf("%s: %w", q, err)
	}
	return s, nil
}

func (r Reflection) renderName(qualified bool) (string, bool) {
	if r.val.IsType() {
		t := r.ctx.StripLocInfo(r.val.Type())
		return r.ctx.TypeString(t, model.Policy{SuppressTagKeyword: true}), true
	}
	id, d := r.reachableDecl()
	if d == nil {
		return "", false
	}
	if _, ok := d.Identifier(); !ok {
		return "", false
	}
	if qualified {
		return r.ctx.QualifiedName(id), true
	}
	return r.ctx.Name(id), true
}
