package reflection

import (
	"fmt"

	"reflq/internal/model"
)

// Describe renders v for people: the printed type, or the kind and
// qualified name of a declaration.
func Describe(ctx Model, v Value) string {
	switch v.Kind() {
	case KindType:
		return "type " + ctx.TypeString(ctx.StripLocInfo(v.Type()), model.Policy{})
	case KindDeclaration:
		id := v.Decl()
		d := ctx.Decl(id)
		if d == nil {
			return v.String()
		}
		if d.Kind == model.DeclTranslationUnit {
			return "translation_unit ::"
		}
		name := ctx.QualifiedName(id)
		if _, ok := d.Identifier(); !ok && d.Kind.IsNamed() && d.NameKind == model.NameIdentifier {
			name += " (unnamed)"
		}
		return fmt.Sprintf("%s %s", d.Kind, name)
	case KindExpression:
		e := ctx.Expr(v.Expr())
		if e == nil {
			return v.String()
		}
		return fmt.Sprintf("expr %s %s", e.Kind, e.Category)
	case KindBaseSpecifier:
		b := ctx.Base(v.Base())
		if b == nil {
			return v.String()
		}
		return fmt.Sprintf("base %s of %s", ctx.TypeString(b.Type, model.Policy{}), ctx.QualifiedName(b.Owner))
	}
	return "invalid"
}
