package script

import (
	"fmt"
	"strings"

	"reflq/internal/diag"
	"reflq/internal/model"
	"reflq/internal/reflection"
	"reflq/internal/typeexpr"
)

// Runner evaluates statements against one program. Type operands that are
// not already in the program are interned into its type table, so a
// Runner must not share its program with another goroutine.
type Runner struct {
	Program  *model.Program
	Reporter diag.Reporter
	Options  reflection.Options
}

// Resolve turns a written operand into a reflection operand. Failures are
// reported as ScrUnresolvedOperand.
func (rn *Runner) Resolve(op Operand) (reflection.Operand, bool) {
	res, err := rn.resolve(op)
	if err != nil {
		diag.ReportError(rn.Reporter, diag.ScrUnresolvedOperand, op.Span,
			fmt.Sprintf("%s: %v", op, err)).Emit()
		return reflection.Operand{}, false
	}
	return res, true
}

func (rn *Runner) resolve(op Operand) (reflection.Operand, error) {
	p := rn.Program
	switch op.Prefix {
	case PrefixType:
		id, err := rn.resolveType(op.Text)
		if err != nil {
			return reflection.Operand{}, err
		}
		return reflection.TypeOperand(id), nil
	case PrefixDecl:
		id, ok := p.LookupDecl(op.Text)
		if !ok {
			return reflection.Operand{}, errNoEntity("declaration")
		}
		return reflection.DeclOperand(id), nil
	case PrefixExpr:
		id, ok := p.LookupExpr(op.Text)
		if !ok {
			return reflection.Operand{}, errNoEntity("expression")
		}
		return reflection.ExprOperand(id), nil
	case PrefixBase:
		id, ok := p.LookupBase(op.Text)
		if !ok {
			return reflection.Operand{}, errNoEntity("base specifier")
		}
		return reflection.BaseOperand(id), nil
	case PrefixNamespace:
		return rn.resolveNamespace(op.Text)
	case PrefixTemplate:
		id, ok := p.LookupDecl(op.Text)
		if !ok {
			return reflection.Operand{}, errNoEntity("template")
		}
		if d := p.Decl(id); !d.Kind.IsTemplate() {
			return reflection.Operand{}, fmt.Errorf("%s is not a template", d.Kind)
		}
		return reflection.TemplateOperand(id), nil
	case PrefixInvalid:
		if op.Text == "" {
			return reflection.InvalidOperand(nil), nil
		}
		id, ok := p.LookupExpr(op.Text)
		if !ok {
			return reflection.Operand{}, errNoEntity("expression")
		}
		return reflection.InvalidOperand(&reflection.InvalidReflection{ErrorMessage: id}), nil
	}
	return reflection.Operand{}, fmt.Errorf("unknown operand kind %d", op.Prefix)
}

func errNoEntity(what string) error { return fmt.Errorf("no such %s", what) }

func (rn *Runner) resolveType(text string) (model.TypeID, error) {
	p := rn.Program
	if id, ok := p.LookupType(text); ok {
		return id, nil
	}
	return typeexpr.ParseAndResolve(text, p.Types, func(name string) (model.TypeID, bool) {
		if id, ok := p.LookupType(name); ok {
			return id, true
		}
		id, ok := p.LookupDecl(name)
		if !ok {
			return model.NoTypeID, false
		}
		d := p.Decl(id)
		if !d.Kind.IsType() {
			return model.NoTypeID, false
		}
		return d.Type, true
	})
}

// resolveNamespace accepts namespaces, namespace aliases and the global
// scope. Enclosing namespaces written in the path become the qualifier.
func (rn *Runner) resolveNamespace(text string) (reflection.Operand, error) {
	p := rn.Program
	id, ok := p.LookupDecl(text)
	if !ok {
		return reflection.Operand{}, errNoEntity("namespace")
	}
	switch kind := p.Decl(id).Kind; kind {
	case model.DeclNamespace, model.DeclNamespaceAlias, model.DeclTranslationUnit:
	default:
		return reflection.Operand{}, fmt.Errorf("%s is not a namespace", kind)
	}
	var qualifier []model.DeclID
	if text != "::" {
		if strings.HasPrefix(text, "::") {
			qualifier = append(qualifier, p.TranslationUnit())
		}
		parts := strings.Split(strings.TrimPrefix(text, "::"), "::")
		for i := 1; i < len(parts); i++ {
			scope, ok := p.LookupDecl(strings.Join(parts[:i], "::"))
			if !ok {
				return reflection.Operand{}, fmt.Errorf("no such namespace %s", strings.Join(parts[:i], "::"))
			}
			qualifier = append(qualifier, scope)
		}
	}
	return reflection.NamespaceOperand(reflection.NewQualifiedNamespaceName(id, qualifier)), nil
}
