package reflection

import (
	"iter"

	"reflq/internal/model"
)

// Model is the read-only slice of the program model the engine consumes.
// It must stay stable for the duration of an evaluation.
type Model interface {
	TranslationUnit() model.DeclID
	Decl(id model.DeclID) *model.Decl
	Expr(id model.ExprID) *model.Expr
	Base(id model.BaseID) *model.BaseSpecifier
	Name(id model.DeclID) string
	QualifiedName(id model.DeclID) string

	CanonicalDecl(id model.DeclID) model.DeclID
	Definition(id model.DeclID) model.DeclID
	RedeclContext(ctx model.DeclID) model.DeclID
	ReturnType(id model.DeclID) model.TypeID
	Nothrow(id model.DeclID) bool

	Members(scope model.DeclID) iter.Seq[model.DeclID]
	Following(id model.DeclID) iter.Seq[model.DeclID]

	Type(id model.TypeID) (model.Type, bool)
	CanonicalType(id model.TypeID) model.TypeID
	CanonicalUnqualifiedType(id model.TypeID) model.TypeID
	StripLocInfo(id model.TypeID) model.TypeID
	TagDecl(id model.TypeID) model.DeclID
	TypeString(id model.TypeID, pol model.Policy) string

	MaterializeString(text string) (model.ConstString, error)
}

var _ Model = (*model.Program)(nil)
