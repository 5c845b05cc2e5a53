package model

type (
	// TypeID identifies an interned type. Zero is the null type.
	TypeID uint32
	// DeclID identifies a declaration. Zero means no declaration.
	DeclID uint32
	// ExprID identifies an expression node.
	ExprID uint32
	// BaseID identifies a base-class specifier.
	BaseID uint32
)

const (
	NoTypeID TypeID = 0
	NoDeclID DeclID = 0
	NoExprID ExprID = 0
	NoBaseID BaseID = 0
)

func (id TypeID) IsValid() bool { return id != NoTypeID }
func (id DeclID) IsValid() bool { return id != NoDeclID }
func (id ExprID) IsValid() bool { return id != NoExprID }
func (id BaseID) IsValid() bool { return id != NoBaseID }
