package ast

import (
	"github.com/funvibe/dynexpr/internal/typesystem"
)

// ExpressionType identifies the kind of an expression node.
type ExpressionType int

const (
	Constant ExpressionType = iota
	Default
	Parameter
	MemberAccess
	Dynamic
	Label
	DebugInfo
)

var expressionTypeNames = [...]string{
	Constant:     "Constant",
	Default:      "Default",
	Parameter:    "Parameter",
	MemberAccess: "MemberAccess",
	Dynamic:      "Dynamic",
	Label:        "Label",
	DebugInfo:    "DebugInfo",
}

func (t ExpressionType) String() string {
	if t < 0 || int(t) >= len(expressionTypeNames) {
		return "Unknown"
	}
	return expressionTypeNames[t]
}

// Expression is a node of an expression tree. Nodes are immutable once
// built and may be shared between goroutines.
type Expression interface {
	NodeType() ExpressionType
	// Type is the static type of the value the node produces.
	Type() *typesystem.Type
	// Accept dispatches to the matching Visit method and returns its result.
	Accept(v Visitor) (Expression, error)
}

// requiresCanRead rejects nil or untyped expressions and those whose value
// cannot be read, such as a write-only property.
func requiresCanRead(e Expression, param string, index int) error {
	if e == nil || e.Type() == nil {
		return newArgumentError(param, index, ErrArgumentNil)
	}
	if m, ok := e.(*MemberExpression); ok {
		if p, ok := m.member.(*typesystem.Property); ok && !p.CanRead {
			return newArgumentError(param, index, ErrExpressionMustBeReadable)
		}
	}
	return nil
}

// validateType rejects open generic types. By-ref types are only accepted
// when allowByRef is set.
func validateType(t *typesystem.Type, param string, allowByRef bool) error {
	if t == nil {
		return newArgumentError(param, -1, ErrArgumentNil)
	}
	if err := typesystem.ValidateType(t); err != nil {
		return newArgumentError(param, -1, err)
	}
	if !allowByRef && t.IsByRef() {
		return newArgumentError(param, -1, ErrTypeMustNotBeByRef)
	}
	return nil
}
