package ast

import (
	"github.com/funvibe/dynexpr/internal/typesystem"
)

// ParameterExpression names a parameter or local variable. Two parameters
// are the same only if they are the same node.
type ParameterExpression struct {
	name  string
	typ   *typesystem.Type
	byRef bool
}

// NewParameter creates a parameter of type t. A by-ref t yields a by-ref
// parameter of the element type.
func NewParameter(t *typesystem.Type, name string) (*ParameterExpression, error) {
	return MakeParameter(t, name, false)
}

// Variable creates a local variable. Variables cannot be by-ref.
func Variable(t *typesystem.Type, name string) (*ParameterExpression, error) {
	if err := validateType(t, "type", false); err != nil {
		return nil, err
	}
	return MakeParameter(t, name, false)
}

// MakeParameter creates a parameter of type t, by-ref when byRef is set or
// t is itself a by-ref type.
func MakeParameter(t *typesystem.Type, name string, byRef bool) (*ParameterExpression, error) {
	if err := validateType(t, "type", true); err != nil {
		return nil, err
	}
	if t.IsByRef() {
		byRef = true
		t = t.ElementType()
	}
	if t == typesystem.Void {
		return nil, newArgumentError("type", -1, ErrArgumentCannotBeVoid)
	}

	return &ParameterExpression{name: name, typ: t, byRef: byRef}, nil
}

func (p *ParameterExpression) NodeType() ExpressionType { return Parameter }

func (p *ParameterExpression) Type() *typesystem.Type { return p.typ }

func (p *ParameterExpression) Name() string { return p.name }

// IsByRef reports whether the parameter is passed by reference. Type is
// then the element type.
func (p *ParameterExpression) IsByRef() bool { return p.byRef }

func (p *ParameterExpression) Accept(v Visitor) (Expression, error) { return v.VisitParameter(p) }

func (p *ParameterExpression) String() string {
	if p.name == "" {
		return "<param>"
	}
	return p.name
}
