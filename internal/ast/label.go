package ast

import (
	"fmt"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

// LabelTarget is a jump destination. The type is the type of the value
// carried by jumps to it.
type LabelTarget struct {
	typ  *typesystem.Type
	name string
}

// NewLabelTarget creates an unnamed label of type Void.
func NewLabelTarget() *LabelTarget {
	return &LabelTarget{typ: typesystem.Void}
}

// LabelNamed creates a named label of type Void.
func LabelNamed(name string) *LabelTarget {
	return &LabelTarget{typ: typesystem.Void, name: name}
}

// LabelOfType creates a label whose jumps carry a value of type t.
func LabelOfType(t *typesystem.Type, name string) (*LabelTarget, error) {
	if err := validateType(t, "type", false); err != nil {
		return nil, err
	}
	return &LabelTarget{typ: t, name: name}, nil
}

func (l *LabelTarget) Type() *typesystem.Type { return l.typ }
func (l *LabelTarget) Name() string           { return l.name }

func (l *LabelTarget) String() string {
	if l.name == "" {
		return "UnnamedLabel"
	}
	return l.name
}

// LabelExpression marks the position of a LabelTarget. Its value is
// DefaultValue when reached by falling through.
type LabelExpression struct {
	target       *LabelTarget
	defaultValue Expression
}

// LabelAt places target without a default value; target must be Void.
func LabelAt(target *LabelTarget) (*LabelExpression, error) {
	return LabelWithDefault(target, nil)
}

// LabelWithDefault places target with a fall-through value. A nil value
// requires a Void target. Otherwise the value must be readable and, unless
// the target is Void, reference-assignable to the target type.
func LabelWithDefault(target *LabelTarget, value Expression) (*LabelExpression, error) {
	if target == nil {
		return nil, newArgumentError("target", -1, ErrArgumentNil)
	}
	if value == nil {
		if target.typ != typesystem.Void {
			return nil, newArgumentError("target", -1, ErrLabelMustBeVoidOrHaveValue)
		}
		return &LabelExpression{target: target}, nil
	}
	if err := requiresCanRead(value, "defaultValue", -1); err != nil {
		return nil, err
	}
	if target.typ != typesystem.Void && !typesystem.AreReferenceAssignable(target.typ, value.Type()) {
		return nil, newArgumentError("defaultValue", -1,
			fmt.Errorf("%w: %s to %s", ErrLabelTypeMismatch, value.Type(), target.typ))
	}
	return &LabelExpression{target: target, defaultValue: value}, nil
}

func (n *LabelExpression) NodeType() ExpressionType { return Label }
func (n *LabelExpression) Type() *typesystem.Type   { return n.target.typ }
func (n *LabelExpression) Target() *LabelTarget     { return n.target }

// DefaultValue is nil when the label has no fall-through value.
func (n *LabelExpression) DefaultValue() Expression { return n.defaultValue }

// Update returns n itself when nothing changed.
func (n *LabelExpression) Update(target *LabelTarget, value Expression) (*LabelExpression, error) {
	if target == n.target && value == n.defaultValue {
		return n, nil
	}
	return LabelWithDefault(target, value)
}

func (n *LabelExpression) Accept(v Visitor) (Expression, error) { return v.VisitLabel(n) }

func (n *LabelExpression) String() string {
	if n.defaultValue == nil {
		return fmt.Sprintf("%s:", n.target)
	}
	return fmt.Sprintf("%s: %v", n.target, n.defaultValue)
}
