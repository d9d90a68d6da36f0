package ast

import (
	"fmt"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

// ConstantExpression is a literal value of a given type.
type ConstantExpression struct {
	value any
	typ   *typesystem.Type
}

// NewConstant creates a constant. A nil value needs a type that admits nil.
func NewConstant(value any, t *typesystem.Type) (*ConstantExpression, error) {
	if err := validateType(t, "type", false); err != nil {
		return nil, err
	}
	if t == typesystem.Void {
		return nil, newArgumentError("type", -1, ErrArgumentCannotBeVoid)
	}
	if value == nil && t.IsValueType() && !typesystem.IsNullableType(t) {
		return nil, newArgumentError("value", -1, fmt.Errorf("%w: %s", ErrNilForValueType, t))
	}
	return &ConstantExpression{value: value, typ: t}, nil
}

func (n *ConstantExpression) NodeType() ExpressionType             { return Constant }
func (n *ConstantExpression) Type() *typesystem.Type               { return n.typ }
func (n *ConstantExpression) Value() any                           { return n.value }
func (n *ConstantExpression) Accept(v Visitor) (Expression, error) { return v.VisitConstant(n) }

func (n *ConstantExpression) String() string {
	switch v := n.value.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprint(n.value)
}

// DefaultExpression produces the zero value of its type. With Void it is
// an empty expression.
type DefaultExpression struct {
	typ *typesystem.Type
}

// NewDefault creates default(t).
func NewDefault(t *typesystem.Type) (*DefaultExpression, error) {
	if err := validateType(t, "type", false); err != nil {
		return nil, err
	}
	return &DefaultExpression{typ: t}, nil
}

// Empty is default(Void).
func Empty() *DefaultExpression {
	return &DefaultExpression{typ: typesystem.Void}
}

func (n *DefaultExpression) NodeType() ExpressionType             { return Default }
func (n *DefaultExpression) Type() *typesystem.Type               { return n.typ }
func (n *DefaultExpression) Accept(v Visitor) (Expression, error) { return v.VisitDefault(n) }
func (n *DefaultExpression) String() string                       { return fmt.Sprintf("default(%s)", n.typ) }

// MemberExpression reads a field or property. Instance is nil for static
// members.
type MemberExpression struct {
	instance Expression
	member   typesystem.Member
	typ      *typesystem.Type
}

// FieldAccess creates a read of field f on instance.
func FieldAccess(instance Expression, f *typesystem.Field) (*MemberExpression, error) {
	if f == nil {
		return nil, newArgumentError("field", -1, ErrArgumentNil)
	}
	if err := validateInstance(instance, f.Static, f.DeclaringType); err != nil {
		return nil, err
	}
	return &MemberExpression{instance: instance, member: f, typ: f.Type}, nil
}

// PropertyAccess creates an access to property p on instance. A write-only
// property is allowed here but the node cannot be read.
func PropertyAccess(instance Expression, p *typesystem.Property) (*MemberExpression, error) {
	if p == nil {
		return nil, newArgumentError("property", -1, ErrArgumentNil)
	}
	if !p.CanRead && !p.CanWrite {
		return nil, newArgumentError("property", -1, ErrPropertyHasNoAccessor)
	}
	if err := validateInstance(instance, p.Static, p.DeclaringType); err != nil {
		return nil, err
	}
	return &MemberExpression{instance: instance, member: p, typ: p.Type}, nil
}

func validateInstance(instance Expression, static bool, declaring *typesystem.Type) error {
	if static {
		if instance != nil {
			return newArgumentError("expression", -1, ErrStaticMemberWithInstance)
		}
		return nil
	}
	if instance == nil {
		return newArgumentError("expression", -1, ErrInstanceRequired)
	}
	if err := requiresCanRead(instance, "expression", -1); err != nil {
		return err
	}
	if !typesystem.IsValidInstanceType(declaring, instance.Type()) {
		return newArgumentError("expression", -1,
			fmt.Errorf("%w: %s on %s", ErrMemberNotDefinedForType, declaring, instance.Type()))
	}
	return nil
}

func (n *MemberExpression) NodeType() ExpressionType  { return MemberAccess }
func (n *MemberExpression) Type() *typesystem.Type    { return n.typ }
func (n *MemberExpression) Expression() Expression    { return n.instance }
func (n *MemberExpression) Member() typesystem.Member { return n.member }

// Update returns n itself when instance is unchanged.
func (n *MemberExpression) Update(instance Expression) (*MemberExpression, error) {
	if instance == n.instance {
		return n, nil
	}
	switch m := n.member.(type) {
	case *typesystem.Field:
		return FieldAccess(instance, m)
	case *typesystem.Property:
		return PropertyAccess(instance, m)
	}
	return nil, newArgumentError("member", -1, ErrMemberNotFieldOrProperty)
}

func (n *MemberExpression) Accept(v Visitor) (Expression, error) { return v.VisitMember(n) }

func (n *MemberExpression) String() string {
	if n.instance == nil {
		return fmt.Sprintf("%s.%s", n.member.MemberDeclaringType(), n.member.MemberName())
	}
	return fmt.Sprintf("%v.%s", n.instance, n.member.MemberName())
}
