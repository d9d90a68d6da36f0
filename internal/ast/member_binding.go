package ast

import (
	"fmt"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

// MemberAssignment binds a value to a field or property, as used when
// initializing the members of a new object.
type MemberAssignment struct {
	member typesystem.Member
	value  Expression
}

// Bind creates an assignment of value to member. The member must be a
// writable field or property, and the value must be readable and
// assignable to the member's type.
func Bind(member typesystem.Member, value Expression) (*MemberAssignment, error) {
	if member == nil {
		return nil, newArgumentError("member", -1, ErrArgumentNil)
	}
	if err := requiresCanRead(value, "expression", -1); err != nil {
		return nil, err
	}
	memberType, err := settableMemberType(member)
	if err != nil {
		return nil, err
	}
	if !memberType.IsAssignableFrom(value.Type()) {
		return nil, newArgumentError("expression", -1,
			fmt.Errorf("%w: %s to %s.%s", ErrMemberTypeMismatch, value.Type(), member.MemberDeclaringType(), member.MemberName()))
	}
	return &MemberAssignment{member: member, value: value}, nil
}

func settableMemberType(member typesystem.Member) (*typesystem.Type, error) {
	switch m := member.(type) {
	case *typesystem.Field:
		if m.Literal || m.InitOnly {
			return nil, newArgumentError("member", -1, fmt.Errorf("%w: field %s", ErrMemberNotWritable, m.Name))
		}
		return m.Type, nil
	case *typesystem.Property:
		if !m.CanWrite {
			return nil, newArgumentError("member", -1, fmt.Errorf("%w: property %s has no setter", ErrMemberNotWritable, m.Name))
		}
		return m.Type, nil
	}
	return nil, newArgumentError("member", -1, ErrMemberNotFieldOrProperty)
}

func (b *MemberAssignment) Member() typesystem.Member { return b.member }
func (b *MemberAssignment) Expression() Expression    { return b.value }

// Update returns b itself when value is unchanged.
func (b *MemberAssignment) Update(value Expression) (*MemberAssignment, error) {
	if value == b.value {
		return b, nil
	}
	return Bind(b.member, value)
}

func (b *MemberAssignment) Accept(v Visitor) (*MemberAssignment, error) {
	return v.VisitMemberAssignment(b)
}

func (b *MemberAssignment) String() string {
	return fmt.Sprintf("%s = %v", b.member.MemberName(), b.value)
}
