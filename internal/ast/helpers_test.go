package ast

import (
	"testing"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

func mustConstant(t *testing.T, value any, typ *typesystem.Type) *ConstantExpression {
	t.Helper()
	c, err := NewConstant(value, typ)
	if err != nil {
		t.Fatalf("NewConstant(%v, %s): %v", value, typ, err)
	}
	return c
}

func mustParameter(t *testing.T, typ *typesystem.Type, name string) *ParameterExpression {
	t.Helper()
	p, err := NewParameter(typ, name)
	if err != nil {
		t.Fatalf("NewParameter(%s, %s): %v", typ, name, err)
	}
	return p
}

// untyped is an expression kind defined outside the package that reports
// no type.
type untyped struct{}

func (untyped) NodeType() ExpressionType               { return Constant }
func (untyped) Type() *typesystem.Type                 { return nil }
func (u untyped) Accept(v Visitor) (Expression, error) { return u, nil }

// objectFunc returns Func<CallSite, object x n, object>.
func objectFunc(n int) *typesystem.Type {
	args := []*typesystem.Type{typesystem.CallSite}
	for i := 0; i < n; i++ {
		args = append(args, typesystem.Object)
	}
	args = append(args, typesystem.Object)
	return typesystem.FuncDefs[len(args)].MustMakeGenericType(args...)
}

func stringArgs(t *testing.T, n int) []Expression {
	out := make([]Expression, n)
	for i := range out {
		out[i] = mustConstant(t, string(rune('a'+i)), typesystem.String)
	}
	return out
}

// person is a class with members of every writability.
type person struct {
	typ      *typesystem.Type
	name     *typesystem.Field
	id       *typesystem.Field
	kind     *typesystem.Field
	tag      *typesystem.Field
	age      *typesystem.Property
	display  *typesystem.Property
	password *typesystem.Property
	count    *typesystem.Field
}

func newPerson() *person {
	asm := typesystem.NewAssembly("people")
	typ := asm.Define(typesystem.TypeSpec{Namespace: "People", Name: "Person", Kind: typesystem.KindClass})
	return &person{
		typ:      typ,
		name:     typ.AddField(&typesystem.Field{Name: "Name", Type: typesystem.String}),
		id:       typ.AddField(&typesystem.Field{Name: "ID", Type: typesystem.Int32, InitOnly: true}),
		kind:     typ.AddField(&typesystem.Field{Name: "Kind", Type: typesystem.String, Static: true, Literal: true}),
		tag:      typ.AddField(&typesystem.Field{Name: "Tag", Type: typesystem.Object}),
		age:      typ.AddProperty(&typesystem.Property{Name: "Age", Type: typesystem.Int32, CanRead: true, CanWrite: true}),
		display:  typ.AddProperty(&typesystem.Property{Name: "Display", Type: typesystem.String, CanRead: true}),
		password: typ.AddProperty(&typesystem.Property{Name: "Password", Type: typesystem.String, CanWrite: true}),
		count:    typ.AddField(&typesystem.Field{Name: "Count", Type: typesystem.Int32, Static: true}),
	}
}
