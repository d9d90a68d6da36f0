package ast

import (
	"fmt"

	"github.com/funvibe/dynexpr/internal/callsite"
	"github.com/funvibe/dynexpr/internal/delegates"
	"github.com/funvibe/dynexpr/internal/typesystem"
)

// DynamicExpression is an operation bound at run time by a Binder through a
// call site of type DelegateType. Arguments are the operands, excluding the
// call site itself.
type DynamicExpression struct {
	binder       callsite.Binder
	delegateType *typesystem.Type
	returnType   *typesystem.Type
	args         arguments
}

// Builder creates dynamic nodes whose delegate types it infers through a
// Synthesizer.
type Builder struct {
	synth *delegates.Synthesizer
}

// NewBuilder returns a Builder that infers delegate types with s.
// A nil s gets a private synthesizer with its own cache.
func NewBuilder(s *delegates.Synthesizer) *Builder {
	if s == nil {
		s = delegates.New()
	}
	return &Builder{synth: s}
}

// Synthesizer returns the synthesizer used to infer delegate types.
func (b *Builder) Synthesizer() *delegates.Synthesizer { return b.synth }

// Dynamic creates a node for an operation over args returning returnType
// (Object when nil). The delegate type is (CallSite, arg types...) -> returnType;
// by-ref parameters keep their by-ref type.
func (b *Builder) Dynamic(binder callsite.Binder, returnType *typesystem.Type, args ...Expression) (*DynamicExpression, error) {
	if binder == nil {
		return nil, newArgumentError("binder", -1, ErrArgumentNil)
	}
	if returnType == nil {
		returnType = typesystem.Object
	}
	if err := validateType(returnType, "returnType", false); err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, newArgumentError("args", -1, ErrIncorrectArgumentCount)
	}

	types := make([]*typesystem.Type, len(args))
	for i, arg := range args {
		if err := requiresCanRead(arg, "args", i); err != nil {
			return nil, err
		}
		t := arg.Type()
		if err := typesystem.ValidateType(t); err != nil {
			return nil, newArgumentError("args", i, err)
		}
		if t == typesystem.Void {
			return nil, newArgumentError("args", i, ErrArgumentCannotBeVoid)
		}
		if p, ok := arg.(*ParameterExpression); ok && p.IsByRef() {
			t = t.MakeByRefType()
		}
		types[i] = t
	}

	delegateType, err := b.synth.CallSiteDelegate(types, returnType)
	if err != nil {
		return nil, fmt.Errorf("delegate for dynamic operation: %w", err)
	}
	return newDynamic(binder, delegateType, returnType, args), nil
}

// MakeDynamic creates a node with an explicit delegate type. The delegate's
// Invoke must take CallSite first and then one parameter per argument, and
// each argument must be reference-assignable to its parameter.
func MakeDynamic(delegateType *typesystem.Type, binder callsite.Binder, args ...Expression) (*DynamicExpression, error) {
	if delegateType == nil {
		return nil, newArgumentError("delegateType", -1, ErrArgumentNil)
	}
	if binder == nil {
		return nil, newArgumentError("binder", -1, ErrArgumentNil)
	}
	if !typesystem.IsDelegate(delegateType) {
		return nil, newArgumentError("delegateType", -1, ErrTypeMustBeDelegate)
	}
	if err := validateType(delegateType, "delegateType", false); err != nil {
		return nil, err
	}

	inv := delegateType.InvokeMethod()
	if inv == nil || len(inv.Params) == 0 || inv.Params[0].Type != typesystem.CallSite {
		return nil, newArgumentError("delegateType", -1, ErrFirstArgumentMustBeCallSite)
	}
	if len(inv.Params) != len(args)+1 {
		return nil, newArgumentError("args", -1,
			fmt.Errorf("%w: delegate takes %d, got %d", ErrIncorrectArgumentCount, len(inv.Params)-1, len(args)))
	}

	for i, arg := range args {
		if err := validateDynamicArgument(arg, inv.Params[i+1].Type, i); err != nil {
			return nil, err
		}
	}
	return newDynamic(binder, delegateType, inv.Return, args), nil
}

func validateDynamicArgument(arg Expression, paramType *typesystem.Type, index int) error {
	if err := requiresCanRead(arg, "args", index); err != nil {
		return err
	}
	if arg.Type() == typesystem.Void {
		return newArgumentError("args", index, ErrArgumentCannotBeVoid)
	}
	if paramType.IsByRef() {
		paramType = paramType.ElementType()
	}
	if err := typesystem.ValidateType(paramType); err != nil {
		return newArgumentError("args", index, err)
	}
	if !typesystem.AreReferenceAssignable(paramType, arg.Type()) {
		return newArgumentError("args", index,
			fmt.Errorf("%w: %s to %s", ErrArgumentTypeMismatch, arg.Type(), paramType))
	}
	return nil
}

func newDynamic(binder callsite.Binder, delegateType, returnType *typesystem.Type, args []Expression) *DynamicExpression {
	n := &DynamicExpression{binder: binder, delegateType: delegateType, returnType: returnType}
	n.args.init(args)
	return n
}

func (n *DynamicExpression) NodeType() ExpressionType { return Dynamic }

// Type is the result type of the operation, equal to the delegate's return type.
func (n *DynamicExpression) Type() *typesystem.Type { return n.returnType }

func (n *DynamicExpression) Binder() callsite.Binder          { return n.binder }
func (n *DynamicExpression) DelegateType() *typesystem.Type   { return n.delegateType }
func (n *DynamicExpression) GetArgument(index int) Expression { return n.args.at(index) }
func (n *DynamicExpression) ArgumentCount() int               { return n.args.n }

// Arguments returns the operands. Every call returns the same list.
func (n *DynamicExpression) Arguments() *ExpressionList { return n.args.list() }

// Rewrite returns a node with the same binder and delegate type over args.
// The arguments are validated against the delegate as in MakeDynamic.
func (n *DynamicExpression) Rewrite(args []Expression) (*DynamicExpression, error) {
	return MakeDynamic(n.delegateType, n.binder, args...)
}

// Update returns n itself when args is n's own argument list, otherwise a
// rewritten node.
func (n *DynamicExpression) Update(args *ExpressionList) (*DynamicExpression, error) {
	if n.args.isView(args) {
		return n, nil
	}
	return n.Rewrite(args.Slice())
}

// CreateCallSite creates a call site for the node's delegate type and binder.
func (n *DynamicExpression) CreateCallSite() (*callsite.Site, error) {
	return callsite.New(n.delegateType, n.binder)
}

func (n *DynamicExpression) Accept(v Visitor) (Expression, error) { return v.VisitDynamic(n) }

func (n *DynamicExpression) String() string {
	return fmt.Sprintf("Dynamic(%s)(%s)", n.binder, n.args.list())
}
