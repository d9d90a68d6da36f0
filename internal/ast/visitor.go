package ast

// Visitor is implemented by tree passes. Each method returns the node to
// use in place of the visited one; returning the same node means no change.
type Visitor interface {
	VisitConstant(n *ConstantExpression) (Expression, error)
	VisitDefault(n *DefaultExpression) (Expression, error)
	VisitParameter(n *ParameterExpression) (Expression, error)
	VisitMember(n *MemberExpression) (Expression, error)
	VisitDynamic(n *DynamicExpression) (Expression, error)
	VisitLabel(n *LabelExpression) (Expression, error)
	VisitDebugInfo(n *DebugInfoExpression) (Expression, error)
	VisitMemberAssignment(n *MemberAssignment) (*MemberAssignment, error)
}

// Rewriter is a Visitor that rebuilds a node only when one of its children
// changed, so untouched subtrees come back as the same nodes.
//
// To override some methods, embed Rewriter and set Self to the embedding
// value; children are then dispatched through Self.
type Rewriter struct {
	Self Visitor
}

func (r *Rewriter) self() Visitor {
	if r.Self != nil {
		return r.Self
	}
	return r
}

// Visit dispatches e. A nil expression is returned unchanged.
func (r *Rewriter) Visit(e Expression) (Expression, error) {
	if e == nil {
		return nil, nil
	}
	return e.Accept(r.self())
}

// VisitArguments visits every argument of p. It returns nil when all
// arguments came back unchanged, otherwise the complete new argument list.
func (r *Rewriter) VisitArguments(p ArgumentProvider) ([]Expression, error) {
	var out []Expression
	for i, n := 0, p.ArgumentCount(); i < n; i++ {
		cur := p.GetArgument(i)
		next, err := r.Visit(cur)
		if err != nil {
			return nil, err
		}
		if out == nil && next != cur {
			out = make([]Expression, n)
			for j := 0; j < i; j++ {
				out[j] = p.GetArgument(j)
			}
		}
		if out != nil {
			out[i] = next
		}
	}
	return out, nil
}

func (r *Rewriter) VisitConstant(n *ConstantExpression) (Expression, error)   { return n, nil }
func (r *Rewriter) VisitDefault(n *DefaultExpression) (Expression, error)     { return n, nil }
func (r *Rewriter) VisitParameter(n *ParameterExpression) (Expression, error) { return n, nil }
func (r *Rewriter) VisitDebugInfo(n *DebugInfoExpression) (Expression, error) { return n, nil }

func (r *Rewriter) VisitMember(n *MemberExpression) (Expression, error) {
	instance, err := r.Visit(n.instance)
	if err != nil {
		return nil, err
	}
	m, err := n.Update(instance)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *Rewriter) VisitDynamic(n *DynamicExpression) (Expression, error) {
	args, err := r.VisitArguments(n)
	if err != nil {
		return nil, err
	}
	if args == nil {
		return n, nil
	}
	d, err := n.Rewrite(args)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *Rewriter) VisitLabel(n *LabelExpression) (Expression, error) {
	value, err := r.Visit(n.defaultValue)
	if err != nil {
		return nil, err
	}
	l, err := n.Update(n.target, value)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *Rewriter) VisitMemberAssignment(n *MemberAssignment) (*MemberAssignment, error) {
	value, err := r.Visit(n.value)
	if err != nil {
		return nil, err
	}
	return n.Update(value)
}
