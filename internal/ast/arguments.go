package ast

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ArgumentProvider gives indexed access to a node's arguments without
// materializing a collection.
type ArgumentProvider interface {
	GetArgument(index int) Expression
	ArgumentCount() int
}

// ExpressionList is a read-only ordered sequence of expressions.
type ExpressionList struct {
	items []Expression
}

// ExpressionListOf returns a list holding a copy of args.
func ExpressionListOf(args ...Expression) *ExpressionList {
	return &ExpressionList{items: append([]Expression(nil), args...)}
}

// Len returns the number of expressions. A nil list is empty.
func (l *ExpressionList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the expression at index i.
func (l *ExpressionList) At(i int) Expression { return l.items[i] }

// Slice returns a copy of the expressions.
func (l *ExpressionList) Slice() []Expression {
	if l == nil {
		return nil
	}
	return append([]Expression(nil), l.items...)
}

// Equal reports whether both lists hold the same nodes in the same order.
func (l *ExpressionList) Equal(other *ExpressionList) bool {
	if l == other {
		return true
	}
	if l.Len() != other.Len() {
		return false
	}
	if l.Len() == 0 {
		return true
	}
	for i := range l.items {
		if l.items[i] != other.items[i] {
			return false
		}
	}
	return true
}

func (l *ExpressionList) String() string {
	parts := make([]string, l.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(l.items[i])
	}
	return strings.Join(parts, ", ")
}

// arguments stores up to four expressions inline; other counts, including
// zero, go to the overflow slice. The public ExpressionList view is built on
// first request and published once, so every caller sees the same instance.
type arguments struct {
	n        int
	inlined  bool
	inline   [4]Expression
	overflow []Expression

	view atomic.Pointer[ExpressionList]
}

func (a *arguments) init(args []Expression) {
	a.n = len(args)
	if a.n >= 1 && a.n <= len(a.inline) {
		a.inlined = true
		copy(a.inline[:], args)
		return
	}
	if a.n > 0 {
		a.overflow = append([]Expression(nil), args...)
	}
}

func (a *arguments) at(i int) Expression {
	if i < 0 || i >= a.n {
		panic(fmt.Sprintf("argument index %d out of range [0,%d)", i, a.n))
	}
	if a.inlined {
		return a.inline[i]
	}
	return a.overflow[i]
}

func (a *arguments) list() *ExpressionList {
	if v := a.view.Load(); v != nil {
		return v
	}
	var items []Expression
	if a.inlined {
		items = append([]Expression(nil), a.inline[:a.n]...)
	} else {
		// overflow is private and never written after init
		items = a.overflow
	}
	a.view.CompareAndSwap(nil, &ExpressionList{items: items})
	return a.view.Load()
}

// isView reports whether l is the published view.
func (a *arguments) isView(l *ExpressionList) bool {
	return l != nil && a.view.Load() == l
}
