package prettyprinter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/funvibe/dynexpr/internal/ast"
	"github.com/funvibe/dynexpr/internal/typesystem"
)

// --- Tree Printer (one node per line, children indented) ---

const (
	colorReset = "\x1b[0m"
	colorNode  = "\x1b[1;36m"
	colorType  = "\x1b[33m"
	colorValue = "\x1b[32m"
)

// TreePrinter renders expression trees as indented text. It never changes
// the tree: every Visit method returns the node it was given.
type TreePrinter struct {
	buf    bytes.Buffer
	indent int
	color  bool
}

func NewTreePrinter() *TreePrinter {
	return &TreePrinter{}
}

// NewTreePrinterWithColor enables ANSI colours when color is set.
func NewTreePrinterWithColor(color bool) *TreePrinter {
	return &TreePrinter{color: color}
}

// Print renders e and returns the text.
func Print(e ast.Expression) string {
	p := NewTreePrinter()
	p.Print(e)
	return p.String()
}

// Print appends e to the output.
func (p *TreePrinter) Print(e ast.Expression) {
	if e == nil {
		p.line("<nil>")
		return
	}
	e.Accept(p)
}

// PrintBinding appends a member assignment to the output.
func (p *TreePrinter) PrintBinding(b *ast.MemberAssignment) {
	b.Accept(p)
}

func (p *TreePrinter) String() string {
	return p.buf.String()
}

func (p *TreePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *TreePrinter) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteString("\n")
}

func (p *TreePrinter) paint(color, s string) string {
	if !p.color {
		return s
	}
	return color + s + colorReset
}

func (p *TreePrinter) node(kind ast.ExpressionType, detail string, t *typesystem.Type) {
	head := p.paint(colorNode, kind.String())
	if detail != "" {
		head += " " + detail
	}
	p.line("%s : %s", head, p.paint(colorType, t.String()))
}

func (p *TreePrinter) children(exprs ...ast.Expression) {
	p.indent++
	for _, e := range exprs {
		p.Print(e)
	}
	p.indent--
}

func (p *TreePrinter) VisitConstant(n *ast.ConstantExpression) (ast.Expression, error) {
	p.node(ast.Constant, p.paint(colorValue, n.String()), n.Type())
	return n, nil
}

func (p *TreePrinter) VisitDefault(n *ast.DefaultExpression) (ast.Expression, error) {
	p.node(ast.Default, "", n.Type())
	return n, nil
}

func (p *TreePrinter) VisitParameter(n *ast.ParameterExpression) (ast.Expression, error) {
	name := n.String()
	if n.IsByRef() {
		name = "ref " + name
	}
	p.node(ast.Parameter, name, n.Type())
	return n, nil
}

func (p *TreePrinter) VisitMember(n *ast.MemberExpression) (ast.Expression, error) {
	m := n.Member()
	if n.Expression() == nil {
		p.node(ast.MemberAccess, m.MemberDeclaringType().String()+"."+m.MemberName(), n.Type())
		return n, nil
	}
	p.node(ast.MemberAccess, m.MemberName(), n.Type())
	p.children(n.Expression())
	return n, nil
}

func (p *TreePrinter) VisitDynamic(n *ast.DynamicExpression) (ast.Expression, error) {
	p.node(ast.Dynamic, n.Binder().String(), n.Type())
	p.indent++
	p.line("delegate %s", p.paint(colorType, n.DelegateType().String()))
	p.indent--
	args := n.Arguments()
	p.children(args.Slice()...)
	return n, nil
}

func (p *TreePrinter) VisitLabel(n *ast.LabelExpression) (ast.Expression, error) {
	p.node(ast.Label, n.Target().String(), n.Type())
	if n.DefaultValue() != nil {
		p.children(n.DefaultValue())
	}
	return n, nil
}

func (p *TreePrinter) VisitDebugInfo(n *ast.DebugInfoExpression) (ast.Expression, error) {
	var span string
	if n.IsClear() {
		span = n.Document().FileName + " clear"
	} else {
		span = fmt.Sprintf("%s %d:%d-%d:%d", n.Document().FileName, n.StartLine(), n.StartColumn(), n.EndLine(), n.EndColumn())
	}
	p.node(ast.DebugInfo, span, n.Type())
	return n, nil
}

func (p *TreePrinter) VisitMemberAssignment(n *ast.MemberAssignment) (*ast.MemberAssignment, error) {
	p.line("%s =", p.paint(colorNode, n.Member().MemberName()))
	p.children(n.Expression())
	return n, nil
}

// Signature renders a delegate type as (p1, p2) -> ret.
func Signature(delegateType *typesystem.Type) string {
	inv := delegateType.InvokeMethod()
	if inv == nil {
		return delegateType.String()
	}
	parts := make([]string, len(inv.Params))
	for i, param := range inv.Params {
		parts[i] = param.Type.String()
	}
	return "(" + strings.Join(parts, ", ") + ") -> " + inv.Return.String()
}
