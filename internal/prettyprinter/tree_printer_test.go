package prettyprinter

import (
	"strings"
	"testing"

	"github.com/funvibe/dynexpr/internal/ast"
	"github.com/funvibe/dynexpr/internal/callsite"
	"github.com/funvibe/dynexpr/internal/typesystem"
)

func TestPrintDynamicTree(t *testing.T) {
	x, err := ast.NewParameter(typesystem.String, "x")
	if err != nil {
		t.Fatal(err)
	}
	length, err := ast.PropertyAccess(x, typesystem.String.Property("Length"))
	if err != nil {
		t.Fatal(err)
	}
	bang, err := ast.NewConstant("!", typesystem.String)
	if err != nil {
		t.Fatal(err)
	}
	n, err := ast.NewBuilder(nil).Dynamic(callsite.NewBinder("Format"), typesystem.String, x, length, bang)
	if err != nil {
		t.Fatal(err)
	}

	expected := strings.Join([]string{
		"Dynamic Format : String",
		"    delegate Func<CallSite, String, Int32, String, String>",
		"    Parameter x : String",
		"    MemberAccess Length : Int32",
		"        Parameter x : String",
		`    Constant "!" : String`,
		"",
	}, "\n")
	if got := Print(n); got != expected {
		t.Errorf("Print mismatch.\nExpected:\n%s\nGot:\n%s", expected, got)
	}
}

func TestPrintAuxiliaryNodes(t *testing.T) {
	ref, _ := ast.MakeParameter(typesystem.Int32, "n", true)
	target, _ := ast.LabelOfType(typesystem.Int32, "done")
	zero, _ := ast.NewDefault(typesystem.Int32)
	label, err := ast.LabelWithDefault(target, zero)
	if err != nil {
		t.Fatal(err)
	}
	doc, _ := ast.SymbolDocument("a.dx")
	info, _ := ast.NewDebugInfo(doc, 1, 2, 3, 4)
	clear, _ := ast.ClearDebugInfo(doc)

	p := NewTreePrinter()
	p.Print(ref)
	p.Print(label)
	p.Print(info)
	p.Print(clear)
	p.Print(nil)

	expected := strings.Join([]string{
		"Parameter ref n : Int32",
		"Label done : Int32",
		"    Default : Int32",
		"DebugInfo a.dx 1:2-3:4 : Void",
		"DebugInfo a.dx clear : Void",
		"<nil>",
		"",
	}, "\n")
	if got := p.String(); got != expected {
		t.Errorf("Print mismatch.\nExpected:\n%s\nGot:\n%s", expected, got)
	}
}

func TestPrintBinding(t *testing.T) {
	asm := typesystem.NewAssembly("people")
	person := asm.Define(typesystem.TypeSpec{Name: "Person", Kind: typesystem.KindClass})
	name := person.AddField(&typesystem.Field{Name: "Name", Type: typesystem.String})
	value, _ := ast.NewConstant("Ada", typesystem.String)
	b, err := ast.Bind(name, value)
	if err != nil {
		t.Fatal(err)
	}
	p := NewTreePrinter()
	p.PrintBinding(b)
	if got, want := p.String(), "Name =\n    Constant \"Ada\" : String\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestColorOutput(t *testing.T) {
	c, _ := ast.NewConstant(1, typesystem.Int32)
	p := NewTreePrinterWithColor(true)
	p.Print(c)
	out := p.String()
	if !strings.Contains(out, colorNode+"Constant"+colorReset) || !strings.Contains(out, colorType+"Int32"+colorReset) {
		t.Errorf("expected ANSI colours, got %q", out)
	}
	if strings.Contains(Print(c), "\x1b[") {
		t.Errorf("plain printer must not emit colours")
	}
}

func TestSignature(t *testing.T) {
	d := typesystem.FuncDefs[3].MustMakeGenericType(typesystem.CallSite, typesystem.String, typesystem.Object)
	if got := Signature(d); got != "(CallSite, String) -> Object" {
		t.Errorf("Signature = %s", got)
	}
	if got := Signature(typesystem.String); got != "String" {
		t.Errorf("non-delegate should print its name, got %s", got)
	}
}
