package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/funvibe/dynexpr/internal/ast"
	"github.com/funvibe/dynexpr/internal/callsite"
	"github.com/funvibe/dynexpr/internal/config"
	"github.com/funvibe/dynexpr/internal/delegates"
	"github.com/funvibe/dynexpr/internal/prettyprinter"
	"github.com/funvibe/dynexpr/internal/typesystem"
)

func newFlagSet(name string, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func runDelegate(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("delegate", stderr)
	configPath := fs.String("config", "", "path to dynexpr.yaml")
	verbose := fs.Bool("verbose", false, "print [delegates] diagnostics")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Usage: dynexpr delegate [-config file] [-verbose] <return> [param...]")
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %s\n", err)
		return 1
	}
	if *verbose {
		cfg.Verbose = true
	}

	types, err := lookupTypes(fs.Args())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}

	synth := delegates.FromConfig(cfg, delegates.WithOutput(stderr))
	d, err := synth.CallSiteDelegate(types[1:], types[0])
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "%s\n", d.FullName())
	fmt.Fprintf(stdout, "  signature: %s\n", prettyprinter.Signature(d))
	fmt.Fprintf(stdout, "  assembly:  %s\n", d.Assembly())
	if !config.IsTestMode {
		fmt.Fprintf(stdout, "  guid:      %s\n", d.GUID())
	}
	return 0
}

func runConvert(args []string, stdout, stderr io.Writer) int {
	if len(args) != 2 {
		fmt.Fprintln(stderr, "Usage: dynexpr convert <from> <to>")
		return 2
	}
	types, err := lookupTypes(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	from, to := types[0], types[1]

	rows := []struct {
		name string
		ok   bool
	}{
		{"implicit", typesystem.IsImplicitlyConvertible(from, to)},
		{"reference assignable", typesystem.AreReferenceAssignable(to, from)},
		{"assignable", to.IsAssignableFrom(from)},
		{"reference conversion", typesystem.HasReferenceConversion(from, to)},
		{"primitive or nullable", typesystem.HasIdentityPrimitiveOrNullableConversion(from, to)},
		{"built-in equality", typesystem.HasBuiltInEqualityOperator(from, to)},
	}
	fmt.Fprintf(stdout, "%s -> %s\n", from, to)
	for _, r := range rows {
		fmt.Fprintf(stdout, "  %-22s %v\n", r.name+":", r.ok)
	}
	if m := typesystem.GetUserDefinedCoercionMethod(from, to, false); m != nil {
		lifted := ""
		if typesystem.IsLiftedCoercion(m, from, to) {
			lifted = " (lifted)"
		}
		fmt.Fprintf(stdout, "  %-22s %s.%s%s\n", "operator:", m.DeclaringType, m.Name, lifted)
	}
	return 0
}

func runDemo(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("demo", stderr)
	configPath := fs.String("config", "", "path to dynexpr.yaml")
	color := fs.Bool("color", useColor(stdout), "colour the output")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %s\n", err)
		return 1
	}

	tree, err := buildDemo(ast.NewBuilder(delegates.FromConfig(cfg, delegates.WithOutput(stderr))))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	p := prettyprinter.NewTreePrinterWithColor(*color)
	p.Print(tree)
	fmt.Fprint(stdout, p.String())
	return 0
}

// buildDemo builds `ret: target.Format(name, ref count, name.Length)`.
func buildDemo(b *ast.Builder) (ast.Expression, error) {
	target, err := ast.NewParameter(typesystem.Object, "target")
	if err != nil {
		return nil, err
	}
	name, err := ast.NewParameter(typesystem.String, "name")
	if err != nil {
		return nil, err
	}
	count, err := ast.MakeParameter(typesystem.Int32, "count", true)
	if err != nil {
		return nil, err
	}
	length, err := ast.PropertyAccess(name, typesystem.String.Property("Length"))
	if err != nil {
		return nil, err
	}
	call, err := b.Dynamic(callsite.NewBinder("InvokeMember Format"), typesystem.String, target, name, count, length)
	if err != nil {
		return nil, err
	}
	ret, err := ast.LabelOfType(typesystem.String, "ret")
	if err != nil {
		return nil, err
	}
	label, err := ast.LabelWithDefault(ret, call)
	if err != nil {
		return nil, err
	}
	return label, nil
}

func lookupTypes(names []string) ([]*typesystem.Type, error) {
	out := make([]*typesystem.Type, len(names))
	for i, n := range names {
		t, err := typesystem.LookupType(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
