package ast

import (
	"errors"
	"runtime"
	"testing"
	"weak"

	"github.com/kr/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/funvibe/dynexpr/internal/callsite"
	"github.com/funvibe/dynexpr/internal/delegates"
	"github.com/funvibe/dynexpr/internal/typesystem"
)

func TestMakeDynamicArities(t *testing.T) {
	binder := callsite.NewBinder("Invoke")
	for k := 0; k <= 7; k++ {
		args := stringArgs(t, k)
		n, err := MakeDynamic(objectFunc(k), binder, args...)
		if err != nil {
			t.Fatalf("arity %d: %v", k, err)
		}
		if n.ArgumentCount() != k {
			t.Errorf("arity %d: ArgumentCount() = %d", k, n.ArgumentCount())
		}
		list := n.Arguments()
		if list.Len() != k {
			t.Errorf("arity %d: Arguments().Len() = %d", k, list.Len())
		}
		for i := 0; i < k; i++ {
			if list.At(i) != args[i] || n.GetArgument(i) != args[i] {
				t.Errorf("arity %d: argument %d out of order", k, i)
			}
		}
		if n.Arguments() != list {
			t.Errorf("arity %d: Arguments() should return the same list every time", k)
		}
		if k >= 1 && k <= 4 && (!n.args.inlined || n.args.overflow != nil) {
			t.Errorf("arity %d should be stored inline", k)
		}
		if (k == 0 || k > 4) && n.args.inlined {
			t.Errorf("arity %d should use overflow storage", k)
		}
	}
}

func TestArgumentsDoNotAliasInput(t *testing.T) {
	args := stringArgs(t, 6)
	n, err := MakeDynamic(objectFunc(6), callsite.NewBinder("op"), args...)
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	first := args[0]
	args[0] = mustConstant(t, "z", typesystem.String)
	if n.GetArgument(0) != first {
		t.Errorf("node must not see changes to the caller's slice")
	}
	s := n.Arguments().Slice()
	s[1] = nil
	if n.GetArgument(1) == nil {
		t.Errorf("Slice() must return a copy")
	}
}

func TestArgumentsViewIsPublishedOnce(t *testing.T) {
	for _, k := range []int{2, 6} {
		n, err := MakeDynamic(objectFunc(k), callsite.NewBinder("op"), stringArgs(t, k)...)
		if err != nil {
			t.Fatalf("MakeDynamic: %v", err)
		}
		const readers = 16
		views := make([]*ExpressionList, readers)
		var g errgroup.Group
		for i := 0; i < readers; i++ {
			g.Go(func() error {
				views[i] = n.Arguments()
				return nil
			})
		}
		g.Wait()
		for i, v := range views {
			if v != views[0] {
				t.Fatalf("arity %d: reader %d saw a different list", k, i)
			}
		}
	}
}

func TestMakeDynamicStringIntToObject(t *testing.T) {
	d := typesystem.FuncDefs[4].MustMakeGenericType(typesystem.CallSite, typesystem.String, typesystem.Int32, typesystem.Object)
	arg0 := mustConstant(t, "name", typesystem.String)
	arg1 := mustConstant(t, 42, typesystem.Int32)
	binder := callsite.NewBinder("SetIndex")

	n, err := MakeDynamic(d, binder, arg0, arg1)
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	if n.Type() != typesystem.Object {
		t.Errorf("Type() = %s, want Object", n.Type())
	}
	if !n.Arguments().Equal(ExpressionListOf(arg0, arg1)) {
		t.Errorf("Arguments() = %v", n.Arguments())
	}
	if n.Binder() != binder || n.DelegateType() != d || n.NodeType() != Dynamic {
		t.Errorf("unexpected node %# v", pretty.Formatter(n))
	}
}

func TestMakeDynamicErrors(t *testing.T) {
	binder := callsite.NewBinder("op")
	str := mustConstant(t, "s", typesystem.String)
	num := mustConstant(t, 1, typesystem.Int32)
	p := newPerson()
	writeOnly, err := PropertyAccess(mustParameter(t, p.typ, "p"), p.password)
	if err != nil {
		t.Fatalf("PropertyAccess: %v", err)
	}

	noSite := typesystem.FuncDefs[3].MustMakeGenericType(typesystem.String, typesystem.Int32, typesystem.Object)
	twoParams := typesystem.FuncDefs[4].MustMakeGenericType(typesystem.CallSite, typesystem.String, typesystem.Int32, typesystem.Object)
	stringParam := typesystem.FuncDefs[3].MustMakeGenericType(typesystem.CallSite, typesystem.String, typesystem.Object)

	tests := []struct {
		name     string
		delegate *typesystem.Type
		binder   callsite.Binder
		args     []Expression
		want     error
	}{
		{"nil delegate", nil, binder, []Expression{str}, ErrArgumentNil},
		{"nil binder", stringParam, nil, []Expression{str}, ErrArgumentNil},
		{"not a delegate", typesystem.String, binder, []Expression{str}, ErrTypeMustBeDelegate},
		{"delegate base", typesystem.MulticastDelegate, binder, nil, ErrTypeMustBeDelegate},
		{"open delegate", typesystem.FuncDefs[2], binder, []Expression{str}, typesystem.ErrTypeIsGeneric},
		{"first parameter not call site", noSite, binder, []Expression{str, num}, ErrFirstArgumentMustBeCallSite},
		{"no parameters", typesystem.Action, binder, nil, ErrFirstArgumentMustBeCallSite},
		{"too many arguments", twoParams, binder, []Expression{str, num, num}, ErrIncorrectArgumentCount},
		{"too few arguments", twoParams, binder, []Expression{str}, ErrIncorrectArgumentCount},
		{"nil argument", stringParam, binder, []Expression{nil}, ErrArgumentNil},
		{"untyped argument", objectFunc(1), binder, []Expression{untyped{}}, ErrArgumentNil},
		{"void argument", stringParam, binder, []Expression{Empty()}, ErrArgumentCannotBeVoid},
		{"type mismatch", stringParam, binder, []Expression{num}, ErrArgumentTypeMismatch},
		{"boxing is not reference assignment", objectFunc(1), binder, []Expression{num}, ErrArgumentTypeMismatch},
		{"write-only argument", stringParam, binder, []Expression{writeOnly}, ErrExpressionMustBeReadable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := MakeDynamic(tt.delegate, tt.binder, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if n != nil {
				t.Errorf("failed construction should return nil node")
			}
			var argErr *ArgumentError
			if !errors.As(err, &argErr) {
				t.Errorf("expected *ArgumentError, got %T", err)
			}
		})
	}
}

func TestMakeDynamicArgumentErrorIndex(t *testing.T) {
	d := typesystem.FuncDefs[4].MustMakeGenericType(typesystem.CallSite, typesystem.String, typesystem.String, typesystem.Object)
	_, err := MakeDynamic(d, callsite.NewBinder("op"), mustConstant(t, "a", typesystem.String), mustConstant(t, 1, typesystem.Int32))
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected *ArgumentError, got %v", err)
	}
	if argErr.Param != "args" || argErr.Index != 1 {
		t.Errorf("error should point at args[1], got %s[%d]", argErr.Param, argErr.Index)
	}
}

func TestMakeDynamicAcceptsReferenceConversions(t *testing.T) {
	d := objectFunc(2)
	n, err := MakeDynamic(d, callsite.NewBinder("op"),
		mustConstant(t, "s", typesystem.String),
		mustConstant(t, nil, typesystem.IEnumerableDef.MustMakeGenericType(typesystem.Char)))
	if err != nil {
		t.Fatalf("reference types should be accepted for object parameters: %v", err)
	}
	if n.ArgumentCount() != 2 {
		t.Errorf("ArgumentCount() = %d", n.ArgumentCount())
	}
}

func TestBuilderDynamic(t *testing.T) {
	b := NewBuilder(delegates.New())
	binder := callsite.NewBinder("Add")
	x := mustParameter(t, typesystem.Int32, "x")
	y := mustParameter(t, typesystem.Double, "y")

	n, err := b.Dynamic(binder, nil, x, y)
	if err != nil {
		t.Fatalf("Dynamic: %v", err)
	}
	want := typesystem.FuncDefs[4].MustMakeGenericType(typesystem.CallSite, typesystem.Int32, typesystem.Double, typesystem.Object)
	if n.DelegateType() != want {
		t.Errorf("DelegateType() = %s, want %s", n.DelegateType(), want)
	}
	if n.Type() != typesystem.Object {
		t.Errorf("nil return type should mean Object")
	}

	typed, err := b.Dynamic(binder, typesystem.Double, x, y)
	if err != nil {
		t.Fatalf("Dynamic: %v", err)
	}
	if typed.Type() != typesystem.Double || typed.DelegateType().InvokeMethod().Return != typesystem.Double {
		t.Errorf("typed node should carry its return type, got %s", typed.Type())
	}

	void, err := b.Dynamic(binder, typesystem.Void, x)
	if err != nil {
		t.Fatalf("Dynamic: %v", err)
	}
	if void.Type() != typesystem.Void || void.DelegateType() != typesystem.ActionDefs[2].MustMakeGenericType(typesystem.CallSite, typesystem.Int32) {
		t.Errorf("void operation should use Action, got %s", void.DelegateType())
	}
}

func TestBuilderDynamicAllArities(t *testing.T) {
	b := NewBuilder(nil)
	binder := callsite.NewBinder("Invoke")
	for k := 1; k <= 20; k++ {
		args := stringArgs(t, k)
		n, err := b.Dynamic(binder, typesystem.Object, args...)
		if err != nil {
			t.Fatalf("arity %d: %v", k, err)
		}
		if n.Arguments().Len() != k || n.Arguments() != n.Arguments() {
			t.Errorf("arity %d: unexpected argument view", k)
		}
		inv := n.DelegateType().InvokeMethod()
		if len(inv.Params) != k+1 || inv.Params[0].Type != typesystem.CallSite {
			t.Errorf("arity %d: delegate %s has wrong shape", k, n.DelegateType())
		}
	}
}

func TestBuilderDynamicByRef(t *testing.T) {
	b := NewBuilder(delegates.New())
	ref, err := MakeParameter(typesystem.Int32, "counter", true)
	if err != nil {
		t.Fatalf("MakeParameter: %v", err)
	}
	n1, err := b.Dynamic(callsite.NewBinder("Increment"), typesystem.Void, ref)
	if err != nil {
		t.Fatalf("Dynamic: %v", err)
	}
	inv := n1.DelegateType().InvokeMethod()
	if inv.Params[1].Type != typesystem.Int32.MakeByRefType() {
		t.Errorf("by-ref parameter should stay by-ref in the delegate, got %s", inv.Params[1].Type)
	}
	n2, err := b.Dynamic(callsite.NewBinder("Increment"), typesystem.Void, ref)
	if err != nil {
		t.Fatalf("Dynamic: %v", err)
	}
	if n1.DelegateType() != n2.DelegateType() {
		t.Errorf("cache-eligible signature should reuse the delegate type")
	}

	// the synthesized delegate must accept its own node again
	if _, err := n1.Rewrite([]Expression{ref}); err != nil {
		t.Errorf("Rewrite: %v", err)
	}
}

func TestBuilderDynamicErrors(t *testing.T) {
	b := NewBuilder(nil)
	binder := callsite.NewBinder("op")
	str := mustConstant(t, "s", typesystem.String)

	tests := []struct {
		name   string
		binder callsite.Binder
		ret    *typesystem.Type
		args   []Expression
		want   error
	}{
		{"nil binder", nil, nil, []Expression{str}, ErrArgumentNil},
		{"no arguments", binder, nil, nil, ErrIncorrectArgumentCount},
		{"nil argument", binder, nil, []Expression{str, nil}, ErrArgumentNil},
		{"untyped argument", binder, nil, []Expression{str, untyped{}}, ErrArgumentNil},
		{"void argument", binder, nil, []Expression{Empty()}, ErrArgumentCannotBeVoid},
		{"open return type", binder, typesystem.IEnumerableDef, []Expression{str}, typesystem.ErrTypeIsGeneric},
		{"by-ref return type", binder, typesystem.Int32.MakeByRefType(), []Expression{str}, ErrTypeMustNotBeByRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Dynamic(tt.binder, tt.ret, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestUpdateAndRewrite(t *testing.T) {
	binder := callsite.NewBinder("op")
	for _, k := range []int{0, 1, 3, 4, 5, 9} {
		d := objectFunc(k)
		n, err := MakeDynamic(d, binder, stringArgs(t, k)...)
		if err != nil {
			t.Fatalf("MakeDynamic: %v", err)
		}

		same, err := n.Update(n.Arguments())
		if err != nil || same != n {
			t.Errorf("arity %d: Update with own arguments should return the node itself", k)
		}

		other := ExpressionListOf(stringArgs(t, k)...)
		updated, err := n.Update(other)
		if err != nil {
			t.Fatalf("arity %d: Update: %v", k, err)
		}
		if updated == n {
			t.Errorf("arity %d: Update with new arguments should return a new node", k)
		}
		if !updated.Arguments().Equal(other) {
			t.Errorf("arity %d: updated arguments = %v, want %v", k, updated.Arguments(), other)
		}
		if updated.Binder() != binder || updated.DelegateType() != d {
			t.Errorf("arity %d: Update must keep binder and delegate type", k)
		}
	}
}

func TestUpdateWithEqualCopyRebuilds(t *testing.T) {
	n, err := MakeDynamic(objectFunc(2), callsite.NewBinder("op"), stringArgs(t, 2)...)
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	copied := ExpressionListOf(n.Arguments().Slice()...)
	updated, err := n.Update(copied)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == n || !updated.Arguments().Equal(n.Arguments()) {
		t.Errorf("a distinct but equal list should produce an equal new node")
	}
}

func TestRewriteValidates(t *testing.T) {
	d := typesystem.FuncDefs[3].MustMakeGenericType(typesystem.CallSite, typesystem.String, typesystem.Object)
	n, err := MakeDynamic(d, callsite.NewBinder("op"), mustConstant(t, "a", typesystem.String))
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	if _, err := n.Rewrite([]Expression{mustConstant(t, 1, typesystem.Int32)}); !errors.Is(err, ErrArgumentTypeMismatch) {
		t.Errorf("err = %v, want ErrArgumentTypeMismatch", err)
	}
	if _, err := n.Update(ExpressionListOf()); !errors.Is(err, ErrIncorrectArgumentCount) {
		t.Errorf("err = %v, want ErrIncorrectArgumentCount", err)
	}
}

func TestCreateCallSite(t *testing.T) {
	binder := callsite.NewBinder("GetMember Length")
	n, err := NewBuilder(nil).Dynamic(binder, typesystem.Int32, mustConstant(t, "abc", typesystem.String))
	if err != nil {
		t.Fatalf("Dynamic: %v", err)
	}
	site, err := n.CreateCallSite()
	if err != nil {
		t.Fatalf("CreateCallSite: %v", err)
	}
	if site.DelegateType() != n.DelegateType() || site.Binder() != binder {
		t.Errorf("site should be created from the node's delegate type and binder")
	}
}

func TestCallSitesDoNotPinPluginTypes(t *testing.T) {
	b := NewBuilder(nil)
	build := func(byRef bool) (weak.Pointer[typesystem.Type], weak.Pointer[typesystem.Type]) {
		plugin := typesystem.NewDynamicAssembly("plugin", true)
		widget := plugin.Define(typesystem.TypeSpec{Namespace: "Plugin", Name: "Widget", Kind: typesystem.KindClass})
		p, err := MakeParameter(widget, "w", byRef)
		if err != nil {
			t.Fatalf("MakeParameter: %v", err)
		}
		n, err := b.Dynamic(callsite.NewBinder("Invoke"), nil, p)
		if err != nil {
			t.Fatalf("Dynamic: %v", err)
		}
		if _, err := n.CreateCallSite(); err != nil {
			t.Fatalf("CreateCallSite: %v", err)
		}
		return weak.Make(widget), weak.Make(n.DelegateType())
	}

	tests := []struct {
		name  string
		byRef bool
	}{
		{"built-in delegate", false},
		{"synthesized delegate", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			widget, delegate := build(tt.byRef)
			runtime.GC()
			runtime.GC()
			if widget.Value() != nil {
				t.Errorf("plugin type is still reachable")
			}
			if delegate.Value() != nil {
				t.Errorf("delegate type over the plugin type is still reachable")
			}
		})
	}
	if b.Synthesizer().Cache().Len() != 0 {
		t.Errorf("plugin signatures must not be cached")
	}
}

func TestDynamicString(t *testing.T) {
	n, err := MakeDynamic(objectFunc(2), callsite.NewBinder("Concat"),
		mustConstant(t, "a", typesystem.String), mustConstant(t, nil, typesystem.String))
	if err != nil {
		t.Fatalf("MakeDynamic: %v", err)
	}
	if got, want := n.String(), `Dynamic(Concat)("a", null)`; got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}
