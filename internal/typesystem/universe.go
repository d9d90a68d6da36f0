package typesystem

import (
	"strconv"
	"strings"

	"github.com/funvibe/dynexpr/internal/config"
)

const (
	systemNamespace   = "System"
	genericNamespace  = "System.Collections.Generic"
	compilerNamespace = "System.Runtime.CompilerServices"
)

// Well-known assemblies.
var (
	CoreLib = NewAssembly(config.CoreLibAssemblyName)
	ExprLib = NewAssembly(config.ExprLibAssemblyName)
)

// Core library types.
var (
	Object            *Type
	ValueType         *Type
	Enum              *Type
	Void              *Type
	Boolean           *Type
	Char              *Type
	SByte             *Type
	Byte              *Type
	Int16             *Type
	UInt16            *Type
	Int32             *Type
	UInt32            *Type
	Int64             *Type
	UInt64            *Type
	Single            *Type
	Double            *Type
	Decimal           *Type
	DateTime          *Type
	String            *Type
	Array             *Type
	Delegate          *Type
	MulticastDelegate *Type
	Exception         *Type

	NullableDef    *Type // Nullable<T>
	IEnumerableDef *Type // IEnumerable<out T>
	IComparableDef *Type // IComparable<in T>
	IEquatableDef  *Type // IEquatable<T>

	// FuncDefs[n] is the Func definition taking n generic arguments
	// (n-1 parameters plus the result); index 0 is unused.
	FuncDefs [config.MaxGenericDelegateArity + 1]*Type
	// Action is the parameterless Action delegate. ActionDefs[n] takes n parameters.
	Action     *Type
	ActionDefs [config.MaxGenericDelegateArity]*Type
)

// Expression library types.
var (
	CallSite    *Type // the call-site handle every dynamic delegate receives first
	CallSiteDef *Type // CallSite<T>
)

var registry = map[string]*Type{}

func init() {
	Object = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "Object", Kind: KindClass})
	ValueType = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "ValueType", Kind: KindClass, Abstract: true})
	Enum = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "Enum", Kind: KindClass, Base: ValueType, Abstract: true})

	IEnumerableDef = CoreLib.Define(TypeSpec{Namespace: genericNamespace, Name: "IEnumerable`1", Kind: KindInterface,
		Generic: []GenericParam{{Name: "T", Variance: Covariant}}})
	IComparableDef = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "IComparable`1", Kind: KindInterface,
		Generic: []GenericParam{{Name: "T", Variance: Contravariant}}})
	IEquatableDef = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "IEquatable`1", Kind: KindInterface,
		Generic: []GenericParam{{Name: "T"}}})

	Void = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "Void", Kind: KindStruct})
	Boolean = primitive("Boolean", CodeBoolean)
	Char = primitive("Char", CodeChar)
	SByte = primitive("SByte", CodeSByte)
	Byte = primitive("Byte", CodeByte)
	Int16 = primitive("Int16", CodeInt16)
	UInt16 = primitive("UInt16", CodeUInt16)
	Int32 = primitive("Int32", CodeInt32)
	UInt32 = primitive("UInt32", CodeUInt32)
	Int64 = primitive("Int64", CodeInt64)
	UInt64 = primitive("UInt64", CodeUInt64)
	Single = primitive("Single", CodeSingle)
	Double = primitive("Double", CodeDouble)
	Decimal = primitive("Decimal", CodeDecimal)
	DateTime = primitive("DateTime", CodeDateTime)

	String = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "String", Kind: KindClass, Code: CodeString, Sealed: true})
	String.interfaces = []*Type{
		IEnumerableDef.MustMakeGenericType(Char),
		IComparableDef.MustMakeGenericType(String),
		IEquatableDef.MustMakeGenericType(String),
	}
	String.AddProperty(&Property{Name: "Length", Type: Int32, CanRead: true})

	Array = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "Array", Kind: KindClass, Abstract: true})
	Array.AddProperty(&Property{Name: "Length", Type: Int32, CanRead: true})
	Delegate = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "Delegate", Kind: KindClass, Abstract: true})
	MulticastDelegate = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "MulticastDelegate", Kind: KindClass, Base: Delegate, Abstract: true})
	Exception = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: "Exception", Kind: KindClass})
	Exception.AddProperty(&Property{Name: "Message", Type: String, CanRead: true})

	for _, t := range []*Type{Int32, Int64, Double, Char, Boolean} {
		t.interfaces = append(t.interfaces, IComparableDef.MustMakeGenericType(t), IEquatableDef.MustMakeGenericType(t))
	}

	NullableDef = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: config.NullableTypeName, Kind: KindStruct,
		Generic: []GenericParam{{Name: "T", ValueType: true}}})
	t := NullableDef.genericParams[0]
	NullableDef.AddProperty(&Property{Name: "HasValue", Type: Boolean, CanRead: true})
	NullableDef.AddProperty(&Property{Name: "Value", Type: t, CanRead: true})
	NullableDef.AddMethod(&Method{Name: config.OpImplicitName, Static: true, Return: NullableDef,
		Params: []*Parameter{{Name: "value", Type: t}}})
	NullableDef.AddMethod(&Method{Name: config.OpExplicitName, Static: true, Return: t,
		Params: []*Parameter{{Name: "value", Type: NullableDef}}})

	defineDelegateFamilies()

	CallSite = ExprLib.Define(TypeSpec{Namespace: compilerNamespace, Name: config.CallSiteTypeName, Kind: KindClass})
	CallSiteDef = ExprLib.Define(TypeSpec{Namespace: compilerNamespace, Name: config.CallSiteTypeName + "`1", Kind: KindClass,
		Base: CallSite, Sealed: true, Generic: []GenericParam{{Name: "T", ReferenceType: true}}})
	CallSiteDef.AddField(&Field{Name: "Target", Type: CallSiteDef.genericParams[0]})

	for _, t := range []*Type{Object, ValueType, Enum, Void, Boolean, Char, SByte, Byte, Int16, UInt16,
		Int32, UInt32, Int64, UInt64, Single, Double, Decimal, DateTime, String, Array, Delegate,
		MulticastDelegate, Exception, Action, CallSite} {
		register(t)
	}
	aliases := map[string]*Type{
		"object": Object, "void": Void, "bool": Boolean, "char": Char, "sbyte": SByte, "byte": Byte,
		"short": Int16, "ushort": UInt16, "int": Int32, "uint": UInt32, "long": Int64, "ulong": UInt64,
		"float": Single, "double": Double, "decimal": Decimal, "string": String,
	}
	for alias, t := range aliases {
		registry[alias] = t
	}
}

func primitive(name string, code TypeCode) *Type {
	return CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: name, Kind: KindStruct, Code: code})
}

func defineDelegateFamilies() {
	for n := 1; n <= config.MaxGenericDelegateArity; n++ {
		params := make([]GenericParam, n)
		for i := 0; i < n-1; i++ {
			params[i] = GenericParam{Name: "T" + strconv.Itoa(i+1), Variance: Contravariant}
		}
		params[n-1] = GenericParam{Name: "TResult", Variance: Covariant}
		def := CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: config.FuncTypeNamePrefix + strconv.Itoa(n),
			Kind: KindDelegate, Generic: params})
		def.DefineInvoke(def.genericParams[n-1], def.genericParams[:n-1]...)
		FuncDefs[n] = def
	}

	Action = CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: config.ActionTypeName, Kind: KindDelegate})
	Action.DefineInvoke(Void)
	for n := 1; n < config.MaxGenericDelegateArity; n++ {
		params := make([]GenericParam, n)
		for i := range params {
			params[i] = GenericParam{Name: "T" + strconv.Itoa(i+1), Variance: Contravariant}
		}
		def := CoreLib.Define(TypeSpec{Namespace: systemNamespace, Name: config.ActionTypeName + "`" + strconv.Itoa(n),
			Kind: KindDelegate, Generic: params})
		def.DefineInvoke(Void, def.genericParams...)
		ActionDefs[n] = def
	}
}

func register(t *Type) {
	registry[t.Name()] = t
	registry[t.FullName()] = t
}

// FuncType returns Func<args...>; the last argument is the result type.
func FuncType(args ...*Type) (*Type, error) {
	if len(args) == 0 || len(args) > config.MaxGenericDelegateArity {
		return nil, NewTypeError(FuncDefs[1], ErrGenericArityMismatch)
	}
	return FuncDefs[len(args)].MakeGenericType(args...)
}

// ActionType returns Action<args...>, or the non-generic Action for no arguments.
func ActionType(args ...*Type) (*Type, error) {
	if len(args) == 0 {
		return Action, nil
	}
	if len(args) >= config.MaxGenericDelegateArity {
		return nil, NewTypeError(ActionDefs[1], ErrGenericArityMismatch)
	}
	return ActionDefs[len(args)].MakeGenericType(args...)
}

// LookupType resolves a built-in type by name, full name or language alias.
// The suffixes "?" (nullable), "[]" (array) and "&" (by-ref) are understood.
func LookupType(name string) (*Type, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, NewTypeNotFoundError(name)
	case strings.HasSuffix(name, "&"):
		elem, err := LookupType(name[:len(name)-1])
		if err != nil {
			return nil, err
		}
		return elem.MakeByRefType(), nil
	case strings.HasSuffix(name, "[]"):
		elem, err := LookupType(name[:len(name)-2])
		if err != nil {
			return nil, err
		}
		return elem.MakeArrayType(1), nil
	case strings.HasSuffix(name, "?"):
		elem, err := LookupType(name[:len(name)-1])
		if err != nil {
			return nil, err
		}
		nt := GetNullableType(elem)
		if nt == elem {
			return nil, NewTypeError(elem, ErrInvalidGenericArgument)
		}
		return nt, nil
	}
	if t, ok := registry[name]; ok {
		return t, nil
	}
	return nil, NewTypeNotFoundError(name)
}
