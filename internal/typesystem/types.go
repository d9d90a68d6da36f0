package typesystem

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/funvibe/dynexpr/internal/config"
	"github.com/google/uuid"
)

// Assembly is the unit that owns types. Whether a type may be cached for the
// lifetime of the process depends on the assemblies it is drawn from.
type Assembly struct {
	Name          string
	IsDynamic     bool // created at run time (synthesized types live here)
	IsCollectible bool // may be unloaded; must never be pinned by a cache
}

// NewAssembly creates an assembly for ordinary (statically loaded) code.
func NewAssembly(name string) *Assembly {
	return &Assembly{Name: name}
}

// NewDynamicAssembly creates an assembly for types emitted at run time.
func NewDynamicAssembly(name string, collectible bool) *Assembly {
	return &Assembly{Name: name, IsDynamic: true, IsCollectible: collectible}
}

func (a *Assembly) String() string {
	if a == nil {
		return "<nil>"
	}
	return a.Name
}

// GenericParam describes a type parameter of a generic definition.
type GenericParam struct {
	Name     string
	Variance Variance
	// ReferenceType corresponds to a `class` constraint.
	ReferenceType bool
	// ValueType corresponds to a `struct` constraint.
	ValueType bool
}

// TypeSpec is the input to Assembly.Define.
type TypeSpec struct {
	Namespace  string
	Name       string
	Kind       TypeKind
	Base       *Type // defaulted from Kind when nil
	Interfaces []*Type
	Underlying *Type // enums only
	Code       TypeCode
	Sealed     bool
	Abstract   bool
	Generic    []GenericParam
}

// Type is a nominal runtime type. Pointer identity is type identity; closed
// generic instantiations, by-ref and array types are interned so that
// constructing the same type twice yields the same pointer. Generic
// instantiations over collectible types are the exception; compare those
// with AreEquivalent.
type Type struct {
	name      string
	namespace string
	assembly  *Assembly
	kind      TypeKind
	code      TypeCode
	guid      uuid.UUID

	base       *Type
	interfaces []*Type
	underlying *Type
	elem       *Type
	rank       int
	sealed     bool
	abstract   bool

	genericParams []*Type
	genericDef    *Type
	genericArgs   []*Type

	// generic parameters only
	position      int
	variance      Variance
	refConstraint bool
	valConstraint bool
	declaring     *Type

	fields     []*Field
	properties []*Property
	methods    []*Method

	// closed instantiations compute their members from the definition on first use
	membersOnce sync.Once

	mu        sync.Mutex
	instances map[string]*Type
	arrays    map[int]*Type
	byRef     atomic.Pointer[Type]
}

// Define creates a new type owned by the assembly.
func (a *Assembly) Define(spec TypeSpec) *Type {
	t := &Type{
		name:       spec.Name,
		namespace:  spec.Namespace,
		assembly:   a,
		kind:       spec.Kind,
		code:       spec.Code,
		guid:       uuid.New(),
		base:       spec.Base,
		interfaces: append([]*Type(nil), spec.Interfaces...),
		underlying: spec.Underlying,
		sealed:     spec.Sealed,
		abstract:   spec.Abstract,
	}
	if t.base == nil {
		t.base = defaultBase(spec.Kind)
	}
	if t.code == CodeEmpty {
		t.code = CodeObject
	}
	if spec.Kind == KindEnum && spec.Underlying != nil {
		t.code = spec.Underlying.code
	}
	if spec.Kind == KindStruct || spec.Kind == KindEnum || spec.Kind == KindDelegate {
		t.sealed = true
	}
	for i, gp := range spec.Generic {
		t.genericParams = append(t.genericParams, &Type{
			name:          gp.Name,
			assembly:      a,
			kind:          KindGenericParameter,
			code:          CodeObject,
			guid:          uuid.New(),
			base:          Object,
			position:      i,
			variance:      gp.Variance,
			refConstraint: gp.ReferenceType,
			valConstraint: gp.ValueType,
			declaring:     t,
		})
	}
	return t
}

func defaultBase(kind TypeKind) *Type {
	switch kind {
	case KindClass:
		return Object
	case KindStruct:
		return ValueType
	case KindEnum:
		return Enum
	case KindDelegate:
		return MulticastDelegate
	}
	return nil
}

func (t *Type) Name() string        { return t.name }
func (t *Type) Namespace() string   { return t.namespace }
func (t *Type) Assembly() *Assembly { return t.assembly }
func (t *Type) Kind() TypeKind      { return t.kind }
func (t *Type) GUID() uuid.UUID     { return t.guid }
func (t *Type) BaseType() *Type     { return t.base }
func (t *Type) IsSealed() bool      { return t.sealed }
func (t *Type) IsAbstract() bool    { return t.abstract }
func (t *Type) ArrayRank() int      { return t.rank }
func (t *Type) Interfaces() []*Type { return append([]*Type(nil), t.interfaces...) }
func (t *Type) ElementType() *Type  { return t.elem }
func (t *Type) IsByRef() bool       { return t.kind == KindByRef }
func (t *Type) IsArray() bool       { return t.kind == KindArray }
func (t *Type) IsInterface() bool   { return t.kind == KindInterface }
func (t *Type) IsEnum() bool        { return t.kind == KindEnum }

// IsCollectible reports whether t, its element type or any of its generic
// arguments belongs to a collectible assembly.
func (t *Type) IsCollectible() bool {
	if t == nil {
		return false
	}
	if t.assembly != nil && t.assembly.IsCollectible {
		return true
	}
	if t.elem != nil && t.elem.IsCollectible() {
		return true
	}
	for _, a := range t.genericArgs {
		if a.IsCollectible() {
			return true
		}
	}
	return false
}

func (t *Type) IsGenericParameter() bool {
	return t.kind == KindGenericParameter
}

// TypeCode returns the primitive code; enums report their underlying code.
func (t *Type) TypeCode() TypeCode { return t.code }

// EnumUnderlyingType returns the integral type behind an enum, or nil.
func (t *Type) EnumUnderlyingType() *Type { return t.underlying }

// IsValueType reports whether values of t are copied rather than referenced.
func (t *Type) IsValueType() bool {
	switch t.kind {
	case KindStruct, KindEnum:
		return true
	case KindGenericParameter:
		return t.valConstraint
	}
	return false
}

// IsClass reports whether t is a reference type that is not an interface.
func (t *Type) IsClass() bool {
	switch t.kind {
	case KindClass, KindDelegate, KindArray:
		return true
	}
	return false
}

// IsPrimitive reports whether t is one of the built-in scalar types.
func (t *Type) IsPrimitive() bool {
	if t.kind != KindStruct {
		return false
	}
	switch t.code {
	case CodeBoolean, CodeChar, CodeSByte, CodeByte, CodeInt16, CodeUInt16,
		CodeInt32, CodeUInt32, CodeInt64, CodeUInt64, CodeSingle, CodeDouble:
		return true
	}
	return false
}

// GenericParameterPosition is the index of a generic parameter in its definition.
func (t *Type) GenericParameterPosition() int { return t.position }

// GenericParameterVariance is the declared variance of a generic parameter.
func (t *Type) GenericParameterVariance() Variance { return t.variance }

// HasReferenceTypeConstraint reports a `class` constraint on a generic parameter.
func (t *Type) HasReferenceTypeConstraint() bool { return t.refConstraint }

// HasValueTypeConstraint reports a `struct` constraint on a generic parameter.
func (t *Type) HasValueTypeConstraint() bool { return t.valConstraint }

// IsGenericTypeDefinition reports whether t is an open generic definition.
func (t *Type) IsGenericTypeDefinition() bool {
	return len(t.genericParams) > 0 && t.genericDef == nil
}

// IsGenericType reports whether t is a generic definition or an instantiation of one.
func (t *Type) IsGenericType() bool {
	return t.IsGenericTypeDefinition() || t.genericDef != nil
}

// GenericTypeDefinition returns the definition t was instantiated from, or t
// itself when t is a definition. It returns nil for non-generic types.
func (t *Type) GenericTypeDefinition() *Type {
	if t.genericDef != nil {
		return t.genericDef
	}
	if t.IsGenericTypeDefinition() {
		return t
	}
	return nil
}

// GenericArguments returns the type arguments of a closed instantiation, or
// the generic parameters of a definition.
func (t *Type) GenericArguments() []*Type {
	if t.genericDef != nil {
		return append([]*Type(nil), t.genericArgs...)
	}
	return append([]*Type(nil), t.genericParams...)
}

// ContainsGenericParameters reports whether t cannot be instantiated because
// some part of it is still an open generic parameter.
func (t *Type) ContainsGenericParameters() bool {
	switch {
	case t.kind == KindGenericParameter:
		return true
	case t.IsGenericTypeDefinition():
		return true
	case t.elem != nil:
		return t.elem.ContainsGenericParameters()
	}
	for _, a := range t.genericArgs {
		if a.ContainsGenericParameters() {
			return true
		}
	}
	return false
}

// FullName returns the namespace-qualified name.
func (t *Type) FullName() string {
	if t.namespace == "" {
		return t.String()
	}
	return t.namespace + "." + t.String()
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case KindByRef:
		return t.elem.String() + "&"
	case KindArray:
		return t.elem.String() + "[" + strings.Repeat(",", t.rank-1) + "]"
	}
	name := t.name
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	var args []*Type
	if t.genericDef != nil {
		args = t.genericArgs
	} else {
		args = t.genericParams
	}
	if len(args) == 0 {
		return name
	}
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return name + "<" + strings.Join(parts, ", ") + ">"
}

// Parameter is a formal parameter of a method.
type Parameter struct {
	Name string
	Type *Type
}

// Method is a member that can be invoked. Only the parts relevant to
// signature checks and conversion-operator lookup are modelled.
type Method struct {
	Name          string
	Static        bool
	Params        []*Parameter
	Return        *Type
	DeclaringType *Type
}

// Field is a data member.
type Field struct {
	Name          string
	Type          *Type
	Static        bool
	InitOnly      bool
	Literal       bool
	DeclaringType *Type
}

// Property is an accessor-backed member.
type Property struct {
	Name          string
	Type          *Type
	CanRead       bool
	CanWrite      bool
	Static        bool
	DeclaringType *Type
}

// Member is a field or property.
type Member interface {
	MemberName() string
	MemberDeclaringType() *Type
}

func (f *Field) MemberName() string            { return f.Name }
func (f *Field) MemberDeclaringType() *Type    { return f.DeclaringType }
func (p *Property) MemberName() string         { return p.Name }
func (p *Property) MemberDeclaringType() *Type { return p.DeclaringType }

// AddField declares a field on t. Members must be declared before t is instantiated.
func (t *Type) AddField(f *Field) *Field {
	f.DeclaringType = t
	t.fields = append(t.fields, f)
	return f
}

// AddProperty declares a property on t.
func (t *Type) AddProperty(p *Property) *Property {
	p.DeclaringType = t
	t.properties = append(t.properties, p)
	return p
}

// AddMethod declares a method on t.
func (t *Type) AddMethod(m *Method) *Method {
	m.DeclaringType = t
	t.methods = append(t.methods, m)
	return m
}

// DefineInvoke declares the Invoke method of a delegate type.
func (t *Type) DefineInvoke(ret *Type, params ...*Type) *Method {
	m := &Method{Name: config.InvokeMethodName, Return: ret}
	for i, p := range params {
		m.Params = append(m.Params, &Parameter{Name: argName(i), Type: p})
	}
	return t.AddMethod(m)
}

func argName(i int) string {
	return "arg" + strconv.Itoa(i)
}

func (t *Type) ensureMembers() {
	if t.genericDef == nil {
		return
	}
	t.membersOnce.Do(t.instantiateMembers)
}

// Fields returns the declared fields.
func (t *Type) Fields() []*Field {
	t.ensureMembers()
	return append([]*Field(nil), t.fields...)
}

// Properties returns the declared properties.
func (t *Type) Properties() []*Property {
	t.ensureMembers()
	return append([]*Property(nil), t.properties...)
}

// Methods returns the declared methods.
func (t *Type) Methods() []*Method {
	t.ensureMembers()
	return append([]*Method(nil), t.methods...)
}

// Field looks up a field by name, searching base types.
func (t *Type) Field(name string) *Field {
	for c := t; c != nil; c = c.base {
		c.ensureMembers()
		for _, f := range c.fields {
			if f.Name == name {
				return f
			}
		}
	}
	return nil
}

// Property looks up a property by name, searching base types.
func (t *Type) Property(name string) *Property {
	for c := t; c != nil; c = c.base {
		c.ensureMembers()
		for _, p := range c.properties {
			if p.Name == name {
				return p
			}
		}
	}
	return nil
}

// Method looks up the first method with the given name declared on t.
func (t *Type) Method(name string) *Method {
	t.ensureMembers()
	for _, m := range t.methods {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// InvokeMethod returns the Invoke signature of a delegate type, or nil.
func (t *Type) InvokeMethod() *Method {
	if !IsDelegate(t) {
		return nil
	}
	return t.Method(config.InvokeMethodName)
}
