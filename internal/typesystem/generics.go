package typesystem

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// MakeGenericType closes a generic definition over the given arguments.
// Instantiations are interned: the same arguments yield the same *Type.
// Instantiations over collectible types are not interned, so the definition
// never keeps an unloadable assembly alive; they still compare equal through
// AreEquivalent and share a GUID.
func (t *Type) MakeGenericType(args ...*Type) (*Type, error) {
	if !t.IsGenericTypeDefinition() {
		return nil, NewTypeError(t, ErrNotGenericDefinition)
	}
	if len(args) != len(t.genericParams) {
		return nil, NewTypeError(t, ErrGenericArityMismatch)
	}
	for i, a := range args {
		if a == nil || a.IsByRef() || a == Void {
			return nil, NewTypeError(t, ErrInvalidGenericArgument)
		}
		p := t.genericParams[i]
		if p.refConstraint && a.IsValueType() {
			return nil, NewTypeError(a, ErrInvalidGenericArgument)
		}
		if p.valConstraint && (!a.IsValueType() || IsNullableType(a)) {
			return nil, NewTypeError(a, ErrInvalidGenericArgument)
		}
	}

	key := identityKey(args)
	interned := true
	for _, a := range args {
		if a.IsCollectible() {
			interned = false
			break
		}
	}
	if !interned {
		return t.instantiate(args, key), nil
	}

	t.mu.Lock()
	inst, ok := t.instances[key]
	t.mu.Unlock()
	if ok {
		return inst, nil
	}

	// built outside the lock: substituting the base type may instantiate other generics
	inst = t.instantiate(args, key)

	t.mu.Lock()
	defer t.mu.Unlock()
	if existing, ok := t.instances[key]; ok {
		return existing, nil
	}
	if t.instances == nil {
		t.instances = make(map[string]*Type)
	}
	t.instances[key] = inst
	return inst, nil
}

func (t *Type) instantiate(args []*Type, key string) *Type {
	inst := &Type{
		name:        t.name,
		namespace:   t.namespace,
		assembly:    t.assembly,
		kind:        t.kind,
		code:        t.code,
		guid:        uuid.NewSHA1(t.guid, []byte(key)),
		underlying:  t.underlying,
		sealed:      t.sealed,
		abstract:    t.abstract,
		genericDef:  t,
		genericArgs: append([]*Type(nil), args...),
	}
	m := inst.substitution()
	inst.base = substitute(t.base, m)
	for _, iface := range t.interfaces {
		inst.interfaces = append(inst.interfaces, substitute(iface, m))
	}
	return inst
}

// MustMakeGenericType is like MakeGenericType but panics on error.
// It is meant for package-level type declarations.
func (t *Type) MustMakeGenericType(args ...*Type) *Type {
	inst, err := t.MakeGenericType(args...)
	if err != nil {
		panic(err)
	}
	return inst
}

// MakeByRefType returns the by-reference type whose element is t.
func (t *Type) MakeByRefType() *Type {
	if r := t.byRef.Load(); r != nil {
		return r
	}
	r := &Type{
		name:     t.name + "&",
		assembly: t.assembly,
		kind:     KindByRef,
		code:     CodeObject,
		guid:     uuid.NewSHA1(t.guid, []byte("&")),
		elem:     t,
	}
	if t.byRef.CompareAndSwap(nil, r) {
		return r
	}
	return t.byRef.Load()
}

// MakeArrayType returns the array type with the given rank whose element is t.
func (t *Type) MakeArrayType(rank int) *Type {
	if rank < 1 {
		rank = 1
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if a, ok := t.arrays[rank]; ok {
		return a
	}
	a := &Type{
		name:     t.name + "[" + strings.Repeat(",", rank-1) + "]",
		assembly: t.assembly,
		kind:     KindArray,
		code:     CodeObject,
		guid:     uuid.NewSHA1(t.guid, []byte("[]"+strconv.Itoa(rank))),
		base:     Array,
		elem:     t,
		rank:     rank,
		sealed:   true,
	}
	if t.arrays == nil {
		t.arrays = make(map[int]*Type)
	}
	t.arrays[rank] = a
	return a
}

// identityKey builds a key from type identities. Interned types have stable
// GUIDs, so equal keys mean identical argument lists.
func identityKey(types []*Type) string {
	var sb strings.Builder
	for i, a := range types {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(a.guid.String())
	}
	return sb.String()
}

// IdentityKey returns a string that identifies the ordered list of types.
func IdentityKey(types ...*Type) string {
	return identityKey(types)
}

func (t *Type) substitution() map[*Type]*Type {
	m := make(map[*Type]*Type, len(t.genericArgs))
	for i, p := range t.genericDef.genericParams {
		m[p] = t.genericArgs[i]
	}
	return m
}

// substitute replaces generic parameters in t according to m.
func substitute(t *Type, m map[*Type]*Type) *Type {
	if t == nil {
		return nil
	}
	switch {
	case t.kind == KindGenericParameter:
		if r, ok := m[t]; ok {
			return r
		}
		return t
	case t.kind == KindByRef:
		return substitute(t.elem, m).MakeByRefType()
	case t.kind == KindArray:
		return substitute(t.elem, m).MakeArrayType(t.rank)
	case t.genericDef != nil:
		changed := false
		args := make([]*Type, len(t.genericArgs))
		for i, a := range t.genericArgs {
			args[i] = substitute(a, m)
			changed = changed || args[i] != a
		}
		if !changed {
			return t
		}
		return t.genericDef.MustMakeGenericType(args...)
	case t.IsGenericTypeDefinition():
		// a definition referenced from inside itself, e.g. Nullable<T> in op_Implicit
		args := make([]*Type, len(t.genericParams))
		changed := false
		for i, p := range t.genericParams {
			args[i] = substitute(p, m)
			changed = changed || args[i] != p
		}
		if !changed {
			return t
		}
		return t.MustMakeGenericType(args...)
	}
	return t
}

func (t *Type) instantiateMembers() {
	def := t.genericDef
	m := t.substitution()
	for _, f := range def.fields {
		t.fields = append(t.fields, &Field{
			Name:          f.Name,
			Type:          substitute(f.Type, m),
			Static:        f.Static,
			InitOnly:      f.InitOnly,
			Literal:       f.Literal,
			DeclaringType: t,
		})
	}
	for _, p := range def.properties {
		t.properties = append(t.properties, &Property{
			Name:          p.Name,
			Type:          substitute(p.Type, m),
			CanRead:       p.CanRead,
			CanWrite:      p.CanWrite,
			Static:        p.Static,
			DeclaringType: t,
		})
	}
	for _, meth := range def.methods {
		inst := &Method{
			Name:          meth.Name,
			Static:        meth.Static,
			Return:        substitute(meth.Return, m),
			DeclaringType: t,
		}
		for _, p := range meth.Params {
			inst.Params = append(inst.Params, &Parameter{Name: p.Name, Type: substitute(p.Type, m)})
		}
		t.methods = append(t.methods, inst)
	}
}
