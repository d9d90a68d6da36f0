package typesystem

// IsSubclassOf reports whether c appears in the base-type chain of t.
// A type is not a subclass of itself.
func (t *Type) IsSubclassOf(c *Type) bool {
	if c == nil {
		return false
	}
	for b := t.base; b != nil; b = b.base {
		if AreEquivalent(b, c) {
			return true
		}
	}
	return false
}

// IsAssignableFrom reports whether a value of type c can be stored in a
// location of type t without conversion code, the way the runtime defines it:
// identity, base classes, implemented interfaces, boxing to a base, variance
// of generic interfaces and delegates, array covariance, and T to Nullable<T>.
func (t *Type) IsAssignableFrom(c *Type) bool {
	if c == nil {
		return false
	}
	if AreEquivalent(t, c) {
		return true
	}
	if t.IsByRef() || c.IsByRef() {
		return false
	}
	if c.IsSubclassOf(t) {
		return true
	}
	if t == Object && (c.IsInterface() || c.IsGenericParameter()) {
		return true
	}
	if t.IsInterface() {
		for _, iface := range c.allInterfaces() {
			if AreEquivalent(t, iface) || isVariantAssignable(t, iface) {
				return true
			}
		}
		return false
	}
	if IsNullableType(t) && AreEquivalent(t.genericArgs[0], c) {
		return true
	}
	if t.IsArray() && c.IsArray() && t.rank == c.rank {
		te, ce := t.elem, c.elem
		if ce.IsValueType() || te.IsValueType() {
			return AreEquivalent(te, ce)
		}
		return te.IsAssignableFrom(ce)
	}
	if c.IsGenericParameter() {
		// an unconstrained parameter is only known to derive from its base
		return c.base != nil && t.IsAssignableFrom(c.base)
	}
	if IsDelegate(t) {
		return isVariantAssignable(t, c)
	}
	return false
}

// allInterfaces returns the interfaces implemented by t and its bases,
// including interfaces inherited by those interfaces.
func (t *Type) allInterfaces() []*Type {
	var out []*Type
	seen := make(map[*Type]bool)
	var walk func(*Type)
	walk = func(i *Type) {
		if seen[i] {
			return
		}
		seen[i] = true
		out = append(out, i)
		for _, parent := range i.interfaces {
			walk(parent)
		}
	}
	for c := t; c != nil; c = c.base {
		if c.IsInterface() {
			walk(c)
		}
		for _, i := range c.interfaces {
			walk(i)
		}
	}
	return out
}

// isVariantAssignable reports whether from converts to `to` through declared
// variance: both must be instantiations of the same generic definition.
func isVariantAssignable(to, from *Type) bool {
	if to.genericDef == nil || from.genericDef == nil || to.genericDef != from.genericDef {
		return false
	}
	params := to.genericDef.genericParams
	for i, p := range params {
		ta, fa := to.genericArgs[i], from.genericArgs[i]
		if AreEquivalent(ta, fa) {
			continue
		}
		switch p.variance {
		case Covariant:
			if fa.IsValueType() || ta.IsValueType() || !ta.IsAssignableFrom(fa) {
				return false
			}
		case Contravariant:
			if fa.IsValueType() || ta.IsValueType() || !fa.IsAssignableFrom(ta) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
