package typesystem

// AreEquivalent reports whether two types denote the same type. Interned types
// compare by pointer; constructed types also compare structurally so that an
// instantiation built outside the intern tables still matches.
func AreEquivalent(t1, t2 *Type) bool {
	if t1 == t2 {
		return true
	}
	if t1 == nil || t2 == nil || t1.kind != t2.kind {
		return false
	}
	switch {
	case t1.kind == KindByRef:
		return AreEquivalent(t1.elem, t2.elem)
	case t1.kind == KindArray:
		return t1.rank == t2.rank && AreEquivalent(t1.elem, t2.elem)
	case t1.genericDef != nil && t2.genericDef != nil:
		if t1.genericDef != t2.genericDef {
			return false
		}
		for i := range t1.genericArgs {
			if !AreEquivalent(t1.genericArgs[i], t2.genericArgs[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// AreReferenceAssignable reports whether a value of type src can be used
// where dest is expected without any conversion: identity, or a reference
// type assignable to another reference type.
func AreReferenceAssignable(dest, src *Type) bool {
	if AreEquivalent(dest, src) {
		return true
	}
	return !dest.IsValueType() && !src.IsValueType() && dest.IsAssignableFrom(src)
}

// IsSameOrSubclass reports whether subType is t or derives from it.
func IsSameOrSubclass(t, subType *Type) bool {
	return AreEquivalent(t, subType) || subType.IsSubclassOf(t)
}

// IsDelegate reports whether t is a concrete delegate type.
func IsDelegate(t *Type) bool {
	return t != nil && t.IsSubclassOf(MulticastDelegate)
}

// ValidateType rejects types that cannot describe a value: open generic
// definitions and types that still contain generic parameters.
func ValidateType(t *Type) error {
	if t.IsGenericTypeDefinition() {
		return NewTypeError(t, ErrTypeIsGeneric)
	}
	if t.ContainsGenericParameters() {
		return NewTypeError(t, ErrTypeContainsGenericParameters)
	}
	return nil
}

// IsValidInstanceType reports whether a value of instanceType can be the
// receiver of a member declared on declaring.
func IsValidInstanceType(declaring, instanceType *Type) bool {
	if AreReferenceAssignable(declaring, instanceType) {
		return true
	}
	if instanceType.IsValueType() {
		if AreReferenceAssignable(declaring, Object) || AreReferenceAssignable(declaring, ValueType) {
			return true
		}
		if instanceType.IsEnum() && AreReferenceAssignable(declaring, Enum) {
			return true
		}
		// interface members of a struct are callable boxed or unboxed
		if declaring.IsInterface() {
			for _, iface := range instanceType.allInterfaces() {
				if AreReferenceAssignable(declaring, iface) {
					return true
				}
			}
		}
	}
	return false
}

// Nullable helpers

func IsNullableType(t *Type) bool {
	return t != nil && t.genericDef != nil && t.genericDef == NullableDef
}

// GetNonNullableType strips one level of Nullable<T>.
func GetNonNullableType(t *Type) *Type {
	if IsNullableType(t) {
		return t.genericArgs[0]
	}
	return t
}

// GetNullableType wraps a non-nullable value type in Nullable<T>; other types
// are returned unchanged.
func GetNullableType(t *Type) *Type {
	if t.IsValueType() && !IsNullableType(t) && t != Void && !t.ContainsGenericParameters() {
		return NullableDef.MustMakeGenericType(t)
	}
	return t
}

// Classification of primitive shapes. Enums are excluded.

func IsBool(t *Type) bool {
	return GetNonNullableType(t) == Boolean
}

func IsNumeric(t *Type) bool {
	t = GetNonNullableType(t)
	if t.IsEnum() {
		return false
	}
	switch t.code {
	case CodeChar, CodeSByte, CodeByte, CodeInt16, CodeInt32, CodeInt64,
		CodeDouble, CodeSingle, CodeUInt16, CodeUInt32, CodeUInt64:
		return t.kind == KindStruct
	}
	return false
}

func IsInteger(t *Type) bool {
	t = GetNonNullableType(t)
	if t.IsEnum() {
		return false
	}
	switch t.code {
	case CodeByte, CodeSByte, CodeInt16, CodeInt32, CodeInt64, CodeUInt16, CodeUInt32, CodeUInt64:
		return t.kind == KindStruct
	}
	return false
}

func IsArithmetic(t *Type) bool {
	t = GetNonNullableType(t)
	if t.IsEnum() {
		return false
	}
	switch t.code {
	case CodeInt16, CodeInt32, CodeInt64, CodeDouble, CodeSingle, CodeUInt16, CodeUInt32, CodeUInt64:
		return t.kind == KindStruct
	}
	return false
}

func IsUnsignedInt(t *Type) bool {
	t = GetNonNullableType(t)
	if t.IsEnum() {
		return false
	}
	switch t.code {
	case CodeUInt16, CodeUInt32, CodeUInt64:
		return t.kind == KindStruct
	}
	return false
}

// isConvertible reports whether the runtime has a primitive conversion for t.
func isConvertible(t *Type) bool {
	t = GetNonNullableType(t)
	if t.IsEnum() {
		return true
	}
	if t.kind != KindStruct {
		return false
	}
	switch t.code {
	case CodeBoolean, CodeByte, CodeSByte, CodeInt16, CodeInt32, CodeInt64,
		CodeUInt16, CodeUInt32, CodeUInt64, CodeSingle, CodeDouble, CodeChar:
		return true
	}
	return false
}

// implicitNumeric is the implicit numeric conversion table: for each source
// code, the destination codes reachable without an explicit cast.
var implicitNumeric = map[TypeCode][]TypeCode{
	CodeSByte:  {CodeInt16, CodeInt32, CodeInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeByte:   {CodeInt16, CodeUInt16, CodeInt32, CodeUInt32, CodeInt64, CodeUInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeInt16:  {CodeInt32, CodeInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeUInt16: {CodeInt32, CodeUInt32, CodeInt64, CodeUInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeInt32:  {CodeInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeUInt32: {CodeUInt32, CodeUInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeInt64:  {CodeSingle, CodeDouble, CodeDecimal},
	CodeUInt64: {CodeSingle, CodeDouble, CodeDecimal},
	CodeChar:   {CodeUInt16, CodeInt32, CodeUInt32, CodeInt64, CodeUInt64, CodeSingle, CodeDouble, CodeDecimal},
	CodeSingle: {CodeDouble},
}

// IsImplicitNumericConversion consults the implicit numeric conversion table.
// Only the built-in numeric structs take part; enums never do.
func IsImplicitNumericConversion(source, dest *Type) bool {
	if source.kind != KindStruct || dest.kind != KindStruct {
		return false
	}
	for _, code := range implicitNumeric[source.code] {
		if code == dest.code {
			return true
		}
	}
	return false
}

// IsImplicitReferenceConversion covers reference-to-reference assignability.
// Value types take the boxing or nullable routes instead.
func IsImplicitReferenceConversion(source, dest *Type) bool {
	if source.IsValueType() || dest.IsValueType() {
		return false
	}
	return dest.IsAssignableFrom(source)
}

// IsImplicitBoxingConversion covers value type to object or ValueType, and
// enum to Enum. Boxing to an implemented interface is not implicit here.
func IsImplicitBoxingConversion(source, dest *Type) bool {
	if !source.IsValueType() {
		return false
	}
	if dest == Object || dest == ValueType {
		return true
	}
	return source.IsEnum() && dest == Enum
}

// IsImplicitNullableConversion covers T to Nullable<U> when T converts to U.
func IsImplicitNullableConversion(source, dest *Type) bool {
	if IsNullableType(dest) {
		return IsImplicitlyConvertible(GetNonNullableType(source), GetNonNullableType(dest))
	}
	return false
}

// IsImplicitlyConvertible reports whether the language would convert source
// to dest without a cast and without user-defined operators.
func IsImplicitlyConvertible(source, dest *Type) bool {
	return AreEquivalent(source, dest) ||
		IsImplicitNumericConversion(source, dest) ||
		IsImplicitReferenceConversion(source, dest) ||
		IsImplicitBoxingConversion(source, dest) ||
		IsImplicitNullableConversion(source, dest)
}

// HasIdentityPrimitiveOrNullableConversion reports whether a conversion
// between the two types is identity, a nullable wrap/unwrap, or a primitive
// runtime conversion (never to bool).
func HasIdentityPrimitiveOrNullableConversion(source, dest *Type) bool {
	if AreEquivalent(source, dest) {
		return true
	}
	if IsNullableType(source) && AreEquivalent(dest, GetNonNullableType(source)) {
		return true
	}
	if IsNullableType(dest) && AreEquivalent(source, GetNonNullableType(dest)) {
		return true
	}
	if isConvertible(source) && isConvertible(dest) && GetNonNullableType(dest) != Boolean {
		return true
	}
	return false
}

// HasReferenceConversion reports whether a reference (possibly explicit)
// conversion exists between the two types.
func HasReferenceConversion(source, dest *Type) bool {
	if source == Void || dest == Void {
		return false
	}
	nnSource := GetNonNullableType(source)
	nnDest := GetNonNullableType(dest)

	if nnSource.IsAssignableFrom(nnDest) || nnDest.IsAssignableFrom(nnSource) {
		return true
	}
	if source.IsInterface() || dest.IsInterface() {
		return true
	}
	if IsLegalExplicitVariantDelegateConversion(source, dest) {
		return true
	}
	return source == Object || dest == Object
}

// IsLegalExplicitVariantDelegateConversion reports whether two closed
// instantiations of the same generic delegate convert into each other:
// invariant parameters need identical arguments, covariant ones a reference
// conversion, contravariant ones identical arguments or two reference types.
func IsLegalExplicitVariantDelegateConversion(source, dest *Type) bool {
	if !IsDelegate(source) || !IsDelegate(dest) || source.genericDef == nil || dest.genericDef == nil {
		return false
	}
	def := source.genericDef
	if dest.genericDef != def {
		return false
	}
	for i, p := range def.genericParams {
		sa, da := source.genericArgs[i], dest.genericArgs[i]
		if AreEquivalent(sa, da) {
			continue
		}
		switch p.variance {
		case Invariant:
			return false
		case Covariant:
			if !HasReferenceConversion(sa, da) {
				return false
			}
		case Contravariant:
			if sa.IsValueType() || da.IsValueType() {
				return false
			}
		}
	}
	return true
}

// HasBuiltInEqualityOperator reports whether == between the two types needs
// no user-defined operator.
func HasBuiltInEqualityOperator(left, right *Type) bool {
	// interface against a reference type: reference equality
	if left.IsInterface() && !right.IsValueType() {
		return true
	}
	if right.IsInterface() && !left.IsValueType() {
		return true
	}
	if !left.IsValueType() && !right.IsValueType() {
		if AreReferenceAssignable(left, right) || AreReferenceAssignable(right, left) {
			return true
		}
	}
	if !AreEquivalent(left, right) {
		return false
	}
	// identical value types: only bools, numerics, enums and their nullables
	nn := GetNonNullableType(left)
	return nn == Boolean || IsNumeric(nn) || nn.IsEnum()
}
