package typesystem

import "github.com/funvibe/dynexpr/internal/config"

// GetUserDefinedCoercionMethod finds a static conversion operator from
// convertFrom to convertToType. Operators declared on either type are
// considered, first with the exact types and then lifted over Nullable.
// op_Explicit is only considered when implicitOnly is false.
// It returns nil when no operator exists.
func GetUserDefinedCoercionMethod(convertFrom, convertToType *Type, implicitOnly bool) *Method {
	nnExprType := GetNonNullableType(convertFrom)
	nnConvType := GetNonNullableType(convertToType)

	eMethods := staticMethods(nnExprType)
	if m := findConversionOperator(eMethods, convertFrom, convertToType, implicitOnly); m != nil {
		return m
	}
	cMethods := staticMethods(nnConvType)
	if m := findConversionOperator(cMethods, convertFrom, convertToType, implicitOnly); m != nil {
		return m
	}

	// lifted: T? -> U? through an operator on T -> U
	if !AreEquivalent(nnExprType, convertFrom) || !AreEquivalent(nnConvType, convertToType) {
		if m := findConversionOperator(eMethods, nnExprType, nnConvType, implicitOnly); m != nil {
			return m
		}
		if m := findConversionOperator(cMethods, nnExprType, nnConvType, implicitOnly); m != nil {
			return m
		}
	}
	return nil
}

// IsLiftedCoercion reports whether m converts between the non-nullable forms
// of the two types rather than the types themselves.
func IsLiftedCoercion(m *Method, convertFrom, convertToType *Type) bool {
	if m == nil || len(m.Params) != 1 {
		return false
	}
	return !AreEquivalent(m.Params[0].Type, convertFrom) || !AreEquivalent(m.Return, convertToType)
}

func staticMethods(t *Type) []*Method {
	var out []*Method
	for _, m := range t.Methods() {
		if m.Static {
			out = append(out, m)
		}
	}
	return out
}

func findConversionOperator(methods []*Method, typeFrom, typeTo *Type, implicitOnly bool) *Method {
	for _, m := range methods {
		if m.Name != config.OpImplicitName && (implicitOnly || m.Name != config.OpExplicitName) {
			continue
		}
		if len(m.Params) != 1 {
			continue
		}
		if !AreEquivalent(m.Return, typeTo) || !AreEquivalent(m.Params[0].Type, typeFrom) {
			continue
		}
		return m
	}
	return nil
}
