package typesystem

// TypeKind classifies a Type.
type TypeKind int

const (
	KindClass TypeKind = iota
	KindStruct
	KindEnum
	KindInterface
	KindDelegate
	KindGenericParameter
	KindArray
	KindByRef
)

func (k TypeKind) String() string {
	switch k {
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindEnum:
		return "enum"
	case KindInterface:
		return "interface"
	case KindDelegate:
		return "delegate"
	case KindGenericParameter:
		return "generic parameter"
	case KindArray:
		return "array"
	case KindByRef:
		return "byref"
	}
	return "unknown"
}

// TypeCode identifies the primitive shape of a type. Non-primitive types
// report CodeObject; enums report the code of their underlying type.
type TypeCode int

const (
	CodeEmpty TypeCode = iota
	CodeObject
	CodeBoolean
	CodeChar
	CodeSByte
	CodeByte
	CodeInt16
	CodeUInt16
	CodeInt32
	CodeUInt32
	CodeInt64
	CodeUInt64
	CodeSingle
	CodeDouble
	CodeDecimal
	CodeDateTime
	CodeString
)

var typeCodeNames = [...]string{
	CodeEmpty:    "Empty",
	CodeObject:   "Object",
	CodeBoolean:  "Boolean",
	CodeChar:     "Char",
	CodeSByte:    "SByte",
	CodeByte:     "Byte",
	CodeInt16:    "Int16",
	CodeUInt16:   "UInt16",
	CodeInt32:    "Int32",
	CodeUInt32:   "UInt32",
	CodeInt64:    "Int64",
	CodeUInt64:   "UInt64",
	CodeSingle:   "Single",
	CodeDouble:   "Double",
	CodeDecimal:  "Decimal",
	CodeDateTime: "DateTime",
	CodeString:   "String",
}

func (c TypeCode) String() string {
	if c >= 0 && int(c) < len(typeCodeNames) {
		return typeCodeNames[c]
	}
	return "Unknown"
}

// Variance of a generic type parameter.
type Variance int

const (
	Invariant     Variance = iota
	Covariant              // out T
	Contravariant          // in T
)

func (v Variance) String() string {
	switch v {
	case Covariant:
		return "out"
	case Contravariant:
		return "in"
	}
	return ""
}
