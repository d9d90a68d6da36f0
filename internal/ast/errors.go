package ast

import (
	"errors"
	"fmt"
)

var (
	ErrArgumentNil                 = errors.New("value cannot be nil")
	ErrTypeMustBeDelegate          = errors.New("type must be derived from Delegate")
	ErrFirstArgumentMustBeCallSite = errors.New("first argument of delegate must be CallSite")
	ErrIncorrectArgumentCount      = errors.New("incorrect number of arguments supplied for call")
	ErrArgumentCannotBeVoid        = errors.New("argument type cannot be Void")
	ErrArgumentTypeMismatch        = errors.New("expression type cannot be used for parameter type")
	ErrExpressionMustBeReadable    = errors.New("expression must be readable")
	ErrTypeMustNotBeByRef          = errors.New("type must not be ByRef")
	ErrLabelMustBeVoidOrHaveValue  = errors.New("label type must be Void if an expression is not supplied")
	ErrLabelTypeMismatch           = errors.New("expression type does not match label type")
	ErrMemberNotFieldOrProperty    = errors.New("member must be a field or property")
	ErrMemberNotWritable           = errors.New("member is not writable")
	ErrMemberTypeMismatch          = errors.New("argument types do not match")
	ErrPropertyHasNoAccessor       = errors.New("property has no get or set accessor")
	ErrStaticMemberWithInstance    = errors.New("static member requires nil instance")
	ErrInstanceRequired            = errors.New("instance member requires an instance")
	ErrMemberNotDefinedForType     = errors.New("member is not defined for type")
	ErrNilForValueType             = errors.New("nil is not a valid value for a non-nullable value type")
	ErrOutOfRange                  = errors.New("value out of range")
	ErrStartEndMustBeOrdered       = errors.New("start and end must be well ordered")
)

// ArgumentError reports which argument of a factory call was rejected.
type ArgumentError struct {
	Param string
	Index int // position within a variadic parameter, or -1
	Err   error
}

func (e *ArgumentError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s[%d]: %v", e.Param, e.Index, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Param, e.Err)
}

func (e *ArgumentError) Unwrap() error { return e.Err }

func newArgumentError(param string, index int, err error) *ArgumentError {
	var inner *ArgumentError
	if errors.As(err, &inner) && inner.Param == param && inner.Index == index {
		return inner
	}
	return &ArgumentError{Param: param, Index: index, Err: err}
}
