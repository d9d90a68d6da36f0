package typesystem

import (
	"errors"
	"fmt"
)

var (
	ErrTypeIsGeneric                 = errors.New("type is a generic type definition")
	ErrTypeContainsGenericParameters = errors.New("type contains generic parameters")
	ErrNotGenericDefinition          = errors.New("type is not a generic type definition")
	ErrGenericArityMismatch          = errors.New("wrong number of generic arguments")
	ErrInvalidGenericArgument        = errors.New("type cannot be used as a generic argument")
)

// TypeError reports a problem with a specific type.
type TypeError struct {
	Type *Type
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %v", e.Type, e.Err)
}

func (e *TypeError) Unwrap() error { return e.Err }

func NewTypeError(t *Type, err error) *TypeError {
	return &TypeError{Type: t, Err: err}
}

// TypeNotFoundError indicates a type name could not be resolved
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("type not found: %s", e.Name)
}

func NewTypeNotFoundError(name string) *TypeNotFoundError {
	return &TypeNotFoundError{Name: name}
}
