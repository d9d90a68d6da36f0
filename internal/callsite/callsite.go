// Package callsite holds the handles that connect a dynamic operation to
// the runtime which binds and dispatches it. Dispatch itself happens
// elsewhere; a Site only records what it was created from.
package callsite

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

// Binder resolves a dynamic operation into an executable strategy.
// Nodes compare binders by identity only and never look inside.
type Binder interface {
	String() string
}

// OperationBinder is a minimal Binder naming the operation it binds.
type OperationBinder struct {
	Operation string
}

// NewBinder returns a binder for the named operation. Each call returns a
// distinct binder, even for the same name.
func NewBinder(operation string) *OperationBinder {
	return &OperationBinder{Operation: operation}
}

func (b *OperationBinder) String() string { return b.Operation }

var (
	ErrNilBinder        = errors.New("binder is nil")
	ErrNilDelegateType  = errors.New("delegate type is nil")
	ErrNotDelegate      = errors.New("type is not a delegate")
	ErrMissingSiteParam = errors.New("first delegate parameter must be CallSite")
	ErrOpenDelegateType = errors.New("delegate type contains generic parameters")
)

// Site is a call site created for one dynamic operation.
type Site struct {
	id           uuid.UUID
	delegateType *typesystem.Type
	siteType     *typesystem.Type
	binder       Binder
}

// New creates a call site for the delegate type and binder.
func New(delegateType *typesystem.Type, binder Binder) (*Site, error) {
	if err := Validate(delegateType); err != nil {
		return nil, err
	}
	if binder == nil {
		return nil, ErrNilBinder
	}
	siteType, err := typesystem.CallSiteDef.MakeGenericType(delegateType)
	if err != nil {
		return nil, fmt.Errorf("call site for %s: %w", delegateType, err)
	}
	return &Site{
		id:           uuid.New(),
		delegateType: delegateType,
		siteType:     siteType,
		binder:       binder,
	}, nil
}

// Validate checks that a delegate type can drive a call site: it must be a
// closed delegate whose Invoke takes CallSite first.
func Validate(delegateType *typesystem.Type) error {
	if delegateType == nil {
		return ErrNilDelegateType
	}
	if !typesystem.IsDelegate(delegateType) {
		return fmt.Errorf("%s: %w", delegateType, ErrNotDelegate)
	}
	if delegateType.ContainsGenericParameters() {
		return fmt.Errorf("%s: %w", delegateType, ErrOpenDelegateType)
	}
	inv := delegateType.InvokeMethod()
	if inv == nil || len(inv.Params) == 0 || inv.Params[0].Type != typesystem.CallSite {
		return fmt.Errorf("%s: %w", delegateType, ErrMissingSiteParam)
	}
	return nil
}

func (s *Site) ID() uuid.UUID                  { return s.id }
func (s *Site) DelegateType() *typesystem.Type { return s.delegateType }
func (s *Site) Binder() Binder                 { return s.binder }

// Type returns CallSite<DelegateType>.
func (s *Site) Type() *typesystem.Type { return s.siteType }

func (s *Site) String() string {
	return fmt.Sprintf("%s(%s)", s.siteType, s.binder)
}
