package delegates

import (
	"sync"

	"github.com/funvibe/dynexpr/internal/typesystem"
)

// StablePredicate reports whether types owned by an assembly may be kept in
// a process-wide cache. Caching a type pins every assembly it references,
// so only assemblies that are never unloaded qualify.
type StablePredicate func(*typesystem.Assembly) bool

// StableAssemblies accepts exactly the given assemblies.
func StableAssemblies(asms ...*typesystem.Assembly) StablePredicate {
	set := make(map[*typesystem.Assembly]bool, len(asms))
	for _, a := range asms {
		set[a] = true
	}
	return func(a *typesystem.Assembly) bool { return set[a] }
}

// StableNames accepts non-collectible assemblies with one of the given names.
func StableNames(names ...string) StablePredicate {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(a *typesystem.Assembly) bool {
		return a != nil && !a.IsCollectible && set[a.Name]
	}
}

// DefaultStable accepts the core library and this library.
func DefaultStable() StablePredicate {
	return StableAssemblies(typesystem.CoreLib, typesystem.ExprLib)
}

// Or accepts an assembly accepted by either predicate.
func (p StablePredicate) Or(q StablePredicate) StablePredicate {
	return func(a *typesystem.Assembly) bool { return p(a) || q(a) }
}

// CanCache reports whether t, its element type and all of its generic
// arguments (recursively) come from stable assemblies.
func CanCache(t *typesystem.Type, stable StablePredicate) bool {
	if t == nil {
		return false
	}
	if elem := t.ElementType(); elem != nil {
		return CanCache(elem, stable)
	}
	if !stable(t.Assembly()) {
		return false
	}
	if t.IsGenericType() && !t.IsGenericTypeDefinition() {
		for _, arg := range t.GenericArguments() {
			if !CanCache(arg, stable) {
				return false
			}
		}
	}
	return true
}

// Cache maps a signature (parameter types and return type) to a delegate
// type. It is safe for concurrent use. Only signatures whose every type is
// cacheable under the predicate are ever stored.
type Cache struct {
	stable StablePredicate

	mu      sync.RWMutex
	entries map[string]*typesystem.Type
}

// NewCache creates an empty cache. A nil predicate means DefaultStable.
func NewCache(stable StablePredicate) *Cache {
	if stable == nil {
		stable = DefaultStable()
	}
	return &Cache{stable: stable, entries: make(map[string]*typesystem.Type)}
}

// Eligible reports whether the signature may be cached.
func (c *Cache) Eligible(params []*typesystem.Type, ret *typesystem.Type) bool {
	for _, p := range params {
		if !CanCache(p, c.stable) {
			return false
		}
	}
	return CanCache(ret, c.stable)
}

// Lookup returns the cached delegate type for the signature.
func (c *Cache) Lookup(params []*typesystem.Type, ret *typesystem.Type) (*typesystem.Type, bool) {
	key := signatureKey(params, ret)
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

// Store records delegate for the signature. If another goroutine stored a
// type first, that type is returned and kept. Ineligible signatures are not
// stored; delegate itself is returned with stored == false.
func (c *Cache) Store(params []*typesystem.Type, ret, delegate *typesystem.Type) (winner *typesystem.Type, stored bool) {
	if !c.Eligible(params, ret) {
		return delegate, false
	}
	key := signatureKey(params, ret)
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[key]; ok {
		return existing, false
	}
	c.entries[key] = delegate
	return delegate, true
}

// Len returns the number of cached signatures.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func signatureKey(params []*typesystem.Type, ret *typesystem.Type) string {
	all := make([]*typesystem.Type, 0, len(params)+1)
	all = append(all, params...)
	all = append(all, ret)
	return typesystem.IdentityKey(all...)
}
