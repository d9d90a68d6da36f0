package delegates

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/funvibe/dynexpr/internal/config"
	"github.com/funvibe/dynexpr/internal/typesystem"
)

var (
	// ErrNilSignatureType is returned when a parameter or the return type is nil.
	ErrNilSignatureType = errors.New("signature type is nil")
	// ErrVoidParameter is returned when a parameter type is Void.
	ErrVoidParameter = errors.New("parameter type cannot be Void")
)

// Synthesizer produces delegate types for call signatures. Signatures that
// fit the generic Func/Action families map onto them; everything else gets a
// custom delegate type. Cacheable signatures are defined in the synthesized
// assembly, the rest in a collectible companion so nothing pins them.
type Synthesizer struct {
	// cache is nil when caching is disabled.
	cache       *Cache
	assembly    *typesystem.Assembly
	collectible *typesystem.Assembly

	// verbose enables [delegates] diagnostics.
	verbose bool
	out     io.Writer

	seq atomic.Int64
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithCache sets the cache used for custom delegate types. A nil cache
// disables caching: every request synthesizes a fresh type.
func WithCache(c *Cache) Option {
	return func(s *Synthesizer) { s.cache = c }
}

// WithAssembly sets the assembly that owns synthesized delegate types.
func WithAssembly(a *typesystem.Assembly) Option {
	return func(s *Synthesizer) { s.assembly = a }
}

// WithVerbose enables diagnostics on the output writer.
func WithVerbose(v bool) Option {
	return func(s *Synthesizer) { s.verbose = v }
}

// WithOutput sets where diagnostics are written. Defaults to stderr.
func WithOutput(w io.Writer) Option {
	return func(s *Synthesizer) { s.out = w }
}

// New creates a Synthesizer with a fresh default cache.
func New(opts ...Option) *Synthesizer {
	s := &Synthesizer{
		cache:    NewCache(DefaultStable()),
		assembly: typesystem.NewDynamicAssembly(config.SynthesizedAssemblyName, false),
		out:      os.Stderr,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.collectible = s.assembly
	if !s.assembly.IsCollectible {
		s.collectible = typesystem.NewDynamicAssembly(s.assembly.Name+config.CollectibleAssemblySuffix, true)
	}
	return s
}

// FromConfig creates a Synthesizer honouring the cache, stable-assembly and
// naming settings of cfg. Further options are applied afterwards.
func FromConfig(cfg *config.Config, opts ...Option) *Synthesizer {
	if cfg == nil {
		cfg = config.Default()
	}
	base := []Option{
		WithAssembly(typesystem.NewDynamicAssembly(cfg.SynthesizedAssembly, false)),
		WithVerbose(cfg.Verbose),
	}
	if cfg.CacheEnabled() {
		stable := DefaultStable()
		if len(cfg.StableAssemblies) > 0 {
			stable = stable.Or(StableNames(cfg.StableAssemblies...))
		}
		base = append(base, WithCache(NewCache(stable)))
	} else {
		base = append(base, WithCache(nil))
	}
	return New(append(base, opts...)...)
}

// Cache returns the cache in use, or nil when caching is disabled.
func (s *Synthesizer) Cache() *Cache { return s.cache }

// Assembly returns the assembly that owns cacheable synthesized types.
func (s *Synthesizer) Assembly() *typesystem.Assembly { return s.assembly }

// CollectibleAssembly returns the assembly that owns synthesized types which
// are never cached.
func (s *Synthesizer) CollectibleAssembly() *typesystem.Assembly { return s.collectible }

// CallSiteDelegate returns the delegate type for a dynamic call site whose
// arguments have the given types. The delegate's first parameter is always
// CallSite; the remaining parameters follow params in order.
func (s *Synthesizer) CallSiteDelegate(params []*typesystem.Type, ret *typesystem.Type) (*typesystem.Type, error) {
	full := make([]*typesystem.Type, 0, len(params)+1)
	full = append(full, typesystem.CallSite)
	full = append(full, params...)
	return s.DelegateFor(full, ret)
}

// DelegateFor returns a delegate type with exactly the given parameter and
// return types. A nil ret means Object.
func (s *Synthesizer) DelegateFor(params []*typesystem.Type, ret *typesystem.Type) (*typesystem.Type, error) {
	if ret == nil {
		ret = typesystem.Object
	}
	needCustom := false
	for i, p := range params {
		if p == nil {
			return nil, fmt.Errorf("parameter %d: %w", i, ErrNilSignatureType)
		}
		if p == typesystem.Void {
			return nil, fmt.Errorf("parameter %d: %w", i, ErrVoidParameter)
		}
		if p.IsByRef() {
			needCustom = true
		}
	}
	if ret.IsByRef() {
		needCustom = true
	}

	// Func<..., TResult> needs one slot for the result; Action<...> has one
	// fewer definition than Func, so both fit below the same bound.
	if !needCustom && len(params) < config.MaxGenericDelegateArity {
		if ret == typesystem.Void {
			return typesystem.ActionType(params...)
		}
		args := make([]*typesystem.Type, 0, len(params)+1)
		args = append(args, params...)
		args = append(args, ret)
		return typesystem.FuncType(args...)
	}

	if s.cache == nil || !s.cache.Eligible(params, ret) {
		t := s.synthesize(s.collectible, params, ret)
		if s.verbose && s.cache != nil {
			fmt.Fprintf(s.out, "[delegates] %s not cacheable\n", t)
		}
		return t, nil
	}

	if t, ok := s.cache.Lookup(params, ret); ok {
		if s.verbose {
			fmt.Fprintf(s.out, "[delegates] cache hit %s\n", t)
		}
		return t, nil
	}

	t := s.synthesize(s.assembly, params, ret)
	winner, stored := s.cache.Store(params, ret, t)
	if s.verbose {
		if stored {
			fmt.Fprintf(s.out, "[delegates] cached %s\n", winner)
		} else {
			fmt.Fprintf(s.out, "[delegates] lost race, using %s\n", winner)
		}
	}
	return winner, nil
}

func (s *Synthesizer) synthesize(asm *typesystem.Assembly, params []*typesystem.Type, ret *typesystem.Type) *typesystem.Type {
	n := s.seq.Add(1)
	t := asm.Define(typesystem.TypeSpec{
		Name: "Delegate" + strconv.FormatInt(n, 10) + "$",
		Kind: typesystem.KindDelegate,
	})
	t.DefineInvoke(ret, params...)
	if s.verbose {
		fmt.Fprintf(s.out, "[delegates] synthesized %s in %s (%d parameters)\n", t, asm, len(params))
	}
	return t
}
