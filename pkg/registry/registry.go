package registry

import (
	"cmp"
	"io"
	"log/slog"
	"reflect"
	"sync"

	"github.com/OpenTraceLab/OpenTraceTarget/pkg/target"
)

// Origin records where a registered family came from.
type Origin int

const (
	// OriginExternal marks families loaded from definition files at runtime.
	OriginExternal Origin = iota
	// OriginBuiltin marks families compiled into the binary.
	OriginBuiltin
)

func (o Origin) String() string {
	if o == OriginBuiltin {
		return "builtin"
	}
	return "external"
}

// Registry indexes validated chip families by name.
//
// Stored families are private deep copies and are never modified; a family
// is only ever replaced as a whole. Lookups may run concurrently with each
// other and with Register.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*entry
	log      *slog.Logger
}

type entry struct {
	family *target.ChipFamily
	origin Origin
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used to report registrations.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		families: make(map[string]*entry),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type registerConfig struct {
	origin    Origin
	override  bool
	exclusive bool
}

// RegisterOption sets the policy of a single Register call.
type RegisterOption func(*registerConfig)

// AsBuiltin registers the family as compiled-in data. Two builtin families
// with the same name are a configuration error.
func AsBuiltin() RegisterOption {
	return func(c *registerConfig) { c.origin = OriginBuiltin }
}

// AllowOverride lets an external family replace a builtin one of the same
// name. Without it such a collision is rejected.
func AllowOverride() RegisterOption {
	return func(c *registerConfig) { c.override = true }
}

// Exclusive rejects the family when a different definition already holds
// its name, whatever the origins. Re-registering an identical family still
// succeeds.
func Exclusive() RegisterOption {
	return func(c *registerConfig) { c.exclusive = true }
}

// Register validates f and stores a copy of it under f.Name.
//
// On failure the registry is left untouched and the returned error holds one
// *ValidationError per violation. Registering a family identical to the stored
// one is a no-op. An external family replaces a previously loaded external
// family of the same name.
func (r *Registry) Register(f *target.ChipFamily, opts ...RegisterOption) error {
	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if f == nil {
		return &ValidationError{Rule: RuleInvalidName, Detail: "nil family"}
	}

	family := normalize(f)
	if err := Validate(family); err != nil {
		r.log.Warn("rejected chip family",
			slog.String("family", f.Name),
			slog.String("source", f.Source),
			slog.Int("violations", len(Violations(err))))
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	prev, exists := r.families[family.Name]
	if exists {
		if sameContents(prev.family, family) {
			r.log.Debug("chip family already registered", slog.String("family", family.Name))
			return nil
		}
		if err := checkReplace(prev, family, cfg); err != nil {
			return err
		}
		r.log.Info("replacing chip family",
			slog.String("family", family.Name),
			slog.String("previous", prev.origin.String()),
			slog.String("source", family.Source))
	} else {
		r.log.Debug("registered chip family",
			slog.String("family", family.Name),
			slog.String("origin", cfg.origin.String()),
			slog.Int("variants", len(family.Variants)))
	}
	r.families[family.Name] = &entry{family: family, origin: cfg.origin}
	return nil
}

func checkReplace(prev *entry, next *target.ChipFamily, cfg registerConfig) error {
	fail := func(detail string) error {
		return &ValidationError{Rule: RuleDuplicateFamilyName, Family: next.Name, Detail: detail}
	}
	switch {
	case cfg.exclusive:
		return fail("already defined by " + cmp.Or(prev.family.Source, prev.origin.String()))
	case cfg.origin == OriginBuiltin && prev.origin == OriginBuiltin:
		return fail("two builtin definitions")
	case cfg.origin == OriginBuiltin:
		return fail("builtin definition registered after an external one")
	case prev.origin == OriginBuiltin && !cfg.override:
		return fail("overrides a builtin definition; override not allowed")
	}
	return nil
}

// sameContents ignores Source so that the same definition loaded from two
// paths still counts as identical.
func sameContents(a, b *target.ChipFamily) bool {
	x, y := *a, *b
	x.Source, y.Source = "", ""
	return reflect.DeepEqual(&x, &y)
}

// normalize returns a private copy with every memory map sorted by start.
func normalize(f *target.ChipFamily) *target.ChipFamily {
	c := f.Clone()
	for i := range c.Variants {
		c.Variants[i].MemoryMap = target.SortMemoryMap(c.Variants[i].MemoryMap)
	}
	return c
}

// RegisterAll registers each family with the same options and stops at the
// first failure. Families registered before the failure stay registered.
func (r *Registry) RegisterAll(families []*target.ChipFamily, opts ...RegisterOption) error {
	for _, f := range families {
		if err := r.Register(f, opts...); err != nil {
			return err
		}
	}
	return nil
}

// Family returns the registered family called name.
func (r *Registry) Family(name string) (*target.ChipFamily, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.families[name]
	if !ok {
		return nil, false
	}
	return e.family, true
}

// Origin reports where the family called name came from.
func (r *Registry) Origin(name string) (Origin, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.families[name]
	if !ok {
		return 0, false
	}
	return e.origin, true
}

// Len returns the number of registered families.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.families)
}
