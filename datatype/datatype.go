package datatype

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownType is returned when a descriptor is not registered.
	ErrUnknownType = errors.New("unknown type descriptor")

	// ErrBound is returned when a registered type cannot serve the requested field.
	ErrBound = errors.New("type does not satisfy capability bound")

	// ErrDuplicate is returned when a descriptor is registered twice.
	ErrDuplicate = errors.New("type descriptor already registered")
)

// Bound is a set of capabilities a registered type provides.
type Bound uint8

const (
	// Computation marks a computation class name.
	Computation Bound = 1 << iota

	// Value marks types that can be encoded and decoded.
	Value

	// Key marks comparable value types usable as vertex ids.
	Key
)

// Has returns true if b includes every capability in want.
func (b Bound) Has(want Bound) bool {
	return b&want == want
}

func (b Bound) String() string {
	var parts []string
	if b.Has(Computation) {
		parts = append(parts, "computation")
	}
	if b.Has(Key) {
		parts = append(parts, "key")
	}
	if b.Has(Value) {
		parts = append(parts, "value")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Type is a registered type descriptor.
type Type struct {
	// Name is the descriptor stored in file headers, e.g. "org.apache.hadoop.io.LongWritable".
	Name string

	// Bounds are the capabilities of this type.
	Bounds Bound

	// Null marks the null-object type: its values carry no information and a
	// decoded edge value of this type is treated as absent.
	Null bool

	goType  string
	codec   any
	dynamic Codec[any]
}

// GoType returns the Go type that values of this type decode into.
func (t *Type) GoType() string {
	return t.goType
}

func (t *Type) String() string {
	return fmt.Sprintf("%s [%s]", t.Name, t.Bounds)
}

// CodecFor returns the codec of t as a Codec[T].  Any registered value type is
// available as Codec[any].  A codec producing a different Go type is a bound failure.
func CodecFor[T any](t *Type) (Codec[T], error) {
	if t == nil {
		return nil, ErrUnknownType
	}
	if !t.Bounds.Has(Value) {
		return nil, fmt.Errorf("%w: %s is not a value type", ErrBound, t.Name)
	}
	if c, ok := t.codec.(Codec[T]); ok {
		return c, nil
	}
	if c, ok := t.dynamic.(Codec[T]); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %s decodes %s, not %s", ErrBound, t.Name, t.goType, typeName[T]())
}

// typeName returns the name of T, including interface types.
func typeName[T any]() string {
	return strings.TrimPrefix(fmt.Sprintf("%T", (*T)(nil)), "*")
}

// Registry maps descriptors and their aliases to registered types.
type Registry struct {
	mu      sync.RWMutex
	types   map[string]*Type
	aliases map[string]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:   make(map[string]*Type),
		aliases: make(map[string]string),
	}
}

// Default is the registry that linked-in datatype packages register into.
var Default = NewRegistry()

func (r *Registry) add(t *Type) error {
	if t.Name == "" {
		return fmt.Errorf("cannot register type with empty descriptor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.types[t.Name]; found {
		return fmt.Errorf("%w: %s", ErrDuplicate, t.Name)
	}
	if _, found := r.aliases[t.Name]; found {
		return fmt.Errorf("%w: %s is an alias", ErrDuplicate, t.Name)
	}
	r.types[t.Name] = t
	return nil
}

func newValueType[T any](name string, bounds Bound, c Codec[T]) (*Type, error) {
	if c == nil {
		return nil, fmt.Errorf("nil codec for type %s", name)
	}
	return &Type{
		Name:    name,
		Bounds:  bounds | Value,
		goType:  typeName[T](),
		codec:   c,
		dynamic: erased[T]{c},
	}, nil
}

// RegisterValue registers a value type that may hold vertex values, edge values
// and messages but not vertex ids.
func RegisterValue[T any](r *Registry, name string, c Codec[T]) error {
	t, err := newValueType(name, Value, c)
	if err != nil {
		return err
	}
	return r.add(t)
}

// RegisterKey registers a comparable value type that may also be used for vertex ids.
func RegisterKey[T comparable](r *Registry, name string, c Codec[T]) error {
	t, err := newValueType(name, Key, c)
	if err != nil {
		return err
	}
	return r.add(t)
}

// RegisterNull registers the null-object type.  It satisfies every value bound
// but a present edge value of this type is loaded as absent.
func RegisterNull[T comparable](r *Registry, name string, c Codec[T]) error {
	t, err := newValueType(name, Key, c)
	if err != nil {
		return err
	}
	t.Null = true
	return r.add(t)
}

// RegisterComputation registers the name of a computation class.
func (r *Registry) RegisterComputation(name string) error {
	return r.add(&Type{Name: name, Bounds: Computation})
}

// Alias makes alias resolve to the already registered target.
func (r *Registry) Alias(alias, target string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.types[target]; !found {
		return fmt.Errorf("%w: alias target %s", ErrUnknownType, target)
	}
	if _, found := r.types[alias]; found {
		return fmt.Errorf("%w: %s", ErrDuplicate, alias)
	}
	if _, found := r.aliases[alias]; found {
		return fmt.Errorf("%w: %s", ErrDuplicate, alias)
	}
	r.aliases[alias] = target
	return nil
}

// Lookup returns the type registered under name or one of its aliases.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if target, found := r.aliases[name]; found {
		name = target
	}
	t, found := r.types[name]
	return t, found
}

// Resolve returns the type registered under name, failing if it is unknown or if
// its bounds do not include want.
func (r *Registry) Resolve(name string, want Bound) (*Type, error) {
	t, found := r.Lookup(name)
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	if !t.Bounds.Has(want) {
		return nil, fmt.Errorf("%w: %s is %s, need %s", ErrBound, name, t.Bounds, want)
	}
	return t, nil
}

// Names returns the sorted registered descriptors, excluding aliases.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chart returns a chart (descriptor/bounds/Go type) of the registered types.
func (r *Registry) Chart() string {
	var text strings.Builder
	text.WriteString("\nRegistered type descriptors\n\n")
	writeLine := func(name, bounds, goType string) {
		fmt.Fprintf(&text, "%-50s   %-22s %s\n", name, bounds, goType)
	}
	writeLine("Descriptor", "Bounds", "Go type")
	for _, name := range r.Names() {
		t, _ := r.Lookup(name)
		bounds := t.Bounds.String()
		if t.Null {
			bounds += " (null)"
		}
		writeLine(name, bounds, t.goType)
	}

	r.mu.RLock()
	aliases := make([]string, 0, len(r.aliases))
	for alias := range r.aliases {
		aliases = append(aliases, alias)
	}
	sort.Strings(aliases)
	for _, alias := range aliases {
		writeLine(alias, "-> "+r.aliases[alias], "")
	}
	r.mu.RUnlock()
	return text.String() + "\n"
}
