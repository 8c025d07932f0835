package propconf

import (
	"fmt"
	"sort"
	"sync"
)

// TypeInfo is the property table of one configurable type. It is immutable
// once built and may be shared freely.
type TypeInfo struct {
	name  string
	blurb string
	props []*Descriptor
	index map[string]int
}

// NewType builds a property table. Property names must be unique and every
// default must match its declared kind.
func NewType(name string, props ...Descriptor) (*TypeInfo, error) {
	t := &TypeInfo{name: name, index: make(map[string]int, len(props))}
	for i := range props {
		d := props[i]
		if d.Name == "" {
			return nil, fmt.Errorf("propconf: type %s: property %d has no name", name, i)
		}
		if _, dup := t.index[d.Name]; dup {
			return nil, fmt.Errorf("propconf: type %s: duplicate property %q", name, d.Name)
		}
		if err := checkDescriptor(&d); err != nil {
			return nil, fmt.Errorf("propconf: type %s: property %q: %w", name, d.Name, err)
		}
		t.index[d.Name] = len(t.props)
		t.props = append(t.props, &d)
	}
	return t, nil
}

// MustType is NewType that panics on error. Intended for package-level
// declarations.
func MustType(name string, props ...Descriptor) *TypeInfo {
	t, err := NewType(name, props...)
	if err != nil {
		panic(err)
	}
	return t
}

func checkDescriptor(d *Descriptor) error {
	switch d.Type.Kind {
	case KindEnum:
		if d.Type.Enum == nil {
			return fmt.Errorf("enum property without enum table")
		}
		if _, ok := d.Type.Enum.ByValue(d.Default.AsEnum()); !ok && d.Default.IsValid() {
			return fmt.Errorf("default %d is not a member of %s", d.Default.AsEnum(), d.Type.Enum.Name)
		}
	case KindCustom:
		if d.Type.Transform == nil || d.Type.Transform.ToText == nil || d.Type.Transform.FromText == nil {
			return fmt.Errorf("custom property without transform")
		}
	case KindObject:
		if d.Type.Object == nil {
			return fmt.Errorf("object property without type")
		}
		return nil
	case KindInvalid:
		return fmt.Errorf("invalid declared type")
	}
	if d.Default.Kind() != d.Type.Kind {
		return fmt.Errorf("default of kind %s for declared %s", d.Default.Kind(), d.Type.Kind)
	}
	return nil
}

// WithBlurb returns a copy of t carrying a description for documentation.
func (t *TypeInfo) WithBlurb(blurb string) *TypeInfo {
	c := *t
	c.blurb = blurb
	return &c
}

func (t *TypeInfo) Name() string { return t.name }
func (t *TypeInfo) Blurb() string { return t.blurb }

// Properties returns the descriptors in declaration order.
func (t *TypeInfo) Properties() []*Descriptor {
	out := make([]*Descriptor, len(t.props))
	copy(out, t.props)
	return out
}

// Property looks a descriptor up by name.
func (t *TypeInfo) Property(name string) (*Descriptor, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.props[i], true
}

var (
	registryMu sync.RWMutex
	registry   = map[string]*TypeInfo{}
)

// Register adds t to the process-wide registry. Types are registered once,
// normally from init, and are read-only afterwards.
func Register(t *TypeInfo) error {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[t.name]; dup {
		return fmt.Errorf("propconf: type %q already registered", t.name)
	}
	registry[t.name] = t
	return nil
}

// LookupType returns a registered type by name.
func LookupType(name string) (*TypeInfo, bool) {
	registryMu.RLock()
	t, ok := registry[name]
	registryMu.RUnlock()
	return t, ok
}

// RegisteredTypes lists registered type names in sorted order.
func RegisteredTypes() []string {
	registryMu.RLock()
	out := make([]string, 0, len(registry))
	for n := range registry {
		out = append(out, n)
	}
	registryMu.RUnlock()
	sort.Strings(out)
	return out
}
