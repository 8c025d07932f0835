package propconf

import (
	"fmt"
)

// Duplicate returns a deep copy of o: every property value, nested objects
// and the unknown-token table. Observers are not copied.
func Duplicate(o *Object) *Object {
	c := &Object{typ: o.typ, values: make([]Value, len(o.values))}
	for i, v := range o.values {
		if v.Kind() == KindObject && v.AsObject() != nil {
			v = ObjectValue(Duplicate(v.AsObject()))
		}
		c.values[i] = v
	}
	c.unknown = *o.unknown.Clone()
	return c
}

// Copy sets every writable property of dst that src also declares with the
// same kind, and replaces dst's unknown tokens with src's.
func Copy(src, dst Config) error {
	for _, d := range dst.Type().props {
		if !d.Flags.Has(FlagWrite) {
			continue
		}
		sd, ok := src.Type().Property(d.Name)
		if !ok || sd.Type.Kind != d.Type.Kind || !sd.Flags.Has(FlagRead) {
			continue
		}
		v, err := src.Get(d.Name)
		if err != nil {
			return err
		}
		if v.Kind() == KindObject && v.AsObject() != nil {
			v = ObjectValue(Duplicate(v.AsObject()))
		}
		if err := dst.Set(d.Name, v); err != nil {
			return fmt.Errorf("propconf: copy %s: %w", d.Name, err)
		}
	}
	u := dst.UnknownTokens()
	u.Clear()
	src.UnknownTokens().Range(func(k, v string) bool {
		u.Set(k, v)
		return true
	})
	return nil
}

// Equal reports whether a and b have the same type, equal readable
// properties and equal unknown-token tables.
func Equal(a, b Config) bool {
	if a.Type() != b.Type() {
		return false
	}
	for _, d := range a.Type().props {
		if !d.Flags.Has(FlagRead) {
			continue
		}
		av, err := a.Get(d.Name)
		if err != nil {
			return false
		}
		bv, err := b.Get(d.Name)
		if err != nil {
			return false
		}
		if !valuesEqual(d.Type, av, bv) {
			return false
		}
	}
	return a.UnknownTokens().Equal(b.UnknownTokens())
}

// Reset restores every writable property to its default and clears the
// unknown-token table.
func Reset(c Config) error {
	for _, d := range c.Type().props {
		if !d.Flags.Has(FlagWrite) {
			continue
		}
		if err := c.Set(d.Name, defaultValue(d)); err != nil {
			return fmt.Errorf("propconf: reset %s: %w", d.Name, err)
		}
	}
	c.UnknownTokens().Clear()
	return nil
}

// AddUnknownToken stores key/value in c's unknown-token table. A key equal
// to a declared property name is dropped with a warning and false is
// returned.
func AddUnknownToken(c Config, key, value string) bool {
	if _, ok := c.Type().Property(key); ok {
		getLogger(nil).Warn("dropping unknown token that shadows a property",
			"type", c.Type().Name(), "key", key)
		return false
	}
	c.UnknownTokens().Set(key, value)
	return true
}

// LookupUnknownToken returns the unknown-token value stored under key.
func LookupUnknownToken(c Config, key string) (string, bool) {
	return c.UnknownTokens().Lookup(key)
}

// ForeachUnknownToken calls fn for every unknown token in insertion order.
func ForeachUnknownToken(c Config, fn func(key, value string)) {
	c.UnknownTokens().Range(func(k, v string) bool {
		fn(k, v)
		return true
	})
}
