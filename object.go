package propconf

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProperty reports a property name the type does not declare.
	ErrUnknownProperty = errors.New("propconf: no such property")
	// ErrNotWritable reports a Set on a property without the write flag.
	ErrNotWritable = errors.New("propconf: property is not writable")
	// ErrNotReadable reports a Get on a property without the read flag.
	ErrNotReadable = errors.New("propconf: property is not readable")
)

// Config is a live object whose state is described by a TypeInfo.
type Config interface {
	Type() *TypeInfo
	Get(name string) (Value, error)
	Set(name string, v Value) error
	UnknownTokens() *UnknownTokens
}

// ChangeFunc observes property changes.
type ChangeFunc func(name string, v Value)

// Object is the standard Config implementation: a value per declared
// property, an unknown-token table and change observers. It is not safe for
// concurrent use.
type Object struct {
	typ       *TypeInfo
	values    []Value
	unknown   UnknownTokens
	observers []ChangeFunc

	frozen  int
	pending []int
}

// New returns an object of type t holding every property's default.
// Nested object properties get fresh objects of their own type.
func New(t *TypeInfo) *Object {
	o := &Object{typ: t, values: make([]Value, len(t.props))}
	for i, d := range t.props {
		o.values[i] = defaultValue(d)
	}
	return o
}

func defaultValue(d *Descriptor) Value {
	if d.Type.Kind == KindObject {
		return ObjectValue(New(d.Type.Object))
	}
	return d.Default
}

func (o *Object) Type() *TypeInfo { return o.typ }

// UnknownTokens returns the object's unknown-token table.
func (o *Object) UnknownTokens() *UnknownTokens { return &o.unknown }

// Get returns the current value of a property.
func (o *Object) Get(name string) (Value, error) {
	i, ok := o.typ.index[name]
	if !ok {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrUnknownProperty, o.typ.name, name)
	}
	if !o.typ.props[i].Flags.Has(FlagRead) {
		return Value{}, fmt.Errorf("%w: %s.%s", ErrNotReadable, o.typ.name, name)
	}
	return o.values[i], nil
}

// Set stores v after checking its kind and range. Observers are notified
// when the value actually changes.
func (o *Object) Set(name string, v Value) error {
	i, ok := o.typ.index[name]
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownProperty, o.typ.name, name)
	}
	d := o.typ.props[i]
	if !d.Flags.Has(FlagWrite) {
		return fmt.Errorf("%w: %s.%s", ErrNotWritable, o.typ.name, name)
	}
	if err := checkValue(d, v); err != nil {
		return err
	}
	if valuesEqual(d.Type, o.values[i], v) {
		return nil
	}
	o.values[i] = v
	o.notify(i)
	return nil
}

// OnChange registers fn to run after each property change.
func (o *Object) OnChange(fn ChangeFunc) {
	o.observers = append(o.observers, fn)
}

// FreezeNotify queues change notifications until the matching ThawNotify.
// Each changed property is reported once, with its final value.
func (o *Object) FreezeNotify() { o.frozen++ }

// ThawNotify releases one FreezeNotify and flushes queued notifications
// when none remain.
func (o *Object) ThawNotify() {
	if o.frozen == 0 {
		return
	}
	o.frozen--
	if o.frozen > 0 {
		return
	}
	pending := o.pending
	o.pending = nil
	for _, i := range pending {
		o.emit(i)
	}
}

func (o *Object) notify(i int) {
	if o.frozen > 0 {
		for _, p := range o.pending {
			if p == i {
				return
			}
		}
		o.pending = append(o.pending, i)
		return
	}
	o.emit(i)
}

func (o *Object) emit(i int) {
	name := o.typ.props[i].Name
	for _, fn := range o.observers {
		fn(name, o.values[i])
	}
}

// notifyFreezer is implemented by configs that batch change notification.
type notifyFreezer interface {
	FreezeNotify()
	ThawNotify()
}
