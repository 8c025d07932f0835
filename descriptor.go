package propconf

import (
	"fmt"
	"strings"
)

// ParamFlags describe how a property may be accessed.
type ParamFlags uint

const (
	FlagRead ParamFlags = 1 << iota
	FlagWrite
	FlagConstruct
	FlagSerialize
)

// FlagDefault is the flag set of an ordinary persisted property.
const FlagDefault = FlagRead | FlagWrite | FlagSerialize

func (f ParamFlags) Has(mask ParamFlags) bool { return f&mask == mask }

// PathKind selects the flavour of a path property.
type PathKind int

const (
	PathFile PathKind = iota
	PathFileList
	PathDir
	PathDirList
)

func (k PathKind) String() string {
	switch k {
	case PathFile:
		return "file"
	case PathFileList:
		return "file-list"
	case PathDir:
		return "dir"
	case PathDirList:
		return "dir-list"
	}
	return fmt.Sprintf("path-kind(%d)", int(k))
}

// IsList reports whether the kind holds a path-list-separated sequence.
func (k PathKind) IsList() bool { return k == PathFileList || k == PathDirList }

// EnumEntry is one member of an enumeration.
type EnumEntry struct {
	Value int
	Name  string // full symbolic name, e.g. INTERPOLATION_CUBIC
	Nick  string // stable short name used in files, e.g. cubic
}

// EnumType is a named table of enumeration members.
type EnumType struct {
	Name   string
	Values []EnumEntry
}

// ByValue returns the entry with the given numeric value.
func (e *EnumType) ByValue(v int) (EnumEntry, bool) {
	for _, ev := range e.Values {
		if ev.Value == v {
			return ev, true
		}
	}
	return EnumEntry{}, false
}

// ByNick returns the entry with the given nickname.
func (e *EnumType) ByNick(nick string) (EnumEntry, bool) {
	for _, ev := range e.Values {
		if ev.Nick == nick {
			return ev, true
		}
	}
	return EnumEntry{}, false
}

// ByName returns the entry with the given full name.
func (e *EnumType) ByName(name string) (EnumEntry, bool) {
	for _, ev := range e.Values {
		if ev.Name == name {
			return ev, true
		}
	}
	return EnumEntry{}, false
}

// Nicks lists the nicknames in declaration order.
func (e *EnumType) Nicks() []string {
	out := make([]string, len(e.Values))
	for i, ev := range e.Values {
		out[i] = ev.Nick
	}
	return out
}

// Transform converts a custom scalar to and from its text form.
type Transform struct {
	Name     string
	ToText   func(any) (string, error)
	FromText func(string) (any, error)
}

// ValueType is the declared type of a property.
type ValueType struct {
	Kind      Kind
	Enum      *EnumType  // KindEnum
	Path      PathKind   // KindPath
	Transform *Transform // KindCustom
	Object    *TypeInfo  // KindObject
}

// Plain value types.
var (
	TypeBool    = ValueType{Kind: KindBool}
	TypeInt     = ValueType{Kind: KindInt}
	TypeUInt    = ValueType{Kind: KindUInt}
	TypeFloat   = ValueType{Kind: KindFloat}
	TypeDouble  = ValueType{Kind: KindDouble}
	TypeString  = ValueType{Kind: KindString}
	TypeMemSize = ValueType{Kind: KindMemSize}
	TypeColor   = ValueType{Kind: KindColor}
)

func EnumOf(e *EnumType) ValueType { return ValueType{Kind: KindEnum, Enum: e} }
func PathOf(k PathKind) ValueType { return ValueType{Kind: KindPath, Path: k} }
func CustomOf(t *Transform) ValueType { return ValueType{Kind: KindCustom, Transform: t} }
func ObjectOf(t *TypeInfo) ValueType { return ValueType{Kind: KindObject, Object: t} }

// Describe renders the type for reference documentation.
func (t ValueType) Describe() string {
	switch t.Kind {
	case KindBool:
		return "boolean: yes or no"
	case KindInt:
		return "integer"
	case KindUInt:
		return "non-negative integer"
	case KindFloat, KindDouble:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		if t.Enum == nil {
			return "enumeration"
		}
		return "one of: " + strings.Join(t.Enum.Nicks(), ", ")
	case KindMemSize:
		return "memory size: a number with an optional unit suffix b, k, m or g"
	case KindPath:
		switch t.Path {
		case PathFileList:
			return "list of files separated by the path-list separator"
		case PathDirList:
			return "list of folders separated by the path-list separator"
		case PathDir:
			return "folder"
		}
		return "file name"
	case KindColor:
		return "color: (color-rgba r g b a) with channels from 0 to 1"
	case KindCustom:
		if t.Transform != nil && t.Transform.Name != "" {
			return t.Transform.Name
		}
		return "custom value"
	case KindObject:
		if t.Object != nil {
			return "nested " + t.Object.Name() + " settings"
		}
		return "nested settings"
	}
	return t.Kind.String()
}

// Range restricts numeric properties to [Min, Max].
type Range struct {
	Min, Max float64
}

// Descriptor is the static metadata of one property.
type Descriptor struct {
	Name    string
	Type    ValueType
	Flags   ParamFlags
	Default Value
	Blurb   string
	Range   *Range
}

// Serializable reports whether the property is persisted.
func (d *Descriptor) Serializable() bool {
	return d.Flags.Has(FlagSerialize | FlagRead | FlagWrite)
}

// PropOption customizes a Descriptor built by the *Prop helpers.
type PropOption func(*Descriptor)

// WithRange restricts a numeric property.
func WithRange(min, max float64) PropOption {
	return func(d *Descriptor) { d.Range = &Range{Min: min, Max: max} }
}

// WithFlags replaces the default flag set.
func WithFlags(f ParamFlags) PropOption {
	return func(d *Descriptor) { d.Flags = f }
}

func prop(name string, t ValueType, def Value, blurb string, opts []PropOption) Descriptor {
	d := Descriptor{Name: name, Type: t, Flags: FlagDefault, Default: def, Blurb: blurb}
	for _, o := range opts {
		o(&d)
	}
	return d
}

func BoolProp(name string, def bool, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeBool, BoolValue(def), blurb, opts)
}

func IntProp(name string, def int64, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeInt, IntValue(def), blurb, opts)
}

func UIntProp(name string, def uint64, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeUInt, UIntValue(def), blurb, opts)
}

func FloatProp(name string, def float64, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeFloat, FloatValue(def), blurb, opts)
}

func DoubleProp(name string, def float64, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeDouble, DoubleValue(def), blurb, opts)
}

func StringProp(name, def, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeString, StringValue(def), blurb, opts)
}

func EnumProp(name string, e *EnumType, def int, blurb string, opts ...PropOption) Descriptor {
	return prop(name, EnumOf(e), EnumValue(def), blurb, opts)
}

func MemSizeProp(name string, def uint64, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeMemSize, MemSizeValue(def), blurb, opts)
}

func PathProp(name string, kind PathKind, def, blurb string, opts ...PropOption) Descriptor {
	return prop(name, PathOf(kind), PathValue(def), blurb, opts)
}

func ColorProp(name string, def Color, blurb string, opts ...PropOption) Descriptor {
	return prop(name, TypeColor, ColorValue(def), blurb, opts)
}

func CustomProp(name string, t *Transform, def any, blurb string, opts ...PropOption) Descriptor {
	return prop(name, CustomOf(t), CustomValue(def), blurb, opts)
}

// ObjectProp declares a nested object property. Its default is a fresh
// object of t populated with t's defaults.
func ObjectProp(name string, t *TypeInfo, blurb string, opts ...PropOption) Descriptor {
	return prop(name, ObjectOf(t), Value{kind: KindObject}, blurb, opts)
}
