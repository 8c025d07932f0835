package propconf

import "fmt"

// Kind enumerates value and property type kinds.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindUInt
	KindFloat
	KindDouble
	KindString
	KindEnum
	KindMemSize
	KindPath
	KindColor
	KindCustom
	KindObject // nested configurable object, written as a nested list
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindUInt:    "uint",
	KindFloat:   "float",
	KindDouble:  "double",
	KindString:  "string",
	KindEnum:    "enum",
	KindMemSize: "memsize",
	KindPath:    "path",
	KindColor:   "color",
	KindCustom:  "custom",
	KindObject:  "object",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Color is an RGBA color with channels in [0,1].
type Color struct {
	R, G, B, A float64
}

// Value is a tagged property value. The zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	s    string
	c    Color
	x    any
	o    *Object
}

func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }
func IntValue(i int64) Value { return Value{kind: KindInt, i: i} }
func UIntValue(u uint64) Value { return Value{kind: KindUInt, u: u} }
func FloatValue(f float64) Value { return Value{kind: KindFloat, f: f} }
func DoubleValue(f float64) Value { return Value{kind: KindDouble, f: f} }
func StringValue(s string) Value { return Value{kind: KindString, s: s} }
func EnumValue(v int) Value { return Value{kind: KindEnum, i: int64(v)} }
func MemSizeValue(n uint64) Value { return Value{kind: KindMemSize, u: n} }
func PathValue(p string) Value { return Value{kind: KindPath, s: p} }
func ColorValue(c Color) Value { return Value{kind: KindColor, c: c} }
func CustomValue(x any) Value { return Value{kind: KindCustom, x: x} }
func ObjectValue(o *Object) Value { return Value{kind: KindObject, o: o} }
func RGBA(r, g, b, a float64) Value { return ColorValue(Color{R: r, G: g, B: b, A: a}) }

// Kind returns the value's kind tag.
func (v Value) Kind() Kind { return v.kind }

// IsValid reports whether v was built by one of the constructors.
func (v Value) IsValid() bool { return v.kind != KindInvalid }

func (v Value) AsBool() bool { return v.b }
func (v Value) AsInt() int64 { return v.i }
func (v Value) AsUint() uint64 { return v.u }
func (v Value) AsFloat() float64 { return v.f }
func (v Value) AsString() string { return v.s }
func (v Value) AsEnum() int { return int(v.i) }
func (v Value) AsColor() Color { return v.c }
func (v Value) AsAny() any { return v.x }
func (v Value) AsObject() *Object { return v.o }

// Number returns the value as float64 for numeric kinds.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt, KindEnum:
		return float64(v.i), true
	case KindUInt, KindMemSize:
		return float64(v.u), true
	case KindFloat, KindDouble:
		return v.f, true
	}
	return 0, false
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprint(v.b)
	case KindInt, KindEnum:
		return fmt.Sprint(v.i)
	case KindUInt, KindMemSize:
		return fmt.Sprint(v.u)
	case KindFloat, KindDouble:
		return fmt.Sprint(v.f)
	case KindString, KindPath:
		return v.s
	case KindColor:
		return fmt.Sprintf("rgba(%g, %g, %g, %g)", v.c.R, v.c.G, v.c.B, v.c.A)
	case KindCustom:
		return fmt.Sprint(v.x)
	case KindObject:
		if v.o == nil {
			return "<nil object>"
		}
		return "<" + v.o.Type().Name() + ">"
	}
	return "<invalid>"
}
