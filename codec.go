package propconf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrNoTransform reports a custom type without text conversion.
	ErrNoTransform = errors.New("propconf: type has no text transform")
	// ErrKindMismatch reports a value whose kind differs from the declared type.
	ErrKindMismatch = errors.New("propconf: value kind does not match property type")
	// ErrOutOfRange reports a numeric value outside the declared range.
	ErrOutOfRange = errors.New("propconf: value out of range")
)

// EncodeText renders v in the text form of t. Strings and paths are returned
// unquoted; the serializer adds quoting.
func EncodeText(t ValueType, v Value) (string, error) {
	if v.Kind() != t.Kind {
		return "", fmt.Errorf("%w: %s for %s", ErrKindMismatch, v.Kind(), t.Kind)
	}
	switch t.Kind {
	case KindBool:
		if v.AsBool() {
			return "yes", nil
		}
		return "no", nil
	case KindInt:
		return strconv.FormatInt(v.AsInt(), 10), nil
	case KindUInt:
		return strconv.FormatUint(v.AsUint(), 10), nil
	case KindFloat, KindDouble:
		f := v.AsFloat()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return "", fmt.Errorf("%w: %v has no text form", ErrOutOfRange, f)
		}
		return formatFloat(f), nil
	case KindString, KindPath:
		return v.AsString(), nil
	case KindEnum:
		return EncodeEnum(t.Enum, v.AsEnum())
	case KindMemSize:
		return FormatMemSize(v.AsUint()), nil
	case KindColor:
		return FormatColor(v.AsColor()), nil
	case KindCustom:
		if t.Transform == nil || t.Transform.ToText == nil {
			return "", ErrNoTransform
		}
		return t.Transform.ToText(v.AsAny())
	case KindObject:
		return "", fmt.Errorf("%w: nested objects are written as lists", ErrNoTransform)
	}
	return "", fmt.Errorf("propconf: cannot encode kind %s", t.Kind)
}

// DecodeText parses s in the text form of t.
func DecodeText(t ValueType, s string) (Value, error) {
	switch t.Kind {
	case KindBool:
		b, err := ParseBool(s)
		if err != nil {
			return Value{}, err
		}
		return BoolValue(b), nil
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return IntValue(i), nil
	case KindUInt:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return Value{}, err
		}
		return UIntValue(u), nil
	case KindFloat, KindDouble:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, err
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return Value{}, fmt.Errorf("%w: %q is not a finite number", ErrOutOfRange, s)
		}
		if t.Kind == KindFloat {
			return FloatValue(f), nil
		}
		return DoubleValue(f), nil
	case KindString:
		return StringValue(s), nil
	case KindPath:
		return PathValue(s), nil
	case KindEnum:
		n, err := DecodeEnum(t.Enum, s)
		if err != nil {
			return Value{}, err
		}
		return EnumValue(n), nil
	case KindMemSize:
		n, err := ParseMemSize(s)
		if err != nil {
			return Value{}, err
		}
		return MemSizeValue(n), nil
	case KindColor:
		c, err := ParseColor(s)
		if err != nil {
			return Value{}, err
		}
		return ColorValue(c), nil
	case KindCustom:
		if t.Transform == nil || t.Transform.FromText == nil {
			return Value{}, ErrNoTransform
		}
		x, err := t.Transform.FromText(s)
		if err != nil {
			return Value{}, err
		}
		return CustomValue(x), nil
	case KindObject:
		return Value{}, fmt.Errorf("%w: nested objects are read as lists", ErrNoTransform)
	}
	return Value{}, fmt.Errorf("propconf: cannot decode kind %s", t.Kind)
}

// ParseBool accepts yes, true, no and false in any letter case.
func ParseBool(s string) (bool, error) {
	switch {
	case strings.EqualFold(s, "yes"), strings.EqualFold(s, "true"):
		return true, nil
	case strings.EqualFold(s, "no"), strings.EqualFold(s, "false"):
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", s)
}

// EncodeEnum returns the nickname of value v.
func EncodeEnum(e *EnumType, v int) (string, error) {
	if e == nil {
		return "", fmt.Errorf("propconf: enum property without table")
	}
	ev, ok := e.ByValue(v)
	if !ok {
		return "", fmt.Errorf("%d is not a valid %s value", v, e.Name)
	}
	return ev.Nick, nil
}

// DecodeEnum resolves s by nickname, then by full name, then as a numeric
// value.
func DecodeEnum(e *EnumType, s string) (int, error) {
	if e == nil {
		return 0, fmt.Errorf("propconf: enum property without table")
	}
	if ev, ok := e.ByNick(s); ok {
		return ev.Value, nil
	}
	if ev, ok := e.ByName(s); ok {
		return ev.Value, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if ev, ok := e.ByValue(n); ok {
			return ev.Value, nil
		}
	}
	return 0, fmt.Errorf("invalid value %q for %s (expected one of %s)", s, e.Name, strings.Join(e.Nicks(), ", "))
}

// checkValue validates v against the descriptor without storing it.
func checkValue(d *Descriptor, v Value) error {
	if v.Kind() != d.Type.Kind {
		return fmt.Errorf("%w: %s for %s property %q", ErrKindMismatch, v.Kind(), d.Type.Kind, d.Name)
	}
	switch d.Type.Kind {
	case KindEnum:
		if _, ok := d.Type.Enum.ByValue(v.AsEnum()); !ok {
			return fmt.Errorf("%d is not a valid %s value", v.AsEnum(), d.Type.Enum.Name)
		}
	case KindColor:
		if !validColor(v.AsColor()) {
			return fmt.Errorf("%w: color channels of %q must be within [0, 1]", ErrOutOfRange, d.Name)
		}
	case KindObject:
		o := v.AsObject()
		if o == nil {
			return fmt.Errorf("propconf: nil object for property %q", d.Name)
		}
		if o.Type() != d.Type.Object {
			return fmt.Errorf("%w: %s object for property %q of type %s", ErrKindMismatch, o.Type().Name(), d.Name, d.Type.Object.Name())
		}
	}
	if d.Range != nil {
		if n, ok := v.Number(); ok && (n < d.Range.Min || n > d.Range.Max) {
			return fmt.Errorf("%w: %s is outside [%s, %s]", ErrOutOfRange, v, formatFloat(d.Range.Min), formatFloat(d.Range.Max))
		}
	}
	return nil
}

// valuesEqual compares two values of type t.
func valuesEqual(t ValueType, a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch t.Kind {
	case KindObject:
		if a.AsObject() == nil || b.AsObject() == nil {
			return a.AsObject() == b.AsObject()
		}
		return Equal(a.AsObject(), b.AsObject())
	case KindCustom:
		at, aerr := EncodeText(t, a)
		bt, berr := EncodeText(t, b)
		if aerr != nil || berr != nil {
			return false
		}
		return at == bt
	}
	return a == b
}
