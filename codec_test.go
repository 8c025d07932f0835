package propconf_test

import (
	"errors"
	"math"
	"testing"

	"github.com/reoring/propconf"
)

func TestMemSize_Format(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{1023, "1023"},
		{1024, "1K"},
		{3 * 1024, "3K"},
		{1536 * 1024, "1536K"},
		{1048576, "1M"},
		{1 << 30, "1G"},
		{5 << 30, "5G"},
	}
	for _, tt := range tests {
		if got := propconf.FormatMemSize(tt.n); got != tt.want {
			t.Fatalf("FormatMemSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
		back, err := propconf.ParseMemSize(tt.want)
		if err != nil {
			t.Fatalf("ParseMemSize(%q): %v", tt.want, err)
		}
		if back != tt.n {
			t.Fatalf("round-trip %d -> %q -> %d", tt.n, tt.want, back)
		}
	}
}

func TestMemSize_Parse(t *testing.T) {
	ok := map[string]uint64{
		"512m": 512 << 20,
		"2G":   2 << 30,
		"10b":  10,
		"7":    7,
		"64k":  64 << 10,
	}
	for in, want := range ok {
		got, err := propconf.ParseMemSize(in)
		if err != nil || got != want {
			t.Fatalf("ParseMemSize(%q) = %d, %v; want %d", in, got, err, want)
		}
	}
	for _, in := range []string{"", "K", "12X", "12KB", "-4", "99999999999999999999G"} {
		if _, err := propconf.ParseMemSize(in); err == nil {
			t.Fatalf("ParseMemSize(%q): expected error", in)
		}
	}
}

func TestEnum_EncodeUsesNick(t *testing.T) {
	text, err := propconf.EncodeText(propconf.EnumOf(interpolation), propconf.EnumValue(1))
	if err != nil {
		t.Fatal(err)
	}
	if text != "linear" {
		t.Fatalf("encoded %q, want nickname", text)
	}
	for in, want := range map[string]int{"cubic": 2, "INTERPOLATION_NONE": 0, "1": 1} {
		n, err := propconf.DecodeEnum(interpolation, in)
		if err != nil || n != want {
			t.Fatalf("DecodeEnum(%q) = %d, %v; want %d", in, n, err, want)
		}
	}
	if _, err := propconf.DecodeEnum(interpolation, "bicubic"); err == nil {
		t.Fatalf("expected error for unknown nickname")
	}
	if _, err := propconf.EncodeText(propconf.EnumOf(interpolation), propconf.EnumValue(9)); err == nil {
		t.Fatalf("expected error for value outside the table")
	}
}

func TestParseBool(t *testing.T) {
	for _, in := range []string{"yes", "Yes", "TRUE", "true"} {
		b, err := propconf.ParseBool(in)
		if err != nil || !b {
			t.Fatalf("ParseBool(%q) = %v, %v", in, b, err)
		}
	}
	for _, in := range []string{"no", "False"} {
		b, err := propconf.ParseBool(in)
		if err != nil || b {
			t.Fatalf("ParseBool(%q) = %v, %v", in, b, err)
		}
	}
	if _, err := propconf.ParseBool("maybe"); err == nil {
		t.Fatalf("expected error for maybe")
	}
}

func TestColor_TextForm(t *testing.T) {
	c := propconf.Color{R: 1, G: 0.25, B: 0, A: 0.5}
	text := propconf.FormatColor(c)
	if text != "(color-rgba 1 0.25 0 0.5)" {
		t.Fatalf("FormatColor = %q", text)
	}
	back, err := propconf.ParseColor(text)
	if err != nil || back != c {
		t.Fatalf("ParseColor = %+v, %v", back, err)
	}
	rgb, err := propconf.ParseColor("(color-rgb 0 1 0)")
	if err != nil || rgb != (propconf.Color{G: 1, A: 1}) {
		t.Fatalf("color-rgb = %+v, %v", rgb, err)
	}
	if _, err := propconf.ParseColor("(color-rgba 2 0 0 1)"); err == nil {
		t.Fatalf("expected error for channel above 1")
	}
}

func TestDecodeText_Kinds(t *testing.T) {
	tests := []struct {
		typ  propconf.ValueType
		in   string
		want propconf.Value
	}{
		{propconf.TypeBool, "no", propconf.BoolValue(false)},
		{propconf.TypeInt, "-12", propconf.IntValue(-12)},
		{propconf.TypeUInt, "12", propconf.UIntValue(12)},
		{propconf.TypeDouble, "0.5", propconf.DoubleValue(0.5)},
		{propconf.TypeString, "a b", propconf.StringValue("a b")},
		{propconf.TypeMemSize, "2M", propconf.MemSizeValue(2 << 20)},
		{propconf.PathOf(propconf.PathFile), "/etc/x", propconf.PathValue("/etc/x")},
		{propconf.CustomOf(unitTransform), "mm", propconf.CustomValue("mm")},
	}
	for _, tt := range tests {
		got, err := propconf.DecodeText(tt.typ, tt.in)
		if err != nil {
			t.Fatalf("DecodeText(%s, %q): %v", tt.typ.Kind, tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("DecodeText(%s, %q) = %v, want %v", tt.typ.Kind, tt.in, got, tt.want)
		}
		text, err := propconf.EncodeText(tt.typ, got)
		if err != nil || text != tt.in {
			t.Fatalf("EncodeText(%v) = %q, %v; want %q", got, text, err, tt.in)
		}
	}
	if _, err := propconf.DecodeText(propconf.CustomOf(unitTransform), "furlong"); err == nil {
		t.Fatalf("expected transform error")
	}
}

func TestFloat_NonFiniteRejected(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		if _, err := propconf.EncodeText(propconf.TypeDouble, propconf.DoubleValue(f)); !errors.Is(err, propconf.ErrOutOfRange) {
			t.Fatalf("EncodeText(%v): %v", f, err)
		}
	}
	for _, in := range []string{"Inf", "-inf", "NaN"} {
		if _, err := propconf.DecodeText(propconf.TypeDouble, in); err == nil {
			t.Fatalf("DecodeText(%q) accepted", in)
		}
	}
	o := propconf.New(testType)
	if err := o.Set("mask-color", propconf.RGBA(math.NaN(), 0, 0, 1)); err == nil {
		t.Fatalf("NaN color channel accepted")
	}
}
