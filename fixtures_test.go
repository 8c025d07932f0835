package propconf_test

import (
	"errors"
	"fmt"

	"github.com/reoring/propconf"
)

var interpolation = &propconf.EnumType{
	Name: "Interpolation",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "INTERPOLATION_NONE", Nick: "none"},
		{Value: 1, Name: "INTERPOLATION_LINEAR", Nick: "linear"},
		{Value: 2, Name: "INTERPOLATION_CUBIC", Nick: "cubic"},
	},
}

var units = map[string]bool{"inch": true, "mm": true, "px": true}

var unitTransform = &propconf.Transform{
	Name: "unit",
	ToText: func(x any) (string, error) {
		s, ok := x.(string)
		if !ok {
			return "", fmt.Errorf("unit must be a string, got %T", x)
		}
		return s, nil
	},
	FromText: func(s string) (any, error) {
		if !units[s] {
			return nil, errors.New("unknown unit " + s)
		}
		return s, nil
	},
}

var imageType = propconf.MustType("test-image",
	propconf.IntProp("width", 640, "image width", propconf.WithRange(1, 65536)),
	propconf.IntProp("height", 480, "image height", propconf.WithRange(1, 65536)),
	propconf.StringProp("comment", "", "image comment"),
)

var testType = propconf.MustType("test-config",
	propconf.BoolProp("show-tips", true, "show tips on startup"),
	propconf.IntProp("undo-levels", 5, "minimal undo levels", propconf.WithRange(0, 1<<20)),
	propconf.UIntProp("num-processors", 1, "worker threads"),
	propconf.DoubleProp("resolution", 72, "default resolution"),
	propconf.FloatProp("gamma", 2.2, "display gamma"),
	propconf.StringProp("title", "Untitled", "window title"),
	propconf.EnumProp("interpolation-type", interpolation, 2, "interpolation"),
	propconf.MemSizeProp("tile-cache-size", 256<<20, "tile cache size"),
	propconf.PathProp("temp-path", propconf.PathDir, "/tmp", "temporary folder"),
	propconf.ColorProp("mask-color", propconf.Color{R: 1, A: 0.5}, "quick mask color"),
	propconf.CustomProp("unit", unitTransform, "inch", "default unit"),
	propconf.ObjectProp("default-image", imageType, "new image template"),
	propconf.IntProp("session-id", 0, "runtime only", propconf.WithFlags(propconf.FlagRead|propconf.FlagWrite)),
)

type failer interface {
	Helper()
	Fatalf(format string, args ...any)
}

func mustSet(t failer, c propconf.Config, name string, v propconf.Value) {
	t.Helper()
	if err := c.Set(name, v); err != nil {
		t.Fatalf("Set(%s): %v", name, err)
	}
}

func mustGet(t failer, c propconf.Config, name string) propconf.Value {
	t.Helper()
	v, err := c.Get(name)
	if err != nil {
		t.Fatalf("Get(%s): %v", name, err)
	}
	return v
}

func image(t failer, c propconf.Config) *propconf.Object {
	t.Helper()
	return mustGet(t, c, "default-image").AsObject()
}
