package gimprc

import (
	"fmt"
	"strings"

	"github.com/reoring/propconf"
)

// Interpolation selects the resampling method used for scaling and
// transforms.
var Interpolation = &propconf.EnumType{
	Name: "GimpInterpolationType",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_INTERPOLATION_NONE", Nick: "none"},
		{Value: 1, Name: "GIMP_INTERPOLATION_LINEAR", Nick: "linear"},
		{Value: 2, Name: "GIMP_INTERPOLATION_CUBIC", Nick: "cubic"},
		{Value: 3, Name: "GIMP_INTERPOLATION_NOHALO", Nick: "nohalo"},
		{Value: 4, Name: "GIMP_INTERPOLATION_LOHALO", Nick: "lohalo"},
	},
}

var ThumbnailSize = &propconf.EnumType{
	Name: "GimpThumbnailSize",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_THUMBNAIL_SIZE_NONE", Nick: "none"},
		{Value: 128, Name: "GIMP_THUMBNAIL_SIZE_NORMAL", Nick: "normal"},
		{Value: 256, Name: "GIMP_THUMBNAIL_SIZE_LARGE", Nick: "large"},
	},
}

var ImageBaseType = &propconf.EnumType{
	Name: "GimpImageBaseType",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_RGB", Nick: "rgb"},
		{Value: 1, Name: "GIMP_GRAY", Nick: "gray"},
		{Value: 2, Name: "GIMP_INDEXED", Nick: "indexed"},
	},
}

var FillType = &propconf.EnumType{
	Name: "GimpFillType",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_FILL_FOREGROUND", Nick: "foreground"},
		{Value: 1, Name: "GIMP_FILL_BACKGROUND", Nick: "background"},
		{Value: 2, Name: "GIMP_FILL_WHITE", Nick: "white"},
		{Value: 3, Name: "GIMP_FILL_TRANSPARENT", Nick: "transparent"},
		{Value: 4, Name: "GIMP_FILL_PATTERN", Nick: "pattern"},
	},
}

var IconSize = &propconf.EnumType{
	Name: "GimpIconSize",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_ICON_SIZE_AUTO", Nick: "auto"},
		{Value: 1, Name: "GIMP_ICON_SIZE_SMALL", Nick: "small"},
		{Value: 2, Name: "GIMP_ICON_SIZE_MEDIUM", Nick: "medium"},
		{Value: 3, Name: "GIMP_ICON_SIZE_LARGE", Nick: "large"},
		{Value: 4, Name: "GIMP_ICON_SIZE_HUGE", Nick: "huge"},
	},
}

var HelpBrowser = &propconf.EnumType{
	Name: "GimpHelpBrowserType",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_HELP_BROWSER_GIMP", Nick: "gimp"},
		{Value: 1, Name: "GIMP_HELP_BROWSER_WEB_BROWSER", Nick: "web-browser"},
	},
}

var Handedness = &propconf.EnumType{
	Name: "GimpHandedness",
	Values: []propconf.EnumEntry{
		{Value: 0, Name: "GIMP_HANDEDNESS_LEFT", Nick: "left"},
		{Value: 1, Name: "GIMP_HANDEDNESS_RIGHT", Nick: "right"},
	},
}

// Unit is a measurement unit for image dimensions. It is stored as a custom
// value and written by identifier.
type Unit int

const (
	UnitPixel Unit = iota
	UnitInch
	UnitMM
	UnitPoint
	UnitPica
)

var unitNames = [...]string{"pixels", "inches", "millimeters", "points", "picas"}

func (u Unit) String() string {
	if u < 0 || int(u) >= len(unitNames) {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitNames[u]
}

// ParseUnit accepts a unit identifier, its singular form, or a short
// abbreviation ("px", "in", "mm", "pt", "pc").
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(s) {
	case "pixels", "pixel", "px":
		return UnitPixel, nil
	case "inches", "inch", "in":
		return UnitInch, nil
	case "millimeters", "millimeter", "mm":
		return UnitMM, nil
	case "points", "point", "pt":
		return UnitPoint, nil
	case "picas", "pica", "pc":
		return UnitPica, nil
	}
	return 0, fmt.Errorf("unknown unit %q", s)
}

// UnitTransform converts Unit values to and from their text form.
var UnitTransform = &propconf.Transform{
	Name: "GimpUnit",
	ToText: func(x any) (string, error) {
		u, ok := x.(Unit)
		if !ok {
			return "", fmt.Errorf("unit: unexpected %T", x)
		}
		if u < 0 || int(u) >= len(unitNames) {
			return "", fmt.Errorf("unit: %d out of range", int(u))
		}
		return u.String(), nil
	},
	FromText: func(s string) (any, error) {
		u, err := ParseUnit(s)
		if err != nil {
			return nil, err
		}
		return u, nil
	},
}
