// Package schema builds propconf types from declarative YAML or TOML tables.
//
// A table file lists enumerations and types. Types may nest earlier types (or
// types already registered with propconf) as object properties:
//
//	enums:
//	  - name: Quality
//	    values:
//	      - {value: 0, name: QUALITY_LOW, nick: low}
//	      - {value: 1, name: QUALITY_HIGH, nick: high}
//	types:
//	  - name: export-settings
//	    properties:
//	      - {name: quality, type: enum, enum: Quality, default: high}
//	      - {name: cache, type: memsize, default: 64M}
//	      - {name: scale, type: int, default: 100, min: 1, max: 400}
//
// Defaults are written in the same text form the rc reader accepts.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/reoring/propconf"
)

// Format selects the table syntax.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

func (f Format) String() string {
	if f == FormatTOML {
		return "toml"
	}
	return "yaml"
}

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("schema: unsupported file extension %q", filepath.Ext(path))
}

// File is the decoded form of a table file.
type File struct {
	Root  string `yaml:"root,omitempty" toml:"root,omitempty"`
	Enums []Enum `yaml:"enums,omitempty" toml:"enums,omitempty"`
	Types []Type `yaml:"types" toml:"types"`
}

type Enum struct {
	Name   string      `yaml:"name" toml:"name"`
	Values []EnumValue `yaml:"values" toml:"values"`
}

type EnumValue struct {
	Value int    `yaml:"value" toml:"value"`
	Name  string `yaml:"name" toml:"name"`
	Nick  string `yaml:"nick" toml:"nick"`
}

type Type struct {
	Name       string     `yaml:"name" toml:"name"`
	Blurb      string     `yaml:"blurb,omitempty" toml:"blurb,omitempty"`
	Properties []Property `yaml:"properties" toml:"properties"`
}

// Property declares one property. Kind-specific fields are ignored by other
// kinds.
type Property struct {
	Name      string   `yaml:"name" toml:"name"`
	Type      string   `yaml:"type" toml:"type"`
	Blurb     string   `yaml:"blurb,omitempty" toml:"blurb,omitempty"`
	Default   any      `yaml:"default,omitempty" toml:"default,omitempty"`
	Min       *float64 `yaml:"min,omitempty" toml:"min,omitempty"`
	Max       *float64 `yaml:"max,omitempty" toml:"max,omitempty"`
	Enum      string   `yaml:"enum,omitempty" toml:"enum,omitempty"`
	Path      string   `yaml:"path,omitempty" toml:"path,omitempty"`
	Object    string   `yaml:"object,omitempty" toml:"object,omitempty"`
	Transform string   `yaml:"transform,omitempty" toml:"transform,omitempty"`
	Flags     []string `yaml:"flags,omitempty" toml:"flags,omitempty"`
}

// Result holds the types built from one file in declaration order.
type Result struct {
	Types []*propconf.TypeInfo
	Enums map[string]*propconf.EnumType
	root  string
}

// Root returns the type named by the file's root key, or the last declared
// type.
func (r *Result) Root() *propconf.TypeInfo {
	if r.root != "" {
		return r.Lookup(r.root)
	}
	if len(r.Types) == 0 {
		return nil
	}
	return r.Types[len(r.Types)-1]
}

// Lookup finds a type built from the file by name.
func (r *Result) Lookup(name string) *propconf.TypeInfo {
	for _, t := range r.Types {
		if t.Name() == name {
			return t
		}
	}
	return nil
}

// Register adds every type of r to the propconf registry.
func (r *Result) Register() error {
	for _, t := range r.Types {
		if err := propconf.Register(t); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile reads and builds a table file. The format follows the extension.
// transforms supplies the custom scalar types a table may name.
func LoadFile(path string, transforms ...*propconf.Transform) (*Result, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	r, err := Parse(data, format, transforms...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Parse decodes data in the given format and builds its types. Unknown keys
// in the table are rejected.
func Parse(data []byte, format Format, transforms ...*propconf.Transform) (*Result, error) {
	var f File
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &f)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		if un := md.Undecoded(); len(un) > 0 {
			return nil, fmt.Errorf("schema: unknown key %q", un[0].String())
		}
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
	}
	return Build(&f, transforms...)
}

// Build turns a decoded table into propconf types.
func Build(f *File, transforms ...*propconf.Transform) (*Result, error) {
	r := &Result{Enums: map[string]*propconf.EnumType{}, root: f.Root}
	for _, e := range f.Enums {
		if e.Name == "" || len(e.Values) == 0 {
			return nil, fmt.Errorf("schema: enum %q needs a name and values", e.Name)
		}
		if _, dup := r.Enums[e.Name]; dup {
			return nil, fmt.Errorf("schema: enum %q declared twice", e.Name)
		}
		et := &propconf.EnumType{Name: e.Name}
		for _, v := range e.Values {
			if v.Nick == "" {
				return nil, fmt.Errorf("schema: enum %q: value %d has no nick", e.Name, v.Value)
			}
			name := v.Name
			if name == "" {
				name = v.Nick
			}
			et.Values = append(et.Values, propconf.EnumEntry{Value: v.Value, Name: name, Nick: v.Nick})
		}
		r.Enums[e.Name] = et
	}

	tr := make(map[string]*propconf.Transform, len(transforms))
	for _, t := range transforms {
		tr[t.Name] = t
	}

	for _, t := range f.Types {
		if r.Lookup(t.Name) != nil {
			return nil, fmt.Errorf("schema: type %q declared twice", t.Name)
		}
		props := make([]propconf.Descriptor, 0, len(t.Properties))
		for _, p := range t.Properties {
			d, err := r.descriptor(p, tr)
			if err != nil {
				return nil, fmt.Errorf("schema: %s.%s: %w", t.Name, p.Name, err)
			}
			props = append(props, d)
		}
		ti, err := propconf.NewType(t.Name, props...)
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		if t.Blurb != "" {
			ti = ti.WithBlurb(t.Blurb)
		}
		r.Types = append(r.Types, ti)
	}
	if r.root != "" && r.Lookup(r.root) == nil {
		return nil, fmt.Errorf("schema: root type %q is not declared", r.root)
	}
	return r, nil
}

var pathKinds = map[string]propconf.PathKind{
	"":          propconf.PathFile,
	"file":      propconf.PathFile,
	"file-list": propconf.PathFileList,
	"dir":       propconf.PathDir,
	"dir-list":  propconf.PathDirList,
}

var flagNames = map[string]propconf.ParamFlags{
	"read":      propconf.FlagRead,
	"write":     propconf.FlagWrite,
	"construct": propconf.FlagConstruct,
	"serialize": propconf.FlagSerialize,
}

func (r *Result) valueType(p Property, tr map[string]*propconf.Transform) (propconf.ValueType, error) {
	switch strings.ToLower(p.Type) {
	case "bool", "boolean":
		return propconf.TypeBool, nil
	case "int":
		return propconf.TypeInt, nil
	case "uint":
		return propconf.TypeUInt, nil
	case "float":
		return propconf.TypeFloat, nil
	case "double":
		return propconf.TypeDouble, nil
	case "string":
		return propconf.TypeString, nil
	case "memsize":
		return propconf.TypeMemSize, nil
	case "color":
		return propconf.TypeColor, nil
	case "enum":
		e, ok := r.Enums[p.Enum]
		if !ok {
			return propconf.ValueType{}, fmt.Errorf("unknown enum %q", p.Enum)
		}
		return propconf.EnumOf(e), nil
	case "path":
		k, ok := pathKinds[strings.ToLower(p.Path)]
		if !ok {
			return propconf.ValueType{}, fmt.Errorf("unknown path kind %q", p.Path)
		}
		return propconf.PathOf(k), nil
	case "custom":
		t, ok := tr[p.Transform]
		if !ok {
			return propconf.ValueType{}, fmt.Errorf("no transform named %q", p.Transform)
		}
		return propconf.CustomOf(t), nil
	case "object":
		if t := r.Lookup(p.Object); t != nil {
			return propconf.ObjectOf(t), nil
		}
		if t, ok := propconf.LookupType(p.Object); ok {
			return propconf.ObjectOf(t), nil
		}
		return propconf.ValueType{}, fmt.Errorf("unknown object type %q", p.Object)
	}
	return propconf.ValueType{}, fmt.Errorf("unknown property type %q", p.Type)
}

func (r *Result) descriptor(p Property, tr map[string]*propconf.Transform) (propconf.Descriptor, error) {
	if p.Name == "" {
		return propconf.Descriptor{}, errors.New("property needs a name")
	}
	vt, err := r.valueType(p, tr)
	if err != nil {
		return propconf.Descriptor{}, err
	}
	d := propconf.Descriptor{Name: p.Name, Type: vt, Flags: propconf.FlagDefault, Blurb: p.Blurb}
	if len(p.Flags) > 0 {
		d.Flags = 0
		for _, name := range p.Flags {
			f, ok := flagNames[strings.ToLower(name)]
			if !ok {
				return propconf.Descriptor{}, fmt.Errorf("unknown flag %q", name)
			}
			d.Flags |= f
		}
	}
	if p.Min != nil || p.Max != nil {
		if vt.Kind != propconf.KindInt && vt.Kind != propconf.KindUInt &&
			vt.Kind != propconf.KindFloat && vt.Kind != propconf.KindDouble && vt.Kind != propconf.KindMemSize {
			return propconf.Descriptor{}, fmt.Errorf("min/max on a %s property", vt.Kind)
		}
		rg := &propconf.Range{Min: -1e308, Max: 1e308}
		if p.Min != nil {
			rg.Min = *p.Min
		}
		if p.Max != nil {
			rg.Max = *p.Max
		}
		d.Range = rg
	}
	if vt.Kind == propconf.KindObject {
		if p.Default != nil {
			return propconf.Descriptor{}, errors.New("object properties take no default")
		}
		return d, nil
	}
	d.Default, err = defaultValue(vt, p.Default)
	if err != nil {
		return propconf.Descriptor{}, fmt.Errorf("default: %w", err)
	}
	if d.Range != nil {
		if n, ok := d.Default.Number(); ok && (n < d.Range.Min || n > d.Range.Max) {
			return propconf.Descriptor{}, fmt.Errorf("default %v outside [%v, %v]", n, d.Range.Min, d.Range.Max)
		}
	}
	return d, nil
}

// defaultValue decodes a table default. Missing defaults are the zero value
// of the kind; enums default to their first entry.
func defaultValue(vt propconf.ValueType, raw any) (propconf.Value, error) {
	if raw == nil {
		switch vt.Kind {
		case propconf.KindEnum:
			return propconf.EnumValue(vt.Enum.Values[0].Value), nil
		case propconf.KindColor:
			return propconf.RGBA(0, 0, 0, 1), nil
		case propconf.KindCustom:
			return propconf.Value{}, errors.New("custom properties need a default")
		}
		raw = ""
		switch vt.Kind {
		case propconf.KindBool:
			raw = false
		case propconf.KindInt, propconf.KindUInt, propconf.KindFloat, propconf.KindDouble, propconf.KindMemSize:
			raw = 0
		}
	}
	text, err := scalarText(raw)
	if err != nil {
		return propconf.Value{}, err
	}
	return propconf.DecodeText(vt, text)
}

func scalarText(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case bool:
		if v {
			return "yes", nil
		}
		return "no", nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	}
	return "", fmt.Errorf("unsupported default %v (%T)", raw, raw)
}
