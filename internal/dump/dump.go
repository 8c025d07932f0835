// Package dump renders a configuration type as an rc file, a commented
// reference file, a troff man page, or a JSON snapshot.
package dump

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/propconf"
	"github.com/reoring/propconf/writer"
)

// Format selects the output of Dump.
type Format int

const (
	FormatRC Format = iota
	FormatSystemRC
	FormatManPage
	FormatJSON
)

func (f Format) String() string {
	switch f {
	case FormatSystemRC:
		return "system-rc"
	case FormatManPage:
		return "man-page"
	case FormatJSON:
		return "json"
	}
	return "rc"
}

// Options label the generated output.
type Options struct {
	Program string
	Version string
}

func (o Options) generator() string {
	p := o.Program
	if p == "" {
		p = "propconf-dump"
	}
	if o.Version != "" {
		p += " " + o.Version
	}
	return p
}

// Dump writes c, normally an object holding defaults, to out in format f.
func Dump(out io.Writer, c propconf.Config, f Format, opt Options) error {
	switch f {
	case FormatRC:
		return RC(out, c, opt)
	case FormatSystemRC:
		return SystemRC(out, c, opt)
	case FormatManPage:
		return ManPage(out, c, opt)
	case FormatJSON:
		return JSON(out, c)
	}
	return fmt.Errorf("dump: unknown format %d", int(f))
}

// RC writes c as a plain rc file.
func RC(out io.Writer, c propconf.Config, opt Options) error {
	header := fmt.Sprintf("This is a %s file generated by %s.", c.Type().Name(), opt.generator())
	return propconf.SerializeTo(c, out, header, "")
}

const systemHeader = `This is the system-wide %[1]s file.  Any change made in this file will affect all users of this system, provided that they are not overriding the default values in their personal %[1]s file.

Lines that start with a '#' are comments. Blank lines are ignored.

By default everything in this file is commented out. The file then documents the default values and shows what changes are possible.

The variable ${gimp_dir} is set to the value of the environment variable GIMP_DIRECTORY or, if that is not set, the built-in default is used.`

// SystemRC writes the reference file: every serializable property commented
// out with its default value, preceded by its description and legal values.
func SystemRC(out io.Writer, c propconf.Config, opt Options) error {
	w := writer.NewStream(out, fmt.Sprintf(systemHeader, c.Type().Name()))
	w.Comment("Generated by " + opt.generator() + ".")
	w.Linefeed()
	for _, d := range c.Type().Properties() {
		if !d.Serializable() {
			continue
		}
		w.Comment(describe(d))
		w.CommentMode(true)
		if err := propconf.SerializeProperty(c, d.Name, w); err != nil {
			_ = w.Finish("")
			return err
		}
		w.CommentMode(false)
		w.Linefeed()
	}
	return w.Finish("")
}

func describe(d *propconf.Descriptor) string {
	s := strings.TrimSpace(d.Blurb)
	if s != "" {
		s += "\n"
	}
	return s + "Possible values are " + Legal(d) + "."
}

// Legal describes the values d accepts.
func Legal(d *propconf.Descriptor) string {
	s := d.Type.Describe()
	if d.Range != nil {
		s += " in the range " + number(d.Range.Min) + " to " + number(d.Range.Max)
	}
	return s
}

func number(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ManPage writes a troff page in section 5 describing every serializable
// property of c.
func ManPage(out io.Writer, c propconf.Config, opt Options) error {
	name := c.Type().Name()
	bw := bufio.NewWriter(out)
	fmt.Fprintf(bw, ".\\\" This man-page is auto-generated by %s.\n", roff(opt.generator()))
	fmt.Fprintf(bw, ".TH %s 5 \"\" \"Version %s\" \"Manual Pages\"\n", strings.ToUpper(roff(name)), roff(opt.Version))
	fmt.Fprintf(bw, ".SH NAME\n%s \\- configuration file\n", roff(name))
	fmt.Fprintf(bw, ".SH DESCRIPTION\n")
	fmt.Fprintf(bw, "The \\fB%s\\fP file is read at startup. ", roff(name))
	fmt.Fprintf(bw, "Values in the personal file override those of the system-wide file.\n")
	fmt.Fprintf(bw, ".PP\nEach line holds a parenthesized record: a property name followed by its value. ")
	fmt.Fprintf(bw, "Lines starting with '#' are comments.\n")
	fmt.Fprintf(bw, ".SH PROPERTIES\n")
	for _, d := range c.Type().Properties() {
		if !d.Serializable() {
			continue
		}
		rec, err := propconf.FormatRecord(c, d.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(bw, ".TP\n%s\n", roffLine(oneLine(rec)))
		if b := strings.TrimSpace(d.Blurb); b != "" {
			fmt.Fprintf(bw, "%s ", roffLine(b))
		}
		fmt.Fprintf(bw, "Possible values are %s.\n", roff(Legal(d)))
	}
	fmt.Fprintf(bw, ".SH FILES\n")
	fmt.Fprintf(bw, ".TP\n.I ${gimp_sysconf_dir}/%s\nSystem-wide configuration file\n", roff(name))
	fmt.Fprintf(bw, ".TP\n.I ${gimp_dir}/%s\nPersonal configuration file\n", roff(name))
	return bw.Flush()
}

// oneLine folds a multi-line record onto a single line.
func oneLine(rec string) string {
	return strings.Join(strings.Fields(rec), " ")
}

var roffReplacer = strings.NewReplacer(`\`, `\e`, "-", `\-`)

func roff(s string) string { return roffReplacer.Replace(s) }

// roffLine also protects a leading control character.
func roffLine(s string) string {
	s = roff(s)
	if strings.HasPrefix(s, ".") || strings.HasPrefix(s, "'") {
		s = `\&` + s
	}
	return s
}

// Snapshot is the JSON form of a configuration object.
type Snapshot struct {
	Type       string         `json:"type"`
	Blurb      string         `json:"blurb,omitempty"`
	Properties []Property     `json:"properties"`
	Unknown    []UnknownToken `json:"unknown,omitempty"`
}

type Property struct {
	Name   string   `json:"name"`
	Kind   string   `json:"kind"`
	Value  any      `json:"value"`
	Text   string   `json:"text,omitempty"`
	Blurb  string   `json:"blurb,omitempty"`
	Legal  string   `json:"legal"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Stored bool     `json:"stored"`
}

type UnknownToken struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type color struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// Take builds the snapshot of c. Unreadable properties are left out.
func Take(c propconf.Config) (*Snapshot, error) {
	s := &Snapshot{Type: c.Type().Name(), Blurb: c.Type().Blurb(), Properties: []Property{}}
	for _, d := range c.Type().Properties() {
		v, err := c.Get(d.Name)
		if err != nil {
			continue
		}
		p := Property{
			Name:   d.Name,
			Kind:   d.Type.Kind.String(),
			Blurb:  d.Blurb,
			Legal:  Legal(d),
			Stored: d.Serializable(),
		}
		if d.Range != nil {
			lo, hi := d.Range.Min, d.Range.Max
			p.Min, p.Max = &lo, &hi
		}
		if p.Value, p.Text, err = native(d, v); err != nil {
			return nil, fmt.Errorf("dump: %s: %w", d.Name, err)
		}
		s.Properties = append(s.Properties, p)
	}
	c.UnknownTokens().Range(func(k, v string) bool {
		s.Unknown = append(s.Unknown, UnknownToken{Key: k, Value: v})
		return true
	})
	return s, nil
}

func native(d *propconf.Descriptor, v propconf.Value) (any, string, error) {
	if d.Type.Kind == propconf.KindObject {
		o := v.AsObject()
		if o == nil {
			return nil, "", nil
		}
		sub, err := Take(o)
		return sub, "", err
	}
	text, err := propconf.EncodeText(d.Type, v)
	if err != nil {
		return nil, "", err
	}
	switch d.Type.Kind {
	case propconf.KindBool:
		return v.AsBool(), "", nil
	case propconf.KindInt:
		return v.AsInt(), "", nil
	case propconf.KindUInt:
		return v.AsUint(), "", nil
	case propconf.KindFloat, propconf.KindDouble:
		return v.AsFloat(), "", nil
	case propconf.KindString, propconf.KindPath:
		return v.AsString(), "", nil
	case propconf.KindMemSize:
		return v.AsUint(), text, nil
	case propconf.KindColor:
		col := v.AsColor()
		return color{R: col.R, G: col.G, B: col.B, A: col.A}, text, nil
	}
	// enums and custom values are only meaningful in text form
	return text, text, nil
}

// JSON writes the indented snapshot of c.
func JSON(out io.Writer, c propconf.Config) error {
	s, err := Take(c)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	b = append(b, '\n')
	_, err = out.Write(b)
	return err
}
