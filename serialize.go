package propconf

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/reoring/propconf/writer"
)

// SerializeProperties writes a (name value) record for every serializable
// property of c in declaration order. It is best-effort: a property that
// fails to encode is reverted, logged and reported in the returned Issues
// while the remaining properties are still written.
func SerializeProperties(c Config, w *writer.Writer, opts ...SerializeOpt) error {
	return serializeProps(c, nil, w, false, getLogger(serializeOpt(opts).Logger))
}

// SerializeChangedProperties is SerializeProperties restricted to properties
// whose encoded record differs from the same property of baseline.
func SerializeChangedProperties(c, baseline Config, w *writer.Writer, opts ...SerializeOpt) error {
	return serializeProps(c, baseline, w, false, getLogger(serializeOpt(opts).Logger))
}

// SerializeProperty writes the record of the single property name of c.
// Unlike SerializeProperties it also writes properties that are not flagged
// for serialization.
func SerializeProperty(c Config, name string, w *writer.Writer) error {
	d, ok := c.Type().Property(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	v, err := c.Get(name)
	if err != nil {
		return err
	}
	w.Open(name)
	if err := writeValue(w, d, v); err != nil {
		w.Revert()
		return Issue{Code: CodeEncodeError, Property: name, Message: err.Error(), Cause: err}
	}
	w.Close()
	if err := w.Err(); err != nil {
		return ioIssue(CodeWriteFailed, "", err)
	}
	return nil
}

// FormatRecord renders the record of property name of c as text, ending in a
// newline.
func FormatRecord(c Config, name string) (string, error) {
	w := writer.NewBuffer("")
	if err := SerializeProperty(c, name, w); err != nil {
		return "", err
	}
	if err := w.Finish(""); err != nil {
		return "", err
	}
	return w.String(), nil
}

// SerializeUnknownTokens writes every unknown token of c as (key "value") in
// insertion order.
func SerializeUnknownTokens(c Config, w *writer.Writer) error {
	c.UnknownTokens().Range(func(k, v string) bool {
		w.Open(k)
		w.Quoted(v)
		w.Close()
		return w.Err() == nil
	})
	if err := w.Err(); err != nil {
		return ioIssue(CodeWriteFailed, "", err)
	}
	return nil
}

// Serialize atomically replaces filename with the properties and unknown
// tokens of c, framed by header and footer comments. The first encode or
// write failure aborts the save and leaves filename untouched.
func Serialize(c Config, filename, header, footer string, opts ...SerializeOpt) error {
	return serializeFile(c, nil, filename, header, footer, getLogger(serializeOpt(opts).Logger))
}

// SerializeChanged is Serialize writing only properties that differ from
// baseline. Unknown tokens are always written.
func SerializeChanged(c, baseline Config, filename, header, footer string, opts ...SerializeOpt) error {
	return serializeFile(c, baseline, filename, header, footer, getLogger(serializeOpt(opts).Logger))
}

// SerializeTo writes c to out without atomicity, e.g. to standard output.
// Like SerializeProperties it continues past encode failures.
func SerializeTo(c Config, out io.Writer, header, footer string, opts ...SerializeOpt) error {
	log := getLogger(serializeOpt(opts).Logger)
	w := writer.NewStream(out, header)
	var iss Issues
	if err := serializeProps(c, nil, w, false, log); err != nil {
		got, ok := AsIssues(err)
		if !ok || HasCode(err, CodeWriteFailed) {
			_ = w.Finish("")
			return err
		}
		iss = append(iss, got...)
	}
	if err := SerializeUnknownTokens(c, w); err != nil {
		return err
	}
	if err := w.Finish(footer); err != nil {
		return ioIssue(CodeWriteFailed, "", err)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// SerializeToString renders c in memory. The first encode failure aborts.
func SerializeToString(c Config, header string, opts ...SerializeOpt) (string, error) {
	w := writer.NewBuffer(header)
	if err := serializeProps(c, nil, w, true, getLogger(serializeOpt(opts).Logger)); err != nil {
		return "", err
	}
	if err := SerializeUnknownTokens(c, w); err != nil {
		return "", err
	}
	if err := w.Finish(""); err != nil {
		return "", ioIssue(CodeWriteFailed, "", err)
	}
	return w.String(), nil
}

func serializeFile(c, baseline Config, filename, header, footer string, log *slog.Logger) error {
	w, err := writer.NewFile(filename, header)
	if err != nil {
		return ioIssue(CodeOpenFailed, filename, err)
	}
	if err := serializeProps(c, baseline, w, true, log); err != nil {
		w.Fail(err)
		_ = w.Finish("")
		return withFile(err, filename)
	}
	if err := SerializeUnknownTokens(c, w); err != nil {
		_ = w.Finish("")
		return withFile(err, filename)
	}
	if err := w.Finish(footer); err != nil {
		return ioIssue(CodeWriteFailed, filename, err)
	}
	log.Debug("saved properties", "type", c.Type().Name(), "file", filename)
	return nil
}

func serializeProps(c, baseline Config, w *writer.Writer, strict bool, log *slog.Logger) error {
	var iss Issues
	for _, d := range c.Type().props {
		if !d.Serializable() {
			continue
		}
		v, err := c.Get(d.Name)
		if err != nil {
			return Issue{Code: CodeEncodeError, Property: d.Name, Message: err.Error(), Cause: err}
		}
		if baseline != nil && unchanged(d, v, baseline) {
			continue
		}
		w.Open(d.Name)
		if err := writeValue(w, d, v); err != nil {
			w.Revert()
			it := Issue{Code: CodeEncodeError, Property: d.Name, Message: err.Error(), Cause: err}
			if strict {
				return it
			}
			log.Warn("skipping property that cannot be encoded", "type", c.Type().Name(), "property", d.Name, "err", err)
			iss = append(iss, it)
			continue
		}
		w.Close()
		if err := w.Err(); err != nil {
			return ioIssue(CodeWriteFailed, "", err)
		}
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// unchanged reports whether v renders to the same record as baseline's value.
func unchanged(d *Descriptor, v Value, baseline Config) bool {
	bv, err := baseline.Get(d.Name)
	if err != nil {
		return false
	}
	a, err := renderRecord(d, v)
	if err != nil {
		return false
	}
	b, err := renderRecord(d, bv)
	if err != nil {
		return false
	}
	return a == b
}

func renderRecord(d *Descriptor, v Value) (string, error) {
	w := writer.NewBuffer("")
	w.Open(d.Name)
	if err := writeValue(w, d, v); err != nil {
		return "", err
	}
	w.Close()
	return w.String(), w.Err()
}

func writeValue(w *writer.Writer, d *Descriptor, v Value) error {
	switch d.Type.Kind {
	case KindObject:
		o := v.AsObject()
		if o == nil {
			return fmt.Errorf("nil object")
		}
		return writeNested(w, o)
	case KindString, KindPath, KindCustom:
		text, err := EncodeText(d.Type, v)
		if err != nil {
			return err
		}
		w.Quoted(text)
	default:
		text, err := EncodeText(d.Type, v)
		if err != nil {
			return err
		}
		w.Print(text)
	}
	return nil
}

func writeNested(w *writer.Writer, c Config) error {
	for _, d := range c.Type().props {
		if !d.Serializable() {
			continue
		}
		v, err := c.Get(d.Name)
		if err != nil {
			return err
		}
		w.Open(d.Name)
		if err := writeValue(w, d, v); err != nil {
			w.Revert()
			return fmt.Errorf("%s: %w", d.Name, err)
		}
		w.Close()
	}
	c.UnknownTokens().Range(func(k, v string) bool {
		w.Open(k)
		w.Quoted(v)
		w.Close()
		return true
	})
	return nil
}

func withFile(err error, file string) error {
	switch e := err.(type) {
	case Issue:
		if e.File == "" {
			e.File = file
		}
		return e
	case Issues:
		out := make(Issues, len(e))
		for i, it := range e {
			if it.File == "" {
				it.File = file
			}
			out[i] = it
		}
		return out
	}
	return err
}
