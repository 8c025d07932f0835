package propconf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/reoring/propconf/scanner"
)

// Identifier sets used while reading a memory size, so that 512M lexes as a
// single token.
const (
	memSizeIdentFirst = scanner.CsetDigits
	memSizeIdentNth   = scanner.CsetDigits + "bBkKmMgG"
)

// DeserializeProperties reads (name value) records from sc into c until the
// end of input.
//
// A record whose value has the wrong token kind or does not decode is
// reported as an Issue with its position, skipped up to its closing ')' and
// parsing continues; properties set before and after it stay set. With
// FailFast the first such issue ends the call. Malformed structure (a missing
// '(' or property name, end of input inside a record) always ends the call.
// Records naming no property go to c's unknown-token table according to
// DeserializeOpt.Unknown.
//
// Symbols are registered in a scope of their own which is dropped before
// returning, so sc may be reused for other types.
func DeserializeProperties(c Config, sc *scanner.Scanner, opts ...DeserializeOpt) error {
	opt := deserializeOpt(opts)
	d := &deserializer{sc: sc, opt: opt, log: getLogger(opt.Logger)}
	if f, ok := c.(notifyFreezer); ok {
		f.FreezeNotify()
		defer f.ThawNotify()
	}
	if err := d.properties(c, false); err != nil {
		return err
	}
	if len(d.issues) > 0 {
		return d.issues
	}
	return nil
}

// Deserialize loads filename into c. A missing file yields a not_found issue
// that also matches fs.ErrNotExist.
func Deserialize(c Config, filename string, opts ...DeserializeOpt) error {
	opt := deserializeOpt(opts)
	f, err := os.Open(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Issue{Code: CodeNotFound, File: filename, Cause: err}
		}
		return ioIssue(CodeOpenFailed, filename, err)
	}
	defer f.Close()
	src, err := readLimited(f, opt.MaxBytes, filename)
	if err != nil {
		return err
	}
	getLogger(opt.Logger).Debug("loading properties", "type", c.Type().Name(), "file", filename)
	return DeserializeProperties(c, scanner.New(src, filename), opt)
}

// DeserializeString loads text into c.
func DeserializeString(c Config, text string, opts ...DeserializeOpt) error {
	return DeserializeProperties(c, scanner.NewString(text, ""), opts...)
}

// DeserializeReader loads everything read from r into c. name labels
// diagnostics. DeserializeOpt.MaxBytes bounds the input.
func DeserializeReader(c Config, r io.Reader, name string, opts ...DeserializeOpt) error {
	opt := deserializeOpt(opts)
	src, err := readLimited(r, opt.MaxBytes, name)
	if err != nil {
		return err
	}
	return DeserializeProperties(c, scanner.New(src, name), opt)
}

func readLimited(r io.Reader, max int64, name string) ([]byte, error) {
	if max > 0 {
		r = io.LimitReader(r, max+1)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, ioIssue(CodeOpenFailed, name, err)
	}
	if max > 0 && int64(buf.Len()) > max {
		return nil, Issue{Code: CodeTooBig, File: name, Message: fmt.Sprintf("input exceeds %d bytes", max)}
	}
	return buf.Bytes(), nil
}

type deserializer struct {
	sc     *scanner.Scanner
	opt    DeserializeOpt
	log    *slog.Logger
	issues Issues
	depth  int      // open parentheses consumed so far
	path   []string // enclosing object property names
}

// valueError is a property-level failure at a token.
type valueError struct {
	code string
	tok  scanner.Token
	msg  string
}

func (e *valueError) Error() string { return e.msg }

func (d *deserializer) next() scanner.Token {
	tok := d.sc.Next()
	switch tok.Kind {
	case scanner.KindLeftParen:
		d.depth++
	case scanner.KindRightParen:
		d.depth--
	}
	return tok
}

func (d *deserializer) propPath(name string) string {
	if len(d.path) == 0 {
		return name
	}
	return strings.Join(d.path, ".") + "." + name
}

func (d *deserializer) issue(code, prop string, tok scanner.Token, msg string) Issue {
	return issueAt(code, prop, d.sc.Name(), tok.Pos.Line, tok.Pos.Column, msg)
}

// fatal ends the call with every issue gathered so far plus it.
func (d *deserializer) fatal(it Issue) error {
	return append(d.issues, it)
}

// properties runs the record loop for c. For a nested object the loop ends
// at the ')' closing the enclosing record, which it consumes.
func (d *deserializer) properties(c Config, nested bool) error {
	scope := d.sc.NewScope()
	old := d.sc.SetScope(scope)
	defer func() {
		d.sc.SetScope(old)
		d.sc.DropScope(scope)
	}()
	for _, desc := range c.Type().props {
		if desc.Serializable() {
			d.sc.AddSymbol(scope, desc.Name, desc)
		}
	}

	for {
		// expect '(' or end
		tok := d.next()
		switch {
		case tok.Kind == scanner.KindLeftParen:
		case tok.Kind == scanner.KindEOF && !nested:
			return nil
		case tok.Kind == scanner.KindRightParen && nested:
			return nil
		case tok.Kind == scanner.KindEOF:
			return d.fatal(d.issue(CodeParseError, strings.Join(d.path, "."), tok, "unexpected end of input, expected ')'"))
		default:
			return d.fatal(d.issue(CodeParseError, "", tok, fmt.Sprintf("expected '(', got %s", describe(tok))))
		}
		recordDepth := d.depth

		// expect symbol
		tok = d.next()
		switch tok.Kind {
		case scanner.KindSymbol:
			desc := tok.Symbol.(*Descriptor)
			if err := d.property(c, desc, recordDepth); err != nil {
				return err
			}
		case scanner.KindIdentifier:
			if err := d.unknown(c, tok, recordDepth); err != nil {
				return err
			}
		default:
			return d.fatal(d.issue(CodeParseError, "", tok, fmt.Sprintf("expected property name, got %s", describe(tok))))
		}
	}
}

// property reads the value and closing ')' of a record naming desc.
func (d *deserializer) property(c Config, desc *Descriptor, recordDepth int) error {
	name := d.propPath(desc.Name)
	var (
		v   Value
		err error
	)
	if desc.Type.Kind == KindObject {
		if tok := d.sc.Peek(); tok.Kind != scanner.KindLeftParen && tok.Kind != scanner.KindRightParen {
			ve := mismatch(tok, "'('")
			return d.recordIssue(ve.code, name, tok.Pos, ve.msg, recordDepth)
		}
		v, err = d.object(c, desc)
		if err != nil {
			return err
		}
		// the nested loop consumed the closing ')'
		if serr := c.Set(desc.Name, v); serr != nil {
			return d.recordIssue(CodeDecodeError, name, d.sc.Pos(), serr.Error(), -1)
		}
		return nil
	}

	v, err = d.value(c, desc)
	if err != nil {
		var ve *valueError
		if errors.As(err, &ve) {
			d.warnValue(desc, ve)
			return d.recordIssue(ve.code, name, ve.tok.Pos, ve.msg, recordDepth)
		}
		return err
	}

	// expect ')'; the value is stored only once the record is complete
	tok := d.next()
	if tok.Kind != scanner.KindRightParen {
		return d.recordIssue(CodeParseError, name, tok.Pos, fmt.Sprintf("expected ')', got %s", describe(tok)), recordDepth)
	}
	if serr := c.Set(desc.Name, v); serr != nil {
		return d.recordIssue(CodeDecodeError, name, tok.Pos, serr.Error(), -1)
	}
	return nil
}

func (d *deserializer) warnValue(desc *Descriptor, ve *valueError) {
	if desc.Type.Kind == KindBool {
		d.log.Warn("invalid boolean value", "property", d.propPath(desc.Name), "value", ve.tok.Text,
			"file", d.sc.Name(), "line", ve.tok.Pos.Line)
	}
}

// recordIssue records a property-level issue and skips the rest of the
// record. recordDepth < 0 means the record is already closed.
func (d *deserializer) recordIssue(code, prop string, pos scanner.Position, msg string, recordDepth int) error {
	it := issueAt(code, prop, d.sc.Name(), pos.Line, pos.Column, msg)
	if d.opt.FailFast {
		return d.fatal(it)
	}
	d.issues = append(d.issues, it)
	d.log.Warn("skipping invalid record", "property", prop, "file", d.sc.Name(), "line", pos.Line, "err", msg)
	if recordDepth < 0 {
		return nil
	}
	return d.skip(recordDepth, prop)
}

// skip consumes tokens up to the ')' that closes the record opened at
// recordDepth.
func (d *deserializer) skip(recordDepth int, prop string) error {
	for d.depth >= recordDepth {
		tok := d.next()
		if tok.Kind == scanner.KindEOF {
			return d.fatal(d.issue(CodeParseError, prop, tok, "unexpected end of input inside record"))
		}
	}
	return nil
}

// value reads and decodes the value token(s) of a scalar property.
func (d *deserializer) value(c Config, desc *Descriptor) (Value, error) {
	t := desc.Type
	if t.Kind == KindMemSize {
		oldFirst, oldNth := d.sc.SetIdentCset(memSizeIdentFirst, memSizeIdentNth)
		tok := d.next()
		d.sc.SetIdentCset(oldFirst, oldNth)
		if tok.Kind != scanner.KindIdentifier && tok.Kind != scanner.KindSymbol {
			return Value{}, mismatch(tok, "memory size")
		}
		n, err := ParseMemSize(tok.Text)
		if err != nil {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: err.Error()}
		}
		return MemSizeValue(n), nil
	}

	tok := d.next()
	switch t.Kind {
	case KindBool:
		if !isName(tok) {
			return Value{}, mismatch(tok, "yes or no")
		}
		b, err := ParseBool(tok.Text)
		if err != nil {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: err.Error()}
		}
		return BoolValue(b), nil

	case KindInt:
		if tok.Kind != scanner.KindInt {
			return Value{}, mismatch(tok, "integer")
		}
		if (!tok.Negative && tok.Uint > math.MaxInt64) || (tok.Negative && tok.Uint > 1<<63) {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: fmt.Sprintf("integer %s out of range", tok.Text)}
		}
		return IntValue(tok.Int()), nil

	case KindUInt:
		if tok.Kind != scanner.KindInt {
			return Value{}, mismatch(tok, "integer")
		}
		if tok.Negative && tok.Uint != 0 {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: fmt.Sprintf("%s is negative", tok.Text)}
		}
		return UIntValue(tok.Uint), nil

	case KindFloat, KindDouble:
		if tok.Kind != scanner.KindFloat && tok.Kind != scanner.KindInt {
			return Value{}, mismatch(tok, "number")
		}
		if t.Kind == KindFloat {
			return FloatValue(tok.Float), nil
		}
		return DoubleValue(tok.Float), nil

	case KindString:
		if tok.Kind != scanner.KindString {
			return Value{}, mismatch(tok, "string")
		}
		return StringValue(tok.Text), nil

	case KindPath:
		if tok.Kind != scanner.KindString {
			return Value{}, mismatch(tok, "string")
		}
		if _, err := Substitute(c, tok.Text, true); err != nil {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: err.Error()}
		}
		return PathValue(tok.Text), nil

	case KindEnum:
		if !isName(tok) && tok.Kind != scanner.KindInt {
			return Value{}, mismatch(tok, "identifier")
		}
		n, err := DecodeEnum(t.Enum, tok.Text)
		if err != nil {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: err.Error()}
		}
		return EnumValue(n), nil

	case KindColor:
		if tok.Kind != scanner.KindLeftParen {
			return Value{}, mismatch(tok, "color")
		}
		col, err := scanColor(d.next)
		if err != nil {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: err.Error()}
		}
		return ColorValue(col), nil

	case KindCustom:
		if !isName(tok) && tok.Kind != scanner.KindString {
			return Value{}, mismatch(tok, "identifier")
		}
		v, err := DecodeText(t, tok.Text)
		if err != nil {
			return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: err.Error()}
		}
		return v, nil
	}
	return Value{}, &valueError{code: CodeDecodeError, tok: tok, msg: fmt.Sprintf("cannot decode %s", t.Kind)}
}

// object reads the nested records of an object property into a copy of its
// current value.
func (d *deserializer) object(c Config, desc *Descriptor) (Value, error) {
	var target *Object
	if cur, err := c.Get(desc.Name); err == nil && cur.AsObject() != nil {
		target = Duplicate(cur.AsObject())
	} else {
		target = New(desc.Type.Object)
	}
	d.path = append(d.path, desc.Name)
	err := d.properties(target, true)
	d.path = d.path[:len(d.path)-1]
	if err != nil {
		return Value{}, err
	}
	return ObjectValue(target), nil
}

// unknown stores the value of a record naming no property. A lone string
// is kept as its contents; anything else as raw source text, which is
// written back as a quoted string. So (m 5) loads again as (m "5").
func (d *deserializer) unknown(c Config, key scanner.Token, recordDepth int) error {
	var (
		start, end = -1, -1
		count      int
		str        bool
		single     string
	)
	for {
		tok := d.next()
		if tok.Kind == scanner.KindEOF {
			return d.fatal(d.issue(CodeParseError, key.Text, tok, "unexpected end of input inside record"))
		}
		if tok.Kind == scanner.KindRightParen && d.depth < recordDepth {
			break
		}
		if count == 0 {
			start = tok.Offset
			str = tok.Kind == scanner.KindString
			single = tok.Text
		}
		end = tok.End
		count++
	}
	value := d.sc.Slice(start, end)
	if count == 1 && str {
		value = single
	}

	switch d.opt.Unknown {
	case UnknownStrip:
		d.log.Debug("dropping unknown record", "key", key.Text, "file", d.sc.Name())
	case UnknownStrict:
		it := d.issue(CodeUnknownKey, d.propPath(key.Text), key, "")
		if d.opt.FailFast {
			return d.fatal(it)
		}
		d.issues = append(d.issues, it)
	default:
		AddUnknownToken(c, key.Text, value)
	}
	return nil
}

func isName(tok scanner.Token) bool {
	return tok.Kind == scanner.KindIdentifier || tok.Kind == scanner.KindSymbol
}

func mismatch(tok scanner.Token, want string) *valueError {
	return &valueError{code: CodeParseError, tok: tok, msg: fmt.Sprintf("expected %s, got %s", want, describe(tok))}
}

func describe(tok scanner.Token) string {
	switch tok.Kind {
	case scanner.KindIdentifier, scanner.KindSymbol, scanner.KindInt, scanner.KindFloat, scanner.KindChar:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	case scanner.KindString:
		return fmt.Sprintf("string %q", tok.Text)
	case scanner.KindError:
		return tok.Text
	}
	return tok.Kind.String()
}
