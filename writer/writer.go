// Package writer emits the parenthesized property text format.
//
// A Writer assembles one top-level list at a time in memory and hands it to
// its sink when the list is closed, so a list that fails halfway can be
// reverted without leaving partial text behind. Three sinks exist: an atomic
// file (temporary sibling renamed over the target on Finish), a caller-owned
// stream, and an in-memory buffer.
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// LineLength is the soft wrap column for comment blocks.
const LineLength = 75

const indentWidth = 4

var (
	// ErrUnbalanced reports Close or Revert without a matching Open.
	ErrUnbalanced = errors.New("writer: unbalanced close or revert")
	// ErrCommentPosition reports a Comment issued inside an open list.
	ErrCommentPosition = errors.New("writer: comment is only allowed between top-level lists")
	// ErrFinished reports use of a Writer after Finish.
	ErrFinished = errors.New("writer: already finished")
)

// Alphabet and length of the random part of temporary file names.
var (
	TempAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	TempLength   = 8
)

type mode int

const (
	modeFile mode = iota
	modeStream
	modeBuffer
)

// Writer is a stateful text emitter. It is not safe for concurrent use.
type Writer struct {
	mode mode
	sink io.Writer

	file    *os.File
	tmpPath string
	target  string
	out     *bytes.Buffer

	buf   bytes.Buffer
	marks []int
	depth int

	commented bool

	err      error
	finished bool
}

// NewFile creates a Writer that replaces path atomically. Output goes to a
// temporary file in the same directory which is renamed over path by Finish.
// A non-empty header is written as a comment block.
func NewFile(path, header string) (*Writer, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	id, err := nanoid.Generate(TempAlphabet, TempLength)
	if err != nil {
		return nil, fmt.Errorf("writer: temp name: %w", err)
	}
	perm := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		perm = fi.Mode().Perm()
	}
	tmp := filepath.Join(dir, "."+base+"."+id+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return nil, err
	}
	w := &Writer{mode: modeFile, sink: f, file: f, tmpPath: tmp, target: path}
	w.header(header)
	return w, nil
}

// NewStream creates a Writer that writes straight to out without atomicity.
// The stream is not closed by Finish.
func NewStream(out io.Writer, header string) *Writer {
	w := &Writer{mode: modeStream, sink: out}
	w.header(header)
	return w
}

// NewBuffer creates a Writer that keeps all output in memory.
func NewBuffer(header string) *Writer {
	out := &bytes.Buffer{}
	w := &Writer{mode: modeBuffer, sink: out, out: out}
	w.header(header)
	return w
}

func (w *Writer) header(text string) {
	if text == "" {
		return
	}
	w.Comment(text)
	w.Linefeed()
}

// Fail records err as if an I/O operation had failed. Subsequent operations
// become no-ops and Finish discards the output of a file Writer.
func (w *Writer) Fail(err error) {
	if err != nil {
		w.fail(err)
	}
}

// Err returns the first recorded error.
func (w *Writer) Err() error { return w.err }

// Depth returns the current list nesting depth.
func (w *Writer) Depth() int { return w.depth }

// Bytes returns the accumulated output of a buffer Writer.
func (w *Writer) Bytes() []byte {
	if w.out == nil {
		return nil
	}
	return w.out.Bytes()
}

// String returns the accumulated output of a buffer Writer.
func (w *Writer) String() string {
	if w.out == nil {
		return ""
	}
	return w.out.String()
}

func (w *Writer) ok() bool {
	if w.finished && w.err == nil {
		w.err = ErrFinished
	}
	return w.err == nil
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) write(p []byte) {
	if len(p) == 0 || !w.ok() {
		return
	}
	if _, err := w.sink.Write(p); err != nil {
		if w.target != "" {
			err = fmt.Errorf("writer: %s: %w", w.target, err)
		}
		w.fail(err)
	}
}

func (w *Writer) newline() {
	w.buf.WriteByte('\n')
	for i := 0; i < w.depth*indentWidth; i++ {
		w.buf.WriteByte(' ')
	}
}

// Open begins a list named name. Inside another list it starts on a new,
// indented line.
func (w *Writer) Open(name string) {
	if !w.ok() {
		return
	}
	if w.depth > 0 {
		w.newline()
	}
	w.marks = append(w.marks, w.buf.Len())
	w.depth++
	w.buf.WriteByte('(')
	w.buf.WriteString(name)
}

// Print appends a space and text to the current line.
func (w *Writer) Print(text string) {
	if !w.ok() || text == "" {
		return
	}
	w.buf.WriteByte(' ')
	w.buf.WriteString(text)
}

// Printf is Print with fmt formatting.
func (w *Writer) Printf(format string, args ...any) {
	if !w.ok() {
		return
	}
	w.Print(fmt.Sprintf(format, args...))
}

// Identifier appends a space and a bare identifier.
func (w *Writer) Identifier(name string) { w.Print(name) }

// Quoted appends a space and text as a quoted, escaped string.
func (w *Writer) Quoted(text string) {
	if !w.ok() {
		return
	}
	w.buf.WriteString(" \"")
	w.buf.WriteString(Escape(text))
	w.buf.WriteByte('"')
}

// Close ends the innermost list. Closing a top-level list flushes it to the
// sink.
func (w *Writer) Close() {
	if !w.ok() {
		return
	}
	if w.depth == 0 {
		w.fail(ErrUnbalanced)
		return
	}
	w.buf.WriteByte(')')
	w.depth--
	w.marks = w.marks[:len(w.marks)-1]
	if w.depth == 0 {
		w.buf.WriteByte('\n')
		w.flush()
	}
}

// Revert abandons the innermost open list, discarding everything written
// since its Open.
func (w *Writer) Revert() {
	if !w.ok() {
		return
	}
	if w.depth == 0 {
		w.fail(ErrUnbalanced)
		return
	}
	mark := w.marks[len(w.marks)-1]
	w.marks = w.marks[:len(w.marks)-1]
	w.buf.Truncate(mark)
	w.depth--
	if w.depth > 0 {
		// drop the newline and indentation emitted by the reverted Open
		b := w.buf.Bytes()
		n := len(b)
		for n > 0 && b[n-1] == ' ' {
			n--
		}
		if n > 0 && b[n-1] == '\n' {
			n--
		}
		w.buf.Truncate(n)
	}
}

// Linefeed emits a line break. Between top-level lists it is a blank line.
func (w *Writer) Linefeed() {
	if !w.ok() {
		return
	}
	if w.depth == 0 && w.buf.Len() == 0 {
		w.write([]byte{'\n'})
		return
	}
	w.newline()
	if w.depth == 0 {
		w.flush()
	}
}

// Comment writes text as a block of '#' lines, soft-wrapped at LineLength.
// Embedded newlines start new lines. It is only valid between top-level
// lists.
func (w *Writer) Comment(text string) {
	if !w.ok() {
		return
	}
	if w.depth > 0 || w.buf.Len() > 0 {
		w.fail(ErrCommentPosition)
		return
	}
	w.write([]byte(FormatComment(text)))
}

// CommentMode switches commenting of the following top-level lists on or
// off. While on, every line of a flushed list is prefixed with "# ", which
// documents a value without making it effective. It is only valid between
// top-level lists.
func (w *Writer) CommentMode(on bool) {
	if !w.ok() {
		return
	}
	if w.depth > 0 {
		w.fail(ErrCommentPosition)
		return
	}
	w.flush()
	w.commented = on
}

func (w *Writer) flush() {
	if w.buf.Len() == 0 {
		return
	}
	if w.commented {
		w.write(commentLines(w.buf.Bytes()))
	} else {
		w.write(w.buf.Bytes())
	}
	w.buf.Reset()
}

func commentLines(p []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(p) + 16)
	for len(p) > 0 {
		line, rest := p, []byte(nil)
		if i := bytes.IndexByte(p, '\n'); i >= 0 {
			line, rest = p[:i], p[i+1:]
		}
		if len(line) == 0 {
			out.WriteString("#\n")
		} else {
			out.WriteString("# ")
			out.Write(line)
			out.WriteByte('\n')
		}
		p = rest
	}
	return out.Bytes()
}

// Finish closes any open lists, writes footer as a comment and completes the
// output. In file mode the temporary file is synced and renamed over the
// target, or removed when any error was recorded. Finish returns the first
// recorded error.
func (w *Writer) Finish(footer string) error {
	if w.finished {
		return w.err
	}
	for w.err == nil && w.depth > 0 {
		w.Close()
	}
	if w.err == nil {
		if w.buf.Len() > 0 {
			w.buf.WriteByte('\n')
			w.flush()
		}
		if footer != "" {
			w.Linefeed()
			w.Comment(footer)
		}
	}
	w.finished = true
	if w.mode == modeFile {
		w.closeFile()
	}
	return w.err
}

func (w *Writer) closeFile() {
	if w.err == nil {
		if err := w.file.Sync(); err != nil {
			w.fail(fmt.Errorf("writer: sync %s: %w", w.tmpPath, err))
		}
	}
	if err := w.file.Close(); err != nil {
		w.fail(fmt.Errorf("writer: close %s: %w", w.tmpPath, err))
	}
	if w.err == nil {
		if err := os.Rename(w.tmpPath, w.target); err != nil {
			w.fail(err)
		}
	}
	if w.err != nil {
		_ = os.Remove(w.tmpPath)
	}
}

// FormatComment renders text as '#'-prefixed lines terminated by newlines.
func FormatComment(text string) string {
	var b strings.Builder
	for _, para := range strings.Split(text, "\n") {
		if strings.TrimSpace(para) == "" {
			b.WriteString("#\n")
			continue
		}
		line := ""
		for _, word := range strings.Fields(para) {
			if line != "" && len(line)+1+len(word) > LineLength-2 {
				b.WriteString("# ")
				b.WriteString(line)
				b.WriteByte('\n')
				line = ""
			}
			if line == "" {
				line = word
			} else {
				line += " " + word
			}
		}
		b.WriteString("# ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Escape backslash-escapes quotes, backslashes and control characters.
// Bytes at or above 0x80 are kept so UTF-8 text stays readable.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if c < 0x20 || c == 0x7f {
				fmt.Fprintf(&b, `\%03o`, c)
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
