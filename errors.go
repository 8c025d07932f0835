package propconf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/propconf/i18n"
)

// Issue codes
const (
	CodeNotFound    = "not_found"
	CodeOpenFailed  = "open_failed"
	CodeWriteFailed = "write_failed"
	CodeParseError  = "parse_error"
	CodeDecodeError = "decode_error"
	CodeEncodeError = "encode_error"
	CodeUnknownKey  = "unknown_key"
	CodeTooBig      = "too_big"
)

// Issue is a single load or save failure.
type Issue struct {
	Code     string // One of the codes listed above.
	Property string // Property or unknown-token key involved, if any.
	Message  string
	File     string // Input or output name; empty for in-memory sources.
	Line     int    // 1-based; 0 when unknown.
	Column   int
	Cause    error // Optional: underlying error.
}

func (it Issue) Error() string {
	b := &strings.Builder{}
	if it.File != "" {
		b.WriteString(it.File)
		b.WriteByte(':')
	}
	if it.Line > 0 {
		fmt.Fprintf(b, "%d:%d:", it.Line, it.Column)
	}
	if b.Len() > 0 {
		b.WriteByte(' ')
	}
	msg := it.Message
	if msg == "" {
		msg = i18n.T(it.Code, nil)
	}
	b.WriteString(msg)
	if it.Property != "" {
		fmt.Fprintf(b, " (property %q)", it.Property)
	}
	if it.Cause != nil && it.Message == "" {
		fmt.Fprintf(b, ": %v", it.Cause)
	}
	return b.String()
}

func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes every issue to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	out := make([]error, len(iss))
	for i := range iss {
		out[i] = iss[i]
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally. A lone
// Issue is returned as a one-element collection.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var it Issue
	if errors.As(err, &it) {
		return Issues{it}, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// IsNotFound reports whether err means the source file did not exist. Callers
// usually treat this as "nothing to load".
func IsNotFound(err error) bool { return HasCode(err, CodeNotFound) }

func issueAt(code, prop, file string, line, col int, msg string) Issue {
	return Issue{Code: code, Property: prop, Message: msg, File: file, Line: line, Column: col}
}

func ioIssue(code, file string, err error) Issue {
	return Issue{Code: code, File: file, Message: i18n.T(code, map[string]string{"cause": err.Error()}), Cause: err}
}
