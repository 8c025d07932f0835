// Package scanner tokenizes the parenthesized property text format.
//
// The scanner yields parentheses, identifiers, symbols (identifiers that
// resolve in the current scope), quoted strings, integers, floats and single
// characters. Identifier character sets are configurable at any point of the
// stream, and symbol tables are organized in scopes so that independent
// deserialize calls can share one scanner without seeing each other's names.
package scanner

import (
	"io"
	"strconv"
	"strings"
)

// Kind enumerates lexical token kinds.
type Kind int

const (
	KindEOF Kind = iota
	KindLeftParen
	KindRightParen
	KindSymbol
	KindIdentifier
	KindString
	KindInt
	KindFloat
	KindChar
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "end of file"
	case KindLeftParen:
		return "'('"
	case KindRightParen:
		return "')'"
	case KindSymbol:
		return "symbol"
	case KindIdentifier:
		return "identifier"
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindChar:
		return "character"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Character sets for identifier configuration.
const (
	CsetLowercase = "abcdefghijklmnopqrstuvwxyz"
	CsetUppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	CsetLetters   = CsetLowercase + CsetUppercase
	CsetDigits    = "0123456789"
)

// Default identifier sets: identifiers start with a letter and continue with
// letters, digits, '-' and '_'.
const (
	DefaultIdentFirst = CsetLetters
	DefaultIdentNth   = CsetLetters + CsetDigits + "-_"
)

// Position is a 1-based line/column location in the input.
type Position struct {
	Line   int
	Column int
}

// Token is a single lexical token. Offset and End delimit the raw source text.
type Token struct {
	Kind Kind
	// Text holds the identifier name, the decoded string contents, the raw
	// numeric literal, the character, or the error message.
	Text     string
	Uint     uint64 // magnitude of an integer token
	Negative bool   // integer or float carried a leading '-'
	Float    float64
	Symbol   any
	Pos      Position
	Offset   int
	End      int
}

// Int returns the signed value of an integer token.
func (t Token) Int() int64 {
	if t.Negative {
		return -int64(t.Uint)
	}
	return int64(t.Uint)
}

// ScopeID identifies a symbol scope. Scope 0 always exists and is empty
// unless symbols are added to it explicitly.
type ScopeID uint

type lexState struct {
	pos  int
	line int
	col  int
}

// Scanner is a pull tokenizer over an in-memory input. It is not safe for
// concurrent use.
type Scanner struct {
	src  []byte
	name string
	st   lexState

	identFirst string
	identNth   string

	peeked    *Token
	peekStart lexState
	last      Token

	scope     ScopeID
	nextScope ScopeID
	scopes    map[ScopeID]map[string]any
}

// New returns a scanner over src. name labels diagnostics (usually a file
// name) and may be empty.
func New(src []byte, name string) *Scanner {
	return &Scanner{
		src:        src,
		name:       name,
		st:         lexState{line: 1, col: 1},
		identFirst: DefaultIdentFirst,
		identNth:   DefaultIdentNth,
		nextScope:  1,
		scopes:     map[ScopeID]map[string]any{},
	}
}

// NewString is New for string input.
func NewString(src, name string) *Scanner { return New([]byte(src), name) }

// NewReader reads r to the end and returns a scanner over its contents.
func NewReader(r io.Reader, name string) (*Scanner, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return New(b, name), nil
}

// Name returns the input name given at construction.
func (s *Scanner) Name() string { return s.name }

// Pos returns the position of the most recently consumed token, or the
// current input position when nothing was consumed yet.
func (s *Scanner) Pos() Position {
	if s.last.Pos.Line == 0 {
		return Position{Line: s.st.line, Column: s.st.col}
	}
	return s.last.Pos
}

// Slice returns the raw source text between two byte offsets.
func (s *Scanner) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(s.src) {
		end = len(s.src)
	}
	if start >= end {
		return ""
	}
	return string(s.src[start:end])
}

// SetIdentCset replaces the identifier character sets and returns the
// previous ones. A pending peeked token is discarded and re-lexed.
func (s *Scanner) SetIdentCset(first, nth string) (oldFirst, oldNth string) {
	oldFirst, oldNth = s.identFirst, s.identNth
	s.identFirst, s.identNth = first, nth
	s.unpeek()
	return oldFirst, oldNth
}

// NewScope allocates an empty symbol scope.
func (s *Scanner) NewScope() ScopeID {
	id := s.nextScope
	s.nextScope++
	s.scopes[id] = map[string]any{}
	return id
}

// DropScope releases a scope and its symbols. Scope 0 cannot be dropped.
func (s *Scanner) DropScope(id ScopeID) {
	if id == 0 {
		return
	}
	delete(s.scopes, id)
	if s.scope == id {
		s.scope = 0
		s.unpeek()
	}
}

// SetScope makes id the current scope and returns the previous one.
func (s *Scanner) SetScope(id ScopeID) ScopeID {
	old := s.scope
	if old != id {
		s.scope = id
		s.unpeek()
	}
	return old
}

// Scope returns the current scope.
func (s *Scanner) Scope() ScopeID { return s.scope }

// AddSymbol binds name to value in scope.
func (s *Scanner) AddSymbol(scope ScopeID, name string, value any) {
	tab, ok := s.scopes[scope]
	if !ok {
		tab = map[string]any{}
		s.scopes[scope] = tab
	}
	tab[name] = value
	if scope == s.scope {
		s.unpeek()
	}
}

// LookupSymbol resolves name in the current scope.
func (s *Scanner) LookupSymbol(name string) (any, bool) {
	v, ok := s.scopes[s.scope][name]
	return v, ok
}

// Peek returns the next token without consuming it.
func (s *Scanner) Peek() Token {
	if s.peeked == nil {
		s.peekStart = s.st
		t := s.lex()
		s.peeked = &t
	}
	return *s.peeked
}

// Next consumes and returns the next token.
func (s *Scanner) Next() Token {
	var t Token
	if s.peeked != nil {
		t = *s.peeked
		s.peeked = nil
	} else {
		t = s.lex()
	}
	s.last = t
	return t
}

func (s *Scanner) unpeek() {
	if s.peeked == nil {
		return
	}
	s.st = s.peekStart
	s.peeked = nil
}

func (s *Scanner) eof() bool { return s.st.pos >= len(s.src) }

func (s *Scanner) cur() byte { return s.src[s.st.pos] }

func (s *Scanner) at(off int) (byte, bool) {
	i := s.st.pos + off
	if i >= len(s.src) {
		return 0, false
	}
	return s.src[i], true
}

func (s *Scanner) advance() byte {
	c := s.src[s.st.pos]
	s.st.pos++
	switch {
	case c == '\n':
		s.st.line++
		s.st.col = 1
	case c&0xC0 != 0x80:
		s.st.col++
	}
	return c
}

func (s *Scanner) skipBlanks() {
	for !s.eof() {
		switch s.cur() {
		case ' ', '\t', '\r', '\n', '\v', '\f':
			s.advance()
		case '#':
			for !s.eof() && s.cur() != '\n' {
				s.advance()
			}
		default:
			return
		}
	}
}

func (s *Scanner) lex() Token {
	s.skipBlanks()
	start := s.st
	tok := Token{Pos: Position{Line: start.line, Column: start.col}, Offset: start.pos}
	if s.eof() {
		tok.Kind = KindEOF
		tok.End = start.pos
		return tok
	}

	c := s.cur()
	switch {
	case c == '(':
		s.advance()
		tok.Kind = KindLeftParen
	case c == ')':
		s.advance()
		tok.Kind = KindRightParen
	case c == '"':
		s.lexQuoted(&tok)
	case c == '\'':
		s.lexSingleQuoted(&tok)
	case strings.IndexByte(s.identFirst, c) >= 0:
		s.lexIdentifier(&tok)
	case s.startsNumber():
		s.lexNumber(&tok)
	default:
		s.advance()
		for !s.eof() && s.cur()&0xC0 == 0x80 {
			s.advance()
		}
		tok.Kind = KindChar
		tok.Text = string(s.src[start.pos:s.st.pos])
	}
	tok.End = s.st.pos
	return tok
}

func (s *Scanner) startsNumber() bool {
	c := s.cur()
	if isDigit(c) {
		return true
	}
	n, ok := s.at(1)
	if !ok {
		return false
	}
	switch c {
	case '-', '+':
		if isDigit(n) {
			return true
		}
		if n == '.' {
			nn, ok := s.at(2)
			return ok && isDigit(nn)
		}
	case '.':
		return isDigit(n)
	}
	return false
}

func (s *Scanner) lexIdentifier(tok *Token) {
	start := s.st.pos
	s.advance()
	for !s.eof() && strings.IndexByte(s.identNth, s.cur()) >= 0 {
		s.advance()
	}
	tok.Text = string(s.src[start:s.st.pos])
	if v, ok := s.scopes[s.scope][tok.Text]; ok {
		tok.Kind = KindSymbol
		tok.Symbol = v
		return
	}
	tok.Kind = KindIdentifier
}

func (s *Scanner) lexNumber(tok *Token) {
	start := s.st.pos
	if c := s.cur(); c == '-' || c == '+' {
		tok.Negative = c == '-'
		s.advance()
	}
	digitsStart := s.st.pos
	isFloat := false
	for !s.eof() && isDigit(s.cur()) {
		s.advance()
	}
	if !s.eof() && s.cur() == '.' {
		isFloat = true
		s.advance()
		for !s.eof() && isDigit(s.cur()) {
			s.advance()
		}
	}
	if !s.eof() && (s.cur() == 'e' || s.cur() == 'E') {
		n, ok := s.at(1)
		if ok && (n == '-' || n == '+') {
			n, ok = s.at(2)
		}
		if ok && isDigit(n) {
			isFloat = true
			s.advance()
			if c := s.cur(); c == '-' || c == '+' {
				s.advance()
			}
			for !s.eof() && isDigit(s.cur()) {
				s.advance()
			}
		}
	}
	tok.Text = string(s.src[start:s.st.pos])
	if isFloat {
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			tok.Kind = KindError
			tok.Text = "invalid float literal " + strconv.Quote(tok.Text)
			return
		}
		tok.Kind = KindFloat
		tok.Float = f
		return
	}
	u, err := strconv.ParseUint(string(s.src[digitsStart:s.st.pos]), 10, 64)
	if err != nil {
		tok.Kind = KindError
		tok.Text = "integer literal out of range " + strconv.Quote(tok.Text)
		return
	}
	tok.Kind = KindInt
	tok.Uint = u
	tok.Float = float64(u)
	if tok.Negative {
		tok.Float = -tok.Float
	}
}

func (s *Scanner) lexSingleQuoted(tok *Token) {
	s.advance()
	start := s.st.pos
	for !s.eof() && s.cur() != '\'' {
		s.advance()
	}
	if s.eof() {
		tok.Kind = KindError
		tok.Text = "unterminated string"
		return
	}
	tok.Kind = KindString
	tok.Text = string(s.src[start:s.st.pos])
	s.advance()
}

func (s *Scanner) lexQuoted(tok *Token) {
	s.advance()
	var (
		b   strings.Builder
		bad string // first invalid escape; the string is still consumed
	)
	for {
		if s.eof() {
			tok.Kind = KindError
			tok.Text = "unterminated string"
			return
		}
		c := s.advance()
		switch c {
		case '"':
			if bad != "" {
				tok.Kind = KindError
				tok.Text = bad
				return
			}
			tok.Kind = KindString
			tok.Text = b.String()
			return
		case '\\':
			if s.eof() {
				tok.Kind = KindError
				tok.Text = "unterminated string"
				return
			}
			e := s.advance()
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'v':
				b.WriteByte('\v')
			case '0', '1', '2', '3', '4', '5', '6', '7':
				v := int(e - '0')
				for i := 0; i < 2 && !s.eof() && s.cur() >= '0' && s.cur() <= '7'; i++ {
					v = v*8 + int(s.advance()-'0')
				}
				if v > 0377 {
					if bad == "" {
						bad = "octal escape \\" + strconv.FormatInt(int64(v), 8) + " out of range"
					}
					continue
				}
				b.WriteByte(byte(v))
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
