package lox

import (
	"bytes"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"
)

type cursor struct {
	char rune
	curr int
	next int
	Position
}

type Scanner struct {
	input []byte
	cursor

	str  bytes.Buffer
	errs ErrorList
}

// Tokenize scans src completely. The returned slice always ends with an EOF
// token, even when errors were reported.
func Tokenize(src string) ([]Token, error) {
	s := Scan(strings.NewReader(src))
	var list []Token
	for {
		tok := s.Scan()
		list = append(list, tok)
		if tok.Type == EOF {
			break
		}
	}
	return list, s.Err()
}

func Scan(r io.Reader) *Scanner {
	buf, _ := io.ReadAll(r)
	buf, _ = bytes.CutPrefix(buf, []byte{0xef, 0xbb, 0xbf})
	s := Scanner{
		input: buf,
	}
	s.cursor.Line = 1
	s.read()
	return &s
}

func (s *Scanner) Err() error {
	return s.errs.Err()
}

// Scan returns the next valid token. Invalid input is reported and skipped so
// a single call never returns a token the parser can not use.
func (s *Scanner) Scan() Token {
	for {
		s.reset()
		s.skipBlank()

		var tok Token
		tok.Position = s.cursor.Position
		if s.done() {
			tok.Type = EOF
			return tok
		}
		var (
			start = s.curr
			ok    = true
		)
		switch {
		case isQuote(s.char):
			ok = s.scanString(&tok)
		case isLetter(s.char):
			s.scanIdent(&tok)
		case isDigit(s.char):
			s.scanNumber(&tok)
		default:
			ok = s.scanPunct(&tok)
		}
		if !ok {
			continue
		}
		tok.Lexeme = string(s.input[start:s.curr])
		return tok
	}
}

func (s *Scanner) scanString(tok *Token) bool {
	s.read()
	for !s.done() && !isQuote(s.char) {
		s.write()
		s.read()
	}
	if s.done() {
		s.errs = append(s.errs, staticLine(s.Line, "Unterminated string."))
		return false
	}
	tok.Line = s.Line
	s.read()
	tok.Type = String
	tok.Literal = s.literal()
	return true
}

func (s *Scanner) scanNumber(tok *Token) {
	for !s.done() && isDigit(s.char) {
		s.write()
		s.read()
	}
	if s.char == dot && isDigit(s.peek()) {
		s.write()
		s.read()
		for !s.done() && isDigit(s.char) {
			s.write()
			s.read()
		}
	}
	n, _ := strconv.ParseFloat(s.literal(), 64)
	tok.Type = Number
	tok.Literal = n
}

func (s *Scanner) scanIdent(tok *Token) {
	for !s.done() && isAlpha(s.char) {
		s.write()
		s.read()
	}
	tok.Type = Ident
	if kind, ok := isKeyword(s.literal()); ok {
		tok.Type = kind
	}
}

func (s *Scanner) scanPunct(tok *Token) bool {
	switch s.char {
	case lparen:
		tok.Type = Lparen
	case rparen:
		tok.Type = Rparen
	case lbrace:
		tok.Type = Lbrace
	case rbrace:
		tok.Type = Rbrace
	case comma:
		tok.Type = Comma
	case dot:
		tok.Type = Dot
	case minus:
		tok.Type = Sub
	case plus:
		tok.Type = Add
	case semicolon:
		tok.Type = Semicolon
	case star:
		tok.Type = Mul
	case slash:
		tok.Type = Div
	case bang:
		tok.Type = Not
		if s.peek() == equal {
			s.read()
			tok.Type = Ne
		}
	case equal:
		tok.Type = Assign
		if s.peek() == equal {
			s.read()
			tok.Type = Eq
		}
	case langle:
		tok.Type = Lt
		if s.peek() == equal {
			s.read()
			tok.Type = Le
		}
	case rangle:
		tok.Type = Gt
		if s.peek() == equal {
			s.read()
			tok.Type = Ge
		}
	default:
		s.errs = append(s.errs, staticLine(s.Line, "Unexpected character."))
		s.read()
		return false
	}
	s.read()
	return true
}

func (s *Scanner) skipBlank() {
	for !s.done() {
		switch {
		case isBlank(s.char):
			s.read()
		case isComment(s.char, s.peek()):
			for !s.done() && s.char != nl {
				s.read()
			}
		default:
			return
		}
	}
}

func (s *Scanner) done() bool {
	return s.curr >= len(s.input)
}

func (s *Scanner) read() {
	if s.char == nl {
		s.cursor.Line++
		s.cursor.Column = 0
	}
	if s.next >= len(s.input) {
		s.char, s.curr = 0, len(s.input)
		return
	}
	r, n := utf8.DecodeRune(s.input[s.next:])
	s.cursor.Column++
	s.char, s.curr, s.next = r, s.next, s.next+n
}

func (s *Scanner) peek() rune {
	if s.next >= len(s.input) {
		return 0
	}
	r, _ := utf8.DecodeRune(s.input[s.next:])
	return r
}

func (s *Scanner) reset() {
	s.str.Reset()
}

func (s *Scanner) write() {
	s.str.WriteRune(s.char)
}

func (s *Scanner) literal() string {
	return s.str.String()
}

const (
	lbrace     = '{'
	rbrace     = '}'
	lparen     = '('
	rparen     = ')'
	langle     = '<'
	rangle     = '>'
	space      = ' '
	tab        = '\t'
	nl         = '\n'
	cr         = '\r'
	dquote     = '"'
	underscore = '_'
	dot        = '.'
	plus       = '+'
	minus      = '-'
	star       = '*'
	slash      = '/'
	bang       = '!'
	equal      = '='
	comma      = ','
	semicolon  = ';'
)

func isComment(r, k rune) bool {
	return r == slash && r == k
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == underscore
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isAlpha(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func isQuote(r rune) bool {
	return r == dquote
}

func isBlank(r rune) bool {
	return r == space || r == tab || r == cr || r == nl
}
