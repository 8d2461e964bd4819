package lox

import "fmt"

const (
	EOF rune = -(iota + 1)
	Ident
	String
	Number
	Lparen
	Rparen
	Lbrace
	Rbrace
	Comma
	Dot
	Sub
	Add
	Semicolon
	Div
	Mul
	Not
	Ne
	Assign
	Eq
	Gt
	Ge
	Lt
	Le
	And
	Klass
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While
)

var keywords = map[string]rune{
	"and":    And,
	"class":  Klass,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

func isKeyword(str string) (rune, bool) {
	kind, ok := keywords[str]
	return kind, ok
}

type Position struct {
	Line   int
	Column int
}

type Token struct {
	Type    rune
	Lexeme  string
	Literal any
	Position
}

func (t Token) String() string {
	var prefix string
	switch t.Type {
	case EOF:
		return "<eof>"
	case Lparen:
		return "<lparen>"
	case Rparen:
		return "<rparen>"
	case Lbrace:
		return "<lbrace>"
	case Rbrace:
		return "<rbrace>"
	case Comma:
		return "<comma>"
	case Dot:
		return "<dot>"
	case Semicolon:
		return "<semicolon>"
	case Sub:
		return "<sub>"
	case Add:
		return "<add>"
	case Div:
		return "<div>"
	case Mul:
		return "<mul>"
	case Not:
		return "<not>"
	case Ne:
		return "<ne>"
	case Assign:
		return "<assign>"
	case Eq:
		return "<eq>"
	case Gt:
		return "<gt>"
	case Ge:
		return "<ge>"
	case Lt:
		return "<lt>"
	case Le:
		return "<le>"
	case Ident:
		prefix = "identifier"
	case String:
		prefix = "string"
	case Number:
		prefix = "number"
	default:
		if _, ok := isKeyword(t.Lexeme); ok {
			prefix = "keyword"
		} else {
			prefix = "unknown"
		}
	}
	return fmt.Sprintf("%s(%s)", prefix, t.Lexeme)
}
