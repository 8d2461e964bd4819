package lox

import (
	"errors"
	"fmt"
	"strings"
)

var ErrStackOverflow = errors.New("stack overflow")

// StaticError is a diagnostic reported by the scanner, the parser or the
// resolver. Any of them prevents the program from being executed.
type StaticError struct {
	Line  int
	Where string
	Msg   string
}

func staticAt(tok Token, msg string) *StaticError {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Type == EOF {
		where = " at end"
	}
	return &StaticError{
		Line:  tok.Line,
		Where: where,
		Msg:   msg,
	}
}

func staticLine(line int, msg string) *StaticError {
	return &StaticError{
		Line: line,
		Msg:  msg,
	}
}

func (e *StaticError) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Msg)
}

// ErrorList collects the diagnostics of one pass in the order they were
// reported.
type ErrorList []error

func (e ErrorList) Error() string {
	var str strings.Builder
	for i, err := range e {
		if i > 0 {
			str.WriteString("\n")
		}
		str.WriteString(err.Error())
	}
	return str.String()
}

func (e ErrorList) Unwrap() []error {
	return e
}

func (e ErrorList) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// RuntimeError is raised while the program executes. It halts the whole run.
type RuntimeError struct {
	Token Token
	Msg   string
	Err   error
}

func runtimeError(tok Token, msg string, args ...any) *RuntimeError {
	return &RuntimeError{
		Token: tok,
		Msg:   fmt.Sprintf(msg, args...),
	}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Msg, e.Token.Line)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func IsStatic(err error) bool {
	var e *StaticError
	return errors.As(err, &e)
}

func IsRuntime(err error) bool {
	var e *RuntimeError
	return errors.As(err, &e)
}
