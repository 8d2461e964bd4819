package lox

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

const DefaultMaxDepth = 4096

const (
	ExitOk      = 0
	ExitUsage   = 64
	ExitStatic  = 65
	ExitRuntime = 70
)

type Config struct {
	Stdout   io.Writer
	Stderr   io.Writer
	MaxDepth int
	Logger   *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Stdout == nil {
		c.Stdout = os.Stdout
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.MaxDepth <= 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// Session runs successive sources against the same global environment. It is
// what the command line uses for scripts as well as for each line of the
// REPL.
type Session struct {
	interp *Interpreter
	stderr io.Writer
	logger *slog.Logger

	hadError        bool
	hadRuntimeError bool
}

func NewSession(cfg Config) *Session {
	cfg = cfg.withDefaults()
	return &Session{
		interp: NewInterpreter(cfg),
		stderr: cfg.Stderr,
		logger: cfg.Logger,
	}
}

func (s *Session) Interpreter() *Interpreter {
	return s.interp
}

// Run scans, parses, resolves and executes src. Nothing is executed when one
// of the static passes reports an error. Diagnostics are written to the error
// writer of the session and returned.
func (s *Session) Run(src string) error {
	list, err := s.analyze(src)
	if err != nil {
		s.hadError = true
		s.report(err)
		return err
	}

	now := time.Now()
	err = s.interp.Interpret(list)
	s.logger.Debug("interpret", "statements", len(list), "elapsed", time.Since(now))
	if err != nil {
		s.hadRuntimeError = true
		s.report(err)
	}
	return err
}

func (s *Session) analyze(src string) ([]Stmt, error) {
	now := time.Now()
	tokens, err := Tokenize(src)
	errs := appendErrors(nil, err)
	s.logger.Debug("scan", "tokens", len(tokens), "errors", len(errs), "elapsed", time.Since(now))

	now = time.Now()
	list, err := Parse(tokens)
	errs = appendErrors(errs, err)
	s.logger.Debug("parse", "statements", len(list), "errors", len(errs), "elapsed", time.Since(now))
	if len(errs) > 0 {
		return nil, errs
	}

	now = time.Now()
	res := NewResolver()
	res.Predeclare(s.interp.Globals().Names()...)
	locals, err := res.Resolve(list)
	s.logger.Debug("resolve", "locals", len(locals), "elapsed", time.Since(now))
	if err != nil {
		return nil, err
	}
	s.interp.Merge(locals)
	return list, nil
}

func (s *Session) report(err error) {
	if list, ok := err.(ErrorList); ok {
		for _, e := range list {
			fmt.Fprintln(s.stderr, e)
		}
		return
	}
	fmt.Fprintln(s.stderr, err)
}

// Reset clears the error flags. The global environment is kept.
func (s *Session) Reset() {
	s.hadError = false
	s.hadRuntimeError = false
}

func (s *Session) ExitCode() int {
	switch {
	case s.hadError:
		return ExitStatic
	case s.hadRuntimeError:
		return ExitRuntime
	default:
		return ExitOk
	}
}

// Check runs the static passes on src without executing anything.
func Check(src string) error {
	tokens, err := Tokenize(src)
	errs := appendErrors(nil, err)

	list, err := Parse(tokens)
	if errs = appendErrors(errs, err); len(errs) > 0 {
		return errs
	}
	_, err = Resolve(list)
	return err
}
