package lox

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const (
	expectOutput  = "// expect: "
	expectRuntime = "// expect runtime error: "
	expectStatic  = "// expect error: "
)

type expectation struct {
	Output []string
	Errors []string
	Code   int
}

func readExpectations(src string) expectation {
	var exp expectation
	for i, line := range strings.Split(src, "\n") {
		if _, str, ok := strings.Cut(line, expectOutput); ok {
			exp.Output = append(exp.Output, str)
			continue
		}
		if _, str, ok := strings.Cut(line, expectRuntime); ok {
			exp.Errors = append(exp.Errors, str, fmt.Sprintf("[line %d]", i+1))
			exp.Code = ExitRuntime
			continue
		}
		if _, str, ok := strings.Cut(line, expectStatic); ok {
			exp.Errors = append(exp.Errors, str)
			exp.Code = ExitStatic
		}
	}
	return exp
}

func TestScripts(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.lox"))
	if err != nil {
		t.Fatalf("fail to list scripts: %s", err)
	}
	if len(files) == 0 {
		t.Fatalf("no scripts found in testdata")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			buf, err := os.ReadFile(file)
			if err != nil {
				t.Fatalf("fail to read script: %s", err)
			}
			var (
				want   = readExpectations(string(buf))
				stdout bytes.Buffer
				stderr bytes.Buffer
			)
			sess := NewSession(Config{
				Stdout: &stdout,
				Stderr: &stderr,
			})
			sess.Run(string(buf))

			got := expectation{
				Output: lines(stdout.String()),
				Errors: lines(stderr.String()),
				Code:   sess.ExitCode(),
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("result mismatched (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSessionStaticErrorSkipsExecution(t *testing.T) {
	var stdout, stderr bytes.Buffer
	sess := NewSession(Config{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	err := sess.Run("print \"never\";\nprint ;\nvar a = a;")
	if err == nil || !IsStatic(err) {
		t.Fatalf("expected static error, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("nothing should be executed, got %q", stdout.String())
	}
	want := []string{"[line 2] Error at ';': Expect expression."}
	if diff := cmp.Diff(want, lines(stderr.String())); diff != "" {
		t.Errorf("diagnostics mismatched (-want +got):\n%s", diff)
	}
	if code := sess.ExitCode(); code != ExitStatic {
		t.Errorf("expected exit code %d, got %d", ExitStatic, code)
	}
}

func TestSessionPersistsGlobals(t *testing.T) {
	var stdout, stderr bytes.Buffer
	sess := NewSession(Config{
		Stdout: &stdout,
		Stderr: &stderr,
	})
	inputs := []string{
		"var a = 1;",
		"var a = a + 1;",
		"fun mk() { var x = a * 10; fun get() { return x; } return get; }",
		"var get = mk();",
		"nil();",
		"print a; print get();",
	}
	for _, str := range inputs {
		sess.Run(str)
		if str == "nil();" && sess.ExitCode() != ExitRuntime {
			t.Errorf("expected exit code %d after runtime error, got %d", ExitRuntime, sess.ExitCode())
		}
		sess.Reset()
	}
	if diff := cmp.Diff([]string{"2", "20"}, lines(stdout.String())); diff != "" {
		t.Errorf("output mismatched (-want +got):\n%s", diff)
	}
	want := []string{"Can only call functions and classes.", "[line 1]"}
	if diff := cmp.Diff(want, lines(stderr.String())); diff != "" {
		t.Errorf("diagnostics mismatched (-want +got):\n%s", diff)
	}
	if code := sess.ExitCode(); code != ExitOk {
		t.Errorf("expected exit code %d after reset, got %d", ExitOk, code)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		Input string
		Want  string
	}{
		{
			Input: "print 1;",
		},
		{
			Input: "print \"1\" + 1;",
		},
		{
			Input: "print 1",
			Want:  "[line 1] Error at end: Expect ';' after value.",
		},
		{
			Input: "@\nreturn;",
			Want:  "[line 1] Error: Unexpected character.",
		},
		{
			Input: "fun f() { var x = 1; var x = 2; }",
			Want:  "[line 1] Error at 'x': Already a variable with this name in this scope.",
		},
	}
	for _, tt := range tests {
		err := Check(tt.Input)
		if tt.Want == "" {
			if err != nil {
				t.Errorf("%q: unexpected error: %s", tt.Input, err)
			}
			continue
		}
		if err == nil {
			t.Errorf("%q: expected error", tt.Input)
			continue
		}
		if err.Error() != tt.Want {
			t.Errorf("%q: error mismatched!\nwant: %s\ngot:  %s", tt.Input, tt.Want, err)
		}
	}
}
