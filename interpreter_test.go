package lox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lines(str string) []string {
	str = strings.TrimSuffix(str, "\n")
	if str == "" {
		return nil
	}
	return strings.Split(str, "\n")
}

func execute(t *testing.T, src string) ([]string, error) {
	t.Helper()
	list, err := ParseString(src)
	if err != nil {
		t.Fatalf("%q: unexpected parse error: %s", src, err)
	}
	locals, err := Resolve(list)
	if err != nil {
		t.Fatalf("%q: unexpected resolve error: %s", src, err)
	}
	var out bytes.Buffer
	it := NewInterpreter(Config{
		Stdout:   &out,
		MaxDepth: 200,
	})
	it.Merge(locals)
	err = it.Interpret(list)
	return lines(out.String()), err
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Want  []string
	}{
		{
			Name:  "arithmetic",
			Input: "print (1 + 2) == 3; print 1 + 2 * 3; print 10 / 4; print -(3 - 5); print 0.1 + 0.2;",
			Want:  []string{"true", "7", "2.5", "2", "0.30000000000000004"},
		},
		{
			Name:  "comparison",
			Input: "print 1 < 2; print 2 <= 2; print 3 > 4; print 4 >= 5; print !nil; print !0;",
			Want:  []string{"true", "true", "false", "false", "true", "false"},
		},
		{
			Name:  "equality",
			Input: `print nil == nil; print nil == false; print "1" == 1; print "a" == "a"; print 1 != 2;`,
			Want:  []string{"true", "false", "false", "true", "true"},
		},
		{
			Name:  "strings",
			Input: `var a = "foo"; var b = "bar"; print a + b; print "";`,
			Want:  []string{"foobar", ""},
		},
		{
			Name:  "logical",
			Input: `print 0 and 1; print nil or "x"; print false and undefined(); print true or undefined();`,
			Want:  []string{"1", "x", "false", "true"},
		},
		{
			Name: "closure counter",
			Input: `
fun makeCounter() {
  var i = 0;
  fun count() {
    i = i + 1;
    return i;
  }
  return count;
}
var c = makeCounter();
print c();
print c();
var d = makeCounter();
print d();
print c();`,
			Want: []string{"1", "2", "1", "3"},
		},
		{
			Name: "static scope",
			Input: `
var a = "global";
{
  fun show() {
    print a;
  }
  show();
  var a = "block";
  show();
  print a;
}`,
			Want: []string{"global", "global", "block"},
		},
		{
			Name: "shadowing",
			Input: `
var a = 1;
{
  var a = 2;
  {
    var a = 3;
    print a;
  }
  print a;
}
print a;`,
			Want: []string{"3", "2", "1"},
		},
		{
			Name: "super",
			Input: `
class A {
  method() {
    print "A method";
  }
}
class B < A {
  method() {
    print "B method";
  }
  test() {
    super.method();
  }
}
class C < B {}
C().test();
C().method();`,
			Want: []string{"A method", "B method"},
		},
		{
			Name: "initializer",
			Input: `
class P {
  init(x) {
    this.x = x;
    return;
  }
}
var p = P(3);
print p.x;
print p.init(4) == p;
print p.x;`,
			Want: []string{"3", "true", "4"},
		},
		{
			Name: "bound method",
			Input: `
class Box {
  init(v) {
    this.v = v;
  }
  get() {
    return this.v;
  }
}
var m = Box(7).get;
print m();`,
			Want: []string{"7"},
		},
		{
			Name:  "fields shadow methods",
			Input: "class S { m() { return 1; } } var s = S(); print s.m(); s.m = 2; print s.m;",
			Want:  []string{"1", "2"},
		},
		{
			Name:  "display",
			Input: "fun f() {} print f; print clock; class K {} print K; print K(); print f(); print 3.0;",
			Want:  []string{"<fn f>", "<native fn>", "K", "K instance", "nil", "3"},
		},
		{
			Name:  "loops",
			Input: "for (var i = 0; i < 3; i = i + 1) print i; var j = 2; while (j > 0) { print j; j = j - 1; }",
			Want:  []string{"0", "1", "2", "2", "1"},
		},
		{
			Name:  "return from loop",
			Input: "fun f() { while (true) { for (;;) { return 5; } } } print f();",
			Want:  []string{"5"},
		},
		{
			Name:  "recursion",
			Input: "fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); } print fib(15);",
			Want:  []string{"610"},
		},
		{
			Name:  "conditionals",
			Input: `if (nil) print "no"; else print "yes"; if (0) print "zero";`,
			Want:  []string{"yes", "zero"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			got, err := execute(t, tt.Input)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if diff := cmp.Diff(tt.Want, got); diff != "" {
				t.Errorf("output mismatched (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInterpretErrors(t *testing.T) {
	tests := []struct {
		Input  string
		Output []string
		Want   string
	}{
		{
			Input: `print "1" + 1;`,
			Want:  "Operands must be two numbers or two strings.\n[line 1]",
		},
		{
			Input: `print -"a";`,
			Want:  "Operand must be a number.\n[line 1]",
		},
		{
			Input: `print 1 < "a";`,
			Want:  "Operands must be numbers.\n[line 1]",
		},
		{
			Input:  "fun f(a, b) {}\nprint \"before\";\nf(1);\nprint \"after\";",
			Output: []string{"before"},
			Want:   "Expected 2 arguments but got 1.\n[line 3]",
		},
		{
			Input: `"x"();`,
			Want:  "Can only call functions and classes.\n[line 1]",
		},
		{
			Input: "print nothing;",
			Want:  "Undefined variable 'nothing'.\n[line 1]",
		},
		{
			Input: "nothing = 1;",
			Want:  "Undefined variable 'nothing'.\n[line 1]",
		},
		{
			Input: "var n = 1; print n.x;",
			Want:  "Only instances have properties.\n[line 1]",
		},
		{
			Input: "var n = 1; n.x = 2;",
			Want:  "Only instances have fields.\n[line 1]",
		},
		{
			Input: "class A {}\nprint A().nope;",
			Want:  "Undefined property 'nope'.\n[line 2]",
		},
		{
			Input: "var NotClass = 1;\nclass B < NotClass {}",
			Want:  "Superclass must be a class.\n[line 2]",
		},
		{
			Input: "class A {}\nclass B < A { m() { return super.nope(); } }\nB().m();",
			Want:  "Undefined property 'nope'.\n[line 2]",
		},
		{
			Input:  "var a = 1;\nprint a;\n\nprint a + nil;",
			Output: []string{"1"},
			Want:   "Operands must be two numbers or two strings.\n[line 4]",
		},
	}
	for _, tt := range tests {
		got, err := execute(t, tt.Input)
		if err == nil {
			t.Errorf("%q: expected error", tt.Input)
			continue
		}
		if !IsRuntime(err) {
			t.Errorf("%q: expected runtime error, got %T", tt.Input, err)
		}
		if err.Error() != tt.Want {
			t.Errorf("%q: error mismatched!\nwant: %q\ngot:  %q", tt.Input, tt.Want, err.Error())
		}
		if diff := cmp.Diff(tt.Output, got); diff != "" {
			t.Errorf("%q: output mismatched (-want +got):\n%s", tt.Input, diff)
		}
	}
}

func TestStackOverflow(t *testing.T) {
	got, err := execute(t, "fun f(n) { print n; f(n + 1); }\nf(0);")
	if !errors.Is(err, ErrStackOverflow) {
		t.Fatalf("expected %s, got %v", ErrStackOverflow, err)
	}
	if want := "Stack overflow.\n[line 1]"; err.Error() != want {
		t.Errorf("error mismatched! want %q, got %q", want, err.Error())
	}
	if len(got) != 200 {
		t.Errorf("expected 200 calls before overflow, got %d", len(got))
	}
}

func TestInterpretKeepsEnvironment(t *testing.T) {
	var out bytes.Buffer
	it := NewInterpreter(Config{Stdout: &out})

	run := func(src string) error {
		list, err := ParseString(src)
		if err != nil {
			t.Fatalf("%q: unexpected parse error: %s", src, err)
		}
		locals, err := Resolve(list)
		if err != nil {
			t.Fatalf("%q: unexpected resolve error: %s", src, err)
		}
		it.Merge(locals)
		return it.Interpret(list)
	}
	if err := run("var a = 1; { var b = 2; fun f() { return b; } a = f; nil(); }"); err == nil {
		t.Fatalf("expected runtime error")
	}
	if it.env != it.Globals() {
		t.Fatalf("environment not restored after runtime error")
	}
	if err := run("print a();"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if diff := cmp.Diff([]string{"2"}, lines(out.String())); diff != "" {
		t.Errorf("output mismatched (-want +got):\n%s", diff)
	}
}
