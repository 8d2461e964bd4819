package lox

import (
	"fmt"
	"io"
	"strings"
)

// Format gives the parenthesized form of an expression or a statement, eg:
// (* (- 123) (group 45.67)).
func Format(node any) string {
	var str strings.Builder
	switch n := node.(type) {
	case Expr:
		printExpr(&str, n)
	case Stmt:
		printStmt(&str, n)
	default:
		fmt.Fprintf(&str, "<%T>", node)
	}
	return str.String()
}

// Fprint writes each statement of list on its own line.
func Fprint(w io.Writer, list []Stmt) error {
	for _, s := range list {
		if _, err := fmt.Fprintln(w, Format(s)); err != nil {
			return err
		}
	}
	return nil
}

func printStmt(w *strings.Builder, stmt Stmt) {
	switch s := stmt.(type) {
	case *ExprStmt:
		parenthesize(w, ";", s.Expr)
	case *PrintStmt:
		parenthesize(w, "print", s.Expr)
	case *VarStmt:
		if s.Init == nil {
			fmt.Fprintf(w, "(var %s)", s.Name.Lexeme)
			break
		}
		parenthesize(w, "var "+s.Name.Lexeme, s.Init)
	case *Block:
		w.WriteString("(block")
		for _, x := range s.List {
			w.WriteString(" ")
			printStmt(w, x)
		}
		w.WriteString(")")
	case *IfStmt:
		w.WriteString("(if ")
		printExpr(w, s.Cdt)
		w.WriteString(" ")
		printStmt(w, s.Csq)
		if s.Alt != nil {
			w.WriteString(" ")
			printStmt(w, s.Alt)
		}
		w.WriteString(")")
	case *WhileStmt:
		w.WriteString("(while ")
		printExpr(w, s.Cdt)
		w.WriteString(" ")
		printStmt(w, s.Body)
		w.WriteString(")")
	case *FuncStmt:
		printFunc(w, "fun", s)
	case *ReturnStmt:
		if s.Value == nil {
			w.WriteString("(return)")
			break
		}
		parenthesize(w, "return", s.Value)
	case *ClassStmt:
		fmt.Fprintf(w, "(class %s", s.Name.Lexeme)
		if s.Superclass != nil {
			fmt.Fprintf(w, " < %s", s.Superclass.Name.Lexeme)
		}
		for _, m := range s.Methods {
			w.WriteString(" ")
			printFunc(w, "method", m)
		}
		w.WriteString(")")
	}
}

func printFunc(w *strings.Builder, kind string, fn *FuncStmt) {
	fmt.Fprintf(w, "(%s %s(", kind, fn.Name.Lexeme)
	for i, p := range fn.Params {
		if i > 0 {
			w.WriteString(" ")
		}
		w.WriteString(p.Lexeme)
	}
	w.WriteString(")")
	for _, s := range fn.Body {
		w.WriteString(" ")
		printStmt(w, s)
	}
	w.WriteString(")")
}

func printExpr(w *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Literal:
		if s, ok := e.Value.(string); ok {
			fmt.Fprintf(w, "%q", s)
			break
		}
		w.WriteString(Stringify(e.Value))
	case *Variable:
		w.WriteString(e.Name.Lexeme)
	case *Assignment:
		parenthesize(w, "= "+e.Name.Lexeme, e.Value)
	case *Logical:
		parenthesize(w, e.Op.Lexeme, e.Left, e.Right)
	case *Binary:
		parenthesize(w, e.Op.Lexeme, e.Left, e.Right)
	case *Unary:
		parenthesize(w, e.Op.Lexeme, e.Right)
	case *Grouping:
		parenthesize(w, "group", e.Expr)
	case *Call:
		parenthesize(w, "call", append([]Expr{e.Callee}, e.Args...)...)
	case *Get:
		parenthesize(w, "."+e.Name.Lexeme, e.Object)
	case *Set:
		parenthesize(w, "="+e.Name.Lexeme, e.Object, e.Value)
	case *ThisExpr:
		w.WriteString("this")
	case *SuperExpr:
		fmt.Fprintf(w, "(super %s)", e.Method.Lexeme)
	}
}

func parenthesize(w *strings.Builder, name string, list ...Expr) {
	w.WriteString("(")
	w.WriteString(name)
	for _, e := range list {
		w.WriteString(" ")
		printExpr(w, e)
	}
	w.WriteString(")")
}
