package lox

// Locals maps each variable-referencing node (Variable, Assignment, ThisExpr,
// SuperExpr) to the number of scopes between its use and its declaration.
// Nodes missing from the table are globals.
type Locals map[Expr]int

type functionType int8

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnInitializer
)

type classType int8

const (
	classNone classType = iota
	classClass
	classSubclass
)

type Resolver struct {
	scopes  []map[string]bool
	globals map[string]bool
	locals  Locals

	fn    functionType
	class classType

	errs ErrorList
}

func Resolve(list []Stmt) (Locals, error) {
	return NewResolver().Resolve(list)
}

func NewResolver() *Resolver {
	return &Resolver{
		globals: make(map[string]bool),
		locals:  make(Locals),
	}
}

// Predeclare marks names as already defined in the global scope, eg the
// globals left by a previous run of a session.
func (r *Resolver) Predeclare(names ...string) {
	for _, n := range names {
		r.globals[n] = true
	}
}

// Resolve walks list and returns the resolution table with all the static
// errors found. Resolving the same tree again yields an identical table.
func (r *Resolver) Resolve(list []Stmt) (Locals, error) {
	r.resolveStmts(list)
	return r.locals, r.errs.Err()
}

func (r *Resolver) resolveStmts(list []Stmt) {
	for _, s := range list {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *Block:
		r.begin()
		r.resolveStmts(s.List)
		r.end()
	case *VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *FuncStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, fnFunction)
	case *ClassStmt:
		r.resolveClass(s)
	case *ExprStmt:
		r.resolveExpr(s.Expr)
	case *PrintStmt:
		r.resolveExpr(s.Expr)
	case *IfStmt:
		r.resolveExpr(s.Cdt)
		r.resolveStmt(s.Csq)
		if s.Alt != nil {
			r.resolveStmt(s.Alt)
		}
	case *WhileStmt:
		r.resolveExpr(s.Cdt)
		r.resolveStmt(s.Body)
	case *ReturnStmt:
		if r.fn == fnNone {
			r.report(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value == nil {
			break
		}
		if r.fn == fnInitializer {
			r.report(s.Keyword, "Can't return a value from an initializer.")
		}
		r.resolveExpr(s.Value)
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) {
	enclosing := r.class
	defer func() {
		r.class = enclosing
	}()
	r.class = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.report(s.Superclass.Name, "A class can't inherit from itself.")
		}
		r.class = classSubclass
		r.resolveExpr(s.Superclass)

		r.begin()
		defer r.end()
		r.top()["super"] = true
	}

	r.begin()
	r.top()["this"] = true
	for _, m := range s.Methods {
		kind := fnMethod
		if m.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(m, kind)
	}
	r.end()
}

func (r *Resolver) resolveFunction(fn *FuncStmt, kind functionType) {
	enclosing := r.fn
	r.fn = kind

	r.begin()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.end()

	r.fn = enclosing
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *Literal:
	case *Variable:
		if r.pending(e.Name.Lexeme) {
			r.report(e.Name, "Can't read local variable in its own initializer.")
		}
		r.resolveLocal(e, e.Name)
	case *Assignment:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Unary:
		r.resolveExpr(e.Right)
	case *Grouping:
		r.resolveExpr(e.Expr)
	case *Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *Get:
		r.resolveExpr(e.Object)
	case *Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ThisExpr:
		if r.class == classNone {
			r.report(e.Keyword, "Can't use 'this' outside of a class.")
			break
		}
		r.resolveLocal(e, e.Keyword)
	case *SuperExpr:
		switch r.class {
		case classNone:
			r.report(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.report(e.Keyword, "Can't use 'super' in a class with no superclass.")
		default:
			r.resolveLocal(e, e.Keyword)
		}
	}
}

func (r *Resolver) resolveLocal(expr Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

// pending reports whether name is declared but not yet defined in the
// innermost scope, the global scope included.
func (r *Resolver) pending(name string) bool {
	scope := r.globals
	if len(r.scopes) > 0 {
		scope = r.top()
	}
	ready, ok := scope[name]
	return ok && !ready
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		if _, ok := r.globals[name.Lexeme]; !ok {
			r.globals[name.Lexeme] = false
		}
		return
	}
	scope := r.top()
	if _, ok := scope[name.Lexeme]; ok {
		r.report(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		r.globals[name.Lexeme] = true
		return
	}
	r.top()[name.Lexeme] = true
}

func (r *Resolver) begin() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) end() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) top() map[string]bool {
	return r.scopes[len(r.scopes)-1]
}

func (r *Resolver) report(tok Token, msg string) {
	r.errs = append(r.errs, staticAt(tok, msg))
}
