package lox

import (
	"fmt"
	"io"

	"github.com/midbel/lox/environ"
)

// outcome is how a statement completed. A return statement sets returned and
// the value flows up to the enclosing call.
type outcome struct {
	returned bool
	value    Value
}

var normal outcome

type Interpreter struct {
	globals *environ.Env[Value]
	env     *environ.Env[Value]
	locals  Locals
	out     io.Writer

	depth    int
	maxDepth int
}

// NewInterpreter creates an interpreter whose globals only hold the native
// functions. Only Stdout and MaxDepth of cfg are used.
func NewInterpreter(cfg Config) *Interpreter {
	cfg = cfg.withDefaults()

	globals := environ.Empty[Value]()
	globals.Define("clock", clock())
	return &Interpreter{
		globals:  globals,
		env:      globals,
		locals:   make(Locals),
		out:      cfg.Stdout,
		maxDepth: cfg.MaxDepth,
	}
}

func (i *Interpreter) Globals() *environ.Env[Value] {
	return i.globals
}

func (i *Interpreter) Define(name string, value Value) {
	i.globals.Define(name, value)
}

func (i *Interpreter) Resolve(expr Expr, depth int) {
	i.locals[expr] = depth
}

// Merge adds the entries of locals to the resolution table. Tables of
// previous runs stay valid: the trees they refer to may still be reachable
// through closures.
func (i *Interpreter) Merge(locals Locals) {
	for e, d := range locals {
		i.Resolve(e, d)
	}
}

// Interpret executes list in order. Execution stops at the first runtime
// error; the effects of the statements already executed are kept.
func (i *Interpreter) Interpret(list []Stmt) error {
	for _, s := range list {
		if _, err := i.execute(s); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(stmt Stmt) (outcome, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := i.eval(s.Expr)
		return normal, err
	case *PrintStmt:
		return normal, i.executePrint(s)
	case *VarStmt:
		return normal, i.executeVar(s)
	case *Block:
		return i.executeBlock(s.List, environ.Enclosed(i.env))
	case *IfStmt:
		return i.executeIf(s)
	case *WhileStmt:
		return i.executeWhile(s)
	case *FuncStmt:
		fn := Function{
			decl:    s,
			closure: i.env,
		}
		i.env.Define(s.Name.Lexeme, &fn)
		return normal, nil
	case *ReturnStmt:
		return i.executeReturn(s)
	case *ClassStmt:
		return normal, i.executeClass(s)
	default:
		return normal, fmt.Errorf("unsupported statement %T", stmt)
	}
}

func (i *Interpreter) executePrint(s *PrintStmt) error {
	v, err := i.eval(s.Expr)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(i.out, Stringify(v))
	return err
}

func (i *Interpreter) executeVar(s *VarStmt) error {
	var value Value
	if s.Init != nil {
		v, err := i.eval(s.Init)
		if err != nil {
			return err
		}
		value = v
	}
	i.env.Define(s.Name.Lexeme, value)
	return nil
}

// executeBlock runs list in env. The previous environment is restored however
// the block completes.
func (i *Interpreter) executeBlock(list []Stmt, env *environ.Env[Value]) (outcome, error) {
	old := i.env
	defer func() {
		i.env = old
	}()
	i.env = env
	for _, s := range list {
		res, err := i.execute(s)
		if err != nil || res.returned {
			return res, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executeIf(s *IfStmt) (outcome, error) {
	cdt, err := i.eval(s.Cdt)
	if err != nil {
		return normal, err
	}
	if isTruthy(cdt) {
		return i.execute(s.Csq)
	}
	if s.Alt != nil {
		return i.execute(s.Alt)
	}
	return normal, nil
}

func (i *Interpreter) executeWhile(s *WhileStmt) (outcome, error) {
	for {
		cdt, err := i.eval(s.Cdt)
		if err != nil {
			return normal, err
		}
		if !isTruthy(cdt) {
			break
		}
		res, err := i.execute(s.Body)
		if err != nil || res.returned {
			return res, err
		}
	}
	return normal, nil
}

func (i *Interpreter) executeReturn(s *ReturnStmt) (outcome, error) {
	res := outcome{
		returned: true,
	}
	if s.Value != nil {
		v, err := i.eval(s.Value)
		if err != nil {
			return normal, err
		}
		res.value = v
	}
	return res, nil
}

func (i *Interpreter) executeClass(s *ClassStmt) error {
	var parent *Class
	if s.Superclass != nil {
		v, err := i.eval(s.Superclass)
		if err != nil {
			return err
		}
		c, ok := v.(*Class)
		if !ok {
			return runtimeError(s.Superclass.Name, "Superclass must be a class.")
		}
		parent = c
	}
	i.env.Define(s.Name.Lexeme, nil)

	env := i.env
	if parent != nil {
		env = environ.Enclosed(env)
		env.Define("super", parent)
	}
	class := Class{
		Name:       s.Name.Lexeme,
		Superclass: parent,
		Methods:    make(map[string]*Function),
	}
	for _, m := range s.Methods {
		class.Methods[m.Name.Lexeme] = &Function{
			decl:    m,
			closure: env,
			init:    m.Name.Lexeme == "init",
		}
	}
	return i.env.Assign(s.Name.Lexeme, &class)
}

func (i *Interpreter) eval(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		return e.Value, nil
	case *Grouping:
		return i.eval(e.Expr)
	case *Variable:
		return i.lookup(e.Name, e)
	case *Assignment:
		return i.evalAssignment(e)
	case *Logical:
		return i.evalLogical(e)
	case *Unary:
		return i.evalUnary(e)
	case *Binary:
		return i.evalBinary(e)
	case *Call:
		return i.evalCall(e)
	case *Get:
		return i.evalGet(e)
	case *Set:
		return i.evalSet(e)
	case *ThisExpr:
		return i.lookup(e.Keyword, e)
	case *SuperExpr:
		return i.evalSuper(e)
	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (i *Interpreter) lookup(name Token, expr Expr) (Value, error) {
	var (
		value Value
		err   error
	)
	if depth, ok := i.locals[expr]; ok {
		value, err = i.env.ResolveAt(depth, name.Lexeme)
	} else {
		value, err = i.globals.Resolve(name.Lexeme)
	}
	if err != nil {
		return nil, undefinedVariable(name, err)
	}
	return value, nil
}

func (i *Interpreter) evalAssignment(e *Assignment) (Value, error) {
	value, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	if depth, ok := i.locals[e]; ok {
		err = i.env.AssignAt(depth, e.Name.Lexeme, value)
	} else {
		err = i.globals.Assign(e.Name.Lexeme, value)
	}
	if err != nil {
		return nil, undefinedVariable(e.Name, err)
	}
	return value, nil
}

func (i *Interpreter) evalLogical(e *Logical) (Value, error) {
	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == Or {
		if isTruthy(left) {
			return left, nil
		}
	} else if !isTruthy(left) {
		return left, nil
	}
	return i.eval(e.Right)
}

func (i *Interpreter) evalUnary(e *Unary) (Value, error) {
	right, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case Not:
		return !isTruthy(right), nil
	case Sub:
		n, ok := right.(float64)
		if !ok {
			return nil, runtimeError(e.Op, "Operand must be a number.")
		}
		return -n, nil
	default:
		return nil, runtimeError(e.Op, "Unsupported unary operator '%s'.", e.Op.Lexeme)
	}
}

func (i *Interpreter) evalBinary(e *Binary) (Value, error) {
	left, err := i.eval(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case Eq:
		return isEqual(left, right), nil
	case Ne:
		return !isEqual(left, right), nil
	case Add:
		return add(e.Op, left, right)
	}
	x, y, err := numbers(e.Op, left, right)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case Sub:
		return x - y, nil
	case Mul:
		return x * y, nil
	case Div:
		return x / y, nil
	case Gt:
		return x > y, nil
	case Ge:
		return x >= y, nil
	case Lt:
		return x < y, nil
	case Le:
		return x <= y, nil
	default:
		return nil, runtimeError(e.Op, "Unsupported binary operator '%s'.", e.Op.Lexeme)
	}
}

func (i *Interpreter) evalCall(e *Call) (Value, error) {
	callee, err := i.eval(e.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := i.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeError(e.Paren, "Can only call functions and classes.")
	}
	if n := fn.Arity(); n != len(args) {
		return nil, runtimeError(e.Paren, "Expected %d arguments but got %d.", n, len(args))
	}
	if i.depth >= i.maxDepth {
		err := runtimeError(e.Paren, "Stack overflow.")
		err.Err = ErrStackOverflow
		return nil, err
	}
	i.depth++
	defer func() {
		i.depth--
	}()
	return fn.Call(i, args)
}

func (i *Interpreter) evalGet(e *Get) (Value, error) {
	obj, err := i.eval(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeError(e.Name, "Only instances have properties.")
	}
	return inst.Get(e.Name)
}

func (i *Interpreter) evalSet(e *Set) (Value, error) {
	obj, err := i.eval(e.Object)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeError(e.Name, "Only instances have fields.")
	}
	value, err := i.eval(e.Value)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name, value)
	return value, nil
}

// evalSuper finds the method in the superclass captured when the class was
// declared and binds it to the current instance, one scope closer than super.
func (i *Interpreter) evalSuper(e *SuperExpr) (Value, error) {
	depth, ok := i.locals[e]
	if !ok {
		return nil, runtimeError(e.Keyword, "Can't use 'super' outside of a class.")
	}
	v, err := i.env.ResolveAt(depth, "super")
	if err != nil {
		return nil, undefinedVariable(e.Keyword, err)
	}
	parent, ok := v.(*Class)
	if !ok {
		return nil, runtimeError(e.Keyword, "Superclass must be a class.")
	}
	v, err = i.env.ResolveAt(depth-1, "this")
	if err != nil {
		return nil, undefinedVariable(e.Keyword, err)
	}
	inst, ok := v.(*Instance)
	if !ok {
		return nil, runtimeError(e.Keyword, "Can't use 'super' outside of a method.")
	}
	method, ok := parent.FindMethod(e.Method.Lexeme)
	if !ok {
		return nil, runtimeError(e.Method, "Undefined property '%s'.", e.Method.Lexeme)
	}
	return method.Bind(inst), nil
}

func add(op Token, left, right Value) (Value, error) {
	switch x := left.(type) {
	case float64:
		if y, ok := right.(float64); ok {
			return x + y, nil
		}
	case string:
		if y, ok := right.(string); ok {
			return x + y, nil
		}
	}
	return nil, runtimeError(op, "Operands must be two numbers or two strings.")
}

func numbers(op Token, left, right Value) (float64, float64, error) {
	x, ok1 := left.(float64)
	y, ok2 := right.(float64)
	if !ok1 || !ok2 {
		return 0, 0, runtimeError(op, "Operands must be numbers.")
	}
	return x, y, nil
}

func undefinedVariable(name Token, err error) error {
	return &RuntimeError{
		Token: name,
		Msg:   fmt.Sprintf("Undefined variable '%s'.", name.Lexeme),
		Err:   err,
	}
}
