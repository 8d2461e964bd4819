package lox

import (
	"fmt"
	"time"

	"github.com/midbel/lox/environ"
)

// Callable is implemented by *Function, *Native and *Class only.
type Callable interface {
	Arity() int
	Call(*Interpreter, []Value) (Value, error)

	callable()
}

type Native struct {
	Name   string
	Params int
	Func   func([]Value) (Value, error)
}

func clock() *Native {
	return &Native{
		Name: "clock",
		Func: func(_ []Value) (Value, error) {
			now := time.Now()
			return float64(now.UnixNano()) / float64(time.Second), nil
		},
	}
}

func (n *Native) Arity() int {
	return n.Params
}

func (n *Native) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.Func(args)
}

func (n *Native) String() string {
	return "<native fn>"
}

func (*Native) callable() {}

type Function struct {
	decl    *FuncStmt
	closure *environ.Env[Value]
	init    bool
}

func (f *Function) Name() string {
	return f.decl.Name.Lexeme
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Bind returns a copy of the method whose closure defines this as inst.
func (f *Function) Bind(inst *Instance) *Function {
	env := environ.Enclosed(f.closure)
	env.Define("this", inst)
	return &Function{
		decl:    f.decl,
		closure: env,
		init:    f.init,
	}
}

func (f *Function) Call(it *Interpreter, args []Value) (Value, error) {
	env := environ.Enclosed(f.closure)
	for i, p := range f.decl.Params {
		env.Define(p.Lexeme, args[i])
	}
	res, err := it.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}
	if f.init {
		return f.closure.ResolveAt(0, "this")
	}
	return res.value, nil
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.Name())
}

func (*Function) callable() {}

type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func (c *Class) FindMethod(name string) (*Function, bool) {
	for curr := c; curr != nil; curr = curr.Superclass {
		if fn, ok := curr.Methods[name]; ok {
			return fn, true
		}
	}
	return nil, false
}

func (c *Class) Arity() int {
	ctor, ok := c.FindMethod("init")
	if !ok {
		return 0
	}
	return ctor.Arity()
}

// Call creates a new instance and runs its initializer if any. The instance is
// returned whatever the initializer returns.
func (c *Class) Call(it *Interpreter, args []Value) (Value, error) {
	inst := &Instance{
		Class:  c,
		Fields: make(map[string]Value),
	}
	if ctor, ok := c.FindMethod("init"); ok {
		if _, err := ctor.Bind(inst).Call(it, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

func (c *Class) String() string {
	return c.Name
}

func (*Class) callable() {}

type Instance struct {
	Class  *Class
	Fields map[string]Value
}

func (i *Instance) Get(name Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if fn, ok := i.Class.FindMethod(name.Lexeme); ok {
		return fn.Bind(i), nil
	}
	return nil, runtimeError(name, "Undefined property '%s'.", name.Lexeme)
}

func (i *Instance) Set(name Token, value Value) {
	i.Fields[name.Lexeme] = value
}

func (i *Instance) String() string {
	return i.Class.Name + " instance"
}
