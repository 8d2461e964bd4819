package lox

// Expr and Stmt are closed sets: only the node types of this file implement
// them. Nodes are always used through pointers; the resolver keys its table on
// node identity.
type Expr interface {
	expr()
}

type Stmt interface {
	stmt()
}

type Literal struct {
	Value any
}

type Variable struct {
	Name Token
}

type Assignment struct {
	Name  Token
	Value Expr
}

type Logical struct {
	Left  Expr
	Op    Token
	Right Expr
}

type Binary struct {
	Left  Expr
	Op    Token
	Right Expr
}

type Unary struct {
	Op    Token
	Right Expr
}

type Grouping struct {
	Expr Expr
}

type Call struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

type Get struct {
	Object Expr
	Name   Token
}

type Set struct {
	Object Expr
	Name   Token
	Value  Expr
}

type ThisExpr struct {
	Keyword Token
}

type SuperExpr struct {
	Keyword Token
	Method  Token
}

func (*Literal) expr()    {}
func (*Variable) expr()   {}
func (*Assignment) expr() {}
func (*Logical) expr()    {}
func (*Binary) expr()     {}
func (*Unary) expr()      {}
func (*Grouping) expr()   {}
func (*Call) expr()       {}
func (*Get) expr()        {}
func (*Set) expr()        {}
func (*ThisExpr) expr()   {}
func (*SuperExpr) expr()  {}

type ExprStmt struct {
	Expr Expr
}

type PrintStmt struct {
	Expr Expr
}

type VarStmt struct {
	Name Token
	Init Expr
}

type Block struct {
	List []Stmt
}

type IfStmt struct {
	Cdt Expr
	Csq Stmt
	Alt Stmt
}

type WhileStmt struct {
	Cdt  Expr
	Body Stmt
}

type FuncStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

type ClassStmt struct {
	Name       Token
	Superclass *Variable
	Methods    []*FuncStmt
}

func (*ExprStmt) stmt()   {}
func (*PrintStmt) stmt()  {}
func (*VarStmt) stmt()    {}
func (*Block) stmt()      {}
func (*IfStmt) stmt()     {}
func (*WhileStmt) stmt()  {}
func (*FuncStmt) stmt()   {}
func (*ReturnStmt) stmt() {}
func (*ClassStmt) stmt()  {}
