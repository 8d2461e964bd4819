package lox

import (
	"errors"
	"fmt"
)

const maxArgs = 255

type Parser struct {
	tokens []Token
	pos    int

	prev Token
	curr Token

	errs ErrorList
}

// ParseString scans and parses src. Diagnostics of both passes are returned
// together, scanner errors first.
func ParseString(src string) ([]Stmt, error) {
	tokens, err := Tokenize(src)
	var errs ErrorList
	errs = appendErrors(errs, err)

	list, err := Parse(tokens)
	errs = appendErrors(errs, err)
	return list, errs.Err()
}

func Parse(tokens []Token) ([]Stmt, error) {
	return NewParser(tokens).Parse()
}

func NewParser(tokens []Token) *Parser {
	if n := len(tokens); n == 0 || tokens[n-1].Type != EOF {
		var eof Token
		eof.Type = EOF
		if n > 0 {
			eof.Position = tokens[n-1].Position
		}
		tokens = append(tokens, eof)
	}
	p := Parser{
		tokens: tokens,
	}
	p.curr = p.tokens[0]
	return &p
}

// Parse reads declarations until the end of input. A declaration that fails
// to parse is reported and skipped up to the next statement boundary.
func (p *Parser) Parse() ([]Stmt, error) {
	var list []Stmt
	for !p.done() {
		stmt, err := p.parseDeclaration()
		if err != nil {
			p.errs = appendErrors(p.errs, err)
			p.synchronize()
			continue
		}
		list = append(list, stmt)
	}
	return list, p.errs.Err()
}

func (p *Parser) parseDeclaration() (Stmt, error) {
	switch p.curr.Type {
	case Klass:
		return p.parseClass()
	case Fun:
		p.next()
		return p.parseFunction("function")
	case Var:
		return p.parseVar()
	default:
		return p.parseStatement()
	}
}

func (p *Parser) parseClass() (Stmt, error) {
	p.next()
	name, err := p.expect(Ident, "Expect class name.")
	if err != nil {
		return nil, err
	}
	stmt := ClassStmt{
		Name: name,
	}
	if p.is(Lt) {
		p.next()
		super, err := p.expect(Ident, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		stmt.Superclass = &Variable{
			Name: super,
		}
	}
	if _, err := p.expect(Lbrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}
	for !p.done() && !p.is(Rbrace) {
		fn, err := p.parseFunction("method")
		if err != nil {
			return nil, err
		}
		stmt.Methods = append(stmt.Methods, fn)
	}
	if _, err := p.expect(Rbrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseFunction(kind string) (*FuncStmt, error) {
	name, err := p.expect(Ident, fmt.Sprintf("Expect %s name.", kind))
	if err != nil {
		return nil, err
	}
	fn := FuncStmt{
		Name: name,
	}
	if _, err := p.expect(Lparen, fmt.Sprintf("Expect '(' after %s name.", kind)); err != nil {
		return nil, err
	}
	if !p.is(Rparen) {
		for {
			if len(fn.Params) >= maxArgs {
				p.errs = append(p.errs, staticAt(p.curr, "Can't have more than 255 parameters."))
			}
			param, err := p.expect(Ident, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			fn.Params = append(fn.Params, param)
			if !p.is(Comma) {
				break
			}
			p.next()
		}
	}
	if _, err := p.expect(Rparen, "Expect ')' after parameters."); err != nil {
		return nil, err
	}
	if _, err := p.expect(Lbrace, fmt.Sprintf("Expect '{' before %s body.", kind)); err != nil {
		return nil, err
	}
	if fn.Body, err = p.parseBlockBody(); err != nil {
		return nil, err
	}
	return &fn, nil
}

func (p *Parser) parseVar() (Stmt, error) {
	p.next()
	name, err := p.expect(Ident, "Expect variable name.")
	if err != nil {
		return nil, err
	}
	stmt := VarStmt{
		Name: name,
	}
	if p.is(Assign) {
		p.next()
		if stmt.Init, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	switch p.curr.Type {
	case For:
		return p.parseFor()
	case If:
		return p.parseIf()
	case Print:
		return p.parsePrint()
	case Return:
		return p.parseReturn()
	case While:
		return p.parseWhile()
	case Lbrace:
		p.next()
		list, err := p.parseBlockBody()
		if err != nil {
			return nil, err
		}
		return &Block{List: list}, nil
	default:
		return p.parseExprStmt()
	}
}

// parseFor rewrites the loop into a while statement: the initializer goes in
// an enclosing block and the increment runs after the body on each iteration.
func (p *Parser) parseFor() (Stmt, error) {
	p.next()
	if _, err := p.expect(Lparen, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}
	var (
		init Stmt
		err  error
	)
	switch {
	case p.is(Semicolon):
		p.next()
	case p.is(Var):
		init, err = p.parseVar()
	default:
		init, err = p.parseExprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cdt Expr
	if !p.is(Semicolon) {
		if cdt, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Semicolon, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var incr Expr
	if !p.is(Rparen) {
		if incr, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(Rparen, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.parseStatement()
	if err != nil {
		return nil, err
	}
	if incr != nil {
		body = &Block{
			List: []Stmt{body, &ExprStmt{Expr: incr}},
		}
	}
	if cdt == nil {
		cdt = &Literal{Value: true}
	}
	body = &WhileStmt{
		Cdt:  cdt,
		Body: body,
	}
	if init != nil {
		body = &Block{
			List: []Stmt{init, body},
		}
	}
	return body, nil
}

func (p *Parser) parseIf() (Stmt, error) {
	p.next()
	cdt, err := p.parseCondition("if")
	if err != nil {
		return nil, err
	}
	stmt := IfStmt{
		Cdt: cdt,
	}
	if stmt.Csq, err = p.parseStatement(); err != nil {
		return nil, err
	}
	if p.is(Else) {
		p.next()
		if stmt.Alt, err = p.parseStatement(); err != nil {
			return nil, err
		}
	}
	return &stmt, nil
}

func (p *Parser) parseWhile() (Stmt, error) {
	p.next()
	cdt, err := p.parseCondition("while")
	if err != nil {
		return nil, err
	}
	stmt := WhileStmt{
		Cdt: cdt,
	}
	if stmt.Body, err = p.parseStatement(); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseCondition(keyword string) (Expr, error) {
	if _, err := p.expect(Lparen, fmt.Sprintf("Expect '(' after '%s'.", keyword)); err != nil {
		return nil, err
	}
	cdt, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Rparen, fmt.Sprintf("Expect ')' after %s condition.", keyword)); err != nil {
		return nil, err
	}
	return cdt, nil
}

func (p *Parser) parsePrint() (Stmt, error) {
	p.next()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Semicolon, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return &PrintStmt{Expr: expr}, nil
}

func (p *Parser) parseReturn() (Stmt, error) {
	stmt := ReturnStmt{
		Keyword: p.curr,
	}
	p.next()
	if !p.is(Semicolon) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	if _, err := p.expect(Semicolon, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (p *Parser) parseBlockBody() ([]Stmt, error) {
	var list []Stmt
	for !p.done() && !p.is(Rbrace) {
		stmt, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		list = append(list, stmt)
	}
	if _, err := p.expect(Rbrace, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return list, nil
}

func (p *Parser) parseExprStmt() (Stmt, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(Semicolon, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return &ExprStmt{Expr: expr}, nil
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (Expr, error) {
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if !p.is(Assign) {
		return expr, nil
	}
	equal := p.curr
	p.next()
	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	switch e := expr.(type) {
	case *Variable:
		return &Assignment{Name: e.Name, Value: value}, nil
	case *Get:
		return &Set{Object: e.Object, Name: e.Name, Value: value}, nil
	default:
		p.errs = append(p.errs, staticAt(equal, "Invalid assignment target."))
		return expr, nil
	}
}

func (p *Parser) parseOr() (Expr, error) {
	return p.parseLogical(Or, p.parseAnd)
}

func (p *Parser) parseAnd() (Expr, error) {
	return p.parseLogical(And, p.parseEquality)
}

func (p *Parser) parseLogical(kind rune, operand func() (Expr, error)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.is(kind) {
		op := p.curr
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Logical{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseEquality() (Expr, error) {
	return p.parseBinary(p.parseComparison, Ne, Eq)
}

func (p *Parser) parseComparison() (Expr, error) {
	return p.parseBinary(p.parseTerm, Gt, Ge, Lt, Le)
}

func (p *Parser) parseTerm() (Expr, error) {
	return p.parseBinary(p.parseFactor, Sub, Add)
}

func (p *Parser) parseFactor() (Expr, error) {
	return p.parseBinary(p.parseUnary, Div, Mul)
}

func (p *Parser) parseBinary(operand func() (Expr, error), kinds ...rune) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}
	for p.is(kinds...) {
		op := p.curr
		p.next()
		right, err := operand()
		if err != nil {
			return nil, err
		}
		left = &Binary{Left: left, Op: op, Right: right}
	}
	return left, nil
}

func (p *Parser) parseUnary() (Expr, error) {
	if !p.is(Not, Sub) {
		return p.parseCall()
	}
	op := p.curr
	p.next()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &Unary{Op: op, Right: right}, nil
}

func (p *Parser) parseCall() (Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.is(Lparen):
			expr, err = p.parseArguments(expr)
		case p.is(Dot):
			expr, err = p.parseProperty(expr)
		default:
			return expr, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (p *Parser) parseProperty(object Expr) (Expr, error) {
	p.next()
	name, err := p.expect(Ident, "Expect property name after '.'.")
	if err != nil {
		return nil, err
	}
	return &Get{Object: object, Name: name}, nil
}

func (p *Parser) parseArguments(callee Expr) (Expr, error) {
	p.next()
	call := Call{
		Callee: callee,
	}
	if !p.is(Rparen) {
		for {
			if len(call.Args) >= maxArgs {
				p.errs = append(p.errs, staticAt(p.curr, "Can't have more than 255 arguments."))
			}
			arg, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
			if !p.is(Comma) {
				break
			}
			p.next()
		}
	}
	paren, err := p.expect(Rparen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	call.Paren = paren
	return &call, nil
}

func (p *Parser) parsePrimary() (Expr, error) {
	tok := p.curr
	switch tok.Type {
	case False:
		p.next()
		return &Literal{Value: false}, nil
	case True:
		p.next()
		return &Literal{Value: true}, nil
	case Nil:
		p.next()
		return &Literal{Value: nil}, nil
	case Number, String:
		p.next()
		return &Literal{Value: tok.Literal}, nil
	case This:
		p.next()
		return &ThisExpr{Keyword: tok}, nil
	case Super:
		p.next()
		if _, err := p.expect(Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.expect(Ident, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &SuperExpr{Keyword: tok, Method: method}, nil
	case Ident:
		p.next()
		return &Variable{Name: tok}, nil
	case Lparen:
		p.next()
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(Rparen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &Grouping{Expr: expr}, nil
	default:
		return nil, p.unexpected("Expect expression.")
	}
}

// synchronize discards tokens until the parser is likely at the start of a
// new statement: right after a semicolon or on a statement keyword.
func (p *Parser) synchronize() {
	p.next()
	for !p.done() {
		if p.prev.Type == Semicolon {
			return
		}
		switch p.curr.Type {
		case Klass, Fun, Var, For, If, While, Print, Return:
			return
		}
		p.next()
	}
}

func (p *Parser) expect(kind rune, msg string) (Token, error) {
	if !p.is(kind) {
		return Token{}, p.unexpected(msg)
	}
	tok := p.curr
	p.next()
	return tok, nil
}

func (p *Parser) is(kinds ...rune) bool {
	for _, k := range kinds {
		if p.curr.Type == k {
			return true
		}
	}
	return false
}

func (p *Parser) done() bool {
	return p.is(EOF)
}

func (p *Parser) next() {
	p.prev = p.curr
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	p.curr = p.tokens[p.pos]
}

func (p *Parser) unexpected(msg string) error {
	return staticAt(p.curr, msg)
}

func appendErrors(list ErrorList, err error) ErrorList {
	if err == nil {
		return list
	}
	var other ErrorList
	if errors.As(err, &other) {
		return append(list, other...)
	}
	return append(list, err)
}
