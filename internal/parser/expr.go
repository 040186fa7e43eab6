package parser

import (
	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/token"
)

// The functions below implement the precedence ladder in order,
// lowest to highest: assignment, logical, equality, bitwise (and/or/
// xor), bit-shift, additive, multiplicative, unary, postfix,
// null-coalesce, ternary, function, literal, supreme (call / ds-access
// / dot-access chain), grouping, identifier. Each level parses its
// operand by calling the next one down and only then looks for its own
// operator: a conventional descent chain, just one function per named
// level instead of one generic precedence-climbing loop, which keeps
// each level's special cases (assignment's bare-`=` ambiguity, the
// function-literal primary, struct-vs-block disambiguation) local to
// its own function.

// parseExpression is the top-level entry point used everywhere an
// expression is expected (initializers, call arguments, conditions).
// It folds a bare `=` into an EqualityExpr tagged FromAssignToken,
// right-associatively, so "foo = bar = 1" used as a value yields
// Equality(bar, 1) nested inside whatever promotion the caller does.
// Promotion to AssignmentStmt happens only at the true statement root,
// in parseExpressionAsStatementNoSemicolon.
func (p *Parser) parseExpression() *ast.Expr {
	start := p.cur
	left := p.parseLogical()
	if p.at(token.ASSIGN) {
		p.advance()
		right := p.parseExpression()
		return ast.NewExpr(&ast.EqualityExpr{Op: ast.EqEqual, Left: left, Right: right, FromAssignToken: true}, p.locFrom(start))
	}
	return left
}

func (p *Parser) parseLogical() *ast.Expr {
	start := p.cur
	left := p.parseEquality()
	for {
		var op ast.LogicalOp
		var fromKeyword bool
		switch p.cur.Type {
		case token.AND:
			op, fromKeyword = ast.LogicalAnd, true
		case token.AMP_AMP:
			op = ast.LogicalAnd
		case token.OR:
			op, fromKeyword = ast.LogicalOr, true
		case token.PIPE_PIPE:
			op = ast.LogicalOr
		case token.XOR:
			op, fromKeyword = ast.LogicalXor, true
		default:
			return left
		}
		p.advance()
		right := p.parseEquality()
		left = ast.NewExpr(&ast.LogicalExpr{Op: op, Left: left, Right: right, FromKeyword: fromKeyword}, p.locFrom(start))
	}
}

func (p *Parser) parseEquality() *ast.Expr {
	start := p.cur
	left := p.parseBitwise()
	for {
		var op ast.EqualityOp
		switch p.cur.Type {
		case token.EQ_EQ:
			op = ast.EqEqual
		case token.NOT_EQ:
			op = ast.EqNotEqual
		case token.LESS:
			op = ast.EqLess
		case token.LESS_EQ:
			op = ast.EqLessEqual
		case token.GREATER:
			op = ast.EqGreater
		case token.GREATER_EQ:
			op = ast.EqGreaterEqual
		default:
			return left
		}
		p.advance()
		right := p.parseBitwise()
		left = ast.NewExpr(&ast.EqualityExpr{Op: op, Left: left, Right: right}, p.locFrom(start))
	}
}

func (p *Parser) parseBitwise() *ast.Expr {
	start := p.cur
	left := p.parseBitShift()
	for {
		var op ast.EvalOp
		switch p.cur.Type {
		case token.AMP:
			op = ast.EvalBitAnd
		case token.PIPE:
			op = ast.EvalBitOr
		case token.CARET:
			op = ast.EvalBitXor
		default:
			return left
		}
		p.advance()
		right := p.parseBitShift()
		left = ast.NewExpr(&ast.EvaluationExpr{Op: op, Left: left, Right: right}, p.locFrom(start))
	}
}

func (p *Parser) parseBitShift() *ast.Expr {
	start := p.cur
	left := p.parseAdditive()
	for {
		var op ast.EvalOp
		switch p.cur.Type {
		case token.SHL:
			op = ast.EvalShl
		case token.SHR:
			op = ast.EvalShr
		default:
			return left
		}
		p.advance()
		right := p.parseAdditive()
		left = ast.NewExpr(&ast.EvaluationExpr{Op: op, Left: left, Right: right}, p.locFrom(start))
	}
}

func (p *Parser) parseAdditive() *ast.Expr {
	start := p.cur
	left := p.parseMultiplicative()
	for {
		var op ast.EvalOp
		switch p.cur.Type {
		case token.PLUS:
			op = ast.EvalAdd
		case token.MINUS:
			op = ast.EvalSub
		default:
			return left
		}
		p.advance()
		right := p.parseMultiplicative()
		left = ast.NewExpr(&ast.EvaluationExpr{Op: op, Left: left, Right: right}, p.locFrom(start))
	}
}

func (p *Parser) parseMultiplicative() *ast.Expr {
	start := p.cur
	left := p.parseUnary()
	for {
		var op ast.EvalOp
		var fromKeyword bool
		switch p.cur.Type {
		case token.STAR:
			op = ast.EvalMul
		case token.SLASH:
			op = ast.EvalDiv
		case token.PERCENT:
			op = ast.EvalMod
		case token.MOD:
			op, fromKeyword = ast.EvalMod, true
		case token.DIV:
			op, fromKeyword = ast.EvalIntDiv, true
		default:
			return left
		}
		p.advance()
		right := p.parseUnary()
		left = ast.NewExpr(&ast.EvaluationExpr{Op: op, Left: left, Right: right, FromKeyword: fromKeyword}, p.locFrom(start))
	}
}

func (p *Parser) parseUnary() *ast.Expr {
	start := p.cur
	var op ast.UnaryOp
	switch p.cur.Type {
	case token.MINUS:
		op = ast.UnaryNeg
	case token.BANG, token.NOT:
		op = ast.UnaryNot
	case token.TILDE:
		op = ast.UnaryBitNot
	case token.INC:
		op = ast.UnaryPreInc
	case token.DEC:
		op = ast.UnaryPreDec
	default:
		return p.parsePostfix()
	}
	p.advance()
	operand := p.parseUnary()
	return ast.NewExpr(&ast.UnaryExpr{Op: op, Operand: operand}, p.locFrom(start))
}

func (p *Parser) parsePostfix() *ast.Expr {
	start := p.cur
	operand := p.parseNullCoalesce()
	switch p.cur.Type {
	case token.INC:
		p.advance()
		return ast.NewExpr(&ast.PostfixExpr{Op: ast.PostfixInc, Operand: operand}, p.locFrom(start))
	case token.DEC:
		p.advance()
		return ast.NewExpr(&ast.PostfixExpr{Op: ast.PostfixDec, Operand: operand}, p.locFrom(start))
	default:
		return operand
	}
}

func (p *Parser) parseNullCoalesce() *ast.Expr {
	start := p.cur
	left := p.parseTernary()
	for p.at(token.QUESTION_QUESTION) {
		p.advance()
		right := p.parseTernary()
		left = ast.NewExpr(&ast.NullCoalesceExpr{Left: left, Right: right}, p.locFrom(start))
	}
	return left
}

func (p *Parser) parseTernary() *ast.Expr {
	start := p.cur
	cond := p.parseFunctionExpr()
	if !p.at(token.QUESTION) {
		return cond
	}
	p.advance()
	thenBranch := p.parseExpression()
	p.expect(token.COLON)
	elseBranch := p.parseTernary()
	return ast.NewExpr(&ast.TernaryExpr{Cond: cond, Then: thenBranch, Else: elseBranch}, p.locFrom(start))
}

func (p *Parser) parseFunctionExpr() *ast.Expr {
	if !p.at(token.FUNCTION) {
		return p.parseSupreme()
	}
	start := p.cur
	p.advance()

	var name *string
	if p.at(token.IDENT) {
		n := p.cur.Literal
		name = &n
		p.advance()
	}

	p.expect(token.LPAREN)
	params := p.parseParamList()
	p.expect(token.RPAREN)

	isConstructor := false
	var parentCall *ast.ConstructorParentCall
	if p.eat(token.CONSTRUCTOR) {
		isConstructor = true
		if p.eat(token.COLON) {
			parentName := p.expect(token.IDENT).Literal
			p.expect(token.LPAREN)
			args := p.parseArgList()
			p.expect(token.RPAREN)
			parentCall = &ast.ConstructorParentCall{Name: parentName, Args: args}
		}
	}

	body := p.parseBlock()
	return ast.NewExpr(&ast.FunctionExpr{Name: name, Params: params, Body: body, IsConstructor: isConstructor, Parent: parentCall}, p.locFrom(start))
}

// parseParamList enforces the spec rule: once an initialized parameter
// appears, every later parameter must also be initialized.
func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	sawDefault := false
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		name := p.expect(token.IDENT)
		var def *ast.Expr
		if p.eat(token.ASSIGN) {
			def = p.parseExpression()
			sawDefault = true
		} else if sawDefault {
			p.addError(&ParseError{Kind: InvalidDefaultArgument, Found: name, Location: p.locAt(name)})
		}
		params = append(params, ast.Param{Name: name.Literal, Default: def})
		if !p.eat(token.COMMA) {
			break
		}
	}
	return params
}

func (p *Parser) parseArgList() []*ast.Expr {
	var args []*ast.Expr
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		args = append(args, p.parseExpression())
		if !p.eat(token.COMMA) {
			break
		}
	}
	return args
}

// parseSupreme parses a primary expression and then the chain of
// `.field`, `[index]`, and `(args)` suffixes applied to it.
func (p *Parser) parseSupreme() *ast.Expr {
	left := p.parsePrimary()
	for {
		start := left.Location.Span.Start
		switch p.cur.Type {
		case token.DOT:
			p.advance()
			nameTok := p.expect(token.IDENT)
			right := ast.NewExpr(&ast.IdentifierExpr{Name: nameTok.Literal}, p.locAt(nameTok))
			left = ast.NewExpr(&ast.AccessExpr{Variant: &ast.DotAccess{Left: left, Right: right}}, p.locSpan(start))
		case token.QUESTION_DOT:
			p.advance()
			nameTok := p.expect(token.IDENT)
			right := ast.NewExpr(&ast.IdentifierExpr{Name: nameTok.Literal}, p.locAt(nameTok))
			left = ast.NewExpr(&ast.AccessExpr{Variant: &ast.DotAccess{Left: left, Right: right}}, p.locSpan(start))
		case token.LPAREN:
			p.advance()
			args := p.parseArgList()
			p.expect(token.RPAREN)
			left = ast.NewExpr(&ast.CallExpr{Callee: left, Args: args}, p.locSpan(start))
		case token.LBRACK:
			left = p.parseIndexAccess(left, start)
		default:
			return left
		}
	}
}

func (p *Parser) locSpan(start token.Position) token.Location {
	return token.Location{Span: token.Span{Start: start, End: p.cur.Span.Start, File: p.file}, File: p.file}
}

func (p *Parser) parseIndexAccess(left *ast.Expr, start token.Position) *ast.Expr {
	p.expect(token.LBRACK)
	switch p.cur.Type {
	case token.AT:
		p.advance()
		idx1 := p.parseExpression()
		variant := &ast.ArrayAccess{Left: left, Idx1: idx1, UsingAccessor: true}
		if p.eat(token.COMMA) {
			variant.Idx2 = p.parseExpression()
		}
		p.expect(token.RBRACK)
		return ast.NewExpr(&ast.AccessExpr{Variant: variant}, p.locSpan(start))
	case token.QUESTION:
		p.advance()
		key := p.parseExpression()
		p.expect(token.RBRACK)
		return ast.NewExpr(&ast.AccessExpr{Variant: &ast.MapAccess{Left: left, Key: key}}, p.locSpan(start))
	case token.HASH:
		p.advance()
		idx1 := p.parseExpression()
		p.expect(token.COMMA)
		idx2 := p.parseExpression()
		p.expect(token.RBRACK)
		return ast.NewExpr(&ast.AccessExpr{Variant: &ast.GridAccess{Left: left, Idx1: idx1, Idx2: idx2}}, p.locSpan(start))
	case token.PIPE:
		p.advance()
		idx := p.parseExpression()
		p.expect(token.RBRACK)
		return ast.NewExpr(&ast.AccessExpr{Variant: &ast.ListAccess{Left: left, Idx: idx}}, p.locSpan(start))
	case token.DOLLAR:
		p.advance()
		key := p.parseExpression()
		p.expect(token.RBRACK)
		return ast.NewExpr(&ast.AccessExpr{Variant: &ast.StructAccess{Left: left, Key: key}}, p.locSpan(start))
	default:
		idx1 := p.parseExpression()
		variant := &ast.ArrayAccess{Left: left, Idx1: idx1}
		if p.eat(token.COMMA) {
			variant.Idx2 = p.parseExpression()
		}
		p.expect(token.RBRACK)
		return ast.NewExpr(&ast.AccessExpr{Variant: variant}, p.locSpan(start))
	}
}

// parsePrimary parses the base of a supreme chain: a literal, an
// identifier, a parenthesized grouping, or one of the three special
// self/other/global accessor bases.
func (p *Parser) parsePrimary() *ast.Expr {
	start := p.cur
	switch p.cur.Type {
	case token.SELF:
		p.advance()
		return p.parseSpecialBase(start, func(right *ast.Expr) ast.AccessVariant { return &ast.IdentityAccess{Right: right} }, "self")
	case token.OTHER:
		p.advance()
		return p.parseSpecialBase(start, func(right *ast.Expr) ast.AccessVariant { return &ast.OtherAccess{Right: right} }, "other")
	case token.GLOBAL:
		p.advance()
		return p.parseSpecialBase(start, func(right *ast.Expr) ast.AccessVariant { return &ast.GlobalAccess{Right: right} }, "global")
	case token.TRUE:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.TrueLiteral{}}, p.locFrom(start))
	case token.FALSE:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.FalseLiteral{}}, p.locFrom(start))
	case token.UNDEFINED:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.UndefinedLiteral{}}, p.locFrom(start))
	case token.NOONE:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.NooneLiteral{}}, p.locFrom(start))
	case token.STRING:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.StringLiteral{Value: start.Literal}}, p.locFrom(start))
	case token.REAL:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.RealLiteral{Text: start.Literal}}, p.locFrom(start))
	case token.HEX:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.HexLiteral{Text: start.Literal}}, p.locFrom(start))
	case token.MISC_CONSTANT:
		p.advance()
		return ast.NewExpr(&ast.LiteralExpr{Variant: ast.MiscLiteral{Name: start.Literal}}, p.locFrom(start))
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.LBRACE, token.BEGIN:
		return p.parseStructLiteral()
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RPAREN)
		return ast.NewExpr(&ast.GroupingExpr{Inner: inner}, p.locFrom(start))
	case token.IDENT:
		p.advance()
		return ast.NewExpr(&ast.IdentifierExpr{Name: start.Literal}, p.locFrom(start))
	case token.NEW:
		return p.parseNewInstance(start)
	default:
		p.addError(&ParseError{Kind: UnexpectedToken, Found: start, Location: p.locAt(start)})
		p.advance()
		return ast.NewExpr(&ast.IdentifierExpr{Name: "<error>"}, p.locFrom(start))
	}
}

// parseSpecialBase handles self/other/global: followed by `.`, it
// produces the matching Access variant; used bare, it yields an
// IdentifierExpr carrying the keyword's name. The solver types a bare
// self as the current self record and a bare global as the global
// record; a bare other is typed like any other identifier.
func (p *Parser) parseSpecialBase(start token.Token, makeVariant func(*ast.Expr) ast.AccessVariant, name string) *ast.Expr {
	if p.eat(token.DOT) {
		nameTok := p.expect(token.IDENT)
		right := ast.NewExpr(&ast.IdentifierExpr{Name: nameTok.Literal}, p.locAt(nameTok))
		return ast.NewExpr(&ast.AccessExpr{Variant: makeVariant(right)}, p.locFrom(start))
	}
	return ast.NewExpr(&ast.IdentifierExpr{Name: name}, p.locFrom(start))
}

// parseNewInstance parses `new Callee(args)`, where Callee is an
// identifier optionally followed by a dot-chain reaching the actual
// constructor function (e.g. `new ns.Point(1, 2)`).
func (p *Parser) parseNewInstance(start token.Token) *ast.Expr {
	p.advance()
	nameTok := p.expect(token.IDENT)
	callee := ast.NewExpr(&ast.IdentifierExpr{Name: nameTok.Literal}, p.locAt(nameTok))
	for p.at(token.DOT) {
		p.advance()
		right := p.expect(token.IDENT)
		rightExpr := ast.NewExpr(&ast.IdentifierExpr{Name: right.Literal}, p.locAt(right))
		callee = ast.NewExpr(&ast.AccessExpr{Variant: &ast.DotAccess{Left: callee, Right: rightExpr}}, p.locFrom(start))
	}
	p.expect(token.LPAREN)
	args := p.parseArgList()
	p.expect(token.RPAREN)
	return ast.NewExpr(&ast.NewInstanceExpr{Callee: callee, Args: args}, p.locFrom(start))
}

func (p *Parser) parseArrayLiteral() *ast.Expr {
	start := p.cur
	p.expect(token.LBRACK)
	var elements []*ast.Expr
	for !p.at(token.RBRACK) && !p.at(token.EOF) {
		elements = append(elements, p.parseExpression())
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACK)
	return ast.NewExpr(&ast.LiteralExpr{Variant: ast.ArrayLiteral{Elements: elements}}, p.locFrom(start))
}

func (p *Parser) parseStructLiteral() *ast.Expr {
	start := p.cur
	closing := token.RBRACE
	if p.at(token.BEGIN) {
		closing = token.END
	}
	p.advance()
	var fields []ast.StructField
	for !p.at(closing) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Literal
		p.expect(token.COLON)
		value := p.parseExpression()
		fields = append(fields, ast.StructField{Name: name, Value: value})
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expect(closing)
	return ast.NewExpr(&ast.LiteralExpr{Variant: ast.StructLiteral{Fields: fields}}, p.locFrom(start))
}

// looksLikeStructLiteral implements the struct-vs-block disambiguation
// rule: peeking `identifier ":"` right after the opening brace means a
// struct literal; anything else begins a block statement. p.cur is the
// opening `{`/`begin`, so p.peek is the candidate field name and the
// token after it (fetched via the lexer's own buffering, one step past
// the parser's two-token window) is the candidate colon.
func (p *Parser) looksLikeStructLiteral() bool {
	return p.peek.Type == token.IDENT && p.lex.Peek(0).Type == token.COLON
}
