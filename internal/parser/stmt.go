package parser

import (
	"github.com/duck-lang/duck/internal/ast"
	"github.com/duck-lang/duck/internal/token"
)

func (p *Parser) parseStatement() *ast.Stmt {
	tag := p.takePendingTag()
	start := p.cur

	var stmt *ast.Stmt
	switch p.cur.Type {
	case token.MACRO:
		stmt = p.parseMacro()
	case token.ENUM:
		stmt = p.parseEnum()
	case token.GLOBALVAR:
		stmt = p.parseGlobalvar()
	case token.VAR:
		stmt = p.parseLocalVariables()
	case token.TRY:
		stmt = p.parseTryCatch()
	case token.FOR:
		stmt = p.parseFor()
	case token.WITH:
		stmt = p.parseWith()
	case token.REPEAT:
		stmt = p.parseRepeat()
	case token.DO:
		stmt = p.parseDoUntil()
	case token.WHILE:
		stmt = p.parseWhile()
	case token.IF:
		stmt = p.parseIf()
	case token.SWITCH:
		stmt = p.parseSwitch()
	case token.LBRACE, token.BEGIN:
		if p.looksLikeStructLiteral() {
			stmt = p.parseExpressionStatement()
		} else {
			stmt = p.parseBlock()
		}
	case token.RETURN:
		stmt = p.parseReturn()
	case token.THROW:
		stmt = p.parseThrow()
	case token.DELETE:
		stmt = p.parseDelete()
	case token.BREAK:
		p.advance()
		p.expectSemicolon()
		stmt = ast.NewStmt(&ast.BreakStmt{}, p.locFrom(start))
	case token.CONTINUE:
		p.advance()
		p.expectSemicolon()
		stmt = ast.NewStmt(&ast.ContinueStmt{}, p.locFrom(start))
	case token.EXIT:
		p.advance()
		p.expectSemicolon()
		stmt = ast.NewStmt(&ast.ExitStmt{}, p.locFrom(start))
	case token.SEMICOLON:
		p.advance()
		stmt = ast.NewStmt(&ast.BlockStmt{}, p.locFrom(start))
	default:
		stmt = p.parseExpressionStatement()
	}

	if stmt != nil {
		stmt.Tag = tag
	}
	return stmt
}

func (p *Parser) parseMacro() *ast.Stmt {
	start := p.cur
	tok := p.cur
	p.advance()
	if tok.Macro == nil {
		p.addError(&ParseError{Kind: UnexpectedToken, Found: tok, Location: p.locAt(tok)})
		return ast.NewStmt(&ast.MacroStmt{}, p.locFrom(start))
	}
	return ast.NewStmt(&ast.MacroStmt{Config: tok.Macro.Config, Name: tok.Macro.Name, Body: tok.Macro.Body}, p.locFrom(start))
}

func (p *Parser) parseEnum() *ast.Stmt {
	start := p.cur
	p.expect(token.ENUM)
	name := p.expect(token.IDENT).Literal
	p.expectOneOf(token.LBRACE, token.BEGIN)

	var members []ast.EnumMember
	for !p.at(token.RBRACE) && !p.at(token.END) && !p.at(token.EOF) {
		memberName := p.expect(token.IDENT).Literal
		var value *ast.Expr
		if p.eat(token.ASSIGN) {
			value = p.parseExpression()
		}
		members = append(members, ast.EnumMember{Name: memberName, Value: value})
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expectOneOf(token.RBRACE, token.END)
	p.expectSemicolon()
	return ast.NewStmt(&ast.EnumStmt{Name: name, Members: members}, p.locFrom(start))
}

func (p *Parser) parseGlobalvar() *ast.Stmt {
	start := p.cur
	p.expect(token.GLOBALVAR)
	name := p.expect(token.IDENT).Literal
	p.expectSemicolon()
	return ast.NewStmt(&ast.GlobalvarStmt{Name: name}, p.locFrom(start))
}

func (p *Parser) parseLocalVariables() *ast.Stmt {
	start := p.cur
	p.expect(token.VAR)
	var decls []ast.LocalVarDecl
	for {
		name := p.expect(token.IDENT).Literal
		var init *ast.Expr
		if p.eat(token.ASSIGN) {
			init = p.parseExpression()
		}
		decls = append(decls, ast.LocalVarDecl{Name: name, Init: init})
		if !p.eat(token.COMMA) {
			break
		}
	}
	p.expectSemicolon()
	return ast.NewStmt(&ast.LocalVariablesStmt{Decls: decls}, p.locFrom(start))
}

func (p *Parser) parseTryCatch() *ast.Stmt {
	start := p.cur
	p.expect(token.TRY)
	tryBody := p.parseStatement()

	var catchName *string
	var catchBody *ast.Stmt
	if p.eat(token.CATCH) {
		if p.eat(token.LPAREN) {
			name := p.expect(token.IDENT).Literal
			catchName = &name
			p.expect(token.RPAREN)
		}
		catchBody = p.parseStatement()
	}

	var finallyBody *ast.Stmt
	if p.eat(token.FINALLY) {
		finallyBody = p.parseStatement()
	}

	return ast.NewStmt(&ast.TryCatchStmt{Try: tryBody, CatchName: catchName, CatchBody: catchBody, Finally: finallyBody}, p.locFrom(start))
}

func (p *Parser) parseFor() *ast.Stmt {
	start := p.cur
	p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init *ast.Stmt
	if !p.at(token.SEMICOLON) {
		init = p.parseStatement()
	} else {
		p.advance()
	}

	var cond *ast.Expr
	if !p.at(token.SEMICOLON) {
		cond = p.parseExpression()
	}
	p.expect(token.SEMICOLON)

	var post *ast.Stmt
	if !p.at(token.RPAREN) {
		post = p.parseExpressionAsStatementNoSemicolon()
	}
	p.expect(token.RPAREN)

	body := p.parseStatement()
	return ast.NewStmt(&ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body}, p.locFrom(start))
}

func (p *Parser) parseWith() *ast.Stmt {
	start := p.cur
	p.expect(token.WITH)
	p.expect(token.LPAREN)
	target := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return ast.NewStmt(&ast.WithStmt{Target: target, Body: body}, p.locFrom(start))
}

func (p *Parser) parseRepeat() *ast.Stmt {
	start := p.cur
	p.expect(token.REPEAT)
	p.expect(token.LPAREN)
	count := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return ast.NewStmt(&ast.RepeatStmt{Count: count, Body: body}, p.locFrom(start))
}

func (p *Parser) parseDoUntil() *ast.Stmt {
	start := p.cur
	p.expect(token.DO)
	body := p.parseStatement()
	p.expect(token.UNTIL)
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	p.expectSemicolon()
	return ast.NewStmt(&ast.DoUntilStmt{Body: body, Cond: cond}, p.locFrom(start))
}

func (p *Parser) parseWhile() *ast.Stmt {
	start := p.cur
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	cond := p.parseExpression()
	p.expect(token.RPAREN)
	body := p.parseStatement()
	return ast.NewStmt(&ast.WhileStmt{Cond: cond, Body: body}, p.locFrom(start))
}

// discardThen consumes an optional `then` keyword, per the spec rule
// that `then` is accepted and discarded in `if`/`switch case`.
func (p *Parser) discardThen() { p.eat(token.THEN) }

func (p *Parser) parseIf() *ast.Stmt {
	start := p.cur
	p.expect(token.IF)
	hasParen := p.eat(token.LPAREN)
	cond := p.parseExpression()
	if hasParen {
		p.expect(token.RPAREN)
	}
	p.discardThen()
	then := p.parseStatement()
	var elseStmt *ast.Stmt
	if p.eat(token.ELSE) {
		elseStmt = p.parseStatement()
	}
	return ast.NewStmt(&ast.IfStmt{Cond: cond, Then: then, Else: elseStmt}, p.locFrom(start))
}

func (p *Parser) parseSwitch() *ast.Stmt {
	start := p.cur
	p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	subject := p.parseExpression()
	p.expect(token.RPAREN)
	p.expectOneOf(token.LBRACE, token.BEGIN)

	var cases []ast.SwitchCase
	for p.at(token.CASE) || p.at(token.DEFAULT) {
		var values []*ast.Expr
		isDefault := p.at(token.DEFAULT)
		if isDefault {
			p.advance()
		} else {
			for p.at(token.CASE) {
				p.advance()
				values = append(values, p.parseExpression())
				p.expect(token.COLON)
				p.discardThen()
				if !p.at(token.CASE) {
					break
				}
			}
		}
		if isDefault {
			p.expect(token.COLON)
		}
		var body []*ast.Stmt
		for !p.at(token.CASE) && !p.at(token.DEFAULT) && !p.at(token.RBRACE) && !p.at(token.END) && !p.at(token.EOF) {
			body = append(body, p.parseStatement())
		}
		cases = append(cases, ast.SwitchCase{Values: values, Body: body})
	}
	p.expectOneOf(token.RBRACE, token.END)
	return ast.NewStmt(&ast.SwitchStmt{Subject: subject, Cases: cases}, p.locFrom(start))
}

func (p *Parser) parseBlock() *ast.Stmt {
	start := p.cur
	closing := token.RBRACE
	if p.at(token.BEGIN) {
		closing = token.END
	}
	p.advance()
	var stmts []*ast.Stmt
	for !p.at(closing) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStatement())
	}
	p.expect(closing)
	return ast.NewStmt(&ast.BlockStmt{Stmts: stmts}, p.locFrom(start))
}

func (p *Parser) parseReturn() *ast.Stmt {
	start := p.cur
	p.expect(token.RETURN)
	var value *ast.Expr
	if !p.at(token.SEMICOLON) && !p.at(token.RBRACE) && !p.at(token.END) {
		value = p.parseExpression()
	}
	p.expectSemicolon()
	return ast.NewStmt(&ast.ReturnStmt{Value: value}, p.locFrom(start))
}

func (p *Parser) parseThrow() *ast.Stmt {
	start := p.cur
	p.expect(token.THROW)
	value := p.parseExpression()
	p.expectSemicolon()
	return ast.NewStmt(&ast.ThrowStmt{Value: value}, p.locFrom(start))
}

func (p *Parser) parseDelete() *ast.Stmt {
	start := p.cur
	p.expect(token.DELETE)
	target := p.parseExpression()
	p.expectSemicolon()
	return ast.NewStmt(&ast.DeleteStmt{Target: target}, p.locFrom(start))
}

var assignOpByToken = map[token.Type]ast.AssignOp{
	token.ASSIGN:         ast.AssignSet,
	token.PLUS_ASSIGN:    ast.AssignAdd,
	token.MINUS_ASSIGN:   ast.AssignSub,
	token.STAR_ASSIGN:    ast.AssignMul,
	token.SLASH_ASSIGN:   ast.AssignDiv,
	token.PERCENT_ASSIGN: ast.AssignMod,
	token.AMP_ASSIGN:     ast.AssignBitAnd,
	token.PIPE_ASSIGN:    ast.AssignBitOr,
	token.CARET_ASSIGN:   ast.AssignBitXor,
}

// isValidAssignTarget enforces the spec rule: an identifier, an
// access, or a call (accepted despite being semantically useless, per
// observed compiler behavior) may be assigned to; anything else is
// InvalidAssignmentTarget.
func isValidAssignTarget(e *ast.Expr) bool {
	switch e.Kind.(type) {
	case *ast.IdentifierExpr, *ast.AccessExpr, *ast.CallExpr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseExpressionStatement() *ast.Stmt {
	stmt := p.parseExpressionAsStatementNoSemicolon()
	p.expectSemicolon()
	return stmt
}

// parseExpressionAsStatementNoSemicolon parses one expression-statement
// without consuming its trailing semicolon, for reuse in for-loop
// clauses. Compound-assignment tokens (`+=`, `-=`, ...) are only
// recognized here, at the statement boundary; bare `=` is recognized
// one level down in the expression grammar itself (see expr.go) since
// it is ambiguous with equality when nested.
func (p *Parser) parseExpressionAsStatementNoSemicolon() *ast.Stmt {
	start := p.cur
	left := p.parseLogical()

	if op, ok := assignOpByToken[p.cur.Type]; ok {
		p.advance()
		value := p.parseExpression()
		if !isValidAssignTarget(left) {
			p.addError(&ParseError{Kind: InvalidAssignmentTarget, Found: start, Location: p.locFrom(start)})
		}
		return ast.NewStmt(&ast.AssignmentStmt{Op: op, Target: left, Value: value}, p.locFrom(start))
	}

	return ast.NewStmt(&ast.ExprStmt{Value: left}, p.locFrom(start))
}
