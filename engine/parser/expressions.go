package parser

import (
	"strconv"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/report"
)

// expression parses a full expression. The grammar is classic precedence
// climbing; every binary level folds left-associatively.
//
//	expression → or → and → equality → comparison → term → factor → unary → primary
func (p *Parser) expression() ast.Node {
	return p.logicOr()
}

// binaryLevel folds a left-associative run of the given operators over the
// next-higher precedence level.
func (p *Parser) binaryLevel(next func() ast.Node, ops ...lexer.TokenKind) ast.Node {
	left := next()
	for {
		matched := false
		for _, op := range ops {
			if p.match(op) {
				matched = true
				break
			}
		}
		if !matched {
			return left
		}
		op := p.previous.Kind
		line := p.previous.Line
		right := next()
		left = &ast.BinaryExpr{LineNo: line, Op: op, Left: left, Right: right}
	}
}

func (p *Parser) logicOr() ast.Node {
	return p.binaryLevel(p.logicAnd, lexer.TOKEN_OR)
}

func (p *Parser) logicAnd() ast.Node {
	return p.binaryLevel(p.equality, lexer.TOKEN_AND)
}

func (p *Parser) equality() ast.Node {
	return p.binaryLevel(p.comparison, lexer.TOKEN_EQUAL, lexer.TOKEN_NEQ, lexer.TOKEN_LIKE)
}

func (p *Parser) comparison() ast.Node {
	return p.binaryLevel(p.term,
		lexer.TOKEN_LT, lexer.TOKEN_LTE, lexer.TOKEN_GT, lexer.TOKEN_GTE)
}

func (p *Parser) term() ast.Node {
	return p.binaryLevel(p.factor, lexer.TOKEN_PLUS, lexer.TOKEN_MINUS)
}

func (p *Parser) factor() ast.Node {
	return p.binaryLevel(p.unary,
		lexer.TOKEN_STAR, lexer.TOKEN_SLASH, lexer.TOKEN_PERCENT)
}

// unary parses prefix NOT and - chains.
func (p *Parser) unary() ast.Node {
	if p.match(lexer.TOKEN_NOT) || p.match(lexer.TOKEN_MINUS) {
		op := p.previous.Kind
		line := p.previous.Line
		operand := p.unary()
		return &ast.UnaryExpr{LineNo: line, Op: op, Operand: operand}
	}
	return p.primary()
}

// primary parses literals, identifiers, parenthesized expressions and
// function calls. An identifier immediately followed by '(' is a call;
// one saved token of lookahead is enough to tell the two apart.
func (p *Parser) primary() ast.Node {
	if p.match(lexer.TOKEN_STRING) {
		lexeme := p.previous.Lexeme
		return &ast.Literal{
			LineNo:  p.previous.Line,
			LitKind: lexer.TOKEN_STRING,
			Str:     lexeme[1 : len(lexeme)-1], // drop the quotes
		}
	}

	if p.match(lexer.TOKEN_INTEGER) {
		num, _ := strconv.ParseFloat(p.previous.Lexeme, 64)
		return &ast.Literal{LineNo: p.previous.Line, LitKind: lexer.TOKEN_INTEGER, Num: num}
	}

	if p.match(lexer.TOKEN_DECIMAL) {
		num, _ := strconv.ParseFloat(p.previous.Lexeme, 64)
		return &ast.Literal{LineNo: p.previous.Line, LitKind: lexer.TOKEN_DECIMAL, Num: num}
	}

	if p.check(lexer.TOKEN_IDENTIFIER) {
		name := p.current
		p.advance()
		if p.check(lexer.TOKEN_LPAREN) {
			return p.functionCall(name)
		}
		return identFromToken(name)
	}

	if p.match(lexer.TOKEN_LPAREN) {
		expr := p.expression()
		p.consume(lexer.TOKEN_RPAREN, "Expected ')' after expression")
		return expr
	}

	p.errorAtCurrent(report.SourceParser, "Expected expression")
	return nil
}

// functionCall parses the argument list of a call whose name token has
// already been consumed. The current token is the opening parenthesis.
func (p *Parser) functionCall(name lexer.Token) ast.Node {
	node := &ast.FunctionCall{LineNo: name.Line, Name: name.Lexeme}

	p.consume(lexer.TOKEN_LPAREN, "Expected '(' after function name")

	if !p.check(lexer.TOKEN_RPAREN) {
		node.Args = append(node.Args, p.expression())
		for p.match(lexer.TOKEN_COMMA) {
			node.Args = append(node.Args, p.expression())
		}
	}

	p.consume(lexer.TOKEN_RPAREN, "Expected ')' after function arguments")
	return node
}
