package parser

import (
	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/report"
)

// addAction parses ADD <value> [WITH <record spec>]. The ADD keyword has
// already been consumed; likewise for the other action parsers.
func (p *Parser) addAction() ast.Node {
	node := &ast.AddAction{LineNo: p.previous.Line}
	node.Value = p.expression()
	if p.match(lexer.TOKEN_WITH) {
		node.RecordSpec = p.fieldList()
	}
	return node
}

// removeAction parses REMOVE [WHEN <condition>]. No condition means
// remove all. The condition belongs to the action, so a trailing
// TELL-level condition cannot also appear.
func (p *Parser) removeAction() ast.Node {
	node := &ast.RemoveAction{LineNo: p.previous.Line}
	if p.match(lexer.TOKEN_WHEN) || p.match(lexer.TOKEN_IF) || p.match(lexer.TOKEN_WHERE) {
		node.Condition = p.expression()
	}
	return node
}

// updateAction parses UPDATE field = value, field = value, ...
func (p *Parser) updateAction() ast.Node {
	node := &ast.UpdateAction{LineNo: p.previous.Line}

	if !p.check(lexer.TOKEN_IDENTIFIER) {
		p.errorAtCurrent(report.SourceParser, "Expected identifier for UPDATE action")
		return node
	}
	p.updatePair(node)

	for p.match(lexer.TOKEN_COMMA) {
		if !p.check(lexer.TOKEN_IDENTIFIER) {
			p.errorAtCurrent(report.SourceParser, "Expected identifier after comma in UPDATE action")
			break
		}
		p.updatePair(node)
	}

	return node
}

func (p *Parser) updatePair(node *ast.UpdateAction) {
	field := identFromToken(p.current)
	p.advance()
	p.consume(lexer.TOKEN_EQUAL, "Expected '=' after field name")

	node.Fields = append(node.Fields, field)
	node.Values = append(node.Values, p.expression())
}

// createAction parses CREATE fielddef, fielddef, ...
func (p *Parser) createAction() ast.Node {
	node := &ast.CreateAction{LineNo: p.previous.Line}

	node.FieldDefs = append(node.FieldDefs, p.fieldDef())
	for p.match(lexer.TOKEN_COMMA) {
		node.FieldDefs = append(node.FieldDefs, p.fieldDef())
	}

	return node
}

// fieldDef parses name [AS type] [(constraint, ...)].
func (p *Parser) fieldDef() *ast.FieldDef {
	node := &ast.FieldDef{LineNo: p.previous.Line}

	if p.check(lexer.TOKEN_IDENTIFIER) {
		node.Name = identFromToken(p.current)
		p.advance()
	} else {
		p.errorAtCurrent(report.SourceParser, "Expected identifier for field name")
	}

	if p.match(lexer.TOKEN_AS) {
		if p.check(lexer.TOKEN_IDENTIFIER) {
			node.Type = p.current.Lexeme
			p.advance()
		} else {
			p.errorAtCurrent(report.SourceParser, "Expected identifier for field type")
		}
	}

	if p.match(lexer.TOKEN_LPAREN) {
		node.Constraints = append(node.Constraints, p.constraint())
		for p.match(lexer.TOKEN_COMMA) {
			node.Constraints = append(node.Constraints, p.constraint())
		}
		p.consume(lexer.TOKEN_RPAREN, "Expected ')' after field constraints")
	}

	return node
}

// constraint parses REQUIRED, UNIQUE or DEFAULT <expression>. The
// constraint words are soft keywords, recognized only in this position.
func (p *Parser) constraint() *ast.Constraint {
	node := &ast.Constraint{LineNo: p.previous.Line}

	if !p.check(lexer.TOKEN_IDENTIFIER) {
		p.errorAtCurrent(report.SourceParser, "Expected constraint type")
		return node
	}

	switch p.current.Lexeme {
	case "REQUIRED":
		node.Type = ast.ConstraintRequired
		p.advance()
	case "UNIQUE":
		node.Type = ast.ConstraintUnique
		p.advance()
	case "DEFAULT":
		node.Type = ast.ConstraintDefault
		p.advance()
		node.DefaultValue = p.expression()
	default:
		p.errorAtCurrent(report.SourceParser, "Expected constraint type (REQUIRED, UNIQUE, DEFAULT)")
	}

	return node
}
