package parser

import (
	"strconv"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/report"
)

// fieldList parses a comma-separated projection list. Entries may be
// identifiers or quoted strings; strings have their quotes stripped.
func (p *Parser) fieldList() *ast.FieldList {
	node := &ast.FieldList{LineNo: p.previous.Line}

	if !p.check(lexer.TOKEN_IDENTIFIER) && !p.check(lexer.TOKEN_STRING) {
		p.errorAtCurrent(report.SourceParser, "Expected identifier or string for field list")
		return node
	}
	node.Fields = append(node.Fields, identFromToken(p.current))
	p.advance()

	for p.match(lexer.TOKEN_COMMA) {
		if !p.check(lexer.TOKEN_IDENTIFIER) && !p.check(lexer.TOKEN_STRING) {
			p.errorAtCurrent(report.SourceParser, "Expected identifier or string after comma")
			break
		}
		node.Fields = append(node.Fields, identFromToken(p.current))
		p.advance()
	}

	return node
}

// source parses a source reference: an identifier or string naming the
// collection, optionally followed by an AND/WITH join.
func (p *Parser) source() *ast.Source {
	node := &ast.Source{LineNo: p.previous.Line}

	if !p.check(lexer.TOKEN_IDENTIFIER) && !p.check(lexer.TOKEN_STRING) {
		p.errorAtCurrent(report.SourceParser, "Expected identifier or string for source")
		return node
	}
	node.Identifier = identFromToken(p.current)
	p.advance()

	if p.match(lexer.TOKEN_AND) || p.match(lexer.TOKEN_WITH) {
		node.Join = p.join()
	}

	return node
}

// join parses the joined source and its mandatory WHEN/WHERE condition.
func (p *Parser) join() *ast.Join {
	node := &ast.Join{LineNo: p.previous.Line}

	node.Source = p.source()

	if p.match(lexer.TOKEN_WHEN) || p.match(lexer.TOKEN_WHERE) {
		node.Condition = p.expression()
	} else {
		p.errorAtCurrent(report.SourceParser, "Expected 'WHEN' or 'WHERE' after join source")
	}

	return node
}

// optionalGroupBy parses a GROUP BY clause with an optional HAVING
// condition, or returns nil when the next token is not GROUP.
func (p *Parser) optionalGroupBy() *ast.GroupBy {
	if !p.match(lexer.TOKEN_GROUP) {
		return nil
	}
	p.consume(lexer.TOKEN_BY, "Expected 'BY' after 'GROUP'")

	node := &ast.GroupBy{LineNo: p.previous.Line}
	node.Fields = p.fieldList()
	if p.match(lexer.TOKEN_HAVING) {
		node.Having = p.expression()
	}
	return node
}

// optionalOrderBy parses an ORDER BY clause or its SORT BY synonym, or
// returns nil when neither keyword is next. Each field takes an optional
// ASC/DESC direction word; ascending is the default.
func (p *Parser) optionalOrderBy() *ast.OrderBy {
	switch {
	case p.match(lexer.TOKEN_ORDER):
		p.consume(lexer.TOKEN_BY, "Expected 'BY' after 'ORDER'")
	case p.match(lexer.TOKEN_SORT):
		p.consume(lexer.TOKEN_BY, "Expected 'BY' after 'SORT'")
	default:
		return nil
	}

	node := &ast.OrderBy{LineNo: p.previous.Line}

	if !p.check(lexer.TOKEN_IDENTIFIER) {
		p.errorAtCurrent(report.SourceParser, "Expected identifier for ORDER BY clause")
		return node
	}
	p.orderField(node)

	for p.match(lexer.TOKEN_COMMA) {
		if !p.check(lexer.TOKEN_IDENTIFIER) {
			p.errorAtCurrent(report.SourceParser, "Expected identifier after comma in ORDER BY clause")
			break
		}
		p.orderField(node)
	}

	return node
}

// orderField consumes one sort field and its optional direction word.
// ASC and DESC are not keywords, so a following identifier that is neither
// is a syntax error rather than another sort field.
func (p *Parser) orderField(node *ast.OrderBy) {
	field := identFromToken(p.current)
	ascending := true
	p.advance()

	if p.match(lexer.TOKEN_IDENTIFIER) {
		switch p.previous.Lexeme {
		case "ASC":
			ascending = true
		case "DESC":
			ascending = false
		default:
			p.errorAtCurrent(report.SourceParser, "Expected 'ASC', 'DESC', or ','")
		}
	}

	node.Fields = append(node.Fields, field)
	node.Ascending = append(node.Ascending, ascending)
}

// optionalLimit parses a LIMIT clause with an optional OFFSET, or returns
// nil when the next token is not LIMIT. OFFSET is a soft keyword: it only
// has meaning in this position.
func (p *Parser) optionalLimit() *ast.Limit {
	if !p.match(lexer.TOKEN_LIMIT) {
		return nil
	}

	node := &ast.Limit{LineNo: p.previous.Line}

	if p.check(lexer.TOKEN_INTEGER) {
		node.Count, _ = strconv.Atoi(p.current.Lexeme)
		p.advance()
	} else {
		p.errorAtCurrent(report.SourceParser, "Expected integer for LIMIT clause")
	}

	if p.check(lexer.TOKEN_IDENTIFIER) && p.current.Lexeme == "OFFSET" {
		p.advance()
		if p.check(lexer.TOKEN_INTEGER) {
			node.Offset, _ = strconv.Atoi(p.current.Lexeme)
			p.advance()
		} else {
			p.errorAtCurrent(report.SourceParser, "Expected integer for OFFSET clause")
		}
	}

	return node
}
