package parser

import (
	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/report"
)

// askQuery parses the tail of an ASK query. The ASK keyword has already
// been consumed.
//
//	ASK source FOR fields [condition] [GROUP BY ...] [ORDER BY ...] [LIMIT n]
func (p *Parser) askQuery() ast.Node {
	node := &ast.AskQuery{LineNo: p.previous.Line}

	node.Source = p.source()
	p.consume(lexer.TOKEN_FOR, "Expected 'FOR' after source in ASK query")
	node.Fields = p.fieldList()

	if p.match(lexer.TOKEN_WHEN) || p.match(lexer.TOKEN_IF) || p.match(lexer.TOKEN_WHERE) {
		node.Condition = p.expression()
	}
	node.GroupBy = p.optionalGroupBy()
	node.OrderBy = p.optionalOrderBy()
	node.Limit = p.optionalLimit()

	return node
}

// tellQuery parses the tail of a TELL query.
//
//	TELL source TO action [condition]
//
// When the action keyword is missing the node still comes back with a nil
// Action, so callers see a partial statement rather than nothing.
func (p *Parser) tellQuery() ast.Node {
	node := &ast.TellQuery{LineNo: p.previous.Line}

	node.Source = p.source()
	p.consume(lexer.TOKEN_TO, "Expected 'TO' after source in TELL query")

	switch {
	case p.match(lexer.TOKEN_ADD):
		node.Action = p.addAction()
	case p.match(lexer.TOKEN_REMOVE):
		node.Action = p.removeAction()
	case p.match(lexer.TOKEN_UPDATE):
		node.Action = p.updateAction()
	case p.match(lexer.TOKEN_CREATE):
		node.Action = p.createAction()
	default:
		p.errorAtCurrent(report.SourceParser, "Expected action (ADD, REMOVE, UPDATE, CREATE)")
		return node
	}

	if p.match(lexer.TOKEN_WHEN) || p.match(lexer.TOKEN_IF) || p.match(lexer.TOKEN_WHERE) {
		node.Condition = p.expression()
	}

	return node
}

// findQuery parses the tail of a FIND query. Without an explicit source the
// query targets the implicit wildcard "*"; an IN clause replaces whichever
// source is in effect.
//
//	FIND [source] [IN source] [condition] [GROUP BY ...] [ORDER BY ...] [LIMIT n]
func (p *Parser) findQuery() ast.Node {
	node := &ast.FindQuery{LineNo: p.previous.Line}

	if p.check(lexer.TOKEN_IDENTIFIER) {
		node.Source = p.source()
	} else {
		node.Source = &ast.Source{
			LineNo:     p.previous.Line,
			Identifier: &ast.Identifier{LineNo: p.previous.Line, Name: "*"},
		}
	}

	if p.match(lexer.TOKEN_IN) {
		node.Source = p.source()
	}

	if p.match(lexer.TOKEN_THAT) || p.match(lexer.TOKEN_WHEN) ||
		p.match(lexer.TOKEN_WHERE) || p.match(lexer.TOKEN_WHICH) {
		node.Condition = p.expression()
	}
	node.GroupBy = p.optionalGroupBy()
	node.OrderBy = p.optionalOrderBy()
	node.Limit = p.optionalLimit()

	return node
}

// showQuery parses the tail of a SHOW query.
//
//	SHOW [ME] fields FROM source [condition] [GROUP BY ...] [ORDER BY ...] [LIMIT n]
//
// Only the literal filler word ME is skipped; any other leading identifier
// starts the field list.
func (p *Parser) showQuery() ast.Node {
	node := &ast.ShowQuery{LineNo: p.previous.Line}
	p.showTail(&node.Source, &node.Fields, &node.Condition,
		&node.GroupBy, &node.OrderBy, &node.Limit, "SHOW")
	return node
}

// getQuery parses the tail of a GET query, which shares SHOW's shape but
// produces its own node kind.
func (p *Parser) getQuery() ast.Node {
	node := &ast.GetQuery{LineNo: p.previous.Line}
	p.showTail(&node.Source, &node.Fields, &node.Condition,
		&node.GroupBy, &node.OrderBy, &node.Limit, "GET")
	return node
}

func (p *Parser) showTail(source **ast.Source, fields **ast.FieldList, condition *ast.Node,
	groupBy **ast.GroupBy, orderBy **ast.OrderBy, limit **ast.Limit, form string) {

	if p.check(lexer.TOKEN_IDENTIFIER) && p.current.Lexeme == "ME" {
		p.advance()
	}

	*fields = p.fieldList()
	p.consume(lexer.TOKEN_FROM, "Expected 'FROM' after fields in "+form+" query")
	*source = p.source()

	if p.match(lexer.TOKEN_WHEN) || p.match(lexer.TOKEN_IF) || p.match(lexer.TOKEN_WHERE) {
		*condition = p.expression()
	}
	*groupBy = p.optionalGroupBy()
	*orderBy = p.optionalOrderBy()
	*limit = p.optionalLimit()
}
