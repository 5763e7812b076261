// Package parser builds NSQL syntax trees with a hand-written recursive
// descent parser. Errors never abort the pass: the parser records a
// diagnostic, synchronizes according to its recovery policy and keeps
// going, so one pass can report several independent mistakes.
package parser

import (
	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/report"
)

// RecoveryPolicy selects how the parser resynchronizes after a syntax error.
type RecoveryPolicy int

const (
	// RecoverStatement skips tokens until the next query-start keyword, so
	// multi-statement programs recover per statement.
	RecoverStatement RecoveryPolicy = iota
	// RecoverReset abandons the current statement's error state immediately
	// without skipping anything. Permissive single-statement mode.
	RecoverReset
)

// Parser consumes a token stream and produces AST nodes. One Parser handles
// one source text; diagnostics accumulate in the report context it was
// created with.
type Parser struct {
	lx     *lexer.Lexer
	diags  *report.Context
	policy RecoveryPolicy

	current   lexer.Token
	previous  lexer.Token
	hadError  bool
	panicMode bool
}

// New creates a parser over lx, reporting into diags. The parser primes
// itself with the first token, so lexical errors at the very start of the
// input are reported immediately.
func New(lx *lexer.Lexer, diags *report.Context, policy RecoveryPolicy) *Parser {
	p := &Parser{lx: lx, diags: diags, policy: policy}
	p.advance()
	return p
}

// HadError reports whether any syntax error has been recorded so far. Under
// RecoverReset the flag is cleared on every recovery; consult the report
// context for the full picture.
func (p *Parser) HadError() bool {
	return p.hadError
}

// AtEnd reports whether the parser has consumed all input.
func (p *Parser) AtEnd() bool {
	return p.current.Kind == lexer.TOKEN_EOF
}

// advance moves to the next token, reporting and skipping any error tokens
// the lexer produces along the way.
func (p *Parser) advance() {
	p.previous = p.current
	for {
		p.current = p.lx.NextToken()
		if p.current.Kind != lexer.TOKEN_ERROR {
			return
		}
		p.errorAtCurrent(report.SourceLexer, p.current.Lexeme)
	}
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.current.Kind == kind
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if !p.check(kind) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(kind lexer.TokenKind, message string) {
	if p.current.Kind == kind {
		p.advance()
		return
	}
	p.errorAtCurrent(report.SourceParser, message)
}

func (p *Parser) errorAtCurrent(source report.Source, message string) {
	p.errorAt(source, p.current, message)
}

// errorAt records a diagnostic for the given token and synchronizes. While
// in panic mode further errors are swallowed, so each episode produces
// exactly one diagnostic.
func (p *Parser) errorAt(source report.Source, tok lexer.Token, message string) {
	if p.panicMode {
		return
	}
	p.panicMode = true
	p.hadError = true

	column := tok.Start - p.lx.LineOffset(tok.Line) + 1
	switch tok.Kind {
	case lexer.TOKEN_EOF:
		p.diags.Errorf(source, tok.Line, column, "at end: %s", message)
	case lexer.TOKEN_ERROR:
		p.diags.Errorf(source, tok.Line, column, "%s", message)
	default:
		p.diags.Errorf(source, tok.Line, column, "at '%s': %s", tok.Lexeme, message)
	}

	p.synchronize()
}

// synchronize applies the recovery policy. Statement recovery discards
// tokens until a query-start keyword (or EOF) comes up and stays in panic
// mode for the rest of the statement, so one episode yields one
// diagnostic; reset recovery clears the error state immediately and
// leaves the token stream alone.
func (p *Parser) synchronize() {
	if p.policy == RecoverReset {
		p.panicMode = false
		p.hadError = false
		return
	}
	for p.current.Kind != lexer.TOKEN_EOF {
		switch p.current.Kind {
		case lexer.TOKEN_ASK, lexer.TOKEN_TELL, lexer.TOKEN_FIND,
			lexer.TOKEN_SHOW, lexer.TOKEN_GET:
			return
		}
		p.advance()
	}
}

// ParseQuery parses a single query. The result may be partially populated
// if errors were recovered mid-statement; it is nil only when not even a
// query-start keyword was recognized.
func (p *Parser) ParseQuery() ast.Node {
	p.panicMode = false
	switch {
	case p.match(lexer.TOKEN_ASK):
		return p.askQuery()
	case p.match(lexer.TOKEN_TELL):
		return p.tellQuery()
	case p.match(lexer.TOKEN_FIND):
		return p.findQuery()
	case p.match(lexer.TOKEN_SHOW):
		return p.showQuery()
	case p.match(lexer.TOKEN_GET):
		return p.getQuery()
	}
	message := "Expected a query type (ASK, TELL, FIND, SHOW, GET)"
	if p.check(lexer.TOKEN_IDENTIFIER) {
		if suggestion := lexer.SuggestSimilar(p.current.Lexeme); suggestion != "" {
			message += ". Did you mean '" + suggestion + "'?"
		}
	}
	p.errorAtCurrent(report.SourceParser, message)
	return nil
}

// ParseProgram parses the whole input as a sequence of statements separated
// by terminators (';' or PLEASE). After a recovered error it keeps going
// with the next statement, so a program node always comes back, possibly
// with zero statements.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{LineNo: p.current.Line}

	for p.match(lexer.TOKEN_TERMINATOR) {
	}
	for !p.AtEnd() {
		before := p.current
		stmt := p.ParseQuery()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		// Guard against stalling when recovery did not move the stream.
		if p.current == before && !p.AtEnd() && !p.check(lexer.TOKEN_TERMINATOR) {
			p.advance()
		}
		for p.match(lexer.TOKEN_TERMINATOR) {
		}
	}
	return program
}

// identFromToken builds an identifier node from an identifier or string
// token; string sources and fields drop their surrounding quotes.
func identFromToken(tok lexer.Token) *ast.Identifier {
	name := tok.Lexeme
	if tok.Kind == lexer.TOKEN_STRING && len(name) >= 2 {
		name = name[1 : len(name)-1]
	}
	return &ast.Identifier{LineNo: tok.Line, Name: name}
}
