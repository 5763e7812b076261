package lexer

// Lexer scans NSQL source text into a stream of tokens.
//
// A Lexer is single-use and strictly forward: NextToken advances the scan
// position monotonically until it produces TOKEN_EOF. Independent sources
// need independent Lexer instances; a Lexer is not safe for concurrent use.
type Lexer struct {
	source  string
	start   int // start of the lexeme being scanned
	current int // current scan position
	line    int // 1-based line of the current position
}

// New creates a lexer over the given source text.
func New(source string) *Lexer {
	return &Lexer{source: source, line: 1}
}

// Line returns the line number of the current scan position.
func (l *Lexer) Line() int {
	return l.line
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() byte {
	ch := l.source[l.current]
	l.current++
	return ch
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

func (l *Lexer) peekNext() byte {
	if l.current+1 >= len(l.source) {
		return 0
	}
	return l.source[l.current+1]
}

// makeToken builds a token for the lexeme between start and current.
func (l *Lexer) makeToken(kind TokenKind) Token {
	return Token{
		Kind:   kind,
		Start:  l.start,
		Length: l.current - l.start,
		Line:   l.line,
		Lexeme: l.source[l.start:l.current],
	}
}

// errorToken builds a TOKEN_ERROR carrying a fixed diagnostic message. The
// Start/Length still point at the offending lexeme so callers can show it.
func (l *Lexer) errorToken(message string) Token {
	return Token{
		Kind:   TOKEN_ERROR,
		Start:  l.start,
		Length: l.current - l.start,
		Line:   l.line,
		Lexeme: message,
	}
}

// skipWhitespace consumes spaces, tabs, carriage returns, newlines and line
// comments. A comment starts at ">>" and runs to end of line; a lone '>' is
// left for the operator scanner.
func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\r', '\t':
			l.advance()
		case '\n':
			l.line++
			l.advance()
		case '>':
			if l.peekNext() != '>' {
				return
			}
			l.advance()
			l.advance()
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		default:
			return
		}
	}
}

func isAlpha(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isAlnum(ch byte) bool {
	return isAlpha(ch) || isDigit(ch)
}

// identifier scans a maximal identifier run and resolves it against the
// keyword table. Only an exact match is a keyword: "AS" is TOKEN_AS,
// "ASKING" is a plain identifier.
func (l *Lexer) identifier() Token {
	for isAlnum(l.peek()) {
		l.advance()
	}
	if kind, ok := keywords[l.source[l.start:l.current]]; ok {
		return l.makeToken(kind)
	}
	return l.makeToken(TOKEN_IDENTIFIER)
}

// number scans a maximal numeral, producing an integer token unless a '.'
// followed by a digit turns it into a decimal.
func (l *Lexer) number() Token {
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance() // consume the '.'
		for isDigit(l.peek()) {
			l.advance()
		}
		return l.makeToken(TOKEN_DECIMAL)
	}
	return l.makeToken(TOKEN_INTEGER)
}

// stringLiteral scans until the matching closing quote, tracking embedded
// newlines for line counting. Running out of input yields an error token.
func (l *Lexer) stringLiteral() Token {
	quote := l.source[l.start]
	for l.peek() != quote && !l.isAtEnd() {
		if l.peek() == '\n' {
			l.line++
		}
		l.advance()
	}
	if l.isAtEnd() {
		return l.errorToken("Unterminated string.")
	}
	l.advance() // closing quote
	return l.makeToken(TOKEN_STRING)
}

// NextToken scans and returns the next token. After the end of input it
// keeps returning TOKEN_EOF.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.start = l.current

	if l.isAtEnd() {
		return l.makeToken(TOKEN_EOF)
	}

	ch := l.advance()

	if isAlpha(ch) {
		return l.identifier()
	}
	if isDigit(ch) {
		return l.number()
	}

	switch ch {
	case '(':
		return l.makeToken(TOKEN_LPAREN)
	case ')':
		return l.makeToken(TOKEN_RPAREN)
	case ',':
		return l.makeToken(TOKEN_COMMA)
	case '=':
		return l.makeToken(TOKEN_EQUAL)
	case '<':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(TOKEN_LTE)
		}
		return l.makeToken(TOKEN_LT)
	case '>':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(TOKEN_GTE)
		}
		return l.makeToken(TOKEN_GT)
	case '!':
		if l.peek() == '=' {
			l.advance()
			return l.makeToken(TOKEN_NEQ)
		}
		return l.errorToken("Unexpected character.")
	case '+':
		return l.makeToken(TOKEN_PLUS)
	case '-':
		return l.makeToken(TOKEN_MINUS)
	case '*':
		return l.makeToken(TOKEN_STAR)
	case '/':
		return l.makeToken(TOKEN_SLASH)
	case '%':
		return l.makeToken(TOKEN_PERCENT)
	case '"', '\'':
		return l.stringLiteral()
	case ';':
		return l.makeToken(TOKEN_TERMINATOR)
	}

	return l.errorToken("Unexpected character.")
}

// LineOffset resolves a 1-based line number to the byte offset at which that
// line begins, by scanning from the start of the source. Lines past the end
// of input resolve to the input's end. This is diagnostic-display support,
// not part of the scanning hot path.
func (l *Lexer) LineOffset(line int) int {
	if line <= 1 {
		return 0
	}
	current := 1
	for i := 0; i < len(l.source); i++ {
		if l.source[i] == '\n' {
			current++
			if current == line {
				return i + 1
			}
		}
	}
	return len(l.source)
}

// Source returns the text this lexer was created over.
func (l *Lexer) Source() string {
	return l.source
}
