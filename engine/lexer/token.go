package lexer

// TokenKind represents the category of a token.
//
// The numeric values are part of the binary wire format (binary expressions
// and literals store the operator/literal kind as a single byte), so new
// kinds must only ever be appended.
type TokenKind int

const (
	// Keywords
	TOKEN_ASK    TokenKind = iota // ASK
	TOKEN_TELL                    // TELL
	TOKEN_FIND                    // FIND
	TOKEN_SHOW                    // SHOW
	TOKEN_GET                     // GET
	TOKEN_FOR                     // FOR
	TOKEN_FROM                    // FROM
	TOKEN_TO                      // TO
	TOKEN_IF                      // IF
	TOKEN_WHEN                    // WHEN
	TOKEN_WHERE                   // WHERE
	TOKEN_THAT                    // THAT
	TOKEN_GROUP                   // GROUP
	TOKEN_SORT                    // SORT
	TOKEN_BY                      // BY
	TOKEN_LIMIT                   // LIMIT
	TOKEN_AND                     // AND
	TOKEN_OR                      // OR
	TOKEN_HAVING                  // HAVING
	TOKEN_ORDER                   // ORDER
	TOKEN_ADD                     // ADD
	TOKEN_REMOVE                  // REMOVE
	TOKEN_UPDATE                  // UPDATE
	TOKEN_CREATE                  // CREATE
	TOKEN_WITH                    // WITH
	TOKEN_AS                      // AS
	TOKEN_IN                      // IN
	TOKEN_NOT                     // NOT
	TOKEN_WHICH                   // WHICH

	// Operators
	TOKEN_PLUS    // +
	TOKEN_MINUS   // -
	TOKEN_STAR    // *
	TOKEN_SLASH   // /
	TOKEN_PERCENT // %
	TOKEN_EQUAL   // =
	TOKEN_GT      // >
	TOKEN_LT      // <
	TOKEN_GTE     // >=
	TOKEN_LTE     // <=
	TOKEN_NEQ     // !=
	TOKEN_LIKE    // LIKE

	// Literals and others
	TOKEN_IDENTIFIER // names
	TOKEN_STRING     // string literals
	TOKEN_INTEGER    // integer literals
	TOKEN_DECIMAL    // decimal literals
	TOKEN_COMMA      // ,
	TOKEN_LPAREN     // (
	TOKEN_RPAREN     // )
	TOKEN_EOF        // end of input
	TOKEN_ERROR      // error token
	TOKEN_TERMINATOR // ; or PLEASE (depending on how polite you are)
)

// Token represents a single lexeme in the source text.
//
// Tokens borrow from the source string: Start and Length locate the lexeme,
// nothing is copied. A token is only valid for as long as the source string
// it was scanned from. Error tokens are the exception — their Lexeme holds a
// fixed diagnostic message rather than a source slice.
type Token struct {
	Kind   TokenKind
	Start  int    // byte offset of the lexeme in the source
	Length int    // lexeme length in bytes
	Line   int    // 1-based line number
	Lexeme string // the lexeme text (diagnostic message for TOKEN_ERROR)
}

// keywords maps an exact lexeme to its keyword kind. NSQL keywords are
// case-sensitive uppercase; anything else scans as an identifier, which is
// what keeps AS, ASK, AND and ADD from colliding ("ASKING" is an identifier).
var keywords = map[string]TokenKind{
	"ASK":    TOKEN_ASK,
	"TELL":   TOKEN_TELL,
	"FIND":   TOKEN_FIND,
	"SHOW":   TOKEN_SHOW,
	"GET":    TOKEN_GET,
	"FOR":    TOKEN_FOR,
	"FROM":   TOKEN_FROM,
	"TO":     TOKEN_TO,
	"IF":     TOKEN_IF,
	"WHEN":   TOKEN_WHEN,
	"WHERE":  TOKEN_WHERE,
	"THAT":   TOKEN_THAT,
	"GROUP":  TOKEN_GROUP,
	"SORT":   TOKEN_SORT,
	"BY":     TOKEN_BY,
	"LIMIT":  TOKEN_LIMIT,
	"AND":    TOKEN_AND,
	"OR":     TOKEN_OR,
	"HAVING": TOKEN_HAVING,
	"ORDER":  TOKEN_ORDER,
	"ADD":    TOKEN_ADD,
	"REMOVE": TOKEN_REMOVE,
	"UPDATE": TOKEN_UPDATE,
	"CREATE": TOKEN_CREATE,
	"WITH":   TOKEN_WITH,
	"AS":     TOKEN_AS,
	"IN":     TOKEN_IN,
	"NOT":    TOKEN_NOT,
	"WHICH":  TOKEN_WHICH,
	"LIKE":   TOKEN_LIKE,
	"PLEASE": TOKEN_TERMINATOR,
}

var tokenNames = map[TokenKind]string{
	TOKEN_ASK:        "ASK",
	TOKEN_TELL:       "TELL",
	TOKEN_FIND:       "FIND",
	TOKEN_SHOW:       "SHOW",
	TOKEN_GET:        "GET",
	TOKEN_FOR:        "FOR",
	TOKEN_FROM:       "FROM",
	TOKEN_TO:         "TO",
	TOKEN_IF:         "IF",
	TOKEN_WHEN:       "WHEN",
	TOKEN_WHERE:      "WHERE",
	TOKEN_THAT:       "THAT",
	TOKEN_GROUP:      "GROUP",
	TOKEN_SORT:       "SORT",
	TOKEN_BY:         "BY",
	TOKEN_LIMIT:      "LIMIT",
	TOKEN_AND:        "AND",
	TOKEN_OR:         "OR",
	TOKEN_HAVING:     "HAVING",
	TOKEN_ORDER:      "ORDER",
	TOKEN_ADD:        "ADD",
	TOKEN_REMOVE:     "REMOVE",
	TOKEN_UPDATE:     "UPDATE",
	TOKEN_CREATE:     "CREATE",
	TOKEN_WITH:       "WITH",
	TOKEN_AS:         "AS",
	TOKEN_IN:         "IN",
	TOKEN_NOT:        "NOT",
	TOKEN_WHICH:      "WHICH",
	TOKEN_PLUS:       "PLUS",
	TOKEN_MINUS:      "MINUS",
	TOKEN_STAR:       "STAR",
	TOKEN_SLASH:      "SLASH",
	TOKEN_PERCENT:    "PERCENT",
	TOKEN_EQUAL:      "EQUAL",
	TOKEN_GT:         "GT",
	TOKEN_LT:         "LT",
	TOKEN_GTE:        "GTE",
	TOKEN_LTE:        "LTE",
	TOKEN_NEQ:        "NEQ",
	TOKEN_LIKE:       "LIKE",
	TOKEN_IDENTIFIER: "IDENTIFIER",
	TOKEN_STRING:     "STRING",
	TOKEN_INTEGER:    "INTEGER",
	TOKEN_DECIMAL:    "DECIMAL",
	TOKEN_COMMA:      "COMMA",
	TOKEN_LPAREN:     "LPAREN",
	TOKEN_RPAREN:     "RPAREN",
	TOKEN_EOF:        "EOF",
	TOKEN_ERROR:      "ERROR",
	TOKEN_TERMINATOR: "TERMINATOR",
}

// String returns the human-readable token kind name.
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// OperatorString returns the source-level spelling of an operator kind,
// used by the renderers and the plan builders.
func OperatorString(k TokenKind) string {
	switch k {
	case TOKEN_PLUS:
		return "+"
	case TOKEN_MINUS:
		return "-"
	case TOKEN_STAR:
		return "*"
	case TOKEN_SLASH:
		return "/"
	case TOKEN_PERCENT:
		return "%"
	case TOKEN_EQUAL:
		return "="
	case TOKEN_GT:
		return ">"
	case TOKEN_LT:
		return "<"
	case TOKEN_GTE:
		return ">="
	case TOKEN_LTE:
		return "<="
	case TOKEN_NEQ:
		return "!="
	case TOKEN_LIKE:
		return "LIKE"
	case TOKEN_AND:
		return "AND"
	case TOKEN_OR:
		return "OR"
	case TOKEN_NOT:
		return "NOT"
	default:
		return "UNKNOWN"
	}
}
