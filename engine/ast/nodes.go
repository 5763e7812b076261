package ast

import "github.com/nsql-lang/nsql/engine/lexer"

// NodeType identifies the variant of a node.
//
// The numeric values are written as one-byte tags by the binary codec, so
// the order below must never change; new kinds are appended only.
type NodeType int

const (
	// Queries
	NodeAskQuery NodeType = iota
	NodeTellQuery
	NodeFindQuery
	NodeShowQuery
	NodeGetQuery

	// Components
	NodeFieldList
	NodeSource
	NodeJoin
	NodeGroupBy
	NodeOrderBy
	NodeLimit

	// Actions
	NodeAddAction
	NodeRemoveAction
	NodeUpdateAction
	NodeCreateAction

	// Expressions
	NodeBinaryExpr
	NodeUnaryExpr
	NodeIdentifier
	NodeLiteral
	NodeFieldDef
	NodeConstraint
	NodeFunctionCall

	// Error
	NodeError

	// Program
	NodeProgram
)

var nodeTypeNames = [...]string{
	"ASK_QUERY", "TELL_QUERY", "FIND_QUERY", "SHOW_QUERY", "GET_QUERY",
	"FIELD_LIST", "SOURCE", "JOIN", "GROUP_BY", "ORDER_BY", "LIMIT",
	"ADD_ACTION", "REMOVE_ACTION", "UPDATE_ACTION", "CREATE_ACTION",
	"BINARY_EXPR", "UNARY_EXPR", "IDENTIFIER", "LITERAL", "FIELD_DEF",
	"CONSTRAINT", "FUNCTION_CALL", "ERROR", "PROGRAM",
}

func (t NodeType) String() string {
	if int(t) < len(nodeTypeNames) {
		return nodeTypeNames[t]
	}
	return "UNKNOWN"
}

// ConstraintType identifies a field-definition constraint.
type ConstraintType int

const (
	ConstraintRequired ConstraintType = iota
	ConstraintUnique
	ConstraintDefault
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintRequired:
		return "REQUIRED"
	case ConstraintUnique:
		return "UNIQUE"
	case ConstraintDefault:
		return "DEFAULT"
	}
	return "UNKNOWN"
}

// Node is the interface all AST nodes implement. Each node exclusively owns
// its children: the tree is strict, with no sharing and no cycles. Once
// parsing completes consumers must treat the tree as immutable.
type Node interface {
	node()
	Kind() NodeType
	Line() int
}

// AskQuery is an ASK query: relational-style retrieval with an explicit
// field projection. Source and Fields are mandatory; the rest is optional
// and nil when absent.
type AskQuery struct {
	LineNo    int
	Source    *Source
	Fields    *FieldList
	Condition Node
	GroupBy   *GroupBy
	OrderBy   *OrderBy
	Limit     *Limit
}

// TellQuery is a TELL query: a mutation described by an action, with an
// optional guarding condition.
type TellQuery struct {
	LineNo    int
	Source    *Source
	Action    Node // *AddAction, *RemoveAction, *UpdateAction or *CreateAction; nil after a parse error
	Condition Node
}

// FindQuery is a FIND query: document-style retrieval. The source defaults
// to the implicit wildcard "*" until an IN clause replaces it.
type FindQuery struct {
	LineNo    int
	Source    *Source
	Condition Node
	GroupBy   *GroupBy
	OrderBy   *OrderBy
	Limit     *Limit
}

// ShowQuery is a SHOW query: projection-first reporting form.
type ShowQuery struct {
	LineNo    int
	Source    *Source
	Fields    *FieldList
	Condition Node
	GroupBy   *GroupBy
	OrderBy   *OrderBy
	Limit     *Limit
}

// GetQuery is a GET query. It shares SHOW's grammar and wire layout but
// keeps its own node kind so the root tag always matches the query form.
type GetQuery struct {
	LineNo    int
	Source    *Source
	Fields    *FieldList
	Condition Node
	GroupBy   *GroupBy
	OrderBy   *OrderBy
	Limit     *Limit
}

// FieldList is an ordered projection list of identifiers.
type FieldList struct {
	LineNo int
	Fields []*Identifier
}

// Source names the queried collection/table, optionally joined.
type Source struct {
	LineNo     int
	Identifier *Identifier
	Join       *Join
}

// Join is a WITH/AND join of another source under a condition.
type Join struct {
	LineNo    int
	Source    *Source
	Condition Node
}

// GroupBy is a GROUP BY clause with an optional HAVING condition.
type GroupBy struct {
	LineNo int
	Fields *FieldList
	Having Node
}

// OrderBy is an ORDER BY / SORT BY clause. Ascending runs parallel to
// Fields; entries default to ascending.
type OrderBy struct {
	LineNo    int
	Fields    []*Identifier
	Ascending []bool
}

// Limit is a LIMIT clause with an optional OFFSET.
type Limit struct {
	LineNo int
	Count  int
	Offset int
}

// AddAction is TELL ... TO ADD <value> [WITH <record spec>].
type AddAction struct {
	LineNo     int
	Value      Node
	RecordSpec *FieldList
}

// RemoveAction is TELL ... TO REMOVE [<condition>]. A nil condition means
// "remove all".
type RemoveAction struct {
	LineNo    int
	Condition Node
}

// UpdateAction is TELL ... TO UPDATE field = value, ... Fields and Values
// run parallel.
type UpdateAction struct {
	LineNo int
	Fields []*Identifier
	Values []Node
}

// CreateAction is TELL ... TO CREATE <field definitions>.
type CreateAction struct {
	LineNo    int
	FieldDefs []*FieldDef
}

// BinaryExpr is a left-associative binary expression.
type BinaryExpr struct {
	LineNo int
	Op     lexer.TokenKind
	Left   Node
	Right  Node
}

// UnaryExpr is a prefix NOT or - expression.
type UnaryExpr struct {
	LineNo  int
	Op      lexer.TokenKind
	Operand Node
}

// Identifier is a name reference.
type Identifier struct {
	LineNo int
	Name   string
}

// Literal is a string, integer or decimal literal. LitKind is one of
// lexer.TOKEN_STRING, TOKEN_INTEGER, TOKEN_DECIMAL; numbers are carried as
// float64 either way, matching the wire encoding.
type Literal struct {
	LineNo  int
	LitKind lexer.TokenKind
	Str     string
	Num     float64
}

// FieldDef is a field definition inside a CREATE action: name, optional
// type, optional constraint list.
type FieldDef struct {
	LineNo      int
	Name        *Identifier
	Type        string
	Constraints []*Constraint
}

// Constraint is a field-definition constraint; DefaultValue is set only for
// ConstraintDefault.
type Constraint struct {
	LineNo       int
	Type         ConstraintType
	DefaultValue Node
}

// FunctionCall is a call expression: name(args...).
type FunctionCall struct {
	LineNo int
	Name   string
	Args   []Node
}

// ErrorNode marks a position where parsing could not produce a real node.
type ErrorNode struct {
	LineNo  int
	Message string
}

// Program wraps zero or more statements.
type Program struct {
	LineNo     int
	Statements []Node
}

func (n *AskQuery) node()     {}
func (n *TellQuery) node()    {}
func (n *FindQuery) node()    {}
func (n *ShowQuery) node()    {}
func (n *GetQuery) node()     {}
func (n *FieldList) node()    {}
func (n *Source) node()       {}
func (n *Join) node()         {}
func (n *GroupBy) node()      {}
func (n *OrderBy) node()      {}
func (n *Limit) node()        {}
func (n *AddAction) node()    {}
func (n *RemoveAction) node() {}
func (n *UpdateAction) node() {}
func (n *CreateAction) node() {}
func (n *BinaryExpr) node()   {}
func (n *UnaryExpr) node()    {}
func (n *Identifier) node()   {}
func (n *Literal) node()      {}
func (n *FieldDef) node()     {}
func (n *Constraint) node()   {}
func (n *FunctionCall) node() {}
func (n *ErrorNode) node()    {}
func (n *Program) node()      {}

func (n *AskQuery) Kind() NodeType     { return NodeAskQuery }
func (n *TellQuery) Kind() NodeType    { return NodeTellQuery }
func (n *FindQuery) Kind() NodeType    { return NodeFindQuery }
func (n *ShowQuery) Kind() NodeType    { return NodeShowQuery }
func (n *GetQuery) Kind() NodeType     { return NodeGetQuery }
func (n *FieldList) Kind() NodeType    { return NodeFieldList }
func (n *Source) Kind() NodeType       { return NodeSource }
func (n *Join) Kind() NodeType         { return NodeJoin }
func (n *GroupBy) Kind() NodeType      { return NodeGroupBy }
func (n *OrderBy) Kind() NodeType      { return NodeOrderBy }
func (n *Limit) Kind() NodeType        { return NodeLimit }
func (n *AddAction) Kind() NodeType    { return NodeAddAction }
func (n *RemoveAction) Kind() NodeType { return NodeRemoveAction }
func (n *UpdateAction) Kind() NodeType { return NodeUpdateAction }
func (n *CreateAction) Kind() NodeType { return NodeCreateAction }
func (n *BinaryExpr) Kind() NodeType   { return NodeBinaryExpr }
func (n *UnaryExpr) Kind() NodeType    { return NodeUnaryExpr }
func (n *Identifier) Kind() NodeType   { return NodeIdentifier }
func (n *Literal) Kind() NodeType      { return NodeLiteral }
func (n *FieldDef) Kind() NodeType     { return NodeFieldDef }
func (n *Constraint) Kind() NodeType   { return NodeConstraint }
func (n *FunctionCall) Kind() NodeType { return NodeFunctionCall }
func (n *ErrorNode) Kind() NodeType    { return NodeError }
func (n *Program) Kind() NodeType      { return NodeProgram }

func (n *AskQuery) Line() int     { return n.LineNo }
func (n *TellQuery) Line() int    { return n.LineNo }
func (n *FindQuery) Line() int    { return n.LineNo }
func (n *ShowQuery) Line() int    { return n.LineNo }
func (n *GetQuery) Line() int     { return n.LineNo }
func (n *FieldList) Line() int    { return n.LineNo }
func (n *Source) Line() int       { return n.LineNo }
func (n *Join) Line() int         { return n.LineNo }
func (n *GroupBy) Line() int      { return n.LineNo }
func (n *OrderBy) Line() int      { return n.LineNo }
func (n *Limit) Line() int        { return n.LineNo }
func (n *AddAction) Line() int    { return n.LineNo }
func (n *RemoveAction) Line() int { return n.LineNo }
func (n *UpdateAction) Line() int { return n.LineNo }
func (n *CreateAction) Line() int { return n.LineNo }
func (n *BinaryExpr) Line() int   { return n.LineNo }
func (n *UnaryExpr) Line() int    { return n.LineNo }
func (n *Identifier) Line() int   { return n.LineNo }
func (n *Literal) Line() int      { return n.LineNo }
func (n *FieldDef) Line() int     { return n.LineNo }
func (n *Constraint) Line() int   { return n.LineNo }
func (n *FunctionCall) Line() int { return n.LineNo }
func (n *ErrorNode) Line() int    { return n.LineNo }
func (n *Program) Line() int      { return n.LineNo }
