package reverse

import (
	"fmt"
	"strconv"

	"github.com/pingcap/tidb/parser"
	tidbast "github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/mysql"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// FromSQL translates a single SQL statement into an NSQL tree: SELECT
// becomes ASK, INSERT/UPDATE/DELETE/CREATE TABLE become TELL actions.
func FromSQL(sql string) (ast.Node, error) {
	if sql == "" {
		return nil, ErrEmptyQuery
	}

	p := parser.New()
	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseError, err)
	}
	if len(stmts) == 0 {
		return nil, fmt.Errorf("%w: empty statement", ErrParseError)
	}

	switch stmt := stmts[0].(type) {
	case *tidbast.SelectStmt:
		return convertSelect(stmt)
	case *tidbast.InsertStmt:
		return convertInsert(stmt)
	case *tidbast.UpdateStmt:
		return convertUpdate(stmt)
	case *tidbast.DeleteStmt:
		return convertDelete(stmt)
	case *tidbast.CreateTableStmt:
		return convertCreateTable(stmt)
	default:
		return nil, fmt.Errorf("%w: %T", ErrNotSupported, stmts[0])
	}
}

// convertSelect maps SELECT onto ASK: the query form with an explicit
// projection over a relational source.
func convertSelect(stmt *tidbast.SelectStmt) (ast.Node, error) {
	node := &ast.AskQuery{LineNo: 1}

	if stmt.From != nil {
		node.Source = &ast.Source{
			LineNo:     1,
			Identifier: &ast.Identifier{LineNo: 1, Name: tableName(stmt.From.TableRefs)},
		}
	}

	node.Fields = &ast.FieldList{LineNo: 1}
	if stmt.Fields != nil {
		for _, f := range stmt.Fields.Fields {
			switch {
			case f.WildCard != nil:
				node.Fields.Fields = append(node.Fields.Fields,
					&ast.Identifier{LineNo: 1, Name: "*"})
			case f.Expr != nil:
				if col, ok := f.Expr.(*tidbast.ColumnNameExpr); ok {
					node.Fields.Fields = append(node.Fields.Fields,
						&ast.Identifier{LineNo: 1, Name: col.Name.Name.O})
				} else {
					return nil, fmt.Errorf("%w: computed select column", ErrNotSupported)
				}
			}
		}
	}

	if stmt.Where != nil {
		cond, err := convertExpr(stmt.Where)
		if err != nil {
			return nil, err
		}
		node.Condition = cond
	}

	if stmt.GroupBy != nil {
		groupBy := &ast.GroupBy{LineNo: 1, Fields: &ast.FieldList{LineNo: 1}}
		for _, item := range stmt.GroupBy.Items {
			col, ok := item.Expr.(*tidbast.ColumnNameExpr)
			if !ok {
				return nil, fmt.Errorf("%w: computed GROUP BY expression", ErrNotSupported)
			}
			groupBy.Fields.Fields = append(groupBy.Fields.Fields,
				&ast.Identifier{LineNo: 1, Name: col.Name.Name.O})
		}
		if stmt.Having != nil {
			having, err := convertExpr(stmt.Having.Expr)
			if err != nil {
				return nil, err
			}
			groupBy.Having = having
		}
		node.GroupBy = groupBy
	}

	if stmt.OrderBy != nil {
		orderBy := &ast.OrderBy{LineNo: 1}
		for _, item := range stmt.OrderBy.Items {
			col, ok := item.Expr.(*tidbast.ColumnNameExpr)
			if !ok {
				return nil, fmt.Errorf("%w: computed ORDER BY expression", ErrNotSupported)
			}
			orderBy.Fields = append(orderBy.Fields,
				&ast.Identifier{LineNo: 1, Name: col.Name.Name.O})
			orderBy.Ascending = append(orderBy.Ascending, !item.Desc)
		}
		node.OrderBy = orderBy
	}

	if stmt.Limit != nil {
		limit := &ast.Limit{LineNo: 1}
		if v, ok := stmt.Limit.Count.(*test_driver.ValueExpr); ok {
			limit.Count = int(v.GetInt64())
		}
		if stmt.Limit.Offset != nil {
			if v, ok := stmt.Limit.Offset.(*test_driver.ValueExpr); ok {
				limit.Offset = int(v.GetInt64())
			}
		}
		node.Limit = limit
	}

	return node, nil
}

// convertInsert maps single-row INSERT onto TELL ... TO ADD value WITH
// columns.
func convertInsert(stmt *tidbast.InsertStmt) (ast.Node, error) {
	if len(stmt.Lists) != 1 {
		return nil, fmt.Errorf("%w: multi-row INSERT", ErrNotSupported)
	}

	node := &ast.TellQuery{
		LineNo: 1,
		Source: &ast.Source{
			LineNo:     1,
			Identifier: &ast.Identifier{LineNo: 1, Name: tableName(stmt.Table.TableRefs)},
		},
	}

	values := stmt.Lists[0]
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: INSERT without values", ErrParseError)
	}

	// NSQL's ADD carries one value expression; multi-column inserts with
	// assignable columns map onto UPDATE-style pairs instead.
	if len(values) > 1 {
		if len(stmt.Columns) != len(values) {
			return nil, fmt.Errorf("%w: multi-column INSERT without column list", ErrNotSupported)
		}
		action := &ast.UpdateAction{LineNo: 1}
		for i, col := range stmt.Columns {
			value, err := convertExpr(values[i])
			if err != nil {
				return nil, err
			}
			action.Fields = append(action.Fields, &ast.Identifier{LineNo: 1, Name: col.Name.O})
			action.Values = append(action.Values, value)
		}
		node.Action = action
		return node, nil
	}

	value, err := convertExpr(values[0])
	if err != nil {
		return nil, err
	}
	action := &ast.AddAction{LineNo: 1, Value: value}
	if len(stmt.Columns) > 0 {
		spec := &ast.FieldList{LineNo: 1}
		for _, col := range stmt.Columns {
			spec.Fields = append(spec.Fields, &ast.Identifier{LineNo: 1, Name: col.Name.O})
		}
		action.RecordSpec = spec
	}
	node.Action = action
	return node, nil
}

func convertUpdate(stmt *tidbast.UpdateStmt) (ast.Node, error) {
	node := &ast.TellQuery{
		LineNo: 1,
		Source: &ast.Source{
			LineNo:     1,
			Identifier: &ast.Identifier{LineNo: 1, Name: tableName(stmt.TableRefs.TableRefs)},
		},
	}

	action := &ast.UpdateAction{LineNo: 1}
	for _, assign := range stmt.List {
		value, err := convertExpr(assign.Expr)
		if err != nil {
			return nil, err
		}
		action.Fields = append(action.Fields, &ast.Identifier{LineNo: 1, Name: assign.Column.Name.O})
		action.Values = append(action.Values, value)
	}
	node.Action = action

	if stmt.Where != nil {
		cond, err := convertExpr(stmt.Where)
		if err != nil {
			return nil, err
		}
		node.Condition = cond
	}

	return node, nil
}

func convertDelete(stmt *tidbast.DeleteStmt) (ast.Node, error) {
	node := &ast.TellQuery{
		LineNo: 1,
		Source: &ast.Source{
			LineNo:     1,
			Identifier: &ast.Identifier{LineNo: 1, Name: tableName(stmt.TableRefs.TableRefs)},
		},
	}

	action := &ast.RemoveAction{LineNo: 1}
	if stmt.Where != nil {
		cond, err := convertExpr(stmt.Where)
		if err != nil {
			return nil, err
		}
		action.Condition = cond
	}
	node.Action = action

	return node, nil
}

func convertCreateTable(stmt *tidbast.CreateTableStmt) (ast.Node, error) {
	node := &ast.TellQuery{
		LineNo: 1,
		Source: &ast.Source{
			LineNo:     1,
			Identifier: &ast.Identifier{LineNo: 1, Name: stmt.Table.Name.O},
		},
	}

	action := &ast.CreateAction{LineNo: 1}
	for _, col := range stmt.Cols {
		fd := &ast.FieldDef{
			LineNo: 1,
			Name:   &ast.Identifier{LineNo: 1, Name: col.Name.Name.O},
			Type:   nsqlType(col.Tp.GetType()),
		}
		for _, opt := range col.Options {
			switch opt.Tp {
			case tidbast.ColumnOptionNotNull:
				fd.Constraints = append(fd.Constraints,
					&ast.Constraint{LineNo: 1, Type: ast.ConstraintRequired})
			case tidbast.ColumnOptionUniqKey:
				fd.Constraints = append(fd.Constraints,
					&ast.Constraint{LineNo: 1, Type: ast.ConstraintUnique})
			case tidbast.ColumnOptionDefaultValue:
				value, err := convertExpr(opt.Expr)
				if err != nil {
					return nil, err
				}
				fd.Constraints = append(fd.Constraints,
					&ast.Constraint{LineNo: 1, Type: ast.ConstraintDefault, DefaultValue: value})
			}
		}
		action.FieldDefs = append(action.FieldDefs, fd)
	}
	node.Action = action

	return node, nil
}

// nsqlType maps MySQL column types onto NSQL's small type vocabulary.
func nsqlType(tp byte) string {
	switch tp {
	case mysql.TypeTiny, mysql.TypeShort, mysql.TypeInt24, mysql.TypeLong, mysql.TypeLonglong:
		return "INTEGER"
	case mysql.TypeFloat, mysql.TypeDouble, mysql.TypeNewDecimal:
		return "DECIMAL"
	case mysql.TypeDate:
		return "DATE"
	case mysql.TypeDatetime, mysql.TypeTimestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}

func tableName(refs *tidbast.Join) string {
	if refs == nil {
		return ""
	}
	if source, ok := refs.Left.(*tidbast.TableSource); ok {
		if table, ok := source.Source.(*tidbast.TableName); ok {
			return table.Name.O
		}
	}
	return ""
}

// convertExpr maps a SQL expression onto the NSQL expression grammar.
func convertExpr(expr tidbast.ExprNode) (ast.Node, error) {
	switch e := expr.(type) {
	case *tidbast.ColumnNameExpr:
		return &ast.Identifier{LineNo: 1, Name: e.Name.Name.O}, nil

	case *test_driver.ValueExpr:
		return convertValue(e)

	case *tidbast.BinaryOperationExpr:
		op, ok := nsqlOperator(e.Op)
		if !ok {
			return nil, fmt.Errorf("%w: operator %s", ErrNotSupported, e.Op)
		}
		left, err := convertExpr(e.L)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(e.R)
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{LineNo: 1, Op: op, Left: left, Right: right}, nil

	case *tidbast.UnaryOperationExpr:
		operand, err := convertExpr(e.V)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case opcode.Minus:
			return &ast.UnaryExpr{LineNo: 1, Op: lexer.TOKEN_MINUS, Operand: operand}, nil
		case opcode.Not:
			return &ast.UnaryExpr{LineNo: 1, Op: lexer.TOKEN_NOT, Operand: operand}, nil
		}
		return nil, fmt.Errorf("%w: unary operator %s", ErrNotSupported, e.Op)

	case *tidbast.PatternLikeOrIlikeExpr:
		left, err := convertExpr(e.Expr)
		if err != nil {
			return nil, err
		}
		right, err := convertExpr(e.Pattern)
		if err != nil {
			return nil, err
		}
		like := &ast.BinaryExpr{LineNo: 1, Op: lexer.TOKEN_LIKE, Left: left, Right: right}
		if e.Not {
			return &ast.UnaryExpr{LineNo: 1, Op: lexer.TOKEN_NOT, Operand: like}, nil
		}
		return like, nil

	case *tidbast.ParenthesesExpr:
		return convertExpr(e.Expr)

	case *tidbast.FuncCallExpr:
		call := &ast.FunctionCall{LineNo: 1, Name: e.FnName.O}
		for _, arg := range e.Args {
			converted, err := convertExpr(arg)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, converted)
		}
		return call, nil
	}

	return nil, fmt.Errorf("%w: expression %T", ErrNotSupported, expr)
}

func convertValue(v *test_driver.ValueExpr) (ast.Node, error) {
	switch value := v.GetValue().(type) {
	case int64:
		return &ast.Literal{LineNo: 1, LitKind: lexer.TOKEN_INTEGER, Num: float64(value)}, nil
	case uint64:
		return &ast.Literal{LineNo: 1, LitKind: lexer.TOKEN_INTEGER, Num: float64(value)}, nil
	case float64:
		return &ast.Literal{LineNo: 1, LitKind: lexer.TOKEN_DECIMAL, Num: value}, nil
	case string:
		return &ast.Literal{LineNo: 1, LitKind: lexer.TOKEN_STRING, Str: value}, nil
	case *test_driver.MyDecimal:
		f, err := strconv.ParseFloat(value.String(), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParseError, err)
		}
		return &ast.Literal{LineNo: 1, LitKind: lexer.TOKEN_DECIMAL, Num: f}, nil
	}
	return nil, fmt.Errorf("%w: literal %T", ErrNotSupported, v.GetValue())
}

func nsqlOperator(op opcode.Op) (lexer.TokenKind, bool) {
	switch op {
	case opcode.EQ:
		return lexer.TOKEN_EQUAL, true
	case opcode.NE:
		return lexer.TOKEN_NEQ, true
	case opcode.LT:
		return lexer.TOKEN_LT, true
	case opcode.LE:
		return lexer.TOKEN_LTE, true
	case opcode.GT:
		return lexer.TOKEN_GT, true
	case opcode.GE:
		return lexer.TOKEN_GTE, true
	case opcode.LogicAnd:
		return lexer.TOKEN_AND, true
	case opcode.LogicOr:
		return lexer.TOKEN_OR, true
	case opcode.Plus:
		return lexer.TOKEN_PLUS, true
	case opcode.Minus:
		return lexer.TOKEN_MINUS, true
	case opcode.Mul:
		return lexer.TOKEN_STAR, true
	case opcode.Div:
		return lexer.TOKEN_SLASH, true
	case opcode.Mod:
		return lexer.TOKEN_PERCENT, true
	}
	return 0, false
}
