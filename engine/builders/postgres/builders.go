// Package postgres lowers relational-engine queries (ASK, TELL) into
// parameterized PostgreSQL statements.
package postgres

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

// Statement is a SQL text plus its positional arguments ($1, $2, ...).
type Statement struct {
	SQL  string
	Args []any
}

// TableName maps a source to its table: lowercased and pluralized.
func TableName(source *ast.Source) string {
	if source == nil || source.Identifier == nil {
		return ""
	}
	name := source.Identifier.Name
	if name == "*" {
		return name
	}
	return inflection.Plural(strings.ToLower(name))
}

// BuildQuery lowers a query into a SQL statement. ASK becomes SELECT and
// the TELL actions become INSERT, DELETE, UPDATE or CREATE TABLE. SHOW and
// GET also lower to SELECT so the relational engine can serve them when
// routing overrides the heuristic.
func BuildQuery(node ast.Node) (*Statement, error) {
	switch n := node.(type) {
	case *ast.AskQuery:
		return buildSelect(n.Source, n.Fields, n.Condition, n.GroupBy, n.OrderBy, n.Limit)
	case *ast.ShowQuery:
		return buildSelect(n.Source, n.Fields, n.Condition, n.GroupBy, n.OrderBy, n.Limit)
	case *ast.GetQuery:
		return buildSelect(n.Source, n.Fields, n.Condition, n.GroupBy, n.OrderBy, n.Limit)
	case *ast.FindQuery:
		return buildSelect(n.Source, nil, n.Condition, n.GroupBy, n.OrderBy, n.Limit)
	case *ast.TellQuery:
		return buildTell(n)
	}
	return nil, fmt.Errorf("postgres: cannot build statement for %s", node.Kind())
}

func buildSelect(source *ast.Source, fields *ast.FieldList, condition ast.Node,
	groupBy *ast.GroupBy, orderBy *ast.OrderBy, limit *ast.Limit) (*Statement, error) {

	var b strings.Builder
	var args []any

	b.WriteString("SELECT ")
	b.WriteString(columnList(fields))
	b.WriteString(" FROM ")
	b.WriteString(TableName(source))

	if source != nil && source.Join != nil {
		join := source.Join
		b.WriteString(" JOIN ")
		b.WriteString(TableName(join.Source))
		b.WriteString(" ON ")
		onSQL, err := exprSQL(join.Condition, &args)
		if err != nil {
			return nil, err
		}
		b.WriteString(onSQL)
	}

	if condition != nil {
		whereSQL, err := exprSQL(condition, &args)
		if err != nil {
			return nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
	}

	if groupBy != nil {
		b.WriteString(" GROUP BY ")
		b.WriteString(columnList(groupBy.Fields))
		if groupBy.Having != nil {
			havingSQL, err := exprSQL(groupBy.Having, &args)
			if err != nil {
				return nil, err
			}
			b.WriteString(" HAVING ")
			b.WriteString(havingSQL)
		}
	}

	if orderBy != nil {
		b.WriteString(" ORDER BY ")
		parts := make([]string, 0, len(orderBy.Fields))
		for i, f := range orderBy.Fields {
			direction := "ASC"
			if i < len(orderBy.Ascending) && !orderBy.Ascending[i] {
				direction = "DESC"
			}
			parts = append(parts, f.Name+" "+direction)
		}
		b.WriteString(strings.Join(parts, ", "))
	}

	if limit != nil {
		fmt.Fprintf(&b, " LIMIT %d", limit.Count)
		if limit.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", limit.Offset)
		}
	}

	return &Statement{SQL: b.String(), Args: args}, nil
}

func columnList(fields *ast.FieldList) string {
	if fields == nil || len(fields.Fields) == 0 {
		return "*"
	}
	parts := make([]string, 0, len(fields.Fields))
	for _, f := range fields.Fields {
		parts = append(parts, f.Name)
	}
	return strings.Join(parts, ", ")
}

func buildTell(n *ast.TellQuery) (*Statement, error) {
	table := TableName(n.Source)

	switch action := n.Action.(type) {
	case *ast.AddAction:
		return buildInsert(table, action)
	case *ast.RemoveAction:
		return buildDelete(table, action, n.Condition)
	case *ast.UpdateAction:
		return buildUpdate(table, action, n.Condition)
	case *ast.CreateAction:
		return buildCreateTable(table, action)
	case nil:
		return nil, fmt.Errorf("postgres: TELL query has no action")
	}
	return nil, fmt.Errorf("postgres: unsupported TELL action %s", n.Action.Kind())
}

// buildInsert lowers TELL ... TO ADD value [WITH fields]. With a record
// spec the value goes into the first column; without one the value is
// inserted as the row's single positional value.
func buildInsert(table string, action *ast.AddAction) (*Statement, error) {
	var args []any
	valueSQL, err := exprSQL(action.Value, &args)
	if err != nil {
		return nil, err
	}

	if action.RecordSpec != nil && len(action.RecordSpec.Fields) > 0 {
		cols := columnList(action.RecordSpec)
		sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, cols, valueSQL)
		return &Statement{SQL: sql, Args: args}, nil
	}

	sql := fmt.Sprintf("INSERT INTO %s VALUES (%s)", table, valueSQL)
	return &Statement{SQL: sql, Args: args}, nil
}

func buildDelete(table string, action *ast.RemoveAction, condition ast.Node) (*Statement, error) {
	var args []any
	b := strings.Builder{}
	fmt.Fprintf(&b, "DELETE FROM %s", table)

	// A REMOVE may carry its own condition or inherit the query's.
	cond := action.Condition
	if cond == nil {
		cond = condition
	}
	if cond != nil {
		whereSQL, err := exprSQL(cond, &args)
		if err != nil {
			return nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
	}

	return &Statement{SQL: b.String(), Args: args}, nil
}

func buildUpdate(table string, action *ast.UpdateAction, condition ast.Node) (*Statement, error) {
	var args []any
	sets := make([]string, 0, len(action.Fields))
	for i, f := range action.Fields {
		if i >= len(action.Values) {
			break
		}
		valueSQL, err := exprSQL(action.Values[i], &args)
		if err != nil {
			return nil, err
		}
		sets = append(sets, f.Name+" = "+valueSQL)
	}

	b := strings.Builder{}
	fmt.Fprintf(&b, "UPDATE %s SET %s", table, strings.Join(sets, ", "))

	if condition != nil {
		whereSQL, err := exprSQL(condition, &args)
		if err != nil {
			return nil, err
		}
		b.WriteString(" WHERE ")
		b.WriteString(whereSQL)
	}

	return &Statement{SQL: b.String(), Args: args}, nil
}

func buildCreateTable(table string, action *ast.CreateAction) (*Statement, error) {
	cols := make([]string, 0, len(action.FieldDefs))
	for _, fd := range action.FieldDefs {
		col, err := columnDef(fd)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	sql := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(cols, ", "))
	return &Statement{SQL: sql}, nil
}

// columnDef renders one column definition, mapping NSQL field types and
// constraints onto their SQL spellings.
func columnDef(fd *ast.FieldDef) (string, error) {
	if fd.Name == nil {
		return "", fmt.Errorf("postgres: field definition without a name")
	}

	b := strings.Builder{}
	b.WriteString(fd.Name.Name)
	b.WriteString(" ")
	b.WriteString(sqlType(fd.Type))

	for _, c := range fd.Constraints {
		switch c.Type {
		case ast.ConstraintRequired:
			b.WriteString(" NOT NULL")
		case ast.ConstraintUnique:
			b.WriteString(" UNIQUE")
		case ast.ConstraintDefault:
			var args []any
			defSQL, err := exprSQL(c.DefaultValue, &args)
			if err != nil {
				return "", err
			}
			// DDL cannot take placeholders; inline the literal.
			for i, a := range args {
				placeholder := fmt.Sprintf("$%d", i+1)
				defSQL = strings.Replace(defSQL, placeholder, sqlLiteral(a), 1)
			}
			b.WriteString(" DEFAULT ")
			b.WriteString(defSQL)
		}
	}

	return b.String(), nil
}

func sqlType(t string) string {
	switch strings.ToUpper(t) {
	case "", "TEXT", "STRING":
		return "TEXT"
	case "NUMBER", "INTEGER", "INT":
		return "INTEGER"
	case "DECIMAL", "FLOAT":
		return "DOUBLE PRECISION"
	case "BOOL", "BOOLEAN":
		return "BOOLEAN"
	case "DATE":
		return "DATE"
	case "TIMESTAMP", "DATETIME":
		return "TIMESTAMP"
	default:
		return strings.ToUpper(t)
	}
}

func sqlLiteral(v any) string {
	switch v := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// exprSQL renders an expression, pushing literal values into args and
// emitting $n placeholders in their place.
func exprSQL(node ast.Node, args *[]any) (string, error) {
	switch n := node.(type) {
	case *ast.BinaryExpr:
		left, err := exprSQL(n.Left, args)
		if err != nil {
			return "", err
		}
		right, err := exprSQL(n.Right, args)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, sqlOperator(n.Op), right), nil

	case *ast.UnaryExpr:
		operand, err := exprSQL(n.Operand, args)
		if err != nil {
			return "", err
		}
		if n.Op == lexer.TOKEN_NOT {
			return "NOT " + operand, nil
		}
		return "-" + operand, nil

	case *ast.Identifier:
		return n.Name, nil

	case *ast.Literal:
		switch n.LitKind {
		case lexer.TOKEN_STRING:
			*args = append(*args, n.Str)
		case lexer.TOKEN_INTEGER:
			*args = append(*args, int64(n.Num))
		default:
			*args = append(*args, n.Num)
		}
		return fmt.Sprintf("$%d", len(*args)), nil

	case *ast.FunctionCall:
		parts := make([]string, 0, len(n.Args))
		for _, a := range n.Args {
			sql, err := exprSQL(a, args)
			if err != nil {
				return "", err
			}
			parts = append(parts, sql)
		}
		return fmt.Sprintf("%s(%s)", n.Name, strings.Join(parts, ", ")), nil

	case nil:
		return "", fmt.Errorf("postgres: empty expression")
	}

	return "", fmt.Errorf("postgres: unsupported expression node %s", node.Kind())
}

func sqlOperator(op lexer.TokenKind) string {
	switch op {
	case lexer.TOKEN_NEQ:
		return "<>"
	case lexer.TOKEN_LIKE:
		return "LIKE"
	default:
		return lexer.OperatorString(op)
	}
}
