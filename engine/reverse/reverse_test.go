package reverse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
)

func fromSQL(t *testing.T, sql string) ast.Node {
	t.Helper()
	node, err := FromSQL(sql)
	require.NoError(t, err)
	require.NotNil(t, node)
	return node
}

func TestFromSQLErrors(t *testing.T) {
	_, err := FromSQL("")
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = FromSQL("SELEKT * FORM users")
	assert.ErrorIs(t, err, ErrParseError)

	_, err = FromSQL("DROP TABLE users")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestSelectBecomesAsk(t *testing.T) {
	q := fromSQL(t, "SELECT name, email FROM users WHERE age > 30").(*ast.AskQuery)

	require.NotNil(t, q.Source)
	assert.Equal(t, "users", q.Source.Identifier.Name)

	require.NotNil(t, q.Fields)
	require.Len(t, q.Fields.Fields, 2)
	assert.Equal(t, "name", q.Fields.Fields[0].Name)
	assert.Equal(t, "email", q.Fields.Fields[1].Name)

	cond := q.Condition.(*ast.BinaryExpr)
	assert.Equal(t, lexer.TOKEN_GT, cond.Op)
	assert.Equal(t, "age", cond.Left.(*ast.Identifier).Name)
	lit := cond.Right.(*ast.Literal)
	assert.Equal(t, lexer.TOKEN_INTEGER, lit.LitKind)
	assert.Equal(t, float64(30), lit.Num)
}

func TestSelectWildcard(t *testing.T) {
	q := fromSQL(t, "SELECT * FROM users").(*ast.AskQuery)
	require.Len(t, q.Fields.Fields, 1)
	assert.Equal(t, "*", q.Fields.Fields[0].Name)
	assert.Nil(t, q.Condition)
}

func TestSelectClauses(t *testing.T) {
	q := fromSQL(t,
		"SELECT region FROM orders GROUP BY region HAVING count(id) > 5 "+
			"ORDER BY region DESC LIMIT 10 OFFSET 20").(*ast.AskQuery)

	require.NotNil(t, q.GroupBy)
	require.Len(t, q.GroupBy.Fields.Fields, 1)
	assert.Equal(t, "region", q.GroupBy.Fields.Fields[0].Name)

	having := q.GroupBy.Having.(*ast.BinaryExpr)
	call := having.Left.(*ast.FunctionCall)
	assert.Equal(t, "count", call.Name)
	require.Len(t, call.Args, 1)

	require.NotNil(t, q.OrderBy)
	require.Len(t, q.OrderBy.Fields, 1)
	assert.Equal(t, "region", q.OrderBy.Fields[0].Name)
	assert.Equal(t, []bool{false}, q.OrderBy.Ascending)

	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, q.Limit.Count)
	assert.Equal(t, 20, q.Limit.Offset)
}

func TestSelectComputedColumnUnsupported(t *testing.T) {
	_, err := FromSQL("SELECT age + 1 FROM users")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestInsertBecomesAdd(t *testing.T) {
	q := fromSQL(t, "INSERT INTO users (name) VALUES ('alice')").(*ast.TellQuery)
	assert.Equal(t, "users", q.Source.Identifier.Name)

	add := q.Action.(*ast.AddAction)
	lit := add.Value.(*ast.Literal)
	assert.Equal(t, lexer.TOKEN_STRING, lit.LitKind)
	assert.Equal(t, "alice", lit.Str)

	require.NotNil(t, add.RecordSpec)
	require.Len(t, add.RecordSpec.Fields, 1)
	assert.Equal(t, "name", add.RecordSpec.Fields[0].Name)
}

func TestInsertMultiColumnBecomesPairs(t *testing.T) {
	q := fromSQL(t, "INSERT INTO users (name, age) VALUES ('bob', 42)").(*ast.TellQuery)

	up := q.Action.(*ast.UpdateAction)
	require.Len(t, up.Fields, 2)
	assert.Equal(t, "name", up.Fields[0].Name)
	assert.Equal(t, "age", up.Fields[1].Name)
	assert.Equal(t, "bob", up.Values[0].(*ast.Literal).Str)
	assert.Equal(t, float64(42), up.Values[1].(*ast.Literal).Num)
}

func TestInsertMultiRowUnsupported(t *testing.T) {
	_, err := FromSQL("INSERT INTO users (name) VALUES ('a'), ('b')")
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestUpdateBecomesTellUpdate(t *testing.T) {
	q := fromSQL(t, "UPDATE users SET name = 'bob', age = 42 WHERE id = 7").(*ast.TellQuery)
	assert.Equal(t, "users", q.Source.Identifier.Name)

	up := q.Action.(*ast.UpdateAction)
	require.Len(t, up.Fields, 2)
	assert.Equal(t, "name", up.Fields[0].Name)
	assert.Equal(t, "age", up.Fields[1].Name)

	cond := q.Condition.(*ast.BinaryExpr)
	assert.Equal(t, lexer.TOKEN_EQUAL, cond.Op)
	assert.Equal(t, "id", cond.Left.(*ast.Identifier).Name)
}

func TestDeleteBecomesRemove(t *testing.T) {
	t.Run("with condition", func(t *testing.T) {
		q := fromSQL(t, "DELETE FROM users WHERE age > 90").(*ast.TellQuery)
		rm := q.Action.(*ast.RemoveAction)
		require.NotNil(t, rm.Condition)
		assert.Equal(t, lexer.TOKEN_GT, rm.Condition.(*ast.BinaryExpr).Op)
	})

	t.Run("remove all", func(t *testing.T) {
		q := fromSQL(t, "DELETE FROM users").(*ast.TellQuery)
		rm := q.Action.(*ast.RemoveAction)
		assert.Nil(t, rm.Condition)
	})
}

func TestCreateTableBecomesCreate(t *testing.T) {
	q := fromSQL(t,
		"CREATE TABLE users (id INT NOT NULL UNIQUE, name VARCHAR(64), "+
			"score DOUBLE DEFAULT 1.5, created TIMESTAMP)").(*ast.TellQuery)
	assert.Equal(t, "users", q.Source.Identifier.Name)

	create := q.Action.(*ast.CreateAction)
	require.Len(t, create.FieldDefs, 4)

	id := create.FieldDefs[0]
	assert.Equal(t, "id", id.Name.Name)
	assert.Equal(t, "INTEGER", id.Type)
	require.Len(t, id.Constraints, 2)
	assert.Equal(t, ast.ConstraintRequired, id.Constraints[0].Type)
	assert.Equal(t, ast.ConstraintUnique, id.Constraints[1].Type)

	assert.Equal(t, "TEXT", create.FieldDefs[1].Type)

	score := create.FieldDefs[2]
	assert.Equal(t, "DECIMAL", score.Type)
	require.Len(t, score.Constraints, 1)
	assert.Equal(t, ast.ConstraintDefault, score.Constraints[0].Type)
	def := score.Constraints[0].DefaultValue.(*ast.Literal)
	assert.Equal(t, 1.5, def.Num)

	assert.Equal(t, "TIMESTAMP", create.FieldDefs[3].Type)
}

func TestExpressionConversions(t *testing.T) {
	t.Run("boolean operators", func(t *testing.T) {
		q := fromSQL(t, "SELECT name FROM users WHERE age > 18 AND age < 65").(*ast.AskQuery)
		cond := q.Condition.(*ast.BinaryExpr)
		assert.Equal(t, lexer.TOKEN_AND, cond.Op)
		assert.Equal(t, lexer.TOKEN_GT, cond.Left.(*ast.BinaryExpr).Op)
		assert.Equal(t, lexer.TOKEN_LT, cond.Right.(*ast.BinaryExpr).Op)
	})

	t.Run("like", func(t *testing.T) {
		q := fromSQL(t, "SELECT name FROM users WHERE name LIKE 'A%'").(*ast.AskQuery)
		cond := q.Condition.(*ast.BinaryExpr)
		assert.Equal(t, lexer.TOKEN_LIKE, cond.Op)
		assert.Equal(t, "A%", cond.Right.(*ast.Literal).Str)
	})

	t.Run("not like", func(t *testing.T) {
		q := fromSQL(t, "SELECT name FROM users WHERE name NOT LIKE 'A%'").(*ast.AskQuery)
		not := q.Condition.(*ast.UnaryExpr)
		assert.Equal(t, lexer.TOKEN_NOT, not.Op)
		assert.Equal(t, lexer.TOKEN_LIKE, not.Operand.(*ast.BinaryExpr).Op)
	})

	t.Run("unary minus", func(t *testing.T) {
		q := fromSQL(t, "SELECT name FROM users WHERE balance < -100").(*ast.AskQuery)
		cond := q.Condition.(*ast.BinaryExpr)
		neg := cond.Right.(*ast.UnaryExpr)
		assert.Equal(t, lexer.TOKEN_MINUS, neg.Op)
		assert.Equal(t, float64(100), neg.Operand.(*ast.Literal).Num)
	})

	t.Run("parentheses are transparent", func(t *testing.T) {
		q := fromSQL(t, "SELECT name FROM users WHERE (age > 30)").(*ast.AskQuery)
		_, ok := q.Condition.(*ast.BinaryExpr)
		assert.True(t, ok)
	})
}
