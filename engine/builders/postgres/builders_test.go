package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/parser"
	"github.com/nsql-lang/nsql/engine/report"
)

func mustParse(t *testing.T, source string) ast.Node {
	t.Helper()
	diags := &report.Context{}
	p := parser.New(lexer.New(source), diags, parser.RecoverStatement)
	node := p.ParseQuery()
	require.False(t, diags.HasError, "parse diagnostics: %s", diags.Format())
	require.NotNil(t, node)
	return node
}

func build(t *testing.T, source string) *Statement {
	t.Helper()
	stmt, err := BuildQuery(mustParse(t, source))
	require.NoError(t, err)
	return stmt
}

func TestTableName(t *testing.T) {
	src := &ast.Source{Identifier: &ast.Identifier{Name: "User"}}
	assert.Equal(t, "users", TableName(src))
	assert.Equal(t, "", TableName(nil))
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name   string
		source string
		sql    string
		args   []any
	}{
		{
			"plain projection",
			`ASK user FOR name, email`,
			"SELECT name, email FROM users",
			nil,
		},
		{
			"condition becomes parameterized WHERE",
			`ASK user FOR name WHEN age > 30`,
			"SELECT name FROM users WHERE (age > $1)",
			[]any{int64(30)},
		},
		{
			"nested condition",
			`ASK user FOR name WHEN age > 18 AND name = "bob"`,
			"SELECT name FROM users WHERE ((age > $1) AND (name = $2))",
			[]any{int64(18), "bob"},
		},
		{
			"group by with having",
			`ASK order FOR region GROUP BY region HAVING sum(total) > 1000`,
			"SELECT region FROM orders GROUP BY region HAVING (sum(total) > $1)",
			[]any{int64(1000)},
		},
		{
			"order and limit",
			`ASK user FOR name ORDER BY name DESC, age ASC LIMIT 10 OFFSET 20`,
			"SELECT name FROM users ORDER BY name DESC, age ASC LIMIT 10 OFFSET 20",
			nil,
		},
		{
			"join",
			`ASK user AND order WHEN user_id = id FOR name`,
			"SELECT name FROM users JOIN orders ON (user_id = id)",
			nil,
		},
		{
			"not-equal spells SQL",
			`ASK user FOR name WHEN status != "gone"`,
			"SELECT name FROM users WHERE (status <> $1)",
			[]any{"gone"},
		},
		{
			"find lowers to select star",
			`FIND user THAT age > 30`,
			"SELECT * FROM users WHERE (age > $1)",
			[]any{int64(30)},
		},
		{
			"show lowers to select",
			`SHOW name FROM user`,
			"SELECT name FROM users",
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := build(t, tt.source)
			assert.Equal(t, tt.sql, stmt.SQL)
			assert.Equal(t, tt.args, stmt.Args)
		})
	}
}

func TestInsert(t *testing.T) {
	t.Run("with record spec", func(t *testing.T) {
		stmt := build(t, `TELL user TO ADD "alice" WITH name`)
		assert.Equal(t, "INSERT INTO users (name) VALUES ($1)", stmt.SQL)
		assert.Equal(t, []any{"alice"}, stmt.Args)
	})

	t.Run("without record spec", func(t *testing.T) {
		stmt := build(t, `TELL user TO ADD 42`)
		assert.Equal(t, "INSERT INTO users VALUES ($1)", stmt.SQL)
		assert.Equal(t, []any{int64(42)}, stmt.Args)
	})
}

func TestDelete(t *testing.T) {
	t.Run("remove all", func(t *testing.T) {
		stmt := build(t, `TELL user TO REMOVE`)
		assert.Equal(t, "DELETE FROM users", stmt.SQL)
		assert.Empty(t, stmt.Args)
	})

	t.Run("with condition", func(t *testing.T) {
		stmt := build(t, `TELL user TO REMOVE WHEN age > 90`)
		assert.Equal(t, "DELETE FROM users WHERE (age > $1)", stmt.SQL)
		assert.Equal(t, []any{int64(90)}, stmt.Args)
	})
}

func TestUpdate(t *testing.T) {
	stmt := build(t, `TELL user TO UPDATE name = "bob", age = 42 WHEN id = 7`)
	assert.Equal(t, "UPDATE users SET name = $1, age = $2 WHERE (id = $3)", stmt.SQL)
	assert.Equal(t, []any{"bob", int64(42), int64(7)}, stmt.Args)
}

func TestCreateTable(t *testing.T) {
	stmt := build(t, `TELL user TO CREATE id AS integer (REQUIRED, UNIQUE), name AS text, score AS decimal (DEFAULT 1.5)`)
	assert.Equal(t,
		"CREATE TABLE users (id INTEGER NOT NULL UNIQUE, name TEXT, score DOUBLE PRECISION DEFAULT 1.5)",
		stmt.SQL)
	assert.Empty(t, stmt.Args)
}

func TestCreateTableStringDefault(t *testing.T) {
	stmt := build(t, `TELL user TO CREATE role AS text (DEFAULT "guest")`)
	assert.Equal(t, "CREATE TABLE users (role TEXT DEFAULT 'guest')", stmt.SQL)
}

func TestSQLType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "TEXT"},
		{"text", "TEXT"},
		{"string", "TEXT"},
		{"integer", "INTEGER"},
		{"number", "INTEGER"},
		{"decimal", "DOUBLE PRECISION"},
		{"boolean", "BOOLEAN"},
		{"timestamp", "TIMESTAMP"},
		{"uuid", "UUID"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sqlType(tt.in))
	}
}

func TestTellWithoutActionFails(t *testing.T) {
	_, err := BuildQuery(&ast.TellQuery{
		Source: &ast.Source{Identifier: &ast.Identifier{Name: "users"}},
	})
	assert.Error(t, err)
}
