package nsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/parser"
	"github.com/nsql-lang/nsql/mapping"
)

func TestParse(t *testing.T) {
	node, diags := Parse("ASK users FOR name, email WHEN age > 30")
	require.NotNil(t, node)
	assert.False(t, diags.HasError)

	q, ok := node.(*ast.AskQuery)
	require.True(t, ok)
	assert.Equal(t, "users", q.Source.Identifier.Name)
}

func TestParsePartialResult(t *testing.T) {
	// A missing clause still yields a node; errors live in the context.
	node, diags := Parse("ASK users name")
	assert.NotNil(t, node)
	assert.True(t, diags.HasError)
	assert.Equal(t, 1, diags.ErrorCount)
}

func TestParseWithPolicy(t *testing.T) {
	// Reset recovery keeps parsing in place instead of skipping to the
	// next statement; the diagnostic is still recorded.
	node, diags := ParseWithPolicy("ASK users name", parser.RecoverReset)
	assert.NotNil(t, node)
	assert.Equal(t, 1, diags.ErrorCount)
}

func TestParseProgram(t *testing.T) {
	program, diags := ParseProgram("ASK a FOR x; GET y FROM b PLEASE FIND c")
	require.NotNil(t, program)
	assert.False(t, diags.HasError)
	assert.Len(t, program.Statements, 3)
}

func TestCompileDecompileRoundTrip(t *testing.T) {
	data, diags, err := Compile("FIND users THAT age > 30 LIMIT 10")
	require.NoError(t, err)
	assert.False(t, diags.HasError)
	assert.NotEmpty(t, data)

	node, meta, err := Decompile(data)
	require.NoError(t, err)

	q, ok := node.(*ast.FindQuery)
	require.True(t, ok)
	assert.Equal(t, "users", q.Source.Identifier.Name)
	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, q.Limit.Count)

	require.NotNil(t, meta)
	assert.Equal(t, mapping.EngineDocument, meta.Engine)
}

func TestCompileSyntaxError(t *testing.T) {
	data, diags, err := Compile("ASK users name")
	assert.ErrorIs(t, err, ErrParse)
	assert.Nil(t, data)
	assert.True(t, diags.HasError)
}

func TestDecompileRejectsGarbage(t *testing.T) {
	_, _, err := Decompile([]byte("not a record"))
	assert.Error(t, err)
}

func TestTranslateAuto(t *testing.T) {
	t.Run("find routes to document engine", func(t *testing.T) {
		node, diags := Parse("FIND users THAT age > 30")
		require.False(t, diags.HasError)

		tr, err := Translate(node, mapping.EngineAuto)
		require.NoError(t, err)
		assert.Equal(t, mapping.EngineDocument, tr.Engine)
		require.NotNil(t, tr.Mongo)
		assert.Nil(t, tr.SQL)
		assert.Equal(t, "users", tr.Mongo.Collection)
	})

	t.Run("ask routes to relational engine", func(t *testing.T) {
		node, diags := Parse("ASK user FOR name WHEN age > 30")
		require.False(t, diags.HasError)

		tr, err := Translate(node, mapping.EngineAuto)
		require.NoError(t, err)
		assert.Equal(t, mapping.EngineRelational, tr.Engine)
		require.NotNil(t, tr.SQL)
		assert.Nil(t, tr.Mongo)
		assert.Equal(t, "SELECT name FROM users WHERE (age > $1)", tr.SQL.SQL)
	})
}

func TestTranslateExplicitEngine(t *testing.T) {
	node, diags := Parse("SHOW name FROM user")
	require.False(t, diags.HasError)

	tr, err := Translate(node, mapping.EngineRelational)
	require.NoError(t, err)
	assert.Equal(t, "SELECT name FROM users", tr.SQL.SQL)

	tr, err = Translate(node, mapping.EngineDocument)
	require.NoError(t, err)
	assert.Equal(t, "users", tr.Mongo.Collection)
}
