package codec

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/parser"
	"github.com/nsql-lang/nsql/engine/report"
	"github.com/nsql-lang/nsql/mapping"
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

func roundTrip(t *testing.T, source string) (ast.Node, ast.Node, *ExecutionMetadata) {
	t.Helper()
	node := mustParse(t, source)
	meta := DeriveMetadata(node)

	data, err := Encode(node, &meta)
	require.NoError(t, err)

	rec, err := Decode(data)
	require.NoError(t, err)
	require.True(t, rec.Valid)

	decoded, decodedMeta, err := rec.DecodeTree()
	require.NoError(t, err)
	return node, decoded, decodedMeta
}

func TestRoundTripAsk(t *testing.T) {
	original, decoded, _ := roundTrip(t,
		`ASK users AND orders WHEN user_id = id FOR name, email WHEN age >= 21 GROUP BY city HAVING count(id) > 5 ORDER BY name DESC, age ASC LIMIT 10 OFFSET 5`)

	want := original.(*ast.AskQuery)
	got, ok := decoded.(*ast.AskQuery)
	require.True(t, ok)

	assert.Equal(t, want.LineNo, got.LineNo)
	assert.Equal(t, "users", got.Source.Identifier.Name)
	require.NotNil(t, got.Source.Join)
	assert.Equal(t, "orders", got.Source.Join.Source.Identifier.Name)

	require.Len(t, got.Fields.Fields, 2)
	assert.Equal(t, "email", got.Fields.Fields[1].Name)

	cond, ok := got.Condition.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, lexer.TOKEN_GTE, cond.Op)

	require.NotNil(t, got.GroupBy)
	having, ok := got.GroupBy.Having.(*ast.BinaryExpr)
	require.True(t, ok)
	call, ok := having.Left.(*ast.FunctionCall)
	require.True(t, ok)
	assert.Equal(t, "count", call.Name)

	require.NotNil(t, got.OrderBy)
	assert.Equal(t, []bool{false, true}, got.OrderBy.Ascending)

	require.NotNil(t, got.Limit)
	assert.Equal(t, 10, got.Limit.Count)
	assert.Equal(t, 5, got.Limit.Offset)
}

func TestRoundTripTellActions(t *testing.T) {
	t.Run("add", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `TELL users TO ADD "alice" WITH name, email`)
		tell := decoded.(*ast.TellQuery)
		add, ok := tell.Action.(*ast.AddAction)
		require.True(t, ok)
		lit := add.Value.(*ast.Literal)
		assert.Equal(t, lexer.TOKEN_STRING, lit.LitKind)
		assert.Equal(t, "alice", lit.Str)
		require.NotNil(t, add.RecordSpec)
	})

	t.Run("remove without condition", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `TELL users TO REMOVE`)
		tell := decoded.(*ast.TellQuery)
		rm := tell.Action.(*ast.RemoveAction)
		assert.Nil(t, rm.Condition)
	})

	t.Run("update", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `TELL users TO UPDATE name = "bob", age = 42`)
		tell := decoded.(*ast.TellQuery)
		up := tell.Action.(*ast.UpdateAction)
		require.Len(t, up.Fields, 2)
		require.Len(t, up.Values, 2)
		assert.Equal(t, "age", up.Fields[1].Name)
	})

	t.Run("create with constraints", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `TELL users TO CREATE id AS integer (REQUIRED, UNIQUE), age AS integer (DEFAULT 18)`)
		tell := decoded.(*ast.TellQuery)
		create := tell.Action.(*ast.CreateAction)
		require.Len(t, create.FieldDefs, 2)
		assert.Equal(t, "integer", create.FieldDefs[0].Type)
		require.Len(t, create.FieldDefs[1].Constraints, 1)
		c := create.FieldDefs[1].Constraints[0]
		assert.Equal(t, ast.ConstraintDefault, c.Type)
		def := c.DefaultValue.(*ast.Literal)
		assert.Equal(t, float64(18), def.Num)
	})
}

func TestRoundTripFindShowGet(t *testing.T) {
	t.Run("find", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `FIND users THAT NOT banned LIMIT 3`)
		find := decoded.(*ast.FindQuery)
		not, ok := find.Condition.(*ast.UnaryExpr)
		require.True(t, ok)
		assert.Equal(t, lexer.TOKEN_NOT, not.Op)
	})

	t.Run("show", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `SHOW ME name FROM users`)
		show := decoded.(*ast.ShowQuery)
		assert.Equal(t, "users", show.Source.Identifier.Name)
	})

	t.Run("get", func(t *testing.T) {
		_, decoded, _ := roundTrip(t, `GET name, email FROM users WHERE id = 1`)
		get := decoded.(*ast.GetQuery)
		require.Len(t, get.Fields.Fields, 2)
		require.NotNil(t, get.Condition)
	})
}

func TestRoundTripMetadata(t *testing.T) {
	node := mustParse(t, `ASK users FOR name`)
	meta := ExecutionMetadata{
		Hints:         mapping.HintParallel | mapping.HintCacheResult,
		Priority:      200,
		Engine:        mapping.EngineDocument,
		EstimatedRows: 4242,
		TimeoutMS:     1500,
		TargetIndex:   "users_by_name",
	}

	data, err := Encode(node, &meta)
	require.NoError(t, err)

	rec, err := Decode(data)
	require.NoError(t, err)

	got, err := rec.ExtractMetadata()
	require.NoError(t, err)
	assert.Equal(t, meta, *got)
}

func TestEncodeNilMetadataWritesDefaults(t *testing.T) {
	node := mustParse(t, `GET name FROM users`)
	data, err := Encode(node, nil)
	require.NoError(t, err)

	rec, err := Decode(data)
	require.NoError(t, err)
	meta, err := rec.ExtractMetadata()
	require.NoError(t, err)
	assert.Equal(t, DefaultMetadata(), *meta)
}

func TestEncodeRejectsNilAndProgram(t *testing.T) {
	_, err := Encode(nil, nil)
	assert.ErrorIs(t, err, ErrNotEncodable)

	_, err = Encode(&ast.Program{}, nil)
	assert.ErrorIs(t, err, ErrNotEncodable)
}

func TestHeaderLayout(t *testing.T) {
	node := mustParse(t, `GET name FROM users`)
	data, err := Encode(node, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), HeaderSize)

	assert.Equal(t, Magic, binary.LittleEndian.Uint32(data[0:]))
	assert.Equal(t, Version, binary.LittleEndian.Uint32(data[4:]))

	size := binary.LittleEndian.Uint32(data[12:])
	assert.Equal(t, len(data)-HeaderSize, int(size))
	// No compression: original size equals payload size.
	assert.Equal(t, size, binary.LittleEndian.Uint32(data[16:]))
}

func TestDecodeErrors(t *testing.T) {
	node := mustParse(t, `GET name FROM users`)
	good, err := Encode(node, nil)
	require.NoError(t, err)

	t.Run("too short", func(t *testing.T) {
		_, err := Decode(good[:HeaderSize-1])
		assert.ErrorIs(t, err, ErrTooShort)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		bad[0] ^= 0xFF
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrBadMagic)
	})

	t.Run("newer version", func(t *testing.T) {
		bad := append([]byte(nil), good...)
		binary.LittleEndian.PutUint32(bad[4:], Version+1)
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrVersion)
	})

	t.Run("size mismatch", func(t *testing.T) {
		_, err := Decode(good[:len(good)-1])
		assert.ErrorIs(t, err, ErrSizeMismatch)
	})
}

func TestChecksumMismatchKeepsPayloadInspectable(t *testing.T) {
	node := mustParse(t, `GET name FROM users`)
	data, err := Encode(node, nil)
	require.NoError(t, err)

	// Flip one payload byte; header stays intact.
	data[len(data)-1] ^= 0x01

	rec, err := Decode(data)
	require.NoError(t, err)
	assert.False(t, rec.Valid)
	assert.NotEqual(t, rec.Stored, rec.Computed)
	assert.False(t, rec.Verify())
	assert.NotEmpty(t, rec.Payload)

	_, _, err = rec.DecodeTree()
	assert.ErrorIs(t, err, ErrChecksum)

	// The unchecked path still decodes what it can.
	decoded, _, err := rec.DecodeTreeUnchecked()
	if err == nil {
		assert.NotNil(t, decoded)
	}
}

func TestTruncatedPayload(t *testing.T) {
	node := mustParse(t, `ASK users FOR name WHEN age > 30`)
	data, err := Encode(node, nil)
	require.NoError(t, err)

	// Cut the payload short and rewrite the header so only the truncation
	// is at fault.
	cut := data[:HeaderSize+4]
	binary.LittleEndian.PutUint32(cut[12:], 4)
	binary.LittleEndian.PutUint32(cut[16:], 4)

	rec, err := Decode(cut)
	require.NoError(t, err)
	_, _, err = rec.DecodeTreeUnchecked()
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDeterministicEncoding(t *testing.T) {
	node := mustParse(t, `ASK users FOR name, email WHEN age > 30 LIMIT 10`)
	meta := DeriveMetadata(node)

	a, err := Encode(node, &meta)
	require.NoError(t, err)
	b, err := Encode(node, &meta)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeriveMetadata(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		engine   mapping.Engine
		hints    mapping.Hint
		priority uint8
		rows     uint32
		timeout  uint32
	}{
		{
			name:     "find",
			source:   `FIND users THAT age > 30`,
			engine:   mapping.EngineDocument,
			hints:    mapping.HintParallel | mapping.HintReadOnly | mapping.HintFullScan,
			priority: 128,
			rows:     10000,
			timeout:  10000,
		},
		{
			name:     "show",
			source:   `SHOW name FROM users`,
			engine:   mapping.EngineDocument,
			hints:    mapping.HintParallel | mapping.HintReadOnly | mapping.HintCacheResult,
			priority: 96,
			rows:     1000,
			timeout:  10000,
		},
		{
			name:     "get",
			source:   `GET name FROM users`,
			engine:   mapping.EngineDocument,
			hints:    mapping.HintParallel | mapping.HintReadOnly | mapping.HintCacheResult,
			priority: 96,
			rows:     1000,
			timeout:  10000,
		},
		{
			name:     "ask with condition",
			source:   `ASK users FOR name WHEN age > 30`,
			engine:   mapping.EngineRelational,
			hints:    mapping.HintReadOnly | mapping.HintIndexScan,
			priority: 128,
			rows:     100,
			timeout:  30000,
		},
		{
			name:     "ask without condition",
			source:   `ASK users FOR name`,
			engine:   mapping.EngineRelational,
			hints:    mapping.HintReadOnly | mapping.HintFullScan,
			priority: 128,
			rows:     1000,
			timeout:  30000,
		},
		{
			name:     "ask with limit adds cache hint",
			source:   `ASK users FOR name WHEN age > 30 LIMIT 10`,
			engine:   mapping.EngineRelational,
			hints:    mapping.HintReadOnly | mapping.HintIndexScan | mapping.HintCacheResult,
			priority: 128,
			rows:     100,
			timeout:  30000,
		},
		{
			name:     "tell",
			source:   `TELL users TO REMOVE`,
			engine:   mapping.EngineRelational,
			hints:    0,
			priority: 192,
			rows:     1,
			timeout:  30000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := DeriveMetadata(mustParse(t, tt.source))
			assert.Equal(t, tt.engine, meta.Engine)
			assert.Equal(t, tt.hints, meta.Hints)
			assert.Equal(t, tt.priority, meta.Priority)
			assert.Equal(t, tt.rows, meta.EstimatedRows)
			assert.Equal(t, tt.timeout, meta.TimeoutMS)
		})
	}
}

func TestDeriveMetadataIsDeterministic(t *testing.T) {
	node := mustParse(t, `FIND users THAT age > 30`)
	a := DeriveMetadata(node)
	b := DeriveMetadata(node)
	assert.Equal(t, a, b)
}

func TestDeriveMetadataNil(t *testing.T) {
	assert.Equal(t, DefaultMetadata(), DeriveMetadata(nil))
}
