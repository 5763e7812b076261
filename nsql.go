// Package nsql is the public entry point for the NSQL natural-language
// query pipeline: parse source text, derive execution metadata, encode
// and decode portable binary records, and translate queries for a
// target database engine.
package nsql

import (
	"errors"

	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/engine/builders/mongodb"
	"github.com/nsql-lang/nsql/engine/builders/postgres"
	"github.com/nsql-lang/nsql/engine/codec"
	"github.com/nsql-lang/nsql/engine/lexer"
	"github.com/nsql-lang/nsql/engine/parser"
	"github.com/nsql-lang/nsql/engine/report"
	"github.com/nsql-lang/nsql/mapping"
)

// ErrParse is returned by Compile when the source contains syntax
// errors; details are in the accompanying report context.
var ErrParse = errors.New("nsql: source contains syntax errors")

// Parse compiles a single query. The returned node is nil only when no
// query keyword was found; a non-nil node may still be partial, so
// callers must consult the report context before trusting it.
func Parse(source string) (ast.Node, *report.Context) {
	return ParseWithPolicy(source, parser.RecoverStatement)
}

// ParseWithPolicy is Parse with an explicit error-recovery policy.
func ParseWithPolicy(source string, policy parser.RecoveryPolicy) (ast.Node, *report.Context) {
	diags := &report.Context{}
	p := parser.New(lexer.New(source), diags, policy)
	return p.ParseQuery(), diags
}

// ParseProgram compiles a multi-statement source, recovering at
// statement boundaries so one bad query does not hide the rest.
func ParseProgram(source string) (*ast.Program, *report.Context) {
	diags := &report.Context{}
	p := parser.New(lexer.New(source), diags, parser.RecoverStatement)
	return p.ParseProgram(), diags
}

// Compile parses a single query, derives its execution metadata and
// encodes both into a binary record. Parse failures return ErrParse
// alongside the report context.
func Compile(source string) ([]byte, *report.Context, error) {
	node, diags := Parse(source)
	if node == nil || diags.HasError {
		return nil, diags, ErrParse
	}
	meta := codec.DeriveMetadata(node)
	data, err := codec.Encode(node, &meta)
	if err != nil {
		return nil, diags, err
	}
	return data, diags, nil
}

// Decompile decodes a binary record back into a syntax tree and its
// execution metadata, verifying the checksum.
func Decompile(data []byte) (ast.Node, *codec.ExecutionMetadata, error) {
	rec, err := codec.Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return rec.DecodeTree()
}

// Translation is the engine-specific rendering of a query. Exactly one
// of SQL or Mongo is set, matching Engine.
type Translation struct {
	Engine mapping.Engine
	SQL    *postgres.Statement
	Mongo  *mongodb.Plan
}

// Translate renders a parsed query for the given target engine.
// EngineAuto routes by the derived metadata's engine preference.
func Translate(node ast.Node, engine mapping.Engine) (*Translation, error) {
	if engine == mapping.EngineAuto {
		meta := codec.DeriveMetadata(node)
		engine = meta.Engine
		if engine == mapping.EngineAuto {
			engine = mapping.EngineRelational
		}
	}

	switch engine {
	case mapping.EngineRelational:
		stmt, err := postgres.BuildQuery(node)
		if err != nil {
			return nil, err
		}
		return &Translation{Engine: engine, SQL: stmt}, nil
	case mapping.EngineDocument:
		plan, err := mongodb.BuildQuery(node)
		if err != nil {
			return nil, err
		}
		return &Translation{Engine: engine, Mongo: plan}, nil
	default:
		return nil, errors.New("nsql: unknown target engine")
	}
}
