package codec

import (
	"github.com/nsql-lang/nsql/engine/ast"
	"github.com/nsql-lang/nsql/mapping"
)

// ExecutionMetadata carries planner hints alongside a serialized tree. The
// block is appended to every record; absent metadata encodes as the
// defaults.
type ExecutionMetadata struct {
	Hints         mapping.Hint
	Priority      uint8 // 0 lowest, 255 highest
	Engine        mapping.Engine
	EstimatedRows uint32
	TimeoutMS     uint32
	TargetIndex   string // preferred index, empty for none
}

// DefaultMetadata returns the neutral metadata block: no hints, balanced
// priority, automatic engine selection, 30 second timeout.
func DefaultMetadata() ExecutionMetadata {
	return ExecutionMetadata{
		Priority:  128,
		Engine:    mapping.EngineAuto,
		TimeoutMS: 30000,
	}
}

// documentQuery reports whether a query form targets the document engine.
// FIND is always document-style; SHOW and GET are reporting forms that the
// document engine serves better.
func documentQuery(node ast.Node) bool {
	switch node.(type) {
	case *ast.FindQuery, *ast.ShowQuery, *ast.GetQuery:
		return true
	}
	return false
}

// DeriveMetadata produces planner hints for a query tree using a fixed
// per-form heuristic. The same tree always yields the same metadata.
//
// Document forms run parallel and read-only with a short timeout: FIND
// expects large full-scan result sets, SHOW/GET are cacheable reporting
// queries at slightly reduced priority. Relational ASK prefers an index
// scan when a condition can drive one and caches bounded results; TELL is
// a write, so it runs at elevated priority with no read hints.
func DeriveMetadata(node ast.Node) ExecutionMetadata {
	meta := DefaultMetadata()
	if node == nil {
		return meta
	}

	if documentQuery(node) {
		meta.Engine = mapping.EngineDocument
		meta.Hints |= mapping.HintParallel | mapping.HintReadOnly
		meta.TimeoutMS = 10000

		switch node.(type) {
		case *ast.FindQuery:
			meta.EstimatedRows = 10000
			meta.Hints |= mapping.HintFullScan
		case *ast.ShowQuery, *ast.GetQuery:
			meta.EstimatedRows = 1000
			meta.Hints |= mapping.HintCacheResult
			meta.Priority = 96
		}
		return meta
	}

	meta.Engine = mapping.EngineRelational
	switch n := node.(type) {
	case *ast.AskQuery:
		meta.Hints |= mapping.HintReadOnly
		if n.Condition != nil {
			meta.Hints |= mapping.HintIndexScan
			meta.EstimatedRows = 100
		} else {
			meta.Hints |= mapping.HintFullScan
			meta.EstimatedRows = 1000
		}
		if n.Limit != nil {
			meta.Hints |= mapping.HintCacheResult
		}
	case *ast.TellQuery:
		meta.Hints = 0
		meta.Priority = 192
		meta.EstimatedRows = 1
	}

	return meta
}
