package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHintHas(t *testing.T) {
	h := HintParallel | HintReadOnly

	assert.True(t, h.Has(HintParallel))
	assert.True(t, h.Has(HintReadOnly))
	assert.False(t, h.Has(HintIndexScan))
	// FULL_SCAN is both PARALLEL and INDEX_SCAN bits; PARALLEL alone is not
	// a full scan.
	assert.False(t, h.Has(HintFullScan))
	assert.True(t, (h | HintIndexScan).Has(HintFullScan))
}

func TestHintSplit(t *testing.T) {
	tests := []struct {
		name string
		h    Hint
		want []string
	}{
		{"empty", 0, nil},
		{"single", HintCacheResult, []string{"CACHE_RESULT"}},
		{
			"full scan absorbs its constituent bits",
			HintFullScan | HintReadOnly,
			[]string{"FULL_SCAN", "READ_ONLY"},
		},
		{
			"parallel alone stays parallel",
			HintParallel | HintCacheResult,
			[]string{"PARALLEL", "CACHE_RESULT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.h.Split())
		})
	}
}

func TestHintString(t *testing.T) {
	assert.Equal(t, "none", Hint(0).String())
	assert.Equal(t, "PARALLEL", HintParallel.String())
	assert.Equal(t, "FULL_SCAN|READ_ONLY", (HintFullScan | HintReadOnly).String())
}

func TestEngineString(t *testing.T) {
	assert.Equal(t, "auto", EngineAuto.String())
	assert.Equal(t, "relational", EngineRelational.String())
	assert.Equal(t, "document", EngineDocument.String())
}

func TestParseEngine(t *testing.T) {
	tests := []struct {
		in   string
		want Engine
		ok   bool
	}{
		{"auto", EngineAuto, true},
		{"relational", EngineRelational, true},
		{"sql", EngineRelational, true},
		{"document", EngineDocument, true},
		{"nosql", EngineDocument, true},
		{"mainframe", EngineAuto, false},
		{"", EngineAuto, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseEngine(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
