package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddUpdatesCounters(t *testing.T) {
	c := &Context{}

	c.Add(SeverityInfo, SourceLexer, 1, 1, "just saying")
	assert.False(t, c.HasError)
	assert.Equal(t, 0, c.ErrorCount)

	c.Add(SeverityWarning, SourceParser, 1, 5, "looks odd")
	assert.Equal(t, 1, c.WarningCount)
	assert.False(t, c.HasError)

	c.Add(SeverityError, SourceParser, 2, 3, "bad token")
	assert.Equal(t, 1, c.ErrorCount)
	assert.True(t, c.HasError)
	assert.False(t, c.HasFatal)

	c.Add(SeverityFatal, SourceSystem, 0, 0, "out of memory")
	assert.Equal(t, 2, c.ErrorCount)
	assert.True(t, c.HasFatal)

	require.Len(t, c.Reports, 4)
}

func TestErrorf(t *testing.T) {
	c := &Context{}
	c.Errorf(SourceParser, 3, 7, "at '%s': %s", "FOR", "unexpected")

	require.Len(t, c.Reports, 1)
	r := c.Reports[0]
	assert.Equal(t, SeverityError, r.Severity)
	assert.Equal(t, 3, r.Line)
	assert.Equal(t, 7, r.Column)
	assert.Equal(t, "at 'FOR': unexpected", r.Message)
}

func TestReset(t *testing.T) {
	c := &Context{}
	c.Errorf(SourceLexer, 1, 1, "boom")
	c.Reset()

	assert.Empty(t, c.Reports)
	assert.Equal(t, 0, c.ErrorCount)
	assert.False(t, c.HasError)
}

func TestFormat(t *testing.T) {
	c := &Context{}
	c.Errorf(SourceParser, 2, 5, "at 'x': Expected 'FOR'")
	c.Add(SeverityWarning, SourceSemantic, 3, 1, "unused field")

	out := c.Format()
	assert.Contains(t, out, "NSQL Parsing Results: 1 error(s), 1 warning(s)")
	assert.Contains(t, out, "[Error] Parser (line 2, col 5): at 'x': Expected 'FOR'")
	assert.Contains(t, out, "[Warning] Semantic (line 3, col 1): unused field")
}

func TestFormatJSON(t *testing.T) {
	c := &Context{}
	c.Errorf(SourceLexer, 1, 9, "Unterminated string.")

	out, err := c.FormatJSON()
	require.NoError(t, err)

	var doc struct {
		Summary struct {
			Errors   int `json:"errors"`
			Warnings int `json:"warnings"`
		} `json:"summary"`
		Details []struct {
			Severity string `json:"severity"`
			Source   string `json:"source"`
			Line     int    `json:"line"`
			Column   int    `json:"column"`
			Message  string `json:"message"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, 1, doc.Summary.Errors)
	require.Len(t, doc.Details, 1)
	assert.Equal(t, "Error", doc.Details[0].Severity)
	assert.Equal(t, "Lexer", doc.Details[0].Source)
	assert.Equal(t, 9, doc.Details[0].Column)
}

func TestFormatJSONEmpty(t *testing.T) {
	c := &Context{}
	out, err := c.FormatJSON()
	require.NoError(t, err)
	// An empty context still yields a details array, not null.
	assert.Contains(t, out, `"details":[]`)
}
