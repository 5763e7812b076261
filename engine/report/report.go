// Package report collects diagnostics produced while processing a query.
// Every pipeline stage appends to a shared Context; nothing here aborts,
// callers decide what to do once HasError is set.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity ranks a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
	SeverityFatal
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "Info"
	case SeverityWarning:
		return "Warning"
	case SeverityError:
		return "Error"
	case SeverityFatal:
		return "Fatal"
	}
	return "Unknown"
}

// Source identifies the stage that produced a diagnostic.
type Source int

const (
	SourceLexer Source = iota
	SourceParser
	SourceSemantic
	SourceRuntime
	SourceSystem
)

func (s Source) String() string {
	switch s {
	case SourceLexer:
		return "Lexer"
	case SourceParser:
		return "Parser"
	case SourceSemantic:
		return "Semantic"
	case SourceRuntime:
		return "Runtime"
	case SourceSystem:
		return "System"
	}
	return "Unknown"
}

// Report is a single diagnostic.
type Report struct {
	Severity Severity
	Source   Source
	Line     int
	Column   int
	Message  string
}

// Context accumulates diagnostics in the order they were reported.
// The zero value is ready to use.
type Context struct {
	Reports      []Report
	ErrorCount   int
	WarningCount int
	HasError     bool
	HasFatal     bool
}

// Add appends a diagnostic and updates the counters.
func (c *Context) Add(severity Severity, source Source, line, column int, message string) {
	c.Reports = append(c.Reports, Report{
		Severity: severity,
		Source:   source,
		Line:     line,
		Column:   column,
		Message:  message,
	})
	switch {
	case severity == SeverityWarning:
		c.WarningCount++
	case severity >= SeverityError:
		c.ErrorCount++
		c.HasError = true
		if severity == SeverityFatal {
			c.HasFatal = true
		}
	}
}

// Errorf reports a parser error at the given position.
func (c *Context) Errorf(source Source, line, column int, format string, args ...any) {
	c.Add(SeverityError, source, line, column, fmt.Sprintf(format, args...))
}

// Reset clears the context for reuse.
func (c *Context) Reset() {
	*c = Context{}
}

// Format renders the diagnostics as a human-readable block: a count summary
// followed by one line per report.
func (c *Context) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "NSQL Parsing Results: %d error(s), %d warning(s)\n\n",
		c.ErrorCount, c.WarningCount)
	for _, r := range c.Reports {
		fmt.Fprintf(&b, "[%s] %s (line %d, col %d): %s\n",
			r.Severity, r.Source, r.Line, r.Column, r.Message)
	}
	return b.String()
}

type jsonReport struct {
	Severity string `json:"severity"`
	Source   string `json:"source"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
}

type jsonSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
}

type jsonOutput struct {
	Summary jsonSummary  `json:"summary"`
	Details []jsonReport `json:"details"`
}

// FormatJSON renders the diagnostics as a JSON document with a summary
// object and a details array.
func (c *Context) FormatJSON() (string, error) {
	out := jsonOutput{
		Summary: jsonSummary{Errors: c.ErrorCount, Warnings: c.WarningCount},
		Details: make([]jsonReport, 0, len(c.Reports)),
	}
	for _, r := range c.Reports {
		out.Details = append(out.Details, jsonReport{
			Severity: r.Severity.String(),
			Source:   r.Source.String(),
			Line:     r.Line,
			Column:   r.Column,
			Message:  r.Message,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
