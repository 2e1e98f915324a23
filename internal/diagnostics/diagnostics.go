// Package diagnostics provides the diagnostic engine the semantic model
// reports against. The type interning subsystem only ever asks one
// question of it — has any error been recorded — but the engine keeps the
// full diagnostic list for the surrounding compiler phases.
package diagnostics

import (
	"fmt"

	"github.com/lumina-lang/lumina/internal/position"
)

// Level represents the severity level of a diagnostic.
type Level int

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelHint
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelHint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is a single reported message with its source location.
type Diagnostic struct {
	Level   Level
	Message string
	Span    position.Span
}

func (d Diagnostic) String() string {
	if d.Span.IsValid() {
		return fmt.Sprintf("%s: %s: %s", d.Span.Start, d.Level, d.Message)
	}

	return fmt.Sprintf("%s: %s", d.Level, d.Message)
}

// Engine collects diagnostics for one compilation unit. It shares the
// compilation context's single-writer discipline and is not internally
// synchronized.
type Engine struct {
	diagnostics []Diagnostic
	errorCount  int
}

// NewEngine creates an empty diagnostic engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Report records a diagnostic.
func (e *Engine) Report(d Diagnostic) {
	e.diagnostics = append(e.diagnostics, d)
	if d.Level == LevelError {
		e.errorCount++
	}
}

// Errorf records an error-level diagnostic at the given span.
func (e *Engine) Errorf(span position.Span, format string, args ...any) {
	e.Report(Diagnostic{
		Level:   LevelError,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// Warningf records a warning-level diagnostic at the given span.
func (e *Engine) Warningf(span position.Span, format string, args ...any) {
	e.Report(Diagnostic{
		Level:   LevelWarning,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// HadAnyError reports whether any error-level diagnostic was recorded.
func (e *Engine) HadAnyError() bool {
	return e.errorCount > 0
}

// ErrorCount returns the number of error-level diagnostics recorded.
func (e *Engine) ErrorCount() int {
	return e.errorCount
}

// Diagnostics returns every recorded diagnostic in report order.
func (e *Engine) Diagnostics() []Diagnostic {
	return e.diagnostics
}
