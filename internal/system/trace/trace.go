// Released under an MIT license. See LICENSE.

// Package trace connects ember's tracing to schuko's global tracers.
//
// Tracers are no-ops until Enable is called.
package trace

import (
	"io"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
)

// T returns the tracer for the interpreter.
func T() tracing.Trace {
	return gtrace.InterpreterTracer
}

// Syntax returns the tracer for the reader.
func Syntax() tracing.Trace {
	return gtrace.SyntaxTracer
}

// Enable creates the global tracers, writing to w at the named level.
// The level is "debug", "info", or "error".
func Enable(w io.Writer, level string) error {
	err := gtrace.CreateTracers(gologadapter.GetAdapter())
	if err != nil {
		return err
	}

	l := tracing.TraceLevelFromString(level)

	for _, t := range []tracing.Trace{gtrace.InterpreterTracer, gtrace.SyntaxTracer} {
		t.SetOutput(w)
		t.SetTraceLevel(l)
	}

	return nil
}

// Enabled returns true if the interpreter tracer will emit debug output.
func Enabled() bool {
	return T().GetTraceLevel() >= tracing.LevelDebug
}

// Disable restores the no-op tracers.
func Disable() {
	gtrace.InterpreterTracer = gtrace.NoOpTrace
	gtrace.SyntaxTracer = gtrace.NoOpTrace
}
