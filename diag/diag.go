/*
 * fcode-utils-sub000 - Error/message subsystem.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package diag implements the severity-tagged message subsystem: every
// message carries a (file, line), an optional definitional context, and a
// severity that controls exit code and output-gate behavior. Messages are
// not exceptions: the reporter keeps a running error count and the caller
// decides when to check it and stop.
package diag

import (
	"fmt"
	"io"
	"os"
)

// Severity is one of the six message classes named in the spec.
type Severity int

const (
	Info Severity = iota
	Message
	Warning
	Error
	Fatal
	Tracer
)

func (s Severity) prefix() string {
	switch s {
	case Info:
		return "Info"
	case Message:
		return ""
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	case Fatal:
		return "Fatal"
	case Tracer:
		return "Trace-Note"
	default:
		return "?"
	}
}

// Location is the (file, line) coordinate every message carries.
type Location struct {
	File string
	Line int
}

func (l Location) String() string {
	if l.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Context names the definitional scope a message occurred in ("in the
// current device-node, which began at foo.fs:12", "in definition of FOO").
type Context string

// FatalExit is called by Reporter.Fatalf; tests replace it to observe the
// call instead of terminating the process.
var FatalExit = func(code int) { os.Exit(code) }

// Reporter accumulates error counts and writes formatted diagnostics to an
// output stream. One Reporter exists per compilation unit.
type Reporter struct {
	Out        io.Writer
	errorCount int
	warnCount  int
	traceList  map[string]bool
}

// NewReporter creates a Reporter writing to out (typically os.Stderr).
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{Out: out, traceList: map[string]bool{}}
}

// ErrorCount returns the number of TKERROR-severity messages seen so far.
// A non-zero count gates final output, per spec.md §7.
func (r *Reporter) ErrorCount() int { return r.errorCount }

// WarningCount returns the number of WARNING-severity messages seen.
func (r *Reporter) WarningCount() int { return r.warnCount }

// Report emits a message at the given severity, with an optional context
// line. Fatal reports immediately terminate via FatalExit(2); all other
// severities return normally so the compiler can keep scanning for more
// problems in the same pass.
func (r *Reporter) Report(sev Severity, loc Location, ctx Context, format string, args ...interface{}) {
	text := fmt.Sprintf(format, args...)
	prefix := sev.prefix()

	line := ""
	switch {
	case prefix == "" && loc.File == "":
		line = text
	case prefix == "":
		line = fmt.Sprintf("%s: %s", loc, text)
	case loc.File == "":
		line = fmt.Sprintf("%s: %s", prefix, text)
	default:
		line = fmt.Sprintf("%s: %s: %s", loc, prefix, text)
	}
	if ctx != "" {
		line += " (" + string(ctx) + ")"
	}
	fmt.Fprintln(r.Out, line)

	switch sev {
	case Warning:
		r.warnCount++
	case Error:
		r.errorCount++
	case Fatal:
		r.errorCount++
		fmt.Fprintln(r.Out, "Fatal error, terminating")
		FatalExit(2)
	}
}

// Infof reports an INFO-severity message.
func (r *Reporter) Infof(loc Location, format string, args ...interface{}) {
	r.Report(Info, loc, "", format, args...)
}

// Messagef reports a user-generated [MESSAGE] directive.
func (r *Reporter) Messagef(loc Location, format string, args ...interface{}) {
	r.Report(Message, loc, "", format, args...)
}

// Warnf reports a WARNING-severity message.
func (r *Reporter) Warnf(loc Location, ctx Context, format string, args ...interface{}) {
	r.Report(Warning, loc, ctx, format, args...)
}

// Errorf reports a TKERROR-severity message; exit code 1, output discarded.
func (r *Reporter) Errorf(loc Location, ctx Context, format string, args ...interface{}) {
	r.Report(Error, loc, ctx, format, args...)
}

// Fatalf reports a FATAL-severity message and terminates the process
// immediately with exit code 2.
func (r *Reporter) Fatalf(loc Location, format string, args ...interface{}) {
	r.Report(Fatal, loc, "", format, args...)
}

// Tracef reports a TRACER-severity message, only ever called for symbols
// the caller has already confirmed are on the trace list.
func (r *Reporter) Tracef(loc Location, format string, args ...interface{}) {
	r.Report(Tracer, loc, "", format, args...)
}

// ExitCode derives the process exit code from the accumulated error count,
// per spec.md §6.4/§6.5: 0 on success, 1 if any TKERROR was reported. FATAL
// exits directly through FatalExit and never reaches this path.
func (r *Reporter) ExitCode() int {
	if r.errorCount > 0 {
		return 1
	}
	return 0
}

// ShouldWriteOutput reports whether the accumulated error count still
// permits writing the output buffer to disk.
func (r *Reporter) ShouldWriteOutput() bool {
	return r.errorCount == 0
}
