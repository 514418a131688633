/*
 * fcode-utils-sub000 - Symbol trace facility.
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

// Package trace tracks which symbols the user asked to trace (-T NAME) and
// which of the three trace events have fired for each: creation, invocation
// as a builtin, and invocation while compiling a definition.
package trace

import "strings"

// Event is one of the three independently-tracked trace moments.
type Event int

const (
	EventCreate Event = iota
	EventBuiltin
	EventActive
)

func (e Event) String() string {
	switch e {
	case EventCreate:
		return "was defined"
	case EventBuiltin:
		return "was invoked as a builtin"
	case EventActive:
		return "was invoked"
	default:
		return "?"
	}
}

// Sink receives a formatted trace note; normally diag.Reporter.Tracef.
type Sink func(name string, ev Event)

// List holds the set of names the user requested tracing for, matched
// case-insensitively like every other vocabulary lookup.
type List struct {
	names map[string]bool
	sink  Sink
}

// NewList creates an empty trace list reporting through sink.
func NewList(sink Sink) *List {
	return &List{names: map[string]bool{}, sink: sink}
}

// Add registers name for tracing. Called once per -T flag.
func (l *List) Add(name string) {
	l.names[strings.ToUpper(name)] = true
}

// Requested reports whether name is on the trace list.
func (l *List) Requested(name string) bool {
	return l.names[strings.ToUpper(name)]
}

// Fire reports ev for name if name is on the trace list and a sink is
// installed; a no-op otherwise. Callers should still set an entry's
// tracing flag at add_entry time (spec.md §4.3) rather than calling
// Requested on every lookup.
func (l *List) Fire(name string, ev Event) {
	if l.sink == nil || !l.Requested(name) {
		return
	}
	l.sink(name, ev)
}

// Empty reports whether no names were ever registered, letting callers
// skip the tracing check entirely in the hot path.
func (l *List) Empty() bool {
	return len(l.names) == 0
}
