/*
 * fcode-utils-sub000 - Conditional-compilation engine test set.
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

package cond

import (
	"testing"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/vocab"
)

var testLoc = diag.Location{File: "test.fth", Line: 1}

func TestSkippingSingleFrame(t *testing.T) {
	s := New()
	if s.Skipping() {
		t.Fatalf("empty stack should not be skipping")
	}
	s.If(true, testLoc)
	if s.Skipping() {
		t.Fatalf("active top frame should not be skipping")
	}
	s.If(false, testLoc)
	if !s.Skipping() {
		t.Fatalf("inactive top frame should be skipping")
	}
}

// A nested [IF] inside an inactive outer branch must remain skipped
// regardless of its own condition: nothing nested inside an inactive
// branch ever compiles.
func TestSkippingNestedInactiveOuter(t *testing.T) {
	s := New()
	s.If(false, testLoc) // outer: inactive
	s.If(true, testLoc)  // inner: active on its own, but outer hides it
	if !s.Skipping() {
		t.Fatalf("nested active frame under an inactive outer frame must still be skipping")
	}
	if err := s.Then(testLoc); err != nil {
		t.Fatalf("Then: %v", err)
	}
	if !s.Skipping() {
		t.Fatalf("still skipping after closing inner frame: outer is still inactive")
	}
	if err := s.Then(testLoc); err != nil {
		t.Fatalf("Then: %v", err)
	}
	if s.Skipping() {
		t.Fatalf("should not be skipping once both frames are closed")
	}
}

func TestElseTogglesActivity(t *testing.T) {
	s := New()
	s.If(false, testLoc)
	if !s.Skipping() {
		t.Fatalf("expected skipping before else")
	}
	if err := s.Else(testLoc); err != nil {
		t.Fatalf("Else: %v", err)
	}
	if s.Skipping() {
		t.Fatalf("expected not skipping after else flips an inactive frame active")
	}
	if err := s.Else(testLoc); err == nil {
		t.Fatalf("expected error on duplicate else")
	}
}

func TestElseThenWithoutIf(t *testing.T) {
	s := New()
	if err := s.Else(testLoc); err == nil {
		t.Fatalf("expected error for else with no matching if")
	}
	if err := s.Then(testLoc); err == nil {
		t.Fatalf("expected error for then with no matching if")
	}
}

func TestFlushReportsUnbalanced(t *testing.T) {
	s := New()
	s.If(true, testLoc)
	s.If(false, testLoc)
	rep := diag.NewReporter(&testWriter{})
	s.Flush(rep, testLoc)
	if rep.ErrorCount() != 2 {
		t.Fatalf("expected 2 unbalanced errors, got %d", rep.ErrorCount())
	}
	if s.Depth() != 0 {
		t.Fatalf("Flush should clear the stack")
	}
}

func TestDefined(t *testing.T) {
	chain := vocab.NewChain("core")
	chain.Push(&vocab.Entry{Name: "FOO"})
	if !Defined("foo", chain) {
		t.Fatalf("expected case-insensitive match for FOO")
	}
	if Defined("bar", chain) {
		t.Fatalf("bar should not resolve")
	}
	if Defined("foo", nil, chain) == false {
		t.Fatalf("nil chains in the list should be skipped, not fatal")
	}
}

type testWriter struct{ n int }

func (w *testWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}
