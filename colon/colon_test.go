/*
 * fcode-utils-sub000 - Colon-definition hiding and IBM-style Locals tests.
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

package colon

import (
	"bytes"
	"testing"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/source"
	"github.com/openbios/fcode-utils-sub000/vocab"
)

func TestStartHidesAndFinishReveals(t *testing.T) {
	chain := vocab.NewChain("core")
	var d Definer

	d.Start(chain, "foo", diag.Location{File: "t.fth", Line: 1})
	if !d.Open() {
		t.Fatalf("expected Open() to be true once started")
	}
	if d.Name() != "foo" {
		t.Fatalf("got name %q, want foo", d.Name())
	}
	if chain.Lookup("foo") != nil {
		t.Fatalf("a definition must be invisible to its own body")
	}

	d.Finish()
	if d.Open() {
		t.Fatalf("expected Open() to be false after Finish")
	}
	if chain.Lookup("foo") == nil {
		t.Fatalf("finishing a definition should make it visible again")
	}
}

func TestRecurseExposesHiddenEntry(t *testing.T) {
	chain := vocab.NewChain("core")
	var d Definer
	e := d.Start(chain, "foo", diag.Location{})
	if d.Recurse() != e {
		t.Fatalf("Recurse should return the entry hidden by Start")
	}
}

func TestRevealNowPreventsDoubleReveal(t *testing.T) {
	chain := vocab.NewChain("core")
	var d Definer
	d.Start(chain, "foo", diag.Location{})

	d.RevealNow()
	if chain.Lookup("foo") == nil {
		t.Fatalf("RevealNow should make the entry visible immediately")
	}
	headAfterReveal := chain.Head

	// Finish must be a no-op for the already-revealed entry: calling
	// RevealTop a second time on the same node would corrupt the chain
	// by linking it to itself.
	d.Finish()
	if chain.Head != headAfterReveal {
		t.Fatalf("Finish must not re-reveal an entry RevealNow already exposed")
	}
	if chain.Head.Next == chain.Head {
		t.Fatalf("double-reveal produced a self-referencing chain node")
	}
}

func TestRevealNowOutsideOpenDefinitionIsNoop(t *testing.T) {
	var d Definer
	d.RevealNow() // must not panic
}

func TestLocalsDeclareInittedOnly(t *testing.T) {
	l := NewLocals(false, false)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	r := source.NewReader(nil, nil)
	r.PushSource([]byte("a b }"), "t.fth", 1, nil, nil, false)

	if err := l.Declare(r, rep, diag.Location{}, func(string) bool { return false }, func(string) bool { return false }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.ErrorCount() != 0 {
		t.Fatalf("unexpected diagnostic errors: %d", rep.ErrorCount())
	}
	if l.NumInitted() != 2 || l.NumUninitted() != 0 {
		t.Fatalf("got initted=%d uninitted=%d, want 2/0", l.NumInitted(), l.NumUninitted())
	}
	a, ok := l.Lookup("a")
	if !ok || a.Number != 0 {
		t.Fatalf("got %+v, want a Local named a numbered 0", a)
	}
	b, ok := l.Lookup("B") // case-insensitive
	if !ok || b.Number != 1 {
		t.Fatalf("got %+v, want a Local named b numbered 1", b)
	}
}

func TestLocalsDeclareBothGroups(t *testing.T) {
	l := NewLocals(false, false)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	r := source.NewReader(nil, nil)
	r.PushSource([]byte("a | u1 u2 }"), "t.fth", 1, nil, nil, false)

	if err := l.Declare(r, rep, diag.Location{}, func(string) bool { return false }, func(string) bool { return false }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.NumInitted() != 1 || l.NumUninitted() != 2 {
		t.Fatalf("got initted=%d uninitted=%d, want 1/2", l.NumInitted(), l.NumUninitted())
	}
}

func TestLocalsDeclareRejectsExistingName(t *testing.T) {
	l := NewLocals(false, false)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	r := source.NewReader(nil, nil)
	r.PushSource([]byte("dup }"), "t.fth", 1, nil, nil, false)

	l.Declare(r, rep, diag.Location{}, func(string) bool { return true }, func(string) bool { return false })
	if rep.ErrorCount() != 1 {
		t.Fatalf("got error count %d, want 1 for a name that already exists", rep.ErrorCount())
	}
	if _, ok := l.Lookup("dup"); ok {
		t.Fatalf("a rejected name should not be declared")
	}
}

func TestLocalsDeclareRejectsNumber(t *testing.T) {
	l := NewLocals(false, false)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	r := source.NewReader(nil, nil)
	r.PushSource([]byte("123 }"), "t.fth", 1, nil, nil, false)

	l.Declare(r, rep, diag.Location{}, func(string) bool { return false }, func(string) bool { return true })
	if rep.ErrorCount() != 1 {
		t.Fatalf("got error count %d, want 1 for a numeric candidate name", rep.ErrorCount())
	}
}

func TestLocalsLegacySeparator(t *testing.T) {
	l := NewLocals(true, true)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	r := source.NewReader(nil, nil)
	r.PushSource([]byte("a ; u1 }"), "t.fth", 1, nil, nil, false)

	if err := l.Declare(r, rep, diag.Location{}, func(string) bool { return false }, func(string) bool { return false }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.NumInitted() != 1 || l.NumUninitted() != 1 {
		t.Fatalf("got initted=%d uninitted=%d, want 1/1", l.NumInitted(), l.NumUninitted())
	}
	if rep.WarningCount() != 1 {
		t.Fatalf("got warning count %d, want 1 for the deprecated legacy separator", rep.WarningCount())
	}
}

func TestLocalsForgetClearsState(t *testing.T) {
	l := NewLocals(false, false)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	r := source.NewReader(nil, nil)
	r.PushSource([]byte("a }"), "t.fth", 1, nil, nil, false)
	l.Declare(r, rep, diag.Location{}, func(string) bool { return false }, func(string) bool { return false })

	l.Forget()
	if l.NumInitted() != 0 || l.NumUninitted() != 0 {
		t.Fatalf("Forget should reset both counts to zero")
	}
	if _, ok := l.Lookup("a"); ok {
		t.Fatalf("Forget should make previously declared locals unreachable")
	}
}
