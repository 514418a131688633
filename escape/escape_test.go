/*
 * fcode-utils-sub000 - Tokenizer-escape mode interpreter tests.
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

package escape

import (
	"bytes"
	"fmt"
	"strconv"
	"testing"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/fnum"
)

type fakeEnv struct {
	base    int
	printed []string
	defined map[string]bool
	alloc   *fnum.Allocator
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{base: 10, defined: map[string]bool{}, alloc: fnum.New()}
}

func (e *fakeEnv) Base() int          { return e.base }
func (e *fakeEnv) SetBase(b int)      { e.base = b }
func (e *fakeEnv) Print(s string)     { e.printed = append(e.printed, s) }
func (e *fakeEnv) FLoad(string, diag.Location) error { return nil }
func (e *fakeEnv) Defined(name string) bool { return e.defined[name] }
func (e *fakeEnv) Alias(newName, oldName string) error {
	if !e.defined[oldName] {
		return fmt.Errorf("%s is not defined", oldName)
	}
	e.defined[newName] = true
	return nil
}
func (e *fakeEnv) Allocator() *fnum.Allocator { return e.alloc }

func parseNum(tok string, base int) (int32, bool) {
	v, err := strconv.ParseInt(tok, base, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

func noStrings(byte) (string, error) {
	return "", fmt.Errorf("no string reader needed for this test")
}

func newTestInterp() (*Interp, *fakeEnv) {
	env := newFakeEnv()
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	return New(env, rep), env
}

func TestArithmetic(t *testing.T) {
	ip, _ := newTestInterp()
	ip.Push(2)
	ip.Push(3)
	ok, err := ip.Eval("+", diag.Location{}, noStrings, parseNum)
	if !ok || err != nil {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	v, _ := ip.Pop()
	if v != 5 {
		t.Fatalf("got %d, want 5", v)
	}
}

func TestComparisonResultsAreForthBooleans(t *testing.T) {
	ip, _ := newTestInterp()
	ip.Push(1)
	ip.Push(1)
	ip.Eval("=", diag.Location{}, noStrings, parseNum)
	v, _ := ip.Pop()
	if v != -1 {
		t.Fatalf("got %d, want -1 (Forth true)", v)
	}
}

func TestDupSwapOverRot(t *testing.T) {
	ip, _ := newTestInterp()
	ip.Push(1)
	ip.Push(2)
	ip.Eval("dup", diag.Location{}, noStrings, parseNum)
	if ip.Depth() != 3 {
		t.Fatalf("got depth %d, want 3 after dup", ip.Depth())
	}

	ip2, _ := newTestInterp()
	ip2.Push(1)
	ip2.Push(2)
	ip2.Eval("swap", diag.Location{}, noStrings, parseNum)
	b, _ := ip2.Pop()
	a, _ := ip2.Pop()
	if a != 2 || b != 1 {
		t.Fatalf("got (%d, %d), want (2, 1) after swap", a, b)
	}

	ip3, _ := newTestInterp()
	ip3.Push(1)
	ip3.Push(2)
	ip3.Eval("over", diag.Location{}, noStrings, parseNum)
	top, _ := ip3.Pop()
	if top != 1 {
		t.Fatalf("got %d, want 1 from over", top)
	}

	ip4, _ := newTestInterp()
	ip4.Push(1)
	ip4.Push(2)
	ip4.Push(3)
	ip4.Eval("rot", diag.Location{}, noStrings, parseNum)
	r := ip4.Results()
	if len(r) != 3 || r[0] != 2 || r[1] != 3 || r[2] != 1 {
		t.Fatalf("got %v, want [2 3 1] after rot", r)
	}
}

func TestStackUnderflowReportsError(t *testing.T) {
	ip, _ := newTestInterp()
	_, err := ip.Eval("+", diag.Location{}, noStrings, parseNum)
	if err == nil {
		t.Fatalf("expected a stack underflow error")
	}
}

func TestPrintingWordsCallEnvPrint(t *testing.T) {
	ip, env := newTestInterp()
	readQuoted := func(delim byte) (string, error) { return "hello", nil }
	ok, err := ip.Eval(`."`, diag.Location{}, readQuoted, parseNum)
	if !ok || err != nil {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if len(env.printed) != 1 || env.printed[0] != "hello" {
		t.Fatalf("got %v, want [hello]", env.printed)
	}
}

func TestDefinedWordPushesBoolean(t *testing.T) {
	ip, env := newTestInterp()
	env.defined["foo"] = true
	readName := func(delim byte) (string, error) { return "foo", nil }
	ip.Eval("[defined]", diag.Location{}, readName, parseNum)
	v, _ := ip.Pop()
	if v != -1 {
		t.Fatalf("got %d, want -1 for a defined name", v)
	}
}

func TestBaseWords(t *testing.T) {
	ip, env := newTestInterp()
	ip.Eval("hex", diag.Location{}, noStrings, parseNum)
	if env.Base() != 16 {
		t.Fatalf("got base %d, want 16", env.Base())
	}
	ip.Eval("octal", diag.Location{}, noStrings, parseNum)
	if env.Base() != 8 {
		t.Fatalf("got base %d, want 8", env.Base())
	}
	ip.Eval("decimal", diag.Location{}, noStrings, parseNum)
	if env.Base() != 10 {
		t.Fatalf("got base %d, want 10", env.Base())
	}
}

func TestAliasDelegatesToEnv(t *testing.T) {
	ip, env := newTestInterp()
	env.defined["old"] = true
	readTwo := func() func(byte) (string, error) {
		calls := 0
		names := []string{"new", "old"}
		return func(byte) (string, error) {
			n := names[calls]
			calls++
			return n, nil
		}
	}()
	ok, err := ip.Eval("alias", diag.Location{}, readTwo, parseNum)
	if !ok || err != nil {
		t.Fatalf("got (%v, %v)", ok, err)
	}
	if !env.defined["new"] {
		t.Fatalf("alias should have registered the new name against the env")
	}
}

func TestUnrecognizedWordFallsThroughToNumberParsing(t *testing.T) {
	ip, _ := newTestInterp()
	ok, err := ip.Eval("42", diag.Location{}, noStrings, parseNum)
	if !ok || err != nil {
		t.Fatalf("got (%v, %v), want a parsed number", ok, err)
	}
	v, _ := ip.Pop()
	if v != 42 {
		t.Fatalf("got %d, want 42", v)
	}
}

func TestCompletelyUnknownWordReturnsFalse(t *testing.T) {
	ip, _ := newTestInterp()
	ok, err := ip.Eval("not-a-word-or-number", diag.Location{}, noStrings, parseNum)
	if ok || err != nil {
		t.Fatalf("got (%v, %v), want (false, nil)", ok, err)
	}
}
