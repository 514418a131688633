/*
 * fcode-utils-sub000 - Source reader and file stack tests.
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

package source

import (
	"fmt"
	"testing"
)

type mapOpener map[string][]byte

func (m mapOpener) Open(name string, includeDirs []string) ([]byte, string, error) {
	if data, ok := m[name]; ok {
		return data, name, nil
	}
	for _, dir := range includeDirs {
		if data, ok := m[dir+"/"+name]; ok {
			return data, dir + "/" + name, nil
		}
	}
	return nil, "", fmt.Errorf("not found: %s", name)
}

func TestGetWordSplitsOnWhitespace(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte("foo  bar\tbaz\n"), "t.fth", 1, nil, nil, false)

	for _, want := range []string{"foo", "bar", "baz"} {
		got, ok := r.GetWord()
		if !ok || got != want {
			t.Fatalf("got (%q, %v), want (%q, true)", got, ok, want)
		}
	}
	if _, ok := r.GetWord(); ok {
		t.Fatalf("expected ok=false once input is exhausted")
	}
}

func TestLocationTracksLine(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte("one\ntwo\n"), "t.fth", 1, nil, nil, false)
	if loc := r.Location(); loc.Line != 1 {
		t.Fatalf("got line %d, want 1", loc.Line)
	}
	r.GetWord()
	r.GetWord()
	if loc := r.Location(); loc.Line != 2 {
		t.Fatalf("got line %d, want 2 after crossing a newline", loc.Line)
	}
}

func TestFLoadPausesBeforePop(t *testing.T) {
	opener := mapOpener{"inc.fth": []byte("included")}
	r := NewReader(opener, nil)
	r.PushSource([]byte("outer"), "main.fth", 1, nil, nil, false)
	if err := r.FLoad("inc.fth"); err != nil {
		t.Fatalf("FLoad failed: %v", err)
	}
	if r.Depth() != 2 {
		t.Fatalf("got depth %d, want 2", r.Depth())
	}

	got, ok := r.GetWord()
	if !ok || got != "included" {
		t.Fatalf("got (%q, %v), want (included, true)", got, ok)
	}

	// the included frame is now exhausted; the first GetWord after it pops
	// must surface the empty pause boundary rather than skipping straight
	// back into the includer.
	got, ok = r.GetWord()
	if !ok || got != "" {
		t.Fatalf("got (%q, %v), want (\"\", true) pause boundary", got, ok)
	}
	if r.Depth() != 1 {
		t.Fatalf("got depth %d, want 1 after the included frame popped", r.Depth())
	}

	got, ok = r.GetWord()
	if !ok || got != "outer" {
		t.Fatalf("got (%q, %v), want (outer, true)", got, ok)
	}
}

func TestFLoadMissingFileReportsError(t *testing.T) {
	r := NewReader(mapOpener{}, nil)
	r.PushSource([]byte(""), "main.fth", 1, nil, nil, false)
	if err := r.FLoad("missing.fth"); err == nil {
		t.Fatalf("expected an error for a file the opener cannot resolve")
	}
}

func TestResumeFuncRunsOnPop(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte("outer"), "main.fth", 1, nil, nil, false)
	ran := false
	r.PushSource([]byte("x"), "inner.fth", 1, func(arg interface{}) {
		ran = true
		if arg != "marker" {
			t.Fatalf("got resume arg %v, want marker", arg)
		}
	}, "marker", false)

	r.GetWord() // consumes "x", frame now at eof but not yet popped
	if ran {
		t.Fatalf("resume function ran before the frame was popped")
	}
	r.GetWord() // this pops the exhausted inner frame
	if !ran {
		t.Fatalf("resume function never ran")
	}
}

func TestGetWordInLineStopsAtNewline(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte("  foo\nbar"), "t.fth", 1, nil, nil, false)
	got, ok := r.GetWordInLine()
	if !ok || got != "foo" {
		t.Fatalf("got (%q, %v), want (foo, true)", got, ok)
	}
	if _, ok := r.GetWordInLine(); ok {
		t.Fatalf("expected ok=false when only a newline remains on the line")
	}
	// the newline must still be there for a normal GetWord to cross.
	got, ok = r.GetWord()
	if !ok || got != "bar" {
		t.Fatalf("got (%q, %v), want (bar, true)", got, ok)
	}
}

func TestGetUntilFindsDelimiter(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte(`hello world" rest`), "t.fth", 1, nil, nil, false)
	got, ok := r.GetUntil('"')
	if !ok || got != "hello world" {
		t.Fatalf("got (%q, %v), want (\"hello world\", true)", got, ok)
	}
	got, ok = r.GetWord()
	if !ok || got != "rest" {
		t.Fatalf("got (%q, %v), want (rest, true) after consuming the delimiter", got, ok)
	}
}

func TestGetUntilWithoutDelimiterReturnsFalse(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte("no closing quote"), "t.fth", 1, nil, nil, false)
	_, ok := r.GetUntil('"')
	if ok {
		t.Fatalf("expected ok=false when the delimiter never appears")
	}
}

func TestPeekByteAndNextByte(t *testing.T) {
	r := NewReader(nil, nil)
	r.PushSource([]byte("ab"), "t.fth", 1, nil, nil, false)
	b, ok := r.PeekByte()
	if !ok || b != 'a' {
		t.Fatalf("got (%q, %v), want (a, true)", b, ok)
	}
	b, ok = r.NextByte()
	if !ok || b != 'a' {
		t.Fatalf("NextByte got (%q, %v), want (a, true)", b, ok)
	}
	b, ok = r.NextByte()
	if !ok || b != 'b' {
		t.Fatalf("NextByte got (%q, %v), want (b, true)", b, ok)
	}
	if _, ok := r.NextByte(); ok {
		t.Fatalf("expected ok=false once the frame is exhausted")
	}
}
