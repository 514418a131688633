/*
 * fcode-utils-sub000 - Lexical scanner tests.
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

package scanner

import (
	"bytes"
	"testing"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/source"
)

func TestParseNumberDecimal(t *testing.T) {
	v, ok := ParseNumber("123", 10)
	if !ok || v != 123 {
		t.Fatalf("got (%d, %v), want (123, true)", v, ok)
	}
}

func TestParseNumberNegative(t *testing.T) {
	v, ok := ParseNumber("-42", 10)
	if !ok || v != -42 {
		t.Fatalf("got (%d, %v), want (-42, true)", v, ok)
	}
}

func TestParseNumberHex(t *testing.T) {
	v, ok := ParseNumber("ff", 16)
	if !ok || v != 0xff {
		t.Fatalf("got (%d, %v), want (255, true)", v, ok)
	}
}

func TestParseNumberIgnoresEmbeddedDot(t *testing.T) {
	v, ok := ParseNumber("1.234", 10)
	if !ok || v != 1234 {
		t.Fatalf("got (%d, %v), want (1234, true)", v, ok)
	}
}

func TestParseNumberRejectsGarbage(t *testing.T) {
	if _, ok := ParseNumber("not-a-number", 10); ok {
		t.Fatalf("expected ok=false for non-numeric input")
	}
	if _, ok := ParseNumber("", 10); ok {
		t.Fatalf("expected ok=false for an empty token")
	}
}

func TestPackAsciiRightJustify(t *testing.T) {
	if got, want := PackAscii("PCIR", false), uint32(0x50434952); got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

func TestPackAsciiLeftJustifyPadsLowBytes(t *testing.T) {
	if got, want := PackAscii("CPU ", true), uint32(0x43505520); got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
	if got, want := PackAscii("CPU", true), uint32(0x43505500); got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}

func newTestScanner(input string, cfg Config) (*Scanner, *source.Reader, *bytes.Buffer) {
	r := source.NewReader(nil, nil)
	r.PushSource([]byte(input), "t.fth", 1, nil, nil, false)
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	return New(r, rep, cfg), r, &out
}

func TestScanPackedStringStopsAtQuoteSpace(t *testing.T) {
	s, _, out := newTestScanner(`hello" rest`, Config{})
	got, ok := s.ScanPackedString(false, 1)
	if !ok || string(got) != "hello" {
		t.Fatalf("got (%q, %v), want (hello, true)", got, ok)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected diagnostic output: %q", out.String())
	}
}

func TestScanPackedStringCStyleEscapes(t *testing.T) {
	s, _, _ := newTestScanner(`a\nb" `, Config{CStyleStringEscape: true})
	got, ok := s.ScanPackedString(false, 1)
	if !ok || string(got) != "a\nb" {
		t.Fatalf("got (%q, %v), want (\"a\\nb\", true)", got, ok)
	}
}

func TestScanPackedStringDoubleQuoteControlForms(t *testing.T) {
	s, _, _ := newTestScanner(`a"n" `, Config{})
	got, ok := s.ScanPackedString(false, 1)
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got) != "a\n" {
		t.Fatalf("got %q, want %q", got, "a\n")
	}
}

func TestScanPackedStringCloseParenForm(t *testing.T) {
	s, _, _ := newTestScanner("hello)", Config{})
	got, ok := s.ScanPackedString(true, 1)
	if !ok || string(got) != "hello" {
		t.Fatalf("got (%q, %v), want (hello, true)", got, ok)
	}
}

func TestScanPackedStringWarnsOnMultiLine(t *testing.T) {
	s, _, out := newTestScanner("a\nb\" ", Config{})
	s.ScanPackedString(false, 1)
	if out.Len() == 0 {
		t.Fatalf("expected a warning about the string crossing a line boundary")
	}
}

func TestScanPackedStringAllowNextMultiLineSuppressesWarning(t *testing.T) {
	s, _, out := newTestScanner("a\nb\" ", Config{})
	s.AllowNextMultiLine()
	s.ScanPackedString(false, 1)
	if out.Len() != 0 {
		t.Fatalf("unexpected diagnostic output with AllowNextMultiLine set: %q", out.String())
	}
}

func TestScanPackedStringUnterminatedWarns(t *testing.T) {
	s, _, out := newTestScanner("no terminator here", Config{})
	s.ScanPackedString(false, 1)
	if out.Len() == 0 {
		t.Fatalf("expected a warning about an unterminated string")
	}
}

func TestScanHexSequenceParsesBytePairs(t *testing.T) {
	s, _, _ := newTestScanner("deadbeef)", Config{})
	got, ok := s.ScanHexSequence()
	if !ok {
		t.Fatalf("expected the closing paren to be found")
	}
	want := []byte{0xde, 0xad, 0xbe, 0xef}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestScanHexSequenceFlushesLoneDigit(t *testing.T) {
	s, _, _ := newTestScanner("a b)", Config{})
	got, ok := s.ScanHexSequence()
	if !ok {
		t.Fatalf("expected the closing paren to be found")
	}
	want := []byte{0x0a, 0x0b}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestBaseDefaultsToDecimal(t *testing.T) {
	s, _, _ := newTestScanner("", Config{})
	if s.Base() != 10 {
		t.Fatalf("got base %d, want 10", s.Base())
	}
	s.SetBase(16)
	if s.Base() != 16 {
		t.Fatalf("got base %d, want 16 after SetBase", s.Base())
	}
}
