/*
 * fcode-utils-sub000 - Additional-FCodes file loader tests.
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

package addfcodes

import (
	"strings"
	"testing"
)

func noneNamed(uint16) (string, bool) { return "", false }

func TestLoadParsesHexAssignment(t *testing.T) {
	tbl, diags := Load(strings.NewReader("0x123 my-word\n"), noneNamed)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	name, ok := tbl.Lookup(0x123)
	if !ok || name != "my-word" {
		t.Fatalf("got (%q, %v), want (my-word, true)", name, ok)
	}
	if tbl.Len() != 1 {
		t.Fatalf("got Len() %d, want 1", tbl.Len())
	}
}

func TestLoadSkipsBlankAndCommentLines(t *testing.T) {
	input := "# a comment\n\n\\ a backslash remark\n0x020 word-a\n"
	tbl, diags := Load(strings.NewReader(input), noneNamed)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if tbl.Len() != 1 {
		t.Fatalf("got Len() %d, want 1", tbl.Len())
	}
}

func TestLoadRejectsOutOfRangeNumber(t *testing.T) {
	tbl, diags := Load(strings.NewReader("0x800 too-high\n"), noneNamed)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if tbl.Len() != 0 {
		t.Fatalf("got Len() %d, want 0 for a rejected assignment", tbl.Len())
	}
}

func TestLoadRejectsMalformedLine(t *testing.T) {
	_, diags := Load(strings.NewReader("just-one-field\n"), noneNamed)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
}

func TestLoadRejectsInvalidHex(t *testing.T) {
	_, diags := Load(strings.NewReader("not-hex word\n"), noneNamed)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
}

func TestLoadRejectsDuplicateAgainstAlreadyNamed(t *testing.T) {
	already := func(n uint16) (string, bool) {
		if n == 0x050 {
			return "standard-word", true
		}
		return "", false
	}
	tbl, diags := Load(strings.NewReader("0x050 my-word\n"), already)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if _, ok := tbl.Lookup(0x050); ok {
		t.Fatalf("expected 0x050 not to be loaded since it was already named")
	}
}

func TestLoadRejectsDuplicateWithinFile(t *testing.T) {
	input := "0x060 first\n0x060 second\n"
	tbl, diags := Load(strings.NewReader(input), noneNamed)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	name, _ := tbl.Lookup(0x060)
	if name != "first" {
		t.Fatalf("got %q, want the first assignment to win", name)
	}
}

func TestLoadTruncatesOverlongName(t *testing.T) {
	longName := strings.Repeat("x", 40)
	tbl, _ := Load(strings.NewReader("0x070 "+longName+"\n"), noneNamed)
	name, ok := tbl.Lookup(0x070)
	if !ok {
		t.Fatalf("expected the assignment to load despite the long name")
	}
	if len(name) != maxName {
		t.Fatalf("got name length %d, want %d", len(name), maxName)
	}
}
