/*
 * fcode-utils-sub000 - Tokenizer orchestrator test set.
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

package toke

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/openbios/fcode-utils-sub000/config"
	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/tokens"
)

// noFiles is a FileOpener that never resolves anything; every test here
// compiles from an in-memory buffer with no fload/-I dependency.
type noFiles struct{}

func (noFiles) Open(name string, includeDirs []string) ([]byte, string, error) {
	return nil, "", fmt.Errorf("no files available in this test: %s", name)
}

func newTestCompiler() (*Compiler, *bytes.Buffer, *diag.Reporter) {
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	c := New(config.Default(), noFiles{}, rep)
	return c, &out, rep
}

func TestEmptyColonDefinitionEmitsColonAndSemicolon(t *testing.T) {
	c, _, rep := newTestCompiler()
	c.Run([]byte(": foo ;"), "test.fth")
	if rep.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %d", rep.ErrorCount())
	}
	got := c.Output()
	want := []byte{byte(tokens.TokColon), byte(tokens.TokSemicolon)}
	if !bytes.Equal(got, want) {
		t.Fatalf("got % x, want % x", got, want)
	}
}

func TestSemicolonWithoutColonReportsError(t *testing.T) {
	c, _, rep := newTestCompiler()
	c.Run([]byte(";"), "test.fth")
	if rep.ErrorCount() == 0 {
		t.Fatalf("expected an error for a stray ';'")
	}
}

func TestUnknownWordReportsError(t *testing.T) {
	c, _, rep := newTestCompiler()
	c.Run([]byte("this-word-does-not-exist"), "test.fth")
	if rep.ErrorCount() == 0 {
		t.Fatalf("expected an error for an unknown word")
	}
}

func TestConditionalCompilationSkipsInactiveBranch(t *testing.T) {
	c, _, rep := newTestCompiler()
	// "bogus" is never defined, but it sits in a branch that [DEFINED]
	// (on an undefined name) makes inactive, so it must never reach
	// word lookup and must not produce an unknown-word error.
	c.Run([]byte("[defined] not-a-real-word bogus [then]"), "test.fth")
	if rep.ErrorCount() != 0 {
		t.Fatalf("expected no errors, skipped branch should discard 'bogus' untouched, got %d", rep.ErrorCount())
	}
}

func TestDeviceScopeRoundTrip(t *testing.T) {
	c, _, rep := newTestCompiler()
	c.Run([]byte("new-device : probe ; finish-device"), "test.fth")
	if rep.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %d", rep.ErrorCount())
	}
}

func TestFinishDeviceWithoutNewDeviceReportsError(t *testing.T) {
	c, _, rep := newTestCompiler()
	c.Run([]byte("finish-device"), "test.fth")
	if rep.ErrorCount() == 0 {
		t.Fatalf("expected an error for finish-device with no matching new-device")
	}
}

func TestHexNumberLiteralCompiles(t *testing.T) {
	c, _, rep := newTestCompiler()
	c.Run([]byte("h# 10"), "test.fth")
	if rep.ErrorCount() != 0 {
		t.Fatalf("unexpected errors: %d", rep.ErrorCount())
	}
	if len(c.Output()) == 0 {
		t.Fatalf("expected a literal to be emitted")
	}
}
