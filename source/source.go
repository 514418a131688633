/*
 * fcode-utils-sub000 - Source reader and file stack.
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

// Package source implements the nested input-frame stack every other
// front-end package reads through: a stream of bytes annotated with a
// logical (file, line) coordinate, supporting fload of another file,
// synthesized macro-body text, and the tokenizer-escape sub-reader.
package source

import (
	"fmt"

	"github.com/openbios/fcode-utils-sub000/diag"
)

const maxTokenLen = 1024 - 1

// FileOpener resolves a source-file name (honoring an include-path list)
// to its contents. cmd/toke supplies an os-backed implementation; tests
// supply an in-memory one.
type FileOpener interface {
	Open(name string, includeDirs []string) (data []byte, resolved string, err error)
}

// ResumeFunc runs once, at pop time, with the opaque argument supplied to
// PushSource. Used to close an underlying stream or restore a traced
// macro's active function after recursion-guard substitution.
type ResumeFunc func(arg interface{})

type frame struct {
	data           []byte
	pos            int
	file           string
	line           int
	resumeFn       ResumeFunc
	resumeArg      interface{}
	pauseBeforePop bool
}

func (f *frame) eof() bool { return f.pos >= len(f.data) }

func (f *frame) peek() byte { return f.data[f.pos] }

func (f *frame) next() byte {
	b := f.data[f.pos]
	f.pos++
	if b == '\n' {
		f.line++
	}
	return b
}

// Reader is the nested file/macro-body stack. The outermost frame is the
// primary source file; nested frames come from fload or synthesized text
// (escape-mode expansions, macro bodies).
type Reader struct {
	frames  []*frame
	opener  FileOpener
	include []string
	pending bool // true: next GetWord returns the empty-word pop boundary
}

// NewReader creates an empty reader. Call PushSource to install the
// primary input before the first GetWord.
func NewReader(opener FileOpener, includeDirs []string) *Reader {
	return &Reader{opener: opener, include: includeDirs}
}

// PushSource installs a new innermost frame. resumeFn, if non-nil, runs
// exactly once when this frame is popped, even on error unwind.
func (r *Reader) PushSource(data []byte, file string, startLine int, resumeFn ResumeFunc, arg interface{}, pauseBeforePop bool) {
	r.frames = append(r.frames, &frame{
		data: data, file: file, line: startLine,
		resumeFn: resumeFn, resumeArg: arg, pauseBeforePop: pauseBeforePop,
	})
}

// FLoad resolves name via the configured FileOpener and pushes it as a new
// frame whose file boundary is paused-before-pop, so the caller sees a
// clean end-of-file transition back into the includer.
func (r *Reader) FLoad(name string) error {
	data, resolved, err := r.opener.Open(name, r.include)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", name, err)
	}
	r.PushSource(data, resolved, 1, nil, nil, true)
	return nil
}

// Location reports the (file, line) of the innermost active frame.
func (r *Reader) Location() diag.Location {
	if len(r.frames) == 0 {
		return diag.Location{}
	}
	f := r.frames[len(r.frames)-1]
	return diag.Location{File: f.file, Line: f.line}
}

// Depth reports how many frames are currently stacked (1 = primary input
// only), used by fload-cycle diagnostics.
func (r *Reader) Depth() int { return len(r.frames) }

func (r *Reader) top() *frame {
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}

// popFrame pops the innermost frame, running its resume function, and
// records whether the next GetWord should return the pause boundary.
func (r *Reader) popFrame() {
	f := r.frames[len(r.frames)-1]
	r.frames = r.frames[:len(r.frames)-1]
	if f.resumeFn != nil {
		f.resumeFn(f.resumeArg)
	}
	if f.pauseBeforePop {
		r.pending = true
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isHSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

// GetWord returns the next whitespace-delimited token. ok is false only
// when every frame has been exhausted; a frame popped with
// pauseBeforePop set yields one empty-string/ok=true result before
// resuming the parent frame, per spec.md §4.1.
func (r *Reader) GetWord() (string, bool) {
	if r.pending {
		r.pending = false
		return "", true
	}
	for {
		f := r.top()
		if f == nil {
			return "", false
		}
		for !f.eof() && isSpace(f.peek()) {
			f.next()
		}
		if f.eof() {
			r.popFrame()
			if r.pending {
				r.pending = false
				return "", true
			}
			continue
		}
		start := f.pos
		for !f.eof() && !isSpace(f.peek()) {
			f.next()
			if f.pos-start > maxTokenLen {
				break
			}
		}
		return string(f.data[start:f.pos]), true
	}
}

// GetWordInLine behaves like GetWord but does not cross a newline: if
// only horizontal whitespace separates the cursor from the next token on
// the same line it is returned; otherwise ok is false and no input is
// consumed (the newline remains for the next GetWord).
func (r *Reader) GetWordInLine() (string, bool) {
	f := r.top()
	if f == nil {
		return "", false
	}
	save := f.pos
	for !f.eof() && isHSpace(f.peek()) {
		f.next()
	}
	if f.eof() || f.peek() == '\n' || f.peek() == '\r' {
		f.pos = save
		return "", false
	}
	start := f.pos
	for !f.eof() && !isSpace(f.peek()) {
		f.next()
	}
	return string(f.data[start:f.pos]), true
}

// GetUntil performs a raw copy of bytes up to (and consuming) delim,
// without whitespace treatment; used by string/comment scanning once the
// opening delimiter word has already been recognized. ok is false if
// delim is never found before the current frame's end.
func (r *Reader) GetUntil(delim byte) (string, bool) {
	f := r.top()
	if f == nil {
		return "", false
	}
	start := f.pos
	for !f.eof() {
		if f.peek() == delim {
			text := string(f.data[start:f.pos])
			f.next()
			return text, true
		}
		f.next()
	}
	return string(f.data[start:f.pos]), false
}

// PeekByte returns the next unconsumed byte of the innermost frame
// without advancing, used by the string scanner to classify escapes.
func (r *Reader) PeekByte() (byte, bool) {
	f := r.top()
	if f == nil || f.eof() {
		return 0, false
	}
	return f.peek(), true
}

// NextByte consumes and returns one raw byte from the innermost frame.
func (r *Reader) NextByte() (byte, bool) {
	f := r.top()
	if f == nil || f.eof() {
		return 0, false
	}
	return f.next(), true
}
