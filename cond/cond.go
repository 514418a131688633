/*
 * fcode-utils-sub000 - Conditional-compilation engine.
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

// Package cond implements the [IF]/[ELSE]/[THEN] conditional-compilation
// stack (and its `#ELSE`/`#THEN`/`[ENDIF]`/`#ENDIF` synonyms, resolved by
// the caller through tokens.LookupDirective; frames are opened by
// `[DEFINED]`, there being no `[IF]`/`#IF` directive). While any frame is
// inactive, the orchestrator is responsible for consuming skipped tokens
// through their ignore_fn rather than calling into this package; this
// package only tracks which branch, if any, is currently live.
package cond

import (
	"errors"
	"fmt"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/vocab"
)

// Frame is one open [IF]/[ELSE]/[THEN] level.
type Frame struct {
	Active   bool // true: this branch is currently being compiled
	ElseSeen bool
	Loc      diag.Location
}

// Stack is the nested conditional-compilation state for one input
// stream; spec.md §4.9 scopes it across the whole tokenization run, not
// per-definition, since [IF]/[THEN] may straddle colon definitions.
type Stack struct {
	frames []Frame
}

// New creates an empty conditional-compilation stack.
func New() *Stack { return &Stack{} }

// Skipping reports whether tokens should currently be discarded rather
// than compiled: true whenever any open frame is inactive, since nothing
// nested inside an inactive branch compiles regardless of its own
// condition.
func (s *Stack) Skipping() bool {
	for _, f := range s.frames {
		if !f.Active {
			return true
		}
	}
	return false
}

// Depth reports how many conditional levels are open.
func (s *Stack) Depth() int { return len(s.frames) }

// If opens a new level with the given condition result.
func (s *Stack) If(cond bool, loc diag.Location) {
	s.frames = append(s.frames, Frame{Active: cond, Loc: loc})
}

// Else flips the innermost frame's activity, erroring on a duplicate
// [ELSE] or an [ELSE] with no matching [IF].
func (s *Stack) Else(loc diag.Location) error {
	if len(s.frames) == 0 {
		return errors.New("[else] with no matching [if]")
	}
	f := &s.frames[len(s.frames)-1]
	if f.ElseSeen {
		return fmt.Errorf("duplicate [else] for [if] opened at %s", f.Loc)
	}
	f.Active = !f.Active
	f.ElseSeen = true
	return nil
}

// Then closes the innermost conditional level.
func (s *Stack) Then(loc diag.Location) error {
	if len(s.frames) == 0 {
		return errors.New("[then] with no matching [if]")
	}
	s.frames = s.frames[:len(s.frames)-1]
	return nil
}

// Flush reports every still-open conditional level at end of input, per
// the same unbalanced-construct discipline as package flow.
func (s *Stack) Flush(rep *diag.Reporter, loc diag.Location) {
	for _, f := range s.frames {
		rep.Errorf(loc, "", "unbalanced [if], opened at %s", f.Loc)
	}
	s.frames = nil
}

// Defined reports whether name resolves in any of the given chains,
// implementing the `[DEFINED]` test (spec.md §9's CLI/directive list).
// nil chains are skipped, matching vocab.LookupIn.
func Defined(name string, chains ...*vocab.Chain) bool {
	return vocab.LookupIn(name, chains...) != nil
}
