/*
 * fcode-utils-sub000 - Control-flow compiler.
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

// Package flow implements the compile-time control-flow stack: IF/THEN/
// ELSE, BEGIN/AGAIN/UNTIL/WHILE/REPEAT, DO/LOOP/?DO, and CASE/OF/ENDOF,
// all with back-patched branch offsets emitted through an emit.Buffer.
package flow

import (
	"fmt"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/emit"
	"github.com/openbios/fcode-utils-sub000/tokens"
)

// Tag names the compile-time construct a Mark belongs to.
type Tag int

const (
	TagIf Tag = iota
	TagElse
	TagBegin
	TagWhile
	TagDo
	TagCase
)

func (t Tag) String() string {
	switch t {
	case TagIf:
		return "if"
	case TagElse:
		return "else"
	case TagBegin:
		return "begin"
	case TagWhile:
		return "while"
	case TagDo:
		return "do"
	case TagCase:
		return "case"
	default:
		return "?"
	}
}

// Mark is one entry on the compile-time flow stack.
type Mark struct {
	Tag        Tag
	Site       int // back-patch site, or backward target for BEGIN
	Extra      int // DO's loop-body start, patched by the matching LOOP
	Loc        diag.Location
	EndofSites []int // forward-branch sites pending an ENDCASE patch
}

// Stack is the per-definition control-flow compiler state. A fresh Stack
// is used for each colon-style body; spec.md §3.7 scopes flow marks to
// the current definition.
type Stack struct {
	marks     []*Mark
	buf       *emit.Buffer
	rep       *diag.Reporter
	loopDepth int
	retBal    int
}

// New creates a flow compiler writing into buf and reporting through rep.
func New(buf *emit.Buffer, rep *diag.Reporter) *Stack {
	return &Stack{buf: buf, rep: rep}
}

func (s *Stack) push(m *Mark) { s.marks = append(s.marks, m) }

func (s *Stack) pop() (*Mark, bool) {
	if len(s.marks) == 0 {
		return nil, false
	}
	m := s.marks[len(s.marks)-1]
	s.marks = s.marks[:len(s.marks)-1]
	return m, true
}

func (s *Stack) topCase() *Mark {
	for i := len(s.marks) - 1; i >= 0; i-- {
		if s.marks[i].Tag == TagCase {
			return s.marks[i]
		}
	}
	return nil
}

func mismatch(expect Tag, m *Mark, loc diag.Location) error {
	if m == nil {
		return fmt.Errorf("%s with no matching opener", expect)
	}
	return fmt.Errorf("%s does not match %s opened at %s", expect, m.Tag, m.Loc)
}

// If compiles the b?branch at the start of an IF.
func (s *Stack) If(loc diag.Location) {
	s.buf.EmitFcode(tokens.TokQBranch)
	site := s.buf.ReserveOffset()
	s.push(&Mark{Tag: TagIf, Site: site, Loc: loc})
}

// Else compiles the unconditional forward branch and patches IF's branch
// to land just past it.
func (s *Stack) Else(loc diag.Location) error {
	m, ok := s.pop()
	if !ok || m.Tag != TagIf {
		if ok {
			s.push(m)
		}
		return mismatch(TagElse, m, loc)
	}
	s.buf.EmitFcode(tokens.TokBranch)
	elseSite := s.buf.ReserveOffset()
	if err := s.buf.PatchOffset(m.Site, s.buf.OPC()); err != nil {
		return err
	}
	s.push(&Mark{Tag: TagElse, Site: elseSite, Loc: loc})
	return nil
}

// Then patches the pending IF or ELSE branch to the current position.
func (s *Stack) Then(loc diag.Location) error {
	m, ok := s.pop()
	if !ok || (m.Tag != TagIf && m.Tag != TagElse) {
		if ok {
			s.push(m)
		}
		return mismatch(TagIf, m, loc)
	}
	return s.buf.PatchOffset(m.Site, s.buf.OPC())
}

// Begin marks the backward-branch target with b(<mark).
func (s *Stack) Begin(loc diag.Location) {
	s.buf.EmitFcode(tokens.TokMark)
	s.push(&Mark{Tag: TagBegin, Site: s.buf.OPC(), Loc: loc})
}

// Again compiles an unconditional backward branch to the matching BEGIN.
func (s *Stack) Again(loc diag.Location) error {
	m, ok := s.pop()
	if !ok || m.Tag != TagBegin {
		if ok {
			s.push(m)
		}
		return mismatch(TagBegin, m, loc)
	}
	s.buf.EmitFcode(tokens.TokBranch)
	site := s.buf.ReserveOffset()
	return s.buf.PatchOffset(site, m.Site)
}

// Until compiles a conditional backward branch to the matching BEGIN.
func (s *Stack) Until(loc diag.Location) error {
	m, ok := s.pop()
	if !ok || m.Tag != TagBegin {
		if ok {
			s.push(m)
		}
		return mismatch(TagBegin, m, loc)
	}
	s.buf.EmitFcode(tokens.TokQBranch)
	site := s.buf.ReserveOffset()
	return s.buf.PatchOffset(site, m.Site)
}

// While compiles a conditional forward exit branch, leaving BEGIN's mark
// in place underneath for REPEAT to find.
func (s *Stack) While(loc diag.Location) error {
	if len(s.marks) == 0 || s.marks[len(s.marks)-1].Tag != TagBegin {
		var m *Mark
		if len(s.marks) > 0 {
			m = s.marks[len(s.marks)-1]
		}
		return mismatch(TagBegin, m, loc)
	}
	s.buf.EmitFcode(tokens.TokQBranch)
	site := s.buf.ReserveOffset()
	s.push(&Mark{Tag: TagWhile, Site: site, Loc: loc})
	return nil
}

// Repeat compiles the backward branch to BEGIN and patches WHILE's exit
// branch to the current position.
func (s *Stack) Repeat(loc diag.Location) error {
	wm, ok := s.pop()
	if !ok || wm.Tag != TagWhile {
		if ok {
			s.push(wm)
		}
		return mismatch(TagWhile, wm, loc)
	}
	bm, ok := s.pop()
	if !ok || bm.Tag != TagBegin {
		return mismatch(TagBegin, bm, loc)
	}
	s.buf.EmitFcode(tokens.TokBranch)
	backSite := s.buf.ReserveOffset()
	if err := s.buf.PatchOffset(backSite, bm.Site); err != nil {
		return err
	}
	return s.buf.PatchOffset(wm.Site, s.buf.OPC())
}

// Do compiles b(do) or b(?do) and reserves its forward exit-offset field.
func (s *Stack) Do(loc diag.Location, questionable bool) {
	tok := tokens.TokDo
	if questionable {
		tok = tokens.TokQDo
	}
	s.buf.EmitFcode(tok)
	site := s.buf.ReserveOffset()
	s.push(&Mark{Tag: TagDo, Site: site, Extra: s.buf.OPC(), Loc: loc})
	s.loopDepth++
}

// Loop compiles b(loop) or b(+loop), patches its backward branch to the
// loop body start, and patches DO's forward exit to the position after
// LOOP.
func (s *Stack) Loop(loc diag.Location, plus bool) error {
	m, ok := s.pop()
	if !ok || m.Tag != TagDo {
		if ok {
			s.push(m)
		}
		return mismatch(TagDo, m, loc)
	}
	tok := tokens.TokLoop
	if plus {
		tok = tokens.TokPlusLoop
	}
	s.buf.EmitFcode(tok)
	backSite := s.buf.ReserveOffset()
	if err := s.buf.PatchOffset(backSite, m.Extra); err != nil {
		return err
	}
	s.loopDepth--
	return s.buf.PatchOffset(m.Site, s.buf.OPC())
}

// Case opens a CASE block.
func (s *Stack) Case(loc diag.Location) {
	s.buf.EmitFcode(tokens.TokCase)
	s.push(&Mark{Tag: TagCase, Loc: loc})
}

// Of compiles b(of) and reserves its forward mismatch-branch field.
func (s *Stack) Of(loc diag.Location) error {
	if s.topCase() == nil {
		return mismatch(TagCase, nil, loc)
	}
	s.buf.EmitFcode(tokens.TokOf)
	site := s.buf.ReserveOffset()
	s.push(&Mark{Tag: TagWhile /* reuse slot shape, real tag irrelevant here */, Site: site, Loc: loc})
	return nil
}

// Endof compiles b(endof), patches the matching OF's mismatch branch to
// land here, and registers this ENDOF's own forward branch to be patched
// by ENDCASE.
func (s *Stack) Endof(loc diag.Location) error {
	m, ok := s.pop()
	if !ok {
		return mismatch(TagWhile, m, loc)
	}
	cm := s.topCase()
	if cm == nil {
		return mismatch(TagCase, nil, loc)
	}
	s.buf.EmitFcode(tokens.TokEndof)
	endofSite := s.buf.ReserveOffset()
	if err := s.buf.PatchOffset(m.Site, s.buf.OPC()); err != nil {
		return err
	}
	cm.EndofSites = append(cm.EndofSites, endofSite)
	return nil
}

// Endcase compiles b(endcase) and patches every pending ENDOF branch from
// this CASE to land here.
func (s *Stack) Endcase(loc diag.Location) error {
	m, ok := s.pop()
	if !ok || m.Tag != TagCase {
		if ok {
			s.push(m)
		}
		return mismatch(TagCase, m, loc)
	}
	s.buf.EmitFcode(tokens.TokEndcase)
	target := s.buf.OPC()
	for _, site := range m.EndofSites {
		if err := s.buf.PatchOffset(site, target); err != nil {
			return err
		}
	}
	return nil
}

// LoopDepth reports the current DO nesting depth, for validating i/j/
// unloop/leave.
func (s *Stack) LoopDepth() int { return s.loopDepth }

// OnToR bumps the heuristic return-stack-usage counter on `>r`.
func (s *Stack) OnToR() { s.retBal++ }

// OnRFrom decrements the heuristic return-stack-usage counter on `r>`.
func (s *Stack) OnRFrom() { s.retBal-- }

// CheckReturnStackBalance issues a non-authoritative warning if the
// heuristic counter is non-zero at `;`/`exit`, per spec.md §4.6 and the
// design note that this check is explicitly heuristic.
func (s *Stack) CheckReturnStackBalance(loc diag.Location) {
	if s.retBal != 0 {
		s.rep.Warnf(loc, "", "possible return-stack imbalance (heuristic, not authoritative)")
	}
}

// Flush reports every still-open flow mark at end-of-definition,
// fcode-end, or end0/end1, per spec.md §4.6's imbalance handling, and
// clears the stack.
func (s *Stack) Flush(loc diag.Location) {
	for _, m := range s.marks {
		s.rep.Errorf(loc, "", "unbalanced %s, opened at %s", m.Tag, m.Loc)
	}
	s.marks = nil
}

// Empty reports whether every opened construct has been closed.
func (s *Stack) Empty() bool { return len(s.marks) == 0 }
