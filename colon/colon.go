/*
 * fcode-utils-sub000 - Colon-definition hiding and IBM-style Locals.
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

// Package colon implements the colon-definer's self-hiding discipline and
// IBM-style Local Values (the "{ n1 n2 | u1 u2 }" declaration form),
// ported from original_source/toke/parselocals.c's gather/activate/
// finish/forget sequence.
package colon

import (
	"strings"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/source"
	"github.com/openbios/fcode-utils-sub000/vocab"
)

// Definer tracks the currently-open colon definition, if any, handling
// the hide-during-compile / reveal-at-semicolon discipline of spec.md
// §4.3.1: a definition is invisible to its own body, so recursive use
// requires an explicit `recurse` word.
type Definer struct {
	chain  *vocab.Chain
	hidden *vocab.Entry
	name   string
	loc    diag.Location
	open   bool
}

// Start begins a colon definition: pushes a new entry for name onto
// chain, then immediately hides it.
func (d *Definer) Start(chain *vocab.Chain, name string, loc diag.Location) *vocab.Entry {
	e := &vocab.Entry{Name: name, Definer: vocab.DefColon}
	chain.Push(e)
	d.chain = chain
	d.hidden = chain.HideTop()
	d.name = name
	d.loc = loc
	d.open = true
	return e
}

// Open reports whether a colon definition is currently in progress.
func (d *Definer) Open() bool { return d.open }

// Name is the name of the definition currently in progress.
func (d *Definer) Name() string { return d.name }

// Loc is the location the definition was opened at.
func (d *Definer) Loc() diag.Location { return d.loc }

// Finish reveals the hidden entry, making the new definition visible to
// subsequent words, and closes the definer.
func (d *Definer) Finish() {
	if d.hidden != nil {
		d.chain.RevealTop(d.hidden)
	}
	d.hidden = nil
	d.chain = nil
	d.open = false
}

// Recurse returns the entry currently hidden, for the `recurse` word to
// reference directly without going through the chain's normal lookup.
func (d *Definer) Recurse() *vocab.Entry { return d.hidden }

// RevealNow reveals the hidden entry immediately, for `recursive`, and
// clears it so the later Finish call at `;` does not reveal it a second
// time. A no-op outside an open definition.
func (d *Definer) RevealNow() {
	if d.hidden == nil {
		return
	}
	d.chain.RevealTop(d.hidden)
	d.hidden = nil
}

// Local is one declared IBM-style Local Value.
type Local struct {
	Name    string
	Number  int
	Initted bool
}

// Locals manages one colon-definition's worth of Local-Value
// declarations: the "{ n1 n2 | u1 u2 }" form, its own vocabulary of
// names, and the running local-number counter, mirroring
// parselocals.c's local_names/num_ilocals/num_ulocals/localno statics.
type Locals struct {
	byName             map[string]*Local
	order              []*Local
	numInitted         int
	numUninitted       int
	nextNumber         int
	LegacySeparator    bool // accept ';' in place of '|'
	LegacySeparatorMsg bool // warn when the legacy separator is used
}

// NewLocals creates an empty Locals set.
func NewLocals(legacySeparator, legacySeparatorMsg bool) *Locals {
	return &Locals{
		byName:             make(map[string]*Local),
		LegacySeparator:    legacySeparator,
		LegacySeparatorMsg: legacySeparatorMsg,
	}
}

// Lookup reports whether name is a declared Local in this definition.
func (l *Locals) Lookup(name string) (*Local, bool) {
	v, ok := l.byName[strings.ToLower(name)]
	return v, ok
}

// NumInitted and NumUninitted report the counts {push-locals} needs.
func (l *Locals) NumInitted() int   { return l.numInitted }
func (l *Locals) NumUninitted() int { return l.numUninitted }

// Declare reads Local-Value names from r until the closing '}', per
// parselocals.c's gather_locals: a first group of initialized names,
// optionally followed by '|' (or, legacy, ';') and a second group of
// uninitialized names. exists reports whether a candidate name already
// names something else, and isNumber reports whether it parses as a
// number; both make a name invalid for declaration.
func (l *Locals) Declare(r *source.Reader, rep *diag.Reporter, startLoc diag.Location, exists func(string) bool, isNumber func(string) bool) error {
	sawSeparator, err := l.gather(r, rep, startLoc, true, exists, isNumber)
	if err != nil {
		return err
	}
	if sawSeparator {
		if _, err := l.gather(r, rep, startLoc, false, exists, isNumber); err != nil {
			return err
		}
	}
	return nil
}

func (l *Locals) isSeparator(tok string, rep *diag.Reporter, loc diag.Location) bool {
	if tok == "|" {
		return true
	}
	if tok == ";" && l.LegacySeparator {
		if l.LegacySeparatorMsg {
			rep.Warnf(loc, "", "semicolon as separator in locals declaration is deprecated in favor of '|'")
		}
		return true
	}
	return false
}

// gather collects one group (initted or uninitted) of Local names and
// reports whether it ended on the initted/uninitted separator (only
// meaningful when initted is true).
func (l *Locals) gather(r *source.Reader, rep *diag.Reporter, startLoc diag.Location, initted bool, exists func(string) bool, isNumber func(string) bool) (bool, error) {
	for {
		tok, ok := r.GetWord()
		if !ok {
			rep.Errorf(startLoc, "", "unterminated Local-Values declaration")
			return false, nil
		}
		if tok == "}" {
			return false, nil
		}
		if l.isSeparator(tok, rep, r.Location()) {
			if initted {
				return true, nil
			}
			rep.Errorf(r.Location(), "", "excess separator %q in Local-Values declaration", tok)
			continue
		}
		if exists(tok) {
			rep.Errorf(r.Location(), "", "cannot declare %s as a Local-Name; it is already defined", tok)
			continue
		}
		if isNumber(tok) {
			rep.Errorf(r.Location(), "", "cannot declare %s as a Local-Name; it is a number", tok)
			continue
		}
		loc := &Local{Name: tok, Number: l.nextNumber, Initted: initted}
		l.nextNumber++
		if initted {
			l.numInitted++
		} else {
			l.numUninitted++
		}
		l.byName[strings.ToLower(tok)] = loc
		l.order = append(l.order, loc)
	}
}

// Forget discards all declared locals at the end of the colon
// definition that declared them, per parselocals.c's forget_locals.
func (l *Locals) Forget() {
	l.byName = make(map[string]*Local)
	l.order = nil
	l.numInitted = 0
	l.numUninitted = 0
	l.nextNumber = 0
}
