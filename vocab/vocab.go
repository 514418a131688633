/*
 * fcode-utils-sub000 - Vocabulary substrate.
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

// Package vocab implements the TIC (Threaded Interpretive Code) entry and
// the singly-linked, case-insensitive vocabulary chains every scope in
// the compiler (core, per-device, locals, tokenizer-escape) is built
// from.
package vocab

import (
	"strings"

	"github.com/openbios/fcode-utils-sub000/diag"
)

// Definer names the kind of defining word that produced an entry.
type Definer int

const (
	DefUnspecified Definer = iota
	DefCommonFword
	DefBuiltinFword
	DefColon
	DefValue
	DefVariable
	DefDefer
	DefConstant
	DefCreate
	DefField
	DefBuffer
	DefAlias
	DefMacro
	DefLocal
)

// ActiveFunc is invoked when a name is encountered; its argument is
// whatever "current compiling environment" type the caller (package toke)
// passes, kept as interface{} here so vocab has no dependency on toke.
type ActiveFunc func(env interface{}) error

// Entry is one TIC vocabulary record, per spec.md §3.2.
type Entry struct {
	Name     string
	Next     *Entry // previous entry in the chain; never an ownership link
	ActiveFn ActiveFunc
	IgnoreFn ActiveFunc
	Pfield   interface{}
	Definer  Definer
	IsToken  bool
	Tracing  bool
	PfldSize int
}

// OwnsPayload reports whether this entry's Pfield is owned storage that
// must travel with it (spec.md §3.2's invariant); aliases never own it.
func (e *Entry) OwnsPayload() bool { return e.PfldSize > 0 }

// Chain is a singly linked LIFO vocabulary list; Head is the most
// recently added entry.
type Chain struct {
	Head *Entry
	Name string // for diagnostics ("core", "device", "locals", "escape")
}

// NewChain creates an empty chain labeled name (used only in messages).
func NewChain(name string) *Chain { return &Chain{Name: name} }

// Lookup walks the chain head-to-tail for a case-insensitive name match.
func (c *Chain) Lookup(name string) *Entry {
	for e := c.Head; e != nil; e = e.Next {
		if strings.EqualFold(e.Name, name) {
			return e
		}
	}
	return nil
}

// Push adds e to the head of the chain.
func (c *Chain) Push(e *Entry) {
	e.Next = c.Head
	c.Head = e
}

// Mark captures a reset position: the current head. ResetTo(mark) later
// discards every entry added since.
func (c *Chain) Mark() *Entry { return c.Head }

// ResetTo releases every entry between the current head and mark
// (exclusive), restoring the chain to the state it had when Mark was
// captured. In this implementation "release" means simply dropping the
// references; owned payload storage (macro body strings) is reclaimed by
// the garbage collector rather than an explicit free, but the reset
// point discipline itself is the one spec.md §3.3/§5 require.
func (c *Chain) ResetTo(mark *Entry) {
	c.Head = mark
}

// Len reports the number of live entries, used by the device-node-size
// invariant (spec.md §8.1 invariant 5).
func (c *Chain) Len() int {
	n := 0
	for e := c.Head; e != nil; e = e.Next {
		n++
	}
	return n
}

// HideTop detaches and returns the current head, for colon-definition
// hiding (spec.md §4.3.1): the definition becomes invisible to its own
// body until RevealTop restores it.
func (c *Chain) HideTop() *Entry {
	e := c.Head
	if e != nil {
		c.Head = e.Next
	}
	return e
}

// RevealTop re-attaches an entry previously removed by HideTop, making it
// visible again as the chain head.
func (c *Chain) RevealTop(e *Entry) {
	if e == nil {
		return
	}
	e.Next = c.Head
	c.Head = e
}

// CreateAlias adds a new entry to chain sharing old's behavior and
// payload, but never owning storage (PfldSize is always 0 for an alias,
// per spec.md §4.3's invariant).
func CreateAlias(chain *Chain, newName string, old *Entry) *Entry {
	e := &Entry{
		Name:     newName,
		ActiveFn: old.ActiveFn,
		IgnoreFn: old.IgnoreFn,
		Pfield:   old.Pfield,
		IsToken:  old.IsToken,
		Definer:  DefAlias,
		PfldSize: 0,
	}
	chain.Push(e)
	return e
}

// CreateSplitAlias is CreateAlias where the new entry lives in a
// different chain than the one that owns old (a device-scope alias to a
// globally defined word). It reports a diagnostic, since this is a
// notable cross-scope reference that vanishes at finish-device even
// though the thing it names does not.
func CreateSplitAlias(dstChain *Chain, newName string, old *Entry, rep *diag.Reporter, loc diag.Location) *Entry {
	e := CreateAlias(dstChain, newName, old)
	rep.Warnf(loc, "", "%s is a split alias for %s: device-scoped, referring to a global word", newName, old.Name)
	return e
}

// LookupIn searches chains in order and returns the first match,
// implementing the layered current-scope lookup of spec.md §4.3
// ("Current-scope lookup order"). nil chains are skipped so callers can
// pass an absent Locals/device chain unconditionally.
func LookupIn(name string, chains ...*Chain) *Entry {
	for _, c := range chains {
		if c == nil {
			continue
		}
		if e := c.Lookup(name); e != nil {
			return e
		}
	}
	return nil
}
