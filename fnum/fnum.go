/*
 * fcode-utils-sub000 - FCode number allocator and range tracker.
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

// Package fnum implements the user-range FCode number allocator
// (next_fcode, starting at 0x800) and the FCODE-PUSH/FCODE-POP/
// FCODE-RESET range tracker.
package fnum

import "github.com/openbios/fcode-utils-sub000/diag"

const (
	// FirstUser is the first user-assignable FCode number.
	FirstUser uint16 = 0x800
	// LastUser is the last legal FCode number.
	LastUser uint16 = 0xFFF
)

// Range is an inclusive span of previously assigned FCode numbers.
type Range struct{ Lo, Hi uint16 }

func (r Range) overlaps(o Range) bool {
	return r.Lo <= o.Hi && o.Lo <= r.Hi
}

// Allocator tracks the next FCode number to assign and the history of
// ranges already used, for overlap detection across FCODE-PUSH/POP.
type Allocator struct {
	next  uint16
	stack []uint16
	used  []Range
}

// New creates an allocator starting at FirstUser.
func New() *Allocator {
	return &Allocator{next: FirstUser}
}

// Peek returns the next number that would be assigned, without assigning
// it.
func (a *Allocator) Peek() uint16 { return a.next }

// Allocate assigns and returns the next FCode number, advancing the
// counter. Exceeding LastUser is fatal (spec.md §8.3: 0xFFF succeeds,
// 0x1000 is fatal).
func (a *Allocator) Allocate(rep *diag.Reporter, loc diag.Location) uint16 {
	if a.next > LastUser {
		rep.Fatalf(loc, "FCode assignment counter exceeded 0x%03x", LastUser)
		return 0
	}
	v := a.next
	a.next++
	return v
}

// Push saves the current counter value, per FCODE-PUSH.
func (a *Allocator) Push() {
	a.stack = append(a.stack, a.next)
}

// Pop restores the counter to the value saved by the matching Push,
// recording the range used in between and warning if it overlaps a
// previously recorded range (spec.md §3.5).
func (a *Allocator) Pop(rep *diag.Reporter, loc diag.Location) {
	if len(a.stack) == 0 {
		rep.Errorf(loc, "", "FCODE-POP with no matching FCODE-PUSH")
		return
	}
	saved := a.stack[len(a.stack)-1]
	a.stack = a.stack[:len(a.stack)-1]
	if a.next > saved {
		a.recordUsed(rep, loc, Range{saved, a.next - 1})
	}
	a.next = saved
}

// Reset resets the counter to FirstUser and clears the overlap-check
// history for the current PCI image, per FCODE-RESET.
func (a *Allocator) Reset() {
	a.next = FirstUser
	a.used = nil
	a.stack = nil
}

func (a *Allocator) recordUsed(rep *diag.Reporter, loc diag.Location, r Range) {
	for _, prev := range a.used {
		if prev.overlaps(r) {
			rep.Warnf(loc, "", "FCode range 0x%03x-0x%03x overlaps previously used range 0x%03x-0x%03x", r.Lo, r.Hi, prev.Lo, prev.Hi)
		}
	}
	a.used = append(a.used, r)
}
