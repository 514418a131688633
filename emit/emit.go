/*
 * fcode-utils-sub000 - Output buffer and FCode/PCI emitter.
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

// Package emit implements the growable output buffer, the FCode token
// encoder, and the FCode-block header back-patcher (length + checksum).
package emit

import (
	"errors"
	"fmt"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/fcbits"
)

// OffsetMode selects 1-byte or 2-byte branch-offset encoding for the
// FCode block currently open.
type OffsetMode int

const (
	Offset16 OffsetMode = iota
	Offset8
)

type headerState struct {
	starterOPC  int
	formatSlot  int
	checksumSlot int
	lengthSlot  int
	bodyStart   int // first byte counted toward the checksum
}

// Buffer is the single growable output byte buffer the whole compilation
// unit writes into; OPC() is its monotonic output position counter.
type Buffer struct {
	data []byte
	mode OffsetMode
	hdr  *headerState
}

// NewBuffer creates an empty output buffer, 16-bit offset mode by
// default (matches the start0..4 starters; version1 switches it to 8-bit
// at EmitFcodeHdr time).
func NewBuffer() *Buffer {
	return &Buffer{mode: Offset16}
}

// OPC returns the current output position counter.
func (b *Buffer) OPC() int { return len(b.data) }

// Bytes returns the accumulated output. Only meaningful once the caller
// has confirmed the error count gate (diag.Reporter.ShouldWriteOutput).
func (b *Buffer) Bytes() []byte { return b.data }

// Mode reports the current branch-offset width mode.
func (b *Buffer) Mode() OffsetMode { return b.mode }

// SetMode sets the branch-offset width mode; used by the offset16
// directive, which only ever widens 8-bit blocks to 16-bit.
func (b *Buffer) SetMode(m OffsetMode) { b.mode = m }

// EmitByte appends one raw byte.
func (b *Buffer) EmitByte(v byte) {
	b.data = append(b.data, v)
}

// EmitBytes appends a raw byte slice.
func (b *Buffer) EmitBytes(v []byte) {
	b.data = append(b.data, v...)
}

// EmitFcode writes tok in its 1-or-2-byte encoding: one byte for
// [0x00, 0x00] and [0x10, 0xFF], two big-endian bytes (high nibble
// 0x01-0x0F) otherwise, per spec.md §6.2.
func (b *Buffer) EmitFcode(tok uint16) {
	if tok <= 0xFF {
		b.EmitByte(byte(tok))
		return
	}
	b.EmitByte(byte(tok >> 8))
	b.EmitByte(byte(tok))
}

// EmitLiteral emits b(lit) followed by a 32-bit big-endian value.
func (b *Buffer) EmitLiteral(litToken uint16, v int32) {
	b.EmitFcode(litToken)
	var buf [4]byte
	fcbits.PutBigLong(buf[:], uint32(v))
	b.EmitBytes(buf[:])
}

// EmitString emits a packed string: one length byte (truncated to 255
// with a warning by the caller before this is reached) then the bytes.
func (b *Buffer) EmitString(data []byte) {
	if len(data) > 255 {
		data = data[:255]
	}
	b.EmitByte(byte(len(data)))
	b.EmitBytes(data)
}

// EmitFcodeHdr begins a new FCode block: writes the starter token,
// format byte 0x08, and reserves the checksum/length slots for later
// back-patching by FinishFcodeHdr. version1 selects 8-bit branch offsets
// for this block; start0..4 select 16-bit.
func (b *Buffer) EmitFcodeHdr(starter uint16, version1 uint16) {
	starterOPC := b.OPC()
	b.EmitFcode(starter)
	if starter == version1 {
		b.mode = Offset8
	} else {
		b.mode = Offset16
	}
	formatSlot := b.OPC()
	b.EmitByte(0x08)
	checksumSlot := b.OPC()
	b.EmitBytes([]byte{0, 0})
	lengthSlot := b.OPC()
	b.EmitBytes([]byte{0, 0, 0, 0})
	b.hdr = &headerState{
		starterOPC:   starterOPC,
		formatSlot:   formatSlot,
		checksumSlot: checksumSlot,
		lengthSlot:   lengthSlot,
		bodyStart:    b.OPC(),
	}
}

// FinishFcodeHdr writes the terminator and back-patches the length (from
// starter through terminator inclusive) and the checksum (16-bit sum of
// every byte from the byte after the length field through the
// terminator, inclusive), per spec.md §6.1.
func (b *Buffer) FinishFcodeHdr(terminator uint16) error {
	if b.hdr == nil {
		return errors.New("finish-fcodehdr with no open fcode header")
	}
	h := b.hdr
	b.EmitFcode(terminator)
	end := b.OPC()

	length := uint32(end - h.starterOPC)
	fcbits.PutBigLong(b.data[h.lengthSlot:h.lengthSlot+4], length)

	var sum uint16
	for _, by := range b.data[h.bodyStart:end] {
		sum += uint16(by)
	}
	fcbits.PutBigWord(b.data[h.checksumSlot:h.checksumSlot+2], sum)

	b.hdr = nil
	return nil
}

// ReserveOffset writes a zero-filled placeholder for a branch offset in
// the current mode and returns its site (the OPC at which the offset
// field begins, as PatchOffset expects).
func (b *Buffer) ReserveOffset() int {
	site := b.OPC()
	if b.mode == Offset8 {
		b.EmitByte(0)
	} else {
		b.EmitBytes([]byte{0, 0})
	}
	return site
}

// PatchOffset back-patches the offset field at site to point at target.
// An offset of zero is invalid per spec.md §8.1 invariant 3.
func (b *Buffer) PatchOffset(site, target int) error {
	offset := target - site
	if offset == 0 {
		return fmt.Errorf("branch offset at %d resolves to zero", site)
	}
	if b.mode == Offset8 {
		if offset < -128 || offset > 127 {
			return fmt.Errorf("branch offset %d does not fit in 8 bits at %d", offset, site)
		}
		b.data[site] = byte(int8(offset))
		return nil
	}
	if offset < -32768 || offset > 32767 {
		return fmt.Errorf("branch offset %d does not fit in 16 bits at %d", offset, site)
	}
	fcbits.PutBigWord(b.data[site:site+2], uint16(int16(offset)))
	return nil
}

// PatchBytes overwrites the byte range starting at site with data, for
// non-branch fixups (PCI header pointers, lengths, flag bytes) that are
// plain value writes rather than signed relative offsets.
func (b *Buffer) PatchBytes(site int, data []byte) {
	copy(b.data[site:site+len(data)], data)
}

// ErrorDiscard reports whether the buffer's content should be discarded
// given the reporter's accumulated error count, per spec.md §7.
func ErrorDiscard(rep *diag.Reporter) bool {
	return !rep.ShouldWriteOutput()
}
