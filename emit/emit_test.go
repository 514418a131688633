/*
 * fcode-utils-sub000 - Output buffer and FCode/PCI emitter tests.
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

package emit

import (
	"bytes"
	"testing"

	"github.com/openbios/fcode-utils-sub000/diag"
)

func TestEmitFcodeOneByteRange(t *testing.T) {
	b := NewBuffer()
	b.EmitFcode(0x00)
	b.EmitFcode(0x10)
	b.EmitFcode(0xFF)
	want := []byte{0x00, 0x10, 0xFF}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("got % x, want % x", b.Bytes(), want)
	}
}

func TestEmitFcodeTwoByteRange(t *testing.T) {
	b := NewBuffer()
	b.EmitFcode(0x0100)
	want := []byte{0x01, 0x00}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("got % x, want % x", b.Bytes(), want)
	}
}

func TestEmitLiteral(t *testing.T) {
	b := NewBuffer()
	b.EmitLiteral(0x10, -1)
	want := []byte{0x10, 0xff, 0xff, 0xff, 0xff}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("got % x, want % x", b.Bytes(), want)
	}
}

func TestEmitStringTruncatesAt255(t *testing.T) {
	b := NewBuffer()
	data := bytes.Repeat([]byte{'a'}, 300)
	b.EmitString(data)
	got := b.Bytes()
	if got[0] != 255 {
		t.Fatalf("got length byte %d, want 255", got[0])
	}
	if len(got) != 256 {
		t.Fatalf("got total length %d, want 256", len(got))
	}
}

func TestFcodeHdrRoundTripPatchesLengthAndChecksum(t *testing.T) {
	b := NewBuffer()
	b.EmitFcodeHdr(0xf0, 0xfd) // start0, not version1: stays 16-bit
	if b.Mode() != Offset16 {
		t.Fatalf("start0 should leave the buffer in 16-bit offset mode")
	}
	b.EmitByte(0xAA)
	b.EmitByte(0xBB)
	if err := b.FinishFcodeHdr(0x00); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := b.Bytes()
	// starter(1) + format(1) + checksum(2) + length(4) + body(2) + end0(1)
	if len(got) != 11 {
		t.Fatalf("got length %d, want 11: % x", len(got), got)
	}
	length := uint32(got[4])<<24 | uint32(got[5])<<16 | uint32(got[6])<<8 | uint32(got[7])
	if length != 11 {
		t.Fatalf("got patched length %d, want 11", length)
	}
	// checksum sums every byte from after the length field through end0.
	wantSum := uint16(0xAA) + uint16(0xBB) + uint16(0x00)
	gotSum := uint16(got[2])<<8 | uint16(got[3])
	if gotSum != wantSum {
		t.Fatalf("got checksum %#x, want %#x", gotSum, wantSum)
	}
}

func TestFinishFcodeHdrWithoutOpenHeaderErrors(t *testing.T) {
	b := NewBuffer()
	if err := b.FinishFcodeHdr(0x00); err == nil {
		t.Fatalf("expected an error with no open fcode header")
	}
}

func TestEmitFcodeHdrVersion1SwitchesToOffset8(t *testing.T) {
	b := NewBuffer()
	b.EmitFcodeHdr(0xfd, 0xfd) // starter == version1
	if b.Mode() != Offset8 {
		t.Fatalf("version1 starter should switch the buffer to 8-bit offset mode")
	}
}

func TestReserveAndPatchOffset16(t *testing.T) {
	b := NewBuffer()
	b.EmitByte(0xAA)
	site := b.ReserveOffset()
	b.EmitByte(0xBB)
	target := b.OPC()
	if err := b.PatchOffset(site, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := target - site
	got := int16(uint16(b.Bytes()[site])<<8 | uint16(b.Bytes()[site+1]))
	if int(got) != want {
		t.Fatalf("got patched offset %d, want %d", got, want)
	}
}

func TestReserveAndPatchOffset8(t *testing.T) {
	b := NewBuffer()
	b.SetMode(Offset8)
	site := b.ReserveOffset()
	target := site + 5
	if err := b.PatchOffset(site, target); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := int8(b.Bytes()[site]); got != 5 {
		t.Fatalf("got patched offset %d, want 5", got)
	}
}

func TestPatchOffsetZeroIsInvalid(t *testing.T) {
	b := NewBuffer()
	site := b.ReserveOffset()
	if err := b.PatchOffset(site, site); err == nil {
		t.Fatalf("expected an error for a zero branch offset")
	}
}

func TestPatchOffsetOutOfRangeErrors(t *testing.T) {
	b := NewBuffer()
	b.SetMode(Offset8)
	site := b.ReserveOffset()
	if err := b.PatchOffset(site, site+200); err == nil {
		t.Fatalf("expected an error for an 8-bit offset that does not fit")
	}
}

func TestPatchBytesOverwritesInPlace(t *testing.T) {
	b := NewBuffer()
	b.EmitBytes([]byte{0, 0, 0, 0})
	b.PatchBytes(1, []byte{0xAB, 0xCD})
	want := []byte{0, 0xAB, 0xCD, 0}
	if !bytes.Equal(b.Bytes(), want) {
		t.Fatalf("got % x, want % x", b.Bytes(), want)
	}
}

func TestErrorDiscard(t *testing.T) {
	var out bytes.Buffer
	rep := diag.NewReporter(&out)
	if ErrorDiscard(rep) {
		t.Fatalf("a reporter with no errors should not discard output")
	}
	rep.Errorf(diag.Location{}, "", "boom")
	if !ErrorDiscard(rep) {
		t.Fatalf("a reporter with an error should discard output")
	}
}
