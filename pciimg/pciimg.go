/*
 * fcode-utils-sub000 - PCI expansion-ROM image assembler.
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

// Package pciimg assembles the PCI expansion-ROM wrapper around one or
// more FCode blocks: the 26-byte ROM header, the 24-byte PCI Data
// Structure, and the length/last-image-flag fixups `pci-end` and
// `set-last-image` apply once an image's extent is known, per spec.md
// §4.10/§6.3.
package pciimg

import (
	"errors"
	"fmt"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/emit"
	"github.com/openbios/fcode-utils-sub000/fcbits"
)

// CodeType identifies the expansion-ROM's instruction set, per spec.md
// §6.3.
type CodeType uint8

const (
	CodeTypeX86          CodeType = 0
	CodeTypeOpenFirmware CodeType = 1
	CodeTypeHPPARisc     CodeType = 2
	CodeTypeEFI          CodeType = 3
)

const (
	romHeaderLen  = 26
	pciDataLen    = 24
	pciDataRev    = 0
	blockSize     = 512
	lastImageBit  = 0x80
)

// image tracks the one open PCI image's fixup sites.
type image struct {
	start           int // OPC of the 0x55 0xAA signature
	pciDataStart    int // OPC of the "PCIR" signature
	lengthSlot      int // OPC of the 2-byte image-length-in-blocks field
	lastImageSlot   int // OPC of the 1-byte last-image-flag field
	codeType        CodeType
	firstFcodeSlot  int // OPC of the 2-byte reserved field (code type 1 only)
	firstFcodeKnown bool
}

// Assembler builds a sequence of PCI images into the same output buffer
// a plain (non-PCI) compilation would write FCode blocks into directly.
type Assembler struct {
	buf  *emit.Buffer
	rep  *diag.Reporter
	open *image
}

// New creates a PCI image assembler writing into buf.
func New(buf *emit.Buffer, rep *diag.Reporter) *Assembler {
	return &Assembler{buf: buf, rep: rep}
}

// Header writes the ROM header and PCI Data Structure for a new image,
// per spec.md §6.3, and opens the fixups `End` and `SetLastImage` will
// need. revision is the image revision field (0x12); the PCI Data
// Structure's own revision byte is always pciDataRev.
func (a *Assembler) Header(vendor, device uint16, classCode uint32, codeType CodeType, revision uint16) error {
	if a.open != nil {
		return errors.New("pci-header issued with a previous image still open (missing pci-end)")
	}
	start := a.buf.OPC()
	a.buf.EmitByte(0x55)
	a.buf.EmitByte(0xAA)
	reservedStart := a.buf.OPC()
	for i := 0; i < 22; i++ {
		a.buf.EmitByte(0)
	}
	dataPtrSlot := a.buf.OPC()
	a.buf.EmitBytes([]byte{0, 0}) // little-endian pointer to PCI Data Structure, patched below
	a.buf.EmitBytes([]byte{0, 0}) // pad word after the 26-byte header; PCI Data Structure starts at offset 28

	pciDataStart := a.buf.OPC()
	var w16 [2]byte
	fcbits.PutLittleWord(w16[:], uint16(pciDataStart-start))
	a.buf.PatchBytes(dataPtrSlot, w16[:])

	a.buf.EmitBytes([]byte{'P', 'C', 'I', 'R'})
	fcbits.PutLittleWord(w16[:], vendor)
	a.buf.EmitBytes(w16[:])
	fcbits.PutLittleWord(w16[:], device)
	a.buf.EmitBytes(w16[:])
	a.buf.EmitBytes([]byte{0, 0}) // vital product data pointer, unused
	fcbits.PutLittleWord(w16[:], pciDataLen)
	a.buf.EmitBytes(w16[:])
	a.buf.EmitByte(pciDataRev)
	var w24 [3]byte
	fcbits.PutLittleTriplet(w24[:], classCode)
	a.buf.EmitBytes(w24[:])
	lengthSlot := a.buf.OPC()
	a.buf.EmitBytes([]byte{0, 0}) // image length in 512-byte blocks, patched by End
	fcbits.PutLittleWord(w16[:], revision)
	a.buf.EmitBytes(w16[:])
	a.buf.EmitByte(byte(codeType))
	lastImageSlot := a.buf.OPC()
	a.buf.EmitByte(0) // last-image flag, patched by SetLastImage
	a.buf.EmitBytes([]byte{0, 0})

	a.open = &image{
		start:          start,
		pciDataStart:   pciDataStart,
		lengthSlot:     lengthSlot,
		lastImageSlot:  lastImageSlot,
		codeType:       codeType,
		firstFcodeSlot: reservedStart,
	}
	return nil
}

// NoteFirstFcode records the offset of the first FCode starter within
// this image, for code type 1 (Open Firmware), which repurposes the
// first two reserved header bytes to hold it (spec.md §6.3). Only the
// first call per image has any effect.
func (a *Assembler) NoteFirstFcode() {
	if a.open == nil || a.open.codeType != CodeTypeOpenFirmware || a.open.firstFcodeKnown {
		return
	}
	var w16 [2]byte
	fcbits.PutLittleWord(w16[:], uint16(a.buf.OPC()-a.open.start))
	a.buf.PatchBytes(a.open.firstFcodeSlot, w16[:])
	a.open.firstFcodeKnown = true
}

// SetLastImage sets or clears the 0x80 last-image flag bit on the
// currently open image's flag byte. It returns an error when no image is
// open, including after End has closed the most recent one.
// set-last-image/not-last-image/last-image all route through this.
func (a *Assembler) SetLastImage(on bool) error {
	if a.open == nil {
		return errors.New("set-last-image/not-last-image with no open PCI image")
	}
	flag := byte(0)
	if on {
		flag = lastImageBit
	}
	a.buf.PatchBytes(a.open.lastImageSlot, []byte{flag})
	return nil
}

// End closes the currently open image: pads the output to a 512-byte
// boundary and patches the image-length-in-blocks field, per spec.md
// §4.10.
func (a *Assembler) End() error {
	if a.open == nil {
		return errors.New("pci-end with no matching pci-header")
	}
	size := a.buf.OPC() - a.open.start
	blocks := (size + blockSize - 1) / blockSize
	padded := blocks * blockSize
	for a.buf.OPC()-a.open.start < padded {
		a.buf.EmitByte(0)
	}
	if blocks > 0xFFFF {
		return fmt.Errorf("PCI image length %d blocks exceeds 16 bits", blocks)
	}
	var w16 [2]byte
	fcbits.PutLittleWord(w16[:], uint16(blocks))
	a.buf.PatchBytes(a.open.lengthSlot, w16[:])
	a.open = nil
	return nil
}

// Open reports whether a PCI image is currently open (between
// pci-header and pci-end).
func (a *Assembler) Open() bool { return a.open != nil }

// ImageInfo describes one PCI expansion-ROM image discovered by Walk.
type ImageInfo struct {
	Offset        int // offset of the 0x55 0xAA signature within data
	DataStructOff int // offset of the "PCIR" signature
	VendorID      uint16
	DeviceID      uint16
	ClassCode     uint32
	LengthBlocks  uint16
	Revision      uint16
	CodeType      CodeType
	LastImage     bool
	FcodeOffset   int // valid (non-zero) only when CodeType == CodeTypeOpenFirmware
}

// Walk parses a concatenated sequence of PCI expansion-ROM images out of
// data, stopping at the first image marked LastImage, a bad signature,
// or the end of data — the same shape `cmd/romheaders` and the
// detokenizer's `-v` PCI dump both need (SPEC_FULL.md §1.1).
func Walk(data []byte) ([]ImageInfo, error) {
	var out []ImageInfo
	off := 0
	for off+romHeaderLen <= len(data) {
		if data[off] != 0x55 || data[off+1] != 0xAA {
			if off == 0 {
				return nil, fmt.Errorf("not a PCI expansion-ROM image: bad signature at offset %d", off)
			}
			break
		}
		dataPtr := int(fcbits.LittleWord(data[off+0x18 : off+0x1A]))
		pciDataOff := off + dataPtr
		if pciDataOff+pciDataLen > len(data) {
			return nil, fmt.Errorf("PCI Data Structure at offset %d runs past end of image", pciDataOff)
		}
		if string(data[pciDataOff:pciDataOff+4]) != "PCIR" {
			return nil, fmt.Errorf("bad PCI Data Structure signature at offset %d", pciDataOff)
		}
		img := ImageInfo{
			Offset:        off,
			DataStructOff: pciDataOff,
			VendorID:      fcbits.LittleWord(data[pciDataOff+0x04 : pciDataOff+0x06]),
			DeviceID:      fcbits.LittleWord(data[pciDataOff+0x06 : pciDataOff+0x08]),
			ClassCode:     fcbits.LittleTriplet(data[pciDataOff+0x0D : pciDataOff+0x10]),
			LengthBlocks:  fcbits.LittleWord(data[pciDataOff+0x10 : pciDataOff+0x12]),
			Revision:      fcbits.LittleWord(data[pciDataOff+0x12 : pciDataOff+0x14]),
			CodeType:      CodeType(data[pciDataOff+0x14]),
			LastImage:     data[pciDataOff+0x15]&lastImageBit != 0,
		}
		if img.CodeType == CodeTypeOpenFirmware {
			img.FcodeOffset = int(fcbits.LittleWord(data[off+2 : off+4]))
		}
		out = append(out, img)
		if img.LengthBlocks == 0 {
			break
		}
		off += int(img.LengthBlocks) * blockSize
		if img.LastImage {
			break
		}
	}
	return out, nil
}
