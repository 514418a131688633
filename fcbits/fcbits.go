/*
 * fcode-utils-sub000 - Byte/stream primitives.
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

// Package fcbits holds the big/little-endian fetch and store primitives
// shared by the tokenizer's emitter and the detokenizer's decoder, and by
// the PCI header reader/writer.
package fcbits

// BigWord fetches a big-endian 16-bit word from 2 bytes.
func BigWord(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

// LittleWord fetches a little-endian 16-bit word from 2 bytes.
func LittleWord(b []byte) uint16 {
	return uint16(b[1])<<8 | uint16(b[0])
}

// BigLong fetches a big-endian 32-bit value from 4 bytes.
func BigLong(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// LittleLong fetches a little-endian 32-bit value from 4 bytes.
func LittleLong(b []byte) uint32 {
	return uint32(b[3])<<24 | uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// LittleTriplet fetches a little-endian 24-bit value from 3 bytes. Used for
// the PCI class-code field.
func LittleTriplet(b []byte) uint32 {
	return uint32(b[2])<<16 | uint32(b[1])<<8 | uint32(b[0])
}

// PutBigWord stores x as a big-endian 16-bit word into dest[0:2].
func PutBigWord(dest []byte, x uint16) {
	dest[0] = byte(x >> 8)
	dest[1] = byte(x)
}

// PutLittleWord stores x as a little-endian 16-bit word into dest[0:2].
func PutLittleWord(dest []byte, x uint16) {
	dest[1] = byte(x >> 8)
	dest[0] = byte(x)
}

// PutBigLong stores x as a big-endian 32-bit value into dest[0:4].
func PutBigLong(dest []byte, x uint32) {
	dest[0] = byte(x >> 24)
	dest[1] = byte(x >> 16)
	dest[2] = byte(x >> 8)
	dest[3] = byte(x)
}

// PutLittleLong stores x as a little-endian 32-bit value into dest[0:4].
func PutLittleLong(dest []byte, x uint32) {
	dest[3] = byte(x >> 24)
	dest[2] = byte(x >> 16)
	dest[1] = byte(x >> 8)
	dest[0] = byte(x)
}

// PutLittleTriplet stores the low 24 bits of x into dest[0:3], little-endian.
func PutLittleTriplet(dest []byte, x uint32) {
	dest[2] = byte(x >> 16)
	dest[1] = byte(x >> 8)
	dest[0] = byte(x)
}

const hexDigits = "0123456789ABCDEF"

// FormatHexBytes renders data as upper-case hex pairs, space separated when
// space is true, matching the tokenizer's and detokenizer's printouts.
func FormatHexBytes(data []byte, space bool) string {
	out := make([]byte, 0, len(data)*3)
	for _, by := range data {
		out = append(out, hexDigits[(by>>4)&0xf], hexDigits[by&0xf])
		if space {
			out = append(out, ' ')
		}
	}
	return string(out)
}
