/*
 * fcode-utils-sub000 - FCode detokenizer.
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

// Package detok decompiles a tokenized FCode binary (optionally wrapped
// in a PCI expansion-ROM image) back into readable Forth source text, per
// spec.md §4.11. Detokenization writes directly to its output stream:
// anything that isn't a token's name is printed as a backslash-remark, so
// the output stays valid Forth that the tokenizer could re-compile.
package detok

import (
	"fmt"
	"io"
	"strings"

	"github.com/openbios/fcode-utils-sub000/detok/addfcodes"
	"github.com/openbios/fcode-utils-sub000/fcbits"
	"github.com/openbios/fcode-utils-sub000/pciclass"
	"github.com/openbios/fcode-utils-sub000/pciimg"
	"github.com/openbios/fcode-utils-sub000/tokens"
)

const unnamedFcode = "(unnamed-fcode)"

// Options controls detokenizer output, mirroring the CLI flags of
// spec.md §6.5.
type Options struct {
	Verbose     bool
	DecodeAll   bool
	LineNumbers bool
	Offsets     bool
}

// Dictionary is the detokenizer's token-number-to-name lookup: the
// standard table, an optional additional-FCodes table, and whatever
// new-token/named-token/external-token assigned within the stream being
// decoded, in that shadowing order (innermost wins), per
// original_source/detok/dictionary.c.
type Dictionary struct {
	extra       *addfcodes.Table
	local       map[uint16]string
	checkTokSeq bool
	lastDefined uint16
}

// NewDictionary creates a Dictionary. extra may be nil.
func NewDictionary(extra *addfcodes.Table) *Dictionary {
	return &Dictionary{extra: extra, local: make(map[uint16]string), checkTokSeq: true}
}

// Lookup returns the display name for token, or unnamedFcode if nothing
// claims it.
func (d *Dictionary) Lookup(token uint16) string {
	if name, ok := d.local[token]; ok {
		return name
	}
	if d.extra != nil {
		if name, ok := d.extra.Lookup(token); ok {
			return name
		}
	}
	if name, ok := tokens.Name(token); ok {
		return name
	}
	return unnamedFcode
}

// Add registers a new-token/named-token/external-token assignment read
// from the stream. It returns a non-empty warning when the number
// overlaps or is out of sequence with previously assigned numbers, for
// the caller to print as a remark in the output — add_token's checks
// report inline, not to a separate diagnostic stream.
func (d *Dictionary) Add(token uint16, name string) string {
	d.local[token] = name
	if !d.checkTokSeq {
		return ""
	}
	if token == d.lastDefined+1 || d.lastDefined == 0 {
		d.lastDefined = token
		return ""
	}
	if token <= d.lastDefined {
		return "Warning:  New token # might overlap previously assigned token #(s)."
	}
	d.lastDefined = token
	return "Warning:  New token # out of sequence with previously assigned token #(s)."
}

// ResetSequence clears only the overlap/out-of-sequence tracker, the way
// adjust_for_pci_header re-initializes last_defined_token between PCI
// images within the same file: separate PCI blocks may safely recycle
// token numbers.
func (d *Dictionary) ResetSequence() { d.lastDefined = 0 }

// Reset clears the per-file local assignments and the sequence tracker,
// for use between separate input files.
func (d *Dictionary) Reset() {
	d.local = make(map[uint16]string)
	d.lastDefined = 0
}

// eofStop unwinds Run's decode loop when the input is exhausted,
// mirroring throw_eof's setjmp/longjmp escape from arbitrarily deep
// token-dispatch recursion.
type eofStop struct{}

// decoder holds the mutable state of one in-progress detokenization.
type decoder struct {
	data []byte
	pos  int // absolute index into data, like the original's pc
	max  int // absolute index one past the valid input, == len(data)

	fcStart   int // base streampos() is computed against
	pciEnd    int // absolute index just after the current PCI image
	pciFound  bool
	endedOkay bool

	offs16   bool
	endFound bool
	fcode    uint16
	tokenPos int
	linenum  int
	indent   int

	dict *Dictionary
	opts Options
	out  io.Writer
}

func (d *decoder) streampos() int  { return d.pos - d.fcStart }
func (d *decoder) moreToGo() bool  { return d.pos < d.max }

func (d *decoder) throwEOF(premature bool) {
	prefix := ""
	if premature {
		prefix = "Premature "
	}
	if !d.endFound {
		prefix += "Unexpected "
	}
	fmt.Fprintf(d.out, "%send of file.\n", prefix)
	panic(eofStop{})
}

func (d *decoder) getBytes(n int) []byte {
	if d.pos == d.max {
		d.throwEOF(false)
	}
	if d.pos+n > d.max {
		d.throwEOF(true)
	}
	b := d.data[d.pos : d.pos+n]
	d.pos += n
	return b
}

func (d *decoder) get8() uint8   { return d.getBytes(1)[0] }
func (d *decoder) get16() uint16 { return fcbits.BigWord(d.getBytes(2)) }
func (d *decoder) get32() uint32 { return fcbits.BigLong(d.getBytes(4)) }

func (d *decoder) getOffset() int16 {
	if d.offs16 {
		return int16(d.get16())
	}
	return int16(int8(d.get8()))
}

// nextToken retrieves the next FCode token, updating d.fcode and
// d.tokenPos the way next_token() updates its globals.
func (d *decoder) nextToken() uint16 {
	d.tokenPos = d.streampos()
	tok := uint16(d.get8())
	if tok != 0 && tok < 0x10 {
		tok = tok<<8 | uint16(d.get8())
	}
	d.fcode = tok
	return tok
}

// calcChecksum computes the 16-bit checksum over an FCode block, assuming
// pos is positioned just after the stored checksum and before the length
// field, per calc_checksum. Input position is restored on return.
func (d *decoder) calcChecksum() uint16 {
	save := d.pos
	length := d.get32()
	body := d.getBytes(int(length) - 8)
	var sum uint16
	for _, b := range body {
		sum += uint16(b)
	}
	d.pos = save
	return sum
}

func (d *decoder) printRemark(text string) {
	for _, line := range strings.Split(text, "\n") {
		fmt.Fprintf(d.out, "\\  %s\n", line)
	}
}

func (d *decoder) printIndent() {
	if d.indent < 0 {
		d.indent = 0
	}
	for i := 0; i < d.indent; i++ {
		fmt.Fprint(d.out, "    ")
	}
}

func (d *decoder) printLineMarker() {
	if !d.opts.LineNumbers {
		return
	}
	if d.opts.Offsets {
		fmt.Fprintf(d.out, "%6d: ", d.tokenPos)
		return
	}
	fmt.Fprintf(d.out, "%6d: ", d.linenum)
	d.linenum++
}

// outputTokenName prints the name (and, where interesting, the hex
// number) of d.fcode, per output_token_name. If the tokenizer produced a
// token past every token registered so far, it backs the stream up over
// the offending lead byte instead of trusting the bogus number.
func (d *decoder) outputTokenName() {
	if d.fcode > d.dict.lastDefined && d.dict.lastDefined > 0 {
		topByte := uint8(d.fcode >> 8)
		fmt.Fprintf(d.out, "Invalid token:  [0x%03x]\n", d.fcode)
		if topByte < 10 {
			d.printRemark(fmt.Sprintf("Backing up over first byte, which is  %02x", topByte))
		} else {
			d.printRemark(fmt.Sprintf("Backing up over first byte, which is 0x%02x ( =dec %d)", topByte, topByte))
		}
		d.pos = d.fcStart + d.tokenPos + 1
		return
	}

	name := d.dict.Lookup(d.fcode)
	fmt.Fprintf(d.out, "%s ", name)
	if name == unnamedFcode {
		fmt.Fprintf(d.out, "[0x%03x] ", d.fcode)
	} else if d.opts.Verbose {
		fmt.Fprintf(d.out, "( 0x%03x ) ", d.fcode)
	}
}

func (d *decoder) outputToken() {
	d.printLineMarker()
	d.printIndent()
	d.outputTokenName()
}

// prettyPrintString prints a packed Forth string, bracketing unprintable
// bytes as "( XX YY )", per pretty_print_string.
func (d *decoder) prettyPrintString() {
	length := d.get8()
	str := d.getBytes(int(length))

	if length >= 10 {
		fmt.Fprintf(d.out, "( len=0x%x [%d bytes] )\n", length, length)
	} else {
		fmt.Fprintf(d.out, "( len=%x )\n", length)
	}
	if d.opts.LineNumbers {
		fmt.Fprint(d.out, "        ")
	}
	d.printIndent()
	fmt.Fprint(d.out, "\" ")

	inParens := false
	for _, c := range str {
		if c >= 0x20 && c < 0x7f {
			if inParens {
				fmt.Fprint(d.out, " )")
				inParens = false
			}
			fmt.Fprintf(d.out, "%c", c)
			if c == '"' {
				fmt.Fprintf(d.out, "%c", c)
			}
		} else {
			if !inParens {
				fmt.Fprint(d.out, "\"(")
				inParens = true
			}
			fmt.Fprintf(d.out, " %02x", c)
		}
	}
	if inParens {
		fmt.Fprint(d.out, " )")
	}
	fmt.Fprint(d.out, "\"")
}

// decodeOffset gathers and displays a branch offset, per decode_offset.
// The destination bound-check against the whole-file length, rather than
// the current image, is deliberately crude — the original calls this
// "crude and rudimentary" error detection and never tightens it.
func (d *decoder) decodeOffset() int16 {
	streampos := d.streampos()
	d.outputToken()
	offs := d.getOffset()
	dest := streampos + int(offs)
	invalidDest := dest <= 0 || dest > d.max || offs == 0

	if d.offs16 {
		fmt.Fprintf(d.out, "0x%04x (", uint16(offs))
	} else {
		fmt.Fprintf(d.out, "0x%02x (", uint8(offs))
	}
	if offs < 0 || offs > 9 {
		fmt.Fprintf(d.out, " =dec %d", offs)
	}
	if d.opts.Offsets || invalidDest {
		fmt.Fprintf(d.out, "  dest = %d ", dest)
	}
	fmt.Fprint(d.out, ")\n")

	if invalidDest {
		if offs == 0 {
			d.printRemark("Error:  Unresolved offset.")
		} else {
			d.printRemark("Error:  Invalid offset.  Ignoring...")
			d.pos = d.fcStart + streampos
		}
	}
	return offs
}

func (d *decoder) decodeDefault() {
	d.outputToken()
	fmt.Fprintln(d.out)
}

func (d *decoder) newToken() {
	d.outputToken()
	token := d.nextToken()
	fmt.Fprintf(d.out, "0x%03x\n", token)
	if msg := d.dict.Add(token, unnamedFcode); msg != "" {
		d.printRemark(msg)
	}
}

func (d *decoder) namedToken() {
	d.outputToken()
	length := d.get8()
	name := string(d.getBytes(int(length)))
	token := d.nextToken()
	fmt.Fprintf(d.out, "%s 0x%03x\n", name, token)
	if msg := d.dict.Add(token, name); msg != "" {
		d.printRemark(msg)
	}
}

func (d *decoder) bquote() {
	d.outputToken()
	d.prettyPrintString()
	fmt.Fprintln(d.out)
}

func (d *decoder) blit() {
	d.outputToken()
	lit := d.get32()
	fmt.Fprintf(d.out, "0x%x\n", lit)
}

func (d *decoder) offset16Directive() {
	d.decodeDefault()
	d.offs16 = true
}

func (d *decoder) decodeBranch() {
	if offs := d.decodeOffset(); offs >= 0 {
		d.indent++
	} else {
		d.indent--
	}
}

// decodeTwo handles b(') and b(to): the outer token followed immediately
// by the number of the word it refers to.
func (d *decoder) decodeTwo() {
	d.outputToken()
	d.nextToken()
	d.outputTokenName()
	fmt.Fprintln(d.out)
}

// decodeStart displays a (known valid) FCode block header and returns its
// declared length.
func (d *decoder) decodeStart() int {
	d.outputToken()
	width := 16
	if !d.offs16 {
		width = 8
	}
	fmt.Fprintf(d.out, "  ( %d-bit offsets)\n", width)

	d.tokenPos = d.streampos()
	d.printLineMarker()
	format := d.get8()
	fmt.Fprintf(d.out, "  format:    0x%02x\n", format)

	d.tokenPos = d.streampos()
	d.printLineMarker()
	storedChecksum := d.get16()
	checksum := d.calcChecksum()
	if storedChecksum == checksum {
		fmt.Fprintf(d.out, "  checksum:  0x%04x (Ok)\n", storedChecksum)
	} else {
		fmt.Fprintf(d.out, "  checksum should be:  0x%04x, but is 0x%04x\n", checksum, storedChecksum)
	}

	d.tokenPos = d.streampos()
	d.printLineMarker()
	length := d.get32()
	fmt.Fprintf(d.out, "  len:       0x%04x ( %d bytes)\n", length, length)
	return int(length)
}

func isBlockStarter(token uint16) bool {
	switch token {
	case tokens.TokVersion1, tokens.TokStart0, tokens.TokStart1, tokens.TokStart2, tokens.TokStart4:
		return true
	default:
		return false
	}
}

// decodeStartMidBlock handles an FCode-Block Starter found where a normal
// token was expected: warn, show the header, then ignore its (now
// meaningless) length field.
func (d *decoder) decodeStartMidBlock(token uint16) {
	d.offs16 = token != tokens.TokVersion1
	d.printRemark("Unexpected FCode-Block Starter.")
	d.decodeStart()
	d.printRemark("  Ignoring length field.")
}

// decodeToken dispatches one already-fetched token to its handler, per
// decode_token.
func (d *decoder) decodeToken(token uint16) {
	switch token {
	case tokens.TokNewToken:
		d.newToken()
	case tokens.TokNamedToken, tokens.TokExternal:
		d.namedToken()
	case tokens.TokString:
		d.bquote()
	case tokens.TokLiteral:
		d.blit()
	case tokens.TokOffset16:
		d.offset16Directive()
	case tokens.TokBranch, tokens.TokQBranch:
		d.decodeBranch()
	case tokens.TokColon, tokens.TokMark, tokens.TokCase:
		d.decodeDefault()
		d.indent++
	case tokens.TokSemicolon, tokens.TokResolve, tokens.TokEndcase:
		d.indent--
		d.decodeDefault()
	case tokens.TokLoop, tokens.TokPlusLoop, tokens.TokEndof:
		d.indent--
		d.decodeOffset()
	case tokens.TokDo, tokens.TokQDo, tokens.TokOf:
		d.decodeOffset()
		d.indent++
	case tokens.TokTick, tokens.TokTo:
		d.decodeTwo()
	case tokens.TokEnd0, tokens.TokEnd1:
		d.endFound = true
		d.decodeDefault()
	default:
		if isBlockStarter(token) {
			d.decodeStartMidBlock(token)
			return
		}
		d.decodeDefault()
	}
}

// decodeFcodeHeader detokenizes the header at the current position,
// returning the FCode block's declared length. An invalid starter byte
// is reported and the remaining input is treated as the block's length,
// per decode_fcode_header.
func (d *decoder) decodeFcodeHeader() int {
	errPos := d.streampos()
	d.indent = 0
	token := d.nextToken()

	if token == tokens.TokVersion1 {
		d.offs16 = false
		return d.decodeStart()
	}
	if isBlockStarter(token) {
		d.offs16 = true
		return d.decodeStart()
	}

	d.pos = d.fcStart + errPos
	fclen := d.max - d.pos
	fmt.Fprintln(d.out)
	msg := "Invalid FCode Start Byte.  Ignoring FCode header."
	if d.opts.LineNumbers {
		msg += fmt.Sprintf("  Remaining len = 0x%04x ( %d bytes)", fclen, fclen)
	}
	d.printRemark(msg)
	return fclen
}

// decodeFcodeBlock detokenizes one FCode block: header, then tokens until
// end0/end1 (or the declared length, whichever governs per -a).
func (d *decoder) decodeFcodeBlock() {
	d.endFound = false
	fcBlockStart := d.streampos()

	fclen := d.decodeFcodeHeader()
	fcBlockEnd := fcBlockStart + fclen

	for (!d.endFound || d.opts.DecodeAll) && d.streampos() < fcBlockEnd {
		token := d.nextToken()
		d.decodeToken(token)
	}
	if !d.endFound {
		d.printRemark("FCode-ender not found")
	}
	if d.streampos() == fcBlockEnd {
		d.printRemark(fmt.Sprintf("Detokenization finished normally after %d bytes.", fcBlockEnd-fcBlockStart))
	} else {
		d.printRemark(fmt.Sprintf("Detokenization finished prematurely after %d of %d bytes.",
			d.streampos()-fcBlockStart, fcBlockEnd-fcBlockStart))
		d.endedOkay = false
	}
}

// anotherFcodeBlock peeks at the next token to decide whether a further
// FCode block follows within the same PCI image, per another_fcode_block.
func (d *decoder) anotherFcodeBlock() bool {
	token := d.nextToken()
	d.pos = d.fcStart + d.tokenPos

	if isBlockStarter(token) {
		d.printRemark("Subsequent FCode Block detected.  Detokenizing.")
		return true
	}
	if token == 0 {
		return false
	}
	d.printRemark(fmt.Sprintf("Unexpected token, 0x%02x, after end of FCode block.", token))
	return false
}

// pciHeaderInfo is the subset of a PCI expansion-ROM header detok prints
// as remarks, gathered by peekPCIHeader.
type pciHeaderInfo struct {
	dataStructOff int
	dataStructLen int
	vendor        uint16
	device        uint16
	classCode     uint32
	codeType      pciimg.CodeType
	imageLenBytes int
	lastImage     bool
}

// peekPCIHeader examines data for a PCI ROM header at its start,
// returning the byte offset to the start of actual FCode data (0 if no
// header is present), per is_pci_header/is_pci_data_struct.
func peekPCIHeader(data []byte) (int, pciHeaderInfo) {
	const romHeaderLen = 26
	if len(data) < romHeaderLen || data[0] != 0x55 || data[1] != 0xaa {
		return 0, pciHeaderInfo{}
	}
	dptr := int(fcbits.LittleWord(data[0x18:0x1a]))
	if dptr <= 0 || dptr+24 > len(data) || string(data[dptr:dptr+4]) != "PCIR" {
		return 0, pciHeaderInfo{}
	}
	info := pciHeaderInfo{
		dataStructOff: dptr,
		dataStructLen: int(fcbits.LittleWord(data[dptr+0x08 : dptr+0x0a])),
		vendor:        fcbits.LittleWord(data[dptr+0x04 : dptr+0x06]),
		device:        fcbits.LittleWord(data[dptr+0x06 : dptr+0x08]),
		classCode:     fcbits.LittleTriplet(data[dptr+0x0d : dptr+0x10]),
		codeType:      pciimg.CodeType(data[dptr+0x14]),
		lastImage:     data[dptr+0x15]&0x80 != 0,
	}
	blocks := fcbits.LittleWord(data[dptr+0x10 : dptr+0x12])
	info.imageLenBytes = int(blocks) * 512
	if info.dataStructLen <= 0 {
		return 0, pciHeaderInfo{}
	}
	return dptr + info.dataStructLen, info
}

// adjustForPCIHeader skips a PCI header if one is present at the current
// position, printing its fields as remarks, per handle_pci_header.
func (d *decoder) adjustForPCIHeader() {
	size, info := peekPCIHeader(d.data[d.pos:d.max])
	if size > 0 {
		d.printRemark("PCI Header identified")
		d.printRemark(fmt.Sprintf("  Offset to Data Structure = 0x%04x (%d)", info.dataStructOff, info.dataStructOff))
		d.printRemark("PCI Data Structure identified")
		d.printRemark(fmt.Sprintf("  Data Structure Length = 0x%04x (%d)", info.dataStructLen, info.dataStructLen))
		d.printRemark(fmt.Sprintf("  Vendor ID: 0x%04x", info.vendor))
		d.printRemark(fmt.Sprintf("  Device ID: 0x%04x", info.device))
		d.printRemark(fmt.Sprintf("  Class Code: 0x%06x  (%s)", info.classCode, pciclass.DeviceClassName(info.classCode)))
		d.printRemark(fmt.Sprintf("  Code Type: 0x%02x (%s)", uint8(info.codeType), pciclass.CodeTypeName(uint8(info.codeType))))
		d.printRemark(fmt.Sprintf("  Image Length: 0x%04x blocks (%d bytes)", info.imageLenBytes/512, info.imageLenBytes))
		if info.lastImage {
			d.printRemark("  Last PCI Image.")
		} else {
			d.printRemark("  Not last PCI Image.")
		}
		d.pciEnd = d.pos + info.imageLenBytes
		d.pciFound = true
	} else {
		d.pciFound = false
	}
	d.pos += size
	d.fcStart += size
	d.dict.ResetSequence()
}

// adjustForPCIFiller skips the zero-padding between the last FCode block
// of a PCI image and the image's declared end, per handle_pci_filler.
func (d *decoder) adjustForPCIFiller() {
	if !d.pciFound {
		return
	}
	fillerLen := d.pciEnd - d.pos
	if fillerLen <= 0 {
		d.pciFound = false
		return
	}
	filler := d.getBytes(fillerLen)
	firstNonZero := -1
	for i, b := range filler {
		if b != 0 {
			firstNonZero = i
			break
		}
	}
	if firstNonZero < 0 {
		d.printRemark(fmt.Sprintf("PCI Image padded with %d bytes of zero", fillerLen))
	} else {
		d.printRemark(fmt.Sprintf("PCI Image padding-field of %d bytes had first non-zero byte at offset %d",
			fillerLen, firstNonZero))
	}
	d.pciFound = false
}

// Run detokenizes one input file's bytes, writing decompiled Forth text
// to out. It mirrors detokenize()'s outer loop: skip any PCI header,
// decode one or more FCode blocks within the resulting image, skip the
// image's padding, and repeat until the input is exhausted.
func Run(data []byte, out io.Writer, dict *Dictionary, opts Options) {
	d := &decoder{
		data: data, max: len(data), out: out, dict: dict, opts: opts,
		offs16: true, endedOkay: true, pciEnd: -1,
	}
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(eofStop); ok {
				return
			}
			panic(r)
		}
	}()

	for d.moreToGo() {
		if d.endedOkay {
			d.fcStart = d.pos
			d.linenum = 1
		}
		d.endedOkay = true

		d.adjustForPCIHeader()

		for {
			d.decodeFcodeBlock()
			if !d.anotherFcodeBlock() {
				break
			}
		}

		d.adjustForPCIFiller()
	}
	fmt.Fprintln(out)
}
