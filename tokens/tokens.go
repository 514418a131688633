/*
 * fcode-utils-sub000 - Built-in FCode token table.
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

// Package tokens holds the standard FCode token assignment table
// (0x000..0x254, IEEE 1275-1994 plus the 64-bit extension addendum) shared
// by the tokenizer's core vocabulary and the detokenizer's number-to-name
// table, generated from one list as spec.md's design notes require.
package tokens

import "strings"

// Entry is one standard FCode token assignment.
type Entry struct {
	Number uint16
	Name   string
}

// Standard is the full standard token table, in assignment order exactly
// as the original dictionary carries it (the 64-bit addendum entries are
// appended after the base table, matching the source layout).
var Standard = []Entry{
	{0x000, "end0"},
	{0x010, "b(lit)"},
	{0x011, "b(')"},
	{0x012, "b(\")"},
	{0x013, "bbranch"},
	{0x014, "b?branch"},
	{0x015, "b(loop)"},
	{0x016, "b(+loop)"},
	{0x017, "b(do)"},
	{0x018, "b(?do)"},
	{0x019, "i"},
	{0x01a, "j"},
	{0x01b, "b(leave)"},
	{0x01c, "b(of)"},
	{0x01d, "execute"},
	{0x01e, "+"},
	{0x01f, "-"},
	{0x020, "*"},
	{0x021, "/"},
	{0x022, "mod"},
	{0x023, "and"},
	{0x024, "or"},
	{0x025, "xor"},
	{0x026, "invert"},
	{0x027, "lshift"},
	{0x028, "rshift"},
	{0x029, ">>a"},
	{0x02a, "/mod"},
	{0x02b, "u/mod"},
	{0x02c, "negate"},
	{0x02d, "abs"},
	{0x02e, "min"},
	{0x02f, "max"},
	{0x030, ">r"},
	{0x031, "r>"},
	{0x032, "r@"},
	{0x033, "exit"},
	{0x034, "0="},
	{0x035, "0<>"},
	{0x036, "0<"},
	{0x037, "0<="},
	{0x038, "0>"},
	{0x039, "0>="},
	{0x03a, "<"},
	{0x03b, ">"},
	{0x03c, "="},
	{0x03d, "<>"},
	{0x03e, "u>"},
	{0x03f, "u<="},
	{0x040, "u<"},
	{0x041, "u>="},
	{0x042, ">="},
	{0x043, "<="},
	{0x044, "between"},
	{0x045, "within"},
	{0x046, "drop"},
	{0x047, "dup"},
	{0x048, "over"},
	{0x049, "swap"},
	{0x04a, "rot"},
	{0x04b, "-rot"},
	{0x04c, "tuck"},
	{0x04d, "nip"},
	{0x04e, "pick"},
	{0x04f, "roll"},
	{0x050, "?dup"},
	{0x051, "depth"},
	{0x052, "2drop"},
	{0x053, "2dup"},
	{0x054, "2over"},
	{0x055, "2swap"},
	{0x056, "2rot"},
	{0x057, "2/"},
	{0x058, "u2/"},
	{0x059, "2*"},
	{0x05a, "/c"},
	{0x05b, "/w"},
	{0x05c, "/l"},
	{0x05d, "/n"},
	{0x05e, "ca+"},
	{0x05f, "wa+"},
	{0x060, "la+"},
	{0x061, "na+"},
	{0x062, "char+"},
	{0x063, "wa1+"},
	{0x064, "la1+"},
	{0x065, "cell+"},
	{0x066, "chars"},
	{0x067, "/w*"},
	{0x068, "/l*"},
	{0x069, "cells"},
	{0x06a, "on"},
	{0x06b, "off"},
	{0x06c, "+!"},
	{0x06d, "@"},
	{0x06e, "l@"},
	{0x06f, "w@"},
	{0x070, "<w@"},
	{0x071, "c@"},
	{0x072, "!"},
	{0x073, "l!"},
	{0x074, "w!"},
	{0x075, "c!"},
	{0x076, "2@"},
	{0x077, "2!"},
	{0x078, "move"},
	{0x079, "fill"},
	{0x07a, "comp"},
	{0x07b, "noop"},
	{0x07c, "lwsplit"},
	{0x07d, "wljoin"},
	{0x07e, "lbsplit"},
	{0x07f, "bljoin"},
	{0x080, "wbflip"},
	{0x081, "upc"},
	{0x082, "lcc"},
	{0x083, "pack"},
	{0x084, "count"},
	{0x085, "body>"},
	{0x086, ">body"},
	{0x087, "fcode-revision"},
	{0x088, "span"},
	{0x089, "unloop"},
	{0x08a, "expect"},
	{0x08b, "alloc-mem"},
	{0x08c, "free-mem"},
	{0x08d, "key?"},
	{0x08e, "key"},
	{0x08f, "emit"},
	{0x090, "type"},
	{0x091, "(cr"},
	{0x092, "cr"},
	{0x093, "#out"},
	{0x094, "#line"},
	{0x095, "hold"},
	{0x096, "<#"},
	{0x097, "u#>"},
	{0x098, "sign"},
	{0x099, "u#"},
	{0x09a, "u#s"},
	{0x09b, "u."},
	{0x09c, "u.r"},
	{0x09d, "."},
	{0x09e, ".r"},
	{0x09f, ".s"},
	{0x0a0, "base"},
	{0x0a1, "convert"},
	{0x0a2, "$number"},
	{0x0a3, "digit"},
	{0x0a4, "-1"},
	{0x0a5, "0"},
	{0x0a6, "1"},
	{0x0a7, "2"},
	{0x0a8, "3"},
	{0x0a9, "bl"},
	{0x0aa, "bs"},
	{0x0ab, "bell"},
	{0x0ac, "bounds"},
	{0x0ad, "here"},
	{0x0ae, "aligned"},
	{0x0af, "wbsplit"},
	{0x0b0, "bwjoin"},
	{0x0b1, "b(<mark)"},
	{0x0b2, "b(>resolve)"},
	{0x0b3, "set-token-table"},
	{0x0b4, "set-table"},
	{0x0b5, "new-token"},
	{0x0b6, "named-token"},
	{0x0b7, "b(:)"},
	{0x0b8, "b(value)"},
	{0x0b9, "b(variable)"},
	{0x0ba, "b(constant)"},
	{0x0bb, "b(create)"},
	{0x0bc, "b(defer)"},
	{0x0bd, "b(buffer:)"},
	{0x0be, "b(field)"},
	{0x0bf, "b(code)"},
	{0x0c0, "instance"},
	{0x0c2, "b(;)"},
	{0x0c3, "b(to)"},
	{0x0c4, "b(case)"},
	{0x0c5, "b(endcase)"},
	{0x0c6, "b(endof)"},
	{0x0c7, "#"},
	{0x0c8, "#s"},
	{0x0c9, "#>"},
	{0x0ca, "external-token"},
	{0x0cb, "$find"},
	{0x0cc, "offset16"},
	{0x0cd, "evaluate"},
	{0x0d0, "c,"},
	{0x0d1, "w,"},
	{0x0d2, "l,"},
	{0x0d3, ","},
	{0x0d4, "um*"},
	{0x0d5, "um/mod"},
	{0x0d8, "d+"},
	{0x0d9, "d-"},
	{0x0da, "get-token"},
	{0x0db, "set-token"},
	{0x0dc, "state"},
	{0x0dd, "compile,"},
	{0x0de, "behavior"},
	{0x0f0, "start0"},
	{0x0f1, "start1"},
	{0x0f2, "start2"},
	{0x0f3, "start4"},
	{0x0fc, "ferror"},
	{0x0fd, "version1"},
	{0x0fe, "4-byte-id"},
	{0x0ff, "end1"},
	{0x101, "dma-alloc"},
	{0x102, "my-address"},
	{0x103, "my-space"},
	{0x104, "memmap"},
	{0x105, "free-virtual"},
	{0x106, ">physical"},
	{0x10f, "my-params"},
	{0x110, "property"},
	{0x111, "encode-int"},
	{0x112, "encode+"},
	{0x113, "encode-phys"},
	{0x114, "encode-string"},
	{0x115, "encode-bytes"},
	{0x116, "reg"},
	{0x117, "intr"},
	{0x118, "driver"},
	{0x119, "model"},
	{0x11a, "device-type"},
	{0x11b, "parse-2int"},
	{0x11c, "is-install"},
	{0x11d, "is-remove"},
	{0x11e, "is-selftest"},
	{0x11f, "new-device"},
	{0x120, "diagnostic-mode?"},
	{0x121, "display-status"},
	{0x122, "memory-test-issue"},
	{0x123, "group-code"},
	{0x124, "mask"},
	{0x125, "get-msecs"},
	{0x126, "ms"},
	{0x127, "finish-device"},
	{0x128, "decode-phys"},
	{0x12b, "interpose"},
	{0x130, "map-low"},
	{0x131, "sbus-intr>cpu"},
	{0x150, "#lines"},
	{0x151, "#columns"},
	{0x152, "line#"},
	{0x153, "column#"},
	{0x154, "inverse?"},
	{0x155, "inverse-screen?"},
	{0x156, "frame-buffer-busy?"},
	{0x157, "draw-character"},
	{0x158, "reset-screen"},
	{0x159, "toggle-cursor"},
	{0x15a, "erase-screen"},
	{0x15b, "blink-screen"},
	{0x15c, "invert-screen"},
	{0x15d, "insert-characters"},
	{0x15e, "delete-characters"},
	{0x15f, "insert-lines"},
	{0x160, "delete-lines"},
	{0x161, "draw-logo"},
	{0x162, "frame-buffer-adr"},
	{0x163, "screen-height"},
	{0x164, "screen-width"},
	{0x165, "window-top"},
	{0x166, "window-left"},
	{0x16a, "default-font"},
	{0x16b, "set-font"},
	{0x16c, "char-height"},
	{0x16d, "char-width"},
	{0x16e, ">font"},
	{0x16f, "fontbytes"},
	{0x170, "fb1-draw-character"},
	{0x171, "fb1-reset-screen"},
	{0x172, "fb1-toggle-cursor"},
	{0x173, "fb1-erase-screen"},
	{0x174, "fb1-blink-screen"},
	{0x175, "fb1-invert-screen"},
	{0x176, "fb1-insert-characters"},
	{0x177, "fb1-delete-characters"},
	{0x178, "fb1-insert-lines"},
	{0x179, "fb1-delete-lines"},
	{0x17a, "fb1-draw-logo"},
	{0x17b, "fb1-install"},
	{0x17c, "fb1-slide-up"},
	{0x180, "fb8-draw-character"},
	{0x181, "fb8-reset-screen"},
	{0x182, "fb8-toggle-cursor"},
	{0x183, "fb8-erase-screen"},
	{0x184, "fb8-blink-screen"},
	{0x185, "fb8-invert-screen"},
	{0x186, "fb8-insert-characters"},
	{0x187, "fb8-delete-characters"},
	{0x188, "fb8-insert-lines"},
	{0x189, "fb8-delete-lines"},
	{0x18a, "fb8-draw-logo"},
	{0x18b, "fb8-install"},
	{0x1a0, "return-buffer"},
	{0x1a1, "xmit-packet"},
	{0x1a2, "poll-packet"},
	{0x1a4, "mac-address"},
	{0x201, "device-name"},
	{0x202, "my-args"},
	{0x203, "my-self"},
	{0x204, "find-package"},
	{0x205, "open-package"},
	{0x206, "close-package"},
	{0x207, "find-method"},
	{0x208, "call-package"},
	{0x209, "$call-parent"},
	{0x20a, "my-parent"},
	{0x20b, "ihandle>phandle"},
	{0x20d, "my-unit"},
	{0x20e, "$call-method"},
	{0x20f, "$open-package"},
	{0x210, "processor-type"},
	{0x211, "firmware-version"},
	{0x212, "fcode-version"},
	{0x213, "alarm"},
	{0x214, "(is-user-word)"},
	{0x215, "suspend-fcode"},
	{0x216, "abort"},
	{0x217, "catch"},
	{0x218, "throw"},
	{0x219, "user-abort"},
	{0x21a, "get-my-property"},
	{0x21b, "decode-int"},
	{0x21c, "decode-string"},
	{0x21d, "get-inherited-property"},
	{0x21e, "delete-property"},
	{0x21f, "get-package-property"},
	{0x220, "cpeek"},
	{0x221, "wpeek"},
	{0x222, "lpeek"},
	{0x223, "cpoke"},
	{0x224, "wpoke"},
	{0x225, "lpoke"},
	{0x226, "lwflip"},
	{0x227, "lbflip"},
	{0x228, "lbflips"},
	{0x229, "adr-mask"},
	{0x230, "rb@"},
	{0x231, "rb!"},
	{0x232, "rw@"},
	{0x233, "rw!"},
	{0x234, "rl@"},
	{0x235, "rl!"},
	{0x236, "wbflips"},
	{0x237, "lwflips"},
	{0x238, "probe"},
	{0x239, "probe-virtual"},
	{0x23b, "child"},
	{0x23c, "peer"},
	{0x23d, "next-property"},
	{0x23e, "byte-load"},
	{0x23f, "set-args"},
	{0x240, "left-parse-string"},
	{0x22e, "rx@"},
	{0x22f, "rx!"},
	{0x241, "bxjoin"},
	{0x242, "<l@"},
	{0x243, "lxjoin"},
	{0x244, "wxjoin"},
	{0x245, "x,"},
	{0x246, "x@"},
	{0x247, "x!"},
	{0x248, "/x"},
	{0x249, "/x*"},
	{0x24a, "xa+"},
	{0x24b, "xa1+"},
	{0x24c, "xbflip"},
	{0x24d, "xbflips"},
	{0x24e, "xbsplit"},
	{0x24f, "xlflip"},
	{0x250, "xlflips"},
	{0x251, "xlsplit"},
	{0x252, "xwflip"},
	{0x253, "xwflips"},
	{0x254, "xwsplit"},
}

var byName map[string]uint16
var byNumber map[uint16]string

func init() {
	byName = make(map[string]uint16, len(Standard))
	byNumber = make(map[uint16]string, len(Standard))
	for _, e := range Standard {
		byName[strings.ToUpper(e.Name)] = e.Number
		byNumber[e.Number] = e.Name
	}
}

// Lookup returns the token number for a standard name, case-insensitive.
func Lookup(name string) (uint16, bool) {
	n, ok := byName[strings.ToUpper(name)]
	return n, ok
}

// Name returns the standard name for a token number, if it has one.
func Name(number uint16) (string, bool) {
	n, ok := byNumber[number]
	return n, ok
}

// Definer-bearing tokens: the subset of the standard table whose presence
// in a compiled stream marks the start of a particular kind of definition,
// used by the detokenizer to decide how to print what follows and by the
// colon-definer to pick the defining-word token to emit.
const (
	TokColon      uint16 = 0x0b7 // b(:)
	TokSemicolon  uint16 = 0x0c2 // b(;)
	TokValue      uint16 = 0x0b8 // b(value)
	TokVariable   uint16 = 0x0b9 // b(variable)
	TokConstant   uint16 = 0x0ba // b(constant)
	TokCreate     uint16 = 0x0bb // b(create)
	TokDefer      uint16 = 0x0bc // b(defer)
	TokBuffer     uint16 = 0x0bd // b(buffer:)
	TokField      uint16 = 0x0be // b(field)
	TokCode       uint16 = 0x0bf // b(code)
	TokLiteral    uint16 = 0x010 // b(lit)
	TokTick       uint16 = 0x011 // b(')
	TokString     uint16 = 0x012 // b(")
	TokBranch     uint16 = 0x013 // bbranch
	TokQBranch    uint16 = 0x014 // b?branch
	TokLoop       uint16 = 0x015 // b(loop)
	TokPlusLoop   uint16 = 0x016 // b(+loop)
	TokDo         uint16 = 0x017 // b(do)
	TokQDo        uint16 = 0x018 // b(?do)
	TokLeave      uint16 = 0x01b // b(leave)
	TokOf         uint16 = 0x01c // b(of)
	TokMark       uint16 = 0x0b1 // b(<mark)
	TokResolve    uint16 = 0x0b2 // b(>resolve)
	TokCase       uint16 = 0x0c4 // b(case)
	TokEndcase    uint16 = 0x0c5 // b(endcase)
	TokEndof      uint16 = 0x0c6 // b(endof)
	TokTo         uint16 = 0x0c3 // b(to)
	TokNewToken   uint16 = 0x0b5 // new-token
	TokNamedToken uint16 = 0x0b6 // named-token
	TokExternal   uint16 = 0x0ca // external-token
	TokOffset16   uint16 = 0x0cc // offset16
	TokEnd0       uint16 = 0x000 // end0
	TokEnd1       uint16 = 0x0ff // end1
	TokStart0     uint16 = 0x0f0 // start0
	TokStart1     uint16 = 0x0f1 // start1
	TokStart2     uint16 = 0x0f2 // start2
	TokStart4     uint16 = 0x0f3 // start4
	TokVersion1   uint16 = 0x0fd // version1
)
