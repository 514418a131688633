/*
 * fcode-utils-sub000 - Lexical scanner.
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

// Package scanner builds numeric literals and packed strings out of the
// raw token/byte stream the source package supplies.
package scanner

import (
	"strconv"
	"strings"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/source"
)

const maxPackedString = 255

// Config mirrors the subset of spec.md §9's global-flags list that bears
// on scanning.
type Config struct {
	StringRemarkEscape bool
	CStyleStringEscape bool
	HexRemarkEscape    bool
}

// Scanner turns raw bytes from a source.Reader into numbers and packed
// strings. It owns no vocabulary state; number base is tracked here
// because HEX/DECIMAL/OCTAL affect only how literals parse.
type Scanner struct {
	r    *source.Reader
	rep  *diag.Reporter
	cfg  Config
	base int

	// allowMultiLine is a one-shot suppression of the multi-line-string
	// warning, set by the MULTI-LINE directive and cleared after the
	// next string is scanned.
	allowMultiLine bool
}

// New creates a Scanner reading from r, decimal by default.
func New(r *source.Reader, rep *diag.Reporter, cfg Config) *Scanner {
	return &Scanner{r: r, rep: rep, cfg: cfg, base: 10}
}

// Base returns the current numeric base.
func (s *Scanner) Base() int { return s.base }

// SetBase sets the numeric base (2, 8, 10, or 16).
func (s *Scanner) SetBase(b int) { s.base = b }

// AllowNextMultiLine suppresses the multi-line-string warning for the
// very next string scanned (the MULTI-LINE directive).
func (s *Scanner) AllowNextMultiLine() { s.allowMultiLine = true }

// ParseNumber attempts to parse tok as a signed 32-bit literal in base.
// Embedded '.' characters are permitted and ignored (the classic Forth
// double-cell marker, flattened here). ok is false if any non-digit,
// non-leading-sign, non-dot character remains.
func ParseNumber(tok string, base int) (int32, bool) {
	if tok == "" {
		return 0, false
	}
	neg := false
	body := tok
	if body[0] == '-' {
		neg = true
		body = body[1:]
	}
	body = strings.ReplaceAll(body, ".", "")
	if body == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(body, base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return int32(v), true
}

// PackAscii packs up to 4 characters of s into a 32-bit word. Right
// justification (the `a#` directive) places the last character in the
// lowest byte and pads missing high-order bytes with zero; left
// justification (`al#`) places the first character in the highest byte
// and pads missing low-order bytes with zero — e.g. "PCIR" → 0x50434952
// either way; "CPU" left → 0x43505500, right → 0x00435055.
func PackAscii(s string, leftJustify bool) uint32 {
	if len(s) > 4 {
		s = s[:4]
	}
	var v uint32
	if leftJustify {
		for i := 0; i < len(s); i++ {
			v |= uint32(s[i]) << uint(24-8*i)
		}
		return v
	}
	shift := 8 * (len(s) - 1)
	for i := 0; i < len(s); i++ {
		v |= uint32(s[i]) << uint(shift-8*i)
	}
	return v
}

// ScanHexSequence implements the `"( ... )` inline-hex-byte form. Hex
// digits are gathered in pairs to form bytes; a lone digit followed by
// whitespace (rather than another hex digit) is flushed as a one-byte
// value on its own — this mirrors the original get_sequence's behavior
// exactly, including the case of a bare whitespace appearing between two
// single hex digits; see DESIGN.md for why this is preserved rather than
// "fixed". Returns the accumulated bytes and whether ')' was found before
// the input ran out.
func (s *Scanner) ScanHexSequence() ([]byte, bool) {
	var out []byte
	var pending [2]byte
	pendLen := 0

	flush := func() {
		if pendLen == 0 {
			return
		}
		txt := string(pending[:pendLen])
		v, _ := strconv.ParseUint(txt, 16, 8)
		out = append(out, byte(v))
		pendLen = 0
	}

	for {
		b, ok := s.r.NextByte()
		if !ok {
			flush()
			return out, false
		}
		if b == ')' {
			flush()
			return out, true
		}
		if s.cfg.HexRemarkEscape && b == '\\' {
			s.skipLineRemark()
			continue
		}
		if isHexDigit(b) {
			pending[pendLen] = b
			pendLen++
			if pendLen == 2 {
				flush()
			}
			continue
		}
		// Not a hex digit: a lone pending digit is flushed as a
		// one-byte value now, per the preserved original behavior.
		flush()
	}
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// skipLineRemark consumes the rest of the current line and the leading
// whitespace of the next, used by the backslash-as-comment-escape forms.
func (s *Scanner) skipLineRemark() {
	for {
		b, ok := s.r.NextByte()
		if !ok {
			return
		}
		if b == '\n' {
			break
		}
	}
	for {
		b, ok := s.r.PeekByte()
		if !ok || (b != ' ' && b != '\t') {
			return
		}
		s.r.NextByte()
	}
}

// ScanPackedString reads a packed string body: the sequence of characters
// following one of the opening words (`"` `."` `s"` `.(` `abort"`) up to
// its terminator. The escape-introducer character is always '"' (a quote
// followed by a blank or a newline ends the string; a quote followed by
// one of the single-letter forms emits the corresponding control byte;
// '"(' begins an inline hex sequence). closeParen selects the `.( ... )`
// form, whose terminator is a bare ')' instead of the quote-whitespace
// rule.
func (s *Scanner) ScanPackedString(closeParen bool, startLine int) ([]byte, bool) {
	var out []byte
	truncated := false
	multiLine := false

	add := func(b byte) {
		if len(out) >= maxPackedString {
			truncated = true
			return
		}
		out = append(out, b)
	}

	for {
		b, ok := s.r.NextByte()
		if !ok {
			s.rep.Warnf(s.r.Location(), "", "unterminated string, opened at line %d", startLine)
			break
		}
		if closeParen && b == ')' {
			break
		}
		if !closeParen && b == '"' {
			nb, ok := s.r.PeekByte()
			if !ok {
				break
			}
			switch nb {
			case '(':
				s.r.NextByte()
				hexBytes, _ := s.ScanHexSequence()
				out = append(out, hexBytes...)
				continue
			case 'n':
				s.r.NextByte()
				add('\n')
				continue
			case 'r':
				s.r.NextByte()
				add('\r')
				continue
			case 't':
				s.r.NextByte()
				add('\t')
				continue
			case 'f':
				s.r.NextByte()
				add('\f')
				continue
			case 'l':
				s.r.NextByte()
				add('\n')
				continue
			case 'b':
				s.r.NextByte()
				add(0x08)
				continue
			case '!':
				s.r.NextByte()
				add(0x07)
				continue
			case '^':
				s.r.NextByte()
				cb, ok := s.r.NextByte()
				if ok {
					add(cb & 0x1f)
				}
				continue
			case ' ', '\t':
				s.r.NextByte()
				goto done
			case '\n':
				goto done
			default:
				if s.cfg.StringRemarkEscape && nb == '\\' {
					s.r.NextByte()
					s.skipLineRemark()
					continue
				}
				s.r.NextByte()
				add(nb)
				continue
			}
		}
		if b == '\n' {
			multiLine = true
			add(b)
			continue
		}
		if s.cfg.CStyleStringEscape && b == '\\' {
			cb, ok := s.r.NextByte()
			if ok {
				add(cStyleEscape(cb))
			}
			continue
		}
		add(b)
	}
done:
	if truncated {
		s.rep.Warnf(s.r.Location(), "", "string truncated to %d bytes", maxPackedString)
	}
	if multiLine && !s.allowMultiLine {
		s.rep.Warnf(s.r.Location(), "", "string crosses a line boundary, opened at line %d", startLine)
	}
	s.allowMultiLine = false
	return out, true
}

func cStyleEscape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'b':
		return 0x08
	case 'f':
		return 0x0c
	case '0':
		return 0
	default:
		return c
	}
}
