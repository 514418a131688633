/*
 * fcode-utils-sub000 - Additional-FCodes file loader.
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

// Package addfcodes loads the detokenizer's "additional FCodes" file
// (spec.md §6.6, `-f FILE`): a line-oriented text format assigning
// vendor-specific names to token numbers in [0x010, 0x7FF]. Malformed,
// out-of-range, or duplicate lines are reported but don't abort the
// rest of the file, per original_source/detok/addfcodes.c's
// add_fcodes_from_list and SPEC_FULL.md §4.12.
package addfcodes

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	minToken = 0x010
	maxToken = 0x7FF
	maxName  = 32
)

// Diagnostic is one problem line, with enough detail for the CLI to
// print every issue in the file in one pass rather than stopping at the
// first.
type Diagnostic struct {
	Line    int
	Message string
}

// Table is the loaded set of vendor-specific name assignments.
type Table struct {
	byNumber map[uint16]string
}

// Lookup returns the name assigned to number, if any.
func (t *Table) Lookup(number uint16) (string, bool) {
	name, ok := t.byNumber[number]
	return name, ok
}

// Len reports how many names were loaded.
func (t *Table) Len() int { return len(t.byNumber) }

// Load reads an additional-FCodes file from r. alreadyNamed reports
// whether number already has a standard or previously-loaded name, so
// duplicate assignments can be rejected the way the original rejects
// any number already present in its dictionary.
func Load(r io.Reader, alreadyNamed func(number uint16) (string, bool)) (*Table, []Diagnostic) {
	t := &Table{byNumber: make(map[uint16]string)}
	var diags []Diagnostic

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, `\`) {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			diags = append(diags, Diagnostic{lineNo, fmt.Sprintf("invalid format, ignoring: %s", line)})
			continue
		}
		numTok := fields[0]
		name := fields[1]

		hexPart := numTok
		if strings.HasPrefix(numTok, "0x") || strings.HasPrefix(numTok, "0X") {
			hexPart = numTok[2:]
		}
		num, err := strconv.ParseUint(hexPart, 16, 32)
		if err != nil {
			diags = append(diags, Diagnostic{lineNo, fmt.Sprintf("invalid FCode number, ignoring: %s", numTok)})
			continue
		}

		if num < minToken || num > maxToken {
			diags = append(diags, Diagnostic{lineNo, fmt.Sprintf("FCode number out of range: 0x%x, ignoring", num)})
			continue
		}
		if len(name) > maxName {
			name = name[:maxName]
		}

		token := uint16(num)
		if existing, ok := alreadyNamed(token); ok {
			diags = append(diags, Diagnostic{lineNo, fmt.Sprintf("FCode number 0x%x is already defined as %s, ignoring", token, existing)})
			continue
		}
		if existing, ok := t.byNumber[token]; ok {
			diags = append(diags, Diagnostic{lineNo, fmt.Sprintf("FCode number 0x%x is already defined as %s, ignoring", token, existing)})
			continue
		}

		t.byNumber[token] = name
	}
	return t, diags
}
