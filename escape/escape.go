/*
 * fcode-utils-sub000 - Tokenizer-escape mode interpreter.
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

// Package escape implements tokenizer-escape mode: the small bounded
// Forth-like interpreter entered by `tokenizer[` and left by
// `]tokenizer`, per spec.md §4.7. It runs against its own compile-time
// data stack, independent of any FCode data-stack the compiled program
// will itself manipulate at runtime.
package escape

import (
	"fmt"
	"strings"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/fnum"
)

// Env supplies the host operations tokenizer-escape words need beyond
// plain stack arithmetic: printing, FLOAD, name lookup, aliasing, number
// base, and the FCode number allocator.
type Env interface {
	Base() int
	SetBase(int)
	Print(s string)
	FLoad(name string, loc diag.Location) error
	Defined(name string) bool
	Alias(newName, oldName string) error
	Allocator() *fnum.Allocator
}

// Interp is one tokenizer-escape evaluation session; a fresh Interp is
// created at each `tokenizer[` and discarded at the matching
// `]tokenizer`.
type Interp struct {
	stack []int32
	env   Env
	rep   *diag.Reporter
}

// New creates an interpreter over env, reporting errors through rep.
func New(env Env, rep *diag.Reporter) *Interp {
	return &Interp{env: env, rep: rep}
}

// Push places v on the data stack.
func (ip *Interp) Push(v int32) { ip.stack = append(ip.stack, v) }

// Pop removes and returns the top of the data stack.
func (ip *Interp) Pop() (int32, error) {
	if len(ip.stack) == 0 {
		return 0, fmt.Errorf("tokenizer-escape stack underflow")
	}
	v := ip.stack[len(ip.stack)-1]
	ip.stack = ip.stack[:len(ip.stack)-1]
	return v, nil
}

// Depth reports the current data-stack depth.
func (ip *Interp) Depth() int { return len(ip.stack) }

// Results returns the data stack bottom-to-top, the order spec.md §4.7
// says remaining values are emitted as literals when returning to
// normal mode.
func (ip *Interp) Results() []int32 {
	out := make([]int32, len(ip.stack))
	copy(out, ip.stack)
	return out
}

func (ip *Interp) binop(f func(a, b int32) int32) error {
	b, err := ip.Pop()
	if err != nil {
		return err
	}
	a, err := ip.Pop()
	if err != nil {
		return err
	}
	ip.Push(f(a, b))
	return nil
}

func boolInt(b bool) int32 {
	if b {
		return -1 // Forth true is all-ones
	}
	return 0
}

// StringReader reads a delimited run of raw source text; passed in by
// the caller for `."` and `.(` since those need access to the input
// stream, not just the current token.
type StringReader func(delim byte) (string, error)

// Eval processes one tokenizer-escape word. For `."` and `.(`, readString
// is invoked to consume the quoted text from the input stream. It
// returns (true, nil) if tok was a recognized escape-mode word or a
// parseable number, (false, nil) if tok is unrecognized (the caller
// should report "unknown tokenizer-escape word"), or a non-nil error on
// a malformed operation (e.g. stack underflow).
func (ip *Interp) Eval(tok string, loc diag.Location, readString StringReader, parseNumber func(string, int) (int32, bool)) (bool, error) {
	lower := strings.ToLower(tok)
	switch lower {
	case "+":
		return true, ip.binop(func(a, b int32) int32 { return a + b })
	case "-":
		return true, ip.binop(func(a, b int32) int32 { return a - b })
	case "*":
		return true, ip.binop(func(a, b int32) int32 { return a * b })
	case "/":
		return true, ip.binop(func(a, b int32) int32 {
			if b == 0 {
				return 0
			}
			return a / b
		})
	case "mod":
		return true, ip.binop(func(a, b int32) int32 {
			if b == 0 {
				return 0
			}
			return a % b
		})
	case "and":
		return true, ip.binop(func(a, b int32) int32 { return a & b })
	case "or":
		return true, ip.binop(func(a, b int32) int32 { return a | b })
	case "xor":
		return true, ip.binop(func(a, b int32) int32 { return a ^ b })
	case "lshift":
		return true, ip.binop(func(a, b int32) int32 { return a << uint32(b) })
	case "rshift":
		return true, ip.binop(func(a, b int32) int32 { return int32(uint32(a) >> uint32(b)) })
	case "invert":
		v, err := ip.Pop()
		if err != nil {
			return true, err
		}
		ip.Push(^v)
		return true, nil
	case "negate":
		v, err := ip.Pop()
		if err != nil {
			return true, err
		}
		ip.Push(-v)
		return true, nil
	case "=":
		return true, ip.binop(func(a, b int32) int32 { return boolInt(a == b) })
	case "<>":
		return true, ip.binop(func(a, b int32) int32 { return boolInt(a != b) })
	case "<":
		return true, ip.binop(func(a, b int32) int32 { return boolInt(a < b) })
	case ">":
		return true, ip.binop(func(a, b int32) int32 { return boolInt(a > b) })
	case "0=":
		v, err := ip.Pop()
		if err != nil {
			return true, err
		}
		ip.Push(boolInt(v == 0))
		return true, nil
	case "0<":
		v, err := ip.Pop()
		if err != nil {
			return true, err
		}
		ip.Push(boolInt(v < 0))
		return true, nil
	case "dup":
		v, err := ip.Pop()
		if err != nil {
			return true, err
		}
		ip.Push(v)
		ip.Push(v)
		return true, nil
	case "drop":
		_, err := ip.Pop()
		return true, err
	case "swap":
		b, err := ip.Pop()
		if err != nil {
			return true, err
		}
		a, err := ip.Pop()
		if err != nil {
			return true, err
		}
		ip.Push(b)
		ip.Push(a)
		return true, nil
	case "over":
		if len(ip.stack) < 2 {
			return true, fmt.Errorf("tokenizer-escape stack underflow")
		}
		ip.Push(ip.stack[len(ip.stack)-2])
		return true, nil
	case "rot":
		if len(ip.stack) < 3 {
			return true, fmt.Errorf("tokenizer-escape stack underflow")
		}
		n := len(ip.stack)
		ip.stack[n-3], ip.stack[n-2], ip.stack[n-1] = ip.stack[n-2], ip.stack[n-1], ip.stack[n-3]
		return true, nil
	case `."`:
		s, err := readString('"')
		if err != nil {
			return true, err
		}
		ip.env.Print(s)
		return true, nil
	case ".(":
		s, err := readString(')')
		if err != nil {
			return true, err
		}
		ip.env.Print(s)
		return true, nil
	case "fload":
		// the file name is the next raw token; the caller supplies it
		// via readString with a space delimiter convention.
		name, err := readString(' ')
		if err != nil {
			return true, err
		}
		return true, ip.env.FLoad(strings.TrimSpace(name), loc)
	case "[flag]", "[defined]":
		name, err := readString(' ')
		if err != nil {
			return true, err
		}
		ip.Push(boolInt(ip.env.Defined(strings.TrimSpace(name))))
		return true, nil
	case "fcode-push":
		ip.env.Allocator().Push()
		return true, nil
	case "fcode-pop":
		ip.env.Allocator().Pop(ip.rep, loc)
		return true, nil
	case "fcode-reset":
		ip.env.Allocator().Reset()
		return true, nil
	case "hex":
		ip.env.SetBase(16)
		return true, nil
	case "decimal":
		ip.env.SetBase(10)
		return true, nil
	case "octal":
		ip.env.SetBase(8)
		return true, nil
	case "alias":
		newName, err := readString(' ')
		if err != nil {
			return true, err
		}
		oldName, err := readString(' ')
		if err != nil {
			return true, err
		}
		return true, ip.env.Alias(strings.TrimSpace(newName), strings.TrimSpace(oldName))
	}

	if v, ok := parseNumber(tok, ip.env.Base()); ok {
		ip.Push(v)
		return true, nil
	}
	return false, nil
}
