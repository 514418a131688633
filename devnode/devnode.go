/*
 * fcode-utils-sub000 - Device-node stack.
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

// Package devnode implements the new-device/finish-device scope stack:
// each frame owns its own vocabulary chain, and a "global scope" mode
// routes new definitions directly into the core vocabulary regardless of
// how deep the device-node stack is.
package devnode

import (
	"errors"

	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/vocab"
)

// Node is one device-node frame: a parent link, the (file, line) of its
// new-device call, and its own vocabulary chain.
type Node struct {
	Parent *Node
	Loc    diag.Location
	Vocab  *vocab.Chain
}

// Stack is the device-node stack; it always has at least the implicit
// top-level node with no parent.
type Stack struct {
	top         *Node
	core        *vocab.Chain
	globalScope bool
}

// NewStack creates a device-node stack with just the implicit top-level
// node, whose vocabulary chain is empty (device-scope definitions at
// top level go there, not into core).
func NewStack(core *vocab.Chain) *Stack {
	return &Stack{
		top:  &Node{Vocab: vocab.NewChain("top-level")},
		core: core,
	}
}

// NewDevice pushes a new node, becoming the current device.
func (s *Stack) NewDevice(loc diag.Location) *Node {
	n := &Node{Parent: s.top, Loc: loc, Vocab: vocab.NewChain("device")}
	s.top = n
	return n
}

// FinishDevice pops the current node back to its parent. Calling it at
// the top-level node is an error: there is nothing to finish.
func (s *Stack) FinishDevice() error {
	if s.top.Parent == nil {
		return errors.New("finish-device with no matching new-device")
	}
	s.top = s.top.Parent
	return nil
}

// Depth reports how many new-device frames are open (0 at top level).
func (s *Stack) Depth() int {
	n := 0
	for d := s.top; d.Parent != nil; d = d.Parent {
		n++
	}
	return n
}

// Current returns the innermost device-node frame.
func (s *Stack) Current() *Node { return s.top }

// SetGlobalScope toggles global-definitions/device-definitions mode.
func (s *Stack) SetGlobalScope(on bool) { s.globalScope = on }

// GlobalScope reports whether global-definitions mode is active.
func (s *Stack) GlobalScope() bool { return s.globalScope }

// CurrentChain returns the chain new definitions go into: the core
// vocabulary under global scope, otherwise the innermost device node's
// own chain (spec.md §3.4's current_definitions pointer).
func (s *Stack) CurrentChain() *vocab.Chain {
	if s.globalScope {
		return s.core
	}
	return s.top.Vocab
}
