/*
 * fcode-utils-sub000 - Interactive trace console.
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

// Package console implements an optional interactive trace console: a
// liner-backed prompt that prints a trace note and accepts step/continue/
// quit. No command in this module calls it; cmd/toke has no --interactive
// flag, so -T traces are only reported as diagnostics.
package console

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/peterh/liner"
)

// Command is the user's decision at a trace stop.
type Command int

const (
	// CmdContinue resumes compilation without stopping again until the
	// next traced symbol fires.
	CmdContinue Command = iota
	// CmdStep stops again at the very next symbol event, traced or not.
	CmdStep
	// CmdQuit aborts tokenization immediately.
	CmdQuit
)

// Console wraps a liner.State the way the teacher's command/reader
// package wraps one for its "S370>" prompt.
type Console struct {
	line *liner.State
}

// New opens a trace console on the controlling terminal.
func New() *Console {
	l := liner.NewLiner()
	l.SetCtrlCAborts(true)
	return &Console{line: l}
}

// Close releases the underlying terminal state.
func (c *Console) Close() error { return c.line.Close() }

// Stop prints note (the trace event description) and prompts for a
// command: "step", "continue"/"c", or "quit"/"q". Unrecognized input is
// reprompted. A Ctrl-C or Ctrl-D at the prompt is treated as "continue".
func (c *Console) Stop(note string) Command {
	fmt.Println(note)
	for {
		line, err := c.line.Prompt("fcode> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return CmdContinue
			}
			slog.Error("trace console: " + err.Error())
			return CmdContinue
		}
		c.line.AppendHistory(line)
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "step", "s":
			return CmdStep
		case "continue", "c", "":
			return CmdContinue
		case "quit", "q":
			return CmdQuit
		default:
			fmt.Println("commands: step, continue, quit")
		}
	}
}
