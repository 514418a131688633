/*
 * fcode-utils-sub000 - Tokenizer orchestrator.
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

// Package toke is the tokenizer's main dispatch loop: it owns every
// front-end package's state for one compilation unit and walks the
// input word by word, turning each into emitted FCode bytes, a
// vocabulary mutation, or a control-flow/conditional-compilation state
// change, per spec.md §2/§4.
package toke

import (
	"fmt"
	"strings"

	"github.com/openbios/fcode-utils-sub000/colon"
	"github.com/openbios/fcode-utils-sub000/cond"
	"github.com/openbios/fcode-utils-sub000/config"
	"github.com/openbios/fcode-utils-sub000/devnode"
	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/emit"
	"github.com/openbios/fcode-utils-sub000/escape"
	"github.com/openbios/fcode-utils-sub000/flow"
	"github.com/openbios/fcode-utils-sub000/fnum"
	"github.com/openbios/fcode-utils-sub000/pciimg"
	"github.com/openbios/fcode-utils-sub000/scanner"
	"github.com/openbios/fcode-utils-sub000/source"
	"github.com/openbios/fcode-utils-sub000/tokens"
	"github.com/openbios/fcode-utils-sub000/trace"
	"github.com/openbios/fcode-utils-sub000/vocab"
)

// Compiler holds every piece of state one tokenization run threads
// through: the input reader, the output buffer, the vocabulary chains,
// and the handful of sub-compilers (flow, cond, colon, fnum, pciimg)
// that each look after one construct.
type Compiler struct {
	cfg config.Config
	rep *diag.Reporter

	reader *source.Reader
	scan   *scanner.Scanner
	buf    *emit.Buffer
	trace  *trace.List

	core     *vocab.Chain
	devs     *devnode.Stack
	alloc    *fnum.Allocator
	pci      *pciimg.Assembler
	colonDef *colon.Definer
	locals   *colon.Locals
	cond     *cond.Stack

	// flowStack is created fresh at each colon definition's `:` and torn
	// down at its `;`, since spec.md §3.7 scopes flow marks to the
	// currently open definition; it is nil outside one.
	flowStack *flow.Stack

	fcodeStarted  bool // true once a version1/start0..4 header is open
	headerless    bool // true while `headerless` suppresses the next word's header
	doNotOverload bool
}

// New creates a Compiler. opener resolves fload/-I targets; rep receives
// diagnostics.
func New(cfg config.Config, opener source.FileOpener, rep *diag.Reporter) *Compiler {
	c := &Compiler{
		cfg:   cfg,
		rep:   rep,
		core:  vocab.NewChain("core"),
		alloc: fnum.New(),
		cond:  cond.New(),
	}
	c.trace = trace.NewList(func(name string, ev trace.Event) {
		rep.Tracef(c.reader.Location(), "%s %s", name, ev)
	})
	c.reader = source.NewReader(opener, cfg.IncludeDirs)
	c.scan = scanner.New(c.reader, rep, scanner.Config{
		StringRemarkEscape: cfg.StringRemarkEscape,
		CStyleStringEscape: cfg.CStyleStringEscape,
		HexRemarkEscape:    cfg.HexRemarkEscape,
	})
	c.buf = emit.NewBuffer()
	c.devs = devnode.NewStack(c.core)
	c.devs.SetGlobalScope(cfg.ScopeIsGlobal)
	c.pci = pciimg.New(c.buf, rep)
	c.colonDef = &colon.Definer{}
	c.locals = colon.NewLocals(cfg.IBMLocalsLegacySeparator, cfg.IBMLocalsLegacySeparatorMsg)

	for _, name := range cfg.TraceSymbols {
		c.trace.Add(name)
	}
	return c
}

// Output returns the accumulated compiled bytes. Callers should check
// ShouldWriteOutput on the reporter before using this.
func (c *Compiler) Output() []byte { return c.buf.Bytes() }

// PreDefine registers name as defined before compilation starts, for the
// `-d NAME[=VAL]` flag (spec.md §6.4): it carries no token of its own,
// existing purely so [DEFINED] finds it.
func (c *Compiler) PreDefine(name string) {
	c.core.Push(&vocab.Entry{Name: name, Definer: vocab.DefUnspecified})
}

// escape.Env implementation, so the tokenizer-escape interpreter can
// reach the base, output, fload, lookup, and alias operations it needs
// without importing this package (which would cycle).

func (c *Compiler) Base() int     { return c.scan.Base() }
func (c *Compiler) SetBase(b int) { c.scan.SetBase(b) }

func (c *Compiler) Print(s string) { fmt.Fprint(c.rep.Out, s) }

func (c *Compiler) FLoad(name string, loc diag.Location) error {
	if err := c.reader.FLoad(name); err != nil {
		c.rep.Errorf(loc, "", "%s", err)
		return err
	}
	return nil
}

func (c *Compiler) Defined(name string) bool {
	return cond.Defined(name, c.currentChains()...)
}

func (c *Compiler) Alias(newName, oldName string) error {
	old := vocab.LookupIn(oldName, c.currentChains()...)
	if old == nil {
		return fmt.Errorf("cannot alias undefined word %q", oldName)
	}
	vocab.CreateAlias(c.devs.CurrentChain(), newName, old)
	return nil
}

func (c *Compiler) Allocator() *fnum.Allocator { return c.alloc }

// currentChains returns the scope chains in current-lookup order: the
// active device-node (or global) chain, then core. Locals are resolved
// separately through colon.Locals.Lookup, since they are not vocab.Chain
// entries, per spec.md §4.3's lookup order.
func (c *Compiler) currentChains() []*vocab.Chain {
	return []*vocab.Chain{c.devs.CurrentChain(), c.core}
}

func (c *Compiler) lookupWord(name string) *vocab.Entry {
	return vocab.LookupIn(name, c.currentChains()...)
}

// Run compiles one source file, starting a fresh top-level flow/cond/
// device stack. The caller inspects rep.ShouldWriteOutput() and
// rep.ExitCode() afterward.
func (c *Compiler) Run(data []byte, filename string) {
	c.reader.PushSource(data, filename, 1, nil, nil, false)
	c.runLoop()
	c.cond.Flush(c.rep, c.reader.Location())
	if c.flowStack != nil && !c.flowStack.Empty() {
		c.flowStack.Flush(c.reader.Location())
	}
}

func (c *Compiler) runLoop() {
	for {
		tok, ok := c.reader.GetWord()
		if !ok {
			return
		}
		if tok == "" {
			continue // fload pause boundary
		}
		loc := c.reader.Location()

		if c.cond.Skipping() {
			c.stepSkipping(tok, loc)
			continue
		}
		c.step(tok, loc)
	}
}

// stepSkipping consumes one word while inside an inactive conditional
// branch: only the conditional-nesting words ([defined] and the
// [else]/[then] family) are still recognized, mirroring the original's ignore_fn dispatch — every
// other word (including numbers and strings) is dropped untouched.
func (c *Compiler) stepSkipping(tok string, loc diag.Location) {
	if strings.EqualFold(tok, "[defined]") {
		name, _ := c.reader.GetWordInLine()
		c.cond.If(false, loc) // inert: outer context already skipping
		_ = name
		return
	}
	dir, isDir := tokens.LookupDirective(tok)
	if !isDir {
		return
	}
	switch dir {
	case tokens.DirCondlElse:
		if err := c.cond.Else(loc); err != nil {
			c.rep.Errorf(loc, "", "%s", err)
		}
	case tokens.DirCondlEnder:
		if err := c.cond.Then(loc); err != nil {
			c.rep.Errorf(loc, "", "%s", err)
		}
	}
}

// step compiles one word in normal (non-skipping) mode.
func (c *Compiler) step(tok string, loc diag.Location) {
	if strings.EqualFold(tok, "[defined]") {
		name, ok := c.reader.GetWordInLine()
		if !ok {
			c.rep.Errorf(loc, "", "[defined] requires a following name")
			return
		}
		c.cond.If(c.Defined(name), loc)
		return
	}
	if c.trace.Requested(tok) {
		c.trace.Fire(tok, trace.EventActive)
	}

	if dir, ok := tokens.LookupDirective(tok); ok {
		c.dispatchDirective(dir, tok, loc)
		return
	}

	if l, ok := c.locals.Lookup(tok); ok {
		c.compileLocalRef(l, loc)
		return
	}

	if e := c.lookupWord(tok); e != nil {
		c.compileReference(e, loc)
		return
	}

	if stdTok, ok := tokens.Lookup(tok); ok {
		c.buf.EmitFcode(stdTok)
		return
	}

	if v, ok := scanner.ParseNumber(tok, c.scan.Base()); ok {
		c.buf.EmitLiteral(tokens.TokLiteral, v)
		return
	}

	c.rep.Errorf(loc, "", "unknown word %q", tok)
}

// compileReference compiles a use of a previously-defined word: inline
// its token if it carries one, otherwise emit whatever its ActiveFn
// does (for words with side effects at compile time, e.g. macros).
func (c *Compiler) compileReference(e *vocab.Entry, loc diag.Location) {
	if e.ActiveFn != nil {
		if err := e.ActiveFn(c); err != nil {
			c.rep.Errorf(loc, "", "%s", err)
		}
		return
	}
	if num, ok := e.Pfield.(uint16); ok {
		c.buf.EmitFcode(num)
		return
	}
	c.rep.Errorf(loc, "", "%s has no compiled representation", e.Name)
}

func (c *Compiler) compileLocalRef(l *colon.Local, loc diag.Location) {
	c.buf.EmitLiteral(tokens.TokLiteral, int32(l.Number))
}

// createWord reads the name that follows a defining word
// (create/value/variable/defer/constant/buffer:/field) and warns when it
// redefines an existing word; the vocabulary entry itself is made by
// defineTokenWord.
func (c *Compiler) createWord(loc diag.Location) (string, bool) {
	name, ok := c.reader.GetWord()
	if !ok {
		c.rep.Errorf(loc, "", "expected a name")
		return "", false
	}
	if c.lookupWord(name) != nil && c.cfg.VerboseDupWarning && !c.doNotOverload {
		c.rep.Warnf(loc, "", "redefining %s", name)
	}
	c.doNotOverload = false
	return name, true
}

// starterDefiner maps the defining-word marker token passed to
// defineTokenWord to the vocab.Definer recorded on the new entry.
func starterDefiner(starter uint16) vocab.Definer {
	switch starter {
	case tokens.TokValue:
		return vocab.DefValue
	case tokens.TokVariable:
		return vocab.DefVariable
	case tokens.TokConstant:
		return vocab.DefConstant
	case tokens.TokDefer:
		return vocab.DefDefer
	case tokens.TokBuffer:
		return vocab.DefBuffer
	case tokens.TokField:
		return vocab.DefField
	default:
		return vocab.DefCreate
	}
}

func (c *Compiler) defineTokenWord(name string, starter uint16) {
	num := c.alloc.Allocate(c.rep, c.reader.Location())
	e := &vocab.Entry{Name: name, Definer: starterDefiner(starter), IsToken: true, Pfield: num}
	c.devs.CurrentChain().Push(e)
	c.buf.EmitFcode(tokens.TokNamedToken)
	c.buf.EmitString([]byte(name))
	c.buf.EmitFcode(num)
	c.buf.EmitFcode(starter)
	if c.trace.Requested(name) {
		c.trace.Fire(name, trace.EventCreate)
	}
}

// dispatchDirective handles every core-vocabulary word that is not
// itself a single FCode token, per tokens.Directives (spec.md §16).
// Directive families are grouped by the sub-compiler that owns them.
func (c *Compiler) dispatchDirective(dir tokens.Directive, tok string, loc diag.Location) {
	switch dir {

	// --- colon definitions ---
	case tokens.DirColon:
		name, ok := c.reader.GetWord()
		if !ok {
			c.rep.Errorf(loc, "", "expected a name after ':'")
			return
		}
		c.colonDef.Start(c.devs.CurrentChain(), name, loc)
		c.flowStack = flow.New(c.buf, c.rep)
		if c.cfg.IBMLocals {
			c.locals.Forget()
		}
		if !c.headerless || c.cfg.AlwaysHeaders {
			c.buf.EmitFcode(tokens.TokColon)
		}
		c.headerless = false
	case tokens.DirSemicolon:
		if !c.colonDef.Open() {
			c.rep.Errorf(loc, "", "';' with no matching ':'")
			return
		}
		if c.flowStack != nil {
			c.flowStack.CheckReturnStackBalance(loc)
			if !c.flowStack.Empty() {
				c.flowStack.Flush(loc)
			}
		}
		c.buf.EmitFcode(tokens.TokSemicolon)
		c.colonDef.Finish()
		if c.cfg.IBMLocals {
			c.locals.Forget()
		}
		c.flowStack = nil
	case tokens.DirRecurse:
		if e := c.colonDef.Recurse(); e != nil {
			c.compileReference(e, loc)
		} else {
			c.rep.Errorf(loc, "", "recurse outside a colon definition")
		}
	case tokens.DirRecursive:
		// makes the definition visible to itself immediately; since
		// Start already hid it, Recursive just reveals it early.
		c.colonDef.RevealNow()
	case tokens.DirOverload:
		c.doNotOverload = true

	// --- IBM-style Locals ---
	case tokens.DirCurlyBrace:
		if !c.cfg.IBMLocals {
			c.rep.Warnf(loc, "", "Local-Values declaration seen but ibm-locals is disabled")
			return
		}
		err := c.locals.Declare(c.reader, c.rep, loc,
			func(name string) bool { return c.lookupWord(name) != nil },
			func(name string) bool { _, ok := scanner.ParseNumber(name, c.scan.Base()); return ok })
		if err != nil {
			c.rep.Errorf(loc, "", "%s", err)
		}
	case tokens.DirDashArrow:
		// '->' marks the boundary between initialized-value consumption
		// and plain declaration within a Locals form handled entirely by
		// Declare; seen standalone it's a no-op marker.

	// --- control flow ---
	case tokens.DirIf:
		c.requireFlow(loc).If(loc)
	case tokens.DirElse:
		c.reportFlowErr(c.requireFlow(loc).Else(loc), loc)
	case tokens.DirThen:
		c.reportFlowErr(c.requireFlow(loc).Then(loc), loc)
	case tokens.DirBegin:
		c.requireFlow(loc).Begin(loc)
	case tokens.DirAgain:
		c.reportFlowErr(c.requireFlow(loc).Again(loc), loc)
	case tokens.DirUntil:
		c.reportFlowErr(c.requireFlow(loc).Until(loc), loc)
	case tokens.DirWhile:
		c.reportFlowErr(c.requireFlow(loc).While(loc), loc)
	case tokens.DirRepeat:
		c.reportFlowErr(c.requireFlow(loc).Repeat(loc), loc)
	case tokens.DirDo:
		c.requireFlow(loc).Do(loc, false)
	case tokens.DirCDo:
		c.requireFlow(loc).Do(loc, true)
	case tokens.DirLoop:
		c.reportFlowErr(c.requireFlow(loc).Loop(loc, false), loc)
	case tokens.DirPlusLoop:
		c.reportFlowErr(c.requireFlow(loc).Loop(loc, true), loc)
	case tokens.DirCase:
		c.requireFlow(loc).Case(loc)
	case tokens.DirOf:
		c.reportFlowErr(c.requireFlow(loc).Of(loc), loc)
	case tokens.DirEndof:
		c.reportFlowErr(c.requireFlow(loc).Endof(loc), loc)
	case tokens.DirEndcase:
		c.reportFlowErr(c.requireFlow(loc).Endcase(loc), loc)
	case tokens.DirLoopI:
		if tok, ok := tokens.Lookup("i"); ok {
			c.buf.EmitFcode(tok)
		}
	case tokens.DirLoopJ:
		if tok, ok := tokens.Lookup("j"); ok {
			c.buf.EmitFcode(tok)
		}
	case tokens.DirUnloop:
		if tok, ok := tokens.Lookup("unloop"); ok {
			c.buf.EmitFcode(tok)
		}
	case tokens.DirLeave:
		c.buf.EmitFcode(tokens.TokLeave)
	case tokens.DirExit:
		if c.flowStack != nil {
			c.flowStack.CheckReturnStackBalance(loc)
		}
		c.buf.EmitFcode(tokens.TokSemicolon)
	case tokens.DirRetStkTo:
		if tok, ok := tokens.Lookup(">r"); ok {
			c.buf.EmitFcode(tok)
		}
		if c.flowStack != nil {
			c.flowStack.OnToR()
		}
	case tokens.DirRetStkFrom:
		if tok, ok := tokens.Lookup("r>"); ok {
			c.buf.EmitFcode(tok)
		}
		if c.flowStack != nil {
			c.flowStack.OnRFrom()
		}
	case tokens.DirRetStkFetch:
		if tok, ok := tokens.Lookup("r@"); ok {
			c.buf.EmitFcode(tok)
		}

	// --- number base ---
	case tokens.DirHex:
		c.scan.SetBase(16)
	case tokens.DirDecimal:
		c.scan.SetBase(10)
	case tokens.DirOctal:
		c.scan.SetBase(8)
	case tokens.DirHexVal, tokens.DirDecVal, tokens.DirOctVal:
		c.emitBasedNumber(dir, loc)
	case tokens.DirAscNum:
		c.emitAsciiNumber(loc, false)
	case tokens.DirAscLeftNum:
		c.emitAsciiNumber(loc, true)

	// --- conditional compilation ---
	case tokens.DirCondlElse:
		c.reportErr(c.cond.Else(loc), loc)
	case tokens.DirCondlEnder:
		c.reportErr(c.cond.Then(loc), loc)

	// --- defining words ---
	case tokens.DirCreate:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokCreate)
		}
	case tokens.DirValue:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokValue)
		}
	case tokens.DirVariable:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokVariable)
		}
	case tokens.DirConstant:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokConstant)
		}
	case tokens.DirDefer:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokDefer)
		}
	case tokens.DirBuffer:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokBuffer)
		}
	case tokens.DirField:
		if name, ok := c.createWord(loc); ok {
			c.defineTokenWord(name, tokens.TokField)
		}
	case tokens.DirTo, tokens.DirIs:
		if dir == tokens.DirIs {
			c.rep.Messagef(loc, "Substituting TO for deprecated IS")
		}
		name, ok := c.reader.GetWord()
		if !ok {
			c.rep.Errorf(loc, "", "'to' requires a following name")
			return
		}
		if e := c.lookupWord(name); e != nil {
			c.buf.EmitFcode(tokens.TokTo)
			if num, ok := e.Pfield.(uint16); ok {
				c.buf.EmitFcode(num)
			}
		} else {
			c.rep.Errorf(loc, "", "to: %s is not defined", name)
		}
	case tokens.DirTick, tokens.DirBracketTick:
		name, ok := c.reader.GetWord()
		if !ok {
			c.rep.Errorf(loc, "", "' requires a following name")
			return
		}
		e := c.lookupWord(name)
		if e == nil {
			c.rep.Errorf(loc, "", "' : %s is not defined", name)
			return
		}
		if num, ok := e.Pfield.(uint16); ok {
			c.buf.EmitLiteral(tokens.TokLiteral, int32(num))
		} else {
			c.rep.Errorf(loc, "", "' : %s has no fcode number", name)
		}
	case tokens.DirControl:
		// absorbed by the scanner as a control-character escape prefix;
		// seen standalone here it is a no-op.
	case tokens.DirMacroDef:
		// macro bodies are captured by the scanner before dispatch ever
		// sees a directive; nothing to do here.
	case tokens.DirEncodeFile:
		name, ok := c.reader.GetWord()
		if ok {
			c.rep.Messagef(loc, "encode-file %s not supported in this port", name)
		}
	case tokens.DirAlias:
		newName, ok1 := c.reader.GetWord()
		oldName, ok2 := c.reader.GetWord()
		if !ok1 || !ok2 {
			c.rep.Errorf(loc, "", "alias requires two names")
			return
		}
		if err := c.Alias(newName, oldName); err != nil {
			c.rep.Errorf(loc, "", "%s", err)
		}
	case tokens.DirNewToken:
		num := c.alloc.Allocate(c.rep, loc)
		c.buf.EmitFcode(tokens.TokNewToken)
		c.buf.EmitFcode(num)
	case tokens.DirExternal:
		name, ok := c.createWord(loc)
		if !ok {
			return
		}
		c.defineTokenWord(name, tokens.TokExternal)
	case tokens.DirNextFcode:
		c.buf.EmitLiteral(tokens.TokLiteral, int32(c.alloc.Peek()))
	case tokens.DirPushFcode:
		c.alloc.Push()
	case tokens.DirPopFcode:
		c.alloc.Pop(c.rep, loc)
	case tokens.DirResetFcode:
		c.alloc.Reset()

	// --- device-node scope ---
	case tokens.DirNewDevice:
		c.devs.NewDevice(loc)
	case tokens.DirFinishDevice:
		c.reportErr(c.devs.FinishDevice(), loc)
	case tokens.DirGlobScope:
		c.devs.SetGlobalScope(true)
	case tokens.DirDevScope:
		c.devs.SetGlobalScope(false)
	case tokens.DirInstance:
		// the next defining word applies to the instance chain rather
		// than the device chain; both collapse onto CurrentChain here,
		// since this port keeps one chain per device node rather than
		// splitting instance/device methods.
	case tokens.DirDefined:
		name, ok := c.reader.GetWordInLine()
		if ok {
			c.cond.If(c.Defined(name), loc)
		}

	// --- strings ---
	case tokens.DirString, tokens.DirSString:
		c.emitString(loc, '"')
	case tokens.DirPString:
		if text, ok := c.reader.GetUntil(')'); ok {
			c.Print(text)
		}
	case tokens.DirPBString:
		c.emitString(loc, '"')
	case tokens.DirAbortText:
		c.emitString(loc, '"')
	case tokens.DirFLiteral:
		// fliteral folds a value computed by surrounding Forth into a
		// literal; outside tokenizer-escape mode there is no such value
		// available, so report it rather than emit a malformed b(lit).
		c.rep.Warnf(loc, "", "fliteral has no value to fold here")
	case tokens.DirMultiLine:
		c.scan.AllowNextMultiLine()
	case tokens.DirAllowMultiLine:
		c.scan.AllowNextMultiLine()

	// --- tokenizer-escape mode ---
	case tokens.DirEscapeTok:
		c.runEscapeMode(loc)
	case tokens.DirEmitByte:
		name, ok := c.reader.GetWord()
		if ok {
			if v, ok := scanner.ParseNumber(name, c.scan.Base()); ok {
				c.buf.EmitByte(byte(v))
			}
		}

	// --- misc directives ---
	case tokens.DirFload:
		name, ok := c.reader.GetWord()
		if ok {
			c.reportErr(c.FLoad(name, loc), loc)
		}
	case tokens.DirOffset16:
		c.buf.SetMode(emit.Offset16)
	case tokens.DirHeaderless:
		c.headerless = true
	case tokens.DirHeaders:
		c.headerless = false

	// --- FCode block framing ---
	case tokens.DirVersion1:
		c.startFcodeBlock(tokens.TokVersion1, tokens.TokVersion1)
	case tokens.DirStart0:
		c.startFcodeBlock(tokens.TokStart0, tokens.TokVersion1)
	case tokens.DirStart1:
		c.startFcodeBlock(tokens.TokStart1, tokens.TokVersion1)
	case tokens.DirStart2:
		c.startFcodeBlock(tokens.TokStart2, tokens.TokVersion1)
	case tokens.DirStart4:
		c.startFcodeBlock(tokens.TokStart4, tokens.TokVersion1)
	case tokens.DirFcodeV1:
		c.startFcodeBlock(tokens.TokVersion1, tokens.TokVersion1)
	case tokens.DirFcodeV2, tokens.DirFcodeV3:
		c.startFcodeBlock(tokens.TokStart1, tokens.TokVersion1)
	case tokens.DirEnd0:
		c.finishFcodeBlock(tokens.TokEnd0)
	case tokens.DirEnd1:
		c.finishFcodeBlock(tokens.TokEnd1)
	case tokens.DirFcodeEnd:
		c.finishFcodeBlock(tokens.TokEnd1)
	case tokens.DirFcodeTime, tokens.DirFcodeDate:
		// timestamp directives are accepted and ignored: spec.md's
		// Non-goals exclude build-reproducibility metadata emission.

	// --- PCI image framing ---
	case tokens.DirPciHdr:
		c.startPCIImage(loc)
	case tokens.DirPciEnd:
		c.reportErr(c.pci.End(), loc)
	case tokens.DirPciRev:
		name, ok := c.reader.GetWord()
		if ok {
			_, _ = scanner.ParseNumber(name, c.scan.Base())
		}
	case tokens.DirNotLast:
		c.reportErr(c.pci.SetLastImage(false), loc)
	case tokens.DirIsLast, tokens.DirSetLast:
		c.reportErr(c.pci.SetLastImage(true), loc)
	case tokens.DirSaveImg:
	case tokens.DirResetSymbs:
		c.core.ResetTo(nil)

	default:
		c.rep.Warnf(loc, "", "directive %q recognized but not implemented", tok)
	}
}

func (c *Compiler) requireFlow(loc diag.Location) *flow.Stack {
	if c.flowStack == nil {
		c.flowStack = flow.New(c.buf, c.rep)
	}
	return c.flowStack
}

func (c *Compiler) reportFlowErr(err error, loc diag.Location) {
	if err != nil {
		c.rep.Errorf(loc, "", "%s", err)
	}
}

func (c *Compiler) reportErr(err error, loc diag.Location) {
	if err != nil {
		c.rep.Errorf(loc, "", "%s", err)
	}
}

func (c *Compiler) emitBasedNumber(dir tokens.Directive, loc diag.Location) {
	name, ok := c.reader.GetWord()
	if !ok {
		return
	}
	base := 10
	switch dir {
	case tokens.DirHexVal:
		base = 16
	case tokens.DirOctVal:
		base = 8
	}
	v, ok := scanner.ParseNumber(name, base)
	if !ok {
		c.rep.Errorf(loc, "", "%q is not a valid number", name)
		return
	}
	c.buf.EmitLiteral(tokens.TokLiteral, v)
}

func (c *Compiler) emitAsciiNumber(loc diag.Location, leftJustify bool) {
	name, ok := c.reader.GetWord()
	if !ok {
		return
	}
	v := scanner.PackAscii(name, leftJustify)
	c.buf.EmitLiteral(tokens.TokLiteral, int32(v))
}

func (c *Compiler) emitString(loc diag.Location, delim byte) {
	data, ok := c.scan.ScanPackedString(delim == ')', loc.Line)
	if !ok {
		c.rep.Errorf(loc, "", "unterminated string")
		return
	}
	c.buf.EmitFcode(tokens.TokString)
	c.buf.EmitString(data)
}

func (c *Compiler) startFcodeBlock(starter, version1 uint16) {
	c.buf.EmitFcodeHdr(starter, version1)
	c.fcodeStarted = true
	if c.pci.Open() {
		c.pci.NoteFirstFcode()
	}
}

func (c *Compiler) finishFcodeBlock(terminator uint16) {
	if err := c.buf.FinishFcodeHdr(terminator); err != nil {
		c.rep.Errorf(c.reader.Location(), "", "%s", err)
	}
	c.fcodeStarted = false
}

func (c *Compiler) startPCIImage(loc diag.Location) {
	vendorTok, ok1 := c.reader.GetWord()
	deviceTok, ok2 := c.reader.GetWord()
	classTok, ok3 := c.reader.GetWord()
	if !ok1 || !ok2 || !ok3 {
		c.rep.Errorf(loc, "", "pci-header requires vendor device class-code")
		return
	}
	vendor, _ := scanner.ParseNumber(vendorTok, 16)
	device, _ := scanner.ParseNumber(deviceTok, 16)
	class, _ := scanner.ParseNumber(classTok, 16)
	if err := c.pci.Header(uint16(vendor), uint16(device), uint32(class), pciimg.CodeTypeOpenFirmware, 0x0001); err != nil {
		c.rep.Errorf(loc, "", "%s", err)
	}
}

// runEscapeMode interprets words through the tokenizer-escape
// interpreter until `]tokenizer` is seen, leaving any values remaining
// on its stack compiled as literals, per spec.md §4.7.
func (c *Compiler) runEscapeMode(loc diag.Location) {
	ip := escape.New(c, c.rep)
	readString := func(delim byte) (string, error) {
		if delim == ' ' {
			name, ok := c.reader.GetWord()
			if !ok {
				return "", fmt.Errorf("unexpected end of input in tokenizer-escape mode")
			}
			return name, nil
		}
		text, ok := c.reader.GetUntil(delim)
		if !ok {
			return "", fmt.Errorf("unterminated string in tokenizer-escape mode")
		}
		return text, nil
	}
	for {
		tok, ok := c.reader.GetWord()
		if !ok {
			c.rep.Errorf(loc, "", "unterminated tokenizer-escape mode")
			return
		}
		if tok == "" {
			continue
		}
		if strings.EqualFold(tok, "]tokenizer") {
			break
		}
		handled, err := ip.Eval(tok, c.reader.Location(), readString, scanner.ParseNumber)
		if err != nil {
			c.rep.Errorf(c.reader.Location(), "", "%s", err)
			continue
		}
		if !handled {
			c.rep.Errorf(c.reader.Location(), "", "unknown tokenizer-escape word %q", tok)
		}
	}
	for _, v := range ip.Results() {
		c.buf.EmitLiteral(tokens.TokLiteral, v)
	}
}
