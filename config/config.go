/*
 * fcode-utils-sub000 - Compiler-wide configuration.
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

// Package config collects the tokenizer's global behavior flags into one
// record, replacing the set of file-scope C globals spec.md §9's Design
// Notes names (verbose, decode_all, obso_fcode_warning, ibm_locals, ...).
// Every field defaults to the original program's compiled-in default.
package config

// Config is passed down to every front-end package that needs one of
// these switches; nothing here is mutated once compilation starts,
// except Verbose/TraceSymbols which -v/-T may still be adjusting while
// flags are parsed. Verbose, DecodeAll, ObsoleteFcodeWarning,
// SunStyleAbortQuote, AbortQuoteThrow, EnableAbortQuote,
// BigEndianPCIImageRev, AlwaysExternal, ForceTokensCase,
// ForceLowerCaseTokens, AllowReturnStackInterp and NoErrors are carried
// here but read by no package; the detokenizer takes its verbose and
// decode-all switches from detok.Options.
type Config struct {
	// Verbose enables extra Info-severity commentary during compilation,
	// and, in the detokenizer, prints FCode-number comments beside named
	// tokens.
	Verbose bool

	// DecodeAll makes the detokenizer continue decoding past end0/end1
	// rather than stopping at the first FCode-block terminator.
	DecodeAll bool

	// ObsoleteFcodeWarning warns when a word flagged obsolete in the
	// standard token table is used.
	ObsoleteFcodeWarning bool

	// IBMLocals enables the "{ n1 n2 | u1 u2 }" Local-Value declaration
	// form inside colon definitions.
	IBMLocals bool

	// IBMLocalsLegacySeparator accepts ';' in place of '|' between the
	// initialized and uninitialized groups of a Locals declaration.
	IBMLocalsLegacySeparator bool

	// IBMLocalsLegacySeparatorMsg warns when the legacy ';' separator is
	// used, rather than accepting it silently.
	IBMLocalsLegacySeparatorMsg bool

	// StringRemarkEscape enables the `"\` in-string comment-escape form.
	StringRemarkEscape bool

	// CStyleStringEscape enables C-style `\n`/`\t`/... escapes inside
	// packed strings.
	CStyleStringEscape bool

	// HexRemarkEscape makes a backslash inside the `"( ... )`
	// inline-hex-byte string form start a remark to end of line.
	HexRemarkEscape bool

	// SunStyleAbortQuote selects Sun's bit-for-bit abort" encoding over
	// the IEEE 1275 default.
	SunStyleAbortQuote bool

	// AbortQuoteThrow makes abort" throw rather than just print and
	// abort.
	AbortQuoteThrow bool

	// EnableAbortQuote enables the abort"/abort"-text directive pair at
	// all; some targets disable it entirely.
	EnableAbortQuote bool

	// BigEndianPCIImageRev stores the PCI image-revision field big-endian
	// instead of the standard little-endian (a small number of legacy
	// ROMs expect this).
	BigEndianPCIImageRev bool

	// AlwaysHeaders forces every colon definition to carry a visible
	// header even when `headerless` is in effect.
	AlwaysHeaders bool

	// AlwaysExternal forces every new-token definition to behave as
	// `external`, giving it a name even when none was supplied.
	AlwaysExternal bool

	// ForceTokensCase, when true with ForceLowerCaseTokens false, forces
	// every emitted token name search to upper case; when true with
	// ForceLowerCaseTokens also true, forces lower case. Mirrors the
	// original's pair of independent globals exactly rather than
	// collapsing them into one enum, since both combinations the
	// original allows (neither set, case-forced-upper, case-forced-
	// lower) have to remain reachable.
	ForceTokensCase      bool
	ForceLowerCaseTokens bool

	// VerboseDupWarning warns whenever a name definition shadows an
	// existing one in the same chain, not just across scopes.
	VerboseDupWarning bool

	// AllowReturnStackInterp permits r@/r>/>r inside a colon definition's
	// body despite the heuristic return-stack-balance check (spec.md §9's
	// "explicitly heuristic" note) flagging it as suspicious.
	AllowReturnStackInterp bool

	// ScopeIsGlobal starts compilation in global-definitions scope
	// instead of the default device scope.
	ScopeIsGlobal bool

	// NoErrors downgrades TKERROR-severity reports to warnings, for
	// lenient recompilation of known-broken sources.
	NoErrors bool

	// Defines lists symbols pre-defined for [DEFINED] before
	// compilation starts (the `-d NAME[=VAL]` flag).
	Defines []string

	// TraceSymbols lists symbols added to the trace list (the `-T NAME`
	// flag): every use of a traced name reports a Tracer-severity
	// message.
	TraceSymbols []string

	// IncludeDirs lists directories searched for fload/-I targets, in
	// order.
	IncludeDirs []string
}

// Default returns a Config with every flag at the original program's
// compiled-in default: IBM Locals with the legacy ';' separator and its
// warning, all three string-escape extensions, and abort" on; everything
// else off.
func Default() Config {
	return Config{
		IBMLocals:                   true,
		IBMLocalsLegacySeparator:    true,
		IBMLocalsLegacySeparatorMsg: true,
		StringRemarkEscape:          true,
		CStyleStringEscape:          true,
		HexRemarkEscape:             true,
		EnableAbortQuote:            true,
	}
}
