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

package tokens

import "strings"

// Directive is a dispatch key for a non-FCode-token core-vocabulary word:
// defining words, flow-control openers/closers, and miscellaneous control
// commands. The set and naming follows the fword_token enumeration in
// the original dictionary header (colon/semicolon/tick/again/... through
// glob_scope/dev_scope); values here are this repository's own dispatch
// constants; they are never encoded into FCode output.
type Directive int

const (
	DirNone Directive = iota
	DirColon
	DirSemicolon
	DirTick
	DirBracketTick
	DirAgain
	DirAlias
	DirBegin
	DirBuffer
	DirCase
	DirConstant
	DirControl
	DirCreate
	DirDecimal
	DirDefer
	DirDefined
	DirCDo
	DirDo
	DirElse
	DirEndcase
	DirEndof
	DirExternal
	DirInstance
	DirField
	DirNewDevice
	DirFinishDevice
	DirFLiteral
	DirHeaderless
	DirHeaders
	DirHex
	DirIf
	DirUnloop
	DirLeave
	DirLoopI
	DirLoopJ
	DirLoop
	DirPlusLoop
	DirOctal
	DirOf
	DirRepeat
	DirThen
	DirTo
	DirIs
	DirUntil
	DirValue
	DirVariable
	DirWhile
	DirOffset16
	DirEscapeTok
	DirEmitByte
	DirFload
	DirString
	DirPString
	DirPBString
	DirSString
	DirRecursive
	DirRecurse
	DirRetStkFetch
	DirRetStkFrom
	DirRetStkTo
	DirHexVal
	DirDecVal
	DirOctVal
	DirAscNum
	DirAscLeftNum
	DirCondlEnder
	DirCondlElse
	DirPushFcode
	DirPopFcode
	DirResetFcode
	DirCurlyBrace
	DirDashArrow
	DirExit
	DirOverload
	DirAllowMultiLine
	DirMacroDef
	DirGlobScope
	DirDevScope
	DirEnd0
	DirEnd1
	DirAbortText
	DirNextFcode
	DirEncodeFile
	DirFcodeV1
	DirFcodeV2
	DirFcodeV3
	DirNotLast
	DirIsLast
	DirSetLast
	DirPciRev
	DirPciHdr
	DirPciEnd
	DirResetSymbs
	DirSaveImg
	DirStart0
	DirStart1
	DirStart2
	DirStart4
	DirVersion1
	DirFcodeTime
	DirFcodeDate
	DirFcodeEnd
	DirMultiLine
	DirNewToken
)

// directiveEntry pairs every spelling (a word may have synonyms) with one
// dispatch constant.
type directiveEntry struct {
	Name string
	Dir  Directive
}

// Directives lists every core-vocabulary word that is not itself a single
// FCode token, the "Forth directive table" spec.md §16 budgets for. Order
// follows dictionary.h; synonyms are listed as separate entries sharing a
// Directive value.
var Directives = []directiveEntry{
	{":", DirColon},
	{";", DirSemicolon},
	{"'", DirTick},
	{"again", DirAgain},
	{"alias", DirAlias},
	{"[']", DirBracketTick},
	{"f[']", DirBracketTick},
	{"ascii", DirAscNum},
	{"begin", DirBegin},
	{"buffer:", DirBuffer},
	{"case", DirCase},
	{"constant", DirConstant},
	{"control", DirControl},
	{"create", DirCreate},
	{"decimal", DirDecimal},
	{"defer", DirDefer},
	{"[defined]", DirDefined},
	{"?do", DirCDo},
	{"do", DirDo},
	{"else", DirElse},
	{"endcase", DirEndcase},
	{"endof", DirEndof},
	{"external", DirExternal},
	{"instance", DirInstance},
	{"field", DirField},
	{"new-device", DirNewDevice},
	{"finish-device", DirFinishDevice},
	{"fliteral", DirFLiteral},
	{"headerless", DirHeaderless},
	{"headers", DirHeaders},
	{"hex", DirHex},
	{"if", DirIf},
	{"unloop", DirUnloop},
	{"leave", DirLeave},
	{"i", DirLoopI},
	{"j", DirLoopJ},
	{"loop", DirLoop},
	{"+loop", DirPlusLoop},
	{"octal", DirOctal},
	{"of", DirOf},
	{"repeat", DirRepeat},
	{"then", DirThen},
	{"to", DirTo},
	{"is", DirIs},
	{"until", DirUntil},
	{"value", DirValue},
	{"variable", DirVariable},
	{"while", DirWhile},
	{"offset16", DirOffset16},
	{"tokenizer[", DirEscapeTok},
	{"emit-byte", DirEmitByte},
	{"fload", DirFload},
	{"\"", DirString},
	{".(", DirPString},
	{"abort\"", DirPBString},
	{"s\"", DirSString},
	{".\"", DirSString},
	{"recursive", DirRecursive},
	{"recurse", DirRecurse},
	{"r@", DirRetStkFetch},
	{"r>", DirRetStkFrom},
	{">r", DirRetStkTo},
	{"h#", DirHexVal},
	{"d#", DirDecVal},
	{"o#", DirOctVal},
	{"a#", DirAscNum},
	{"al#", DirAscLeftNum},
	{"[then]", DirCondlEnder},
	{"[endif]", DirCondlEnder},
	{"#then", DirCondlEnder},
	{"#endif", DirCondlEnder},
	{"[else]", DirCondlElse},
	{"#else", DirCondlElse},
	{"fcode-push", DirPushFcode},
	{"fcode-pop", DirPopFcode},
	{"fcode-reset", DirResetFcode},
	{"{", DirCurlyBrace},
	{"->", DirDashArrow},
	{"exit", DirExit},
	{"overload", DirOverload},
	{"multi-line", DirAllowMultiLine},
	{"global-definitions", DirGlobScope},
	{"device-definitions", DirDevScope},
	{"end0", DirEnd0},
	{"end1", DirEnd1},
	{"abort\"-text", DirAbortText},
	{"next-fcode", DirNextFcode},
	{"encode-file", DirEncodeFile},
	{"fcode-version1", DirFcodeV1},
	{"fcode-version2", DirFcodeV2},
	{"fcode-version3", DirFcodeV3},
	{"not-last-image", DirNotLast},
	{"is-last-image", DirIsLast},
	{"set-last-image", DirSetLast},
	{"pci-revision", DirPciRev},
	{"pci-header", DirPciHdr},
	{"pci-end", DirPciEnd},
	{"reset-symbols", DirResetSymbs},
	{"save-image", DirSaveImg},
	{"start0", DirStart0},
	{"start1", DirStart1},
	{"start2", DirStart2},
	{"start4", DirStart4},
	{"version1", DirVersion1},
	{"fcode-time", DirFcodeTime},
	{"fcode-date", DirFcodeDate},
	{"fcode-end", DirFcodeEnd},
}

var directiveByName map[string]Directive

func init() {
	directiveByName = make(map[string]Directive, len(Directives))
	for _, e := range Directives {
		directiveByName[strings.ToUpper(e.Name)] = e.Dir
	}
}

// LookupDirective returns the dispatch constant for a core-vocabulary
// word, case-insensitive.
func LookupDirective(name string) (Directive, bool) {
	d, ok := directiveByName[strings.ToUpper(name)]
	return d, ok
}
