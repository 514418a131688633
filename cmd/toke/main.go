/*
 * fcode-utils-sub000 - Tokenizer command-line front end.
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

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/openbios/fcode-utils-sub000/config"
	"github.com/openbios/fcode-utils-sub000/diag"
	"github.com/openbios/fcode-utils-sub000/toke"
)

// osOpener resolves fload/-I targets against the filesystem, trying name
// as given first and then each of includeDirs in order.
type osOpener struct{}

func (osOpener) Open(name string, includeDirs []string) ([]byte, string, error) {
	if data, err := os.ReadFile(name); err == nil {
		return data, name, nil
	}
	for _, dir := range includeDirs {
		p := filepath.Join(dir, name)
		if data, err := os.ReadFile(p); err == nil {
			return data, p, nil
		}
	}
	return nil, "", fmt.Errorf("cannot find %q", name)
}

func main() {
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose diagnostics")
	optOutput := getopt.StringLong("output", 'o', "", "Output file")
	optInclude := getopt.StringLong("include", 'I', "", "Comma-separated include directories")
	optDefine := getopt.StringLong("define", 'd', "", "Comma-separated NAME[=VAL] pre-defines for [DEFINED]")
	optTrace := getopt.StringLong("trace", 'T', "", "Comma-separated symbol names to trace")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: toke [options] source-file")
		os.Exit(1)
	}
	source := args[0]

	data, err := os.ReadFile(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "toke: %s\n", err)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Verbose = *optVerbose
	cfg.IncludeDirs = splitNonEmpty(*optInclude)
	cfg.Defines = splitNonEmpty(*optDefine)
	cfg.TraceSymbols = normalizeTraceNames(splitNonEmpty(*optTrace))

	rep := diag.NewReporter(os.Stderr)
	c := toke.New(cfg, osOpener{}, rep)
	for _, d := range cfg.Defines {
		name := d
		if i := strings.IndexByte(d, '='); i >= 0 {
			name = d[:i]
		}
		c.PreDefine(name)
	}

	c.Run(data, source)

	if !rep.ShouldWriteOutput() {
		os.Exit(rep.ExitCode())
	}

	outPath := *optOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(source, filepath.Ext(source)) + ".fc"
	}
	if err := os.WriteFile(outPath, c.Output(), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "toke: %s\n", err)
		os.Exit(1)
	}
	os.Exit(rep.ExitCode())
}

func normalizeTraceNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, strings.ToUpper(n))
	}
	return out
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
