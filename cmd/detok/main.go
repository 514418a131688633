/*
 * fcode-utils-sub000 - Detokenizer command-line front end.
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

	getopt "github.com/pborman/getopt/v2"

	"github.com/openbios/fcode-utils-sub000/detok"
	"github.com/openbios/fcode-utils-sub000/detok/addfcodes"
)

func main() {
	optVerbose := getopt.BoolLong("verbose", 'v', "Verbose: print FCode-number comments")
	optAll := getopt.BoolLong("all", 'a', "Continue decoding past end0/end1")
	optLineNumbers := getopt.BoolLong("lines", 'n', "Show line numbers")
	optOffsets := getopt.BoolLong("offsets", 'o', "Show byte offsets (supersedes -n)")
	optFcodeFile := getopt.StringLong("fcodes", 'f', "", "Additional user-defined FCode name assignments")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: detok [options] fcode-file...")
		os.Exit(1)
	}

	var extra *addfcodes.Table
	if *optFcodeFile != "" {
		f, err := os.Open(*optFcodeFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "detok: %s\n", err)
			os.Exit(1)
		}
		var diags []addfcodes.Diagnostic
		extra, diags = addfcodes.Load(f, func(uint16) (string, bool) { return "", false })
		f.Close()
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "detok: %s:%d: %s\n", *optFcodeFile, d.Line, d.Message)
		}
	}

	opts := detok.Options{
		Verbose:     *optVerbose,
		DecodeAll:   *optAll,
		LineNumbers: *optLineNumbers || *optOffsets,
		Offsets:     *optOffsets,
	}

	exit := 0
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "detok: %s\n", err)
			exit = 1
			continue
		}
		dict := detok.NewDictionary(extra)
		detok.Run(data, os.Stdout, dict, opts)
	}
	os.Exit(exit)
}
