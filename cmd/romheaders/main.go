/*
 * fcode-utils-sub000 - PCI expansion-ROM header dump command.
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

// Command romheaders walks a multi-image PCI expansion-ROM binary and
// prints each image's header fields, the way the original toolset's
// standalone romheaders utility does, reusing pciimg.Walk and
// pciclass's name tables rather than re-parsing headers itself.
package main

import (
	"fmt"
	"os"

	getopt "github.com/pborman/getopt/v2"

	"github.com/openbios/fcode-utils-sub000/pciclass"
	"github.com/openbios/fcode-utils-sub000/pciimg"
)

func main() {
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: romheaders rom-image...")
		os.Exit(1)
	}

	exit := 0
	for _, path := range args {
		if err := dumpFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "romheaders: %s: %s\n", path, err)
			exit = 1
		}
	}
	os.Exit(exit)
}

func dumpFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	images, err := pciimg.Walk(data)
	if err != nil {
		return err
	}
	fmt.Printf("%s: %d image(s)\n", path, len(images))
	for i, img := range images {
		fmt.Printf("  image %d: vendor=%04x device=%04x class=%s code-type=%s length=%d blocks revision=%04x last=%v\n",
			i, img.VendorID, img.DeviceID, pciclass.DeviceClassName(img.ClassCode), pciclass.CodeTypeName(uint8(img.CodeType)),
			img.LengthBlocks, img.Revision, img.LastImage)
		if img.CodeType == pciimg.CodeTypeOpenFirmware && img.FcodeOffset != 0 {
			fmt.Printf("    first fcode at offset %#x\n", img.FcodeOffset)
		}
	}
	return nil
}
