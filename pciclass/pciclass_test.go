/*
 * fcode-utils-sub000 - PCI class-code and EFI subsystem name table tests.
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

package pciclass

import "testing"

func TestDeviceClassNameExactMatch(t *testing.T) {
	if got, want := DeviceClassName(0x020000), "Ethernet controller"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDeviceClassNameFallsBackToProgIntfcTable(t *testing.T) {
	// a class code absent from classNames but whose top 16 bits (code>>8)
	// match an allPrgIntfcs entry should still resolve rather than report
	// "unknown".
	entry := allPrgIntfcs[0]
	code := entry.Code<<8 | 0x42 // a programming-interface byte not in classNames
	got := DeviceClassName(code)
	if got != entry.Name {
		t.Fatalf("got %q, want %q from the program-interface fallback table", got, entry.Name)
	}
}

func TestDeviceClassNameUnknown(t *testing.T) {
	if got := DeviceClassName(0xFFFFFF); got != "unknown" {
		t.Fatalf("got %q, want unknown for an unrecognized class code", got)
	}
}

func TestCodeTypeName(t *testing.T) {
	if got, want := CodeTypeName(1), "Open Firmware"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := CodeTypeName(0xFE); got != "unknown as of PCI specs 2.2" {
		t.Fatalf("got %q, want the PCI-specific unknown message", got)
	}
}

func TestEFIMachineTypeName(t *testing.T) {
	if got, want := EFIMachineTypeName(0x8664), "AMD64 (x86-64)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := EFIMachineTypeName(0xFFFF); got != "unknown as of EFI specs 2.7" {
		t.Fatalf("got %q, want the EFI-specific unknown message", got)
	}
}

func TestEFISubsystemName(t *testing.T) {
	if got, want := EFISubsystemName(10), "EFI Application"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
