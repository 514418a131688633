/*
 * fcode-utils-sub000 - PCI class-code and EFI subsystem name tables.
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

// Package pciclass looks up human-readable names for PCI device class
// codes, PCI expansion-ROM code types, and EFI machine/subsystem types,
// for use by the detokenizer's diagnostic output (SPEC_FULL.md §6.7).
// The tables are data ported verbatim from
// original_source/shared/classcodes.c and eficodes.c, including a
// duplicate-class-code run in the original table (eight Class 0Dh
// entries all keyed 0x0D100): this package's linear-scan lookup
// reproduces the original's first-match behavior rather than silently
// "fixing" what is a pre-existing data quirk in the upstream table.
package pciclass

type nameEntry struct {
	Code uint32
	Name string
}

// classNames is the PCI Device Class-Code table, current as of PCI
// Local Bus Specification Revision 3.0.
var classNames = []nameEntry{
	{0x000000, "Legacy Device"},
	{0x000100, "VGA-Compatible Device"},
	{0x010000, "SCSI bus controller"},
	{0x010200, "Floppy disk controller"},
	{0x010300, "IPI bus controller"},
	{0x010400, "RAID controller"},
	{0x010520, "ATA controller, single stepping"},
	{0x010530, "ATA controller, continuous"},
	{0x010600, "Serial ATA controller - vendor specific interface"},
	{0x010601, "Serial ATA controller - AHCI 1.0 interface"},
	{0x010700, "Serial Attached SCSI controller"},
	{0x018000, "Mass Storage controller"},
	{0x020000, "Ethernet controller"},
	{0x020100, "Token Ring controller"},
	{0x020200, "FDDI controller"},
	{0x020300, "ATM controller"},
	{0x020400, "ISDN controller"},
	{0x020500, "WorldFip controller"},
	{0x028000, "Network controller"},
	{0x030000, "VGA Display controller"},
	{0x030001, "8514-compatible Display controller"},
	{0x030100, "XGA Display controller"},
	{0x030200, "3D Display controller"},
	{0x038000, "Display controller"},
	{0x040000, "Video device"},
	{0x040100, "Audio device"},
	{0x040200, "Computer Telephony device"},
	{0x048000, "Multimedia device"},
	{0x050000, "RAM memory controller"},
	{0x050100, "Flash memory controller"},
	{0x058000, "Memory controller"},
	{0x060000, "Host bridge"},
	{0x060100, "ISA bridge"},
	{0x060200, "EISA bridge"},
	{0x060300, "MCA bridge"},
	{0x060400, "PCI-to-PCI bridge"},
	{0x060401, "PCI-to-PCI bridge (subtractive decoding)"},
	{0x060500, "PCMCIA bridge"},
	{0x060600, "NuBus bridge"},
	{0x060700, "CardBus bridge"},
	{0x060940, "PCI-to-PCI bridge, Semi-transparent, primary facing Host"},
	{0x060980, "PCI-to-PCI bridge, Semi-transparent, secondary facing Host"},
	{0x060A00, "InfiniBand-to-PCI host bridge"},
	{0x068000, "Bridge device"},
	{0x070000, "Generic XT-compatible serial controller"},
	{0x070001, "16450-compatible serial controller"},
	{0x070002, "16550-compatible serial controller"},
	{0x070003, "16650-compatible serial controller"},
	{0x070004, "16750-compatible serial controller"},
	{0x070005, "16850-compatible serial controller"},
	{0x070006, "16950-compatible serial controller"},
	{0x070100, "Parallel port"},
	{0x070101, "Bi-directional parallel port"},
	{0x070102, "ECP 1.X compliant parallel port"},
	{0x070103, "IEEE1284 controller"},
	{0x0701FE, "IEEE1284 target device"},
	{0x070200, "Multiport serial controller"},
	{0x070300, "Generic modem"},
	{0x070301, "Hayes 16450-compatible modem"},
	{0x070302, "Hayes 16550-compatible modem"},
	{0x070303, "Hayes 16650-compatible modem"},
	{0x070304, "Hayes 16750-compatible modem"},
	{0x070400, "GPIB (IEEE 488.1/2) controller"},
	{0x070500, "Smart Card"},
	{0x078000, "Communications device"},
	{0x080000, "Generic 8259 PIC"},
	{0x080001, "ISA PIC"},
	{0x080002, "EISA PIC"},
	{0x080010, "I/O APIC interrupt controller"},
	{0x080020, "I/O(x) APIC interrupt controller"},
	{0x080100, "Generic 8237 DMA controller"},
	{0x080101, "ISA DMA controller"},
	{0x080102, "EISA DMA controller"},
	{0x080200, "Generic 8254 system timer"},
	{0x080201, "ISA system timer"},
	{0x080202, "EISA system timer-pair"},
	{0x080300, "Generic RTC controller"},
	{0x080301, "ISA RTC controller"},
	{0x080400, "Generic PCI Hot-Plug controller"},
	{0x080500, "SD Host controller"},
	{0x088000, "System peripheral"},
	{0x090000, "Keyboard controller"},
	{0x090100, "Digitizer (pen)"},
	{0x090200, "Mouse controller"},
	{0x090300, "Scanner controller"},
	{0x090400, "Generic Gameport controller"},
	{0x090410, "Legacy Gameport controller"},
	{0x098000, "Input controller"},
	{0x0A0000, "Generic docking station"},
	{0x0A8000, "Docking station"},
	{0x0B0000, "386 Processor"},
	{0x0B0100, "486 Processor"},
	{0x0B0200, "Pentium Processor"},
	{0x0B1000, "Alpha Processor"},
	{0x0B2000, "PowerPC Processor"},
	{0x0B3000, "MIPS Processor"},
	{0x0B4000, "Co-processor"},
	{0x0C0000, "IEEE 1394 (FireWire)"},
	{0x0C0010, "IEEE 1394 -- OpenHCI spec"},
	{0x0C0100, "ACCESS.bus"},
	{0x0C0200, "SSA"},
	{0x0C0300, "Universal Serial Bus (UHC spec)"},
	{0x0C0310, "Universal Serial Bus (Open Host spec)"},
	{0x0C0320, "USB2 Host controller (Intel Enhanced HCI spec)"},
	{0x0C0380, "Universal Serial Bus (no PI spec)"},
	{0x0C03FE, "USB Target Device"},
	{0x0C0400, "Fibre Channel"},
	{0x0C0500, "System Management Bus"},
	{0x0C0600, "InfiniBand"},
	{0x0C0700, "IPMI SMIC Interface"},
	{0x0C0701, "IPMI Kybd Controller Style Interface"},
	{0x0C0702, "IPMI Block Transfer Interface"},
	{0x0C0900, "CANbus"},
	{0x0D100, "iRDA compatible controller"},
	{0x0D100, "Consumer IR controller"},
	{0x0D100, "RF controller"},
	{0x0D100, "Bluetooth controller"},
	{0x0D100, "Broadband controller"},
	{0x0D100, "Ethernet (802.11a 5 GHz) controller"},
	{0x0D100, "Ethernet (802.11b 2.4 GHz) controller"},
	{0x0D100, "Wireless controller"},
	{0x0E0000, "Message FIFO at offset 040h"},
	{0x0F0100, "TV satellite comm. controller"},
	{0x0F0200, "Audio satellite comm. controller"},
	{0x0F0300, "Voice satellite comm. controller"},
	{0x0F0400, "Data satellite comm. controller"},
	{0x100000, "Network and computing en/decryption"},
	{0x101000, "Entertainment en/decryption"},
	{0x108000, "En/Decryption"},
	{0x110000, "DPIO modules"},
	{0x110100, "Perf. counters"},
	{0x111000, "Comm. synch., time and freq. test"},
	{0x112000, "Management card"},
	{0x118000, "Data acq./Signal proc."},
}

// allPrgIntfcs lists Base-Class/Sub-Class pairs (code>>8 of a full
// 24-bit class code) for which every Programming-Interface byte is
// valid, so a lookup that misses classNames retries here.
var allPrgIntfcs = []nameEntry{
	{0x0101, "IDE controller"},
	{0x0206, "PICMG 2.14 Multi Computing"},
	{0x0608, "RACEway bridge"},
	{0x0C08, "SERCOS Interface"},
	{0x0E00, "I2O Intelligent I/O, spec 1.0"},
}

// codeTypeNames is the PCI expansion-ROM Code Type table (the byte at
// offset 0x14 of a PCI Expansion ROM header's PCI Data Structure).
var codeTypeNames = []nameEntry{
	{0, "Intel x86"},
	{1, "Open Firmware"},
	{2, "HP PA Risc"},
	{3, "Intel EFI (unofficial)"},
}

// efiMachineTypeNames is the EFI image machine-type table (PE/COFF
// Machine field).
var efiMachineTypeNames = []nameEntry{
	{0x01C2, "ARMTHUMB_MIXED (ARM32/Thumb)"},
	{0x014C, "IA32 (x86)"},
	{0x0200, "IA64 (Itanium)"},
	{0x8664, "AMD64 (x86-64)"},
	{0xAA64, "ARM64 (AArch64)"},
	{0x0EBC, "EFI byte code"},
}

// efiSubsystemNames is the EFI image subsystem table (PE32+ optional
// header Subsystem field).
var efiSubsystemNames = []nameEntry{
	{10, "EFI Application"},
	{11, "EFI Boot Service Driver"},
	{12, "EFI Runtime Driver."},
}

func convertNumToName(num uint32, table []nameEntry, notFound string) string {
	for _, e := range table {
		if e.Code == num {
			return e.Name
		}
	}
	return notFound
}

// DeviceClassName returns the Device Class Name for a 24-bit PCI Class
// Code, falling back to the allPrgIntfcs table (keyed on the top 16
// bits, dropping the Programming Interface byte) before giving up.
func DeviceClassName(code uint32) string {
	if name := convertNumToName(code, classNames, ""); name != "" {
		return name
	}
	return convertNumToName(code>>8, allPrgIntfcs, "unknown")
}

// CodeTypeName returns the name of a PCI expansion-ROM Code Type byte.
func CodeTypeName(code uint8) string {
	return convertNumToName(uint32(code), codeTypeNames, "unknown as of PCI specs 2.2")
}

// EFIMachineTypeName returns the name of an EFI image machine-type
// code.
func EFIMachineTypeName(code uint16) string {
	return convertNumToName(uint32(code), efiMachineTypeNames, "unknown as of EFI specs 2.7")
}

// EFISubsystemName returns the name of an EFI image subsystem code.
func EFISubsystemName(code uint16) string {
	return convertNumToName(uint32(code), efiSubsystemNames, "unknown as of EFI specs 2.7")
}
