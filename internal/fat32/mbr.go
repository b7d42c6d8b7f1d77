// Copyright (c) 2025 Stefano Scafiti
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
package fat32

import (
	"encoding/binary"
	"fmt"
)

const (
	mbrSignature         = 0xAA55
	partitionTableOffset = 0x1BE
	mbrSignatureOffset   = 0x1FE
	partitionEntrySize   = 16
	numPartitionEntries  = 4
)

// PartitionType is the single-byte partition type ID of an MBR entry.
type PartitionType uint8

const (
	PartitionTypeEmpty    PartitionType = 0x00
	PartitionTypeFAT32CHS PartitionType = 0x0B
	PartitionTypeFAT32LBA PartitionType = 0x0C
)

// IsFAT32 reports whether the type byte marks a FAT32 partition.
func (t PartitionType) IsFAT32() bool {
	return t == PartitionTypeFAT32CHS || t == PartitionTypeFAT32LBA
}

func (t PartitionType) String() string {
	switch t {
	case PartitionTypeEmpty:
		return "Empty"
	case PartitionTypeFAT32CHS:
		return "FAT32 (CHS)"
	case PartitionTypeFAT32LBA:
		return "FAT32 (LBA)"
	default:
		return fmt.Sprintf("Unknown (0x%02X)", uint8(t))
	}
}

// PartitionEntry is a single 16-byte entry of the MBR partition table.
// Multi-byte fields are stored as byte arrays to make the little-endian
// conversion explicit when reading from the raw sector.
type PartitionEntry struct {
	BootIndicator uint8         // 0x00: 0x80 for bootable, 0x00 for inactive
	StartCHS      [3]byte       // 0x01: starting Cylinder-Head-Sector address
	Type          PartitionType // 0x04: partition type ID
	EndCHS        [3]byte       // 0x05: ending Cylinder-Head-Sector address
	StartLBA      [4]byte       // 0x08: starting LBA, uint32 little-endian
	TotalSectors  [4]byte       // 0x0C: sectors in partition, uint32 little-endian
}

// ReadStartLBA returns the starting LBA of the partition.
func (p *PartitionEntry) ReadStartLBA() uint32 {
	return binary.LittleEndian.Uint32(p.StartLBA[:])
}

// ReadTotalSectors returns the total number of sectors in the partition.
func (p *PartitionEntry) ReadTotalSectors() uint32 {
	return binary.LittleEndian.Uint32(p.TotalSectors[:])
}

func (p *PartitionEntry) String() string {
	return fmt.Sprintf("  Type: %s\n  Start LBA: %d\n  Total Sectors: %d",
		p.Type, p.ReadStartLBA(), p.ReadTotalSectors())
}

// MBR holds the parsed partition table of the master boot record at LBA 0.
type MBR struct {
	DiskSignature    [4]byte
	PartitionEntries [numPartitionEntries]PartitionEntry
}

// ParseMBR parses a 512-byte sector into an MBR, validating the trailing
// 0xAA55 boot signature. An invalid signature yields ErrNotFat32.
func ParseMBR(data []byte) (*MBR, error) {
	if len(data) != sectorSize {
		return nil, fmt.Errorf("fat32: MBR must be %d bytes, got %d", sectorSize, len(data))
	}
	if sig := binary.LittleEndian.Uint16(data[mbrSignatureOffset:]); sig != mbrSignature {
		return nil, fmt.Errorf("%w: bad MBR signature 0x%04X", ErrNotFat32, sig)
	}

	var mbr MBR
	copy(mbr.DiskSignature[:], data[0x1B8:0x1BC])

	for i := 0; i < numPartitionEntries; i++ {
		e := data[partitionTableOffset+i*partitionEntrySize:]
		p := &mbr.PartitionEntries[i]
		p.BootIndicator = e[0x00]
		copy(p.StartCHS[:], e[0x01:0x04])
		p.Type = PartitionType(e[0x04])
		copy(p.EndCHS[:], e[0x05:0x08])
		copy(p.StartLBA[:], e[0x08:0x0C])
		copy(p.TotalSectors[:], e[0x0C:0x10])
	}
	return &mbr, nil
}

// FindFAT32Partition returns the first table entry whose type byte marks a
// FAT32 partition, in MBR order.
func (m *MBR) FindFAT32Partition() (*PartitionEntry, error) {
	for i := range m.PartitionEntries {
		if m.PartitionEntries[i].Type.IsFAT32() {
			return &m.PartitionEntries[i], nil
		}
	}
	return nil, fmt.Errorf("%w: no FAT32 entry in partition table", ErrNotFat32)
}

func (m *MBR) String() string {
	s := fmt.Sprintf("Disk Signature: 0x%08X", binary.LittleEndian.Uint32(m.DiskSignature[:]))
	for i := range m.PartitionEntries {
		s += fmt.Sprintf("\nPartition %d:\n%s", i+1, m.PartitionEntries[i].String())
	}
	return s
}
