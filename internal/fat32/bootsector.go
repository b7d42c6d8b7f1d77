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
	"bytes"
	"encoding/binary"
	"fmt"
)

// BootSector is the FAT32 BIOS Parameter Block found at the first sector of
// the partition. The layout matches the on-disk structure byte for byte, so
// it can be decoded with a single little-endian binary.Read.
type BootSector struct {
	Jump              [3]byte  // 0x00 boot strap short or near jump
	OEMName           [8]byte  // 0x03
	SectorSize        uint16   // 0x0B bytes per logical sector
	SectorsPerCluster uint8    // 0x0D
	ReservedSectors   uint16   // 0x0E sectors before the first FAT
	NumFATs           uint8    // 0x10
	RootDirEntries    uint16   // 0x11 not used by FAT32
	TotalSectors16    uint16   // 0x13 0 if the partition exceeds 32MB
	Media             uint8    // 0x15
	FATSize16         uint16   // 0x16 not used by FAT32
	SectorsPerTrack   uint16   // 0x18
	NumHeads          uint16   // 0x1A
	HiddenSectors     uint32   // 0x1C
	TotalSectors32    uint32   // 0x20
	FATSize32         uint32   // 0x24 sectors per FAT
	Flags             uint16   // 0x28 bit 8: FAT mirroring, low 4: active FAT
	Version           uint16   // 0x2A
	RootCluster       [4]byte  // 0x2C first cluster of the root directory
	InfoSector        uint16   // 0x30
	BackupBoot        uint16   // 0x32
	Reserved          [12]byte // 0x34
	DriveNumber       uint8    // 0x40
	Reserved1         uint8    // 0x41
	ExtBootSig        uint8    // 0x42
	VolumeID          [4]byte  // 0x43
	VolumeLabel       [11]byte // 0x47
	FSType            [8]byte  // 0x52
	BootCode          [420]byte
	Marker            uint16 // 0x1FE boot sector signature (0xAA55)
}

// ReadRootCluster returns the first cluster of the root directory.
func (b *BootSector) ReadRootCluster() uint32 {
	return binary.LittleEndian.Uint32(b.RootCluster[:])
}

// ParseBootSector decodes a 512-byte sector as a FAT32 BPB, validating the
// trailing 0xAA55 marker and the cluster geometry.
func ParseBootSector(data []byte) (*BootSector, error) {
	if len(data) != sectorSize {
		return nil, fmt.Errorf("fat32: boot sector must be %d bytes, got %d", sectorSize, len(data))
	}

	var bs BootSector
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &bs); err != nil {
		return nil, fmt.Errorf("fat32: decoding boot sector: %w", err)
	}

	if bs.Marker != mbrSignature {
		return nil, fmt.Errorf("%w: bad boot sector marker 0x%04X", ErrNotFat32, bs.Marker)
	}
	spc := bs.SectorsPerCluster
	if spc == 0 || spc > 128 || spc&(spc-1) != 0 {
		return nil, fmt.Errorf("%w: sectors per cluster %d is not a power of two in 1..128", ErrNotFat32, spc)
	}
	if bs.FATSize32 == 0 || bs.NumFATs == 0 {
		return nil, fmt.Errorf("%w: zero FAT geometry", ErrNotFat32)
	}
	return &bs, nil
}

func (b *BootSector) String() string {
	return fmt.Sprintf("OEM: %s\n"+
		"Sector Size: %d\n"+
		"Sectors Per Cluster: %d\n"+
		"Reserved Sectors: %d\n"+
		"Number of FATs: %d\n"+
		"Sectors Per FAT: %d\n"+
		"Root Cluster: %d\n"+
		"Volume Label: %s",
		bytes.TrimRight(b.OEMName[:], " "),
		b.SectorSize, b.SectorsPerCluster, b.ReservedSectors,
		b.NumFATs, b.FATSize32, b.ReadRootCluster(),
		bytes.TrimRight(b.VolumeLabel[:], " "))
}
