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

	"github.com/ostafen/microfat/internal/blockdev"
)

// FormatOptions controls the geometry laid down by Format. Zero fields fall
// back to defaults producing a single FAT32 partition starting at LBA 2048
// with 8-sector clusters, 32 reserved sectors and two 1000-sector FATs.
type FormatOptions struct {
	TotalSectors      uint32
	PartitionStartLBA uint32
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	FATSizeSectors    uint32
	VolumeLabel       string
}

func (o *FormatOptions) withDefaults(dev blockdev.Device) FormatOptions {
	opts := *o
	if opts.TotalSectors == 0 {
		if d, ok := dev.(interface{ NumSectors() uint32 }); ok {
			opts.TotalSectors = d.NumSectors()
		}
	}
	if opts.PartitionStartLBA == 0 {
		opts.PartitionStartLBA = 2048
	}
	if opts.SectorsPerCluster == 0 {
		opts.SectorsPerCluster = 8
	}
	if opts.ReservedSectors == 0 {
		opts.ReservedSectors = 32
	}
	if opts.NumFATs == 0 {
		opts.NumFATs = 2
	}
	if opts.FATSizeSectors == 0 {
		opts.FATSizeSectors = 1000
	}
	if opts.VolumeLabel == "" {
		opts.VolumeLabel = "NO NAME"
	}
	return opts
}

// Format lays down an empty single-partition FAT32 filesystem on dev: an
// MBR with one FAT32 entry, the BPB at the partition start, zeroed FATs
// with the reserved and root-cluster entries set, and a zeroed root
// cluster. The resulting image mounts with an empty root directory.
func Format(dev blockdev.Device, o FormatOptions) error {
	if dev == nil || !dev.Ready() {
		return ErrNoBlockDevice
	}
	opts := o.withDefaults(dev)

	dataStart := opts.PartitionStartLBA + uint32(opts.ReservedSectors) +
		opts.FATSizeSectors*uint32(opts.NumFATs)
	rootEnd := dataStart + uint32(opts.SectorsPerCluster)
	if opts.TotalSectors < rootEnd {
		return fmt.Errorf("%w: %d sectors is too small for the requested geometry",
			ErrFilesystem, opts.TotalSectors)
	}

	var buf [sectorSize]byte

	// MBR: a single FAT32 (CHS) entry covering the rest of the disk.
	ent := buf[partitionTableOffset:]
	ent[0x04] = byte(PartitionTypeFAT32CHS)
	binary.LittleEndian.PutUint32(ent[0x08:], opts.PartitionStartLBA)
	binary.LittleEndian.PutUint32(ent[0x0C:], opts.TotalSectors-opts.PartitionStartLBA)
	binary.LittleEndian.PutUint16(buf[mbrSignatureOffset:], mbrSignature)
	if err := dev.WriteSector(0, buf[:]); err != nil {
		return err
	}

	// BPB at the partition start.
	for i := range buf {
		buf[i] = 0
	}
	copy(buf[0:], []byte{0xEB, 0x58, 0x90}) // jump
	copy(buf[3:], "MICROFAT")
	binary.LittleEndian.PutUint16(buf[11:], sectorSize)
	buf[13] = opts.SectorsPerCluster
	binary.LittleEndian.PutUint16(buf[14:], opts.ReservedSectors)
	buf[16] = opts.NumFATs
	buf[21] = 0xF8 // media descriptor: fixed disk
	binary.LittleEndian.PutUint32(buf[28:], opts.PartitionStartLBA)
	binary.LittleEndian.PutUint32(buf[32:], opts.TotalSectors-opts.PartitionStartLBA)
	binary.LittleEndian.PutUint32(buf[36:], opts.FATSizeSectors)
	binary.LittleEndian.PutUint32(buf[44:], rootDirCluster)
	buf[66] = 0x29 // extended boot signature
	copy(buf[71:82], "           ")
	copy(buf[71:82], opts.VolumeLabel)
	copy(buf[82:90], "FAT32   ")
	binary.LittleEndian.PutUint16(buf[mbrSignatureOffset:], mbrSignature)
	if err := dev.WriteSector(opts.PartitionStartLBA, buf[:]); err != nil {
		return err
	}

	// Zero every FAT sector, then seed the reserved entries of each FAT
	// copy: entry 0 carries the media descriptor, entry 1 and the root
	// cluster are end-of-chain.
	fatStart := opts.PartitionStartLBA + uint32(opts.ReservedSectors)
	for i := range buf {
		buf[i] = 0
	}
	for s := uint32(0); s < opts.FATSizeSectors*uint32(opts.NumFATs); s++ {
		if err := dev.WriteSector(fatStart+s, buf[:]); err != nil {
			return err
		}
	}
	binary.LittleEndian.PutUint32(buf[0:], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(buf[4:], endOfChainMark)
	binary.LittleEndian.PutUint32(buf[8:], endOfChainMark) // root cluster
	for n := uint32(0); n < uint32(opts.NumFATs); n++ {
		if err := dev.WriteSector(fatStart+n*opts.FATSizeSectors, buf[:]); err != nil {
			return err
		}
	}

	// Zero the root directory cluster.
	for i := range buf {
		buf[i] = 0
	}
	for s := uint32(0); s < uint32(opts.SectorsPerCluster); s++ {
		if err := dev.WriteSector(dataStart+s, buf[:]); err != nil {
			return err
		}
	}
	return nil
}

// rootDirCluster is the conventional first cluster of the root directory.
const rootDirCluster = 2
