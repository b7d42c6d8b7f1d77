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

// Package fat32 implements an embedded-class FAT32 volume engine on top of a
// sector-addressed block device. It mounts the first FAT32 partition of an
// MBR-partitioned disk and manipulates the root directory and its files one
// 512-byte sector at a time through a single staging buffer owned by the
// Volume.
//
// The engine is strictly sequential: a Volume must not be shared between
// goroutines without external locking, and at most one sector is resident in
// the staging buffer at any time.
package fat32

import (
	"fmt"

	"github.com/ostafen/microfat/internal/blockdev"
)

const (
	sectorSize = blockdev.SectorSize

	// readSectorTries bounds how many times a sector read is attempted in
	// total before the operation surfaces ErrBlockIO.
	readSectorTries = 5
)

// Volume is a mounted FAT32 volume. It is created by Mount and holds the
// volume geometry, which is read-only afterwards, plus the single 512-byte
// staging buffer shared by all operations.
type Volume struct {
	dev blockdev.Device

	partStartLBA      uint32
	sectorsPerCluster uint8
	fatStartLBA       uint32
	dataStartLBA      uint32
	rootCluster       uint32
	fatSizeSectors    uint32

	// buf stages exactly one sector at a time. Any method loading a
	// different sector invalidates previous views into it.
	buf [sectorSize]byte
}

// Mount reads the MBR at LBA 0, locates the first FAT32 partition, parses
// its BIOS Parameter Block and returns the mounted volume. On failure no
// partial volume state is observable.
func Mount(dev blockdev.Device) (*Volume, error) {
	if dev == nil || !dev.Ready() {
		return nil, ErrNoBlockDevice
	}

	v := &Volume{dev: dev}
	if err := v.readSector(0); err != nil {
		return nil, err
	}
	mbr, err := ParseMBR(v.buf[:])
	if err != nil {
		return nil, err
	}
	part, err := mbr.FindFAT32Partition()
	if err != nil {
		return nil, err
	}

	start := part.ReadStartLBA()
	if err := v.readSector(start); err != nil {
		return nil, err
	}
	bs, err := ParseBootSector(v.buf[:])
	if err != nil {
		return nil, err
	}

	v.partStartLBA = start
	v.sectorsPerCluster = bs.SectorsPerCluster
	v.fatStartLBA = start + uint32(bs.ReservedSectors)
	v.dataStartLBA = v.fatStartLBA + bs.FATSize32*uint32(bs.NumFATs)
	v.rootCluster = bs.ReadRootCluster()
	v.fatSizeSectors = bs.FATSize32
	return v, nil
}

// SectorsPerCluster returns the cluster size in sectors.
func (v *Volume) SectorsPerCluster() uint8 { return v.sectorsPerCluster }

// FATStartLBA returns the first sector of the FAT region.
func (v *Volume) FATStartLBA() uint32 { return v.fatStartLBA }

// DataStartLBA returns the first sector of the data region.
func (v *Volume) DataStartLBA() uint32 { return v.dataStartLBA }

// RootCluster returns the first cluster of the root directory.
func (v *Volume) RootCluster() uint32 { return v.rootCluster }

// PartitionStartLBA returns the first sector of the mounted partition.
func (v *Volume) PartitionStartLBA() uint32 { return v.partStartLBA }

// sectorOf maps (cluster, sector-in-cluster) to an absolute LBA. Valid for
// cluster >= 2 and s < sectorsPerCluster.
func (v *Volume) sectorOf(cluster uint32, s uint8) uint32 {
	return v.dataStartLBA + uint32(v.sectorsPerCluster)*(cluster-2) + uint32(s)
}

// readSector loads the sector at lba into the staging buffer, retrying a
// bounded number of times before giving up with ErrBlockIO.
func (v *Volume) readSector(lba uint32) error {
	for try := 0; try < readSectorTries; try++ {
		if err := v.dev.ReadSector(lba, v.buf[:]); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: reading sector %d", ErrBlockIO, lba)
}

// writeSector flushes the staging buffer to the sector at lba.
func (v *Volume) writeSector(lba uint32) error {
	if err := v.dev.WriteSector(lba, v.buf[:]); err != nil {
		return fmt.Errorf("%w: writing sector %d", ErrBlockIO, lba)
	}
	return nil
}
