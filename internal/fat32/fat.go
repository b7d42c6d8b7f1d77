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

// The FAT region is an array of 32-bit cluster pointers, 128 per sector.
// Only the low 28 bits of each entry are defined; the high 4 bits are
// reserved and preserved on every write.
const (
	fatEntriesPerSector = sectorSize / 4

	clusterMask = 0x0FFFFFFF

	freeCluster    = 0x00000000
	badCluster     = 0x0FFFFFF7
	endOfChainMin  = 0x0FFFFFF8
	endOfChainMark = 0x0FFFFFFF
)

// Cluster value classification. The four predicates partition the masked
// 28-bit value space: exactly one holds for any FAT entry.

func isFreeCluster(c uint32) bool {
	return c&clusterMask == freeCluster
}

func isValidCluster(c uint32) bool {
	c &= clusterMask
	return c != freeCluster && c < badCluster
}

func isBadCluster(c uint32) bool {
	return c&clusterMask == badCluster
}

func isEndOfChain(c uint32) bool {
	return c&clusterMask >= endOfChainMin
}

// fatPos maps a cluster index to the LBA of its FAT sector and the byte
// offset of its entry within that sector.
func (v *Volume) fatPos(cluster uint32) (lba uint32, off int) {
	return v.fatStartLBA + cluster/fatEntriesPerSector,
		int(cluster%fatEntriesPerSector) * 4
}

// nextCluster follows the FAT link of cluster, returning the masked 28-bit
// pointer stored in its slot.
func (v *Volume) nextCluster(cluster uint32) (uint32, error) {
	lba, off := v.fatPos(cluster)
	if err := v.readSector(lba); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(v.buf[off:]) & clusterMask, nil
}

// setFatEntry rewrites the low 28 bits of the FAT slot at byte offset off in
// the currently loaded FAT sector, keeping the reserved high bits intact.
func (v *Volume) setFatEntry(off int, value uint32) {
	raw := binary.LittleEndian.Uint32(v.buf[off:])
	binary.LittleEndian.PutUint32(v.buf[off:], raw&^uint32(clusterMask)|value&clusterMask)
}

// allocateFree linearly scans the FAT starting right after the root cluster
// for the first free slot, marks it end-of-chain, flushes the FAT sector and
// returns the claimed cluster index. The scan is bounded by the FAT size;
// exhausting it yields ErrFilesystem.
func (v *Volume) allocateFree() (uint32, error) {
	limit := v.fatSizeSectors * fatEntriesPerSector

	lba := ^uint32(0)
	for c := v.rootCluster + 1; c < limit; c++ {
		sector, off := v.fatPos(c)
		if sector != lba {
			if err := v.readSector(sector); err != nil {
				return 0, err
			}
			lba = sector
		}
		if !isFreeCluster(binary.LittleEndian.Uint32(v.buf[off:])) {
			continue
		}
		v.setFatEntry(off, endOfChainMark)
		if err := v.writeSector(sector); err != nil {
			return 0, err
		}
		return c, nil
	}
	return 0, fmt.Errorf("%w: out of free clusters", ErrFilesystem)
}

// link points the FAT slot of head at tail, extending a chain by one
// cluster. Callers allocate tail first so a crash between the two writes
// leaves an orphaned but terminated cluster rather than a loop.
func (v *Volume) link(head, tail uint32) error {
	lba, off := v.fatPos(head)
	if err := v.readSector(lba); err != nil {
		return err
	}
	v.setFatEntry(off, tail)
	return v.writeSector(lba)
}

// freeChain walks the chain starting at cluster, marking every visited slot
// free, until the walk leaves the valid cluster range.
func (v *Volume) freeChain(cluster uint32) error {
	for isValidCluster(cluster) {
		lba, off := v.fatPos(cluster)
		if err := v.readSector(lba); err != nil {
			return err
		}
		next := binary.LittleEndian.Uint32(v.buf[off:]) & clusterMask
		v.setFatEntry(off, freeCluster)
		if err := v.writeSector(lba); err != nil {
			return err
		}
		cluster = next
	}
	return nil
}
