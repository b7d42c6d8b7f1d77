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
package fat32_test

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/ostafen/microfat/internal/blockdev"
	"github.com/ostafen/microfat/internal/fat32"
	"github.com/stretchr/testify/require"
)

// seedEmptyVolume hand-crafts the raw bytes of an empty FAT32 volume: an
// MBR with a single type 0x0B partition at LBA 2048 and a BPB with
// 8-sector clusters, 32 reserved sectors and two 1000-sector FATs.
func seedEmptyVolume(dev *blockdev.MemDevice) {
	mbr := dev.Sector(0)
	ent := mbr[0x1BE:]
	ent[4] = 0x0B
	binary.LittleEndian.PutUint32(ent[8:], 2048)
	binary.LittleEndian.PutUint32(ent[12:], 6144)
	mbr[510] = 0x55
	mbr[511] = 0xAA

	bpb := dev.Sector(2048)
	binary.LittleEndian.PutUint16(bpb[11:], 512)
	bpb[13] = 8                                    // sectors per cluster
	binary.LittleEndian.PutUint16(bpb[14:], 32)    // reserved sectors
	bpb[16] = 2                                    // number of FATs
	binary.LittleEndian.PutUint32(bpb[36:], 1000)  // sectors per FAT
	binary.LittleEndian.PutUint32(bpb[44:], 2)     // root cluster
	bpb[510] = 0x55
	bpb[511] = 0xAA

	// Root cluster chain terminator in the first FAT sector.
	fat := dev.Sector(2080)
	binary.LittleEndian.PutUint32(fat[8:], 0x0FFFFFFF)
}

func TestMountEmptyVolume(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)

	v, err := fat32.Mount(dev)
	require.NoError(t, err)

	require.Equal(t, uint8(8), v.SectorsPerCluster())
	require.Equal(t, uint32(2080), v.FATStartLBA())
	require.Equal(t, uint32(4080), v.DataStartLBA())
	require.Equal(t, uint32(2), v.RootCluster())
	require.Equal(t, uint32(2048), v.PartitionStartLBA())
}

func TestMountDeviceNotReady(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)
	dev.SetReady(false)

	_, err := fat32.Mount(dev)
	require.ErrorIs(t, err, fat32.ErrNoBlockDevice)

	_, err = fat32.Mount(nil)
	require.ErrorIs(t, err, fat32.ErrNoBlockDevice)
}

func TestMountBadSignature(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)
	dev.Sector(0)[510] = 0x00

	_, err := fat32.Mount(dev)
	require.ErrorIs(t, err, fat32.ErrNotFat32)
}

func TestMountNoFat32Partition(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)
	dev.Sector(0)[0x1BE+4] = 0x83 // Linux partition type

	_, err := fat32.Mount(dev)
	require.ErrorIs(t, err, fat32.ErrNotFat32)
}

func TestMountSkipsToFat32Entry(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)

	// Shift the FAT32 entry to the second table slot; the first becomes a
	// foreign partition.
	mbr := dev.Sector(0)
	copy(mbr[0x1CE:0x1DE], mbr[0x1BE:0x1CE])
	mbr[0x1BE+4] = 0x83
	binary.LittleEndian.PutUint32(mbr[0x1BE+8:], 63)

	v, err := fat32.Mount(dev)
	require.NoError(t, err)
	require.Equal(t, uint32(2048), v.PartitionStartLBA())
}

func TestMountRetriesSectorReads(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)

	// Four consecutive failures stay within the retry budget.
	dev.FailReads(0, 4)
	_, err := fat32.Mount(dev)
	require.NoError(t, err)

	// Five failures exhaust it.
	dev.FailReads(0, 5)
	_, err = fat32.Mount(dev)
	require.ErrorIs(t, err, fat32.ErrBlockIO)
}

func TestParseBootSectorRejectsBadGeometry(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	seedEmptyVolume(dev)

	for _, spc := range []byte{0, 3, 255} {
		dev.Sector(2048)[13] = spc
		_, err := fat32.Mount(dev)
		require.Truef(t, errors.Is(err, fat32.ErrNotFat32), "spc=%d: got %v", spc, err)
	}
}
