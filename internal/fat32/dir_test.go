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
	"testing"

	"github.com/ostafen/microfat/internal/blockdev"
	"github.com/ostafen/microfat/internal/fat32"
	"github.com/stretchr/testify/require"
)

func formatVolume(t *testing.T, opts fat32.FormatOptions) (*fat32.Volume, *blockdev.MemDevice) {
	t.Helper()

	dev := blockdev.NewMemDevice(8192)
	require.NoError(t, fat32.Format(dev, opts))

	v, err := fat32.Mount(dev)
	require.NoError(t, err)
	return v, dev
}

var singleSectorClusters = fat32.FormatOptions{
	SectorsPerCluster: 1,
	FATSizeSectors:    16,
}

func TestGetNthSkipsLFNAndDeleted(t *testing.T) {
	v, dev := formatVolume(t, fat32.FormatOptions{})

	// Seed the first root directory sector by hand: an LFN continuation
	// entry, a deleted entry, then a regular file.
	root := dev.Sector(v.DataStartLBA())
	lfn := root[0:32]
	lfn[0] = 0x41
	lfn[11] = 0x0F

	deleted := root[32:64]
	copy(deleted[:11], "OLDFILE TXT")
	deleted[0] = 0xE5

	ent := root[64:96]
	copy(ent[:11], "README  TXT")
	binary.LittleEndian.PutUint16(ent[26:], 3)
	binary.LittleEndian.PutUint32(ent[28:], 42)

	var f fat32.File
	require.NoError(t, v.GetNthFile(&f, 0))
	require.True(t, f.Exists)
	require.Equal(t, "README.TXT", f.Name)
	require.Equal(t, uint32(3), f.StartCluster)
	require.Equal(t, uint32(42), f.Size)

	require.ErrorIs(t, v.GetNthFile(&f, 1), fat32.ErrInvalidFile)
	require.False(t, f.Exists)
}

func TestGetNthCountsLiveEntries(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	for _, name := range []string{"ONE.TXT", "TWO.TXT", "THREE.TXT"} {
		require.NoError(t, v.CreateFile(&f, name))
	}

	for n, want := range []string{"ONE.TXT", "TWO.TXT", "THREE.TXT"} {
		require.NoError(t, v.GetNthFile(&f, uint32(n)))
		require.Equal(t, want, f.Name)
	}
	require.ErrorIs(t, v.GetNthFile(&f, 3), fat32.ErrInvalidFile)
}

func TestFindFile(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "HELLO.TXT"))

	var g fat32.File
	require.NoError(t, v.FindFile(&g, "HELLO.TXT"))
	require.True(t, g.Exists)
	require.Equal(t, f.StartCluster, g.StartCluster)

	// The comparison is byte-for-byte against the stored name.
	require.ErrorIs(t, v.FindFile(&g, "hello.txt"), fat32.ErrInvalidFile)
	require.ErrorIs(t, v.FindFile(&g, "MISSING.TXT"), fat32.ErrInvalidFile)
}

func TestCreateRejectsBadNames(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.ErrorIs(t, v.CreateFile(&f, "TOOLONGNAME.TXT"), fat32.ErrFilename)
	require.ErrorIs(t, v.CreateFile(&f, "A.B.C"), fat32.ErrFilename)
	require.False(t, f.Exists)

	// A rejected name does not claim any cluster: the next creation still
	// gets the first free one.
	require.NoError(t, v.CreateFile(&f, "GOOD.TXT"))
	require.Equal(t, v.RootCluster()+1, f.StartCluster)
}

func TestCreateReusesDeletedSlot(t *testing.T) {
	v, dev := formatVolume(t, fat32.FormatOptions{})

	var a, b, c fat32.File
	require.NoError(t, v.CreateFile(&a, "A.TXT"))
	require.NoError(t, v.CreateFile(&b, "B.TXT"))
	require.NoError(t, v.DeleteFile(&a))

	require.NoError(t, v.CreateFile(&c, "C.TXT"))

	// C.TXT landed in A's old slot: entry 0 of the first root sector.
	root := dev.Sector(v.DataStartLBA())
	require.Equal(t, "C       TXT", string(root[0:11]))

	var f fat32.File
	require.NoError(t, v.FindFile(&f, "B.TXT"))
	require.NoError(t, v.FindFile(&f, "C.TXT"))
}

func TestCreateExtendsRootChain(t *testing.T) {
	v, dev := formatVolume(t, singleSectorClusters)

	// One cluster of root directory holds 16 entries; the 17th file needs
	// a fresh directory cluster.
	var f fat32.File
	for i := 0; i < 17; i++ {
		name := string([]byte{'A' + byte(i)}) + ".TXT"
		require.NoError(t, v.CreateFile(&f, name))
	}

	fat := dev.Sector(v.FATStartLBA())
	rootNext := binary.LittleEndian.Uint32(fat[v.RootCluster()*4:]) & 0x0FFFFFFF
	require.GreaterOrEqual(t, rootNext, uint32(2))
	require.Less(t, rootNext, uint32(0x0FFFFFF7))

	// The 17th entry is findable and the extension cluster is terminated.
	require.NoError(t, v.FindFile(&f, "Q.TXT"))
	next := binary.LittleEndian.Uint32(fat[rootNext*4:]) & 0x0FFFFFFF
	require.GreaterOrEqual(t, next, uint32(0x0FFFFFF8))
}

func TestRenameFile(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "OLD.TXT"))
	require.NoError(t, v.WriteFile(&f, []byte("payload")))

	require.NoError(t, v.RenameFile(&f, "NEW.TXT"))
	require.Equal(t, "NEW.TXT", f.Name)

	var g fat32.File
	require.ErrorIs(t, v.FindFile(&g, "OLD.TXT"), fat32.ErrInvalidFile)
	require.NoError(t, v.FindFile(&g, "NEW.TXT"))
	require.Equal(t, uint32(7), g.Size)

	// An unencodable name leaves everything in place.
	require.ErrorIs(t, v.RenameFile(&f, "WAYTOOLONGNAME.TXT"), fat32.ErrFilename)
	require.NoError(t, v.FindFile(&g, "NEW.TXT"))
}

func TestDeleteFile(t *testing.T) {
	v, dev := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "DOOMED.TXT"))
	start := f.StartCluster
	require.NoError(t, v.DeleteFile(&f))
	require.False(t, f.Exists)

	require.ErrorIs(t, v.DeleteFile(&f), fat32.ErrInvalidFile)

	var g fat32.File
	require.ErrorIs(t, v.FindFile(&g, "DOOMED.TXT"), fat32.ErrInvalidFile)

	// The entry is tombstoned, not zeroed.
	root := dev.Sector(v.DataStartLBA())
	require.Equal(t, byte(0xE5), root[0])

	// And the data cluster is free again.
	fat := dev.Sector(v.FATStartLBA())
	require.Equal(t, uint32(0), binary.LittleEndian.Uint32(fat[start*4:])&0x0FFFFFFF)
}
