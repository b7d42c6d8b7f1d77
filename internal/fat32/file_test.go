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

	"github.com/ostafen/microfat/internal/fat32"
	"github.com/stretchr/testify/require"
)

func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i % 251)
	}
	return p
}

func TestCreateWriteReadBack(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "HELLO.TXT"))
	require.NoError(t, v.WriteFile(&f, []byte("world")))

	var g fat32.File
	require.NoError(t, v.FindFile(&g, "HELLO.TXT"))
	require.Equal(t, uint32(5), g.Size)

	buf := make([]byte, 5)
	n, err := v.ReadFile(&g, buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	// The cursor sits at end of file; further reads return nothing.
	n, err = v.ReadFile(&g, buf)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestMultiClusterWrite(t *testing.T) {
	v, dev := formatVolume(t, singleSectorClusters)

	data := pattern(1500)

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "BIG.BIN"))
	require.NoError(t, v.WriteFile(&f, data))
	require.Equal(t, uint32(1500), f.Size)

	// With 512-byte clusters the chain is exactly three long, terminated
	// by an end-of-chain mark.
	fat := dev.Sector(v.FATStartLBA())
	entry := func(c uint32) uint32 {
		return binary.LittleEndian.Uint32(fat[c*4:]) & 0x0FFFFFFF
	}

	chain := []uint32{f.StartCluster}
	c := f.StartCluster
	for entry(c) < 0x0FFFFFF7 {
		c = entry(c)
		chain = append(chain, c)
	}
	require.Len(t, chain, 3)
	require.GreaterOrEqual(t, entry(chain[2]), uint32(0x0FFFFFF8))

	var g fat32.File
	require.NoError(t, v.FindFile(&g, "BIG.BIN"))
	require.Equal(t, uint32(1500), g.Size)

	got := make([]byte, 1500)
	n, err := v.ReadFile(&g, got)
	require.NoError(t, err)
	require.Equal(t, 1500, n)
	require.Equal(t, data, got)
}

func TestDeleteReclaimsClusters(t *testing.T) {
	v, dev := formatVolume(t, singleSectorClusters)

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "BIG.BIN"))
	require.NoError(t, v.WriteFile(&f, pattern(1500)))
	lowest := f.StartCluster

	require.NoError(t, v.DeleteFile(&f))

	fat := dev.Sector(v.FATStartLBA())
	for c := lowest; c < lowest+3; c++ {
		require.Equal(t, uint32(0), binary.LittleEndian.Uint32(fat[c*4:])&0x0FFFFFFF)
	}

	var g fat32.File
	require.ErrorIs(t, v.FindFile(&g, "BIG.BIN"), fat32.ErrInvalidFile)

	// The next allocation returns the lowest reclaimed cluster.
	require.NoError(t, v.CreateFile(&g, "NEXT.BIN"))
	require.Equal(t, lowest, g.StartCluster)
}

func TestWriteRaisesOnDiskSize(t *testing.T) {
	v, dev := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "GROW.BIN"))

	// GROW.BIN occupies entry 0 of the first root directory sector.
	entSize := func() uint32 {
		return binary.LittleEndian.Uint32(dev.Sector(v.DataStartLBA())[28:])
	}
	require.Equal(t, uint32(0), entSize())

	require.NoError(t, v.WriteFile(&f, pattern(100)))
	require.Equal(t, uint32(100), entSize())

	require.NoError(t, v.WriteFile(&f, pattern(900)))
	require.Equal(t, uint32(1000), entSize())
	require.Equal(t, uint32(1000), f.Size)
	require.Equal(t, uint32(1000), f.Cursor)
}

// TestFragmentedFileReadBack interleaves writes to two files so the first
// one's chain is not contiguous on disk, then verifies reads follow the FAT
// rather than assuming adjacent clusters.
func TestFragmentedFileReadBack(t *testing.T) {
	v, dev := formatVolume(t, singleSectorClusters)

	a := pattern(512)
	b := make([]byte, 512)
	for i := range b {
		b[i] = 0xBB
	}

	var fa, fb fat32.File
	require.NoError(t, v.CreateFile(&fa, "A.BIN"))
	require.NoError(t, v.WriteFile(&fa, a))
	require.NoError(t, v.CreateFile(&fb, "B.BIN"))
	require.NoError(t, v.WriteFile(&fb, b))

	// Extending A now allocates past B's cluster.
	tail := pattern(600)
	require.NoError(t, v.WriteFile(&fa, tail))

	fat := dev.Sector(v.FATStartLBA())
	next := binary.LittleEndian.Uint32(fat[fa.StartCluster*4:]) & 0x0FFFFFFF
	require.NotEqual(t, fa.StartCluster+1, next, "chain should skip over B's cluster")

	var g fat32.File
	require.NoError(t, v.FindFile(&g, "A.BIN"))
	require.Equal(t, uint32(1112), g.Size)

	got := make([]byte, 1112)
	n, err := v.ReadFile(&g, got)
	require.NoError(t, err)
	require.Equal(t, 1112, n)
	require.Equal(t, append(append([]byte{}, a...), tail...), got)
}

func TestReadClampsToFileSize(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "SMALL.TXT"))
	require.NoError(t, v.WriteFile(&f, []byte("abc")))

	var g fat32.File
	require.NoError(t, v.FindFile(&g, "SMALL.TXT"))

	buf := make([]byte, 64)
	n, err := v.ReadFile(&g, buf)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Equal(t, "abc", string(buf[:3]))
	require.Equal(t, uint32(3), g.Cursor)
}

func TestSequentialReadsAdvanceCursor(t *testing.T) {
	v, _ := formatVolume(t, singleSectorClusters)

	data := pattern(1300)

	var f fat32.File
	require.NoError(t, v.CreateFile(&f, "SEQ.BIN"))
	require.NoError(t, v.WriteFile(&f, data))

	var g fat32.File
	require.NoError(t, v.FindFile(&g, "SEQ.BIN"))

	var got []byte
	buf := make([]byte, 100)
	for {
		n, err := v.ReadFile(&g, buf)
		require.NoError(t, err)
		if n == 0 {
			break
		}
		got = append(got, buf[:n]...)
	}
	require.Equal(t, data, got)
}

func TestOperationsOnInvalidHandle(t *testing.T) {
	v, _ := formatVolume(t, fat32.FormatOptions{})

	var f fat32.File
	_, err := v.ReadFile(&f, make([]byte, 8))
	require.ErrorIs(t, err, fat32.ErrInvalidFile)
	require.ErrorIs(t, v.WriteFile(&f, []byte("x")), fat32.ErrInvalidFile)
	require.ErrorIs(t, v.RenameFile(&f, "X.TXT"), fat32.ErrInvalidFile)
	require.ErrorIs(t, v.DeleteFile(&f), fat32.ErrInvalidFile)
}
