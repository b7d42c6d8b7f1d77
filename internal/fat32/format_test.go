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

func TestFormatProducesMountableVolume(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	require.NoError(t, fat32.Format(dev, fat32.FormatOptions{}))

	v, err := fat32.Mount(dev)
	require.NoError(t, err)
	require.Equal(t, uint8(8), v.SectorsPerCluster())
	require.Equal(t, uint32(2080), v.FATStartLBA())
	require.Equal(t, uint32(4080), v.DataStartLBA())
	require.Equal(t, uint32(2), v.RootCluster())

	// The fresh root directory is empty.
	var f fat32.File
	require.ErrorIs(t, v.GetNthFile(&f, 0), fat32.ErrInvalidFile)

	// Reserved FAT entries and the root cluster terminator are in place
	// in both FAT copies.
	for _, fatLBA := range []uint32{2080, 3080} {
		fat := dev.Sector(fatLBA)
		require.Equal(t, uint32(0x0FFFFFF8), binary.LittleEndian.Uint32(fat[0:]))
		require.Equal(t, uint32(0x0FFFFFFF), binary.LittleEndian.Uint32(fat[4:]))
		require.Equal(t, uint32(0x0FFFFFFF), binary.LittleEndian.Uint32(fat[8:]))
	}
}

func TestFormatRejectsTinyDevice(t *testing.T) {
	dev := blockdev.NewMemDevice(1024)
	err := fat32.Format(dev, fat32.FormatOptions{})
	require.ErrorIs(t, err, fat32.ErrFilesystem)
}

func TestFormatNotReady(t *testing.T) {
	dev := blockdev.NewMemDevice(8192)
	dev.SetReady(false)
	require.ErrorIs(t, fat32.Format(dev, fat32.FormatOptions{}), fat32.ErrNoBlockDevice)
}
