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
	"strings"
)

// Directory entries are 32 bytes each, 16 per sector. Field offsets within
// an entry, all values little-endian:
//
//	 0  name[8] + ext[3], space padded
//	11  attribute byte
//	12  reserved
//	20  starting cluster, high 16 bits
//	22  modify time
//	24  modify date
//	26  starting cluster, low 16 bits
//	28  file size, 32 bits
const (
	dirEntrySize     = 32
	dirEntriesPerSec = sectorSize / dirEntrySize

	entOffAttr      = 11
	entOffClusterHi = 20
	entOffTime      = 22
	entOffDate      = 24
	entOffClusterLo = 26
	entOffSize      = 28

	// entryFree marks the end of the directory in name[0]: this entry and
	// every following one are unused. entryDeleted marks a single deleted
	// entry.
	entryFree    = 0x00
	entryDeleted = 0xE5
)

// Attr is the directory entry attribute byte.
type Attr uint8

const (
	AttrReadOnly Attr = 1 << iota
	AttrHidden
	AttrSystem
	AttrVolumeID
	AttrDirectory
	AttrArchive

	// AttrLongName marks a VFAT long-filename continuation entry: read
	// only, hidden, system and volume ID all set at once.
	AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

// IsLongName reports whether the attribute byte marks an LFN entry, which
// the engine recognizes only to skip.
func (a Attr) IsLongName() bool {
	return a&AttrLongName == AttrLongName
}

func (a Attr) String() string {
	var b strings.Builder
	for _, f := range []struct {
		bit Attr
		c   byte
	}{
		{AttrReadOnly, 'r'},
		{AttrHidden, 'h'},
		{AttrSystem, 's'},
		{AttrVolumeID, 'v'},
		{AttrDirectory, 'd'},
		{AttrArchive, 'a'},
	} {
		if a&f.bit != 0 {
			b.WriteByte(f.c)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

// entStartCluster combines the split high/low 16-bit fields into the full
// starting cluster number.
func entStartCluster(ent []byte) uint32 {
	hi := uint32(binary.LittleEndian.Uint16(ent[entOffClusterHi:]))
	lo := uint32(binary.LittleEndian.Uint16(ent[entOffClusterLo:]))
	return hi<<16 | lo
}

func putEntStartCluster(ent []byte, cluster uint32) {
	binary.LittleEndian.PutUint16(ent[entOffClusterHi:], uint16(cluster>>16))
	binary.LittleEndian.PutUint16(ent[entOffClusterLo:], uint16(cluster))
}

func entFileSize(ent []byte) uint32 {
	return binary.LittleEndian.Uint32(ent[entOffSize:])
}

func putEntFileSize(ent []byte, size uint32) {
	binary.LittleEndian.PutUint32(ent[entOffSize:], size)
}
