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

// File is a caller-owned handle to a root directory entry with a forward
// byte cursor. Handles are populated by FindFile, GetNthFile or CreateFile
// and invalidated by DeleteFile.
type File struct {
	// Exists reports whether the handle refers to a live entry.
	Exists bool

	// Name is the decoded 8.3 name, "BASE.EXT" form.
	Name string

	Attr         Attr
	StartCluster uint32
	Size         uint32

	// Cursor is the byte offset of the next read or write, in
	// [0, Size]. It only moves forward.
	Cursor uint32

	// Location of the backing directory entry: the LBA of its sector and
	// its index within that sector (0..15).
	entryLBA   uint32
	entryIndex uint8
}

// filePos is the cursor decomposed into chain coordinates: the cluster
// holding the cursor, the sector within it and the byte offset within that
// sector.
type filePos struct {
	cluster uint32
	sector  uint8
	offset  int
}

// seek walks the cluster chain from the file's starting cluster to the
// cluster containing the cursor. With extend set, chain ends encountered on
// the way are grown by allocating and linking fresh clusters, so a cursor
// sitting exactly on a cluster boundary at end of file lands on writable
// ground. Without it, a premature chain end is reported as ErrFilesystem.
func (v *Volume) seek(f *File, extend bool) (filePos, error) {
	linear := f.Cursor / sectorSize

	pos := filePos{
		cluster: f.StartCluster,
		sector:  uint8(linear % uint32(v.sectorsPerCluster)),
		offset:  int(f.Cursor % sectorSize),
	}
	for hops := linear / uint32(v.sectorsPerCluster); hops > 0; hops-- {
		next, err := v.nextCluster(pos.cluster)
		if err != nil {
			return pos, err
		}
		if !isValidCluster(next) {
			if !extend {
				return pos, ErrFilesystem
			}
			if next, err = v.growChain(pos.cluster); err != nil {
				return pos, err
			}
		}
		pos.cluster = next
	}
	return pos, nil
}

// growChain appends one freshly allocated cluster after tail and returns
// it. The new cluster is marked end-of-chain before tail is linked to it.
func (v *Volume) growChain(tail uint32) (uint32, error) {
	next, err := v.allocateFree()
	if err != nil {
		return 0, err
	}
	if err := v.link(tail, next); err != nil {
		return 0, err
	}
	return next, nil
}

// ReadFile copies up to len(p) bytes at the cursor into p, following the
// cluster chain across sector and cluster boundaries. The count is clamped
// to the bytes remaining before end of file. A truncated chain ends the
// read early; the cursor advances by exactly the bytes delivered.
func (v *Volume) ReadFile(f *File, p []byte) (int, error) {
	if !f.Exists {
		return 0, ErrInvalidFile
	}

	n := len(p)
	if remaining := f.Size - f.Cursor; uint32(n) > remaining {
		n = int(remaining)
	}
	if n == 0 {
		return 0, nil
	}

	pos, err := v.seek(f, false)
	if err != nil {
		if err == ErrFilesystem {
			return 0, nil
		}
		return 0, err
	}

	copied := 0
	for copied < n {
		if err := v.readSector(v.sectorOf(pos.cluster, pos.sector)); err != nil {
			return copied, err
		}
		chunk := min(n-copied, sectorSize-pos.offset)
		copy(p[copied:], v.buf[pos.offset:pos.offset+chunk])
		copied += chunk
		f.Cursor += uint32(chunk)
		pos.offset = 0

		if copied == n {
			break
		}
		pos.sector++
		if pos.sector == v.sectorsPerCluster {
			next, err := v.nextCluster(pos.cluster)
			if err != nil {
				return copied, err
			}
			if !isValidCluster(next) {
				return copied, nil
			}
			pos.cluster = next
			pos.sector = 0
		}
	}
	return copied, nil
}

// WriteFile stores p at the cursor, flushing each touched sector and
// allocating and linking new clusters past the current chain tail. After
// the data is on disk the directory entry's size is raised by len(p), and
// only then are the in-memory cursor and size advanced, so a failed write
// leaves the handle where it was.
func (v *Volume) WriteFile(f *File, p []byte) error {
	if !f.Exists {
		return ErrInvalidFile
	}
	if len(p) == 0 {
		return nil
	}

	pos, err := v.seek(f, true)
	if err != nil {
		return err
	}

	written := 0
	for written < len(p) {
		lba := v.sectorOf(pos.cluster, pos.sector)
		if err := v.readSector(lba); err != nil {
			return err
		}
		chunk := min(len(p)-written, sectorSize-pos.offset)
		copy(v.buf[pos.offset:], p[written:written+chunk])
		if err := v.writeSector(lba); err != nil {
			return err
		}
		written += chunk
		pos.offset = 0

		if written == len(p) {
			break
		}
		pos.sector++
		if pos.sector == v.sectorsPerCluster {
			next, err := v.nextCluster(pos.cluster)
			if err != nil {
				return err
			}
			if !isValidCluster(next) {
				if next, err = v.growChain(pos.cluster); err != nil {
					return err
				}
			}
			pos.cluster = next
			pos.sector = 0
		}
	}

	// Data is flushed; raise the size in the backing directory entry.
	if err := v.readSector(f.entryLBA); err != nil {
		return err
	}
	ent := v.buf[int(f.entryIndex)*dirEntrySize:]
	putEntFileSize(ent, entFileSize(ent)+uint32(len(p)))
	if err := v.writeSector(f.entryLBA); err != nil {
		return err
	}

	f.Size += uint32(len(p))
	f.Cursor += uint32(len(p))
	return nil
}
