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

// rootWalker iterates the 32-byte entries of the root directory chain:
// entry within sector, sector within cluster, cluster to next cluster via
// the FAT. The entry under the cursor lives in the volume staging buffer,
// so callers must not load other sectors while holding a view of it.
type rootWalker struct {
	v       *Volume
	cluster uint32
	sector  uint8
	index   int
	lba     uint32
	started bool
}

func (v *Volume) newRootWalker() rootWalker {
	return rootWalker{v: v, cluster: v.rootCluster}
}

// next advances the cursor to the following entry position, loading
// directory sectors as needed. It returns false when the cluster chain is
// exhausted; w.cluster then still names the last cluster of the chain.
func (w *rootWalker) next() (bool, error) {
	if !w.started {
		w.started = true
		w.lba = w.v.sectorOf(w.cluster, 0)
		return true, w.v.readSector(w.lba)
	}

	w.index++
	if w.index < dirEntriesPerSec {
		return true, nil
	}

	w.index = 0
	w.sector++
	if w.sector == w.v.sectorsPerCluster {
		next, err := w.v.nextCluster(w.cluster)
		if err != nil {
			return false, err
		}
		if !isValidCluster(next) {
			return false, nil
		}
		w.cluster = next
		w.sector = 0
	}
	w.lba = w.v.sectorOf(w.cluster, w.sector)
	return true, w.v.readSector(w.lba)
}

// entry returns the 32-byte view of the current entry inside the staging
// buffer. Stale once another sector is loaded.
func (w *rootWalker) entry() []byte {
	off := w.index * dirEntrySize
	return w.v.buf[off : off+dirEntrySize]
}

// fill populates f from the entry under the walker cursor.
func (w *rootWalker) fill(f *File) {
	ent := w.entry()
	f.Exists = true
	f.Name = decodeName(ent[:shortNameLen])
	f.Attr = Attr(ent[entOffAttr])
	f.StartCluster = entStartCluster(ent)
	f.Size = entFileSize(ent)
	f.Cursor = 0
	f.entryLBA = w.lba
	f.entryIndex = uint8(w.index)
}

// GetNthFile locates the n-th live entry of the root directory, counting
// from zero and skipping deleted and long-filename entries, and populates f.
// Running off the end of the directory yields ErrInvalidFile.
func (v *Volume) GetNthFile(f *File, n uint32) error {
	f.Exists = false

	w := v.newRootWalker()
	for {
		ok, err := w.next()
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidFile
		}
		ent := w.entry()
		if ent[0] == entryFree {
			return ErrInvalidFile
		}
		if ent[0] == entryDeleted || Attr(ent[entOffAttr]).IsLongName() {
			continue
		}
		if n == 0 {
			w.fill(f)
			return nil
		}
		n--
	}
}

// FindFile locates the root directory entry whose decoded name equals name
// and populates f. The comparison is byte-for-byte: on-disk names are upper
// case, so callers pass upper-case names. A miss yields ErrInvalidFile.
func (v *Volume) FindFile(f *File, name string) error {
	f.Exists = false

	w := v.newRootWalker()
	for {
		ok, err := w.next()
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidFile
		}
		ent := w.entry()
		if ent[0] == entryFree {
			return ErrInvalidFile
		}
		if ent[0] == entryDeleted || Attr(ent[entOffAttr]).IsLongName() {
			continue
		}
		if decodeName(ent[:shortNameLen]) == name {
			w.fill(f)
			return nil
		}
	}
}

// CreateFile inserts a new zero-length file into the root directory,
// reusing the first free or deleted slot, or extending the directory chain
// by a freshly zeroed cluster when no slot is left. The name is validated
// before any cluster is allocated.
func (v *Volume) CreateFile(f *File, name string) error {
	f.Exists = false

	raw, err := encodeName(name)
	if err != nil {
		return err
	}

	w := v.newRootWalker()
	for {
		ok, err := w.next()
		if err != nil {
			return err
		}
		if !ok {
			if err := v.extendRootDir(&w); err != nil {
				return err
			}
			break
		}
		if b := w.entry()[0]; b == entryFree || b == entryDeleted {
			break
		}
	}
	entryLBA, entryIndex := w.lba, w.index

	// The data cluster for the new file. Claiming it loads FAT sectors
	// into the staging buffer, so the directory sector is reloaded after.
	dataCluster, err := v.allocateFree()
	if err != nil {
		return err
	}
	if err := v.readSector(entryLBA); err != nil {
		return err
	}

	ent := v.buf[entryIndex*dirEntrySize : (entryIndex+1)*dirEntrySize]
	for i := range ent {
		ent[i] = 0
	}
	copy(ent[:shortNameLen], raw[:])
	putEntStartCluster(ent, dataCluster)
	if err := v.writeSector(entryLBA); err != nil {
		return err
	}

	f.Exists = true
	f.Name = name
	f.Attr = 0
	f.StartCluster = dataCluster
	f.Size = 0
	f.Cursor = 0
	f.entryLBA = entryLBA
	f.entryIndex = uint8(entryIndex)
	return nil
}

// extendRootDir appends a zero-filled cluster to the root directory chain
// and repositions the walker on its first entry. Zeroing keeps the
// end-of-directory terminator intact for subsequent scans.
func (v *Volume) extendRootDir(w *rootWalker) error {
	cluster, err := v.allocateFree()
	if err != nil {
		return err
	}
	if err := v.link(w.cluster, cluster); err != nil {
		return err
	}
	if err := v.zeroCluster(cluster); err != nil {
		return err
	}

	w.cluster = cluster
	w.sector = 0
	w.index = 0
	w.lba = v.sectorOf(cluster, 0)
	return v.readSector(w.lba)
}

// zeroCluster clears every sector of cluster through the staging buffer.
func (v *Volume) zeroCluster(cluster uint32) error {
	for i := range v.buf {
		v.buf[i] = 0
	}
	for s := uint8(0); s < v.sectorsPerCluster; s++ {
		if err := v.writeSector(v.sectorOf(cluster, s)); err != nil {
			return err
		}
	}
	return nil
}

// DeleteFile frees the file's cluster chain in the FAT and marks its
// directory entry deleted. The handle no longer refers to a file afterwards.
func (v *Volume) DeleteFile(f *File) error {
	if !f.Exists {
		return ErrInvalidFile
	}
	if err := v.freeChain(f.StartCluster); err != nil {
		return err
	}
	if err := v.readSector(f.entryLBA); err != nil {
		return err
	}
	v.buf[int(f.entryIndex)*dirEntrySize] = entryDeleted
	if err := v.writeSector(f.entryLBA); err != nil {
		return err
	}
	f.Exists = false
	return nil
}

// RenameFile re-encodes the entry name in place. The handle keeps its
// cursor and size; only the name changes, on disk and in memory.
func (v *Volume) RenameFile(f *File, newName string) error {
	if !f.Exists {
		return ErrInvalidFile
	}
	raw, err := encodeName(newName)
	if err != nil {
		return err
	}
	if err := v.readSector(f.entryLBA); err != nil {
		return err
	}
	copy(v.buf[int(f.entryIndex)*dirEntrySize:], raw[:])
	if err := v.writeSector(f.entryLBA); err != nil {
		return err
	}
	f.Name = newName
	return nil
}
