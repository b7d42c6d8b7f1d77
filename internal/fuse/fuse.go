//go:build linux
// +build linux

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
package fuse

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/ostafen/microfat/internal/fat32"
)

// FatFS serves the root directory of a mounted FAT32 volume read-only. The
// volume engine is strictly sequential, so every FUSE request takes the
// volume-wide mutex before touching it.
type FatFS struct {
	mtx sync.Mutex
	vol *fat32.Volume
}

func NewFS(vol *fat32.Volume) *FatFS {
	return &FatFS{vol: vol}
}

func (f *FatFS) Root() (fs.Node, error) {
	return &Dir{fs: f}, nil
}

// Dir implements both fs.Node and fs.HandleReadDirAller
type Dir struct {
	fs *FatFS
}

func (*Dir) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = os.ModeDir | 0555
	return nil
}

func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	var h fat32.File
	if err := d.fs.vol.FindFile(&h, name); err != nil {
		return nil, fuse.ENOENT
	}
	return &File{fs: d.fs, name: h.Name, size: h.Size, handle: h}, nil
}

func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	d.fs.mtx.Lock()
	defer d.fs.mtx.Unlock()

	var dirEntries []fuse.Dirent
	for n := uint32(0); ; n++ {
		var h fat32.File
		err := d.fs.vol.GetNthFile(&h, n)
		if errors.Is(err, fat32.ErrInvalidFile) {
			break
		}
		if err != nil {
			return nil, err
		}
		dirEntries = append(dirEntries, fuse.Dirent{
			Inode: uint64(n + 1),
			Name:  h.Name,
			Type:  fuse.DT_File,
		})
	}
	return dirEntries, nil
}

// File implements fs.Node and fs.HandleReader on top of a forward-only
// engine handle. Sequential reads continue from the cached cursor; reads
// behind it reopen the file and skip ahead.
type File struct {
	fs     *FatFS
	name   string
	size   uint32
	handle fat32.File
}

func (f *File) Attr(ctx context.Context, a *fuse.Attr) error {
	a.Mode = 0444
	a.Size = uint64(f.size)
	a.Mtime = time.Now()
	return nil
}

func (f *File) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	f.fs.mtx.Lock()
	defer f.fs.mtx.Unlock()

	if req.Offset >= int64(f.size) {
		resp.Data = []byte{}
		return nil
	}
	offset := uint32(req.Offset)

	if !f.handle.Exists || f.handle.Cursor > offset {
		var h fat32.File
		if err := f.fs.vol.FindFile(&h, f.name); err != nil {
			return fuse.ENOENT
		}
		f.handle = h
	}

	// The engine cursor only moves forward; discard bytes up to offset.
	var scratch [4096]byte
	for f.handle.Cursor < offset {
		skip := min(int(offset-f.handle.Cursor), len(scratch))
		n, err := f.fs.vol.ReadFile(&f.handle, scratch[:skip])
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}

	buf := make([]byte, req.Size)
	n, err := f.fs.vol.ReadFile(&f.handle, buf)
	if err != nil {
		return err
	}
	resp.Data = buf[:n]
	return nil
}
