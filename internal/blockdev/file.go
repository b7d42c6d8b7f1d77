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
package blockdev

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
)

// FileDevice is a Device backed by a disk image file or a raw block device.
// Sector lba maps to byte offset lba*SectorSize in the underlying file.
type FileDevice struct {
	file     *os.File
	sectors  uint32
	readOnly bool
}

// OpenFile opens the disk image or raw device at path. On Windows, drive
// letter paths such as "E:" are normalized to raw volume paths first.
func OpenFile(path string, readOnly bool) (*FileDevice, error) {
	f, err := openDevice(NormalizeVolumePath(path), readOnly)
	if err != nil {
		return nil, fmt.Errorf("blockdev: open %s: %w", path, err)
	}

	size, err := deviceSize(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: size of %s: %w", path, err)
	}

	return &FileDevice{
		file:     f,
		sectors:  uint32(size / SectorSize),
		readOnly: readOnly,
	}, nil
}

// Create creates (or truncates) a disk image file spanning the given number
// of sectors, returning a writable device over it.
func Create(path string, sectors uint32) (*FileDevice, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("blockdev: create %s: %w", path, err)
	}
	if err := f.Truncate(int64(sectors) * SectorSize); err != nil {
		f.Close()
		return nil, fmt.Errorf("blockdev: truncate %s: %w", path, err)
	}
	return &FileDevice{file: f, sectors: sectors}, nil
}

func (d *FileDevice) Ready() bool {
	return d.file != nil
}

// NumSectors returns the device capacity in sectors.
func (d *FileDevice) NumSectors() uint32 {
	return d.sectors
}

func (d *FileDevice) ReadSector(lba uint32, buf []byte) error {
	if err := checkBuf(buf); err != nil {
		return err
	}
	if lba >= d.sectors {
		return fmt.Errorf("blockdev: read lba %d out of range (%d sectors)", lba, d.sectors)
	}
	_, err := d.file.ReadAt(buf, int64(lba)*SectorSize)
	return err
}

func (d *FileDevice) WriteSector(lba uint32, buf []byte) error {
	if err := checkBuf(buf); err != nil {
		return err
	}
	if d.readOnly {
		return fmt.Errorf("blockdev: device opened read-only")
	}
	if lba >= d.sectors {
		return fmt.Errorf("blockdev: write lba %d out of range (%d sectors)", lba, d.sectors)
	}
	_, err := d.file.WriteAt(buf, int64(lba)*SectorSize)
	return err
}

// Close syncs pending writes and releases the underlying file, aggregating
// both failures when they occur together.
func (d *FileDevice) Close() error {
	if d.file == nil {
		return nil
	}

	var result *multierror.Error
	if !d.readOnly {
		if err := d.file.Sync(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := d.file.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	d.file = nil
	return result.ErrorOrNil()
}
