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

import "fmt"

// MemDevice is a Device backed by an in-memory byte array. It is used
// throughout the tests, including those of the formatter, and supports
// injecting read faults on selected sectors to exercise retry paths.
type MemDevice struct {
	data  []byte
	ready bool

	failReads map[uint32]int
}

// NewMemDevice returns a ready in-memory device with the given capacity.
func NewMemDevice(sectors uint32) *MemDevice {
	return &MemDevice{
		data:      make([]byte, int(sectors)*SectorSize),
		ready:     true,
		failReads: make(map[uint32]int),
	}
}

func (d *MemDevice) Ready() bool { return d.ready }

// SetReady toggles the readiness flag reported to callers.
func (d *MemDevice) SetReady(ready bool) { d.ready = ready }

// NumSectors returns the device capacity in sectors.
func (d *MemDevice) NumSectors() uint32 {
	return uint32(len(d.data) / SectorSize)
}

// FailReads makes the next n reads of the sector at lba fail.
func (d *MemDevice) FailReads(lba uint32, n int) {
	d.failReads[lba] = n
}

// Bytes exposes the raw backing array. Mutations through the returned slice
// are visible to subsequent reads.
func (d *MemDevice) Bytes() []byte { return d.data }

// Sector returns the 512-byte slice backing the sector at lba.
func (d *MemDevice) Sector(lba uint32) []byte {
	off := int(lba) * SectorSize
	return d.data[off : off+SectorSize]
}

func (d *MemDevice) ReadSector(lba uint32, buf []byte) error {
	if err := d.check(lba, buf); err != nil {
		return err
	}
	if n := d.failReads[lba]; n > 0 {
		d.failReads[lba] = n - 1
		return fmt.Errorf("blockdev: injected read fault at lba %d", lba)
	}
	copy(buf, d.Sector(lba))
	return nil
}

func (d *MemDevice) WriteSector(lba uint32, buf []byte) error {
	if err := d.check(lba, buf); err != nil {
		return err
	}
	copy(d.Sector(lba), buf)
	return nil
}

func (d *MemDevice) Close() error {
	d.ready = false
	return nil
}

func (d *MemDevice) check(lba uint32, buf []byte) error {
	if err := checkBuf(buf); err != nil {
		return err
	}
	if !d.ready {
		return fmt.Errorf("blockdev: device not ready")
	}
	if lba >= d.NumSectors() {
		return fmt.Errorf("blockdev: lba %d out of range (%d sectors)", lba, d.NumSectors())
	}
	return nil
}
