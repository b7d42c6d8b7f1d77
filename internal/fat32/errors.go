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

import "errors"

// The closed set of errors surfaced by the volume engine. Callers classify
// failures with errors.Is. Format is the exception: it returns the device's
// own write errors unwrapped.
var (
	// ErrNoBlockDevice is returned by Mount when the block device is
	// missing or not ready.
	ErrNoBlockDevice = errors.New("fat32: block device not ready")

	// ErrBlockIO indicates a sector transfer failed after retries.
	ErrBlockIO = errors.New("fat32: block I/O error")

	// ErrNotFat32 indicates the MBR signature is wrong or no FAT32
	// partition exists.
	ErrNotFat32 = errors.New("fat32: no FAT32 partition")

	// ErrInvalidFile indicates a directory lookup exhausted the root
	// directory without a match, or a handle does not refer to a file.
	ErrInvalidFile = errors.New("fat32: invalid file")

	// ErrFilename indicates a name cannot be encoded in 8.3 form.
	ErrFilename = errors.New("fat32: invalid 8.3 filename")

	// ErrFilesystem indicates a structural inconsistency, such as the
	// FAT running out of free clusters.
	ErrFilesystem = errors.New("fat32: filesystem error")
)
