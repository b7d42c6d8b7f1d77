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
	"fmt"
	"strings"
)

// shortNameLen is the on-disk length of an 8.3 name: 8 base characters plus
// 3 extension characters, space padded, with no separator.
const shortNameLen = 11

// encodeName converts a host-visible "BASE.EXT" name into the 11-byte
// space-padded on-disk form. The input is stored as given: on-disk names are
// conventionally upper case and callers are expected to pass them that way.
func encodeName(name string) ([shortNameLen]byte, error) {
	var out [shortNameLen]byte
	for i := range out {
		out[i] = ' '
	}

	base, ext := name, ""
	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		base, ext = name[:dot], name[dot+1:]
		if strings.IndexByte(ext, '.') >= 0 {
			return out, fmt.Errorf("%w: %q has more than one dot", ErrFilename, name)
		}
	}
	if len(base) == 0 || len(base) > 8 {
		return out, fmt.Errorf("%w: base name %q must be 1 to 8 characters", ErrFilename, base)
	}
	if len(ext) > 3 {
		return out, fmt.Errorf("%w: extension %q exceeds 3 characters", ErrFilename, ext)
	}

	copy(out[:8], base)
	copy(out[8:], ext)
	return out, nil
}

// decodeName converts the 11-byte on-disk form back into "BASE.EXT". The
// extension and its dot are omitted when the extension field is blank.
func decodeName(raw []byte) string {
	base := strings.TrimRight(string(raw[:8]), " ")
	if raw[8] == ' ' {
		return base
	}
	return base + "." + strings.TrimRight(string(raw[8:shortNameLen]), " ")
}
