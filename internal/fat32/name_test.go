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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeName(t *testing.T) {
	tests := []struct {
		name string
		want string // 11-byte on-disk form
	}{
		{"HELLO.TXT", "HELLO   TXT"},
		{"A", "A          "},
		{"A.B", "A       B  "},
		{"ABCDEFGH.EXT", "ABCDEFGHEXT"},
		{"README", "README     "},
		{"X.CC", "X       CC "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := encodeName(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(raw[:]))
		})
	}
}

func TestEncodeNameRejects(t *testing.T) {
	for _, name := range []string{
		"",                // empty
		"TOOLONGNAME.TXT", // base exceeds 8
		"A.B.C",           // two dots
		"ABCDEFGHI",       // base exceeds 8, no extension
		"A.ABCD",          // extension exceeds 3
		".TXT",            // empty base
		"ABCDEFGHIJKLMN",  // longer than any 8.3 form
	} {
		_, err := encodeName(name)
		require.Truef(t, errors.Is(err, ErrFilename), "%q: got %v", name, err)
	}
}

func TestDecodeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"HELLO   TXT", "HELLO.TXT"},
		{"A          ", "A"},
		{"ABCDEFGHEXT", "ABCDEFGH.EXT"},
		{"README     ", "README"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, decodeName([]byte(tt.raw)))
	}
}

func TestNameRoundTrip(t *testing.T) {
	for _, name := range []string{
		"HELLO.TXT", "A", "A.B", "ABCDEFGH.EXT", "README", "DATA.BIN",
	} {
		raw, err := encodeName(name)
		require.NoError(t, err)
		require.Equal(t, name, decodeName(raw[:]))

		// Re-encoding the decoded form is bitwise identical.
		again, err := encodeName(decodeName(raw[:]))
		require.NoError(t, err)
		require.Equal(t, raw, again)
	}
}
