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
package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/blockdev"
	"github.com/ostafen/microfat/internal/fat32"
	"github.com/ostafen/microfat/internal/logger"
)

func getLogger(cmd *cobra.Command) *logger.Logger {
	level, _ := cmd.Flags().GetString("log-level")
	return logger.New(os.Stderr, logger.ParseLevel(level))
}

// openVolume opens the image or device at path and mounts its first FAT32
// partition. The caller closes the returned device.
func openVolume(path string, readOnly bool) (*fat32.Volume, *blockdev.FileDevice, error) {
	dev, err := blockdev.OpenFile(path, readOnly)
	if err != nil {
		return nil, nil, err
	}

	v, err := fat32.Mount(dev)
	if err != nil {
		dev.Close()
		return nil, nil, err
	}
	return v, dev, nil
}

// toShortName upper-cases a host name so it matches the on-disk 8.3 form
// produced by this tool.
func toShortName(name string) string {
	return strings.ToUpper(name)
}
