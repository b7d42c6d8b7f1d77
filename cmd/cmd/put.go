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
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/fat32"
	"github.com/ostafen/microfat/pkg/pbar"
)

func DefinePutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "put <image> <host-file> [name]",
		Short:        "Copy a host file into the root directory",
		Long: `The 'put' command creates a file inside the image and streams the host
file's bytes into it. The destination name defaults to the upper-cased base
name of the host file and must fit the 8.3 form. With --append, bytes are
appended to an existing file instead.`,
		Args:         cobra.RangeArgs(2, 3),
		SilenceUsage: true,
		RunE:         RunPut,
	}

	cmd.Flags().Bool("append", false, "append to an existing file")
	return cmd
}

func RunPut(cmd *cobra.Command, args []string) error {
	log := getLogger(cmd)

	src, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer src.Close()

	fi, err := src.Stat()
	if err != nil {
		return err
	}

	name := toShortName(filepath.Base(args[1]))
	if len(args) == 3 {
		name = toShortName(args[2])
	}

	v, dev, err := openVolume(args[0], false)
	if err != nil {
		return err
	}
	defer dev.Close()

	doAppend, _ := cmd.Flags().GetBool("append")

	var f fat32.File
	err = v.FindFile(&f, name)
	switch {
	case err == nil && !doAppend:
		return fmt.Errorf("%s already exists (use --append to extend it)", name)
	case err == nil:
		// Appends start at end of file.
		if err := skipToEnd(v, &f); err != nil {
			return err
		}
	case errors.Is(err, fat32.ErrInvalidFile):
		if err := v.CreateFile(&f, name); err != nil {
			return err
		}
		log.Debugf("created %s at cluster %d", name, f.StartCluster)
	default:
		return err
	}

	bar := pbar.New(fi.Size())
	r := bufio.NewReader(src)
	buf := make([]byte, 32*1024)
	var written int64
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if werr := v.WriteFile(&f, buf[:n]); werr != nil {
				return werr
			}
			bar.Add(n)
			written += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	bar.Finish()

	log.Infof("wrote %d bytes to %s", written, name)
	return nil
}

// skipToEnd advances the handle cursor to the end of the file by reading
// and discarding, since the engine cursor only moves forward.
func skipToEnd(v *fat32.Volume, f *fat32.File) error {
	buf := make([]byte, 32*1024)
	for f.Cursor < f.Size {
		n, err := v.ReadFile(f, buf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
	}
	return nil
}
