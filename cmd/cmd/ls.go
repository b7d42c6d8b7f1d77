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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/fat32"
	"github.com/ostafen/microfat/pkg/util/format"
)

func DefineLsCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "ls <image>",
		Short:        "List the files in the root directory",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunLs,
	}
}

func RunLs(cmd *cobra.Command, args []string) error {
	v, dev, err := openVolume(args[0], true)
	if err != nil {
		return err
	}
	defer dev.Close()

	var total uint64
	for n := uint32(0); ; n++ {
		var f fat32.File
		err := v.GetNthFile(&f, n)
		if errors.Is(err, fat32.ErrInvalidFile) {
			break
		}
		if err != nil {
			return err
		}
		fmt.Printf("%s %10s  %s\n", f.Attr, format.FormatBytes(int64(f.Size)), f.Name)
		total += uint64(f.Size)
	}
	fmt.Printf("total %s\n", format.FormatBytes(int64(total)))
	return nil
}
