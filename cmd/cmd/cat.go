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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/fat32"
	"github.com/ostafen/microfat/pkg/pbar"
)

func DefineCatCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cat <image> <name>",
		Short:        "Read a file out of the root directory",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE:         RunCat,
	}

	cmd.Flags().StringP("output", "o", "", "write to the given host file instead of stdout")
	return cmd
}

func RunCat(cmd *cobra.Command, args []string) error {
	v, dev, err := openVolume(args[0], true)
	if err != nil {
		return err
	}
	defer dev.Close()

	var f fat32.File
	if err := v.FindFile(&f, toShortName(args[1])); err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	var bar *pbar.ProgressBar

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		file, err := os.Create(output)
		if err != nil {
			return err
		}
		defer file.Close()

		w := bufio.NewWriter(file)
		defer w.Flush()
		out = w

		bar = pbar.New(int64(f.Size))
	}

	buf := make([]byte, 32*1024)
	for {
		n, err := v.ReadFile(&f, buf)
		if err != nil {
			return err
		}
		if n == 0 {
			break
		}
		if _, err := out.Write(buf[:n]); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(n)
		}
	}
	if bar != nil {
		bar.Finish()
	}
	return nil
}
