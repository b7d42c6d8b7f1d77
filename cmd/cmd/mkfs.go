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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/blockdev"
	"github.com/ostafen/microfat/internal/fat32"
)

func DefineMkfsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mkfs <image>",
		Short:        "Create an empty FAT32 filesystem on an image file or device",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunMkfs,
	}

	cmd.Flags().Uint32("sectors", 131072, "image size in 512-byte sectors (used when creating a new image)")
	cmd.Flags().Uint8("sectors-per-cluster", 8, "cluster size in sectors (power of two, 1-128)")
	cmd.Flags().Uint32("fat-sectors", 0, "sectors per FAT (0 = default geometry)")
	cmd.Flags().StringP("label", "l", "", "volume label")

	return cmd
}

func RunMkfs(cmd *cobra.Command, args []string) error {
	log := getLogger(cmd)

	sectors, _ := cmd.Flags().GetUint32("sectors")
	spc, _ := cmd.Flags().GetUint8("sectors-per-cluster")
	fatSectors, _ := cmd.Flags().GetUint32("fat-sectors")
	label, _ := cmd.Flags().GetString("label")

	path := args[0]

	var dev *blockdev.FileDevice
	var err error
	if _, serr := os.Stat(path); os.IsNotExist(serr) {
		log.Infof("creating image %s (%d sectors)", path, sectors)
		dev, err = blockdev.Create(path, sectors)
	} else {
		dev, err = blockdev.OpenFile(path, false)
	}
	if err != nil {
		return err
	}
	defer dev.Close()

	if err := fat32.Format(dev, fat32.FormatOptions{
		SectorsPerCluster: spc,
		FATSizeSectors:    fatSectors,
		VolumeLabel:       label,
	}); err != nil {
		return err
	}

	fmt.Printf("formatted %s: FAT32, %d sectors per cluster\n", path, spc)
	return nil
}
