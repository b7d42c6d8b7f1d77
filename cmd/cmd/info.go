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

	"github.com/spf13/cobra"

	"github.com/ostafen/microfat/internal/blockdev"
	"github.com/ostafen/microfat/internal/fat32"
)

func DefineInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "info <image>",
		Short:        "Print the partition table and FAT32 volume geometry",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE:         RunInfo,
	}
}

func RunInfo(cmd *cobra.Command, args []string) error {
	dev, err := blockdev.OpenFile(args[0], true)
	if err != nil {
		return err
	}
	defer dev.Close()

	sector := make([]byte, blockdev.SectorSize)
	if err := dev.ReadSector(0, sector); err != nil {
		return err
	}
	mbr, err := fat32.ParseMBR(sector)
	if err != nil {
		return err
	}
	fmt.Println("--- Master Boot Record ---")
	fmt.Println(mbr.String())

	part, err := mbr.FindFAT32Partition()
	if err != nil {
		return err
	}
	if err := dev.ReadSector(part.ReadStartLBA(), sector); err != nil {
		return err
	}
	bs, err := fat32.ParseBootSector(sector)
	if err != nil {
		return err
	}
	fmt.Println("\n--- FAT32 Boot Sector ---")
	fmt.Println(bs.String())

	v, err := fat32.Mount(dev)
	if err != nil {
		return err
	}
	fmt.Println("\n--- Volume Geometry ---")
	fmt.Printf("FAT Start LBA: %d\n", v.FATStartLBA())
	fmt.Printf("Data Start LBA: %d\n", v.DataStartLBA())
	fmt.Printf("Root Cluster: %d\n", v.RootCluster())
	fmt.Printf("Sectors Per Cluster: %d\n", v.SectorsPerCluster())
	return nil
}
