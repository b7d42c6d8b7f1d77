//go:build !linux
// +build !linux

package fuse

import (
	"fmt"

	"github.com/ostafen/microfat/internal/fat32"
)

func Mount(mountpoint string, vol *fat32.Volume) error {
	return fmt.Errorf("FUSE mount is only supported on Linux")
}
