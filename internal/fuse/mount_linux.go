//go:build linux
// +build linux

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
package fuse

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	fusefs "bazil.org/fuse/fs"
	"github.com/hashicorp/go-multierror"

	"github.com/ostafen/microfat/internal/fat32"
	osutil "github.com/ostafen/microfat/pkg/util/os"
)

// Mount serves the volume's root directory read-only at mountpoint until a
// termination signal arrives and the filesystem unmounts cleanly.
func Mount(mountpoint string, vol *fat32.Volume) error {
	created, err := osutil.EnsureDir(mountpoint, true)
	if err != nil {
		return err
	}
	if created {
		defer os.Remove(mountpoint)
	}

	c, err := fuse.Mount(mountpoint)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- fusefs.New(c, nil).Serve(NewFS(vol))
	}()

	err = waitForUmount(mountpoint, serveErr)
	if cerr := c.Close(); cerr != nil {
		err = multierror.Append(err, cerr).ErrorOrNil()
	}
	return err
}

func waitForUmount(mountpoint string, serveErr <-chan error) error {
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)

	log.Println("Waiting for termination signal...")

	const maxUnmountRetries = 3

	unmountAttempts := 0
	for {
		select {
		case err := <-serveErr:
			return err
		case sig := <-sigc:
			log.Printf("Signal received: %v.", sig)
		}

		log.Printf("Attempting unmount of %s (attempt %d/%d)...",
			mountpoint, unmountAttempts+1, maxUnmountRetries)
		err := fuse.Unmount(mountpoint)
		if err == nil {
			log.Println("Unmounted successfully, exiting.")
			return nil
		}

		unmountAttempts++
		if unmountAttempts >= maxUnmountRetries {
			return multierror.Append(nil, err).ErrorOrNil()
		}
		log.Printf("Unmount failed: %v. Remaining retries: %d. Waiting for another signal to retry...",
			err, maxUnmountRetries-unmountAttempts)
	}
}
