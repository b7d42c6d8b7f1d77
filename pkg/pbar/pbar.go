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
package pbar

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ostafen/microfat/pkg/util/format"
)

const MinRefreshRate = time.Millisecond * 500

// ProgressBar tracks byte progress of a transfer and renders a single
// rewritten terminal line.
type ProgressBar struct {
	TotalBytes     int64
	ProcessedBytes int64

	startTime      time.Time
	lastUpdateTime time.Time
}

// New returns a progress bar expecting totalBytes of work.
func New(totalBytes int64) *ProgressBar {
	return &ProgressBar{
		TotalBytes: totalBytes,
		startTime:  time.Now(),
	}
}

// Add accounts n more processed bytes and re-renders when enough time has
// passed since the previous update.
func (pb *ProgressBar) Add(n int) {
	pb.ProcessedBytes += int64(n)
	pb.render(false)
}

// Finish forces a final render and terminates the line.
func (pb *ProgressBar) Finish() {
	pb.render(true)
	fmt.Fprintln(os.Stderr)
}

func (pb *ProgressBar) render(force bool) {
	if !force && time.Since(pb.lastUpdateTime) < MinRefreshRate {
		return
	}
	pb.lastUpdateTime = time.Now()

	percentage := float64(0)
	if pb.TotalBytes > 0 {
		percentage = float64(pb.ProcessedBytes) / float64(pb.TotalBytes) * 100
	}

	const barLength = 20
	filledLen := int(barLength * percentage / 100)
	var bar string
	if filledLen >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filledLen) + ">" + strings.Repeat(" ", barLength-filledLen-1)
	}

	elapsed := time.Since(pb.startTime).Seconds()
	var speed string
	if elapsed > 0 {
		speed = fmt.Sprintf("%s/s", format.FormatBytes(int64(float64(pb.ProcessedBytes)/elapsed)))
	}

	fmt.Fprintf(os.Stderr, "\r[%s] %3.0f%% %s/%s %s",
		bar, percentage,
		format.FormatBytes(pb.ProcessedBytes),
		format.FormatBytes(pb.TotalBytes),
		speed)
}
