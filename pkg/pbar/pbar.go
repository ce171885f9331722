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
	"io"
	"strings"
	"time"
)

const MinRefreshRate = time.Millisecond * 500

const barLength = 20

var spinner = []byte{'|', '/', '-', '\\'}

// Bar renders the progress of an audit on a single terminal line.
// It is not safe for concurrent use.
type Bar struct {
	w          io.Writer
	total      int
	done       int
	indefinite bool
	spin       int
	startTime  time.Time
	lastUpdate time.Time
	lineLen    int
}

func New(w io.Writer) *Bar {
	return &Bar{
		w:         w,
		startTime: time.Now(),
	}
}

// SetIndefinite switches to a spinner, used while the amount of work is
// still unknown.
func (b *Bar) SetIndefinite() {
	b.indefinite = true
	b.render(true)
}

// SetMaximum sets the number of files the audit will process.
func (b *Bar) SetMaximum(n int) {
	b.indefinite = false
	b.total = n
	b.done = 0
	b.startTime = time.Now()
	b.render(true)
}

// Report records that file i is about to be processed, so i files are done.
func (b *Bar) Report(i int) {
	b.done = i
	b.render(false)
}

// Clear erases the bar, so that other output can be printed on the line.
// The bar is drawn again by the next update.
func (b *Bar) Clear() {
	if b.lineLen == 0 {
		return
	}
	fmt.Fprintf(b.w, "\r%s\r", strings.Repeat(" ", b.lineLen))
	b.lineLen = 0
}

// Finish draws the completed bar and moves to the next line.
func (b *Bar) Finish() {
	b.indefinite = false
	b.done = b.total
	b.render(true)
	fmt.Fprintln(b.w)
	b.lineLen = 0
}

func (b *Bar) render(force bool) {
	if !force && time.Since(b.lastUpdate) < MinRefreshRate {
		return
	}
	b.lastUpdate = time.Now()

	var line string
	if b.indefinite {
		line = fmt.Sprintf("[INFO] Enumerating files... %c", spinner[b.spin%len(spinner)])
		b.spin++
	} else {
		line = b.progressLine()
	}

	fmt.Fprintf(b.w, "\r%s", line)
	if pad := b.lineLen - len(line); pad > 0 {
		fmt.Fprint(b.w, strings.Repeat(" ", pad))
	}
	b.lineLen = len(line)
}

func (b *Bar) progressLine() string {
	percentage := 100.0
	if b.total > 0 {
		percentage = float64(b.done) / float64(b.total) * 100
	}

	filled := int(float64(barLength) * percentage / 100)
	var bar string
	if filled >= barLength {
		bar = strings.Repeat("=", barLength)
	} else {
		bar = strings.Repeat("=", filled) + ">" + strings.Repeat(" ", barLength-filled-1)
	}

	elapsed := time.Since(b.startTime).Seconds()

	eta := "calculating..."
	if b.done > 0 && elapsed > 0 {
		rate := float64(b.done) / elapsed
		remaining := time.Duration(float64(b.total-b.done) / rate * float64(time.Second))
		eta = fmt.Sprintf("%02d:%02d:%02d remaining",
			int(remaining.Hours()),
			int(remaining.Minutes())%60,
			int(remaining.Seconds())%60)
	}

	return fmt.Sprintf("[INFO] Progress: [%s] %3.0f%% (%d/%d files) [%s]",
		bar,
		percentage,
		b.done,
		b.total,
		eta)
}
