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
package sysinfo

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

const unknown = "unknown"

// SysInfo holds basic operating system details.
type SysInfo struct {
	Name    string // runtime.GOOS
	Release string // distribution or product name, e.g. "Ubuntu", "macOS"
	Version string // release version
}

// Stat describes the running operating system. Fields that cannot be
// determined are set to "unknown"; Stat never fails.
func Stat() SysInfo {
	info := SysInfo{Name: runtime.GOOS, Release: unknown, Version: unknown}

	switch runtime.GOOS {
	case "linux":
		if f, err := os.Open("/etc/os-release"); err == nil {
			defer f.Close()
			info.Release, info.Version = parseKeyValues(f, "=", "NAME", "VERSION")
		}
	case "darwin":
		if out, err := exec.Command("sw_vers").Output(); err == nil {
			info.Release, info.Version = parseKeyValues(bytes.NewReader(out), ":", "ProductName", "ProductVersion")
		}
	case "windows":
		info.Release = "Windows"
		if out, err := exec.Command("cmd", "/c", "ver").Output(); err == nil {
			info.Version = strings.TrimSpace(string(out))
		}
	}
	return info
}

// parseKeyValues scans "key<sep>value" lines and returns the values of the
// two requested keys, unquoted. Missing keys yield "unknown".
func parseKeyValues(r io.Reader, sep, nameKey, versionKey string) (string, string) {
	name, version := unknown, unknown

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		key, value, ok := strings.Cut(sc.Text(), sep)
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.TrimSpace(key) {
		case nameKey:
			name = value
		case versionKey:
			version = value
		}
	}
	return name, version
}
