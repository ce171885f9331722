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
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ParseLevel maps a level name to a slog level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Logger prints audit lines and status messages to the console.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	before func()
}

func New(w io.Writer) *Logger {
	return &Logger{out: w}
}

// BeforeWrite registers f to be called before every write, e.g. to erase
// a progress bar drawn on the same terminal line.
func (l *Logger) BeforeWrite(f func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.before = f
}

func (l *Logger) write(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.before != nil {
		l.before()
	}
	fmt.Fprintln(l.out, msg)
}

// Log prints line as is.
func (l *Logger) Log(line string) { l.write(line) }

func (l *Logger) Infof(format string, args ...any) {
	l.write("[INFO] " + fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.write("[WARN] " + fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.write("[ERROR] " + fmt.Sprintf(format, args...))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup returns a slog.Logger writing text records to logFilePath, or
// discarding everything when logFilePath is empty. The returned closer
// must be closed by the caller.
func Setup(logFilePath string, minLevel slog.Level) (*slog.Logger, io.Closer, error) {
	var (
		writer io.Writer = io.Discard
		closer io.Closer = nopCloser{}
	)

	if logFilePath != "" {
		logDir := filepath.Dir(logFilePath)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %q: %w", logDir, err)
		}

		f, err := os.OpenFile(logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %q: %w", logFilePath, err)
		}
		writer = f
		closer = f
	}

	handler := slog.NewTextHandler(writer, &slog.HandlerOptions{
		Level:     minLevel,
		AddSource: true,
	})
	return slog.New(handler), closer, nil
}
