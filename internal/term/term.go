// Package term reports whether a file descriptor refers to a terminal.
package term

import "os"

// IsTerminal reports whether fd is attached to a terminal.
func IsTerminal(fd uintptr) bool {
	return isTerminal(fd)
}

// IsTerminalFile is a shorthand for IsTerminal(f.Fd()). A nil file is never
// a terminal.
func IsTerminalFile(f *os.File) bool {
	if f == nil {
		return false
	}
	return isTerminal(f.Fd())
}
