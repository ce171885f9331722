package audit

// ProgressSink receives the progress of an audit. SetIndefinite is called
// once before files are enumerated, SetMaximum once with the number of
// files found, then Report once per file with values 0..n-1.
type ProgressSink interface {
	SetIndefinite()
	SetMaximum(n int)
	Report(i int)
}

// LogSink receives one human readable line per event. Lines start with
// '+' (ok, verbose only), '!' (warning, mismatch, rename) or '?' (unknown
// format).
type LogSink interface {
	Log(line string)
}

// LogFunc adapts a function to LogSink.
type LogFunc func(line string)

func (f LogFunc) Log(line string) { f(line) }

// NopProgress discards progress updates.
type NopProgress struct{}

func (NopProgress) SetIndefinite()   {}
func (NopProgress) SetMaximum(n int) {}
func (NopProgress) Report(i int)     {}
