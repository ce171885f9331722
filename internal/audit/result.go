package audit

import (
	"errors"

	"github.com/ostafen/extfix/internal/classify"
)

var ErrDestinationExists = errors.New("destination already exists")

// FileResult is the outcome of inspecting a single file.
type FileResult struct {
	Path     string
	Ext      string
	Size     int64
	Skipped  bool
	Header   []byte
	Outcomes classify.Result
	// Hint is filetype's guess for headers no signature recognized.
	Hint      string
	RenamedTo string
	// Err is set when the file could not be read or renamed.
	Err error
}

// Summary aggregates the results of an audit.
type Summary struct {
	Files      int
	Skipped    int
	Failed     int
	Unknown    int
	Mismatched int
	Renamed    int
	Bytes      int64
}

func (s *Summary) Add(r FileResult) {
	s.Files++
	s.Bytes += r.Size

	switch {
	case r.Skipped:
		s.Skipped++
		return
	case r.Err != nil:
		s.Failed++
	}

	if r.Outcomes.Unknown() {
		s.Unknown++
	}
	if r.Outcomes.Has(classify.MismatchSuggestRename) {
		s.Mismatched++
	}
	if r.RenamedTo != "" {
		s.Renamed++
	}
}

// Merge adds the counters of o to s.
func (s *Summary) Merge(o Summary) {
	s.Files += o.Files
	s.Skipped += o.Skipped
	s.Failed += o.Failed
	s.Unknown += o.Unknown
	s.Mismatched += o.Mismatched
	s.Renamed += o.Renamed
	s.Bytes += o.Bytes
}
