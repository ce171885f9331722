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
package audit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ostafen/extfix/internal/classify"
	"github.com/spf13/afero"
)

// DefaultSkip lists the extensions of binaries that are never inspected.
var DefaultSkip = []string{"exe", "dll", "pdb"}

type Options struct {
	Verbose bool // log every match and disable deduplication
	Rename  bool // append the detected extension to mismatched files
	// Skip lists extensions that are never opened. Nil means DefaultSkip.
	Skip []string
}

func (o Options) skipped(ext string) bool {
	if o.Skip == nil {
		return slices.Contains(DefaultSkip, ext)
	}
	return slices.Contains(o.Skip, ext)
}

// Recorder receives the result of every file an Auditor looks at.
type Recorder interface {
	Record(res FileResult) error
}

type Auditor struct {
	fs       afero.Fs
	cls      *classify.Classifier
	logger   *slog.Logger
	recorder Recorder
}

type Option func(*Auditor)

// WithLogger sets the logger used for diagnostics. Defaults to a logger
// discarding everything.
func WithLogger(l *slog.Logger) Option {
	return func(a *Auditor) {
		a.logger = l
	}
}

func WithRecorder(r Recorder) Option {
	return func(a *Auditor) {
		a.recorder = r
	}
}

func New(fsys afero.Fs, cls *classify.Classifier, opts ...Option) *Auditor {
	a := &Auditor{
		fs:     fsys,
		cls:    cls,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Ext returns the lower case extension of path, without the dot.
func Ext(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Audit inspects every file below root, sequentially. Failures on single
// files or subtrees are logged and do not stop the audit; only a cancelled
// ctx does, in which case the partial summary is returned with ctx.Err().
func (a *Auditor) Audit(
	ctx context.Context,
	root string,
	opts Options,
	progress ProgressSink,
	log LogSink,
) (Summary, error) {
	state := NewRunState(opts.Verbose)

	progress.SetIndefinite()
	files := a.enumerate(root, log)
	progress.SetMaximum(len(files))

	a.logger.Info("audit started", "root", root, "files", len(files), "verbose", opts.Verbose, "rename", opts.Rename)

	var sum Summary
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			a.logger.Warn("audit interrupted", "root", root, "processed", i)
			return sum, err
		}

		progress.Report(i)
		sum.Add(a.InspectFile(path, state, opts, log))
	}

	a.logger.Info("audit completed",
		"root", root,
		"files", sum.Files,
		"unknown", sum.Unknown,
		"mismatched", sum.Mismatched,
		"renamed", sum.Renamed,
		"failed", sum.Failed,
	)
	return sum, nil
}

func (a *Auditor) enumerate(root string, log LogSink) []string {
	info, err := a.fs.Stat(root)
	if err != nil {
		log.Log(fmt.Sprintf("! unable to enumerate %s", root))
		a.logger.Error("enumeration failed", "path", root, "err", err)
		return nil
	}
	if !info.IsDir() {
		return []string{root}
	}

	var files []string
	a.walkDir(root, info, nil, &files, log)
	return files
}

// walkDir appends the files below dir to files, following symbolic links.
// ancestors holds the directories on the current path, so that a link
// pointing back to one of them is not followed again.
func (a *Auditor) walkDir(dir string, info fs.FileInfo, ancestors []fs.FileInfo, files *[]string, log LogSink) {
	entries, err := afero.ReadDir(a.fs, dir)
	if err != nil {
		log.Log(fmt.Sprintf("! unable to enumerate %s", dir))
		a.logger.Error("enumeration failed", "path", dir, "err", err)
		return
	}
	ancestors = append(ancestors, info)

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.Mode()&fs.ModeSymlink != 0 {
			// a dangling link stays a file and fails on open
			if target, err := a.fs.Stat(path); err == nil {
				entry = target
			}
		}

		if !entry.IsDir() {
			*files = append(*files, path)
			continue
		}

		if slices.ContainsFunc(ancestors, func(fi fs.FileInfo) bool { return os.SameFile(fi, entry) }) {
			a.logger.Warn("directory cycle skipped", "path", path)
			continue
		}
		a.walkDir(path, entry, ancestors, files, log)
	}
}

// InspectFile classifies a single file, logs what state allows and, when
// opts.Rename is set, fixes its extension. The result is also handed to the
// Recorder, if any.
func (a *Auditor) InspectFile(path string, state *RunState, opts Options, log LogSink) FileResult {
	res := a.inspect(path, state, opts, log)

	if a.recorder != nil {
		if err := a.recorder.Record(res); err != nil {
			a.logger.Error("unable to record result", "path", path, "err", err)
		}
	}
	return res
}

func (a *Auditor) inspect(path string, state *RunState, opts Options, log LogSink) FileResult {
	res := FileResult{
		Path: path,
		Ext:  Ext(path),
	}

	if opts.skipped(res.Ext) {
		res.Skipped = true
		a.logger.Debug("file skipped", "path", path)
		return res
	}

	header, size, err := a.readHeader(path)
	if err != nil {
		res.Err = err
		log.Log(fmt.Sprintf("! unable to inspect file %s", path))
		a.logger.Error("unable to inspect file", "path", path, "err", err)
		return res
	}

	res.Header = header
	res.Size = size
	res.Outcomes = a.cls.Classify(header, res.Ext)
	if res.Outcomes.Unknown() {
		res.Hint = guessExt(header)
	}

	a.logOutcomes(&res, state, log)

	if opts.Rename {
		a.fix(&res, log)
	}
	return res
}

func (a *Auditor) readHeader(path string) ([]byte, int64, error) {
	f, err := a.fs.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var size int64
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}

	buf := make([]byte, a.cls.HeaderLength())
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, size, err
	}
	return buf[:n], size, nil
}

func (a *Auditor) logOutcomes(res *FileResult, state *RunState, log LogSink) {
	for _, o := range res.Outcomes {
		a.logger.Debug("file classified", "path", res.Path, "outcome", o.Kind.String(), "format", formatName(o))

		switch o.Kind {
		case classify.MatchedCorrect:
			if state.ShouldLog(o.Kind, "") {
				log.Log(fmt.Sprintf("+ %s - OK (%s)", res.Path, o.Signature.Ext))
			}
		case classify.MatchedCategoryOk:
			if state.ShouldLog(o.Kind, "") {
				log.Log(fmt.Sprintf("+ %s - detected as (%s)", res.Path, o.Signature.Name))
			}
		case classify.MatchedCategoryWarn:
			if state.ShouldLog(o.Kind, WarningKey(res.Ext, o.Signature.Name)) {
				log.Log(fmt.Sprintf("! %s - detected as (%s), unexpected file extension!", res.Path, o.Signature.Name))
			}
		case classify.MismatchSuggestRename:
			if state.ShouldLog(o.Kind, "") {
				log.Log(fmt.Sprintf("! %s - should be %s", res.Path, o.Suggested))
			}
		case classify.Unknown:
			if state.ShouldLog(o.Kind, res.Ext) {
				log.Log(unknownLine(res))
			}
		}
	}
}

func unknownLine(res *FileResult) string {
	line := fmt.Sprintf("? %s - unknown file format: [%s] [%s]",
		res.Path,
		hexDump(res.Header),
		asciiDump(res.Header),
	)
	if res.Hint != "" {
		line += " hint: " + res.Hint
	}
	return line
}

func formatName(o classify.Outcome) string {
	if o.Signature == nil {
		return ""
	}
	return o.Signature.Name
}

// renameTarget picks the extension a file should be renamed to. A file is
// only renamed when its mismatches agree on a single extension and no
// signature accepts the current one.
func renameTarget(res classify.Result) (ext string, candidates []string) {
	if res.Has(classify.MatchedCorrect) {
		return "", nil
	}

	for _, o := range res.Mismatches() {
		if !slices.Contains(candidates, o.Suggested) {
			candidates = append(candidates, o.Suggested)
		}
	}
	if len(candidates) != 1 {
		return "", candidates
	}
	return candidates[0], candidates
}

func (a *Auditor) fix(res *FileResult, log LogSink) {
	ext, candidates := renameTarget(res.Outcomes)
	if ext == "" {
		if len(candidates) > 1 {
			log.Log(fmt.Sprintf("! %s - ambiguous format (%s), not renamed", res.Path, strings.Join(candidates, ", ")))
			a.logger.Warn("ambiguous rename", "path", res.Path, "candidates", candidates)
		}
		return
	}

	dest := res.Path + "." + ext
	if err := a.rename(res.Path, dest); err != nil {
		res.Err = err
		log.Log(fmt.Sprintf("! %s - cannot rename: %v", res.Path, err))
		a.logger.Error("rename failed", "path", res.Path, "dest", dest, "err", err)
		return
	}

	res.RenamedTo = dest
	log.Log(fmt.Sprintf("! %s - adding file extension %s", res.Path, ext))
	a.logger.Info("file renamed", "path", res.Path, "dest", dest)
}

// rename moves src to dst, refusing to overwrite an existing file.
func (a *Auditor) rename(src, dst string) error {
	_, err := a.fs.Stat(dst)
	switch {
	case err == nil:
		return fmt.Errorf("%s: %w", dst, ErrDestinationExists)
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("failed to stat %q: %w", dst, err)
	}
	return a.fs.Rename(src, dst)
}
