package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ostafen/extfix/internal/audit"
	"github.com/ostafen/extfix/internal/classify"
	"github.com/ostafen/extfix/internal/env"
	"github.com/ostafen/extfix/internal/signature"
	"github.com/ostafen/extfix/pkg/report"
)

// reportRecorder writes every audited file to an XML report.
type reportRecorder struct {
	f *os.File
	w *report.Writer
}

func createReport(path string, roots []string, opts audit.Options) (*reportRecorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create report %q: %w", path, err)
	}

	absRoots := make([]string, len(roots))
	for i, r := range roots {
		absRoots[i] = absPath(r)
	}

	w := report.NewWriter(f)
	err = w.WriteHeader(report.Header{
		Creator: report.Creator{
			Package:              env.AppName,
			Version:              env.Version,
			ExecutionEnvironment: report.GetExecEnv(),
		},
		Source: report.Source{
			Roots:   absRoots,
			Verbose: opts.Verbose,
			Rename:  opts.Rename,
		},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	return &reportRecorder{f: f, w: w}, nil
}

func (r *reportRecorder) Record(res audit.FileResult) error {
	return r.w.WriteFile(reportFile(res))
}

func (r *reportRecorder) Close() error {
	if err := r.w.Close(); err != nil {
		r.f.Close()
		return err
	}
	return r.f.Close()
}

func reportFile(res audit.FileResult) report.File {
	f := report.File{
		Path:      res.Path,
		Ext:       res.Ext,
		Size:      res.Size,
		Skipped:   res.Skipped,
		Hint:      res.Hint,
		RenamedTo: res.RenamedTo,
	}

	for _, o := range res.Outcomes {
		m := report.Match{
			Kind:      o.Kind.String(),
			Suggested: o.Suggested,
		}
		if o.Signature != nil {
			m.Format = o.Signature.Name
		}
		f.Matches = append(f.Matches, m)
	}

	if res.Outcomes.Has(classify.Unknown) {
		f.Header = signature.FormatPattern(res.Header)
	}
	if res.Err != nil {
		f.Error = res.Err.Error()
	}
	return f
}

func absPath(path string) string {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
