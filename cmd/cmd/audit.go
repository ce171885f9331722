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
package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ostafen/extfix/internal/audit"
	"github.com/ostafen/extfix/internal/classify"
	"github.com/ostafen/extfix/internal/logger"
	"github.com/ostafen/extfix/internal/term"
	"github.com/ostafen/extfix/pkg/pbar"
	fmtutil "github.com/ostafen/extfix/pkg/util/format"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func DefineAuditCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [dir...]",
		Short: "Check that file extensions match file contents",
		Long: `The 'audit' command walks the given directories and compares the leading bytes of every file
with a catalog of known signatures. Files whose extension does not match their content are reported and,
with --rename, get the detected extension appended. Arguments that are not directories are ignored.`,
		SilenceUsage: true,
		RunE:         RunAudit,
	}

	addAuditFlags(cmd)
	cmd.Flags().Bool("no-progress", false, "do not draw a progress bar")

	return cmd
}

func RunAudit(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diag, logCloser, err := logger.Setup(opts.LogFile, logger.ParseLevel(opts.LogLevel))
	if err != nil {
		return err
	}
	defer logCloser.Close()

	out := logger.New(cmd.OutOrStdout())
	showProgress := !opts.NoProgress && term.IsTerminalFile(os.Stdout)

	_, err = runAudit(ctx, afero.NewOsFs(), directories(args), opts, out, diag, showProgress)
	return err
}

// runAudit audits dirs one after the other, each with its own run state,
// and prints a summary of the whole run. An interrupted run still prints
// the partial summary and returns ctx.Err().
func runAudit(
	ctx context.Context,
	fsys afero.Fs,
	dirs []string,
	opts runOptions,
	out *logger.Logger,
	diag *slog.Logger,
	showProgress bool,
) (audit.Summary, error) {
	auditorOpts := []audit.Option{audit.WithLogger(diag)}

	if opts.Report != "" {
		rec, err := createReport(opts.Report, dirs, opts.Audit)
		if err != nil {
			return audit.Summary{}, err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				out.Errorf("unable to write report: %v", err)
			}
		}()
		auditorOpts = append(auditorOpts, audit.WithRecorder(rec))
	}

	a := audit.New(fsys, classify.New(opts.Catalog), auditorOpts...)

	out.Infof("Starting audit...")
	out.Infof("Directories: \t%s", strings.Join(dirs, ", "))
	out.Infof("Signatures: \t%d", opts.Catalog.Len())
	if opts.Audit.Rename {
		out.Infof("Mismatched files will be renamed")
	}

	start := time.Now()

	var (
		total       audit.Summary
		interrupted error
	)
	for _, dir := range dirs {
		var progress audit.ProgressSink = audit.NopProgress{}

		var bar *pbar.Bar
		if showProgress {
			bar = pbar.New(os.Stdout)
			out.BeforeWrite(bar.Clear)
			progress = bar
		}

		sum, err := a.Audit(ctx, dir, opts.Audit, progress, out)
		total.Merge(sum)

		if bar != nil {
			bar.Finish()
			out.BeforeWrite(nil)
		}

		if err != nil {
			if errors.Is(err, context.Canceled) {
				out.Warnf("Audit interrupted")
				interrupted = err
				break
			}
			return total, err
		}
	}

	printSummary(out, total, time.Since(start))

	if opts.Report != "" {
		out.Infof("Report saved to: \t%s", absPath(opts.Report))
	}
	if opts.LogFile != "" {
		out.Infof("Detailed log: \t%s", absPath(opts.LogFile))
	}
	return total, interrupted
}

func printSummary(out *logger.Logger, sum audit.Summary, elapsed time.Duration) {
	out.Infof("Audit completed!")
	out.Infof("Files: \t%d (%s)", sum.Files, fmtutil.FormatBytes(sum.Bytes))
	out.Infof("Skipped: \t%d", sum.Skipped)
	out.Infof("Unknown: \t%d", sum.Unknown)
	out.Infof("Mismatched: \t%d", sum.Mismatched)
	out.Infof("Renamed: \t%d", sum.Renamed)
	out.Infof("Failed: \t%d", sum.Failed)
	out.Infof("Duration: \t%s", fmtutil.FormatDuration(elapsed))
}
