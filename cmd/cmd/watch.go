package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ostafen/extfix/internal/audit"
	"github.com/ostafen/extfix/internal/classify"
	"github.com/ostafen/extfix/internal/logger"
	"github.com/ostafen/extfix/internal/watch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func DefineWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <dir...>",
		Short: "Audit files as they are created or modified",
		Long: `The 'watch' command keeps auditing the given directories until interrupted. Every file that is
created or written is checked once it stops changing. Warnings are deduplicated over the whole session.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         RunWatch,
	}

	addAuditFlags(cmd)
	cmd.Flags().Duration("settle", watch.DefaultSettle, "how long a file must stay unchanged before it is audited")

	return cmd
}

func RunWatch(cmd *cobra.Command, args []string) error {
	opts, err := parseOptions(cmd)
	if err != nil {
		return err
	}
	settle, _ := cmd.Flags().GetDuration("settle")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	diag, logCloser, err := logger.Setup(opts.LogFile, logger.ParseLevel(opts.LogLevel))
	if err != nil {
		return err
	}
	defer logCloser.Close()

	out := logger.New(cmd.OutOrStdout())

	dirs := directories(args)
	if len(dirs) == 0 {
		out.Warnf("No directory to watch")
		return nil
	}

	w, err := watch.New(settle, diag)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return err
		}
	}

	auditorOpts := []audit.Option{audit.WithLogger(diag)}
	if opts.Report != "" {
		rec, err := createReport(opts.Report, dirs, opts.Audit)
		if err != nil {
			w.Close()
			return err
		}
		defer func() {
			if err := rec.Close(); err != nil {
				out.Errorf("unable to write report: %v", err)
			}
		}()
		auditorOpts = append(auditorOpts, audit.WithRecorder(rec))
	}

	a := audit.New(afero.NewOsFs(), classify.New(opts.Catalog), auditorOpts...)
	state := audit.NewRunState(opts.Audit.Verbose)

	var sum audit.Summary
	start := time.Now()
	out.Infof("Watching %d directories, press Ctrl+C to stop", len(dirs))

	err = w.Run(ctx, func(path string) {
		sum.Add(a.InspectFile(path, state, opts.Audit, out))
	})

	printSummary(out, sum, time.Since(start))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
