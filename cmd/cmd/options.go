package cmd

import (
	"fmt"
	"os"

	"github.com/ostafen/extfix/internal/audit"
	"github.com/ostafen/extfix/internal/config"
	"github.com/ostafen/extfix/internal/signature"
	"github.com/spf13/cobra"
)

// runOptions merges the configuration file with the command line flags.
// Flags set explicitly always win.
type runOptions struct {
	Audit      audit.Options
	Catalog    *signature.Catalog
	LogFile    string
	LogLevel   string
	Report     string
	NoProgress bool
}

func addAuditFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false, "log files whose extension is correct and disable deduplication")
	cmd.Flags().BoolP("rename", "r", false, "append the detected extension to mismatched files")
	cmd.Flags().StringSlice("skip", nil, "extensions that are never inspected (default exe,dll,pdb)")
	cmd.Flags().String("report", "", "write an XML report of the audit to the specified file")
}

func parseOptions(cmd *cobra.Command) (runOptions, error) {
	cfg := &config.Config{}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		c, err := config.Load(path)
		if err != nil {
			return runOptions{}, err
		}
		cfg = c
	}

	overrideConfig(cmd, cfg)

	cat, err := cfg.Catalog()
	if err != nil {
		return runOptions{}, fmt.Errorf("invalid signatures: %w", err)
	}

	return runOptions{
		Audit: audit.Options{
			Verbose: cfg.Verbose,
			Rename:  cfg.Rename,
			Skip:    cfg.Skip,
		},
		Catalog:    cat,
		LogFile:    cfg.LogFile,
		LogLevel:   cfg.LogLevel,
		Report:     cfg.Report,
		NoProgress: cfg.NoProgress,
	}, nil
}

func overrideConfig(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("rename") {
		cfg.Rename, _ = flags.GetBool("rename")
	}
	if flags.Changed("skip") {
		skip, _ := flags.GetStringSlice("skip")
		cfg.Skip = make([]string, len(skip))
		for i, ext := range skip {
			cfg.Skip[i] = config.NormalizeExt(ext)
		}
	}
	if flags.Changed("report") {
		cfg.Report, _ = flags.GetString("report")
	}
	if flags.Lookup("no-progress") != nil && flags.Changed("no-progress") {
		cfg.NoProgress, _ = flags.GetBool("no-progress")
	}
	if flags.Changed("log-file") || cfg.LogFile == "" {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
}

// directories returns the arguments that name existing directories. Other
// arguments are ignored.
func directories(args []string) []string {
	var dirs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			continue
		}
		dirs = append(dirs, arg)
	}
	return dirs
}
