package cmd

import (
	"github.com/ostafen/extfix/internal/env"
	"github.com/spf13/cobra"
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     env.AppName,
		Short:   env.AppName + " - detect and fix misleading file extensions",
		Version: env.Version,
	}

	rootCmd.PersistentFlags().String("config", "", "path of a YAML configuration file")
	rootCmd.PersistentFlags().String("log-file", "", "write a diagnostic log to the specified file")
	rootCmd.PersistentFlags().String("log-level", "info", "level of the diagnostic log (debug, info, warn, error)")

	rootCmd.AddCommand(DefineAuditCommand())
	rootCmd.AddCommand(DefineWatchCommand())
	rootCmd.AddCommand(DefineFormatsCommand())

	return rootCmd
}

func Execute() error {
	return NewRootCommand().Execute()
}
