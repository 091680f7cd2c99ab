package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

type globalFlags struct {
	verbose    int
	logFile    string
	configPath string
	classpath  []string
	sourcepath []string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:          "caret",
		Short:        "Completion context for Java sources",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if flags.logFile != "" {
				path = &flags.logFile
			}
			commonlog.Configure(flags.verbose, path)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&flags.verbose, "verbose", "v", "increase log verbosity")
	rootCmd.PersistentFlags().StringVar(&flags.logFile, "log-file", "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "path to caret.yaml (default: searched from the working directory)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.classpath, "classpath", nil, "class path entries or globs, replacing the configured ones")
	rootCmd.PersistentFlags().StringSliceVar(&flags.sourcepath, "sourcepath", nil, "source roots, replacing the configured ones")

	rootCmd.AddCommand(newCompleteCmd(&flags))
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newClasspathCmd(&flags))
	rootCmd.AddCommand(newLSPCmd(&flags))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
